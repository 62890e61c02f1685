package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/tradeweave/wallet-ledger/pkg/models"
)

// maxSQSDelay is the longest delay SQS accepts on a single message (15
// minutes). Settlements scheduled further out than this are re-driven by the
// reconciliation sweep, which picks up due settlements regardless of how
// they were enqueued.
const maxSQSDelay = 15 * time.Minute

// SQSScheduler implements the Scheduler interface using AWS SQS.
type SQSScheduler struct {
	Client   *sqs.Client
	QueueURL string
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client *sqs.Client, queueURL string) *SQSScheduler {
	return &SQSScheduler{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Scheduler = (*SQSScheduler)(nil)

// ScheduleSettlement sends the settlement to an SQS queue for execution
// after the delay.
func (s *SQSScheduler) ScheduleSettlement(ctx context.Context, settlement *models.Settlement, delay time.Duration) error {
	body, err := json.Marshal(settlement)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement for SQS: %w", err)
	}

	if delay > maxSQSDelay {
		delay = maxSQSDelay
	}
	if delay < 0 {
		delay = 0
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(s.QueueURL),
		MessageBody:  aws.String(string(body)),
		DelaySeconds: int32(delay / time.Second),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
