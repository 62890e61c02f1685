package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
	dydbstore "github.com/tradeweave/wallet-ledger/pkg/storage/dynamodb"
)

var store storage.ApiStore

func init() {
	// Load environment variables from .env file (useful for local testing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize dependencies once.
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	tables, err := dydbstore.TablesFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	store = dydbstore.New(dynamodb.NewFromConfig(cfg), tables)
}

// HandleRequest processes SQS messages and executes the settlements they
// carry. Execution is a no-op for settlements that already completed, so
// SQS's at-least-once delivery is safe.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var settlement models.Settlement
		if err := json.Unmarshal([]byte(message.Body), &settlement); err != nil {
			log.Printf("ERROR: failed to unmarshal settlement from SQS message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message.
			return err
		}

		// SQS delays cap out below long holding periods; an early message is
		// consumed without executing and the reconciliation sweep picks the
		// settlement up once it is due.
		if remaining := time.Until(settlement.ScheduledAt); remaining > 0 {
			log.Printf("Settlement %s not due for %s, deferring", settlement.ID, remaining)
			continue
		}

		if _, err := store.ExecuteSettlement(ctx, settlement.ID); err != nil {
			log.Printf("ERROR: failed to execute settlement %s: %v", settlement.ID, err)
			if markErr := store.MarkSettlementFailed(ctx, settlement.ID, err); markErr != nil {
				log.Printf("ERROR: failed to record settlement failure %s: %v", settlement.ID, markErr)
			}
			// The failed row is retried by the reconciliation sweep; the
			// message itself is consumed.
			continue
		}

		log.Printf("Successfully executed settlement %s", settlement.ID)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
