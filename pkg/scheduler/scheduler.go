package scheduler

import (
	"context"
	"time"

	"github.com/tradeweave/wallet-ledger/pkg/models"
)

// Scheduler enqueues a settlement for asynchronous execution after its
// holding delay elapses.
type Scheduler interface {
	ScheduleSettlement(ctx context.Context, settlement *models.Settlement, delay time.Duration) error
}
