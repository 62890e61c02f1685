package storage

import (
	"context"
	"time"

	"github.com/tradeweave/wallet-ledger/pkg/models"
)

// SettlementStore schedules and executes seller payouts. Execution is the
// privileged operation: it credits the seller net of commission and books the
// platform's cut in the same atomic unit.
type SettlementStore interface {
	// CreateSettlement persists a settlement with frozen commission figures
	// in `scheduled` state.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) (*models.Settlement, error)

	// GetSettlement retrieves a settlement by its ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ExecuteSettlement credits the seller's wallet with the net amount,
	// credits the platform revenue wallet with commission plus fees, and
	// marks the settlement completed, all in one atomic unit. Executing an
	// already-completed settlement is a no-op.
	ExecuteSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListDueSettlements returns scheduled (and previously failed)
	// settlements whose scheduled time has passed.
	ListDueSettlements(ctx context.Context, now time.Time, limit int32) ([]models.Settlement, error)

	// MarkSettlementFailed records a failed execution attempt. Failed
	// settlements are retried by the next sweep, never dropped.
	MarkSettlementFailed(ctx context.Context, settlementID string, cause error) error
}
