package storage

import (
	"context"

	"github.com/tradeweave/wallet-ledger/pkg/models"
)

// DisputeStore arbitrates contested locks.
type DisputeStore interface {
	// CreateDispute opens a dispute against an active lock, freezing the lock
	// against expiry and automatic release. Fails with
	// ErrInvalidStateTransition when the lock is not active.
	CreateDispute(ctx context.Context, dispute *models.Dispute) (*models.Dispute, error)

	// GetDispute retrieves a dispute by its ID.
	GetDispute(ctx context.Context, disputeID string) (*models.Dispute, error)

	// ResolveDispute applies the resolution to the contested funds and marks
	// the dispute resolved, all in one atomic unit. split is required for
	// partial_release and validated before any mutation. Replaying the same
	// resolution against an already-resolved dispute is a no-op.
	ResolveDispute(ctx context.Context, disputeID string, resolution models.Resolution, split *models.PartialSplit) (*models.Dispute, error)
}
