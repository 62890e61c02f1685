package storage

import (
	"context"

	"github.com/tradeweave/wallet-ledger/pkg/models"
)

// ReleaseOptions controls where a released lock's funds go. With a zero
// value the full amount returns to the locker's available balance.
type ReleaseOptions struct {
	// ToWalletID credits the held amount to a counterparty wallet instead of
	// returning it to the locker.
	ToWalletID string

	// Reason is recorded on the unlock ledger entry.
	Reason string

	// Expire marks the lock expired instead of released. Used by the
	// expired-lock sweep only.
	Expire bool
}

// LockStore manages conditional holds against wallet balances.
type LockStore interface {
	// CreateLock reserves lock.Amount from the wallet's available balance and
	// persists the lock as active, all in one atomic unit. Fails with
	// ErrInsufficientFunds when the balance does not cover the amount.
	// A replay carrying the same idempotency key returns the original lock
	// without moving funds again.
	CreateLock(ctx context.Context, lock *models.Lock) (*models.Lock, error)

	// GetLock retrieves a lock by its ID.
	GetLock(ctx context.Context, lockID string) (*models.Lock, error)

	// ReleaseLock moves the held amount out of the locked bucket. Releasing
	// an already-released lock is a successful no-op. Disputed locks can only
	// be released through dispute resolution.
	ReleaseLock(ctx context.Context, lockID string, opts ReleaseOptions) (*models.Lock, error)

	// SetReleaseConditions replaces the automatic-release predicate of an
	// active lock.
	SetReleaseConditions(ctx context.Context, lockID string, conditions []models.ReleaseCondition) (*models.Lock, error)

	// CheckAutomaticReleaseConditions releases every active lock on the
	// reference that carries a now-satisfied condition of the given type.
	// Returns the locks it released. One failing lock does not stop the rest.
	CheckAutomaticReleaseConditions(ctx context.Context, referenceID string, condition models.ConditionType) ([]models.Lock, error)

	// ProcessExpiredLocks force-releases active locks whose deadline has
	// passed, returning funds to the locker. Disputed locks are left alone
	// until their dispute resolves. Returns how many locks were expired.
	ProcessExpiredLocks(ctx context.Context) (int, error)
}
