package storage

import (
	"context"
	"time"

	"github.com/tradeweave/wallet-ledger/pkg/models"
)

// WithdrawalStore manages cash-outs. The wallet is debited when the request
// is accepted; the asynchronous payout confirmation completes or reverses it.
type WithdrawalStore interface {
	// CreateWithdrawal atomically debits the wallet's available balance and
	// persists the request as pending. Fails with ErrInsufficientFunds when
	// the balance does not cover the amount. A replay carrying the same
	// idempotency key returns the original request without debiting again.
	CreateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) (*models.WithdrawalRequest, error)

	// GetWithdrawal retrieves a withdrawal request by its ID.
	GetWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error)

	// SumWithdrawalsSince totals the wallet's non-reversed withdrawal amounts
	// created at or after the cutoff. Used for the daily-limit check.
	SumWithdrawalsSince(ctx context.Context, walletID string, since time.Time) (int64, error)

	// MarkWithdrawalProcessing records the payout dispatch: pending ->
	// processing with the gateway's opaque reference.
	MarkWithdrawalProcessing(ctx context.Context, id, gatewayRef string) (*models.WithdrawalRequest, error)

	// CompleteWithdrawal finalizes a confirmed payout. The debit already
	// happened at request time, so no balance moves. Completing a withdrawal
	// that is already terminal is a no-op.
	CompleteWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error)

	// ReverseWithdrawal credits the amount back to the wallet and marks the
	// request reversed, all in one atomic unit. Reversing a withdrawal that
	// is already terminal is a no-op that does not credit twice.
	ReverseWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error)

	// ListStuckWithdrawals returns pending withdrawals older than the given
	// age, for the reconciliation sweep to re-dispatch.
	ListStuckWithdrawals(ctx context.Context, olderThan time.Duration) ([]models.WithdrawalRequest, error)
}
