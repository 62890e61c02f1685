package storage

import (
	"context"

	"github.com/tradeweave/wallet-ledger/pkg/models"
)

// LedgerStore is the single source of truth for balances. Every balance
// mutation in the system is an entry append atomic with the wallet update.
type LedgerStore interface {
	// ApplyEntry applies a single credit or debit to a wallet and appends the
	// ledger entry in the same atomic unit. Amount must be positive. A debit
	// beyond the available balance fails with ErrInsufficientFunds unless the
	// wallet's negative-balance policy is enabled, in which case the
	// shortfall is recorded as negative balance.
	ApplyEntry(ctx context.Context, walletID string, entryType models.EntryType, amount int64, refType, refID string) (*models.LedgerEntry, error)

	// GetBalance returns a consistent snapshot of the wallet's buckets as of
	// the last committed entry.
	GetBalance(ctx context.Context, walletID string) (*models.Balance, error)

	// ListLedgerEntries retrieves the wallet's most recent entries,
	// newest first.
	ListLedgerEntries(ctx context.Context, walletID string, limit int32) ([]models.LedgerEntry, error)

	// ApplyFunding credits a wallet for an externally confirmed top-up. The
	// gateway reference acts as the replay guard: the first call applies the
	// credit and returns true, replays are no-ops returning false.
	ApplyFunding(ctx context.Context, reference, walletID string, amount int64) (bool, error)
}
