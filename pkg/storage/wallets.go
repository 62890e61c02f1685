package storage

import (
	"context"

	"github.com/tradeweave/wallet-ledger/pkg/models"
)

// WalletStore defines the interface for reading wallets. Wallets are created
// lazily by the first monetary event against them and are never deleted.
type WalletStore interface {
	// GetWallet retrieves a user's wallet by their user ID. Returns
	// ErrNotFound if no monetary event has touched the wallet yet.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)

	// EnsureWallet returns the wallet for the user, creating an empty one if
	// this is the user's first monetary event.
	EnsureWallet(ctx context.Context, userID string) (*models.Wallet, error)

	// ListWallets retrieves all wallets from the storage.
	ListWallets(ctx context.Context) ([]models.Wallet, error)
}
