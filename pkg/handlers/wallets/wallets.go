package wallets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/tradeweave/wallet-ledger/pkg/api"
	"github.com/tradeweave/wallet-ledger/pkg/mapping"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
)

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Store storage.WalletStore
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(store storage.WalletStore) *WalletsHandler {
	return &WalletsHandler{Store: store}
}

// GetWalletByUserId handles the logic for retrieving a user's wallet.
func (h *WalletsHandler) GetWalletByUserId(w http.ResponseWriter, r *http.Request, userId string) {
	domainWallet, err := h.Store.GetWallet(r.Context(), userId)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Wallet not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve wallet: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiWallet := mapping.ToApiWallet(domainWallet)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiWallet); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListWallets handles the logic for retrieving all wallets.
func (h *WalletsHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	domainWallets, err := h.Store.ListWallets(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve wallets: %v", err), http.StatusInternalServerError)
		return
	}

	// Sort wallets by CreatedAt in descending order.
	sort.Slice(domainWallets, func(i, j int) bool {
		return domainWallets[i].CreatedAt.After(domainWallets[j].CreatedAt)
	})

	apiWallets := make([]*api.Wallet, len(domainWallets))
	for i, wallet := range domainWallets {
		apiWallets[i] = mapping.ToApiWallet(&wallet)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiWallets); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
