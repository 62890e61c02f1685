package ledger

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tradeweave/wallet-ledger/pkg/api"
	"github.com/tradeweave/wallet-ledger/pkg/mapping"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
)

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Store storage.LedgerStore
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(store storage.LedgerStore) *LedgerHandler {
	return &LedgerHandler{Store: store}
}

// ListLedgerEntries returns a wallet's ledger lines, newest first.
func (h *LedgerHandler) ListLedgerEntries(w http.ResponseWriter, r *http.Request, walletId string) {
	limit := int32(20)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = int32(parsed)
	}

	domainEntries, err := h.Store.ListLedgerEntries(r.Context(), walletId, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve ledger entries: %v", err), http.StatusInternalServerError)
		return
	}

	apiEntries := make([]*api.LedgerEntry, len(domainEntries))
	for i, entry := range domainEntries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&entry)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiEntries); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
