package disputes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tradeweave/wallet-ledger/pkg/api"
	"github.com/tradeweave/wallet-ledger/pkg/mapping"
	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
)

// DisputesHandler holds the dependencies for dispute-related handlers.
type DisputesHandler struct {
	Store storage.DisputeStore
}

// NewDisputesHandler creates a new DisputesHandler.
func NewDisputesHandler(store storage.DisputeStore) *DisputesHandler {
	return &DisputesHandler{Store: store}
}

func writeError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, storage.ErrInvalidStateTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrIdempotencyMismatch):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrInvalidSplit):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, fmt.Sprintf("Failed to %s: %v", action, err), http.StatusInternalServerError)
	}
}

// CreateDispute handles the logic for opening a dispute against a lock.
func (h *DisputesHandler) CreateDispute(w http.ResponseWriter, r *http.Request) {
	var newDispute api.NewDispute
	if err := json.NewDecoder(r.Body).Decode(&newDispute); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newDispute.SellerWalletId == "" || newDispute.DisputedBy == "" {
		http.Error(w, "seller_wallet_id and disputed_by are required", http.StatusBadRequest)
		return
	}

	domainDispute := mapping.ToDomainNewDispute(&newDispute)
	createdDispute, err := h.Store.CreateDispute(r.Context(), domainDispute)
	if err != nil {
		writeError(w, "create dispute", err)
		return
	}

	apiDispute := mapping.ToApiDispute(createdDispute)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiDispute); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetDisputeById handles the logic for retrieving a dispute.
func (h *DisputesHandler) GetDisputeById(w http.ResponseWriter, r *http.Request, disputeId string) {
	domainDispute, err := h.Store.GetDispute(r.Context(), disputeId)
	if err != nil {
		writeError(w, "retrieve dispute", err)
		return
	}

	apiDispute := mapping.ToApiDispute(domainDispute)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiDispute); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ResolveDispute handles the logic for applying an arbiter ruling.
func (h *DisputesHandler) ResolveDispute(w http.ResponseWriter, r *http.Request, disputeId string) {
	var req api.ResolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	resolution := models.Resolution(req.Resolution)
	switch resolution {
	case models.ResolutionReleaseToBuyer, models.ResolutionReleaseToSeller,
		models.ResolutionPartialRelease, models.ResolutionHoldFunds:
	default:
		http.Error(w, fmt.Sprintf("Unknown resolution: %q", req.Resolution), http.StatusBadRequest)
		return
	}

	var split *models.PartialSplit
	if req.Split != nil {
		split = &models.PartialSplit{
			BuyerAmount:  req.Split.BuyerAmount,
			SellerAmount: req.Split.SellerAmount,
		}
	}

	resolvedDispute, err := h.Store.ResolveDispute(r.Context(), disputeId, resolution, split)
	if err != nil {
		writeError(w, "resolve dispute", err)
		return
	}

	apiDispute := mapping.ToApiDispute(resolvedDispute)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiDispute); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
