package settlements

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tradeweave/wallet-ledger/pkg/api"
	"github.com/tradeweave/wallet-ledger/pkg/commission"
	"github.com/tradeweave/wallet-ledger/pkg/mapping"
	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/scheduler"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
	"github.com/tradeweave/wallet-ledger/pkg/tiers"
)

// SettlementsHandler holds the dependencies for settlement-related handlers.
type SettlementsHandler struct {
	Store     storage.SettlementStore
	Tiers     tiers.Source
	Scheduler scheduler.Scheduler
}

// NewSettlementsHandler creates a new SettlementsHandler.
func NewSettlementsHandler(store storage.SettlementStore, tierSource tiers.Source, sched scheduler.Scheduler) *SettlementsHandler {
	return &SettlementsHandler{Store: store, Tiers: tierSource, Scheduler: sched}
}

func writeError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, storage.ErrInvalidStateTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, fmt.Sprintf("Failed to %s: %v", action, err), http.StatusInternalServerError)
	}
}

// quote freezes the commission terms for an order at request time. A tier
// source failure falls back to the most conservative profile rather than
// blocking the settlement.
func (h *SettlementsHandler) quote(r *http.Request, req *api.NewSettlement) *models.Settlement {
	profile, err := h.Tiers.Profile(r.Context(), req.SellerId)
	if err != nil {
		slog.Error("tier lookup failed, defaulting", "sellerId", req.SellerId, "error", err)
		profile = tiers.DefaultProfile()
	}

	rate := commission.Rate(profile.Subscription, profile.Verification, profile.MonthlyVolume)
	comm := commission.Apply(req.OrderAmount, rate)

	return &models.Settlement{
		SellerID:          req.SellerId,
		OrderID:           req.OrderId,
		OrderAmount:       req.OrderAmount,
		CommissionRateBps: rate,
		Commission:        comm,
		PlatformFees:      req.PlatformFees,
		NetAmount:         req.OrderAmount - comm - req.PlatformFees,
		VerificationTier:  profile.Verification,
		ScheduledAt:       time.Now().UTC().Add(time.Duration(req.DelaySeconds) * time.Second),
	}
}

func (h *SettlementsHandler) decodeAndQuote(w http.ResponseWriter, r *http.Request) (*models.Settlement, bool) {
	var req api.NewSettlement
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return nil, false
	}
	if req.SellerId == "" || req.OrderId == "" || req.OrderAmount <= 0 || req.PlatformFees < 0 {
		http.Error(w, "seller_id, order_id and a positive order_amount are required", http.StatusBadRequest)
		return nil, false
	}

	settlement := h.quote(r, &req)
	if settlement.NetAmount < 0 {
		http.Error(w, "Commission and fees exceed the order amount", http.StatusUnprocessableEntity)
		return nil, false
	}
	return settlement, true
}

// CreateSettlement quotes, persists and immediately executes a settlement.
func (h *SettlementsHandler) CreateSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, ok := h.decodeAndQuote(w, r)
	if !ok {
		return
	}

	created, err := h.Store.CreateSettlement(r.Context(), settlement)
	if err != nil {
		writeError(w, "create settlement", err)
		return
	}

	executed, err := h.Store.ExecuteSettlement(r.Context(), created.ID)
	if err != nil {
		// Leave the row for the reconciliation sweep to retry.
		if markErr := h.Store.MarkSettlementFailed(r.Context(), created.ID, err); markErr != nil {
			slog.Error("failed to record settlement failure", "settlementId", created.ID, "error", markErr)
		}
		writeError(w, "execute settlement", err)
		return
	}

	apiSettlement := mapping.ToApiSettlement(executed)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiSettlement); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ScheduleSettlement quotes and persists a settlement, then enqueues it for
// deferred execution.
func (h *SettlementsHandler) ScheduleSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, ok := h.decodeAndQuote(w, r)
	if !ok {
		return
	}

	created, err := h.Store.CreateSettlement(r.Context(), settlement)
	if err != nil {
		writeError(w, "create settlement", err)
		return
	}

	delay := time.Until(created.ScheduledAt)
	if err := h.Scheduler.ScheduleSettlement(r.Context(), created, delay); err != nil {
		// The row is already persisted as scheduled; the reconciliation
		// sweep will pick it up even if the enqueue failed.
		slog.Error("failed to enqueue settlement", "settlementId", created.ID, "error", err)
	}

	apiSettlement := mapping.ToApiSettlement(created)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(apiSettlement); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetSettlementById handles the logic for retrieving a settlement.
func (h *SettlementsHandler) GetSettlementById(w http.ResponseWriter, r *http.Request, settlementId string) {
	domainSettlement, err := h.Store.GetSettlement(r.Context(), settlementId)
	if err != nil {
		writeError(w, "retrieve settlement", err)
		return
	}

	apiSettlement := mapping.ToApiSettlement(domainSettlement)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiSettlement); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
