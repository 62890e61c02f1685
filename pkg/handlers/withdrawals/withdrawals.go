package withdrawals

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tradeweave/wallet-ledger/pkg/api"
	"github.com/tradeweave/wallet-ledger/pkg/limits"
	"github.com/tradeweave/wallet-ledger/pkg/mapping"
	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/payout"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
	"github.com/tradeweave/wallet-ledger/pkg/tiers"
)

// WithdrawalsHandler holds the dependencies for withdrawal-related handlers.
type WithdrawalsHandler struct {
	Store   storage.WithdrawalStore
	Tiers   tiers.Source
	Gateway payout.Gateway
}

// NewWithdrawalsHandler creates a new WithdrawalsHandler.
func NewWithdrawalsHandler(store storage.WithdrawalStore, tierSource tiers.Source, gateway payout.Gateway) *WithdrawalsHandler {
	return &WithdrawalsHandler{Store: store, Tiers: tierSource, Gateway: gateway}
}

func writeError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, storage.ErrInvalidStateTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrIdempotencyMismatch):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrInsufficientFunds):
		http.Error(w, "Insufficient funds", http.StatusUnprocessableEntity)
	case errors.Is(err, storage.ErrLimitExceeded):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, fmt.Sprintf("Failed to %s: %v", action, err), http.StatusInternalServerError)
	}
}

// RequestWithdrawal validates a cash-out against the minimum threshold and
// the caller's daily limit, then debits the wallet and records the request.
func (h *WithdrawalsHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var newWithdrawal api.NewWithdrawal
	if err := json.NewDecoder(r.Body).Decode(&newWithdrawal); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newWithdrawal.WalletId == "" || newWithdrawal.Destination == "" {
		http.Error(w, "wallet_id and destination are required", http.StatusBadRequest)
		return
	}
	switch models.WithdrawalMethod(newWithdrawal.Method) {
	case models.MethodBankTransfer, models.MethodUPI:
	default:
		http.Error(w, fmt.Sprintf("Unknown withdrawal method: %q", newWithdrawal.Method), http.StatusBadRequest)
		return
	}
	if newWithdrawal.Amount < limits.MinWithdrawal {
		http.Error(w, fmt.Sprintf("Amount below minimum withdrawal of %d", limits.MinWithdrawal), http.StatusUnprocessableEntity)
		return
	}

	req := mapping.ToDomainNewWithdrawal(&newWithdrawal)

	profile, err := h.Tiers.Profile(r.Context(), req.WalletID)
	if err != nil {
		slog.Error("tier lookup failed, defaulting", "walletId", req.WalletID, "error", err)
		profile = tiers.DefaultProfile()
	}

	dailyLimit, unlimited := limits.DailyWithdrawalLimit(profile.Verification)
	req.DailyLimit = dailyLimit
	if !unlimited {
		// The sum is read outside the create transaction, so two requests
		// racing past this check can jointly overshoot the cap by up to one
		// withdrawal. The available balance is still debited atomically; the
		// limit is a soft bound, not a ledger invariant.
		since := time.Now().UTC().Add(-24 * time.Hour)
		spent, err := h.Store.SumWithdrawalsSince(r.Context(), req.WalletID, since)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to check daily limit: %v", err), http.StatusInternalServerError)
			return
		}
		if spent+req.Amount > dailyLimit {
			writeError(w, "request withdrawal", fmt.Errorf("daily withdrawal limit of %d exceeded: %w", dailyLimit, storage.ErrLimitExceeded))
			return
		}
	}

	created, err := h.Store.CreateWithdrawal(r.Context(), req)
	if err != nil {
		writeError(w, "request withdrawal", err)
		return
	}

	apiWithdrawal := mapping.ToApiWithdrawal(created)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiWithdrawal); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ProcessWithdrawal dispatches a pending withdrawal to the payout gateway.
// A dispatch failure reverses the debit immediately.
func (h *WithdrawalsHandler) ProcessWithdrawal(w http.ResponseWriter, r *http.Request, withdrawalId string) {
	req, err := h.Store.GetWithdrawal(r.Context(), withdrawalId)
	if err != nil {
		writeError(w, "retrieve withdrawal", err)
		return
	}
	if req.Status != models.WithdrawalPending {
		writeError(w, "process withdrawal", fmt.Errorf("withdrawal %s is %s: %w", req.ID, req.Status, storage.ErrInvalidStateTransition))
		return
	}

	gatewayRef, err := h.Gateway.InitiatePayout(r.Context(), req.ID, req.Method, req.Destination, req.Amount)
	if err != nil {
		slog.Error("payout dispatch failed, reversing", "withdrawalId", req.ID, "error", err)
		if _, revErr := h.Store.ReverseWithdrawal(r.Context(), req.ID); revErr != nil {
			slog.Error("failed to reverse withdrawal after dispatch failure", "withdrawalId", req.ID, "error", revErr)
		}
		http.Error(w, fmt.Sprintf("Payout dispatch failed: %v", err), http.StatusBadGateway)
		return
	}

	processing, err := h.Store.MarkWithdrawalProcessing(r.Context(), req.ID, gatewayRef)
	if err != nil {
		writeError(w, "process withdrawal", err)
		return
	}

	apiWithdrawal := mapping.ToApiWithdrawal(processing)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiWithdrawal); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetWithdrawalById handles the logic for retrieving a withdrawal request.
func (h *WithdrawalsHandler) GetWithdrawalById(w http.ResponseWriter, r *http.Request, withdrawalId string) {
	req, err := h.Store.GetWithdrawal(r.Context(), withdrawalId)
	if err != nil {
		writeError(w, "retrieve withdrawal", err)
		return
	}

	apiWithdrawal := mapping.ToApiWithdrawal(req)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiWithdrawal); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
