package locks

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tradeweave/wallet-ledger/pkg/api"
	"github.com/tradeweave/wallet-ledger/pkg/events"
	"github.com/tradeweave/wallet-ledger/pkg/mapping"
	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
)

// LocksHandler holds the dependencies for lock-related handlers.
type LocksHandler struct {
	Store     storage.LockStore
	Publisher events.Publisher
}

// NewLocksHandler creates a new LocksHandler.
func NewLocksHandler(store storage.LockStore, publisher events.Publisher) *LocksHandler {
	return &LocksHandler{Store: store, Publisher: publisher}
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
	default:
		http.Error(w, fmt.Sprintf("Failed to %s: %v", action, err), http.StatusInternalServerError)
	}
}

func (h *LocksHandler) publishLockUpdate(r *http.Request, lock *models.Lock) {
	_ = h.Publisher.Publish(r.Context(), events.Message{
		Type: events.MessageTypeLockUpdate,
		Payload: events.LockUpdatePayload{
			LockID:   lock.ID,
			WalletID: lock.WalletID,
			Status:   string(lock.Status),
			Amount:   lock.Amount,
		},
	})
}

// CreateLock handles the logic for placing a hold on wallet funds.
func (h *LocksHandler) CreateLock(w http.ResponseWriter, r *http.Request) {
	var newLock api.NewLock
	if err := json.NewDecoder(r.Body).Decode(&newLock); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newLock.WalletId == "" || newLock.Amount <= 0 {
		http.Error(w, "wallet_id and a positive amount are required", http.StatusBadRequest)
		return
	}

	domainLock := mapping.ToDomainNewLock(&newLock)
	createdLock, err := h.Store.CreateLock(r.Context(), domainLock)
	if err != nil {
		writeError(w, "create lock", err)
		return
	}

	h.publishLockUpdate(r, createdLock)

	apiLock := mapping.ToApiLock(createdLock)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiLock); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetLockById handles the logic for retrieving a lock.
func (h *LocksHandler) GetLockById(w http.ResponseWriter, r *http.Request, lockId string) {
	domainLock, err := h.Store.GetLock(r.Context(), lockId)
	if err != nil {
		writeError(w, "retrieve lock", err)
		return
	}

	apiLock := mapping.ToApiLock(domainLock)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiLock); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ReleaseLock handles the logic for releasing held funds, back to the locker
// or to a counterparty wallet.
func (h *LocksHandler) ReleaseLock(w http.ResponseWriter, r *http.Request, lockId string) {
	var req api.ReleaseLockRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
	}

	releasedLock, err := h.Store.ReleaseLock(r.Context(), lockId, storage.ReleaseOptions{
		ToWalletID: req.ToWalletId,
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(w, "release lock", err)
		return
	}

	h.publishLockUpdate(r, releasedLock)

	apiLock := mapping.ToApiLock(releasedLock)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiLock); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// SetConditions handles the logic for installing automatic-release
// conditions on an active lock.
func (h *LocksHandler) SetConditions(w http.ResponseWriter, r *http.Request, lockId string) {
	var req api.SetConditionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.Conditions) == 0 {
		http.Error(w, "at least one condition is required", http.StatusBadRequest)
		return
	}

	updatedLock, err := h.Store.SetReleaseConditions(r.Context(), lockId, mapping.ToDomainConditions(req.Conditions))
	if err != nil {
		writeError(w, "set lock conditions", err)
		return
	}

	apiLock := mapping.ToApiLock(updatedLock)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiLock); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// CheckConditions handles a completing event for a reference: every active
// lock on the reference whose conditions are now satisfied is released.
func (h *LocksHandler) CheckConditions(w http.ResponseWriter, r *http.Request) {
	var req api.CheckConditionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.ReferenceId == "" || req.Condition == "" {
		http.Error(w, "reference_id and condition are required", http.StatusBadRequest)
		return
	}

	released, err := h.Store.CheckAutomaticReleaseConditions(r.Context(), req.ReferenceId, models.ConditionType(req.Condition))
	if err != nil {
		writeError(w, "check release conditions", err)
		return
	}

	apiLocks := make([]*api.Lock, len(released))
	for i, lock := range released {
		apiLocks[i] = mapping.ToApiLock(&lock)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiLocks); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
