package webhooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/tradeweave/wallet-ledger/pkg/api"
	"github.com/tradeweave/wallet-ledger/pkg/events"
	"github.com/tradeweave/wallet-ledger/pkg/mapping"
	"github.com/tradeweave/wallet-ledger/pkg/payout"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
)

// SignatureHeader carries the gateway's HMAC over the raw request body.
const SignatureHeader = "X-Gateway-Signature"

// maxBodyBytes bounds webhook payloads; gateway notifications are small.
const maxBodyBytes = 1 << 20

// WebhooksHandler holds the dependencies for payment-gateway callbacks.
// Webhook routes authenticate by HMAC signature, not bearer token.
type WebhooksHandler struct {
	Ledger      storage.LedgerStore
	Withdrawals storage.WithdrawalStore
	Publisher   events.Publisher
	Secret      string
}

// NewWebhooksHandler creates a new WebhooksHandler.
func NewWebhooksHandler(ledger storage.LedgerStore, withdrawals storage.WithdrawalStore, publisher events.Publisher, secret string) *WebhooksHandler {
	return &WebhooksHandler{Ledger: ledger, Withdrawals: withdrawals, Publisher: publisher, Secret: secret}
}

// readVerified reads the body and checks its signature. A failed check
// writes the error response and returns nil.
func (h *WebhooksHandler) readVerified(w http.ResponseWriter, r *http.Request) []byte {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return nil
	}

	if err := payout.VerifySignature(h.Secret, r.Header.Get(SignatureHeader), body); err != nil {
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return nil
	}
	return body
}

// HandleFunding credits a wallet for an external top-up. The gateway
// reference acts as the replay guard: a duplicate notification is
// acknowledged without crediting twice.
func (h *WebhooksHandler) HandleFunding(w http.ResponseWriter, r *http.Request) {
	body := h.readVerified(w, r)
	if body == nil {
		return
	}

	var hook api.FundingWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if hook.Reference == "" || hook.WalletId == "" || hook.Amount <= 0 {
		http.Error(w, "reference, wallet_id and a positive amount are required", http.StatusBadRequest)
		return
	}

	applied, err := h.Ledger.ApplyFunding(r.Context(), hook.Reference, hook.WalletId, hook.Amount)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to apply funding: %v", err), http.StatusInternalServerError)
		return
	}

	if applied {
		var available int64
		if balance, err := h.Ledger.GetBalance(r.Context(), hook.WalletId); err == nil {
			available = balance.Available
		}
		_ = h.Publisher.Publish(r.Context(), events.Message{
			Type: events.MessageTypeWalletUpdate,
			Payload: events.WalletUpdatePayload{
				WalletID:    hook.WalletId,
				ReferenceID: hook.Reference,
				Change:      hook.Amount,
				Available:   available,
			},
		})
	}

	w.WriteHeader(http.StatusOK)
}

// HandlePayout applies the gateway's disbursement outcome to a withdrawal:
// success completes it, failure reverses the debit. Replays of a terminal
// withdrawal are acknowledged without another balance change.
func (h *WebhooksHandler) HandlePayout(w http.ResponseWriter, r *http.Request) {
	body := h.readVerified(w, r)
	if body == nil {
		return
	}

	var hook api.PayoutWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	withdrawalID := uuid.UUID(hook.WithdrawalId).String()

	var err error
	switch hook.Outcome {
	case api.PayoutOutcomeSuccess:
		_, err = h.Withdrawals.CompleteWithdrawal(r.Context(), withdrawalID)
	case api.PayoutOutcomeFailure:
		_, err = h.Withdrawals.ReverseWithdrawal(r.Context(), withdrawalID)
	default:
		http.Error(w, fmt.Sprintf("Unknown outcome: %q", hook.Outcome), http.StatusBadRequest)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, storage.ErrInvalidStateTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, fmt.Sprintf("Failed to apply payout outcome: %v", err), http.StatusInternalServerError)
		}
		return
	}

	updated, err := h.Withdrawals.GetWithdrawal(r.Context(), withdrawalID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve withdrawal: %v", err), http.StatusInternalServerError)
		return
	}

	apiWithdrawal := mapping.ToApiWithdrawal(updated)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiWithdrawal); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
