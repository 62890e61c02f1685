// Package payout dispatches withdrawal disbursements to an external payment
// gateway and verifies the signatures on its asynchronous callbacks.
package payout

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/tradeweave/wallet-ledger/pkg/models"
)

// ErrBadSignature is returned when a callback's signature does not match the
// shared secret.
var ErrBadSignature = errors.New("payout callback signature mismatch")

// Gateway initiates disbursements. InitiatePayout returns the gateway's
// opaque reference for the transfer. The caller's reference is the dedupe
// key at the gateway: re-dispatching the same reference must not pay twice,
// whether the retry comes from a concurrent caller or the reconciliation
// sweep.
type Gateway interface {
	InitiatePayout(ctx context.Context, reference string, method models.WithdrawalMethod, destination string, amount int64) (string, error)
}

// HTTPGateway talks to the real disbursement API.
type HTTPGateway struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{BaseURL: baseURL, APIKey: apiKey, Client: &http.Client{}}
}

func (g *HTTPGateway) InitiatePayout(ctx context.Context, reference string, method models.WithdrawalMethod, destination string, amount int64) (string, error) {
	body, err := json.Marshal(map[string]any{
		"reference":   reference,
		"method":      method,
		"destination": destination,
		"amount":      amount,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v1/disbursements", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build payout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payout dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("payout gateway returned %s", resp.Status)
	}

	var out struct {
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode payout response: %w", err)
	}
	if out.Reference == "" {
		return "", errors.New("payout gateway returned empty reference")
	}
	return out.Reference, nil
}

// NoOpGateway accepts every payout without calling anyone. Used in local
// development where no gateway is wired up. The returned reference is
// derived from the caller's, so replays yield the same handle.
type NoOpGateway struct{}

func (NoOpGateway) InitiatePayout(_ context.Context, reference string, _ models.WithdrawalMethod, _ string, _ int64) (string, error) {
	if reference == "" {
		reference = uuid.New().String()
	}
	return "noop-" + reference, nil
}

// Sign computes the hex HMAC-SHA256 of a callback body under the shared
// secret. Exposed so tests and local tools can mint valid callbacks.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a callback body against the signature header.
func VerifySignature(secret, signature string, body []byte) error {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return ErrBadSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), expected) {
		return ErrBadSignature
	}
	return nil
}
