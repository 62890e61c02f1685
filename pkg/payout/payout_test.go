package payout_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/payout"
)

func TestVerifySignature(t *testing.T) {
	secret := "shared-secret"
	body := []byte(`{"reference":"pay-abc","wallet_id":"buyer-1","amount":2500}`)

	t.Run("Accepts Matching Signature", func(t *testing.T) {
		assert.NoError(t, payout.VerifySignature(secret, payout.Sign(secret, body), body))
	})

	t.Run("Rejects Wrong Secret", func(t *testing.T) {
		err := payout.VerifySignature(secret, payout.Sign("other", body), body)
		assert.ErrorIs(t, err, payout.ErrBadSignature)
	})

	t.Run("Rejects Tampered Body", func(t *testing.T) {
		sig := payout.Sign(secret, body)
		tampered := []byte(`{"reference":"pay-abc","wallet_id":"buyer-1","amount":9999}`)
		assert.ErrorIs(t, payout.VerifySignature(secret, sig, tampered), payout.ErrBadSignature)
	})

	t.Run("Rejects Malformed Hex", func(t *testing.T) {
		assert.ErrorIs(t, payout.VerifySignature(secret, "not-hex", body), payout.ErrBadSignature)
	})
}

func TestHTTPGateway(t *testing.T) {
	t.Run("Initiates Disbursement", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/disbursements", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "wd-1", req["reference"], "dispatch must carry the caller's dedupe reference")

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"reference":"gw-123"}`))
		}))
		defer server.Close()

		gateway := payout.NewHTTPGateway(server.URL, "test-key")
		ref, err := gateway.InitiatePayout(context.Background(), "wd-1", models.MethodBankTransfer, "DE89370400440532013000", 5_000)
		assert.NoError(t, err)
		assert.Equal(t, "gw-123", ref)
	})

	t.Run("Gateway Error Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		gateway := payout.NewHTTPGateway(server.URL, "test-key")
		_, err := gateway.InitiatePayout(context.Background(), "wd-2", models.MethodUPI, "seller@bank", 5_000)
		assert.Error(t, err)
	})

	t.Run("Empty Reference Is An Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		gateway := payout.NewHTTPGateway(server.URL, "test-key")
		_, err := gateway.InitiatePayout(context.Background(), "wd-3", models.MethodUPI, "seller@bank", 5_000)
		assert.Error(t, err)
	})

	t.Run("Retries Reuse The Same Reference", func(t *testing.T) {
		var seen []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			seen = append(seen, req["reference"].(string))
			w.Write([]byte(`{"reference":"gw-456"}`))
		}))
		defer server.Close()

		gateway := payout.NewHTTPGateway(server.URL, "test-key")
		for range 2 {
			_, err := gateway.InitiatePayout(context.Background(), "wd-4", models.MethodUPI, "seller@bank", 5_000)
			assert.NoError(t, err)
		}
		assert.Equal(t, []string{"wd-4", "wd-4"}, seen)
	})
}
