package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/tradeweave/wallet-ledger/pkg/middleware"
)

const testSigningSecret = "capability-test-secret"

// mintToken signs an HS256 token with the given subject and capabilities.
func mintToken(t *testing.T, secret, subject string, capabilities ...string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if len(capabilities) > 0 {
		claims["cap"] = capabilities
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func TestRequireCapability(t *testing.T) {
	verifier := middleware.NewCapabilityVerifier(testSigningSecret)

	t.Run("Admits Token With Capability", func(t *testing.T) {
		var seen middleware.Actor
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := middleware.ActorFromContext(r.Context())
			assert.True(t, ok)
			seen = actor
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("POST", "/locks", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, testSigningSecret, "svc-orders", "locks:write", "ledger:read"))
		rr := httptest.NewRecorder()
		middleware.RequireCapability(verifier, "locks:write")(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "svc-orders", seen.Subject)
		assert.True(t, seen.Can("ledger:read"))
		assert.False(t, seen.Can("disputes:resolve"))
	})

	t.Run("Missing Bearer Token", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		})

		req := httptest.NewRequest("POST", "/locks", nil)
		rr := httptest.NewRecorder()
		middleware.RequireCapability(verifier, "locks:write")(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Wrong Signing Secret", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		})

		req := httptest.NewRequest("POST", "/locks", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, "other-secret", "svc-orders", "locks:write"))
		rr := httptest.NewRecorder()
		middleware.RequireCapability(verifier, "locks:write")(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "svc-orders",
			"cap": []string{"locks:write"},
			"exp": time.Now().Add(-time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningSecret))
		assert.NoError(t, err)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		})

		req := httptest.NewRequest("POST", "/locks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		middleware.RequireCapability(verifier, "locks:write")(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Missing Capability", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		})

		req := httptest.NewRequest("POST", "/disputes/abc/resolve", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, testSigningSecret, "svc-orders", "locks:write"))
		rr := httptest.NewRecorder()
		middleware.RequireCapability(verifier, "disputes:resolve")(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
