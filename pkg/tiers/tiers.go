// Package tiers resolves a seller's verification and subscription standing.
// The ledger engine does not own account data; it asks a tier source at
// decision points (commission quoting, withdrawal limits) and defaults to
// the most conservative profile when the source cannot answer.
package tiers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tradeweave/wallet-ledger/pkg/models"
)

// Profile is a seller's standing at a point in time.
type Profile struct {
	Verification  models.VerificationTier `json:"verification_tier"`
	Subscription  models.SubscriptionTier `json:"subscription_tier"`
	MonthlyVolume int64                   `json:"monthly_volume"`
}

// Source resolves the profile for a user.
type Source interface {
	Profile(ctx context.Context, userID string) (Profile, error)
}

// DefaultProfile is what a user gets when no source knows them: lowest
// verification, free plan, no volume history.
func DefaultProfile() Profile {
	return Profile{
		Verification: models.VerificationBasic,
		Subscription: models.SubscriptionFree,
	}
}

// StaticSource serves profiles from a fixed map. Used in local development
// and tests.
type StaticSource struct {
	Profiles map[string]Profile
}

func (s *StaticSource) Profile(_ context.Context, userID string) (Profile, error) {
	if p, ok := s.Profiles[userID]; ok {
		return p, nil
	}
	return DefaultProfile(), nil
}

// HTTPSource fetches profiles from the accounts service.
type HTTPSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPSource(baseURL, apiKey string) *HTTPSource {
	return &HTTPSource{BaseURL: baseURL, APIKey: apiKey, Client: &http.Client{}}
}

func (s *HTTPSource) Profile(ctx context.Context, userID string) (Profile, error) {
	endpoint := fmt.Sprintf("%s/v1/accounts/%s/tier", s.BaseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to build tier request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("tier lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return DefaultProfile(), nil
	}
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("tier lookup returned %s", resp.Status)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("failed to decode tier response: %w", err)
	}
	return profile, nil
}
