// Package commission computes the platform's take on settled orders.
// Rates are expressed in basis points (10000 = 100%) and applied to amounts
// in minor currency units, so the math stays in integers end to end.
package commission

import "github.com/tradeweave/wallet-ledger/pkg/models"

const (
	// BaseRateBps is the starting commission before any reductions.
	BaseRateBps int64 = 1000

	// MaxRateBps caps the effective rate; reductions can never push it
	// below zero either.
	MaxRateBps int64 = 5000
)

// Reductions in basis points. Each dimension is independent and additive.
const (
	growthReduction int64 = 200
	scaleReduction  int64 = 400

	standardVerifiedReduction int64 = 50
	enhancedVerifiedReduction int64 = 100
	premiumVerifiedReduction  int64 = 200

	volumeTier1Reduction int64 = 100
	volumeTier2Reduction int64 = 200

	// Monthly settled volume thresholds, in minor units.
	volumeTier1Threshold int64 = 10_000_000
	volumeTier2Threshold int64 = 100_000_000
)

// Rate returns the effective commission rate in basis points for a seller
// with the given subscription, verification tier and trailing monthly
// settled volume. The result is clamped to [0, MaxRateBps] and is
// monotonically non-increasing in every argument.
func Rate(sub models.SubscriptionTier, ver models.VerificationTier, monthlyVolume int64) int64 {
	rate := BaseRateBps

	switch sub {
	case models.SubscriptionGrowth:
		rate -= growthReduction
	case models.SubscriptionScale:
		rate -= scaleReduction
	}

	switch ver {
	case models.VerificationStandard:
		rate -= standardVerifiedReduction
	case models.VerificationEnhanced:
		rate -= enhancedVerifiedReduction
	case models.VerificationPremium:
		rate -= premiumVerifiedReduction
	}

	switch {
	case monthlyVolume >= volumeTier2Threshold:
		rate -= volumeTier2Reduction
	case monthlyVolume >= volumeTier1Threshold:
		rate -= volumeTier1Reduction
	}

	if rate < 0 {
		rate = 0
	}
	if rate > MaxRateBps {
		rate = MaxRateBps
	}
	return rate
}

// Apply returns the commission owed on amount at the given rate, rounding
// down so the seller keeps the remainder.
func Apply(amount, rateBps int64) int64 {
	if amount <= 0 || rateBps <= 0 {
		return 0
	}
	return amount * rateBps / 10000
}
