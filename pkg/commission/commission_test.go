package commission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradeweave/wallet-ledger/pkg/commission"
	"github.com/tradeweave/wallet-ledger/pkg/models"
)

func TestRate(t *testing.T) {
	t.Run("Base Rate For New Seller", func(t *testing.T) {
		rate := commission.Rate(models.SubscriptionFree, models.VerificationBasic, 0)
		assert.Equal(t, commission.BaseRateBps, rate)
	})

	t.Run("Reductions Stack Across Dimensions", func(t *testing.T) {
		// 1000 - 200 (growth) - 100 (enhanced) - 100 (volume tier 1)
		rate := commission.Rate(models.SubscriptionGrowth, models.VerificationEnhanced, 15_000_000)
		assert.Equal(t, int64(600), rate)
	})

	t.Run("Maximum Reductions", func(t *testing.T) {
		// 1000 - 400 (scale) - 200 (premium) - 200 (volume tier 2)
		rate := commission.Rate(models.SubscriptionScale, models.VerificationPremium, 200_000_000)
		assert.Equal(t, int64(200), rate)
	})

	t.Run("Volume Tiers Do Not Stack", func(t *testing.T) {
		tier1 := commission.Rate(models.SubscriptionFree, models.VerificationBasic, 10_000_000)
		tier2 := commission.Rate(models.SubscriptionFree, models.VerificationBasic, 100_000_000)
		assert.Equal(t, int64(900), tier1)
		assert.Equal(t, int64(800), tier2)
	})

	t.Run("Monotonically Non-Increasing In Tier", func(t *testing.T) {
		verifications := []models.VerificationTier{
			models.VerificationBasic,
			models.VerificationStandard,
			models.VerificationEnhanced,
			models.VerificationPremium,
		}
		for i := 1; i < len(verifications); i++ {
			assert.LessOrEqual(t,
				commission.Rate(models.SubscriptionFree, verifications[i], 0),
				commission.Rate(models.SubscriptionFree, verifications[i-1], 0))
		}

		subscriptions := []models.SubscriptionTier{
			models.SubscriptionFree,
			models.SubscriptionGrowth,
			models.SubscriptionScale,
		}
		for i := 1; i < len(subscriptions); i++ {
			assert.LessOrEqual(t,
				commission.Rate(subscriptions[i], models.VerificationBasic, 0),
				commission.Rate(subscriptions[i-1], models.VerificationBasic, 0))
		}
	})

	t.Run("Monotonically Non-Increasing In Volume", func(t *testing.T) {
		volumes := []int64{0, 9_999_999, 10_000_000, 99_999_999, 100_000_000, 1_000_000_000}
		prev := commission.MaxRateBps
		for _, v := range volumes {
			rate := commission.Rate(models.SubscriptionFree, models.VerificationStandard, v)
			assert.LessOrEqual(t, rate, prev, "rate must not increase with volume %d", v)
			prev = rate
		}
	})

	t.Run("Never Negative", func(t *testing.T) {
		rate := commission.Rate(models.SubscriptionScale, models.VerificationPremium, 1_000_000_000)
		assert.GreaterOrEqual(t, rate, int64(0))
	})
}

func TestApply(t *testing.T) {
	t.Run("Rounds Down In Sellers Favor", func(t *testing.T) {
		// 999 * 1000 / 10000 = 99.9, truncated to 99.
		assert.Equal(t, int64(99), commission.Apply(999, 1000))
	})

	t.Run("Exact Division", func(t *testing.T) {
		assert.Equal(t, int64(1_000), commission.Apply(10_000, 1000))
	})

	t.Run("Zero Rate Takes Nothing", func(t *testing.T) {
		assert.Equal(t, int64(0), commission.Apply(10_000, 0))
	})

	t.Run("Non-Positive Amount Takes Nothing", func(t *testing.T) {
		assert.Equal(t, int64(0), commission.Apply(0, 1000))
		assert.Equal(t, int64(0), commission.Apply(-500, 1000))
	})

	t.Run("Small Amounts Round To Zero", func(t *testing.T) {
		assert.Equal(t, int64(0), commission.Apply(9, 1000))
	})
}
