package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradeweave/wallet-ledger/pkg/models"
)

func TestReleaseConditionValidate(t *testing.T) {
	t.Run("Event Conditions Need No Duration", func(t *testing.T) {
		for _, ct := range []models.ConditionType{
			models.ConditionOrderCompleted,
			models.ConditionDealConfirmed,
			models.ConditionDisputeResolved,
		} {
			assert.NoError(t, models.ReleaseCondition{Type: ct}.Validate(), "condition %s", ct)
		}
	})

	t.Run("Timeout Requires Positive Duration", func(t *testing.T) {
		assert.NoError(t, models.ReleaseCondition{Type: models.ConditionTimeoutHours, TimeoutHours: 72}.Validate())
		assert.Error(t, models.ReleaseCondition{Type: models.ConditionTimeoutHours}.Validate())
		assert.Error(t, models.ReleaseCondition{Type: models.ConditionTimeoutHours, TimeoutHours: -1}.Validate())
	})

	t.Run("Unknown Type", func(t *testing.T) {
		assert.Error(t, models.ReleaseCondition{Type: "manual_review"}.Validate())
	})
}

func TestWalletNetPosition(t *testing.T) {
	wallet := &models.Wallet{Available: 300, Locked: 150, Negative: 50}
	assert.Equal(t, int64(400), wallet.NetPosition())

	empty := &models.Wallet{}
	assert.Equal(t, int64(0), empty.NetPosition())
}

func TestLedgerEntryDelta(t *testing.T) {
	credit := &models.LedgerEntry{Type: models.EntryCredit, Amount: 100}
	assert.Equal(t, int64(100), credit.Delta())

	debit := &models.LedgerEntry{Type: models.EntryDebit, Amount: 100}
	assert.Equal(t, int64(-100), debit.Delta())

	// Bucket moves are net-zero for the wallet's position.
	lock := &models.LedgerEntry{Type: models.EntryLock, Amount: 100}
	assert.Equal(t, int64(0), lock.Delta())
	unlock := &models.LedgerEntry{Type: models.EntryUnlock, Amount: 100}
	assert.Equal(t, int64(0), unlock.Delta())
}

func TestPartialSplitValidate(t *testing.T) {
	t.Run("Exact Sum", func(t *testing.T) {
		assert.NoError(t, models.PartialSplit{BuyerAmount: 150, SellerAmount: 250}.Validate(400))
	})

	t.Run("One Leg May Be Zero", func(t *testing.T) {
		assert.NoError(t, models.PartialSplit{BuyerAmount: 0, SellerAmount: 400}.Validate(400))
	})

	t.Run("Sum Mismatch", func(t *testing.T) {
		assert.Error(t, models.PartialSplit{BuyerAmount: 150, SellerAmount: 200}.Validate(400))
	})

	t.Run("Negative Leg", func(t *testing.T) {
		assert.Error(t, models.PartialSplit{BuyerAmount: -50, SellerAmount: 450}.Validate(400))
	})
}

func TestTierRank(t *testing.T) {
	t.Run("Verification Order", func(t *testing.T) {
		tiers := []models.VerificationTier{
			models.VerificationBasic,
			models.VerificationStandard,
			models.VerificationEnhanced,
			models.VerificationPremium,
		}
		for i := 1; i < len(tiers); i++ {
			assert.Greater(t, tiers[i].Rank(), tiers[i-1].Rank())
		}
		assert.Equal(t, 0, models.VerificationTier("platinum").Rank())
	})

	t.Run("Subscription Order", func(t *testing.T) {
		assert.Equal(t, 0, models.SubscriptionFree.Rank())
		assert.Equal(t, 1, models.SubscriptionGrowth.Rank())
		assert.Equal(t, 2, models.SubscriptionScale.Rank())
		assert.Equal(t, 0, models.SubscriptionTier("enterprise").Rank())
	})
}
