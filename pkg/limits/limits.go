// Package limits holds the withdrawal policy constants keyed by
// verification tier. Amounts are in minor currency units.
package limits

import "github.com/tradeweave/wallet-ledger/pkg/models"

// MinWithdrawal is the smallest amount a single withdrawal may carry.
const MinWithdrawal int64 = 100

// Daily withdrawal caps per verification tier.
const (
	basicDailyLimit    int64 = 5_000_000
	standardDailyLimit int64 = 20_000_000
	enhancedDailyLimit int64 = 100_000_000
)

// DailyWithdrawalLimit returns the rolling 24h withdrawal cap for a tier.
// Premium accounts are uncapped, signalled by unlimited=true.
func DailyWithdrawalLimit(tier models.VerificationTier) (limit int64, unlimited bool) {
	switch tier {
	case models.VerificationStandard:
		return standardDailyLimit, false
	case models.VerificationEnhanced:
		return enhancedDailyLimit, false
	case models.VerificationPremium:
		return 0, true
	default:
		return basicDailyLimit, false
	}
}
