package models

import (
	"errors"
	"time"
)

// PlatformWalletID is the reserved wallet that accrues commission and
// platform fees from seller settlements.
const PlatformWalletID = "platform_revenue"

// EntryType defines the kind of a ledger entry.
type EntryType string

const (
	EntryCredit EntryType = "credit"
	EntryDebit  EntryType = "debit"
	EntryLock   EntryType = "lock"
	EntryUnlock EntryType = "unlock"
)

// LockStatus defines the possible states of a lock.
type LockStatus string

const (
	LockActive   LockStatus = "active"
	LockReleased LockStatus = "released"
	LockExpired  LockStatus = "expired"
	LockDisputed LockStatus = "disputed"
)

// DisputeStatus defines the possible states of a dispute.
type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "open"
	DisputeResolved DisputeStatus = "resolved"
)

// Resolution defines how a dispute over a lock is settled.
type Resolution string

const (
	ResolutionReleaseToBuyer  Resolution = "release_to_buyer"
	ResolutionReleaseToSeller Resolution = "release_to_seller"
	ResolutionPartialRelease  Resolution = "partial_release"
	ResolutionHoldFunds       Resolution = "hold_funds"
)

// SettlementStatus defines the possible states of a settlement.
type SettlementStatus string

const (
	SettlementScheduled SettlementStatus = "scheduled"
	SettlementCompleted SettlementStatus = "completed"
	SettlementFailed    SettlementStatus = "failed"
)

// WithdrawalStatus defines the possible states of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalFailed     WithdrawalStatus = "failed"
	WithdrawalReversed   WithdrawalStatus = "reversed"
)

// WithdrawalMethod defines how a withdrawal is paid out.
type WithdrawalMethod string

const (
	MethodBankTransfer WithdrawalMethod = "bank_transfer"
	MethodUPI          WithdrawalMethod = "upi"
)

// VerificationTier is a user's KYC level. It drives withdrawal limits and
// feeds into the commission rate.
type VerificationTier string

const (
	VerificationBasic    VerificationTier = "basic"
	VerificationStandard VerificationTier = "standard"
	VerificationEnhanced VerificationTier = "enhanced"
	VerificationPremium  VerificationTier = "premium"
)

// Rank orders verification tiers from basic (0) to premium (3). Unknown
// tiers rank as basic.
func (t VerificationTier) Rank() int {
	switch t {
	case VerificationStandard:
		return 1
	case VerificationEnhanced:
		return 2
	case VerificationPremium:
		return 3
	default:
		return 0
	}
}

// SubscriptionTier is a seller's paid plan level.
type SubscriptionTier string

const (
	SubscriptionFree   SubscriptionTier = "free"
	SubscriptionGrowth SubscriptionTier = "growth"
	SubscriptionScale  SubscriptionTier = "scale"
)

// Rank orders subscription tiers from free (0) to scale (2). Unknown plans
// rank as free.
func (t SubscriptionTier) Rank() int {
	switch t {
	case SubscriptionGrowth:
		return 1
	case SubscriptionScale:
		return 2
	default:
		return 0
	}
}

// ConditionType names an automatic release trigger for a lock.
type ConditionType string

const (
	ConditionOrderCompleted  ConditionType = "order_completed"
	ConditionDealConfirmed   ConditionType = "deal_confirmed"
	ConditionTimeoutHours    ConditionType = "timeout_hours"
	ConditionDisputeResolved ConditionType = "dispute_resolved"
)

// ReleaseCondition is one automatic-release predicate stored on a lock.
// TimeoutHours is only meaningful for timeout_hours conditions. ToWalletID,
// when set, directs the released funds to a counterparty wallet instead of
// back to the locker.
type ReleaseCondition struct {
	Type         ConditionType `json:"type" dynamodbav:"type"`
	TimeoutHours int32         `json:"timeout_hours,omitempty" dynamodbav:"timeout_hours,omitempty"`
	ToWalletID   string        `json:"to_wallet_id,omitempty" dynamodbav:"to_wallet_id,omitempty"`
}

// Validate rejects conditions of unknown kind and timeout conditions without
// a positive duration.
func (c ReleaseCondition) Validate() error {
	switch c.Type {
	case ConditionOrderCompleted, ConditionDealConfirmed, ConditionDisputeResolved:
		return nil
	case ConditionTimeoutHours:
		if c.TimeoutHours <= 0 {
			return errors.New("timeout_hours condition requires a positive duration")
		}
		return nil
	default:
		return errors.New("unknown release condition type")
	}
}

// Wallet represents the internal domain model for a user's monetary balance.
// Amounts are integer minor units. Version is the optimistic-locking counter:
// every balance mutation bumps it, and concurrent writers against the same
// wallet are serialized by a compare-and-swap on it.
type Wallet struct {
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	Available     int64     `json:"available" dynamodbav:"available"`
	Locked        int64     `json:"locked" dynamodbav:"locked"`
	Negative      int64     `json:"negative" dynamodbav:"negative"`
	AllowNegative bool      `json:"allow_negative" dynamodbav:"allow_negative"`
	Version       int64     `json:"version" dynamodbav:"version"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
}

// NetPosition is the wallet's algebraic position. At all times it must equal
// the sum of credit entries minus the sum of debit entries for this wallet.
func (w *Wallet) NetPosition() int64 {
	return w.Available + w.Locked - w.Negative
}

// LedgerEntry is one immutable, append-only record of a balance-affecting
// operation. Credit and debit entries move money in and out of the wallet;
// lock and unlock entries record bucket moves between available and locked
// and are net-zero for the wallet's position.
type LedgerEntry struct {
	EntryID        string    `dynamodbav:"entry_id"`
	WalletID       string    `dynamodbav:"wallet_id"`
	Type           EntryType `dynamodbav:"type"`
	Amount         int64     `dynamodbav:"amount"`
	ReferenceType  string    `dynamodbav:"reference_type"`
	ReferenceID    string    `dynamodbav:"reference_id"`
	AvailableAfter int64     `dynamodbav:"available_after"`
	LockedAfter    int64     `dynamodbav:"locked_after"`
	NegativeAfter  int64     `dynamodbav:"negative_after"`
	CreatedAt      time.Time `dynamodbav:"created_at"`
	GSI1PK         string    `dynamodbav:"gsi1pk"`
}

// Delta is the entry's signed effect on the wallet's net position.
func (e *LedgerEntry) Delta() int64 {
	switch e.Type {
	case EntryCredit:
		return e.Amount
	case EntryDebit:
		return -e.Amount
	default:
		return 0
	}
}

// Lock represents a conditional hold against a wallet's available balance.
// It belongs to exactly one wallet. Released and expired are terminal;
// disputed is a side branch that returns to released through arbitration.
type Lock struct {
	ID             string             `dynamodbav:"id"`
	WalletID       string             `dynamodbav:"wallet_id"`
	Amount         int64              `dynamodbav:"amount"`
	Reason         string             `dynamodbav:"reason"`
	ReferenceID    string             `dynamodbav:"reference_id"`
	Status         LockStatus         `dynamodbav:"status"`
	Conditions     []ReleaseCondition `dynamodbav:"conditions,omitempty"`
	LockedUntil    *time.Time         `dynamodbav:"locked_until,omitempty"`
	ReleasedTo     string             `dynamodbav:"released_to,omitempty"`
	IdempotencyKey string             `dynamodbav:"idempotency_key,omitempty"`
	CreatedAt      time.Time          `dynamodbav:"created_at"`
	UpdatedAt      time.Time          `dynamodbav:"updated_at"`
}

// PartialSplit carries the buyer/seller amounts of a partial_release
// resolution.
type PartialSplit struct {
	BuyerAmount  int64 `json:"buyer_amount" dynamodbav:"buyer_amount"`
	SellerAmount int64 `json:"seller_amount" dynamodbav:"seller_amount"`
}

// Validate checks the split against the contested lock amount. Both legs
// must be non-negative and sum exactly to the lock total.
func (p PartialSplit) Validate(lockAmount int64) error {
	if p.BuyerAmount < 0 || p.SellerAmount < 0 {
		return errors.New("split amounts must be non-negative")
	}
	if p.BuyerAmount+p.SellerAmount != lockAmount {
		return errors.New("split amounts must sum to the lock amount")
	}
	return nil
}

// Dispute is a contested claim over an active lock's funds. It is 1:1 with
// the lock it contests. The buyer wallet is the locker; the seller wallet is
// the deal counterparty named when the dispute is opened.
type Dispute struct {
	ID             string        `dynamodbav:"id"`
	LockID         string        `dynamodbav:"lock_id"`
	BuyerWalletID  string        `dynamodbav:"buyer_wallet_id"`
	SellerWalletID string        `dynamodbav:"seller_wallet_id"`
	DisputedBy     string        `dynamodbav:"disputed_by"`
	Reason         string        `dynamodbav:"reason"`
	Description    string        `dynamodbav:"description"`
	Evidence       []string      `dynamodbav:"evidence,omitempty"`
	Status         DisputeStatus `dynamodbav:"status"`
	Resolution     Resolution    `dynamodbav:"resolution,omitempty"`
	Split          *PartialSplit `dynamodbav:"split,omitempty"`
	IdempotencyKey string        `dynamodbav:"idempotency_key,omitempty"`
	CreatedAt      time.Time     `dynamodbav:"created_at"`
	ResolvedAt     *time.Time    `dynamodbav:"resolved_at,omitempty"`
}

// Settlement is the computed payout to a seller for a completed order.
// CommissionRateBps is frozen when the settlement is created so that a
// deferred execution pays out exactly what was quoted.
type Settlement struct {
	ID                string           `dynamodbav:"id"`
	SellerID          string           `dynamodbav:"seller_id"`
	OrderID           string           `dynamodbav:"order_id"`
	OrderAmount       int64            `dynamodbav:"order_amount"`
	CommissionRateBps int64            `dynamodbav:"commission_rate_bps"`
	Commission        int64            `dynamodbav:"commission"`
	PlatformFees      int64            `dynamodbav:"platform_fees"`
	NetAmount         int64            `dynamodbav:"net_amount"`
	VerificationTier  VerificationTier `dynamodbav:"verification_tier"`
	Status            SettlementStatus `dynamodbav:"status"`
	Attempts          int32            `dynamodbav:"attempts"`
	LastError         string           `dynamodbav:"last_error,omitempty"`
	ScheduledAt       time.Time        `dynamodbav:"scheduled_at"`
	ExecutedAt        *time.Time       `dynamodbav:"executed_at,omitempty"`
}

// WithdrawalRequest represents a cash-out of available balance. The wallet is
// debited optimistically when the request is accepted; the asynchronous
// payout confirmation either completes the request (no further balance
// change) or reverses it (the debit is credited back).
type WithdrawalRequest struct {
	ID             string           `dynamodbav:"id"`
	WalletID       string           `dynamodbav:"wallet_id"`
	Amount         int64            `dynamodbav:"amount"`
	Method         WithdrawalMethod `dynamodbav:"method"`
	Destination    string           `dynamodbav:"destination"`
	Status         WithdrawalStatus `dynamodbav:"status"`
	DailyLimit     int64            `dynamodbav:"daily_limit"`
	GatewayRef     string           `dynamodbav:"gateway_ref,omitempty"`
	IdempotencyKey string           `dynamodbav:"idempotency_key,omitempty"`
	CreatedAt      time.Time        `dynamodbav:"created_at"`
	UpdatedAt      time.Time        `dynamodbav:"updated_at"`
}

// FundingEvent is the replay guard for funding webhooks: one row per gateway
// reference, created in the same atomic unit as the wallet credit.
type FundingEvent struct {
	Reference string    `dynamodbav:"reference"`
	WalletID  string    `dynamodbav:"wallet_id"`
	Amount    int64     `dynamodbav:"amount"`
	CreatedAt time.Time `dynamodbav:"created_at"`
}

// Balance is a consistent snapshot of a wallet's three buckets as of the
// last committed ledger entry.
type Balance struct {
	Available int64 `json:"available"`
	Locked    int64 `json:"locked"`
	Negative  int64 `json:"negative"`
}
