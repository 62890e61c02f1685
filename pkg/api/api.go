// Package api holds the request and response types of the HTTP surface.
// Field names and json tags follow the public API contract; the domain
// models in pkg/models are mapped to and from these types at the handler
// boundary.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wallet is the balance snapshot returned by the wallet endpoints.
type Wallet struct {
	UserId      string `json:"user_id"`
	Available   int64  `json:"available"`
	Locked      int64  `json:"locked"`
	Negative    int64  `json:"negative"`
	NetPosition int64  `json:"net_position"`
	Version     int64  `json:"version"`
}

// LedgerEntry is one immutable ledger line.
type LedgerEntry struct {
	EntryId        openapi_types.UUID `json:"entry_id"`
	WalletId       string             `json:"wallet_id"`
	Type           string             `json:"type"`
	Amount         int64              `json:"amount"`
	ReferenceType  string             `json:"reference_type"`
	ReferenceId    string             `json:"reference_id"`
	AvailableAfter int64              `json:"available_after"`
	LockedAfter    int64              `json:"locked_after"`
	NegativeAfter  int64              `json:"negative_after"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ReleaseCondition is one automatic-release predicate on a lock.
type ReleaseCondition struct {
	Type         string `json:"type"`
	TimeoutHours int32  `json:"timeout_hours,omitempty"`
	ToWalletId   string `json:"to_wallet_id,omitempty"`
}

// NewLock is the request body for creating a lock.
type NewLock struct {
	WalletId       string             `json:"wallet_id"`
	Amount         int64              `json:"amount"`
	Reason         string             `json:"reason"`
	ReferenceId    string             `json:"reference_id"`
	LockedUntil    *time.Time         `json:"locked_until,omitempty"`
	Conditions     []ReleaseCondition `json:"conditions,omitempty"`
	IdempotencyKey string             `json:"idempotency_key,omitempty"`
}

// Lock is a funds hold as returned by the lock endpoints.
type Lock struct {
	Id          openapi_types.UUID `json:"id"`
	WalletId    string             `json:"wallet_id"`
	Amount      int64              `json:"amount"`
	Reason      string             `json:"reason"`
	ReferenceId string             `json:"reference_id"`
	Status      string             `json:"status"`
	Conditions  []ReleaseCondition `json:"conditions,omitempty"`
	LockedUntil *time.Time         `json:"locked_until,omitempty"`
	ReleasedTo  string             `json:"released_to,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ReleaseLockRequest is the request body for releasing a lock.
type ReleaseLockRequest struct {
	ToWalletId string `json:"to_wallet_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// SetConditionsRequest replaces a lock's automatic-release conditions.
type SetConditionsRequest struct {
	Conditions []ReleaseCondition `json:"conditions"`
}

// CheckConditionsRequest announces a completing event for a reference.
type CheckConditionsRequest struct {
	ReferenceId string `json:"reference_id"`
	Condition   string `json:"condition"`
}

// NewDispute is the request body for opening a dispute.
type NewDispute struct {
	LockId         openapi_types.UUID `json:"lock_id"`
	SellerWalletId string             `json:"seller_wallet_id"`
	DisputedBy     string             `json:"disputed_by"`
	Reason         string             `json:"reason"`
	Description    string             `json:"description,omitempty"`
	Evidence       []string           `json:"evidence,omitempty"`
	IdempotencyKey string             `json:"idempotency_key,omitempty"`
}

// PartialSplit carries the two legs of a partial_release ruling.
type PartialSplit struct {
	BuyerAmount  int64 `json:"buyer_amount"`
	SellerAmount int64 `json:"seller_amount"`
}

// ResolveDisputeRequest is the request body for an arbiter ruling.
type ResolveDisputeRequest struct {
	Resolution string        `json:"resolution"`
	Split      *PartialSplit `json:"split,omitempty"`
}

// Dispute is a contested lock as returned by the dispute endpoints.
type Dispute struct {
	Id             openapi_types.UUID `json:"id"`
	LockId         openapi_types.UUID `json:"lock_id"`
	BuyerWalletId  string             `json:"buyer_wallet_id"`
	SellerWalletId string             `json:"seller_wallet_id"`
	DisputedBy     string             `json:"disputed_by"`
	Reason         string             `json:"reason"`
	Description    string             `json:"description,omitempty"`
	Evidence       []string           `json:"evidence,omitempty"`
	Status         string             `json:"status"`
	Resolution     string             `json:"resolution,omitempty"`
	Split          *PartialSplit      `json:"split,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	ResolvedAt     *time.Time         `json:"resolved_at,omitempty"`
}

// NewSettlement is the request body for quoting and scheduling a settlement.
type NewSettlement struct {
	SellerId     string `json:"seller_id"`
	OrderId      string `json:"order_id"`
	OrderAmount  int64  `json:"order_amount"`
	PlatformFees int64  `json:"platform_fees"`
	DelaySeconds int64  `json:"delay_seconds,omitempty"`
}

// Settlement is a seller payout as returned by the settlement endpoints.
type Settlement struct {
	Id                openapi_types.UUID `json:"id"`
	SellerId          string             `json:"seller_id"`
	OrderId           string             `json:"order_id"`
	OrderAmount       int64              `json:"order_amount"`
	CommissionRateBps int64              `json:"commission_rate_bps"`
	Commission        int64              `json:"commission"`
	PlatformFees      int64              `json:"platform_fees"`
	NetAmount         int64              `json:"net_amount"`
	VerificationTier  string             `json:"verification_tier"`
	Status            string             `json:"status"`
	Attempts          int32              `json:"attempts"`
	LastError         string             `json:"last_error,omitempty"`
	ScheduledAt       time.Time          `json:"scheduled_at"`
	ExecutedAt        *time.Time         `json:"executed_at,omitempty"`
}

// NewWithdrawal is the request body for a cash-out.
type NewWithdrawal struct {
	WalletId       string `json:"wallet_id"`
	Amount         int64  `json:"amount"`
	Method         string `json:"method"`
	Destination    string `json:"destination"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// Withdrawal is a cash-out as returned by the withdrawal endpoints.
type Withdrawal struct {
	Id          openapi_types.UUID `json:"id"`
	WalletId    string             `json:"wallet_id"`
	Amount      int64              `json:"amount"`
	Method      string             `json:"method"`
	Destination string             `json:"destination"`
	Status      string             `json:"status"`
	DailyLimit  int64              `json:"daily_limit"`
	GatewayRef  string             `json:"gateway_ref,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// FundingWebhook is the payment gateway's top-up notification.
type FundingWebhook struct {
	Reference string `json:"reference"`
	WalletId  string `json:"wallet_id"`
	Amount    int64  `json:"amount"`
}

// PayoutWebhook is the payment gateway's disbursement outcome notification.
type PayoutWebhook struct {
	WithdrawalId openapi_types.UUID `json:"withdrawal_id"`
	Outcome      string             `json:"outcome"`
	GatewayRef   string             `json:"gateway_ref,omitempty"`
}

// Payout webhook outcomes.
const (
	PayoutOutcomeSuccess = "success"
	PayoutOutcomeFailure = "failure"
)
