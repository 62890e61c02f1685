// Package mapping converts between the domain models and the API types.
package mapping

import (
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tradeweave/wallet-ledger/pkg/api"
	"github.com/tradeweave/wallet-ledger/pkg/models"
)

// toUUID parses a domain id into the API UUID type. Domain ids are always
// uuid strings; a malformed one maps to the zero UUID rather than failing
// the response.
func toUUID(id string) openapi_types.UUID {
	u, err := uuid.Parse(id)
	if err != nil {
		return openapi_types.UUID{}
	}
	return openapi_types.UUID(u)
}

// ToApiWallet converts a domain Wallet to its API representation.
func ToApiWallet(w *models.Wallet) *api.Wallet {
	return &api.Wallet{
		UserId:      w.UserID,
		Available:   w.Available,
		Locked:      w.Locked,
		Negative:    w.Negative,
		NetPosition: w.NetPosition(),
		Version:     w.Version,
	}
}

// ToApiLedgerEntry converts a domain LedgerEntry to its API representation.
func ToApiLedgerEntry(e *models.LedgerEntry) *api.LedgerEntry {
	return &api.LedgerEntry{
		EntryId:        toUUID(e.EntryID),
		WalletId:       e.WalletID,
		Type:           string(e.Type),
		Amount:         e.Amount,
		ReferenceType:  e.ReferenceType,
		ReferenceId:    e.ReferenceID,
		AvailableAfter: e.AvailableAfter,
		LockedAfter:    e.LockedAfter,
		NegativeAfter:  e.NegativeAfter,
		CreatedAt:      e.CreatedAt,
	}
}

// ToApiConditions converts domain release conditions to API ones.
func ToApiConditions(conditions []models.ReleaseCondition) []api.ReleaseCondition {
	if len(conditions) == 0 {
		return nil
	}
	out := make([]api.ReleaseCondition, len(conditions))
	for i, c := range conditions {
		out[i] = api.ReleaseCondition{
			Type:         string(c.Type),
			TimeoutHours: c.TimeoutHours,
			ToWalletId:   c.ToWalletID,
		}
	}
	return out
}

// ToDomainConditions converts API release conditions to domain ones.
func ToDomainConditions(conditions []api.ReleaseCondition) []models.ReleaseCondition {
	if len(conditions) == 0 {
		return nil
	}
	out := make([]models.ReleaseCondition, len(conditions))
	for i, c := range conditions {
		out[i] = models.ReleaseCondition{
			Type:         models.ConditionType(c.Type),
			TimeoutHours: c.TimeoutHours,
			ToWalletID:   c.ToWalletId,
		}
	}
	return out
}

// ToApiLock converts a domain Lock to its API representation.
func ToApiLock(l *models.Lock) *api.Lock {
	return &api.Lock{
		Id:          toUUID(l.ID),
		WalletId:    l.WalletID,
		Amount:      l.Amount,
		Reason:      l.Reason,
		ReferenceId: l.ReferenceID,
		Status:      string(l.Status),
		Conditions:  ToApiConditions(l.Conditions),
		LockedUntil: l.LockedUntil,
		ReleasedTo:  l.ReleasedTo,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// ToDomainNewLock converts a lock creation request to a domain Lock.
func ToDomainNewLock(req *api.NewLock) *models.Lock {
	return &models.Lock{
		WalletID:       req.WalletId,
		Amount:         req.Amount,
		Reason:         req.Reason,
		ReferenceID:    req.ReferenceId,
		LockedUntil:    req.LockedUntil,
		Conditions:     ToDomainConditions(req.Conditions),
		IdempotencyKey: req.IdempotencyKey,
	}
}

// ToApiDispute converts a domain Dispute to its API representation.
func ToApiDispute(d *models.Dispute) *api.Dispute {
	out := &api.Dispute{
		Id:             toUUID(d.ID),
		LockId:         toUUID(d.LockID),
		BuyerWalletId:  d.BuyerWalletID,
		SellerWalletId: d.SellerWalletID,
		DisputedBy:     d.DisputedBy,
		Reason:         d.Reason,
		Description:    d.Description,
		Evidence:       d.Evidence,
		Status:         string(d.Status),
		Resolution:     string(d.Resolution),
		CreatedAt:      d.CreatedAt,
		ResolvedAt:     d.ResolvedAt,
	}
	if d.Split != nil {
		out.Split = &api.PartialSplit{
			BuyerAmount:  d.Split.BuyerAmount,
			SellerAmount: d.Split.SellerAmount,
		}
	}
	return out
}

// ToDomainNewDispute converts a dispute creation request to a domain
// Dispute. The buyer wallet is filled in by the storage layer from the lock.
func ToDomainNewDispute(req *api.NewDispute) *models.Dispute {
	return &models.Dispute{
		LockID:         uuid.UUID(req.LockId).String(),
		SellerWalletID: req.SellerWalletId,
		DisputedBy:     req.DisputedBy,
		Reason:         req.Reason,
		Description:    req.Description,
		Evidence:       req.Evidence,
		IdempotencyKey: req.IdempotencyKey,
	}
}

// ToApiSettlement converts a domain Settlement to its API representation.
func ToApiSettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		Id:                toUUID(s.ID),
		SellerId:          s.SellerID,
		OrderId:           s.OrderID,
		OrderAmount:       s.OrderAmount,
		CommissionRateBps: s.CommissionRateBps,
		Commission:        s.Commission,
		PlatformFees:      s.PlatformFees,
		NetAmount:         s.NetAmount,
		VerificationTier:  string(s.VerificationTier),
		Status:            string(s.Status),
		Attempts:          s.Attempts,
		LastError:         s.LastError,
		ScheduledAt:       s.ScheduledAt,
		ExecutedAt:        s.ExecutedAt,
	}
}

// ToApiWithdrawal converts a domain WithdrawalRequest to its API
// representation.
func ToApiWithdrawal(w *models.WithdrawalRequest) *api.Withdrawal {
	return &api.Withdrawal{
		Id:          toUUID(w.ID),
		WalletId:    w.WalletID,
		Amount:      w.Amount,
		Method:      string(w.Method),
		Destination: w.Destination,
		Status:      string(w.Status),
		DailyLimit:  w.DailyLimit,
		GatewayRef:  w.GatewayRef,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// ToDomainNewWithdrawal converts a withdrawal request body to a domain
// WithdrawalRequest.
func ToDomainNewWithdrawal(req *api.NewWithdrawal) *models.WithdrawalRequest {
	return &models.WithdrawalRequest{
		WalletID:       req.WalletId,
		Amount:         req.Amount,
		Method:         models.WithdrawalMethod(req.Method),
		Destination:    req.Destination,
		IdempotencyKey: req.IdempotencyKey,
	}
}
