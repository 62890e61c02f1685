package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tradeweave/wallet-ledger/pkg/metrics"
	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
)

// CreateDispute freezes an active lock and opens a dispute record against it
// in a single transaction. A lock that is already released, expired or
// disputed cannot be disputed.
func (s *Store) CreateDispute(ctx context.Context, dispute *models.Dispute) (*models.Dispute, error) {
	lock, err := s.GetLock(ctx, dispute.LockID)
	if err != nil {
		return nil, err
	}
	if lock.Status != models.LockActive {
		return nil, fmt.Errorf("lock %s is %s, only active locks can be disputed: %w", lock.ID, lock.Status, storage.ErrInvalidStateTransition)
	}

	now := time.Now().UTC()
	dispute.ID = idempotentID(dispute.IdempotencyKey)
	dispute.BuyerWalletID = lock.WalletID
	dispute.Status = models.DisputeOpen
	dispute.CreatedAt = now

	item, err := attributevalue.MarshalMap(dispute)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dispute: %w", err)
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Disputes),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			s.lockStatusUpdate(lock.ID, models.LockActive, models.LockDisputed, ""),
		},
	})
	if err != nil {
		if conditionFailedAt(err, 0) {
			// Replay of the same idempotency key; the dispute already exists.
			original, err := s.GetDispute(ctx, dispute.ID)
			if err != nil {
				return nil, err
			}
			if original.LockID != dispute.LockID || original.SellerWalletID != dispute.SellerWalletID {
				return nil, fmt.Errorf("dispute key %q: %w", dispute.IdempotencyKey, storage.ErrIdempotencyMismatch)
			}
			return original, nil
		}
		if conditionFailedAt(err, 1) {
			return nil, fmt.Errorf("lock %s left active state: %w", lock.ID, storage.ErrInvalidStateTransition)
		}
		return nil, fmt.Errorf("failed to execute dispute transaction: %w", err)
	}

	metrics.LockTransitions.WithLabelValues(string(models.LockDisputed)).Inc()
	return dispute, nil
}

// GetDispute retrieves a dispute from DynamoDB by its ID.
func (s *Store) GetDispute(ctx context.Context, disputeID string) (*models.Dispute, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Disputes),
		Key:       map[string]types.AttributeValue{"id": str(disputeID)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dispute from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("dispute %s: %w", disputeID, storage.ErrNotFound)
	}

	var dispute models.Dispute
	if err := attributevalue.UnmarshalMap(result.Item, &dispute); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dispute: %w", err)
	}
	return &dispute, nil
}

// ResolveDispute applies an arbiter ruling to an open dispute. The ruling,
// the lock transition and every balance movement commit as one transaction,
// so a crash mid-resolution leaves the dispute open and re-runnable.
// Resolving a resolved dispute with the same ruling is a no-op; a different
// ruling is rejected.
func (s *Store) ResolveDispute(ctx context.Context, disputeID string, resolution models.Resolution, split *models.PartialSplit) (*models.Dispute, error) {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		dispute, err := s.GetDispute(ctx, disputeID)
		if err != nil {
			return nil, err
		}

		if dispute.Status == models.DisputeResolved {
			if dispute.Resolution == resolution {
				return dispute, nil
			}
			if dispute.Resolution != models.ResolutionHoldFunds {
				return nil, fmt.Errorf("dispute %s already resolved as %s: %w", disputeID, dispute.Resolution, storage.ErrInvalidStateTransition)
			}
			// hold_funds keeps the lock frozen and is the one non-terminal
			// ruling: a follow-up fund-moving ruling routes the held amount
			// out.
		}

		lock, err := s.GetLock(ctx, dispute.LockID)
		if err != nil {
			return nil, err
		}
		if lock.Status != models.LockDisputed {
			return nil, fmt.Errorf("lock %s is %s, expected disputed: %w", lock.ID, lock.Status, storage.ErrInvalidStateTransition)
		}

		if resolution == models.ResolutionPartialRelease {
			if split == nil {
				return nil, fmt.Errorf("partial release requires a split: %w", storage.ErrInvalidSplit)
			}
			if err := split.Validate(lock.Amount); err != nil {
				return nil, err
			}
		}

		items, err := s.resolutionItems(ctx, dispute, lock, resolution, split)
		if err != nil {
			return nil, err
		}

		_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
		if err != nil {
			if transactHadConditionFailure(err) {
				continue
			}
			return nil, fmt.Errorf("failed to execute resolution transaction: %w", err)
		}

		metrics.LockTransitions.WithLabelValues("resolved").Inc()

		now := time.Now().UTC()
		dispute.Status = models.DisputeResolved
		dispute.Resolution = resolution
		dispute.Split = split
		dispute.ResolvedAt = &now
		return dispute, nil
	}

	return nil, errVersionConflict
}

// resolutionItems builds the transact items for a ruling: the dispute
// update, and the balance movements the ruling dictates.
func (s *Store) resolutionItems(ctx context.Context, dispute *models.Dispute, lock *models.Lock, resolution models.Resolution, split *models.PartialSplit) ([]types.TransactWriteItem, error) {
	now := time.Now().UTC()
	values := map[string]types.AttributeValue{
		":resolved":   str(string(models.DisputeResolved)),
		":resolution": str(string(resolution)),
		":now":        str(now.Format(time.RFC3339Nano)),
	}
	condition := "#status = :open"
	if dispute.Status == models.DisputeResolved {
		// Escalation out of hold_funds: the row is already resolved, so the
		// guard pins the prior ruling instead of the open status.
		condition = "#status = :resolved AND resolution = :held"
		values[":held"] = str(string(models.ResolutionHoldFunds))
	} else {
		values[":open"] = str(string(models.DisputeOpen))
	}
	updateExpr := "SET #status = :resolved, resolution = :resolution, resolved_at = :now"
	if split != nil {
		splitAV, err := attributevalue.Marshal(split)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal split: %w", err)
		}
		updateExpr += ", #split = :split"
		values[":split"] = splitAV
	}
	names := map[string]string{"#status": "status"}
	if split != nil {
		names["#split"] = "split"
	}
	disputeUpdate := types.TransactWriteItem{
		Update: &types.Update{
			TableName:                 aws.String(s.Tables.Disputes),
			Key:                       map[string]types.AttributeValue{"id": str(dispute.ID)},
			UpdateExpression:          aws.String(updateExpr),
			ConditionExpression:       aws.String(condition),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		},
	}

	switch resolution {
	case models.ResolutionHoldFunds:
		// Funds stay frozen in the locked bucket; the lock remains disputed
		// pending escalation outside the ledger.
		return []types.TransactWriteItem{disputeUpdate}, nil

	case models.ResolutionReleaseToBuyer:
		items, err := s.rulingMovementItems(ctx, dispute, lock, lock.Amount, 0)
		if err != nil {
			return nil, err
		}
		return append(items, disputeUpdate), nil

	case models.ResolutionReleaseToSeller:
		items, err := s.rulingMovementItems(ctx, dispute, lock, 0, lock.Amount)
		if err != nil {
			return nil, err
		}
		return append(items, disputeUpdate), nil

	case models.ResolutionPartialRelease:
		items, err := s.rulingMovementItems(ctx, dispute, lock, split.BuyerAmount, split.SellerAmount)
		if err != nil {
			return nil, err
		}
		return append(items, disputeUpdate), nil

	default:
		return nil, fmt.Errorf("unknown resolution %q: %w", resolution, storage.ErrInvalidStateTransition)
	}
}

// rulingMovementItems unwinds the disputed hold and routes buyerAmount back
// to the buyer and sellerAmount to the seller. The buyer wallet is the
// locker, so its share is a pure unlock while the seller share leaves as a
// debit matched by a credit. Zero shares produce no entries.
func (s *Store) rulingMovementItems(ctx context.Context, dispute *models.Dispute, lock *models.Lock, buyerAmount, sellerAmount int64) ([]types.TransactWriteItem, error) {
	if dispute.BuyerWalletID != lock.WalletID {
		return nil, fmt.Errorf("dispute buyer wallet %s does not own lock %s: %w", dispute.BuyerWalletID, lock.ID, storage.ErrInvalidStateTransition)
	}

	buyer, err := s.GetWallet(ctx, lock.WalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer wallet: %w", err)
	}

	buyerLocked := buyer.Locked - lock.Amount
	buyerAvailable := buyer.Available + buyerAmount
	releasedTo := lock.WalletID

	var entries []*models.LedgerEntry
	unlock := newEntry(lock.WalletID, models.EntryUnlock, lock.Amount, "dispute_resolved", lock.ID, buyer.Available+lock.Amount, buyerLocked, buyer.Negative)
	entries = append(entries, unlock)
	if sellerAmount > 0 {
		debit := newEntry(lock.WalletID, models.EntryDebit, sellerAmount, "dispute_resolved", lock.ID, buyerAvailable, buyerLocked, buyer.Negative)
		entries = append(entries, debit)
	}

	items := []types.TransactWriteItem{
		s.walletMutation(buyer, buyerAvailable, buyerLocked, buyer.Negative),
	}

	if sellerAmount > 0 {
		seller, err := s.EnsureWallet(ctx, dispute.SellerWalletID)
		if err != nil {
			return nil, fmt.Errorf("failed to get seller wallet: %w", err)
		}
		sellerAvailable, sellerNegative := creditBuckets(seller, sellerAmount)
		credit := newEntry(seller.UserID, models.EntryCredit, sellerAmount, "dispute_resolved", lock.ID, sellerAvailable, seller.Locked, sellerNegative)
		entries = append(entries, credit)
		items = append(items, s.walletMutation(seller, sellerAvailable, seller.Locked, sellerNegative))
		if sellerAmount == lock.Amount {
			releasedTo = seller.UserID
		}
	}

	items = append(items, s.lockStatusUpdate(lock.ID, models.LockDisputed, models.LockReleased, releasedTo))
	for _, e := range entries {
		entryItem, err := s.entryPut(e)
		if err != nil {
			return nil, err
		}
		items = append(items, entryItem)
	}
	return items, nil
}
