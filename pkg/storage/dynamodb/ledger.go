package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/tradeweave/wallet-ledger/pkg/metrics"
	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
)

const ledgerWalletGSI = "gsi1pk-created_at-index"

// ledgerPartition is the GSI partition key grouping a wallet's entries for
// the walletId+timestamp listing.
func ledgerPartition(walletID string) string {
	return "LEDGER#" + walletID
}

// newEntry builds an immutable ledger entry whose snapshot fields record the
// wallet's buckets after the mutation it belongs to.
func newEntry(walletID string, entryType models.EntryType, amount int64, refType, refID string, availableAfter, lockedAfter, negativeAfter int64) *models.LedgerEntry {
	return &models.LedgerEntry{
		EntryID:        uuid.New().String(),
		WalletID:       walletID,
		Type:           entryType,
		Amount:         amount,
		ReferenceType:  refType,
		ReferenceID:    refID,
		AvailableAfter: availableAfter,
		LockedAfter:    lockedAfter,
		NegativeAfter:  negativeAfter,
		CreatedAt:      time.Now().UTC(),
		GSI1PK:         ledgerPartition(walletID),
	}
}

// entryPut builds the transact item that appends an entry. The condition
// makes entries append-only: an entry id can never be overwritten.
func (s *Store) entryPut(entry *models.LedgerEntry) (types.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.Tables.Ledger),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
		},
	}, nil
}

// ApplyEntry applies a single credit or debit to a wallet and appends the
// ledger entry in the same TransactWriteItems unit. Lock and unlock entries
// are written by the lock manager's own transactions, never directly.
func (s *Store) ApplyEntry(ctx context.Context, walletID string, entryType models.EntryType, amount int64, refType, refID string) (*models.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("entry amount must be positive, got %d", amount)
	}
	if entryType != models.EntryCredit && entryType != models.EntryDebit {
		return nil, fmt.Errorf("entry type %q cannot be applied directly", entryType)
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		wallet, err := s.EnsureWallet(ctx, walletID)
		if err != nil {
			return nil, fmt.Errorf("failed to get wallet: %w", err)
		}

		var available, locked, negative int64
		locked = wallet.Locked
		switch entryType {
		case models.EntryCredit:
			available, negative = creditBuckets(wallet, amount)
		case models.EntryDebit:
			switch {
			case wallet.Available >= amount:
				available = wallet.Available - amount
				negative = wallet.Negative
			case wallet.AllowNegative:
				// Credit policy: the shortfall becomes recorded debt instead
				// of a rejection.
				available = 0
				negative = wallet.Negative + (amount - wallet.Available)
			default:
				return nil, storage.ErrInsufficientFunds
			}
		}

		entry := newEntry(walletID, entryType, amount, refType, refID, available, locked, negative)
		entryItem, err := s.entryPut(entry)
		if err != nil {
			return nil, err
		}

		_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				s.walletMutation(wallet, available, locked, negative),
				entryItem,
			},
		})
		if err != nil {
			if conditionFailedAt(err, 0) {
				// Lost the version race; re-read and retry.
				continue
			}
			return nil, fmt.Errorf("failed to execute ledger transaction: %w", err)
		}

		metrics.LedgerEntries.WithLabelValues(string(entryType)).Inc()
		return entry, nil
	}

	return nil, errVersionConflict
}

// GetBalance returns a consistent snapshot of the wallet's buckets.
func (s *Store) GetBalance(ctx context.Context, walletID string) (*models.Balance, error) {
	wallet, err := s.GetWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	return &models.Balance{
		Available: wallet.Available,
		Locked:    wallet.Locked,
		Negative:  wallet.Negative,
	}, nil
}

// ListLedgerEntries retrieves the wallet's most recent entries, newest first.
func (s *Store) ListLedgerEntries(ctx context.Context, walletID string, limit int32) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Ledger),
		IndexName:              aws.String(ledgerWalletGSI),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": str(ledgerPartition(walletID)),
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}

	var entries []models.LedgerEntry
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
	}

	return entries, nil
}

// ApplyFunding credits a wallet for an externally confirmed top-up. The
// funding row keyed by the gateway reference is created in the same
// transaction as the credit, so webhook replays cannot double-credit.
func (s *Store) ApplyFunding(ctx context.Context, reference, walletID string, amount int64) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("funding amount must be positive, got %d", amount)
	}

	event := &models.FundingEvent{
		Reference: reference,
		WalletID:  walletID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	eventItem, err := attributevalue.MarshalMap(event)
	if err != nil {
		return false, fmt.Errorf("failed to marshal funding event: %w", err)
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		wallet, err := s.EnsureWallet(ctx, walletID)
		if err != nil {
			return false, fmt.Errorf("failed to get wallet: %w", err)
		}

		available, negative := creditBuckets(wallet, amount)
		entry := newEntry(walletID, models.EntryCredit, amount, "funding", reference, available, wallet.Locked, negative)
		entryItem, err := s.entryPut(entry)
		if err != nil {
			return false, err
		}

		_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				{
					Put: &types.Put{
						TableName:           aws.String(s.Tables.Funding),
						Item:                eventItem,
						ConditionExpression: aws.String("attribute_not_exists(#ref)"),
						ExpressionAttributeNames: map[string]string{
							"#ref": "reference",
						},
					},
				},
				s.walletMutation(wallet, available, wallet.Locked, negative),
				entryItem,
			},
		})
		if err != nil {
			if conditionFailedAt(err, 0) {
				// The reference was already applied; this is a replay.
				return false, nil
			}
			if conditionFailedAt(err, 1) {
				continue
			}
			return false, fmt.Errorf("failed to execute funding transaction: %w", err)
		}

		metrics.LedgerEntries.WithLabelValues(string(models.EntryCredit)).Inc()
		return true, nil
	}

	return false, errVersionConflict
}
