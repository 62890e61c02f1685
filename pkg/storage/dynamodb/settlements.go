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

const settlementDueGSI = "status-scheduled_at-index"

// CreateSettlement persists a scheduled settlement. Creating twice for the
// same order is rejected by the order-scoped id, so an order settles at most
// once.
func (s *Store) CreateSettlement(ctx context.Context, settlement *models.Settlement) (*models.Settlement, error) {
	if settlement.OrderAmount <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", settlement.OrderAmount)
	}
	if settlement.NetAmount < 0 {
		return nil, fmt.Errorf("net amount must be non-negative, got %d", settlement.NetAmount)
	}

	settlement.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("settlement:"+settlement.OrderID)).String()
	settlement.Status = models.SettlementScheduled
	settlement.Attempts = 0

	item, err := attributevalue.MarshalMap(settlement)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settlement: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Settlements),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			// The order already has a settlement; return it unchanged.
			return s.GetSettlement(ctx, settlement.ID)
		}
		return nil, fmt.Errorf("failed to put settlement: %w", err)
	}

	return settlement, nil
}

// GetSettlement retrieves a settlement from DynamoDB by its ID.
func (s *Store) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Settlements),
		Key:       map[string]types.AttributeValue{"id": str(settlementID)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}

	var settlement models.Settlement
	if err := attributevalue.UnmarshalMap(result.Item, &settlement); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settlement: %w", err)
	}
	return &settlement, nil
}

// ExecuteSettlement pays out a due settlement: the seller wallet is credited
// the net amount and the platform revenue wallet takes commission plus fees,
// in one transaction with the status flip to completed. Executing a
// completed settlement is a no-op, so at-least-once delivery from the queue
// is safe.
func (s *Store) ExecuteSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		settlement, err := s.GetSettlement(ctx, settlementID)
		if err != nil {
			return nil, err
		}
		if settlement.Status == models.SettlementCompleted {
			return settlement, nil
		}

		seller, err := s.EnsureWallet(ctx, settlement.SellerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get seller wallet: %w", err)
		}
		platform := seller
		if settlement.SellerID != models.PlatformWalletID {
			platform, err = s.EnsureWallet(ctx, models.PlatformWalletID)
			if err != nil {
				return nil, fmt.Errorf("failed to get platform wallet: %w", err)
			}
		}

		now := time.Now().UTC()
		platformTake := settlement.Commission + settlement.PlatformFees

		var moves []types.TransactWriteItem
		var entries []*models.LedgerEntry
		if seller.UserID == platform.UserID {
			// The platform sold on its own behalf. A wallet item can appear
			// only once per transaction, so the net amount and the take
			// credit as a single mutation.
			total := settlement.NetAmount + platformTake
			available, negative := creditBuckets(platform, total)
			entries = append(entries, newEntry(platform.UserID, models.EntryCredit, total, "settlement", settlement.ID, available, platform.Locked, negative))
			moves = append(moves, s.walletMutation(platform, available, platform.Locked, negative))
		} else {
			sellerAvailable, sellerNegative := creditBuckets(seller, settlement.NetAmount)
			entries = append(entries, newEntry(seller.UserID, models.EntryCredit, settlement.NetAmount, "settlement", settlement.ID, sellerAvailable, seller.Locked, sellerNegative))
			moves = append(moves, s.walletMutation(seller, sellerAvailable, seller.Locked, sellerNegative))

			platformAvailable, platformNegative := creditBuckets(platform, platformTake)
			entries = append(entries, newEntry(platform.UserID, models.EntryCredit, platformTake, "settlement", settlement.ID, platformAvailable, platform.Locked, platformNegative))
			moves = append(moves, s.walletMutation(platform, platformAvailable, platform.Locked, platformNegative))
		}

		statusUpdate := types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.Tables.Settlements),
				Key:                 map[string]types.AttributeValue{"id": str(settlementID)},
				UpdateExpression:    aws.String("SET #status = :completed, executed_at = :now, attempts = attempts + :one REMOVE last_error"),
				ConditionExpression: aws.String("#status = :scheduled OR #status = :failed"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":completed": str(string(models.SettlementCompleted)),
					":scheduled": str(string(models.SettlementScheduled)),
					":failed":    str(string(models.SettlementFailed)),
					":now":       str(now.Format(time.RFC3339Nano)),
					":one":       num(1),
				},
			},
		}

		items := append(moves, statusUpdate)
		for _, e := range entries {
			entryItem, err := s.entryPut(e)
			if err != nil {
				return nil, err
			}
			items = append(items, entryItem)
		}

		_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
		if err != nil {
			if transactHadConditionFailure(err) {
				// A concurrent executor completed it or won the CAS; the
				// re-read decides.
				continue
			}
			return nil, fmt.Errorf("failed to execute settlement transaction: %w", err)
		}

		metrics.LedgerEntries.WithLabelValues(string(models.EntryCredit)).Add(float64(len(entries)))
		metrics.Settlements.WithLabelValues("completed").Inc()

		settlement.Status = models.SettlementCompleted
		settlement.ExecutedAt = &now
		settlement.Attempts++
		settlement.LastError = ""
		return settlement, nil
	}

	return nil, errVersionConflict
}

// ListDueSettlements returns settlements whose scheduled time has passed and
// which are still awaiting execution, including earlier failures that are
// due a retry.
func (s *Store) ListDueSettlements(ctx context.Context, now time.Time, limit int32) ([]models.Settlement, error) {
	if limit <= 0 {
		limit = 50
	}

	var due []models.Settlement
	for _, status := range []models.SettlementStatus{models.SettlementScheduled, models.SettlementFailed} {
		result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.Tables.Settlements),
			IndexName:              aws.String(settlementDueGSI),
			KeyConditionExpression: aws.String("#status = :status AND scheduled_at <= :now"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status": str(string(status)),
				":now":    str(now.UTC().Format(time.RFC3339Nano)),
			},
			Limit: aws.Int32(limit),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query due settlements: %w", err)
		}

		var batch []models.Settlement
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settlements: %w", err)
		}
		due = append(due, batch...)
	}

	return due, nil
}

// MarkSettlementFailed records a failed execution attempt so the
// reconciliation sweep can retry it later. Completed settlements are left
// untouched.
func (s *Store) MarkSettlementFailed(ctx context.Context, settlementID string, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}

	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Settlements),
		Key:                 map[string]types.AttributeValue{"id": str(settlementID)},
		UpdateExpression:    aws.String("SET #status = :failed, last_error = :err, attempts = attempts + :one"),
		ConditionExpression: aws.String("#status <> :completed"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":failed":    str(string(models.SettlementFailed)),
			":completed": str(string(models.SettlementCompleted)),
			":err":       str(msg),
			":one":       num(1),
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil
		}
		return fmt.Errorf("failed to mark settlement failed: %w", err)
	}

	metrics.Settlements.WithLabelValues("failed").Inc()
	return nil
}
