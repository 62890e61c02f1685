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

const (
	withdrawalWalletGSI = "wallet_id-created_at-index"
	withdrawalStatusGSI = "status-created_at-index"
)

// CreateWithdrawal atomically debits the wallet and persists the request as
// pending. The debit happens up front; a later gateway failure credits it
// back through ReverseWithdrawal.
func (s *Store) CreateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) (*models.WithdrawalRequest, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("withdrawal amount must be positive, got %d", req.Amount)
	}

	now := time.Now().UTC()
	req.ID = idempotentID(req.IdempotencyKey)
	req.Status = models.WithdrawalPending
	req.CreatedAt = now
	req.UpdatedAt = now

	item, err := attributevalue.MarshalMap(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal withdrawal: %w", err)
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		wallet, err := s.GetWallet(ctx, req.WalletID)
		if err != nil {
			return nil, err
		}
		if wallet.Available < req.Amount {
			return nil, storage.ErrInsufficientFunds
		}

		available := wallet.Available - req.Amount
		entry := newEntry(req.WalletID, models.EntryDebit, req.Amount, "withdrawal", req.ID, available, wallet.Locked, wallet.Negative)
		entryItem, err := s.entryPut(entry)
		if err != nil {
			return nil, err
		}

		_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				s.walletMutation(wallet, available, wallet.Locked, wallet.Negative),
				{
					Put: &types.Put{
						TableName:           aws.String(s.Tables.Withdrawals),
						Item:                item,
						ConditionExpression: aws.String("attribute_not_exists(id)"),
					},
				},
				entryItem,
			},
		})
		if err != nil {
			if conditionFailedAt(err, 1) {
				// Same idempotency key; return the original request without
				// debiting again.
				original, err := s.GetWithdrawal(ctx, req.ID)
				if err != nil {
					return nil, err
				}
				if original.WalletID != req.WalletID || original.Amount != req.Amount ||
					original.Method != req.Method || original.Destination != req.Destination {
					return nil, fmt.Errorf("withdrawal key %q: %w", req.IdempotencyKey, storage.ErrIdempotencyMismatch)
				}
				return original, nil
			}
			if conditionFailedAt(err, 0) {
				continue
			}
			return nil, fmt.Errorf("failed to execute withdrawal transaction: %w", err)
		}

		metrics.LedgerEntries.WithLabelValues(string(models.EntryDebit)).Inc()
		metrics.Withdrawals.WithLabelValues(string(models.WithdrawalPending)).Inc()
		return req, nil
	}

	return nil, errVersionConflict
}

// GetWithdrawal retrieves a withdrawal request from DynamoDB by its ID.
func (s *Store) GetWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Withdrawals),
		Key:       map[string]types.AttributeValue{"id": str(id)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("withdrawal %s: %w", id, storage.ErrNotFound)
	}

	var req models.WithdrawalRequest
	if err := attributevalue.UnmarshalMap(result.Item, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawal: %w", err)
	}
	return &req, nil
}

// SumWithdrawalsSince totals the wallet's withdrawal amounts created at or
// after the cutoff, excluding reversed and failed requests that no longer
// count against the daily limit.
func (s *Store) SumWithdrawalsSince(ctx context.Context, walletID string, since time.Time) (int64, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Withdrawals),
		IndexName:              aws.String(withdrawalWalletGSI),
		KeyConditionExpression: aws.String("wallet_id = :wallet AND created_at >= :since"),
		FilterExpression:       aws.String("#status <> :reversed AND #status <> :failed"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":wallet":   str(walletID),
			":since":    str(since.UTC().Format(time.RFC3339Nano)),
			":reversed": str(string(models.WithdrawalReversed)),
			":failed":   str(string(models.WithdrawalFailed)),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query withdrawals: %w", err)
	}

	var reqs []models.WithdrawalRequest
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &reqs); err != nil {
		return 0, fmt.Errorf("failed to unmarshal withdrawals: %w", err)
	}

	var total int64
	for _, r := range reqs {
		total += r.Amount
	}
	return total, nil
}

// MarkWithdrawalProcessing records the payout dispatch. Only a pending
// request can move to processing; anything else means a concurrent
// transition won.
func (s *Store) MarkWithdrawalProcessing(ctx context.Context, id, gatewayRef string) (*models.WithdrawalRequest, error) {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Withdrawals),
		Key:                 map[string]types.AttributeValue{"id": str(id)},
		UpdateExpression:    aws.String("SET #status = :processing, gateway_ref = :ref, updated_at = :now"),
		ConditionExpression: aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":processing": str(string(models.WithdrawalProcessing)),
			":pending":    str(string(models.WithdrawalPending)),
			":ref":        str(gatewayRef),
			":now":        str(time.Now().UTC().Format(time.RFC3339Nano)),
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, fmt.Errorf("withdrawal %s is not pending: %w", id, storage.ErrInvalidStateTransition)
		}
		return nil, fmt.Errorf("failed to mark withdrawal processing: %w", err)
	}

	metrics.Withdrawals.WithLabelValues(string(models.WithdrawalProcessing)).Inc()
	return s.GetWithdrawal(ctx, id)
}

// CompleteWithdrawal finalizes a confirmed payout. The wallet was debited at
// request time, so completion is a pure state change. Completing an already
// completed request is a no-op; a reversed request cannot complete.
func (s *Store) CompleteWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	req, err := s.GetWithdrawal(ctx, id)
	if err != nil {
		return nil, err
	}

	switch req.Status {
	case models.WithdrawalCompleted:
		return req, nil
	case models.WithdrawalReversed, models.WithdrawalFailed:
		return nil, fmt.Errorf("withdrawal %s is %s: %w", id, req.Status, storage.ErrInvalidStateTransition)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Withdrawals),
		Key:                 map[string]types.AttributeValue{"id": str(id)},
		UpdateExpression:    aws.String("SET #status = :completed, updated_at = :now"),
		ConditionExpression: aws.String("#status = :pending OR #status = :processing"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":completed":  str(string(models.WithdrawalCompleted)),
			":pending":    str(string(models.WithdrawalPending)),
			":processing": str(string(models.WithdrawalProcessing)),
			":now":        str(time.Now().UTC().Format(time.RFC3339Nano)),
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			// Lost the race; the re-read tells the caller what won.
			return s.CompleteWithdrawal(ctx, id)
		}
		return nil, fmt.Errorf("failed to complete withdrawal: %w", err)
	}

	metrics.Withdrawals.WithLabelValues(string(models.WithdrawalCompleted)).Inc()
	req.Status = models.WithdrawalCompleted
	return req, nil
}

// ReverseWithdrawal credits the amount back to the wallet and marks the
// request reversed in one transaction. Reversing twice credits once: the
// status condition rejects the second attempt and the no-op path returns the
// already reversed request.
func (s *Store) ReverseWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		req, err := s.GetWithdrawal(ctx, id)
		if err != nil {
			return nil, err
		}

		switch req.Status {
		case models.WithdrawalReversed:
			return req, nil
		case models.WithdrawalCompleted:
			return nil, fmt.Errorf("withdrawal %s already completed: %w", id, storage.ErrInvalidStateTransition)
		}

		wallet, err := s.GetWallet(ctx, req.WalletID)
		if err != nil {
			return nil, err
		}

		available, negative := creditBuckets(wallet, req.Amount)
		entry := newEntry(req.WalletID, models.EntryCredit, req.Amount, "withdrawal_reversal", req.ID, available, wallet.Locked, negative)
		entryItem, err := s.entryPut(entry)
		if err != nil {
			return nil, err
		}

		statusUpdate := types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.Tables.Withdrawals),
				Key:                 map[string]types.AttributeValue{"id": str(id)},
				UpdateExpression:    aws.String("SET #status = :reversed, updated_at = :now"),
				ConditionExpression: aws.String("#status = :pending OR #status = :processing OR #status = :failed"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":reversed":   str(string(models.WithdrawalReversed)),
					":pending":    str(string(models.WithdrawalPending)),
					":processing": str(string(models.WithdrawalProcessing)),
					":failed":     str(string(models.WithdrawalFailed)),
					":now":        str(time.Now().UTC().Format(time.RFC3339Nano)),
				},
			},
		}

		_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				s.walletMutation(wallet, available, wallet.Locked, negative),
				statusUpdate,
				entryItem,
			},
		})
		if err != nil {
			if transactHadConditionFailure(err) {
				continue
			}
			return nil, fmt.Errorf("failed to execute reversal transaction: %w", err)
		}

		metrics.LedgerEntries.WithLabelValues(string(models.EntryCredit)).Inc()
		metrics.Withdrawals.WithLabelValues(string(models.WithdrawalReversed)).Inc()

		req.Status = models.WithdrawalReversed
		return req, nil
	}

	return nil, errVersionConflict
}

// ListStuckWithdrawals returns pending withdrawals older than the given age.
// These were accepted but never dispatched to the payout gateway, usually
// because the process died between the debit and the dispatch.
func (s *Store) ListStuckWithdrawals(ctx context.Context, olderThan time.Duration) ([]models.WithdrawalRequest, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Withdrawals),
		IndexName:              aws.String(withdrawalStatusGSI),
		KeyConditionExpression: aws.String("#status = :pending AND created_at <= :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": str(string(models.WithdrawalPending)),
			":cutoff":  str(cutoff.Format(time.RFC3339Nano)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query stuck withdrawals: %w", err)
	}

	var reqs []models.WithdrawalRequest
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &reqs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawals: %w", err)
	}
	return reqs, nil
}
