package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
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

const (
	lockReferenceGSI = "reference_id-index"
	lockExpiryGSI    = "status-locked_until-index"
)

// idempotentID derives a deterministic id from an idempotency key so that a
// retried create collides with the original row instead of minting a second
// one. Without a key a random id is used.
func idempotentID(key string) string {
	if key == "" {
		return uuid.New().String()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// lockStatusUpdate builds the transact item moving a lock between states.
// The condition pins the expected current state, so two concurrent
// transitions cannot both apply.
func (s *Store) lockStatusUpdate(lockID string, from, to models.LockStatus, releasedTo string) types.TransactWriteItem {
	values := map[string]types.AttributeValue{
		":from": str(string(from)),
		":to":   str(string(to)),
		":now":  str(time.Now().UTC().Format(time.RFC3339Nano)),
	}
	expr := "SET #status = :to, updated_at = :now"
	if releasedTo != "" {
		expr += ", released_to = :released_to"
		values[":released_to"] = str(releasedTo)
	}
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(s.Tables.Locks),
			Key:                 map[string]types.AttributeValue{"id": str(lockID)},
			UpdateExpression:    aws.String(expr),
			ConditionExpression: aws.String("#status = :from"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: values,
		},
	}
}

// timeoutDeadline returns the earliest timeout_hours deadline among the
// conditions, measured from createdAt, or nil when none carries a timeout.
func timeoutDeadline(createdAt time.Time, conditions []models.ReleaseCondition) *time.Time {
	var earliest *time.Time
	for _, c := range conditions {
		if c.Type != models.ConditionTimeoutHours {
			continue
		}
		deadline := createdAt.Add(time.Duration(c.TimeoutHours) * time.Hour)
		if earliest == nil || deadline.Before(*earliest) {
			earliest = &deadline
		}
	}
	return earliest
}

// CreateLock atomically reserves funds from the wallet's available balance
// and persists the lock as active. A timeout_hours condition tightens
// locked_until so the expiry sweep picks the lock up when the clock runs out.
func (s *Store) CreateLock(ctx context.Context, lock *models.Lock) (*models.Lock, error) {
	if lock.Amount <= 0 {
		return nil, fmt.Errorf("lock amount must be positive, got %d", lock.Amount)
	}
	for _, c := range lock.Conditions {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid release condition: %w", err)
		}
	}

	now := time.Now().UTC()
	lock.ID = idempotentID(lock.IdempotencyKey)
	lock.Status = models.LockActive
	lock.CreatedAt = now
	lock.UpdatedAt = now
	if deadline := timeoutDeadline(now, lock.Conditions); deadline != nil {
		if lock.LockedUntil == nil || deadline.Before(*lock.LockedUntil) {
			lock.LockedUntil = deadline
		}
	}

	lockItem, err := attributevalue.MarshalMap(lock)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lock: %w", err)
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		wallet, err := s.EnsureWallet(ctx, lock.WalletID)
		if err != nil {
			return nil, fmt.Errorf("failed to get wallet: %w", err)
		}

		if wallet.Available < lock.Amount {
			return nil, storage.ErrInsufficientFunds
		}

		available := wallet.Available - lock.Amount
		locked := wallet.Locked + lock.Amount
		entry := newEntry(lock.WalletID, models.EntryLock, lock.Amount, "lock", lock.ID, available, locked, wallet.Negative)
		entryItem, err := s.entryPut(entry)
		if err != nil {
			return nil, err
		}

		_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				s.walletMutation(wallet, available, locked, wallet.Negative),
				{
					Put: &types.Put{
						TableName:           aws.String(s.Tables.Locks),
						Item:                lockItem,
						ConditionExpression: aws.String("attribute_not_exists(id)"),
					},
				},
				entryItem,
			},
		})
		if err != nil {
			if conditionFailedAt(err, 1) {
				// Same idempotency key was already applied; return the
				// original lock without moving funds again.
				original, err := s.GetLock(ctx, lock.ID)
				if err != nil {
					return nil, err
				}
				if original.WalletID != lock.WalletID || original.Amount != lock.Amount || original.ReferenceID != lock.ReferenceID {
					return nil, fmt.Errorf("lock key %q: %w", lock.IdempotencyKey, storage.ErrIdempotencyMismatch)
				}
				return original, nil
			}
			if conditionFailedAt(err, 0) {
				continue
			}
			return nil, fmt.Errorf("failed to execute lock transaction: %w", err)
		}

		metrics.LedgerEntries.WithLabelValues(string(models.EntryLock)).Inc()
		metrics.LockTransitions.WithLabelValues("created").Inc()
		return lock, nil
	}

	return nil, errVersionConflict
}

// GetLock retrieves a lock from DynamoDB by its ID.
func (s *Store) GetLock(ctx context.Context, lockID string) (*models.Lock, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Locks),
		Key:       map[string]types.AttributeValue{"id": str(lockID)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get lock from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("lock %s: %w", lockID, storage.ErrNotFound)
	}

	var lock models.Lock
	if err := attributevalue.UnmarshalMap(result.Item, &lock); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lock: %w", err)
	}
	return &lock, nil
}

// ReleaseLock moves the held amount out of the locked bucket: back to the
// locker's available balance, or to a counterparty wallet when opts names
// one. Releasing an already-released lock reports success without moving
// funds.
func (s *Store) ReleaseLock(ctx context.Context, lockID string, opts storage.ReleaseOptions) (*models.Lock, error) {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		lock, err := s.GetLock(ctx, lockID)
		if err != nil {
			return nil, err
		}

		switch lock.Status {
		case models.LockReleased, models.LockExpired:
			return lock, nil
		case models.LockDisputed:
			// Disputed funds are frozen; only the arbiter moves them.
			return nil, fmt.Errorf("lock %s is disputed: %w", lockID, storage.ErrInvalidStateTransition)
		case models.LockActive:
			// proceed
		default:
			return nil, fmt.Errorf("lock %s in unknown status %q: %w", lockID, lock.Status, storage.ErrInvalidStateTransition)
		}

		toStatus := models.LockReleased
		if opts.Expire {
			toStatus = models.LockExpired
		}
		releasedTo := lock.WalletID
		if opts.ToWalletID != "" && opts.ToWalletID != lock.WalletID {
			releasedTo = opts.ToWalletID
		}

		items, err := s.releaseItems(ctx, lock, releasedTo, opts.Reason, toStatus)
		if err != nil {
			return nil, err
		}

		_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
		if err != nil {
			if transactHadConditionFailure(err) {
				// A concurrent release, dispute or expiry got there first;
				// re-read and decide again.
				continue
			}
			return nil, fmt.Errorf("failed to execute release transaction: %w", err)
		}

		metrics.LedgerEntries.WithLabelValues(string(models.EntryUnlock)).Inc()
		metrics.LockTransitions.WithLabelValues(string(toStatus)).Inc()

		lock.Status = toStatus
		lock.ReleasedTo = releasedTo
		return lock, nil
	}

	return nil, errVersionConflict
}

// releaseItems builds the atomic unit for a release: the wallet bucket
// moves, the unlock/debit/credit entries, and the lock state transition.
// When two wallets are involved their updates are ordered by wallet id so
// that concurrent transfers over the same pair take a consistent order.
func (s *Store) releaseItems(ctx context.Context, lock *models.Lock, releasedTo, reason string, toStatus models.LockStatus) ([]types.TransactWriteItem, error) {
	// The reason becomes the reference type of the movement entries, so the
	// ledger records whether funds moved by manual release, expiry or an
	// automatic condition.
	if reason == "" {
		reason = "release"
	}

	locker, err := s.GetWallet(ctx, lock.WalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get locker wallet: %w", err)
	}

	type walletChange struct {
		item    types.TransactWriteItem
		entries []*models.LedgerEntry
		userID  string
	}
	var changes []walletChange

	if releasedTo == lock.WalletID {
		// Full release back to the locker: a pure bucket move.
		available := locker.Available + lock.Amount
		locked := locker.Locked - lock.Amount
		unlock := newEntry(lock.WalletID, models.EntryUnlock, lock.Amount, "unlock", lock.ID, available, locked, locker.Negative)
		changes = append(changes, walletChange{
			item:    s.walletMutation(locker, available, locked, locker.Negative),
			entries: []*models.LedgerEntry{unlock},
			userID:  locker.UserID,
		})
	} else {
		// Cross-wallet release: the hold unwinds on the locker and the funds
		// leave as a debit, matched by a credit on the counterparty.
		counterparty, err := s.EnsureWallet(ctx, releasedTo)
		if err != nil {
			return nil, fmt.Errorf("failed to get counterparty wallet: %w", err)
		}

		lockerLocked := locker.Locked - lock.Amount
		unlock := newEntry(lock.WalletID, models.EntryUnlock, lock.Amount, "unlock", lock.ID, locker.Available+lock.Amount, lockerLocked, locker.Negative)
		debit := newEntry(lock.WalletID, models.EntryDebit, lock.Amount, reason, lock.ID, locker.Available, lockerLocked, locker.Negative)
		changes = append(changes, walletChange{
			item:    s.walletMutation(locker, locker.Available, lockerLocked, locker.Negative),
			entries: []*models.LedgerEntry{unlock, debit},
			userID:  locker.UserID,
		})

		cpAvailable, cpNegative := creditBuckets(counterparty, lock.Amount)
		credit := newEntry(releasedTo, models.EntryCredit, lock.Amount, reason, lock.ID, cpAvailable, counterparty.Locked, cpNegative)
		changes = append(changes, walletChange{
			item:    s.walletMutation(counterparty, cpAvailable, counterparty.Locked, cpNegative),
			entries: []*models.LedgerEntry{credit},
			userID:  counterparty.UserID,
		})
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].userID < changes[j].userID })

	var items []types.TransactWriteItem
	for _, c := range changes {
		items = append(items, c.item)
	}
	items = append(items, s.lockStatusUpdate(lock.ID, models.LockActive, toStatus, releasedTo))
	for _, c := range changes {
		for _, e := range c.entries {
			entryItem, err := s.entryPut(e)
			if err != nil {
				return nil, err
			}
			items = append(items, entryItem)
		}
	}
	return items, nil
}

// SetReleaseConditions replaces the automatic-release predicate of an active
// lock.
func (s *Store) SetReleaseConditions(ctx context.Context, lockID string, conditions []models.ReleaseCondition) (*models.Lock, error) {
	for _, c := range conditions {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid release condition: %w", err)
		}
	}

	lock, err := s.GetLock(ctx, lockID)
	if err != nil {
		return nil, err
	}
	if lock.Status != models.LockActive {
		return nil, fmt.Errorf("lock %s is %s: %w", lockID, lock.Status, storage.ErrInvalidStateTransition)
	}

	condsAV, err := attributevalue.Marshal(conditions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conditions: %w", err)
	}

	expr := "SET conditions = :conditions, updated_at = :now"
	values := map[string]types.AttributeValue{
		":conditions": condsAV,
		":active":     str(string(models.LockActive)),
		":now":        str(time.Now().UTC().Format(time.RFC3339Nano)),
	}
	if deadline := timeoutDeadline(lock.CreatedAt, conditions); deadline != nil {
		if lock.LockedUntil == nil || deadline.Before(*lock.LockedUntil) {
			expr += ", locked_until = :until"
			values[":until"] = str(deadline.Format(time.RFC3339Nano))
			lock.LockedUntil = deadline
		}
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Locks),
		Key:                 map[string]types.AttributeValue{"id": str(lockID)},
		UpdateExpression:    aws.String(expr),
		ConditionExpression: aws.String("#status = :active"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, fmt.Errorf("lock %s left active state: %w", lockID, storage.ErrInvalidStateTransition)
		}
		return nil, fmt.Errorf("failed to update lock conditions: %w", err)
	}

	lock.Conditions = conditions
	return lock, nil
}

// CheckAutomaticReleaseConditions releases every active lock on the
// reference that carries a now-satisfied condition of the given type. The
// invocation itself is the completing event for the event-driven condition
// kinds; timeout conditions are additionally checked against the clock.
func (s *Store) CheckAutomaticReleaseConditions(ctx context.Context, referenceID string, condition models.ConditionType) ([]models.Lock, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Locks),
		IndexName:              aws.String(lockReferenceGSI),
		KeyConditionExpression: aws.String("reference_id = :ref"),
		FilterExpression:       aws.String("#status = :active"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ref":    str(referenceID),
			":active": str(string(models.LockActive)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query locks by reference: %w", err)
	}

	var locks []models.Lock
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &locks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal locks: %w", err)
	}

	now := time.Now().UTC()
	var released []models.Lock
	for _, lock := range locks {
		cond, ok := matchCondition(&lock, condition, now)
		if !ok {
			continue
		}

		releasedLock, err := s.ReleaseLock(ctx, lock.ID, storage.ReleaseOptions{
			ToWalletID: cond.ToWalletID,
			Reason:     string(condition),
		})
		if err != nil {
			// One failing lock must not stop the rest of the batch.
			slog.Error("automatic release failed", "lockId", lock.ID, "condition", condition, "error", err)
			continue
		}
		released = append(released, *releasedLock)
	}

	return released, nil
}

// matchCondition finds a satisfied condition of the requested type on the
// lock.
func matchCondition(lock *models.Lock, condition models.ConditionType, now time.Time) (models.ReleaseCondition, bool) {
	for _, c := range lock.Conditions {
		if c.Type != condition {
			continue
		}
		if c.Type == models.ConditionTimeoutHours {
			deadline := lock.CreatedAt.Add(time.Duration(c.TimeoutHours) * time.Hour)
			if now.Before(deadline) {
				continue
			}
		}
		return c, true
	}
	return models.ReleaseCondition{}, false
}

// ProcessExpiredLocks force-releases active locks whose deadline has passed.
// A lock whose deadline came from a timeout_hours condition releases along
// that condition's route; anything else expires back to the locker. Disputed
// locks never appear in the scan (only active locks are indexed by the
// query), which is what defers expiry until their dispute resolves.
func (s *Store) ProcessExpiredLocks(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Locks),
		IndexName:              aws.String(lockExpiryGSI),
		KeyConditionExpression: aws.String("#status = :active AND locked_until <= :now"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": str(string(models.LockActive)),
			":now":    str(now.Format(time.RFC3339Nano)),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query expired locks: %w", err)
	}

	var locks []models.Lock
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &locks); err != nil {
		return 0, fmt.Errorf("failed to unmarshal expired locks: %w", err)
	}

	expired := 0
	for _, lock := range locks {
		opts := storage.ReleaseOptions{Expire: true, Reason: "expired"}
		if cond, ok := matchCondition(&lock, models.ConditionTimeoutHours, now); ok {
			opts = storage.ReleaseOptions{ToWalletID: cond.ToWalletID, Reason: string(models.ConditionTimeoutHours)}
		}
		if _, err := s.ReleaseLock(ctx, lock.ID, opts); err != nil {
			slog.Error("expired lock release failed", "lockId", lock.ID, "error", err)
			continue
		}
		expired++
	}

	return expired, nil
}
