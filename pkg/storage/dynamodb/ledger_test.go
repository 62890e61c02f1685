package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
	"github.com/tradeweave/wallet-ledger/pkg/storage/dynamodb/mocks"
)

// mockExistingWallet wires the EnsureWallet path for a wallet that already
// exists: the conditional put fails and the wallet is read back.
func mockExistingWallet(mockClient *mocks.DynamoDBAPI, wallet *models.Wallet) {
	walletAV, _ := attributevalue.MarshalMap(wallet)
	mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})
	mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: walletAV}, nil)
}

func versionConflict() error {
	return &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
		},
	}
}

func TestApplyEntry(t *testing.T) {
	walletID := "test-user"

	t.Run("Credit Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockExistingWallet(mockClient, &models.Wallet{UserID: walletID, Available: 100, Version: 1})
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, testTables)
		entry, err := store.ApplyEntry(context.Background(), walletID, models.EntryCredit, 50, "adjustment", "ref-1")

		assert.NoError(t, err)
		assert.Equal(t, models.EntryCredit, entry.Type)
		assert.Equal(t, int64(150), entry.AvailableAfter)
		assert.Equal(t, int64(0), entry.NegativeAfter)
		mockClient.AssertExpectations(t)
	})

	t.Run("Credit Pays Down Debt First", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockExistingWallet(mockClient, &models.Wallet{UserID: walletID, Available: 0, Negative: 30, Version: 2})
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, testTables)
		entry, err := store.ApplyEntry(context.Background(), walletID, models.EntryCredit, 50, "adjustment", "ref-2")

		assert.NoError(t, err)
		assert.Equal(t, int64(20), entry.AvailableAfter)
		assert.Equal(t, int64(0), entry.NegativeAfter)
		mockClient.AssertExpectations(t)
	})

	t.Run("Debit Insufficient Funds", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockExistingWallet(mockClient, &models.Wallet{UserID: walletID, Available: 20, Version: 1})

		store := New(mockClient, testTables)
		_, err := store.ApplyEntry(context.Background(), walletID, models.EntryDebit, 100, "adjustment", "ref-3")

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		mockClient.AssertExpectations(t)
	})

	t.Run("Debit Into Negative When Allowed", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockExistingWallet(mockClient, &models.Wallet{UserID: walletID, Available: 20, AllowNegative: true, Version: 1})
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, testTables)
		entry, err := store.ApplyEntry(context.Background(), walletID, models.EntryDebit, 100, "adjustment", "ref-4")

		assert.NoError(t, err)
		assert.Equal(t, int64(0), entry.AvailableAfter)
		assert.Equal(t, int64(80), entry.NegativeAfter)
		mockClient.AssertExpectations(t)
	})

	t.Run("Rejects Non-Positive Amount", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables)

		_, err := store.ApplyEntry(context.Background(), walletID, models.EntryCredit, 0, "adjustment", "ref-5")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("Rejects Lock Entry Type", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables)

		_, err := store.ApplyEntry(context.Background(), walletID, models.EntryLock, 100, "lock", "ref-6")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be applied directly")
	})

	t.Run("Exhausts Version Retries", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockExistingWallet(mockClient, &models.Wallet{UserID: walletID, Available: 100, Version: 1})
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, versionConflict())

		store := New(mockClient, testTables)
		_, err := store.ApplyEntry(context.Background(), walletID, models.EntryCredit, 50, "adjustment", "ref-7")

		assert.ErrorIs(t, err, errVersionConflict)
		mockClient.AssertNumberOfCalls(t, "TransactWriteItems", maxCASRetries)
	})
}

func TestGetBalance(t *testing.T) {
	wallet := &models.Wallet{UserID: "test-user", Available: 300, Locked: 50, Negative: 10, Version: 3}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		walletAV, _ := attributevalue.MarshalMap(wallet)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: walletAV}, nil)

		store := New(mockClient, testTables)
		balance, err := store.GetBalance(context.Background(), wallet.UserID)

		assert.NoError(t, err)
		assert.Equal(t, &models.Balance{Available: 300, Locked: 50, Negative: 10}, balance)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		store := New(mockClient, testTables)
		_, err := store.GetBalance(context.Background(), wallet.UserID)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestListLedgerEntries(t *testing.T) {
	entries := []models.LedgerEntry{
		{EntryID: "e2", WalletID: "test-user", Type: models.EntryDebit, Amount: 40},
		{EntryID: "e1", WalletID: "test-user", Type: models.EntryCredit, Amount: 100},
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		var entriesAV []map[string]types.AttributeValue
		for _, e := range entries {
			av, err := attributevalue.MarshalMap(e)
			assert.NoError(t, err)
			entriesAV = append(entriesAV, av)
		}
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
			return *input.Limit == 20 && !*input.ScanIndexForward
		})).Return(&dynamodb.QueryOutput{Items: entriesAV}, nil)

		store := New(mockClient, testTables)
		retrieved, err := store.ListLedgerEntries(context.Background(), "test-user", 0)

		assert.NoError(t, err)
		assert.Len(t, retrieved, 2)
		assert.Equal(t, "e2", retrieved[0].EntryID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, testTables)
		_, err := store.ListLedgerEntries(context.Background(), "test-user", 10)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query ledger entries")
		mockClient.AssertExpectations(t)
	})
}

func TestApplyFunding(t *testing.T) {
	walletID := "test-user"

	t.Run("Applies Credit", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockExistingWallet(mockClient, &models.Wallet{UserID: walletID, Available: 100, Version: 1})
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, testTables)
		applied, err := store.ApplyFunding(context.Background(), "gw-ref-1", walletID, 250)

		assert.NoError(t, err)
		assert.True(t, applied)
		mockClient.AssertExpectations(t)
	})

	t.Run("Replay Is Not Applied Twice", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockExistingWallet(mockClient, &models.Wallet{UserID: walletID, Available: 100, Version: 1})
		replay := &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String("ConditionalCheckFailed")},
				{Code: aws.String("None")},
				{Code: aws.String("None")},
			},
		}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, replay)

		store := New(mockClient, testTables)
		applied, err := store.ApplyFunding(context.Background(), "gw-ref-1", walletID, 250)

		assert.NoError(t, err)
		assert.False(t, applied)
		mockClient.AssertNumberOfCalls(t, "TransactWriteItems", 1)
	})

	t.Run("Rejects Non-Positive Amount", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables)

		_, err := store.ApplyFunding(context.Background(), "gw-ref-2", walletID, -5)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})
}
