package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
	"github.com/tradeweave/wallet-ledger/pkg/storage/dynamodb/mocks"
)

var testTables = Tables{
	Wallets:     "wallets",
	Ledger:      "ledger",
	Locks:       "locks",
	Disputes:    "disputes",
	Settlements: "settlements",
	Withdrawals: "withdrawals",
	Funding:     "funding",
	Connections: "connections",
}

func TestGetWallet(t *testing.T) {
	userID := "test-user"
	wallet := &models.Wallet{UserID: userID, Available: 100, Version: 1}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		walletAV, _ := attributevalue.MarshalMap(wallet)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: walletAV}, nil)

		store := New(mockClient, testTables)
		retrieved, err := store.GetWallet(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, wallet.UserID, retrieved.UserID)
		assert.Equal(t, wallet.Available, retrieved.Available)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		store := New(mockClient, testTables)
		_, err := store.GetWallet(context.Background(), userID)

		assert.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, testTables)
		_, err := store.GetWallet(context.Background(), userID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get wallet from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestEnsureWallet(t *testing.T) {
	userID := "test-user"

	t.Run("Creates New Wallet", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, testTables)
		wallet, err := store.EnsureWallet(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, userID, wallet.UserID)
		assert.Equal(t, int64(0), wallet.Available)
		assert.Equal(t, int64(1), wallet.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Returns Existing Wallet", func(t *testing.T) {
		existing := &models.Wallet{UserID: userID, Available: 500, Version: 7}
		existingAV, _ := attributevalue.MarshalMap(existing)

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: existingAV}, nil)

		store := New(mockClient, testTables)
		wallet, err := store.EnsureWallet(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(500), wallet.Available)
		assert.Equal(t, int64(7), wallet.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, testTables)
		_, err := store.EnsureWallet(context.Background(), userID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create wallet in DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestListWallets(t *testing.T) {
	wallets := []models.Wallet{{UserID: "test-user-1"}, {UserID: "test-user-2"}}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		var walletsAV []map[string]types.AttributeValue
		for _, w := range wallets {
			av, err := attributevalue.MarshalMap(w)
			assert.NoError(t, err)
			walletsAV = append(walletsAV, av)
		}
		mockClient.On("Scan", mock.Anything, mock.Anything).Return(&dynamodb.ScanOutput{Items: walletsAV}, nil)

		store := New(mockClient, testTables)
		retrieved, err := store.ListWallets(context.Background())

		assert.NoError(t, err)
		assert.Len(t, retrieved, 2)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Scan", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, testTables)
		_, err := store.ListWallets(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to scan wallets table")
		mockClient.AssertExpectations(t)
	})
}

func TestNetPosition(t *testing.T) {
	w := &models.Wallet{Available: 300, Locked: 150, Negative: 50}
	assert.Equal(t, int64(400), w.NetPosition())
}
