package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/storage/dynamodb/mocks"
)

func newTestSettlement() *models.Settlement {
	return &models.Settlement{
		SellerID:          "seller-1",
		OrderID:           "order-42",
		OrderAmount:       10000,
		CommissionRateBps: 1000,
		Commission:        1000,
		PlatformFees:      200,
		NetAmount:         8800,
		ScheduledAt:       time.Now().UTC(),
	}
}

func TestCreateSettlement(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, testTables)
		created, err := store.CreateSettlement(context.Background(), newTestSettlement())

		assert.NoError(t, err)
		assert.Equal(t, models.SettlementScheduled, created.Status)
		assert.NotEmpty(t, created.ID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Deterministic ID Per Order", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, testTables)
		first, err := store.CreateSettlement(context.Background(), newTestSettlement())
		assert.NoError(t, err)
		second, err := store.CreateSettlement(context.Background(), newTestSettlement())
		assert.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("Duplicate Order Returns Existing", func(t *testing.T) {
		existing := newTestSettlement()
		existing.ID = "existing-id"
		existing.Status = models.SettlementScheduled

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: marshalItem(t, existing)}, nil)

		store := New(mockClient, testTables)
		created, err := store.CreateSettlement(context.Background(), newTestSettlement())

		assert.NoError(t, err)
		assert.Equal(t, "existing-id", created.ID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Rejects Non-Positive Order Amount", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables)

		settlement := newTestSettlement()
		settlement.OrderAmount = 0
		_, err := store.CreateSettlement(context.Background(), settlement)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("Rejects Negative Net Amount", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables)

		settlement := newTestSettlement()
		settlement.NetAmount = -100
		_, err := store.CreateSettlement(context.Background(), settlement)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be non-negative")
	})
}

func TestExecuteSettlement(t *testing.T) {
	scheduled := newTestSettlement()
	scheduled.ID = "settlement-1"
	scheduled.Status = models.SettlementScheduled

	t.Run("Pays Seller And Platform", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: marshalItem(t, scheduled)}, nil)
		// Neither wallet exists yet; both are created inline.
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
			return len(input.TransactItems) == 5
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, testTables)
		executed, err := store.ExecuteSettlement(context.Background(), "settlement-1")

		assert.NoError(t, err)
		assert.Equal(t, models.SettlementCompleted, executed.Status)
		assert.NotNil(t, executed.ExecutedAt)
		assert.Equal(t, int32(1), executed.Attempts)
		mockClient.AssertExpectations(t)
	})

	t.Run("Platform Seller Credits In One Mutation", func(t *testing.T) {
		selfSale := newTestSettlement()
		selfSale.ID = "settlement-1"
		selfSale.Status = models.SettlementScheduled
		selfSale.SellerID = models.PlatformWalletID

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: marshalItem(t, selfSale)}, nil)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
			// One wallet update, the status flip and a single credit entry;
			// a second update on the same wallet item would be rejected.
			return len(input.TransactItems) == 3
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, testTables)
		executed, err := store.ExecuteSettlement(context.Background(), "settlement-1")

		assert.NoError(t, err)
		assert.Equal(t, models.SettlementCompleted, executed.Status)
		mockClient.AssertExpectations(t)
	})

	t.Run("Completed Settlement Is A No-Op", func(t *testing.T) {
		completed := newTestSettlement()
		completed.ID = "settlement-1"
		completed.Status = models.SettlementCompleted

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: marshalItem(t, completed)}, nil)

		store := New(mockClient, testTables)
		executed, err := store.ExecuteSettlement(context.Background(), "settlement-1")

		assert.NoError(t, err)
		assert.Equal(t, models.SettlementCompleted, executed.Status)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Transaction Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: marshalItem(t, scheduled)}, nil)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("throughput exceeded"))

		store := New(mockClient, testTables)
		_, err := store.ExecuteSettlement(context.Background(), "settlement-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute settlement transaction")
	})
}

func TestListDueSettlements(t *testing.T) {
	t.Run("Queries Scheduled And Failed", func(t *testing.T) {
		due := newTestSettlement()
		due.ID = "settlement-1"
		due.Status = models.SettlementScheduled
		retry := newTestSettlement()
		retry.ID = "settlement-2"
		retry.Status = models.SettlementFailed

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{marshalItem(t, due)},
		}, nil)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{marshalItem(t, retry)},
		}, nil)

		store := New(mockClient, testTables)
		settlements, err := store.ListDueSettlements(context.Background(), time.Now(), 0)

		assert.NoError(t, err)
		assert.Len(t, settlements, 2)
		mockClient.AssertNumberOfCalls(t, "Query", 2)
	})

	t.Run("Query Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, testTables)
		_, err := store.ListDueSettlements(context.Background(), time.Now(), 10)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query due settlements")
	})
}

func TestMarkSettlementFailed(t *testing.T) {
	t.Run("Records Failure", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(&dynamodb.UpdateItemOutput{}, nil)

		store := New(mockClient, testTables)
		err := store.MarkSettlementFailed(context.Background(), "settlement-1", errors.New("gateway unavailable"))

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Completed Settlement Is Left Untouched", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, testTables)
		err := store.MarkSettlementFailed(context.Background(), "settlement-1", errors.New("gateway unavailable"))

		assert.NoError(t, err)
	})
}
