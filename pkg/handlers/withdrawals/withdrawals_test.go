package withdrawals_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tradeweave/wallet-ledger/pkg/api"
	"github.com/tradeweave/wallet-ledger/pkg/handlers/withdrawals"
	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/payout"
	payoutmocks "github.com/tradeweave/wallet-ledger/pkg/payout/mocks"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
	"github.com/tradeweave/wallet-ledger/pkg/storage/mocks"
	"github.com/tradeweave/wallet-ledger/pkg/tiers"
)

const testWithdrawalID = "1f0fb0e0-0000-0000-0000-00000000000c"

func pendingWithdrawal() *models.WithdrawalRequest {
	now := time.Now().UTC()
	return &models.WithdrawalRequest{
		ID:          testWithdrawalID,
		WalletID:    "seller-1",
		Amount:      5_000,
		Method:      models.MethodBankTransfer,
		Destination: "DE89370400440532013000",
		Status:      models.WithdrawalPending,
		DailyLimit:  5_000_000,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newWithdrawalBody(t *testing.T, req api.NewWithdrawal) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(req)
	assert.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestRequestWithdrawal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("SumWithdrawalsSince", mock.Anything, "seller-1", mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockStorage.On("CreateWithdrawal", mock.Anything, mock.MatchedBy(func(w *models.WithdrawalRequest) bool {
			return w.WalletID == "seller-1" && w.Amount == 5_000 && w.DailyLimit == 5_000_000
		})).Return(pendingWithdrawal(), nil)

		handler := withdrawals.NewWithdrawalsHandler(mockStorage, &tiers.StaticSource{}, payout.NoOpGateway{})

		req := httptest.NewRequest("POST", "/withdrawals", newWithdrawalBody(t, api.NewWithdrawal{
			WalletId:    "seller-1",
			Amount:      5_000,
			Method:      "bank_transfer",
			Destination: "DE89370400440532013000",
		}))
		rr := httptest.NewRecorder()
		handler.RequestWithdrawal(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var resp api.Withdrawal
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, int64(5_000_000), resp.DailyLimit)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Premium Tier Skips Daily Sum", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateWithdrawal", mock.Anything, mock.Anything).Return(pendingWithdrawal(), nil)

		source := &tiers.StaticSource{Profiles: map[string]tiers.Profile{
			"seller-1": {Verification: models.VerificationPremium, Subscription: models.SubscriptionScale},
		}}
		handler := withdrawals.NewWithdrawalsHandler(mockStorage, source, payout.NoOpGateway{})

		req := httptest.NewRequest("POST", "/withdrawals", newWithdrawalBody(t, api.NewWithdrawal{
			WalletId:    "seller-1",
			Amount:      50_000_000,
			Method:      "upi",
			Destination: "seller@bank",
		}))
		rr := httptest.NewRecorder()
		handler.RequestWithdrawal(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockStorage.AssertNotCalled(t, "SumWithdrawalsSince", mock.Anything, mock.Anything, mock.Anything)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Daily Limit Exceeded", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("SumWithdrawalsSince", mock.Anything, "seller-1", mock.AnythingOfType("time.Time")).Return(int64(4_999_950), nil)

		handler := withdrawals.NewWithdrawalsHandler(mockStorage, &tiers.StaticSource{}, payout.NoOpGateway{})

		req := httptest.NewRequest("POST", "/withdrawals", newWithdrawalBody(t, api.NewWithdrawal{
			WalletId:    "seller-1",
			Amount:      5_000,
			Method:      "bank_transfer",
			Destination: "DE89370400440532013000",
		}))
		rr := httptest.NewRecorder()
		handler.RequestWithdrawal(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "daily withdrawal limit")
		mockStorage.AssertNotCalled(t, "CreateWithdrawal", mock.Anything, mock.Anything)
	})

	t.Run("Below Minimum Amount", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		handler := withdrawals.NewWithdrawalsHandler(mockStorage, &tiers.StaticSource{}, payout.NoOpGateway{})

		req := httptest.NewRequest("POST", "/withdrawals", newWithdrawalBody(t, api.NewWithdrawal{
			WalletId:    "seller-1",
			Amount:      50,
			Method:      "bank_transfer",
			Destination: "DE89370400440532013000",
		}))
		rr := httptest.NewRecorder()
		handler.RequestWithdrawal(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		mockStorage.AssertNotCalled(t, "CreateWithdrawal", mock.Anything, mock.Anything)
	})

	t.Run("Unknown Method", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		handler := withdrawals.NewWithdrawalsHandler(mockStorage, &tiers.StaticSource{}, payout.NoOpGateway{})

		req := httptest.NewRequest("POST", "/withdrawals", newWithdrawalBody(t, api.NewWithdrawal{
			WalletId:    "seller-1",
			Amount:      5_000,
			Method:      "carrier_pigeon",
			Destination: "DE89370400440532013000",
		}))
		rr := httptest.NewRecorder()
		handler.RequestWithdrawal(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Missing Wallet", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		handler := withdrawals.NewWithdrawalsHandler(mockStorage, &tiers.StaticSource{}, payout.NoOpGateway{})

		req := httptest.NewRequest("POST", "/withdrawals", newWithdrawalBody(t, api.NewWithdrawal{
			Amount:      5_000,
			Method:      "bank_transfer",
			Destination: "DE89370400440532013000",
		}))
		rr := httptest.NewRecorder()
		handler.RequestWithdrawal(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("SumWithdrawalsSince", mock.Anything, "seller-1", mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockStorage.On("CreateWithdrawal", mock.Anything, mock.Anything).Return(nil, storage.ErrInsufficientFunds)

		handler := withdrawals.NewWithdrawalsHandler(mockStorage, &tiers.StaticSource{}, payout.NoOpGateway{})

		req := httptest.NewRequest("POST", "/withdrawals", newWithdrawalBody(t, api.NewWithdrawal{
			WalletId:    "seller-1",
			Amount:      5_000,
			Method:      "bank_transfer",
			Destination: "DE89370400440532013000",
		}))
		rr := httptest.NewRecorder()
		handler.RequestWithdrawal(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}

func TestProcessWithdrawal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		processing := pendingWithdrawal()
		processing.Status = models.WithdrawalProcessing
		processing.GatewayRef = "gw-123"

		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWithdrawal", mock.Anything, testWithdrawalID).Return(pendingWithdrawal(), nil)
		mockStorage.On("MarkWithdrawalProcessing", mock.Anything, testWithdrawalID, "gw-123").Return(processing, nil)

		mockGateway := new(payoutmocks.Gateway)
		mockGateway.On("InitiatePayout", mock.Anything, testWithdrawalID, models.MethodBankTransfer, "DE89370400440532013000", int64(5_000)).Return("gw-123", nil)

		handler := withdrawals.NewWithdrawalsHandler(mockStorage, &tiers.StaticSource{}, mockGateway)

		req := httptest.NewRequest("POST", "/withdrawals/"+testWithdrawalID+"/process", nil)
		rr := httptest.NewRecorder()
		handler.ProcessWithdrawal(rr, req, testWithdrawalID)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.Withdrawal
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "processing", resp.Status)
		assert.Equal(t, "gw-123", resp.GatewayRef)
		mockStorage.AssertExpectations(t)
		mockGateway.AssertExpectations(t)
	})

	t.Run("Not Pending", func(t *testing.T) {
		completed := pendingWithdrawal()
		completed.Status = models.WithdrawalCompleted

		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWithdrawal", mock.Anything, testWithdrawalID).Return(completed, nil)

		mockGateway := new(payoutmocks.Gateway)
		handler := withdrawals.NewWithdrawalsHandler(mockStorage, &tiers.StaticSource{}, mockGateway)

		req := httptest.NewRequest("POST", "/withdrawals/"+testWithdrawalID+"/process", nil)
		rr := httptest.NewRecorder()
		handler.ProcessWithdrawal(rr, req, testWithdrawalID)

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockGateway.AssertNotCalled(t, "InitiatePayout", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Dispatch Failure Reverses The Debit", func(t *testing.T) {
		reversed := pendingWithdrawal()
		reversed.Status = models.WithdrawalReversed

		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWithdrawal", mock.Anything, testWithdrawalID).Return(pendingWithdrawal(), nil)
		mockStorage.On("ReverseWithdrawal", mock.Anything, testWithdrawalID).Return(reversed, nil)

		mockGateway := new(payoutmocks.Gateway)
		mockGateway.On("InitiatePayout", mock.Anything, testWithdrawalID, models.MethodBankTransfer, "DE89370400440532013000", int64(5_000)).
			Return("", errors.New("gateway unavailable"))

		handler := withdrawals.NewWithdrawalsHandler(mockStorage, &tiers.StaticSource{}, mockGateway)

		req := httptest.NewRequest("POST", "/withdrawals/"+testWithdrawalID+"/process", nil)
		rr := httptest.NewRecorder()
		handler.ProcessWithdrawal(rr, req, testWithdrawalID)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		mockStorage.AssertExpectations(t)
		mockStorage.AssertNotCalled(t, "MarkWithdrawalProcessing", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetWithdrawalById(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWithdrawal", mock.Anything, testWithdrawalID).Return(pendingWithdrawal(), nil)

		handler := withdrawals.NewWithdrawalsHandler(mockStorage, &tiers.StaticSource{}, payout.NoOpGateway{})

		req := httptest.NewRequest("GET", "/withdrawals/"+testWithdrawalID, nil)
		rr := httptest.NewRecorder()
		handler.GetWithdrawalById(rr, req, testWithdrawalID)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.Withdrawal
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "seller-1", resp.WalletId)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWithdrawal", mock.Anything, testWithdrawalID).Return(nil, storage.ErrNotFound)

		handler := withdrawals.NewWithdrawalsHandler(mockStorage, &tiers.StaticSource{}, payout.NoOpGateway{})

		req := httptest.NewRequest("GET", "/withdrawals/"+testWithdrawalID, nil)
		rr := httptest.NewRecorder()
		handler.GetWithdrawalById(rr, req, testWithdrawalID)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
