package wallets_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tradeweave/wallet-ledger/pkg/api"
	"github.com/tradeweave/wallet-ledger/pkg/handlers/wallets"
	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
	"github.com/tradeweave/wallet-ledger/pkg/storage/mocks"
)

func TestGetWalletByUserId(t *testing.T) {
	expectedWallet := &models.Wallet{UserID: "user-c", Available: 100, Locked: 50, Version: 2}

	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWallet", mock.Anything, "user-c").Return(expectedWallet, nil)

		h := wallets.NewWalletsHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/wallets/user-c", nil)
		rr := httptest.NewRecorder()

		h.GetWalletByUserId(rr, req, "user-c")

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp api.Wallet
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, int64(100), resp.Available)
		assert.Equal(t, int64(150), resp.NetPosition)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWallet", mock.Anything, "user-x").Return(nil, storage.ErrNotFound)

		h := wallets.NewWalletsHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/wallets/user-x", nil)
		rr := httptest.NewRecorder()

		h.GetWalletByUserId(rr, req, "user-x")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWallet", mock.Anything, "user-c").Return(nil, errors.New("some storage error"))

		h := wallets.NewWalletsHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/wallets/user-c", nil)
		rr := httptest.NewRecorder()

		h.GetWalletByUserId(rr, req, "user-c")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}

func TestListWallets(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListWallets", mock.Anything).Return([]models.Wallet{}, nil)

		h := wallets.NewWalletsHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
		rr := httptest.NewRecorder()

		h.ListWallets(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListWallets", mock.Anything).Return(nil, errors.New("some storage error"))

		h := wallets.NewWalletsHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
		rr := httptest.NewRecorder()

		h.ListWallets(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}
