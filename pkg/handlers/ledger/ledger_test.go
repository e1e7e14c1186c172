package ledger_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/handlers/ledger"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func request(path, accountID string, role models.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return req.WithContext(middleware.WithAccount(req.Context(), accountID, role))
}

func TestListLedger(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockStorage := mocks.NewStorage(t)
		expectedEntries := []models.LedgerEntry{
			{EntryID: uuid.New().String(), Type: models.EntryPurchase, Debit: 10, Timestamp: time.Now()},
			{EntryID: uuid.New().String(), Type: models.EntrySalePending, Credit: 7, Timestamp: time.Now().Add(-1 * time.Minute)},
		}
		mockStorage.On("ListLedgerEntries", mock.Anything, int32(20)).Return(expectedEntries, nil)

		h := ledger.NewLedgerHandler(mockStorage, zap.NewNop())
		rr := httptest.NewRecorder()

		// Act
		h.ListLedger(rr, request("/ledger", "founder-1", models.RoleFounder), api.ListLedgerParams{})

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var returnedEntries []api.LedgerEntry
		_ = json.Unmarshal(rr.Body.Bytes(), &returnedEntries)
		assert.Len(t, returnedEntries, 2)
		assert.Equal(t, expectedEntries[0].EntryID, returnedEntries[0].EntryId)
		assert.Nil(t, returnedEntries[0].Credit)
	})

	t.Run("Limit Is Capped", func(t *testing.T) {
		mockStorage := mocks.NewStorage(t)
		mockStorage.On("ListLedgerEntries", mock.Anything, int32(100)).Return([]models.LedgerEntry{}, nil)

		h := ledger.NewLedgerHandler(mockStorage, zap.NewNop())
		limit := int32(5000)
		rr := httptest.NewRecorder()
		h.ListLedger(rr, request("/ledger", "mod-1", models.RoleModerator), api.ListLedgerParams{Limit: &limit})

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Storage Error", func(t *testing.T) {
		// Arrange
		mockStorage := mocks.NewStorage(t)
		mockStorage.On("ListLedgerEntries", mock.Anything, int32(20)).Return(nil, errors.New("db error"))

		h := ledger.NewLedgerHandler(mockStorage, zap.NewNop())
		rr := httptest.NewRecorder()

		// Act
		h.ListLedger(rr, request("/ledger", "founder-1", models.RoleFounder), api.ListLedgerParams{})

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestListAccountLedger(t *testing.T) {
	t.Run("Owner", func(t *testing.T) {
		mockStorage := mocks.NewStorage(t)
		mockStorage.On("ListLedgerEntriesByAccount", mock.Anything, "user-1", int32(20)).Return([]models.LedgerEntry{{EntryID: "e-1"}}, nil)

		h := ledger.NewLedgerHandler(mockStorage, zap.NewNop())
		rr := httptest.NewRecorder()
		h.ListAccountLedger(rr, request("/accounts/user-1/ledger", "user-1", models.RoleUser), "user-1", api.ListAccountLedgerParams{})

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Other Account", func(t *testing.T) {
		h := ledger.NewLedgerHandler(mocks.NewStorage(t), zap.NewNop())
		rr := httptest.NewRecorder()
		h.ListAccountLedger(rr, request("/accounts/user-2/ledger", "user-1", models.RoleHelper), "user-2", api.ListAccountLedgerParams{})

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
