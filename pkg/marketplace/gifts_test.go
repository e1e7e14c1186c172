package marketplace

import (
	"context"
	"testing"

	"github.com/chris/rotmarket/pkg/models"
	notifymocks "github.com/chris/rotmarket/pkg/notify/mocks"
	"github.com/chris/rotmarket/pkg/storage"
	storagemocks "github.com/chris/rotmarket/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGiftService(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T) (*GiftService, *storagemocks.Storage, *notifymocks.Dispatcher) {
		store := storagemocks.NewStorage(t)
		notifier := notifymocks.NewDispatcher(t)
		return NewGiftService(store, notifier, storage.RetryPolicy{Attempts: 2}, zap.NewNop()), store, notifier
	}

	t.Run("Create", func(t *testing.T) {
		svc, store, _ := newService(t)
		store.On("CreateGiftCode", ctx, mock.MatchedBy(func(g *models.GiftCode) bool {
			return g.Code == "WELCOME" && g.Amount == 50 && g.CreatedBy == "mod-1"
		})).Return(&models.GiftCode{Code: "WELCOME", Amount: 50, Active: true}, nil).Once()

		gift, err := svc.Create(ctx, "mod-1", models.RoleModerator, CreateGiftCodeInput{Code: " welcome ", Amount: 50})
		require.NoError(t, err)
		assert.True(t, gift.Active)
	})

	t.Run("Create Forbidden", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.Create(ctx, "user-1", models.RoleHelper, CreateGiftCodeInput{Code: "X", Amount: 1})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Create Zero Amount", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.Create(ctx, "f-1", models.RoleFounder, CreateGiftCodeInput{Code: "X", Amount: 0})
		assert.ErrorIs(t, err, storage.ErrInvalidOperation)
	})

	t.Run("Redeem", func(t *testing.T) {
		svc, store, notifier := newService(t)
		store.On("RedeemGiftCode", ctx, "user-1", "WELCOME").Return(&models.GiftCode{Code: "WELCOME", Amount: 50}, nil).Once()
		notifier.On("Dispatch", ctx, "user-1", models.NoticeGiftRedeemed, map[string]string{"code": "WELCOME", "amount": "50"}).Return().Once()

		gift, err := svc.Redeem(ctx, "user-1", "welcome")
		require.NoError(t, err)
		assert.Equal(t, int64(50), gift.Amount)
	})

	t.Run("Redeem Twice", func(t *testing.T) {
		svc, store, _ := newService(t)
		store.On("RedeemGiftCode", ctx, "user-1", "WELCOME").Return(nil, storage.ErrAlreadyRedeemed).Once()

		_, err := svc.Redeem(ctx, "user-1", "WELCOME")
		assert.ErrorIs(t, err, storage.ErrAlreadyRedeemed)
	})

	t.Run("Redeem Retries Conflict", func(t *testing.T) {
		svc, store, notifier := newService(t)
		store.On("RedeemGiftCode", ctx, "user-1", "WELCOME").Return(nil, storage.ErrTransactionConflict).Once()
		store.On("RedeemGiftCode", ctx, "user-1", "WELCOME").Return(&models.GiftCode{Code: "WELCOME", Amount: 5}, nil).Once()
		notifier.On("Dispatch", ctx, "user-1", models.NoticeGiftRedeemed, mock.Anything).Return().Once()

		_, err := svc.Redeem(ctx, "user-1", "WELCOME")
		require.NoError(t, err)
	})

	t.Run("Deactivate", func(t *testing.T) {
		svc, store, _ := newService(t)
		store.On("DeactivateGiftCode", ctx, "WELCOME").Return(nil).Once()

		require.NoError(t, svc.Deactivate(ctx, models.RoleFounder, "welcome"))
		assert.ErrorIs(t, svc.Deactivate(ctx, models.RoleUser, "welcome"), ErrForbidden)
	})
}
