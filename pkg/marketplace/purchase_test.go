package marketplace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris/rotmarket/pkg/balance"
	"github.com/chris/rotmarket/pkg/models"
	notifymocks "github.com/chris/rotmarket/pkg/notify/mocks"
	schedmocks "github.com/chris/rotmarket/pkg/scheduler/mocks"
	"github.com/chris/rotmarket/pkg/storage"
	storagemocks "github.com/chris/rotmarket/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const holding = time.Minute

type purchaseFixture struct {
	store    *storagemocks.Storage
	sched    *schedmocks.Scheduler
	notifier *notifymocks.Dispatcher
	svc      *PurchaseService
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	fees, err := balance.NewFeeSchedule(balance.DefaultSellerPct, map[models.Role]int64{models.RoleVerified: 80})
	require.NoError(t, err)

	f := &purchaseFixture{
		store:    storagemocks.NewStorage(t),
		sched:    schedmocks.NewScheduler(t),
		notifier: notifymocks.NewDispatcher(t),
	}
	f.svc = NewPurchaseService(f.store, fees, f.sched, f.notifier, storage.RetryPolicy{Attempts: 3}, holding, zap.NewNop())
	return f
}

func paidListing() *models.Listing {
	return &models.Listing{Id: "listing-1", Title: "Rare Sword", Price: 100, SellerId: "seller", Version: 1}
}

func TestPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newPurchaseFixture(t)
		listing := paidListing()
		sale := &models.Sale{Id: "sale-1", SellerId: "seller", ListingId: listing.Id, Amount: 100, SellerPct: 80, Status: models.SalePending}

		f.store.On("GetListing", ctx, listing.Id).Return(listing, nil).Once()
		f.store.On("GetAccount", ctx, "buyer").Return(&models.Account{Id: "buyer", Balances: models.Balances{Available: 150}}, nil).Once()
		f.store.On("GetAccount", ctx, "seller").Return(&models.Account{Id: "seller", Role: models.RoleVerified}, nil).Once()
		f.store.On("Purchase", ctx, mock.MatchedBy(func(req storage.PurchaseRequest) bool {
			return req.BuyerID == "buyer" && req.Listing.Version == 1 && req.SellerPct == 80
		})).Return(&storage.PurchaseResult{ListingID: listing.Id, SellerID: "seller", ChannelID: "buyer#seller", Sale: sale}, nil).Once()
		f.sched.On("ScheduleSettlement", ctx, "sale-1", holding).Return(nil).Once()
		f.notifier.On("Dispatch", ctx, "seller", models.NoticeSaleCreated, mock.MatchedBy(func(p map[string]string) bool {
			return p["saleId"] == "sale-1" && p["amount"] == "100" && p["channelId"] == "buyer#seller"
		})).Return().Once()

		result, err := f.svc.Purchase(ctx, "buyer", listing.Id)
		require.NoError(t, err)
		assert.Equal(t, "sale-1", result.Sale.Id)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		f := newPurchaseFixture(t)
		listing := paidListing()

		f.store.On("GetListing", ctx, listing.Id).Return(listing, nil).Once()
		f.store.On("GetAccount", ctx, "buyer").Return(&models.Account{Id: "buyer", Balances: models.Balances{Available: 99}}, nil).Once()

		_, err := f.svc.Purchase(ctx, "buyer", listing.Id)
		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		f.store.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything)
	})

	t.Run("Own Listing", func(t *testing.T) {
		f := newPurchaseFixture(t)

		f.store.On("GetListing", ctx, "listing-1").Return(paidListing(), nil).Once()

		_, err := f.svc.Purchase(ctx, "seller", "listing-1")
		assert.ErrorIs(t, err, storage.ErrInvalidOperation)
		f.store.AssertNotCalled(t, "GetAccount", mock.Anything, mock.Anything)
		f.store.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything)
	})

	t.Run("Listing Gone", func(t *testing.T) {
		f := newPurchaseFixture(t)

		f.store.On("GetListing", ctx, "listing-1").Return(nil, storage.ErrNotFound).Once()

		_, err := f.svc.Purchase(ctx, "buyer", "listing-1")
		assert.ErrorIs(t, err, storage.ErrListingUnavailable)
	})

	t.Run("Sold Between Read And Commit", func(t *testing.T) {
		f := newPurchaseFixture(t)
		listing := paidListing()

		f.store.On("GetListing", ctx, listing.Id).Return(listing, nil).Once()
		f.store.On("GetAccount", ctx, "buyer").Return(&models.Account{Id: "buyer", Balances: models.Balances{Available: 150}}, nil).Once()
		f.store.On("GetAccount", ctx, "seller").Return(&models.Account{Id: "seller"}, nil).Once()
		f.store.On("Purchase", ctx, mock.Anything).Return(nil, storage.ErrListingUnavailable).Once()

		_, err := f.svc.Purchase(ctx, "buyer", listing.Id)
		assert.ErrorIs(t, err, storage.ErrListingUnavailable)
	})

	t.Run("Retries On Conflict", func(t *testing.T) {
		f := newPurchaseFixture(t)
		listing := paidListing()
		sale := &models.Sale{Id: "sale-1", SellerId: "seller", ListingId: listing.Id, Amount: 100}

		f.store.On("GetListing", ctx, listing.Id).Return(listing, nil).Twice()
		f.store.On("GetAccount", ctx, "buyer").Return(&models.Account{Id: "buyer", Balances: models.Balances{Available: 150}}, nil).Twice()
		f.store.On("GetAccount", ctx, "seller").Return(&models.Account{Id: "seller"}, nil).Twice()
		f.store.On("Purchase", ctx, mock.Anything).Return(nil, storage.ErrTransactionConflict).Once()
		f.store.On("Purchase", ctx, mock.MatchedBy(func(req storage.PurchaseRequest) bool {
			return req.SellerPct == balance.DefaultSellerPct
		})).Return(&storage.PurchaseResult{ListingID: listing.Id, SellerID: "seller", Sale: sale}, nil).Once()
		f.sched.On("ScheduleSettlement", ctx, "sale-1", holding).Return(nil).Once()
		f.notifier.On("Dispatch", ctx, "seller", models.NoticeSaleCreated, mock.Anything).Return().Once()

		_, err := f.svc.Purchase(ctx, "buyer", listing.Id)
		require.NoError(t, err)
	})

	t.Run("Conflict Exhausts Retries", func(t *testing.T) {
		f := newPurchaseFixture(t)
		listing := paidListing()

		f.store.On("GetListing", ctx, listing.Id).Return(listing, nil).Times(3)
		f.store.On("GetAccount", ctx, "buyer").Return(&models.Account{Id: "buyer", Balances: models.Balances{Available: 150}}, nil).Times(3)
		f.store.On("GetAccount", ctx, "seller").Return(&models.Account{Id: "seller"}, nil).Times(3)
		f.store.On("Purchase", ctx, mock.Anything).Return(nil, storage.ErrTransactionConflict).Times(3)

		_, err := f.svc.Purchase(ctx, "buyer", listing.Id)
		assert.ErrorIs(t, err, storage.ErrTransactionConflict)
	})

	t.Run("Free Listing", func(t *testing.T) {
		f := newPurchaseFixture(t)
		listing := &models.Listing{Id: "listing-2", Title: "Starter Kit", Free: true, SellerId: "seller", Version: 1}

		f.store.On("GetListing", ctx, listing.Id).Return(listing, nil).Once()
		f.store.On("Purchase", ctx, mock.MatchedBy(func(req storage.PurchaseRequest) bool {
			return req.Listing.Free && req.SellerPct == 0
		})).Return(&storage.PurchaseResult{ListingID: listing.Id, SellerID: "seller", ChannelID: "buyer#seller"}, nil).Once()
		f.notifier.On("Dispatch", ctx, "seller", models.NoticeSaleCreated, mock.MatchedBy(func(p map[string]string) bool {
			_, hasSale := p["saleId"]
			return !hasSale && p["listingId"] == "listing-2"
		})).Return().Once()

		result, err := f.svc.Purchase(ctx, "buyer", listing.Id)
		require.NoError(t, err)
		assert.Nil(t, result.Sale)
		f.store.AssertNotCalled(t, "GetAccount", mock.Anything, mock.Anything)
		f.sched.AssertNotCalled(t, "ScheduleSettlement", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Schedule Failure Does Not Fail Purchase", func(t *testing.T) {
		f := newPurchaseFixture(t)
		listing := paidListing()
		sale := &models.Sale{Id: "sale-1", SellerId: "seller", ListingId: listing.Id, Amount: 100}

		f.store.On("GetListing", ctx, listing.Id).Return(listing, nil).Once()
		f.store.On("GetAccount", ctx, "buyer").Return(&models.Account{Id: "buyer", Balances: models.Balances{Available: 100}}, nil).Once()
		f.store.On("GetAccount", ctx, "seller").Return(&models.Account{Id: "seller"}, nil).Once()
		f.store.On("Purchase", ctx, mock.Anything).Return(&storage.PurchaseResult{ListingID: listing.Id, SellerID: "seller", Sale: sale}, nil).Once()
		f.sched.On("ScheduleSettlement", ctx, "sale-1", holding).Return(errors.New("queue unavailable")).Once()
		f.notifier.On("Dispatch", ctx, "seller", models.NoticeSaleCreated, mock.Anything).Return().Once()

		_, err := f.svc.Purchase(ctx, "buyer", listing.Id)
		require.NoError(t, err)
	})
}
