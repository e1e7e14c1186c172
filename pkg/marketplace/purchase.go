// Package marketplace implements the buyer- and seller-facing operations:
// account bootstrap, listings, purchases and gift codes.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chris/rotmarket/pkg/balance"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/notify"
	"github.com/chris/rotmarket/pkg/observability"
	"github.com/chris/rotmarket/pkg/scheduler"
	"github.com/chris/rotmarket/pkg/storage"
	"go.uber.org/zap"
)

// PurchaseStore is the data access the purchase flow needs.
type PurchaseStore interface {
	storage.AccountStore
	storage.ListingStore
	storage.PurchaseStore
}

// PurchaseService runs the purchase protocol.
type PurchaseService struct {
	store     PurchaseStore
	fees      *balance.FeeSchedule
	scheduler scheduler.Scheduler
	notifier  notify.Dispatcher
	retry     storage.RetryPolicy
	holding   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewPurchaseService creates a PurchaseService. Sales become eligible for
// settlement holding after they are created.
func NewPurchaseService(store PurchaseStore, fees *balance.FeeSchedule, sched scheduler.Scheduler, notifier notify.Dispatcher, retry storage.RetryPolicy, holding time.Duration, logger *zap.Logger) *PurchaseService {
	if sched == nil {
		sched = scheduler.NoOpScheduler{}
	}
	return &PurchaseService{
		store:     store,
		fees:      fees,
		scheduler: sched,
		notifier:  notifier,
		retry:     retry,
		holding:   holding,
		logger:    logger,
		now:       time.Now,
	}
}

// Purchase buys listingID for buyerID.
//
// Every attempt re-reads the listing and both accounts, so a retry after a
// conflict works from fresh state. Scheduling the settlement and notifying
// the seller happen after commit and never fail the purchase.
func (s *PurchaseService) Purchase(ctx context.Context, buyerID, listingID string) (*storage.PurchaseResult, error) {
	var result *storage.PurchaseResult
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.attempt(ctx, buyerID, listingID)
		return err
	})
	observability.IncrementPurchase(purchaseOutcome(err))
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, buyerID, result)
	return result, nil
}

func (s *PurchaseService) attempt(ctx context.Context, buyerID, listingID string) (*storage.PurchaseResult, error) {
	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("listing %s: %w", listingID, storage.ErrListingUnavailable)
		}
		return nil, err
	}
	if listing.SellerId == buyerID {
		return nil, fmt.Errorf("%w: cannot purchase your own listing", storage.ErrInvalidOperation)
	}

	req := storage.PurchaseRequest{
		BuyerID: buyerID,
		Listing: *listing,
		Now:     s.now(),
	}

	if !listing.Free {
		buyer, err := s.store.GetAccount(ctx, buyerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get buyer account: %w", err)
		}
		if _, err := (balance.Delta{Available: -listing.Price}).Apply(buyer.Balances); err != nil {
			return nil, storage.ErrInsufficientFunds
		}
		seller, err := s.store.GetAccount(ctx, listing.SellerId)
		if err != nil {
			return nil, fmt.Errorf("failed to get seller account: %w", err)
		}
		req.SellerPct = s.fees.SellerPct(seller.Role)
	}

	return s.store.Purchase(ctx, req)
}

func (s *PurchaseService) afterCommit(ctx context.Context, buyerID string, result *storage.PurchaseResult) {
	if result.Sale == nil {
		s.notifier.Dispatch(ctx, result.SellerID, models.NoticeSaleCreated, map[string]string{
			"listingId": result.ListingID,
			"buyerId":   buyerID,
			"channelId": result.ChannelID,
		})
		return
	}

	sale := result.Sale
	if err := s.scheduler.ScheduleSettlement(ctx, sale.Id, s.holding); err != nil {
		s.logger.Warn("failed to schedule settlement, the sweep will pick it up",
			zap.String("saleId", sale.Id),
			zap.Error(err),
		)
	}
	s.notifier.Dispatch(ctx, sale.SellerId, models.NoticeSaleCreated, map[string]string{
		"saleId":    sale.Id,
		"listingId": sale.ListingId,
		"buyerId":   buyerID,
		"channelId": result.ChannelID,
		"amount":    strconv.FormatInt(sale.Amount, 10),
	})
}

func purchaseOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, storage.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, storage.ErrListingUnavailable):
		return "listing_unavailable"
	case errors.Is(err, storage.ErrInvalidOperation):
		return "invalid"
	case errors.Is(err, storage.ErrTransactionConflict):
		return "conflict"
	}
	return "error"
}
