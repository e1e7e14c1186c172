// Package settlement releases escrowed sales once their holding window has
// elapsed. The queue consumer and the periodic sweep both go through
// Settler.Settle, which is safe to run any number of times for the same sale.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

// DefaultBatchSize is how many eligible sales one sweep processes.
const DefaultBatchSize int32 = 50

// Store is the data access settlement needs.
type Store interface {
	storage.AccountStore
	storage.SaleReader
	storage.SettlementStore
}

// Options tunes a Settler.
type Options struct {
	Holding   time.Duration
	BatchSize int32
	// PlatformAccountID overrides the founder lookup for the operator account.
	PlatformAccountID string
	Retry             storage.RetryPolicy
}

// Settler settles individual sales and runs the sweep.
type Settler struct {
	store     Store
	notifier  notify.Dispatcher
	scheduler scheduler.Scheduler
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewSettler creates a Settler. sched is used to re-enqueue queue messages
// that arrive before their sale is eligible.
func NewSettler(store Store, notifier notify.Dispatcher, sched scheduler.Scheduler, opts Options, logger *zap.Logger) *Settler {
	if sched == nil {
		sched = scheduler.NoOpScheduler{}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Settler{
		store:     store,
		notifier:  notifier,
		scheduler: sched,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Settle releases one sale: the seller's pending amount becomes available
// minus the commission, which goes to the operator account.
//
// It returns an error wrapping storage.ErrSettlementSkipped when the sale is
// already completed or still inside its holding window.
func (s *Settler) Settle(ctx context.Context, sale models.Sale) error {
	err := s.settle(ctx, sale)
	observability.IncrementSettlement(settlementOutcome(err))
	return err
}

func (s *Settler) settle(ctx context.Context, sale models.Sale) error {
	if sale.Status != models.SalePending {
		return fmt.Errorf("sale %s is %s: %w", sale.Id, sale.Status, storage.ErrSettlementSkipped)
	}
	now := s.now()
	cutoff := now.Add(-s.opts.Holding)
	if sale.CreatedAt.After(cutoff) {
		return fmt.Errorf("sale %s is not yet eligible: %w", sale.Id, storage.ErrSettlementSkipped)
	}

	sellerShare, platformShare, err := balance.Split(sale.Amount, sale.SellerPct)
	if err != nil {
		return fmt.Errorf("failed to split sale %s: %w", sale.Id, err)
	}

	var platformID string
	err = s.opts.Retry.Do(ctx, func(ctx context.Context) error {
		id, err := s.platformAccount(ctx)
		if err != nil {
			return err
		}
		platformID = id
		req := storage.SettleRequest{
			Sale:              sale,
			SellerShare:       sellerShare,
			PlatformShare:     platformShare,
			PlatformAccountID: platformID,
			Cutoff:            cutoff,
			Now:               now,
		}
		err = s.store.SettleSale(ctx, req)
		if errors.Is(err, storage.ErrMissingPlatformAccount) && platformID != "" {
			s.logger.Warn("operator account vanished, settling without it",
				zap.String("saleId", sale.Id),
				zap.String("platformAccountId", platformID),
			)
			platformID = ""
			req.PlatformAccountID = ""
			err = s.store.SettleSale(ctx, req)
		}
		return err
	})
	if err != nil {
		return err
	}

	if platformID == "" && platformShare > 0 {
		s.logger.Error("no operator account, commission recorded as unallocated",
			zap.String("saleId", sale.Id),
			zap.Int64("platformShare", platformShare),
		)
		observability.RecordUnallocatedCommission(platformShare)
	}

	s.logger.Info("sale settled",
		zap.String("saleId", sale.Id),
		zap.String("sellerId", sale.SellerId),
		zap.Int64("sellerShare", sellerShare),
		zap.Int64("platformShare", platformShare),
	)
	s.notifier.Dispatch(ctx, sale.SellerId, models.NoticeSaleSettled, map[string]string{
		"saleId":        sale.Id,
		"listingId":     sale.ListingId,
		"sellerShare":   strconv.FormatInt(sellerShare, 10),
		"platformShare": strconv.FormatInt(platformShare, 10),
	})
	return nil
}

// platformAccount returns the configured operator account, or the founder
// with the lowest id. An empty id means there is none.
func (s *Settler) platformAccount(ctx context.Context) (string, error) {
	if s.opts.PlatformAccountID != "" {
		return s.opts.PlatformAccountID, nil
	}
	founders, err := s.store.ListAccountsByRole(ctx, models.RoleFounder)
	if err != nil {
		return "", fmt.Errorf("failed to look up operator account: %w", err)
	}
	if len(founders) == 0 {
		return "", nil
	}
	sort.Slice(founders, func(i, j int) bool { return founders[i].Id < founders[j].Id })
	return founders[0].Id, nil
}

func settlementOutcome(err error) string {
	switch {
	case err == nil:
		return "settled"
	case errors.Is(err, storage.ErrSettlementSkipped):
		return "skipped"
	case errors.Is(err, storage.ErrTransactionConflict):
		return "conflict"
	}
	return "error"
}
