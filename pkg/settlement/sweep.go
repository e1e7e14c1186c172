package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/rotmarket/pkg/observability"
	"github.com/chris/rotmarket/pkg/storage"
	"go.uber.org/zap"
)

// SweepResult summarises one sweep run.
type SweepResult struct {
	ProcessedCount int `json:"processedCount"`
	Skipped        int `json:"skipped"`
	Failed         int `json:"failed"`
}

// Sweep settles up to one batch of sales whose holding window has elapsed.
//
// Records are settled independently, so a failed record is logged and left
// for the next run. Only a failed eligibility query fails the sweep. A
// cancelled context stops the batch early.
func (s *Settler) Sweep(ctx context.Context) (*SweepResult, error) {
	cutoff := s.now().Add(-s.opts.Holding)
	sales, err := s.store.ListEligibleSales(ctx, cutoff, s.opts.BatchSize)
	if err != nil {
		observability.IncrementSweepRun("error")
		return nil, fmt.Errorf("failed to list eligible sales: %w", err)
	}

	result := &SweepResult{}
	for _, sale := range sales {
		if ctx.Err() != nil {
			break
		}
		err := s.Settle(ctx, sale)
		switch {
		case err == nil:
			result.ProcessedCount++
		case errors.Is(err, storage.ErrSettlementSkipped):
			result.Skipped++
		default:
			result.Failed++
			s.logger.Error("failed to settle sale",
				zap.String("saleId", sale.Id),
				zap.Error(err),
			)
		}
	}

	observability.IncrementSweepRun("success")
	s.logger.Info("settlement sweep finished",
		zap.Int("eligible", len(sales)),
		zap.Int("processed", result.ProcessedCount),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
