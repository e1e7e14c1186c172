package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/scheduler"
	"github.com/chris/rotmarket/pkg/storage"
	"go.uber.org/zap"
)

// HandleMessage processes one delayed settlement message.
//
// The sale is re-read so a stale or duplicate message is harmless. A message
// delivered before the holding window has elapsed is re-enqueued for the
// remaining time. Returning an error leaves the message on the queue for redelivery.
func (s *Settler) HandleMessage(ctx context.Context, body string) error {
	var msg scheduler.SettlementMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return fmt.Errorf("failed to unmarshal settlement message: %w", err)
	}
	if msg.SaleID == "" {
		return fmt.Errorf("%w: settlement message has no sale id", storage.ErrInvalidOperation)
	}

	sale, err := s.store.GetSale(ctx, msg.SaleID)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("settlement message for unknown sale", zap.String("saleId", msg.SaleID))
		return nil
	}
	if err != nil {
		return err
	}
	if sale.Status != models.SalePending {
		return nil
	}

	if remaining := sale.EligibleAt(s.opts.Holding).Sub(s.now()); remaining > 0 {
		s.logger.Debug("sale not yet eligible, re-enqueueing",
			zap.String("saleId", sale.Id),
			zap.Duration("remaining", remaining),
		)
		return s.scheduler.ScheduleSettlement(ctx, sale.Id, remaining)
	}

	err = s.Settle(ctx, *sale)
	if errors.Is(err, storage.ErrSettlementSkipped) {
		return nil
	}
	return err
}
