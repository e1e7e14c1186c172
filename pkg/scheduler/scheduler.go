package scheduler

import (
	"context"
	"time"
)

// MaxDelay is the longest delivery delay SQS supports.
const MaxDelay = 15 * time.Minute

// SettlementMessage is the body of a delayed settlement message.
type SettlementMessage struct {
	SaleID string `json:"saleId"`
}

// Scheduler defines the interface for a component that schedules a sale for later settlement.
//
//go:generate go tool mockery --name=Scheduler --output=mocks --outpkg=mocks
type Scheduler interface {
	// ScheduleSettlement enqueues a sale to be settled after delay.
	ScheduleSettlement(ctx context.Context, saleID string, delay time.Duration) error
}

// ClampDelay bounds delay to what the queue can hold. Sales held for longer
// are re-enqueued by the consumer until they are eligible.
func ClampDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if delay > MaxDelay {
		return MaxDelay
	}
	return delay
}

// NoOpScheduler drops every message. The periodic sweep settles the sales instead.
type NoOpScheduler struct{}

// ScheduleSettlement does nothing.
func (NoOpScheduler) ScheduleSettlement(context.Context, string, time.Duration) error { return nil }
