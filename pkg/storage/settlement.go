package storage

import (
	"context"
	"time"

	"github.com/chris/rotmarket/pkg/models"
)

// SettleRequest carries a computed split for one sale.
type SettleRequest struct {
	Sale          models.Sale
	SellerShare   int64
	PlatformShare int64
	// PlatformAccountID is empty when no operator account exists; the
	// commission is then recorded as unallocated.
	PlatformAccountID string
	// Cutoff is the latest creation time a sale may have to be released.
	Cutoff time.Time
	Now    time.Time
}

// SettlementStore defines the highly-privileged interface for settling a sale.
// This operation involves atomic writes across sales, accounts, commissions and history.
// It should only be exposed to the component responsible for final settlement.
type SettlementStore interface {
	// SettleSale releases a pending sale. It returns ErrSettlementSkipped when
	// the sale is no longer pending or not yet eligible, and
	// ErrMissingPlatformAccount when PlatformAccountID names no account.
	SettleSale(ctx context.Context, req SettleRequest) error
}
