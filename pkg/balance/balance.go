// Package balance defines the arithmetic allowed on account balances.
//
// Balances are never overwritten. Every change is an increment or a guarded
// decrement applied inside a store transaction; this package only computes
// and validates the deltas.
package balance

import (
	"errors"
	"fmt"

	"github.com/chris/rotmarket/pkg/models"
	"github.com/shopspring/decimal"
)

// DefaultSellerPct is the share of a sale released to the seller.
const DefaultSellerPct int64 = 70

var (
	// ErrNegativeAmount is returned for deltas below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrInvalidPct is returned for a seller percentage outside [0, 100].
	ErrInvalidPct = errors.New("seller percentage must be between 0 and 100")
)

var hundred = decimal.NewFromInt(100)

// Split divides amount between seller and platform.
// The seller share is floored and the platform receives the remainder, so the
// two shares always sum to amount.
func Split(amount, sellerPct int64) (sellerShare, platformShare int64, err error) {
	if amount < 0 {
		return 0, 0, ErrNegativeAmount
	}
	if sellerPct < 0 || sellerPct > 100 {
		return 0, 0, ErrInvalidPct
	}
	sellerShare = decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(sellerPct)).
		Div(hundred).
		Floor().
		IntPart()
	return sellerShare, amount - sellerShare, nil
}

// ValidateDelta checks a delta used in an increment or guarded decrement.
func ValidateDelta(delta int64) error {
	if delta < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeAmount, delta)
	}
	return nil
}

// Apply returns b after moving the given amounts, failing instead of going negative.
// Stores use it to predict the post-commit balances they report back.
func (d Delta) Apply(b models.Balances) (models.Balances, error) {
	next := models.Balances{
		Available: b.Available + d.Available,
		Pending:   b.Pending + d.Pending,
	}
	if next.Available < 0 || next.Pending < 0 {
		return b, fmt.Errorf("balance would go negative: available=%d pending=%d", next.Available, next.Pending)
	}
	return next, nil
}

// Delta is a signed change to both buckets of one account.
type Delta struct {
	Available int64
	Pending   int64
}
