package storage

import (
	"errors"
	"fmt"
)

// ErrInsufficientFunds is returned when the buyer's available balance does not cover the price.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrListingUnavailable is returned when a listing was already sold or removed.
var ErrListingUnavailable = errors.New("listing is no longer available")

// ErrInvalidOperation is returned for self-purchases and malformed input.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrTransactionConflict is returned when a concurrent commit invalidated what a transaction read.
// Callers retry it a bounded number of times.
var ErrTransactionConflict = errors.New("transaction conflict")

// ErrSettlementSkipped is returned when a sale is no longer pending or not yet eligible.
var ErrSettlementSkipped = errors.New("settlement skipped")

// ErrMissingPlatformAccount is returned when no operator account can receive the platform share.
var ErrMissingPlatformAccount = errors.New("platform account not found")

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a document whose key is taken.
var ErrAlreadyExists = errors.New("already exists")

// ErrRedemptionConflict groups the reasons a gift code cannot be redeemed by an account.
var ErrRedemptionConflict = errors.New("gift code cannot be redeemed")

var (
	ErrGiftCodeNotFound  = fmt.Errorf("gift code %w", ErrNotFound)
	ErrGiftCodeInactive  = fmt.Errorf("%w: code is inactive", ErrRedemptionConflict)
	ErrGiftCodeForbidden = fmt.Errorf("%w: code is restricted to another account", ErrRedemptionConflict)
	ErrAlreadyRedeemed   = fmt.Errorf("%w: code already redeemed by this account", ErrRedemptionConflict)
)
