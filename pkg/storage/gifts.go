package storage

import (
	"context"

	"github.com/chris/rotmarket/pkg/models"
)

// GiftStore defines the interface for gift codes.
type GiftStore interface {
	// CreateGiftCode creates a new active gift code.
	CreateGiftCode(ctx context.Context, code *models.GiftCode) (*models.GiftCode, error)

	// GetGiftCode retrieves a gift code.
	GetGiftCode(ctx context.Context, code string) (*models.GiftCode, error)

	// DeactivateGiftCode makes a code unredeemable.
	DeactivateGiftCode(ctx context.Context, code string) error

	// RedeemGiftCode credits the account and records the redemption in one transaction.
	RedeemGiftCode(ctx context.Context, accountID, code string) (*models.GiftCode, error)
}
