package storage

import (
	"context"

	"github.com/chris/rotmarket/pkg/models"
)

// PaymentStore applies captured provider payments.
type PaymentStore interface {
	// CreditCapture credits the account once per capture reference.
	// It returns false when the reference was already applied.
	CreditCapture(ctx context.Context, capture *models.PaymentCapture) (bool, error)
}
