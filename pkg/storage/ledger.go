package storage

import (
	"context"

	"github.com/chris/rotmarket/pkg/models"
)

// LedgerReader defines the interface for reading the transaction history.
type LedgerReader interface {
	// ListLedgerEntries retrieves the most recent history rows.
	ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error)

	// ListLedgerEntriesByAccount retrieves the most recent history rows of one account.
	ListLedgerEntriesByAccount(ctx context.Context, accountID string, limit int32) ([]models.LedgerEntry, error)
}
