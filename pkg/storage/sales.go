package storage

import (
	"context"
	"time"

	"github.com/chris/rotmarket/pkg/models"
)

// PurchaseRequest carries what the caller read before committing a purchase.
// The store commits only if the listing still matches Listing.Version.
type PurchaseRequest struct {
	BuyerID   string
	Listing   models.Listing
	SellerPct int64
	Now       time.Time
}

// PurchaseResult describes a committed purchase.
type PurchaseResult struct {
	ListingID string
	SellerID  string
	ChannelID string
	MessageID string
	// Sale is nil for free listings.
	Sale *models.Sale
}

// PurchaseStore executes the atomic purchase transaction.
type PurchaseStore interface {
	// Purchase debits the buyer, creates the pending sale, credits the seller's
	// pending balance, deletes the listing and opens the channel in one transaction.
	Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error)
}

// SaleReader defines the interface for reading sale records.
type SaleReader interface {
	// GetSale retrieves a sale by its ID.
	GetSale(ctx context.Context, saleID string) (*models.Sale, error)

	// ListSalesBySeller retrieves all sales for a seller.
	ListSalesBySeller(ctx context.Context, sellerID string) ([]models.Sale, error)

	// ListEligibleSales retrieves up to limit pending sales created at or before cutoff.
	ListEligibleSales(ctx context.Context, cutoff time.Time, limit int32) ([]models.Sale, error)
}
