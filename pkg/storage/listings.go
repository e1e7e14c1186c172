package storage

import (
	"context"

	"github.com/chris/rotmarket/pkg/models"
)

// ListingStore defines the interface for managing listings before they are sold.
type ListingStore interface {
	// CreateListing writes a listing and its per-seller mirror.
	CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error)

	// GetListing retrieves a listing by its ID.
	GetListing(ctx context.Context, listingID string) (*models.Listing, error)

	// ListListingsBySeller retrieves the per-seller mirror rows for a seller.
	ListListingsBySeller(ctx context.Context, sellerID string) ([]models.SellerListing, error)
}
