package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
)

// ListingService validates and creates listings.
type ListingService struct {
	store storage.ListingStore
}

// NewListingService creates a ListingService.
func NewListingService(store storage.ListingStore) *ListingService {
	return &ListingService{store: store}
}

// CreateListingInput describes a new listing.
type CreateListingInput struct {
	Title string
	Price int64
	Free  bool
}

// Create lists an item for sellerID. A paid listing needs a positive price.
func (s *ListingService) Create(ctx context.Context, sellerID string, in CreateListingInput) (*models.Listing, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", storage.ErrInvalidOperation)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", storage.ErrInvalidOperation)
	}
	if !in.Free && in.Price == 0 {
		return nil, fmt.Errorf("%w: a paid listing needs a positive price", storage.ErrInvalidOperation)
	}

	return s.store.CreateListing(ctx, &models.Listing{
		Title:    title,
		Price:    in.Price,
		Free:     in.Free,
		SellerId: sellerID,
	})
}
