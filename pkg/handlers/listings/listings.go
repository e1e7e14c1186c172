package listings

import (
	"context"
	"net/http"

	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/handlers/respond"
	"github.com/chris/rotmarket/pkg/mapping"
	"github.com/chris/rotmarket/pkg/marketplace"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
	"go.uber.org/zap"
)

// Creator lists new items.
type Creator interface {
	Create(ctx context.Context, sellerID string, in marketplace.CreateListingInput) (*models.Listing, error)
}

// Purchaser runs the purchase protocol.
type Purchaser interface {
	Purchase(ctx context.Context, buyerID, listingID string) (*storage.PurchaseResult, error)
}

// ListingsHandler holds the dependencies for listing-related handlers.
type ListingsHandler struct {
	Listings  Creator
	Purchases Purchaser
	Store     storage.ListingStore
	Logger    *zap.Logger
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(listings Creator, purchases Purchaser, store storage.ListingStore, logger *zap.Logger) *ListingsHandler {
	return &ListingsHandler{Listings: listings, Purchases: purchases, Store: store, Logger: logger}
}

// CreateListing lists an item for the caller.
func (h *ListingsHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var body api.NewListing
	if !respond.Decode(w, r, &body) {
		return
	}

	in := marketplace.CreateListingInput{Title: body.Title, Price: body.Price}
	if body.Free != nil {
		in.Free = *body.Free
	}

	listing, err := h.Listings.Create(r.Context(), middleware.AccountIDFromContext(r.Context()), in)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiListing(listing))
}

// GetListing returns an open listing.
func (h *ListingsHandler) GetListing(w http.ResponseWriter, r *http.Request, listingId string) {
	listing, err := h.Store.GetListing(r.Context(), listingId)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiListing(listing))
}

// PurchaseListing buys a listing for the caller.
func (h *ListingsHandler) PurchaseListing(w http.ResponseWriter, r *http.Request, listingId string) {
	result, err := h.Purchases.Purchase(r.Context(), middleware.AccountIDFromContext(r.Context()), listingId)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiPurchase(result))
}

// ListSellerListings returns a seller's open listings.
func (h *ListingsHandler) ListSellerListings(w http.ResponseWriter, r *http.Request, accountId string) {
	rows, err := h.Store.ListListingsBySeller(r.Context(), accountId)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	out := make([]*api.SellerListing, len(rows))
	for i := range rows {
		out[i] = mapping.ToApiSellerListing(&rows[i])
	}
	respond.JSON(w, http.StatusOK, out)
}
