package handlers

import (
	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/handlers/accounts"
	"github.com/chris/rotmarket/pkg/handlers/gifts"
	"github.com/chris/rotmarket/pkg/handlers/ledger"
	"github.com/chris/rotmarket/pkg/handlers/listings"
	"github.com/chris/rotmarket/pkg/handlers/sales"
	"github.com/chris/rotmarket/pkg/handlers/settlements"
	"github.com/chris/rotmarket/pkg/handlers/webhooks"
	"github.com/chris/rotmarket/pkg/storage"
	"go.uber.org/zap"
)

// Services are the domain services behind the API.
type Services struct {
	Accounts  accounts.Ensurer
	Listings  listings.Creator
	Purchases listings.Purchaser
	Gifts     gifts.Manager
	Payments  webhooks.Capturer
	Settler   settlements.Sweeper
}

// ApiHandler implements the generated server interface by composing the
// per-resource handlers.
type ApiHandler struct {
	*accounts.AccountsHandler
	*listings.ListingsHandler
	*sales.SalesHandler
	*ledger.LedgerHandler
	*gifts.GiftsHandler
	*webhooks.WebhooksHandler
	*settlements.SettlementsHandler
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(store storage.ApiStore, services Services, logger *zap.Logger) *ApiHandler {
	return &ApiHandler{
		AccountsHandler:    accounts.NewAccountsHandler(services.Accounts, store, logger),
		ListingsHandler:    listings.NewListingsHandler(services.Listings, services.Purchases, store, logger),
		SalesHandler:       sales.NewSalesHandler(store, logger),
		LedgerHandler:      ledger.NewLedgerHandler(store, logger),
		GiftsHandler:       gifts.NewGiftsHandler(services.Gifts, logger),
		WebhooksHandler:    webhooks.NewWebhooksHandler(services.Payments, logger),
		SettlementsHandler: settlements.NewSettlementsHandler(services.Settler, logger),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
