package sales

import (
	"net/http"
	"sort"

	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/handlers/respond"
	"github.com/chris/rotmarket/pkg/mapping"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/chris/rotmarket/pkg/storage"
	"github.com/oapi-codegen/runtime/types"
	"go.uber.org/zap"
)

// SalesHandler holds the dependencies for sale-related handlers.
type SalesHandler struct {
	Store  storage.SaleReader
	Logger *zap.Logger
}

// NewSalesHandler creates a new SalesHandler.
func NewSalesHandler(store storage.SaleReader, logger *zap.Logger) *SalesHandler {
	return &SalesHandler{Store: store, Logger: logger}
}

// GetSale returns a sale to its buyer, its seller or a privileged caller.
func (h *SalesHandler) GetSale(w http.ResponseWriter, r *http.Request, saleId types.UUID) {
	sale, err := h.Store.GetSale(r.Context(), saleId.String())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	caller := middleware.AccountIDFromContext(r.Context())
	if caller != sale.BuyerId && !respond.CanAccess(r, sale.SellerId) {
		// Hide existence from unrelated callers.
		respond.Error(w, r, h.Logger, storage.ErrNotFound)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiSale(sale))
}

// ListSellerSales returns a seller's sales, newest first.
func (h *SalesHandler) ListSellerSales(w http.ResponseWriter, r *http.Request, accountId string) {
	if !respond.CanAccess(r, accountId) {
		respond.Forbidden(w, r)
		return
	}

	domainSales, err := h.Store.ListSalesBySeller(r.Context(), accountId)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	sort.Slice(domainSales, func(i, j int) bool {
		return domainSales[i].CreatedAt.After(domainSales[j].CreatedAt)
	})

	out := make([]*api.Sale, len(domainSales))
	for i := range domainSales {
		out[i] = mapping.ToApiSale(&domainSales[i])
	}
	respond.JSON(w, http.StatusOK, out)
}
