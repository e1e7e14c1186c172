package ledger

import (
	"net/http"

	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/handlers/respond"
	"github.com/chris/rotmarket/pkg/mapping"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
	"go.uber.org/zap"
)

const (
	defaultLimit int32 = 20
	maxLimit     int32 = 100
)

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Store  storage.LedgerReader
	Logger *zap.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(store storage.LedgerReader, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{Store: store, Logger: logger}
}

// ListLedger returns the most recent history rows across all accounts.
func (h *LedgerHandler) ListLedger(w http.ResponseWriter, r *http.Request, params api.ListLedgerParams) {
	if !middleware.RoleFromContext(r.Context()).Privileged() {
		respond.Forbidden(w, r)
		return
	}

	entries, err := h.Store.ListLedgerEntries(r.Context(), clampLimit(params.Limit))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, toApiEntries(entries))
}

// ListAccountLedger returns one account's history rows.
func (h *LedgerHandler) ListAccountLedger(w http.ResponseWriter, r *http.Request, accountId string, params api.ListAccountLedgerParams) {
	if !respond.CanAccess(r, accountId) {
		respond.Forbidden(w, r)
		return
	}

	entries, err := h.Store.ListLedgerEntriesByAccount(r.Context(), accountId, clampLimit(params.Limit))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, toApiEntries(entries))
}

func clampLimit(limit *int32) int32 {
	if limit == nil || *limit <= 0 {
		return defaultLimit
	}
	return min(*limit, maxLimit)
}

func toApiEntries(entries []models.LedgerEntry) []*api.LedgerEntry {
	out := make([]*api.LedgerEntry, len(entries))
	for i := range entries {
		out[i] = mapping.ToApiLedgerEntry(&entries[i])
	}
	return out
}
