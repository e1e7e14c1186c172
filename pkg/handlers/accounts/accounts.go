package accounts

import (
	"context"
	"net/http"

	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/handlers/respond"
	"github.com/chris/rotmarket/pkg/mapping"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
	"go.uber.org/zap"
)

// Ensurer creates the caller's account on first use.
type Ensurer interface {
	Ensure(ctx context.Context, accountID, name string) (*models.Account, bool, error)
}

// AccountsHandler holds the dependencies for account-related handlers.
type AccountsHandler struct {
	Accounts Ensurer
	Store    storage.AccountStore
	Logger   *zap.Logger
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(accounts Ensurer, store storage.AccountStore, logger *zap.Logger) *AccountsHandler {
	return &AccountsHandler{Accounts: accounts, Store: store, Logger: logger}
}

// EnsureAccount returns the caller's account, creating it on first call.
// The body is optional; the display name falls back to the token's name claim.
func (h *AccountsHandler) EnsureAccount(w http.ResponseWriter, r *http.Request) {
	var body api.NewAccount
	if r.ContentLength != 0 {
		if !respond.Decode(w, r, &body) {
			return
		}
	}

	name := middleware.NameFromContext(r.Context())
	if body.Name != nil && *body.Name != "" {
		name = *body.Name
	}

	account, created, err := h.Accounts.Ensure(r.Context(), middleware.AccountIDFromContext(r.Context()), name)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond.JSON(w, status, mapping.ToApiAccount(account))
}

// GetAccount returns an account with its balances.
func (h *AccountsHandler) GetAccount(w http.ResponseWriter, r *http.Request, accountId string) {
	if !respond.CanAccess(r, accountId) {
		respond.Forbidden(w, r)
		return
	}

	account, err := h.Store.GetAccount(r.Context(), accountId)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(account))
}
