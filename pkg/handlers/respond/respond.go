// Package respond writes JSON bodies and maps domain errors to RFC 7807 responses.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chris/rotmarket/pkg/api/problem"
	"github.com/chris/rotmarket/pkg/marketplace"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/chris/rotmarket/pkg/payments"
	"github.com/chris/rotmarket/pkg/storage"
	"go.uber.org/zap"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to write response", zap.Error(err))
	}
}

// Decode reads a JSON request body into v. It writes a 400 and returns false on failure.
func Decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.Type("request/invalid-body"), "", "Invalid request body")
		return false
	}
	return true
}

// Forbidden writes a 403.
func Forbidden(w http.ResponseWriter, r *http.Request) {
	problem.Write(w, r, http.StatusForbidden, problem.Type("auth/forbidden"), "", "insufficient permissions")
}

type mapping struct {
	target error
	status int
	slug   string
}

// Order matters: the specific redemption errors wrap ErrNotFound and ErrRedemptionConflict.
var mappings = []mapping{
	{storage.ErrInsufficientFunds, http.StatusUnprocessableEntity, "purchase/insufficient-funds"},
	{storage.ErrListingUnavailable, http.StatusConflict, "purchase/listing-unavailable"},
	{storage.ErrInvalidOperation, http.StatusBadRequest, "request/invalid-operation"},
	{storage.ErrGiftCodeNotFound, http.StatusNotFound, "gift-codes/not-found"},
	{storage.ErrGiftCodeInactive, http.StatusConflict, "gift-codes/inactive"},
	{storage.ErrGiftCodeForbidden, http.StatusConflict, "gift-codes/restricted"},
	{storage.ErrAlreadyRedeemed, http.StatusConflict, "gift-codes/already-redeemed"},
	{storage.ErrAlreadyExists, http.StatusConflict, "resource/already-exists"},
	{storage.ErrNotFound, http.StatusNotFound, "resource/not-found"},
	{storage.ErrTransactionConflict, http.StatusServiceUnavailable, "storage/contention"},
	{marketplace.ErrForbidden, http.StatusForbidden, "auth/forbidden"},
	{payments.ErrInvalidSignature, http.StatusUnauthorized, "webhooks/invalid-signature"},
	{payments.ErrUnknownProvider, http.StatusNotFound, "webhooks/unknown-provider"},
}

// Error writes the problem response for err. Unmapped errors are logged and
// reported as 500 without their message.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			problem.Write(w, r, m.status, problem.Type(m.slug), "", err.Error())
			return
		}
	}
	logger.Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
	problem.Write(w, r, http.StatusInternalServerError, problem.Type("internal-server-error"), "", "unexpected server error")
}

// CanAccess reports whether the caller may read accountID's data: the account
// itself or a moderator or founder.
func CanAccess(r *http.Request, accountID string) bool {
	return middleware.AccountIDFromContext(r.Context()) == accountID || middleware.RoleFromContext(r.Context()).Privileged()
}
