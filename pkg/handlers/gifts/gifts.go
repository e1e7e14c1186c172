package gifts

import (
	"context"
	"net/http"

	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/handlers/respond"
	"github.com/chris/rotmarket/pkg/mapping"
	"github.com/chris/rotmarket/pkg/marketplace"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/chris/rotmarket/pkg/models"
	"go.uber.org/zap"
)

// Manager creates, deactivates and redeems gift codes.
type Manager interface {
	Create(ctx context.Context, creatorID string, creatorRole models.Role, in marketplace.CreateGiftCodeInput) (*models.GiftCode, error)
	Deactivate(ctx context.Context, role models.Role, code string) error
	Redeem(ctx context.Context, accountID, code string) (*models.GiftCode, error)
}

// GiftsHandler holds the dependencies for gift code handlers.
type GiftsHandler struct {
	Gifts  Manager
	Logger *zap.Logger
}

// NewGiftsHandler creates a new GiftsHandler.
func NewGiftsHandler(gifts Manager, logger *zap.Logger) *GiftsHandler {
	return &GiftsHandler{Gifts: gifts, Logger: logger}
}

func (h *GiftsHandler) CreateGiftCode(w http.ResponseWriter, r *http.Request) {
	var body api.NewGiftCode
	if !respond.Decode(w, r, &body) {
		return
	}

	in := marketplace.CreateGiftCodeInput{Code: body.Code, Amount: body.Amount}
	if body.Target != nil {
		in.Target = *body.Target
	}

	ctx := r.Context()
	code, err := h.Gifts.Create(ctx, middleware.AccountIDFromContext(ctx), middleware.RoleFromContext(ctx), in)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiGiftCode(code))
}

func (h *GiftsHandler) DeactivateGiftCode(w http.ResponseWriter, r *http.Request, code string) {
	if err := h.Gifts.Deactivate(r.Context(), middleware.RoleFromContext(r.Context()), code); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GiftsHandler) RedeemGiftCode(w http.ResponseWriter, r *http.Request, code string) {
	redeemed, err := h.Gifts.Redeem(r.Context(), middleware.AccountIDFromContext(r.Context()), code)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiGiftCode(redeemed))
}
