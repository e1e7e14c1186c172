package settlements

import (
	"context"
	"net/http"

	"github.com/chris/rotmarket/pkg/handlers/respond"
	"github.com/chris/rotmarket/pkg/mapping"
	"github.com/chris/rotmarket/pkg/settlement"
	"go.uber.org/zap"
)

// Sweeper settles one batch of eligible sales.
type Sweeper interface {
	Sweep(ctx context.Context) (*settlement.SweepResult, error)
}

// SettlementsHandler exposes the manual settlement trigger.
type SettlementsHandler struct {
	Settler Sweeper
	Logger  *zap.Logger
}

// NewSettlementsHandler creates a new SettlementsHandler.
func NewSettlementsHandler(settler Sweeper, logger *zap.Logger) *SettlementsHandler {
	return &SettlementsHandler{Settler: settler, Logger: logger}
}

// RunSettlement runs one sweep and reports what it did.
func (h *SettlementsHandler) RunSettlement(w http.ResponseWriter, r *http.Request) {
	result, err := h.Settler.Sweep(r.Context())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiSettlementRun(result))
}
