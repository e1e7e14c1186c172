package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/api/problem"
	"github.com/chris/rotmarket/pkg/handlers/respond"
	"github.com/chris/rotmarket/pkg/mapping"
	"github.com/chris/rotmarket/pkg/payments"
	"go.uber.org/zap"
)

// maxBodyBytes bounds a provider webhook body.
const maxBodyBytes = 64 << 10

// Capturer applies signed provider webhooks.
type Capturer interface {
	Capture(ctx context.Context, provider string, body []byte, signature string) (*payments.CaptureResult, error)
}

// WebhooksHandler receives payment provider callbacks.
type WebhooksHandler struct {
	Payments Capturer
	Logger   *zap.Logger
}

// NewWebhooksHandler creates a new WebhooksHandler.
func NewWebhooksHandler(payments Capturer, logger *zap.Logger) *WebhooksHandler {
	return &WebhooksHandler{Payments: payments, Logger: logger}
}

// CapturePayment verifies the signature over the raw body and credits the account.
func (h *WebhooksHandler) CapturePayment(w http.ResponseWriter, r *http.Request, provider api.CapturePaymentParamsProvider, params api.CapturePaymentParams) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.Type("request/invalid-body"), "", "Failed to read request body")
		return
	}

	result, err := h.Payments.Capture(r.Context(), string(provider), body, params.XSignature)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiCaptureResult(result))
}
