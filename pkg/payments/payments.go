// Package payments credits purchased RotCoins from signed provider webhooks.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/notify"
	"github.com/chris/rotmarket/pkg/observability"
	"github.com/chris/rotmarket/pkg/storage"
	"go.uber.org/zap"
)

// SignatureHeader carries "sha256=<hex hmac of the body>".
const SignatureHeader = "X-Signature"

const signaturePrefix = "sha256="

var (
	// ErrUnknownProvider is returned for a provider with no configured secret.
	ErrUnknownProvider = errors.New("unknown payment provider")
	// ErrInvalidSignature is returned when the body signature does not verify.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// CaptureEvent is the webhook body sent by every provider.
type CaptureEvent struct {
	Reference string `json:"reference"`
	AccountID string `json:"accountId"`
	Credits   int64  `json:"credits"`
}

// CaptureResult reports what a webhook did. Credited is false for a redelivery.
type CaptureResult struct {
	Provider  string `json:"provider"`
	Reference string `json:"reference"`
	AccountID string `json:"accountId"`
	Credits   int64  `json:"credits"`
	Credited  bool   `json:"credited"`
}

// Service verifies and applies payment webhooks.
type Service struct {
	store    storage.PaymentStore
	secrets  map[string]string
	notifier notify.Dispatcher
	logger   *zap.Logger
}

// NewService creates a Service. secrets maps provider name to its signing secret.
func NewService(store storage.PaymentStore, secrets map[string]string, notifier notify.Dispatcher, logger *zap.Logger) *Service {
	return &Service{store: store, secrets: secrets, notifier: notifier, logger: logger}
}

// Capture verifies the signature of body and credits the captured amount once.
func (s *Service) Capture(ctx context.Context, provider string, body []byte, signature string) (*CaptureResult, error) {
	provider = strings.ToLower(provider)
	if err := s.verify(provider, body, signature); err != nil {
		observability.IncrementCapture(provider, "rejected")
		return nil, err
	}

	var event CaptureEvent
	if err := json.Unmarshal(body, &event); err != nil {
		observability.IncrementCapture(provider, "invalid")
		return nil, fmt.Errorf("%w: malformed capture event: %v", storage.ErrInvalidOperation, err)
	}
	if event.Reference == "" || event.AccountID == "" || event.Credits <= 0 {
		observability.IncrementCapture(provider, "invalid")
		return nil, fmt.Errorf("%w: capture event needs reference, accountId and positive credits", storage.ErrInvalidOperation)
	}

	credited, err := s.store.CreditCapture(ctx, &models.PaymentCapture{
		Reference: event.Reference,
		Provider:  provider,
		AccountId: event.AccountID,
		Credits:   event.Credits,
	})
	if err != nil {
		observability.IncrementCapture(provider, "error")
		return nil, err
	}

	result := &CaptureResult{
		Provider:  provider,
		Reference: event.Reference,
		AccountID: event.AccountID,
		Credits:   event.Credits,
		Credited:  credited,
	}
	if !credited {
		observability.IncrementCapture(provider, "duplicate")
		s.logger.Info("payment capture already applied",
			zap.String("provider", provider),
			zap.String("reference", event.Reference),
		)
		return result, nil
	}

	observability.IncrementCapture(provider, "credited")
	s.notifier.Dispatch(ctx, event.AccountID, models.NoticeCreditsArrived, map[string]string{
		"provider":  provider,
		"reference": event.Reference,
		"credits":   strconv.FormatInt(event.Credits, 10),
	})
	return result, nil
}

func (s *Service) verify(provider string, body []byte, signature string) error {
	secret, ok := s.secrets[provider]
	if !ok || secret == "" {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	got, err := hex.DecodeString(strings.TrimPrefix(signature, signaturePrefix))
	if err != nil || !strings.HasPrefix(signature, signaturePrefix) {
		return ErrInvalidSignature
	}
	if !hmac.Equal(got, Sign(secret, body)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns the HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// SignatureFor returns the header value a provider would send for body.
func SignatureFor(secret string, body []byte) string {
	return signaturePrefix + hex.EncodeToString(Sign(secret, body))
}
