package marketplace

import (
	"context"
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

// ErrForbidden is returned when the caller's role may not perform an operation.
var ErrForbidden = errors.New("insufficient permissions")

// GiftStore is the data access the gift code flow needs.
type GiftStore interface {
	storage.AccountStore
	storage.GiftStore
}

// GiftService manages and redeems gift codes.
type GiftService struct {
	store    GiftStore
	notifier notify.Dispatcher
	retry    storage.RetryPolicy
	logger   *zap.Logger
}

// NewGiftService creates a GiftService.
func NewGiftService(store GiftStore, notifier notify.Dispatcher, retry storage.RetryPolicy, logger *zap.Logger) *GiftService {
	return &GiftService{store: store, notifier: notifier, retry: retry, logger: logger}
}

// CreateGiftCodeInput describes a new gift code.
type CreateGiftCodeInput struct {
	Code   string
	Amount int64
	Target string
}

// Create issues a gift code. Only moderators and founders may create codes.
func (s *GiftService) Create(ctx context.Context, creatorID string, creatorRole models.Role, in CreateGiftCodeInput) (*models.GiftCode, error) {
	if !creatorRole.Privileged() {
		return nil, ErrForbidden
	}
	code := normalizeCode(in.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", storage.ErrInvalidOperation)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", storage.ErrInvalidOperation)
	}

	return s.store.CreateGiftCode(ctx, &models.GiftCode{
		Code:      code,
		Amount:    in.Amount,
		Target:    strings.TrimSpace(in.Target),
		CreatedBy: creatorID,
	})
}

// Deactivate makes a gift code unredeemable.
func (s *GiftService) Deactivate(ctx context.Context, role models.Role, code string) error {
	if !role.Privileged() {
		return ErrForbidden
	}
	return s.store.DeactivateGiftCode(ctx, normalizeCode(code))
}

// Redeem credits the code to accountID once.
func (s *GiftService) Redeem(ctx context.Context, accountID, code string) (*models.GiftCode, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", storage.ErrInvalidOperation)
	}

	var gift *models.GiftCode
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		gift, err = s.store.RedeemGiftCode(ctx, accountID, code)
		return err
	})
	observability.IncrementRedemption(redemptionOutcome(err))
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, accountID, models.NoticeGiftRedeemed, map[string]string{
		"code":   gift.Code,
		"amount": strconv.FormatInt(gift.Amount, 10),
	})
	return gift, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func redemptionOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, storage.ErrGiftCodeInactive):
		return "inactive"
	case errors.Is(err, storage.ErrGiftCodeForbidden):
		return "forbidden"
	case errors.Is(err, storage.ErrAlreadyRedeemed):
		return "already_redeemed"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrTransactionConflict):
		return "conflict"
	}
	return "error"
}
