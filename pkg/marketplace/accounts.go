package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
)

// AccountService bootstraps accounts on first authentication.
type AccountService struct {
	store storage.AccountStore
}

// NewAccountService creates an AccountService.
func NewAccountService(store storage.AccountStore) *AccountService {
	return &AccountService{store: store}
}

// Ensure returns the caller's account, creating it with zero balances on first
// use. The second result reports whether the account was created.
func (s *AccountService) Ensure(ctx context.Context, accountID, name string) (*models.Account, bool, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, false, fmt.Errorf("%w: account id is required", storage.ErrInvalidOperation)
	}

	account, err := s.store.GetAccount(ctx, accountID)
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}

	account, err = s.store.CreateAccount(ctx, &models.Account{
		Id:   accountID,
		Name: strings.TrimSpace(name),
		Role: models.RoleUser,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		// Lost a race with a concurrent first request.
		account, err = s.store.GetAccount(ctx, accountID)
		return account, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return account, true, nil
}
