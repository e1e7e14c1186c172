package storage

import (
	"context"

	"github.com/chris/rotmarket/pkg/models"
)

// AccountStore defines the interface for managing accounts.
// Balances are never written through this interface.
type AccountStore interface {
	// GetAccount retrieves an account by its ID.
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)

	// CreateAccount creates a new account with zero balances.
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)

	// ListAccountsByRole retrieves the accounts holding a role.
	ListAccountsByRole(ctx context.Context, role models.Role) ([]models.Account, error)
}

// NoticeStore is the best-effort notification sink.
type NoticeStore interface {
	// AppendNotice adds a notice to the recipient's account document.
	AppendNotice(ctx context.Context, notice models.Notice) error
}
