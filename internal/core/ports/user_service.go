package ports

import (
	"context"

	"github.com/expensetrack/accounts-api/internal/core/domain"
)

// RegisterInput carries a new-account request. Role is deliberately absent:
// registration always produces a Regular account.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// UpdateAccountInput carries replacement values for an existing account.
// Role is accepted but discarded; the target keeps its stored role. An empty
// Password leaves the stored digest untouched.
type UpdateAccountInput struct {
	FirstName string
	LastName  string
	Password  string
	Role      domain.Role
}

// UserService is the account core's public surface.
type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.AuthenticatedAccount, error)
	Register(ctx context.Context, input RegisterInput) (*domain.AccountSummary, error)
	ListAccounts(ctx context.Context) ([]domain.AccountSummary, error)
	UpdateAccount(ctx context.Context, id int64, input UpdateAccountInput, actorUsername string) (*domain.AccountSummary, error)
	DeleteAccount(ctx context.Context, id int64, actorUsername string) (*domain.AccountSummary, error)
}
