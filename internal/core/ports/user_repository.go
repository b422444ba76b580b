package ports

import (
	"context"

	"github.com/expensetrack/accounts-api/internal/core/domain"
)

// UserRepository defines the persistence operations the account core needs.
// Lookups return domain.ErrUserNotFound when no record matches.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	ListAll(ctx context.Context) ([]domain.Account, error)
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id int64) error
}
