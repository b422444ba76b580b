package ports

import (
	"context"

	"github.com/expensetrack/accounts-api/internal/core/domain"
)

// RegisterValidator checks a registration payload, including username
// uniqueness against the repository. A nil ValidationErrors means the payload
// is valid; a non-nil error reports a repository fault, not a bad payload.
type RegisterValidator interface {
	Validate(ctx context.Context, input RegisterInput, repo UserRepository) (domain.ValidationErrors, error)
}
