package ports

import "github.com/expensetrack/accounts-api/internal/core/domain"

// TokenIssuer mints and verifies the bearer tokens handed out at login.
type TokenIssuer interface {
	// Issue signs a token carrying the subject's username and role.
	Issue(username string, role domain.Role) (string, error)
	// Parse verifies a token and extracts its subject claims. It returns
	// domain.ErrTokenExpired when the token is past its expiry and
	// domain.ErrTokenInvalid for anything malformed or tampered with.
	Parse(token string) (username string, role domain.Role, err error)
}
