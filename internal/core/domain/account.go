package domain

import "time"

// Role classifies an account's authority level.
type Role string

const (
	RoleRegular     Role = "regular"
	RoleUserManager Role = "user_manager"
	RoleAdmin       Role = "admin"
)

// authority defines the total order used for permission comparisons:
// Admin > UserManager > Regular.
var authority = map[Role]int{
	RoleRegular:     0,
	RoleUserManager: 1,
	RoleAdmin:       2,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := authority[r]
	return ok
}

// AtLeast reports whether r carries at least the authority of other.
func (r Role) AtLeast(other Role) bool {
	return authority[r] >= authority[other]
}

// ParseRole converts a raw claim value into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Account models a stored user record.
//
// CreatedAt doubles as the tenure anchor: it is stamped at registration and
// re-stamped on every update, and the mutation policy measures the acting
// account's age against it.
type Account struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PasswordDigest string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// AccountSummary is the non-secret projection of an Account returned to
// callers. It never carries the password digest.
type AccountSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// Summary projects the account into its non-secret form.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:        a.ID,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
	}
}

// AuthenticatedAccount is the result of a successful credential check: the
// account summary plus a freshly issued bearer token.
type AuthenticatedAccount struct {
	AccountSummary
	Token string `json:"token"`
}
