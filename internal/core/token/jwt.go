// Package token issues and verifies the HS256 bearer tokens returned at
// login. Tokens carry only the subject's username and role; there is no
// refresh or revocation, expiry is the only lifecycle bound.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/expensetrack/accounts-api/internal/core/domain"
)

// DefaultTTL matches the original login contract: tokens live seven days.
const DefaultTTL = 7 * 24 * time.Hour

// Issuer signs and verifies tokens with a process-wide shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an Issuer. A non-positive ttl falls back to DefaultTTL.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token embedding the subject's username and role.
func (i *Issuer) Issue(username string, role domain.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"name": username,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Parse verifies raw and returns its subject claims. Expired tokens map to
// domain.ErrTokenExpired; everything else that fails verification maps to
// domain.ErrTokenInvalid.
func (i *Issuer) Parse(raw string) (string, domain.Role, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", domain.ErrTokenExpired
		}
		return "", "", domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return "", "", domain.ErrTokenInvalid
	}

	username, _ := claims["name"].(string)
	roleClaim, _ := claims["role"].(string)
	role, ok := domain.ParseRole(roleClaim)
	if username == "" || !ok {
		return "", "", domain.ErrTokenInvalid
	}
	return username, role, nil
}
