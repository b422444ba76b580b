// Package validation implements the registration validator: field rules via
// go-playground/validator plus a username uniqueness check against the
// repository.
package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/expensetrack/accounts-api/internal/core/domain"
	"github.com/expensetrack/accounts-api/internal/core/ports"
)

// RegisterValidator satisfies ports.RegisterValidator.
type RegisterValidator struct {
	v *validator.Validate
}

// NewRegisterValidator returns a validator with the standard rule set.
func NewRegisterValidator() *RegisterValidator {
	return &RegisterValidator{v: validator.New()}
}

// registerRules mirrors ports.RegisterInput with the declarative constraints
// applied at registration time.
type registerRules struct {
	Username  string `validate:"required,min=3,max=64"`
	Password  string `validate:"required,min=6"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
}

// Validate returns the field-level failures for input, or nil when the
// payload is acceptable. The returned error reports repository faults only.
func (rv *RegisterValidator) Validate(ctx context.Context, input ports.RegisterInput, repo ports.UserRepository) (domain.ValidationErrors, error) {
	rules := registerRules{
		Username:  input.Username,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}

	var errs domain.ValidationErrors
	if err := rv.v.Struct(rules); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				errs = append(errs, domain.FieldError{
					Field:   strings.ToLower(fe.Field()),
					Message: fieldMessage(fe),
				})
			}
		} else {
			return nil, err
		}
	}

	// Uniqueness is only meaningful once a username was supplied at all.
	if input.Username != "" {
		_, err := repo.FindByUsername(ctx, input.Username)
		switch {
		case err == nil:
			errs = append(errs, domain.FieldError{Field: "username", Message: "username is already taken"})
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, err
		}
	}

	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}

// fieldMessage converts a single validator failure into a human-readable message.
func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
