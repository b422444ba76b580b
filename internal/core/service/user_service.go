package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/expensetrack/accounts-api/internal/core/domain"
	"github.com/expensetrack/accounts-api/internal/core/ports"
)

type userService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	validator ports.RegisterValidator
	log       zerolog.Logger
}

// NewUserService wires the account core together.
func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	validator ports.RegisterValidator,
	log zerolog.Logger,
) ports.UserService {
	return &userService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		log:       log,
	}
}

// Authenticate checks credentials and, on success, issues a bearer token
// carrying the account's username and role. Failure is uniform: a missing
// account and a wrong password are indistinguishable to the caller.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.AuthenticatedAccount, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if s.hasher.Digest(password) != account.PasswordDigest {
		return nil, domain.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(account.Username, account.Role)
	if err != nil {
		return nil, fmt.Errorf("authenticate: issue token: %w", err)
	}

	s.log.Info().Str("username", account.Username).Str("role", string(account.Role)).Msg("login")

	return &domain.AuthenticatedAccount{
		AccountSummary: account.Summary(),
		Token:          signed,
	}, nil
}

// Register validates the payload and creates a new account. The role is
// always Regular, whatever the caller had in mind.
func (s *userService) Register(ctx context.Context, input ports.RegisterInput) (*domain.AccountSummary, error) {
	verrs, err := s.validator.Validate(ctx, input, s.repo)
	if err != nil {
		return nil, fmt.Errorf("register: validate: %w", err)
	}
	if verrs != nil {
		return nil, verrs
	}

	account := &domain.Account{
		Username:       input.Username,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		PasswordDigest: s.hasher.Digest(input.Password),
		Role:           domain.RoleRegular,
		CreatedAt:      time.Now().UTC(),
	}

	created, err := s.repo.Insert(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("username", created.Username).Int64("id", created.ID).Msg("account registered")

	summary := created.Summary()
	return &summary, nil
}

// ListAccounts returns every account, digests stripped.
func (s *userService) ListAccounts(ctx context.Context) ([]domain.AccountSummary, error) {
	accounts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	summaries := make([]domain.AccountSummary, 0, len(accounts))
	for i := range accounts {
		summaries = append(summaries, accounts[i].Summary())
	}
	return summaries, nil
}

// UpdateAccount replaces the target's mutable fields. The target keeps its
// id, username, and role regardless of what the payload says; an empty
// password leaves the stored digest alone. The tracked timestamp is
// refreshed, which also resets the target's tenure clock.
func (s *userService) UpdateAccount(ctx context.Context, id int64, input ports.UpdateAccountInput, actorUsername string) (*domain.AccountSummary, error) {
	actor, err := s.resolveActor(ctx, actorUsername)
	if err != nil {
		return nil, err
	}

	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !domain.CanMutate(actor, target, now) {
		return nil, domain.ErrForbidden
	}

	updated := *target
	updated.FirstName = input.FirstName
	updated.LastName = input.LastName
	updated.PasswordDigest = domain.ResolvePasswordOnUpdate(input.Password, target.PasswordDigest, s.hasher.Digest)
	updated.CreatedAt = now

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update account %d: %w", id, err)
	}

	s.log.Info().Int64("id", id).Str("actor", actor.Username).Msg("account updated")

	summary := updated.Summary()
	return &summary, nil
}

// DeleteAccount removes the target and returns its pre-deletion snapshot.
func (s *userService) DeleteAccount(ctx context.Context, id int64, actorUsername string) (*domain.AccountSummary, error) {
	actor, err := s.resolveActor(ctx, actorUsername)
	if err != nil {
		return nil, err
	}

	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanMutate(actor, target, time.Now().UTC()) {
		return nil, domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete account %d: %w", id, err)
	}

	s.log.Info().Int64("id", id).Str("actor", actor.Username).Msg("account deleted")

	summary := target.Summary()
	return &summary, nil
}

// resolveActor loads the acting account from the token's subject username.
// A token whose subject no longer exists is as good as no token.
func (s *userService) resolveActor(ctx context.Context, username string) (*domain.Account, error) {
	actor, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	return actor, nil
}
