package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/expensetrack/accounts-api/internal/core/domain"
	"github.com/expensetrack/accounts-api/internal/core/hash"
	"github.com/expensetrack/accounts-api/internal/core/ports"
	"github.com/expensetrack/accounts-api/internal/core/token"
	"github.com/expensetrack/accounts-api/internal/core/validation"
)

type stubUserRepo struct {
	seq      int64
	accounts map[int64]*domain.Account
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{accounts: make(map[int64]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	if a, ok := r.accounts[id]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubUserRepo) Insert(_ context.Context, account *domain.Account) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Username == account.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	created := cloneAccount(account)
	created.ID = r.seq
	r.accounts[created.ID] = cloneAccount(created)
	return created, nil
}

func (r *stubUserRepo) Update(_ context.Context, account *domain.Account) error {
	if _, ok := r.accounts[account.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.accounts, id)
	return nil
}

var testHasher = hash.New()

func newTestService(repo *stubUserRepo) ports.UserService {
	return NewUserService(
		repo,
		testHasher,
		token.NewIssuer("secret", time.Hour),
		validation.NewRegisterValidator(),
		zerolog.Nop(),
	)
}

func seed(repo *stubUserRepo, username, password string, role domain.Role, createdAt time.Time) *domain.Account {
	repo.seq++
	a := &domain.Account{
		ID:             repo.seq,
		Username:       username,
		FirstName:      "First",
		LastName:       "Last",
		PasswordDigest: testHasher.Digest(password),
		Role:           role,
		CreatedAt:      createdAt,
	}
	repo.accounts[a.ID] = a
	return a
}

func TestRegister_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	summary, err := svc.Register(context.Background(), ports.RegisterInput{
		Username:  "alice",
		Password:  "secret1",
		FirstName: "Alice",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if summary.Role != domain.RoleRegular {
		t.Fatalf("role = %q, want regular", summary.Role)
	}
	if summary.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	stored := repo.accounts[summary.ID]
	if stored.PasswordDigest != testHasher.Digest("secret1") {
		t.Fatalf("stored digest does not match Digest(password)")
	}
	if stored.PasswordDigest == "secret1" {
		t.Fatalf("password stored in plaintext")
	}
	if stored.CreatedAt.IsZero() {
		t.Fatalf("createdAt not stamped")
	}
}

func TestRegister_ValidationFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), ports.RegisterInput{})
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}

	fields := make(map[string]bool)
	for _, fe := range verrs {
		fields[fe.Field] = true
	}
	for _, want := range []string{"username", "password", "firstname", "lastname"} {
		if !fields[want] {
			t.Fatalf("missing error for field %q in %v", want, verrs)
		}
	}
	if len(repo.accounts) != 0 {
		t.Fatalf("nothing should be persisted on validation failure")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	seed(repo, "alice", "secret1", domain.RoleRegular, time.Now())

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username:  "alice",
		Password:  "another1",
		FirstName: "Alice",
		LastName:  "Doe",
	})

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	found := false
	for _, fe := range verrs {
		if fe.Field == "username" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a username uniqueness error, got %v", verrs)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	seed(repo, "alice", "secret1", domain.RoleRegular, time.Now())

	result, err := svc.Authenticate(context.Background(), "alice", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}
	if result.Username != "alice" || result.Role != domain.RoleRegular {
		t.Fatalf("unexpected summary: %+v", result.AccountSummary)
	}

	username, role, err := token.NewIssuer("secret", time.Hour).Parse(result.Token)
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if username != "alice" || role != domain.RoleRegular {
		t.Fatalf("token claims = (%q, %q)", username, role)
	}
}

func TestAuthenticate_UniformFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	seed(repo, "alice", "secret1", domain.RoleRegular, time.Now())

	_, wrongPass := svc.Authenticate(context.Background(), "alice", "wrong")
	_, noUser := svc.Authenticate(context.Background(), "ghost", "whatever")

	if wrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: got %v", wrongPass)
	}
	if noUser != domain.ErrInvalidCredentials {
		t.Fatalf("unknown user: got %v", noUser)
	}
	if wrongPass != noUser {
		t.Fatalf("failure must be uniform across causes")
	}
}

func TestListAccounts_StripsDigest(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	seed(repo, "alice", "secret1", domain.RoleRegular, time.Now())
	seed(repo, "bob", "secret2", domain.RoleAdmin, time.Now())

	summaries, err := svc.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
}

func TestUpdateAccount_AdminTargetForbidden(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	actor := seed(repo, "manager", "pw1234", domain.RoleUserManager, time.Now().AddDate(-1, 0, 0))
	target := seed(repo, "root", "pw1234", domain.RoleAdmin, time.Now().AddDate(-2, 0, 0))

	_, err := svc.UpdateAccount(context.Background(), target.ID, ports.UpdateAccountInput{}, actor.Username)
	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateAccount_TenureGate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	young := seed(repo, "rookie", "pw1234", domain.RoleUserManager, time.Now().AddDate(0, -2, 0))
	senior := seed(repo, "veteran", "pw1234", domain.RoleUserManager, time.Now().AddDate(0, -8, 0))
	target := seed(repo, "peer", "pw1234", domain.RoleUserManager, time.Now())

	if _, err := svc.UpdateAccount(context.Background(), target.ID, ports.UpdateAccountInput{
		FirstName: "New", LastName: "Name",
	}, young.Username); err != domain.ErrForbidden {
		t.Fatalf("young actor: expected ErrForbidden, got %v", err)
	}

	if _, err := svc.UpdateAccount(context.Background(), target.ID, ports.UpdateAccountInput{
		FirstName: "New", LastName: "Name",
	}, senior.Username); err != nil {
		t.Fatalf("senior actor: %v", err)
	}
}

func TestUpdateAccount_PreservesRoleUsernameAndID(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	actor := seed(repo, "boss", "pw1234", domain.RoleAdmin, time.Now().AddDate(-1, 0, 0))
	target := seed(repo, "worker", "pw1234", domain.RoleUserManager, time.Now().AddDate(0, -1, 0))

	// actor has 12 months tenure, so the manager target is mutable
	summary, err := svc.UpdateAccount(context.Background(), target.ID, ports.UpdateAccountInput{
		FirstName: "Renamed",
		LastName:  "Person",
		Role:      domain.RoleAdmin, // must be discarded
	}, actor.Username)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if summary.Role != domain.RoleUserManager {
		t.Fatalf("role changed to %q; update must preserve the target's role", summary.Role)
	}
	if summary.Username != "worker" || summary.ID != target.ID {
		t.Fatalf("identity fields changed: %+v", summary)
	}

	stored := repo.accounts[target.ID]
	if stored.Role != domain.RoleUserManager {
		t.Fatalf("persisted role changed to %q", stored.Role)
	}
	if stored.FirstName != "Renamed" || stored.LastName != "Person" {
		t.Fatalf("names not applied: %+v", stored)
	}
}

func TestUpdateAccount_PasswordResolution(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	actor := seed(repo, "boss", "pw1234", domain.RoleAdmin, time.Now().AddDate(-1, 0, 0))
	target := seed(repo, "worker", "original", domain.RoleRegular, time.Now())
	originalDigest := target.PasswordDigest

	if _, err := svc.UpdateAccount(context.Background(), target.ID, ports.UpdateAccountInput{
		FirstName: "W", LastName: "W", Password: "",
	}, actor.Username); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.accounts[target.ID].PasswordDigest != originalDigest {
		t.Fatalf("empty password must keep the stored digest")
	}

	if _, err := svc.UpdateAccount(context.Background(), target.ID, ports.UpdateAccountInput{
		FirstName: "W", LastName: "W", Password: "changed1",
	}, actor.Username); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := repo.accounts[target.ID].PasswordDigest; got != testHasher.Digest("changed1") {
		t.Fatalf("new password not adopted, digest = %q", got)
	}
}

func TestUpdateAccount_RefreshesTimestamp(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	actor := seed(repo, "boss", "pw1234", domain.RoleAdmin, time.Now().AddDate(-1, 0, 0))
	target := seed(repo, "worker", "pw1234", domain.RoleRegular, time.Now().AddDate(0, -10, 0))

	before := time.Now().UTC().Add(-time.Second)
	if _, err := svc.UpdateAccount(context.Background(), target.ID, ports.UpdateAccountInput{
		FirstName: "W", LastName: "W",
	}, actor.Username); err != nil {
		t.Fatalf("update: %v", err)
	}
	if stamped := repo.accounts[target.ID].CreatedAt; stamped.Before(before) {
		t.Fatalf("timestamp not refreshed: %v", stamped)
	}
}

func TestUpdateAccount_NotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	actor := seed(repo, "boss", "pw1234", domain.RoleAdmin, time.Now().AddDate(-1, 0, 0))

	_, err := svc.UpdateAccount(context.Background(), 9999, ports.UpdateAccountInput{}, actor.Username)
	if err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteAccount_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	actor := seed(repo, "boss", "pw1234", domain.RoleAdmin, time.Now().AddDate(-1, 0, 0))
	target := seed(repo, "worker", "pw1234", domain.RoleRegular, time.Now())

	summary, err := svc.DeleteAccount(context.Background(), target.ID, actor.Username)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if summary.Username != "worker" {
		t.Fatalf("expected pre-deletion snapshot, got %+v", summary)
	}
	if _, ok := repo.accounts[target.ID]; ok {
		t.Fatalf("account still present after delete")
	}
}

func TestDeleteAccount_AdminTargetForbidden(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	actor := seed(repo, "boss", "pw1234", domain.RoleUserManager, time.Now().AddDate(-1, 0, 0))
	target := seed(repo, "root", "pw1234", domain.RoleAdmin, time.Now())

	if _, err := svc.DeleteAccount(context.Background(), target.ID, actor.Username); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, ok := repo.accounts[target.ID]; !ok {
		t.Fatalf("admin account must survive")
	}
}

func TestDeleteAccount_NotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	actor := seed(repo, "boss", "pw1234", domain.RoleAdmin, time.Now().AddDate(-1, 0, 0))

	if _, err := svc.DeleteAccount(context.Background(), 9999, actor.Username); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMutation_UnknownActor(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	target := seed(repo, "worker", "pw1234", domain.RoleRegular, time.Now())

	if _, err := svc.UpdateAccount(context.Background(), target.ID, ports.UpdateAccountInput{}, "ghost"); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for unknown actor, got %v", err)
	}
}
