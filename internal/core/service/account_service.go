package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/formgate/accounts-api/internal/core/domain"
	"github.com/formgate/accounts-api/internal/core/ports"
)

// AccountService implements the caller-facing authorization core: both
// registration flows, login, session refresh, role-scoped queries and
// deletion. It composes the credential store, the token service and an
// optional login throttle.
type AccountService struct {
	repo     ports.AccountRepository
	tokens   ports.TokenService
	throttle ports.LoginThrottle
	logger   zerolog.Logger
}

// NewAccountService wires the authorization core. throttle may be nil, in
// which case repeated failed logins are not rate limited.
func NewAccountService(repo ports.AccountRepository, tokens ports.TokenService, throttle ports.LoginThrottle, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, tokens: tokens, throttle: throttle, logger: logger}
}

// RegisterAdmin creates a top-level admin account and returns it together
// with a freshly issued token.
func (s *AccountService) RegisterAdmin(ctx context.Context, input ports.RegisterInput) (*domain.Account, string, error) {
	account, err := s.createAccount(ctx, input, []domain.Role{domain.RoleAdmin}, "")
	if err != nil {
		return nil, "", err
	}
	return s.withToken(account)
}

// RegisterUser creates a user account owned by the admin that adminCode
// resolves to. The linkage rules live in AttachToAdmin.
func (s *AccountService) RegisterUser(ctx context.Context, input ports.RegisterInput, adminCode string) (*domain.Account, string, error) {
	account, err := s.AttachToAdmin(ctx, adminCode, input)
	if err != nil {
		return nil, "", err
	}
	return s.withToken(account)
}

// Login verifies email/password credentials and issues a token. Unknown
// email and wrong password both return domain.ErrInvalidCredentials so the
// response cannot be used to enumerate accounts.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}
	email = domain.NormalizeEmail(email)

	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, email)
		if err != nil {
			// Throttle outage must not lock everyone out.
			s.logger.Warn().Err(err).Msg("login throttle unavailable")
		} else if !ok {
			return nil, "", domain.ErrTooManyAttempts
		}
	}

	account, err := s.repo.FindByEmailWithHash(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.recordFailure(ctx, email)
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", s.internal(err, "login lookup")
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return nil, "", domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	// The credential projection is the only read that carries the hash;
	// strip it before the account leaves the core.
	account.PasswordHash = ""
	return s.withToken(account)
}

// CheckStatus re-issues a token for an account that the boundary already
// authenticated; the lightweight session-refresh path.
func (s *AccountService) CheckStatus(account *domain.Account) (string, error) {
	return s.tokens.Issue(ports.TokenClaims{ID: account.ID, Roles: account.Roles})
}

// AdminIDFromToken verifies the raw token, resolves the account it names and
// returns the id of that account's parent admin.
func (s *AccountService) AdminIDFromToken(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	account, err := s.repo.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", domain.ErrAccountNotFound
		}
		return "", s.internal(err, "admin-id lookup")
	}
	if account.ParentAdminID == "" {
		return "", domain.ErrAccountNotFound
	}
	return account.ParentAdminID, nil
}

func (s *AccountService) FindAll(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.internal(err, "list accounts")
	}
	return accounts, nil
}

func (s *AccountService) FindAdmins(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.FindByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, s.internal(err, "list admins")
	}
	return accounts, nil
}

func (s *AccountService) FindUsers(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.FindByRole(ctx, domain.RoleUser)
	if err != nil {
		return nil, s.internal(err, "list users")
	}
	return accounts, nil
}

// FindManagedBy lists the user accounts owned by adminID. It does not check
// that the caller is that admin; see the route table for the gating decision.
func (s *AccountService) FindManagedBy(ctx context.Context, adminID string) ([]domain.Account, error) {
	accounts, err := s.repo.FindChildren(ctx, adminID)
	if err != nil {
		return nil, s.internal(err, "list managed users")
	}
	return accounts, nil
}

// Delete hard-removes an account. Dependent records held by external
// collaborators are theirs to cascade.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrAccountNotFound
		}
		return s.internal(err, "delete lookup")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.internal(err, "delete account")
	}
	return nil
}

// createAccount hashes the password and persists a new account. Uniqueness is
// enforced by the store's own constraint, never a check-then-insert, so two
// concurrent registrations with the same email cannot both succeed.
func (s *AccountService) createAccount(ctx context.Context, input ports.RegisterInput, roles []domain.Role, parentAdminID string) (*domain.Account, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, s.internal(err, "hash password")
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Email:         domain.NormalizeEmail(input.Email),
		PasswordHash:  string(hash),
		Name:          input.Name,
		LastName:      input.LastName,
		NationalID:    input.NationalID,
		IsActive:      true,
		Roles:         roles,
		ParentAdminID: parentAdminID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, domain.ErrAccountExists
		}
		return nil, s.internal(err, "create account")
	}

	created.PasswordHash = ""
	return created, nil
}

func (s *AccountService) withToken(account *domain.Account) (*domain.Account, string, error) {
	token, err := s.tokens.Issue(ports.TokenClaims{ID: account.ID, Roles: account.Roles})
	if err != nil {
		return nil, "", s.internal(err, "issue token")
	}
	return account, token, nil
}

func (s *AccountService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("login throttle record failed")
	}
}

// internal logs the real cause server-side and returns the opaque sentinel;
// callers never see store internals.
func (s *AccountService) internal(err error, op string) error {
	s.logger.Error().Err(err).Str("op", op).Msg("unexpected store failure")
	return domain.ErrInternal
}

var _ ports.AccountService = (*AccountService)(nil)
