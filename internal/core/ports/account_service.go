package ports

import (
	"context"

	"github.com/formgate/accounts-api/internal/core/domain"
)

// RegisterInput carries the caller-supplied fields for both registration flows.
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	LastName   string
	NationalID string
}

// AccountService is the authorization core consumed by the HTTP layer.
type AccountService interface {
	RegisterAdmin(ctx context.Context, input RegisterInput) (*domain.Account, string, error)
	RegisterUser(ctx context.Context, input RegisterInput, adminCode string) (*domain.Account, string, error)
	Login(ctx context.Context, email, password string) (*domain.Account, string, error)

	// CheckStatus re-issues a fresh token for an already-authenticated account.
	CheckStatus(account *domain.Account) (string, error)

	// AdminIDFromToken verifies the raw token and returns the parent admin id
	// of the account it names.
	AdminIDFromToken(ctx context.Context, token string) (string, error)

	FindAll(ctx context.Context) ([]domain.Account, error)
	FindAdmins(ctx context.Context) ([]domain.Account, error)
	FindUsers(ctx context.Context) ([]domain.Account, error)
	FindManagedBy(ctx context.Context, adminID string) ([]domain.Account, error)

	Delete(ctx context.Context, id string) error
}
