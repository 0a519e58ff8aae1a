package ports

import (
	"context"

	"github.com/formgate/accounts-api/internal/core/domain"
)

// AccountRepository is the credential store: durable account records with
// hashing done by the caller and uniqueness enforced by the backing store.
type AccountRepository interface {
	// Create persists a new account. A unique-index violation on email or
	// national id surfaces as domain.ErrAccountExists.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)

	FindByID(ctx context.Context, id string) (*domain.Account, error)

	// FindByEmailWithHash is the credential-lookup projection: the only read
	// path that returns the password hash. Used exclusively by Login.
	FindByEmailWithHash(ctx context.Context, email string) (*domain.Account, error)

	FindAll(ctx context.Context) ([]domain.Account, error)
	FindByRole(ctx context.Context, role domain.Role) ([]domain.Account, error)

	// FindChildren returns the user accounts whose ParentAdminID equals adminID.
	FindChildren(ctx context.Context, adminID string) ([]domain.Account, error)

	Delete(ctx context.Context, id string) error
}
