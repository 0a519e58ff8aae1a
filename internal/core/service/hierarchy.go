package service

import (
	"context"
	"errors"

	"github.com/formgate/accounts-api/internal/core/domain"
	"github.com/formgate/accounts-api/internal/core/ports"
)

// AttachToAdmin materializes the admin/user linkage. adminCode is the admin
// account's own id, handed out by the admin as an invite code; the check is
// identity-based, not a capability token. A code that resolves to nothing,
// or to an account without the admin role, is rejected before any account is
// created.
func (s *AccountService) AttachToAdmin(ctx context.Context, adminCode string, input ports.RegisterInput) (*domain.Account, error) {
	admin, err := s.repo.FindByID(ctx, adminCode)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidAdminCode
		}
		return nil, s.internal(err, "resolve admin code")
	}
	if !admin.IsAdmin() {
		return nil, domain.ErrInvalidAdminCode
	}

	return s.createAccount(ctx, input, []domain.Role{domain.RoleUser}, admin.ID)
}
