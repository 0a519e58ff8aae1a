package ports

import "github.com/formgate/accounts-api/internal/core/domain"

// TokenClaims is the identity payload carried inside a bearer token.
type TokenClaims struct {
	ID    string
	Roles []domain.Role
}

// TokenService signs and verifies stateless bearer tokens. There is no
// revocation: a verified token stays valid until its natural expiry.
type TokenService interface {
	Issue(claims TokenClaims) (string, error)

	// Verify returns domain.ErrInvalidToken for malformed, expired or
	// mis-signed input.
	Verify(token string) (*TokenClaims, error)
}
