package domain

import (
	"strings"
	"time"
)

// Role is the closed role enumeration. Anything outside admin/user is
// rejected at the edges so invalid roles never reach persistence.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Account models a credential-bearing identity. Admin accounts own zero or
// more user accounts via ParentAdminID on the children.
type Account struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	LastName      string    `json:"last_name"`
	NationalID    string    `json:"national_id"`
	IsActive      bool      `json:"is_active"`
	Roles         []Role    `json:"roles"`
	ParentAdminID string    `json:"parent_admin_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasRole reports whether the account holds the given role.
func (a *Account) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin is a convenience for the most common role check.
func (a *Account) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// NormalizeEmail applies the canonical form used for every write and lookup:
// trimmed and lowercased, so "Foo@Bar.com " and "foo@bar.com" are the same key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
