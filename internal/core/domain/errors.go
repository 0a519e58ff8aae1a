package domain

import "errors"

var (
	// ErrAccountExists signals a unique-field collision (email or national id),
	// surfaced from the store's constraint violation rather than a pre-check.
	ErrAccountExists = errors.New("account already exists")

	// ErrInvalidCredentials deliberately covers both unknown email and wrong
	// password so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidAdminCode is returned when a registration's admin code does not
	// resolve to an existing admin account.
	ErrInvalidAdminCode = errors.New("invalid admin code or role")

	ErrInvalidToken    = errors.New("invalid token")
	ErrForbidden       = errors.New("access forbidden")
	ErrAccountNotFound = errors.New("account not found")

	// ErrTooManyAttempts is returned when the login throttle trips.
	ErrTooManyAttempts = errors.New("too many login attempts")

	// ErrInternal masks unexpected store failures; the real cause is logged
	// server-side and never leaks to the caller.
	ErrInternal = errors.New("internal error")
)
