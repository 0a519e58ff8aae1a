package ports

import "context"

// LoginThrottle bounds repeated failed logins per email within a fixed window.
type LoginThrottle interface {
	// Allow reports whether another attempt for this email may proceed.
	Allow(ctx context.Context, email string) (bool, error)

	// RecordFailure counts one failed attempt against the email.
	RecordFailure(ctx context.Context, email string) error

	// Reset clears the counter, called after a successful login.
	Reset(ctx context.Context, email string) error
}
