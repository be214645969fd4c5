package domain

import (
	"errors"
	"fmt"
)

// Token verification failures. All four leave the request anonymous; routes
// that require a role reject it afterwards.
var (
	ErrTokenMalformed   = errors.New("token malformed")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenUnsupported = errors.New("token format not supported")
	ErrTokenEmptyClaims = errors.New("token claims empty")
)

// IsTokenError reports whether err is one of the token verification
// failures.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenUnsupported) ||
		errors.Is(err, ErrTokenEmptyClaims)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")

	// ErrUsernameNotFound means the token's subject id resolves to no
	// stored identity at all; terminal for the request's authentication
	// attempt. Distinct from IdentityMismatchError.
	ErrUsernameNotFound = errors.New("username not found")

	ErrPermissionDenied = errors.New("permission denied")
	ErrEntityNotFound   = errors.New("entity not found")

	// ErrVersionConflict is the repository-level signal that a write lost
	// an optimistic-concurrency race; the reconciler retries on it.
	ErrVersionConflict = errors.New("stale entity version")

	// ErrReconciliationConflict surfaces only after the internal retry
	// budget is exhausted.
	ErrReconciliationConflict = errors.New("concurrent edits exhausted reconciliation retries")
)

// IdentityMismatchError reports that a token's embedded username no longer
// matches the currently stored username for that subject id. It carries
// both values so the client can tell a stale credential from a missing
// account.
type IdentityMismatchError struct {
	Claimed string
	Actual  string
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("username %q does not match stored username %q", e.Claimed, e.Actual)
}
