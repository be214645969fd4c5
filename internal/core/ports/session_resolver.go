package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// SessionResolver turns an inbound bearer token into a fully resolved
// caller. Besides the token errors it reports domain.ErrUsernameNotFound
// when the subject id no longer exists, and *domain.IdentityMismatchError
// when the stored username has drifted from the token's.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Caller, error)
}
