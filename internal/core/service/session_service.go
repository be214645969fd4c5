package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// SessionService resolves a bearer token into a request-scoped caller. The
// resolved identity is returned to the middleware, which threads it through
// the request context; it is never stored in shared process state.
type SessionService struct {
	tokens ports.TokenCodec
	users  ports.UserRepository
	log    zerolog.Logger
}

func NewSessionService(tokens ports.TokenCodec, users ports.UserRepository, log zerolog.Logger) *SessionService {
	return &SessionService{tokens: tokens, users: users, log: log}
}

// Resolve verifies the token and loads the full identity behind it. The
// token's embedded username is checked against the currently stored one:
// usernames are mutable, so a stale token is an identity mismatch, not a
// missing account.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Caller, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("subject_id", claims.SubjectID).Msg("token subject has no stored identity")
			return nil, domain.ErrUsernameNotFound
		}
		return nil, err
	}

	if user.Username != claims.Username {
		s.log.Warn().
			Str("subject_id", claims.SubjectID).
			Str("claimed", claims.Username).
			Str("actual", user.Username).
			Msg("token username drifted from stored identity")
		return nil, &domain.IdentityMismatchError{Claimed: claims.Username, Actual: user.Username}
	}

	return &domain.Caller{
		ID:       user.ID,
		Username: user.Username,
		Roles:    user.Roles,
		Verified: user.Verified,
	}, nil
}
