package service

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	users  ports.UserRepository
	roles  ports.RoleService
	tokens ports.TokenCodec
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, roles ports.RoleService, tokens ports.TokenCodec, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, roles: roles, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, caller *domain.Caller, input ports.RegisterInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	exists, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	// The closure is materialised into the role set here, at assignment
	// time; permission checks later only look at exact membership.
	roles, err := s.roles.Closure(ctx, input.RoleNames)
	if err != nil {
		return nil, err
	}
	if elevated(roles) && !caller.HasRole(domain.RoleSuperadmin) {
		return nil, domain.ErrPermissionDenied
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Username:     input.Username,
		PasswordHash: string(hash),
		Roles:        roles,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// Logout always succeeds, even when the presented token no longer
// resolves: a client must be able to clear its own stale credential.
func (s *AuthService) Logout() *http.Cookie {
	return s.tokens.ClearedCookie()
}

// elevated reports whether the role set grants anything beyond the default
// tier.
func elevated(roles []domain.Role) bool {
	for _, r := range roles {
		if r.Name != domain.RoleUnknown {
			return true
		}
	}
	return false
}
