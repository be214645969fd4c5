package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// UserService implements account reads and updates.
type UserService struct {
	users ports.UserRepository
	roles ports.RoleService
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleService, log zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update changes name, username or password. Callers may edit themselves;
// SUPERADMIN may edit anyone. Changing the username naturally invalidates
// tokens issued before it: session resolution reports the drift as an
// identity mismatch.
func (s *UserService) Update(ctx context.Context, caller *domain.Caller, id string, input ports.UpdateUserInput) (*domain.User, error) {
	if caller == nil || (caller.ID != id && !caller.HasRole(domain.RoleSuperadmin)) {
		return nil, domain.ErrPermissionDenied
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != "" && input.Username != user.Username {
		exists, err := s.users.ExistsByUsername(ctx, input.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrUserExists
		}
		user.Username = input.Username
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("user updated")
	return user, nil
}

// AssignRole materialises the closure of roleName into the user's role set.
func (s *UserService) AssignRole(ctx context.Context, caller *domain.Caller, userID, roleName string) (*domain.User, error) {
	if !caller.HasRole(domain.RoleSuperadmin) {
		return nil, domain.ErrPermissionDenied
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	closure, err := s.roles.Closure(ctx, []string{roleName})
	if err != nil {
		return nil, err
	}

	added := false
	for _, role := range closure {
		if !user.HasRole(role.Name) {
			user.Roles = append(user.Roles, role)
			added = true
		}
	}
	if !added {
		return nil, domain.ErrRoleAlreadyAssigned
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("role", roleName).Msg("role assigned")
	return user, nil
}
