package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// UpdateUserInput carries account update fields; empty fields are left
// untouched.
type UpdateUserInput struct {
	Name     string
	Username string
	Password string
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, caller *domain.Caller, id string, input UpdateUserInput) (*domain.User, error)
	// AssignRole materialises the closure of roleName into the user's role
	// set. SUPERADMIN only.
	AssignRole(ctx context.Context, caller *domain.Caller, userID, roleName string) (*domain.User, error)
}
