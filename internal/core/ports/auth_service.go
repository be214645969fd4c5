package ports

import (
	"context"
	"net/http"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// RegisterInput carries a sign-up request. RoleNames are free-form aliases;
// the service materialises their closure at assignment time. Granting
// anything above the default tier requires a SUPERADMIN caller.
type RegisterInput struct {
	Name      string
	Username  string
	Password  string
	RoleNames []string
}

type AuthService interface {
	Register(ctx context.Context, caller *domain.Caller, input RegisterInput) (*domain.User, error)
	// Login returns the signed token alongside the authenticated user.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Logout always succeeds and returns the cleared session cookie.
	Logout() *http.Cookie
}
