package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// RoleService resolves requested role names against the reference data.
type RoleService interface {
	List(ctx context.Context) ([]*domain.Role, error)
	// Closure resolves free-form role names into the full implied-role set,
	// ordered by severity. A canonical role missing from the reference data
	// is domain.ErrRoleCatalogCorrupt, never a user-facing error.
	Closure(ctx context.Context, names []string) ([]domain.Role, error)
}
