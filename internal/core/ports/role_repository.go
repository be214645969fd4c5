package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// RoleRepository exposes the role reference data. Rows are seeded once at
// startup and read-only afterwards.
type RoleRepository interface {
	FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	// EnsureReferenceData creates any missing canonical role row. A failure
	// here is a startup-fatal configuration error.
	EnsureReferenceData(ctx context.Context) error
}
