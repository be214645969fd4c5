package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindAllByIDs(ctx context.Context, ids []string) ([]*domain.Project, error)
	// List returns every project, or only the given owner's when ownerID is
	// non-empty.
	List(ctx context.Context, ownerID string) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error
}
