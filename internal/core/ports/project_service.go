package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// ProjectInput carries project create/update fields.
type ProjectInput struct {
	Title       string
	Description string
	Link        string
}

type ProjectService interface {
	List(ctx context.Context, caller *domain.Caller) ([]*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, caller *domain.Caller, input ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, caller *domain.Caller, id string, input ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, caller *domain.Caller, id string) error
}
