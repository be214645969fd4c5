package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// LanguageApplyInput carries a create or update of the shared catalog
// entity. ProjectIDs is the set of projects the caller wants referencing
// the row; the reconciler restricts it to projects the caller owns.
type LanguageApplyInput struct {
	ID         string
	Label      string
	Stack      domain.Stack
	ProjectIDs []string
}

// ListLanguagesFilter narrows a listing to languages referenced by a
// specific owner's projects or by one specific project.
type ListLanguagesFilter struct {
	OwnerID   string
	ProjectID string
}

// LanguageDeleteResult reports what a delete actually did: Deleted means
// the row itself is gone, Updated means a reference was detached and the
// smaller set persisted.
type LanguageDeleteResult struct {
	Deleted bool `json:"is_deleted"`
	Updated bool `json:"is_updated"`
}

// LanguageService is the shared-entity reconciler plus read access.
type LanguageService interface {
	List(ctx context.Context, filter ListLanguagesFilter) ([]*domain.Language, error)
	Get(ctx context.Context, id string) (*domain.Language, error)
	Create(ctx context.Context, caller *domain.Caller, input LanguageApplyInput) (*domain.Language, error)
	Update(ctx context.Context, caller *domain.Caller, id string, input LanguageApplyInput) (*domain.Language, error)
	// Delete removes one project's association when projectID is non-empty,
	// or the whole row when it is empty.
	Delete(ctx context.Context, caller *domain.Caller, languageID, projectID string) (LanguageDeleteResult, error)
}
