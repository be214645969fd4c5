package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// LanguageRepository defines persistence operations for the shared language
// catalog. Update is version-guarded: writing a row whose stored version no
// longer matches the snapshot fails with domain.ErrVersionConflict, which
// the reconciler turns into a fresh-snapshot retry.
type LanguageRepository interface {
	Create(ctx context.Context, language *domain.Language) (*domain.Language, error)
	FindByID(ctx context.Context, id string) (*domain.Language, error)
	FindByLabel(ctx context.Context, label string) (*domain.Language, error)
	List(ctx context.Context) ([]*domain.Language, error)
	// FindOwnersReferencing returns the distinct owner ids of every project
	// referencing the language.
	FindOwnersReferencing(ctx context.Context, languageID string) ([]string, error)
	// ExistsOwnerReference reports whether at least one of the owner's
	// projects references the language.
	ExistsOwnerReference(ctx context.Context, languageID, ownerID string) (bool, error)
	Update(ctx context.Context, language *domain.Language) error
	Delete(ctx context.Context, id string) error
	// DetachProject removes the project's reference from every language row.
	DetachProject(ctx context.Context, projectID string) error
}
