package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// PermissionEvaluator makes yes/no authorization decisions. Decisions have
// no side effects and never default to allow.
type PermissionEvaluator interface {
	// HasRole is true iff the caller is verified and holds the exact role.
	HasRole(caller *domain.Caller, role domain.RoleName) bool
	// OwnsProject is true for the project's owner and for SUPERADMIN.
	OwnsProject(caller *domain.Caller, project *domain.Project) bool
	// CanEditSharedLanguage is true for SUPERADMIN, or for an ADMIN with at
	// least one owned project referencing the language.
	CanEditSharedLanguage(ctx context.Context, caller *domain.Caller, language *domain.Language) (bool, error)
	// CanEditUnreferencedLanguage covers rows with no project references,
	// where ownership cannot be derived from the reference set: creation is
	// open to any resolved caller, updates need SUPERADMIN.
	CanEditUnreferencedLanguage(caller *domain.Caller, isUpdate bool) bool
}
