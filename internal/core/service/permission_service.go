package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// PermissionService makes the authorization decisions. Decisions are pure
// yes/no answers; nothing here mutates state, and a failed check never
// defaults to allow.
type PermissionService struct {
	languages ports.LanguageRepository
	log       zerolog.Logger
}

func NewPermissionService(languages ports.LanguageRepository, log zerolog.Logger) *PermissionService {
	return &PermissionService{languages: languages, log: log}
}

// HasRole is true iff the caller is verified and holds the exact role. No
// closure walk happens here: the closure was materialised into the caller's
// role set at assignment time.
func (s *PermissionService) HasRole(caller *domain.Caller, role domain.RoleName) bool {
	return caller.HasRole(role)
}

// OwnsProject is true for the project's owner; SUPERADMIN owns everything.
func (s *PermissionService) OwnsProject(caller *domain.Caller, project *domain.Project) bool {
	if caller == nil || project == nil {
		return false
	}
	return project.OwnerID == caller.ID || caller.HasRole(domain.RoleSuperadmin)
}

// CanEditSharedLanguage is true for SUPERADMIN, or for an ADMIN with at
// least one owned project referencing the language.
func (s *PermissionService) CanEditSharedLanguage(ctx context.Context, caller *domain.Caller, language *domain.Language) (bool, error) {
	if caller == nil || language == nil {
		return false, nil
	}
	if caller.HasRole(domain.RoleSuperadmin) {
		return true, nil
	}
	if !caller.HasRole(domain.RoleAdmin) {
		return false, nil
	}
	ok, err := s.languages.ExistsOwnerReference(ctx, language.ID, caller.ID)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// CanEditUnreferencedLanguage covers rows whose reference set is empty, so
// ownership cannot be derived from it: any resolved caller may create, only
// SUPERADMIN may mutate.
func (s *PermissionService) CanEditUnreferencedLanguage(caller *domain.Caller, isUpdate bool) bool {
	if caller == nil {
		return false
	}
	if caller.HasRole(domain.RoleSuperadmin) {
		return true
	}
	return !isUpdate
}
