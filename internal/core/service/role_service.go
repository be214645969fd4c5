package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// RoleService resolves requested role names against the role reference
// data. The closure itself is pure (domain.CanonicalNames); this service
// only attaches the stored reference rows to it.
type RoleService struct {
	roles ports.RoleRepository
	log   zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, log: log}
}

func (s *RoleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.List(ctx)
}

// Closure resolves free-form role names into the full implied-role set,
// ordered by severity. A canonical role missing from the reference data is
// a configuration error, not a user-facing one: it is logged with full
// detail and aborts the request.
func (s *RoleService) Closure(ctx context.Context, names []string) ([]domain.Role, error) {
	canonical := domain.CanonicalNames(names)

	out := make([]domain.Role, 0, len(canonical))
	for _, name := range canonical {
		role, err := s.roles.FindByName(ctx, name)
		if err != nil {
			if errors.Is(err, domain.ErrEntityNotFound) {
				s.log.Error().
					Str("role", string(name)).
					Strs("requested", names).
					Msg("canonical role missing from reference data")
				return nil, fmt.Errorf("%w: %s", domain.ErrRoleCatalogCorrupt, name)
			}
			return nil, err
		}
		out = append(out, *role)
	}
	return out, nil
}
