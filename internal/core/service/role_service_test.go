package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

func TestRoleService_Closure_MaterialisesImpliedRoles(t *testing.T) {
	svc := NewRoleService(newStubRoleRepo(), zerolog.Nop())

	roles, err := svc.Closure(context.Background(), []string{"admin"})
	if err != nil {
		t.Fatalf("closure failed: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected ADMIN and UNKNOWN, got %v", roles)
	}
	if roles[0].Name != domain.RoleAdmin || roles[1].Name != domain.RoleUnknown {
		t.Fatalf("roles out of severity order: %v", roles)
	}
	for _, r := range roles {
		if r.ID == "" {
			t.Fatalf("closure must attach stored reference rows, got %+v", r)
		}
	}
}

func TestRoleService_Closure_EmptyInputYieldsDefault(t *testing.T) {
	svc := NewRoleService(newStubRoleRepo(), zerolog.Nop())

	roles, err := svc.Closure(context.Background(), nil)
	if err != nil {
		t.Fatalf("closure failed: %v", err)
	}
	if len(roles) != 1 || roles[0].Name != domain.RoleUnknown {
		t.Fatalf("expected default UNKNOWN, got %v", roles)
	}
}

func TestRoleService_Closure_MissingReferenceRowIsCorruption(t *testing.T) {
	repo := newStubRoleRepo()
	delete(repo.roles, domain.RoleUnknown)
	svc := NewRoleService(repo, zerolog.Nop())

	_, err := svc.Closure(context.Background(), []string{"admin"})
	if !errors.Is(err, domain.ErrRoleCatalogCorrupt) {
		t.Fatalf("expected ErrRoleCatalogCorrupt, got %v", err)
	}
	if errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("catalog corruption must not surface as a user-facing not-found")
	}
}
