package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

func newUserFixture() (*UserService, *stubUserRepo) {
	users := newStubUserRepo()
	roles := NewRoleService(newStubRoleRepo(), zerolog.Nop())
	return NewUserService(users, roles, zerolog.Nop()), users
}

func seedUser(t *testing.T, users *stubUserRepo, username string, roleNames ...domain.RoleName) *domain.User {
	t.Helper()
	roles := make([]domain.Role, 0, len(roleNames))
	for _, n := range roleNames {
		roles = append(roles, domain.Role{Name: n})
	}
	u, err := users.Create(context.Background(), &domain.User{
		Username: username,
		Roles:    roles,
		Verified: true,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestUserService_Update_SelfOnly(t *testing.T) {
	svc, users := newUserFixture()
	target := seedUser(t, users, "alice@example.com", domain.RoleUnknown)
	other := seedUser(t, users, "mallory@example.com", domain.RoleUnknown)

	if _, err := svc.Update(context.Background(), verifiedCaller(other.ID, domain.RoleUnknown), target.ID, ports.UpdateUserInput{Name: "X"}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	updated, err := svc.Update(context.Background(), verifiedCaller(target.ID, domain.RoleUnknown), target.ID, ports.UpdateUserInput{Name: "Alice B"})
	if err != nil {
		t.Fatalf("self update failed: %v", err)
	}
	if updated.Name != "Alice B" {
		t.Fatalf("name not updated: %+v", updated)
	}

	super := verifiedCaller("someone_else", domain.RoleSuperadmin)
	if _, err := svc.Update(context.Background(), super, target.ID, ports.UpdateUserInput{Name: "Alice C"}); err != nil {
		t.Fatalf("superadmin update failed: %v", err)
	}
}

func TestUserService_Update_UsernameCollision(t *testing.T) {
	svc, users := newUserFixture()
	target := seedUser(t, users, "alice@example.com", domain.RoleUnknown)
	seedUser(t, users, "taken@example.com", domain.RoleUnknown)

	_, err := svc.Update(context.Background(), verifiedCaller(target.ID, domain.RoleUnknown), target.ID, ports.UpdateUserInput{Username: "taken@example.com"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_AssignRole(t *testing.T) {
	svc, users := newUserFixture()
	target := seedUser(t, users, "bob@example.com", domain.RoleUnknown)
	super := verifiedCaller("admin_1", domain.RoleSuperadmin)

	if _, err := svc.AssignRole(context.Background(), verifiedCaller("u9", domain.RoleAdmin), target.ID, "admin"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("non-superadmin grant: expected ErrPermissionDenied, got %v", err)
	}

	updated, err := svc.AssignRole(context.Background(), super, target.ID, "superadmin")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	// the full closure lands in the role set
	for _, want := range domain.CanonicalRoleNames() {
		if !updated.HasRole(want) {
			t.Fatalf("closure not materialised, missing %s: %v", want, updated.Roles)
		}
	}

	if _, err := svc.AssignRole(context.Background(), super, target.ID, "superadmin"); !errors.Is(err, domain.ErrRoleAlreadyAssigned) {
		t.Fatalf("repeat grant: expected ErrRoleAlreadyAssigned, got %v", err)
	}
}
