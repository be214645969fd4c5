package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

func newProjectFixture() (*ProjectService, *stubProjectRepo, *stubLanguageRepo) {
	projects := newStubProjectRepo()
	languages := newStubLanguageRepo()
	perms := NewPermissionService(languages, zerolog.Nop())
	return NewProjectService(projects, languages, perms, stubTx{}, zerolog.Nop()), projects, languages
}

func TestProjectService_CreateAndList(t *testing.T) {
	svc, _, _ := newProjectFixture()
	ctx := context.Background()

	owner := verifiedCaller("u1", domain.RoleUnknown)
	created, err := svc.Create(ctx, owner, ports.ProjectInput{Title: "Blog", Link: "https://example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.OwnerID != "u1" {
		t.Fatalf("owner must be the caller, got %s", created.OwnerID)
	}

	if _, err := svc.Create(ctx, verifiedCaller("u2", domain.RoleUnknown), ports.ProjectInput{Title: "Shop"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	mine, err := svc.List(ctx, owner)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != created.ID {
		t.Fatalf("caller must only see own projects: %+v", mine)
	}

	all, err := svc.List(ctx, verifiedCaller("u9", domain.RoleSuperadmin))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("superadmin must see everything, got %d", len(all))
	}
}

func TestProjectService_Update_OwnershipGate(t *testing.T) {
	svc, _, _ := newProjectFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, verifiedCaller("u1", domain.RoleUnknown), ports.ProjectInput{Title: "Blog"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(ctx, verifiedCaller("u2", domain.RoleUnknown), created.ID, ports.ProjectInput{Title: "Hijacked"}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	updated, err := svc.Update(ctx, verifiedCaller("u1", domain.RoleUnknown), created.ID, ports.ProjectInput{Title: "Blog v2"})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Title != "Blog v2" {
		t.Fatalf("title not updated: %+v", updated)
	}
}

func TestProjectService_Delete_DetachesLanguageReferences(t *testing.T) {
	svc, projects, languages := newProjectFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, verifiedCaller("u1", domain.RoleUnknown), ports.ProjectInput{Title: "Blog"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	lang, err := languages.Create(ctx, &domain.Language{
		Label:    "Go",
		Stack:    domain.StackBackend,
		Projects: []domain.ProjectRef{{ProjectID: created.ID, OwnerID: "u1"}},
	})
	if err != nil {
		t.Fatalf("create language: %v", err)
	}

	if err := svc.Delete(ctx, verifiedCaller("u2", domain.RoleUnknown), created.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	if err := svc.Delete(ctx, verifiedCaller("u1", domain.RoleUnknown), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := projects.FindByID(ctx, created.ID); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("project should be gone, got %v", err)
	}

	row, err := languages.FindByID(ctx, lang.ID)
	if err != nil {
		t.Fatalf("reload language: %v", err)
	}
	if row.HasProject(created.ID) {
		t.Fatalf("language still references the deleted project")
	}
}
