package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// ProjectService implements plain project CRUD. Title and description edits
// carry no sharing semantics; only the ownership gate applies.
type ProjectService struct {
	projects  ports.ProjectRepository
	languages ports.LanguageRepository
	perms     ports.PermissionEvaluator
	tx        ports.TxRunner
	log       zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	languages ports.LanguageRepository,
	perms ports.PermissionEvaluator,
	tx ports.TxRunner,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{projects: projects, languages: languages, perms: perms, tx: tx, log: log}
}

// List returns the caller's projects; SUPERADMIN sees everything.
func (s *ProjectService) List(ctx context.Context, caller *domain.Caller) ([]*domain.Project, error) {
	if caller == nil {
		return nil, domain.ErrPermissionDenied
	}
	ownerID := caller.ID
	if caller.HasRole(domain.RoleSuperadmin) {
		ownerID = ""
	}
	return s.projects.List(ctx, ownerID)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, caller *domain.Caller, input ports.ProjectInput) (*domain.Project, error) {
	if caller == nil {
		return nil, domain.ErrPermissionDenied
	}

	now := time.Now().UTC()
	project := &domain.Project{
		Title:       input.Title,
		Description: input.Description,
		Link:        input.Link,
		OwnerID:     caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("project_id", created.ID).Str("owner_id", caller.ID).Msg("project created")
	return created, nil
}

func (s *ProjectService) Update(ctx context.Context, caller *domain.Caller, id string, input ports.ProjectInput) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.perms.OwnsProject(caller, project) {
		return nil, domain.ErrPermissionDenied
	}

	if input.Title != "" {
		project.Title = input.Title
	}
	if input.Description != "" {
		project.Description = input.Description
	}
	if input.Link != "" {
		project.Link = input.Link
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project and withdraws its references from the shared
// language catalog as one unit.
func (s *ProjectService) Delete(ctx context.Context, caller *domain.Caller, id string) error {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.perms.OwnsProject(caller, project) {
		return domain.ErrPermissionDenied
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.languages.DetachProject(ctx, project.ID); err != nil {
			return err
		}
		return s.projects.Delete(ctx, project.ID)
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("project_id", project.ID).Msg("project deleted")
	return nil
}
