package service

import (
	"context"
	"fmt"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// In-memory fakes for the repository and infrastructure ports. They clone
// on the way in and out so tests observe persistence, not shared pointers.

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.seq++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[clone.ID] = cloneUser(clone)
	return clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

type stubRoleRepo struct {
	roles map[domain.RoleName]*domain.Role
}

func newStubRoleRepo() *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[domain.RoleName]*domain.Role)}
	for _, name := range domain.CanonicalRoleNames() {
		r.roles[name] = &domain.Role{
			ID:       "role_" + string(name),
			Name:     name,
			Severity: name.Severity(),
		}
	}
	return r
}

func (r *stubRoleRepo) FindByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrEntityNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) List(_ context.Context) ([]*domain.Role, error) {
	out := make([]*domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		clone := *role
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubRoleRepo) EnsureReferenceData(_ context.Context) error { return nil }

type stubProjectRepo struct {
	projects map[string]*domain.Project
	seq      int
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{projects: make(map[string]*domain.Project)}
}

func cloneProject(p *domain.Project) *domain.Project {
	if p == nil {
		return nil
	}
	clone := *p
	clone.LanguageIDs = append([]string(nil), p.LanguageIDs...)
	return &clone
}

func (r *stubProjectRepo) Create(_ context.Context, project *domain.Project) (*domain.Project, error) {
	r.seq++
	clone := cloneProject(project)
	clone.ID = fmt.Sprintf("project_%d", r.seq)
	r.projects[clone.ID] = cloneProject(clone)
	return clone, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrEntityNotFound
	}
	return cloneProject(p), nil
}

func (r *stubProjectRepo) FindAllByIDs(_ context.Context, ids []string) ([]*domain.Project, error) {
	out := make([]*domain.Project, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.projects[id]; ok {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (r *stubProjectRepo) List(_ context.Context, ownerID string) ([]*domain.Project, error) {
	out := make([]*domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if ownerID == "" || p.OwnerID == ownerID {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (r *stubProjectRepo) Update(_ context.Context, project *domain.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return domain.ErrEntityNotFound
	}
	r.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return domain.ErrEntityNotFound
	}
	delete(r.projects, id)
	return nil
}

// stubLanguageRepo enforces the same version guard the Mongo implementation
// does: a write against a stale snapshot fails with ErrVersionConflict.
// failUpdates forces that many conflicts regardless of version, which lets
// tests drive the retry path.
type stubLanguageRepo struct {
	rows        map[string]*domain.Language
	seq         int
	failUpdates int
}

func newStubLanguageRepo() *stubLanguageRepo {
	return &stubLanguageRepo{rows: make(map[string]*domain.Language)}
}

func cloneLanguage(l *domain.Language) *domain.Language {
	if l == nil {
		return nil
	}
	clone := *l
	clone.Projects = append([]domain.ProjectRef(nil), l.Projects...)
	return &clone
}

func (r *stubLanguageRepo) Create(_ context.Context, language *domain.Language) (*domain.Language, error) {
	r.seq++
	clone := cloneLanguage(language)
	clone.ID = fmt.Sprintf("lang_%d", r.seq)
	clone.Version = 0
	r.rows[clone.ID] = cloneLanguage(clone)
	return clone, nil
}

func (r *stubLanguageRepo) FindByID(_ context.Context, id string) (*domain.Language, error) {
	l, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrEntityNotFound
	}
	return cloneLanguage(l), nil
}

func (r *stubLanguageRepo) FindByLabel(_ context.Context, label string) (*domain.Language, error) {
	for _, l := range r.rows {
		if l.Label == label {
			return cloneLanguage(l), nil
		}
	}
	return nil, domain.ErrEntityNotFound
}

func (r *stubLanguageRepo) List(_ context.Context) ([]*domain.Language, error) {
	out := make([]*domain.Language, 0, len(r.rows))
	for _, l := range r.rows {
		out = append(out, cloneLanguage(l))
	}
	return out, nil
}

func (r *stubLanguageRepo) FindOwnersReferencing(_ context.Context, languageID string) ([]string, error) {
	l, ok := r.rows[languageID]
	if !ok {
		return nil, domain.ErrEntityNotFound
	}
	return l.Owners(), nil
}

func (r *stubLanguageRepo) ExistsOwnerReference(_ context.Context, languageID, ownerID string) (bool, error) {
	l, ok := r.rows[languageID]
	if !ok {
		return false, nil
	}
	return l.ReferencedBy(ownerID), nil
}

func (r *stubLanguageRepo) Update(_ context.Context, language *domain.Language) error {
	if r.failUpdates > 0 {
		r.failUpdates--
		return domain.ErrVersionConflict
	}
	stored, ok := r.rows[language.ID]
	if !ok {
		return domain.ErrEntityNotFound
	}
	if stored.Version != language.Version {
		return domain.ErrVersionConflict
	}
	language.Version++
	r.rows[language.ID] = cloneLanguage(language)
	return nil
}

func (r *stubLanguageRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return domain.ErrEntityNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *stubLanguageRepo) DetachProject(_ context.Context, projectID string) error {
	for _, l := range r.rows {
		l.DetachProject(projectID)
	}
	return nil
}

// stubLocker records acquire/release pairs so tests can assert the lock is
// always returned.
type stubLocker struct {
	acquired []string
	released []string
}

func (l *stubLocker) Acquire(_ context.Context, label string) (string, error) {
	l.acquired = append(l.acquired, label)
	return "token", nil
}

func (l *stubLocker) Release(_ context.Context, label, _ string) error {
	l.released = append(l.released, label)
	return nil
}

// stubTx runs the function directly; atomicity is the production runner's
// concern.
type stubTx struct{}

func (stubTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
