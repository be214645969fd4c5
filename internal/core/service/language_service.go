package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/metrics"
	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// maxReconcileAttempts bounds the fresh-snapshot retries after an
// optimistic-concurrency conflict.
const maxReconcileAttempts = 3

// LanguageService reconciles edits to the shared language catalog. A
// language row referenced by projects of several owners must never be
// mutated in a way another owner observes: such edits fork into a new row
// instead.
//
// Every mutating pass runs under a per-label lock, takes a fresh snapshot,
// and persists through version-guarded writes; a stale snapshot triggers a
// retry, and all writes of one pass form a single atomic unit.
type LanguageService struct {
	languages ports.LanguageRepository
	projects  ports.ProjectRepository
	perms     ports.PermissionEvaluator
	locks     ports.LabelLocker
	tx        ports.TxRunner
	log       zerolog.Logger
}

func NewLanguageService(
	languages ports.LanguageRepository,
	projects ports.ProjectRepository,
	perms ports.PermissionEvaluator,
	locks ports.LabelLocker,
	tx ports.TxRunner,
	log zerolog.Logger,
) *LanguageService {
	return &LanguageService{
		languages: languages,
		projects:  projects,
		perms:     perms,
		locks:     locks,
		tx:        tx,
		log:       log,
	}
}

func (s *LanguageService) List(ctx context.Context, filter ports.ListLanguagesFilter) ([]*domain.Language, error) {
	languages, err := s.languages.List(ctx)
	if err != nil {
		return nil, err
	}
	if filter.OwnerID == "" && filter.ProjectID == "" {
		return languages, nil
	}

	filtered := make([]*domain.Language, 0, len(languages))
	for _, lang := range languages {
		switch {
		case filter.OwnerID != "" && lang.ReferencedBy(filter.OwnerID):
			filtered = append(filtered, lang)
		case filter.ProjectID != "" && lang.HasProject(filter.ProjectID):
			filtered = append(filtered, lang)
		}
	}
	return filtered, nil
}

func (s *LanguageService) Get(ctx context.Context, id string) (*domain.Language, error) {
	return s.languages.FindByID(ctx, id)
}

func (s *LanguageService) Create(ctx context.Context, caller *domain.Caller, input ports.LanguageApplyInput) (*domain.Language, error) {
	return s.apply(ctx, caller, input, false)
}

func (s *LanguageService) Update(ctx context.Context, caller *domain.Caller, id string, input ports.LanguageApplyInput) (*domain.Language, error) {
	input.ID = id
	return s.apply(ctx, caller, input, true)
}

// apply serialises the reconciliation per logical label and retries with a
// fresh snapshot when a concurrent edit invalidated the previous one.
func (s *LanguageService) apply(ctx context.Context, caller *domain.Caller, input ports.LanguageApplyInput, isUpdate bool) (*domain.Language, error) {
	if caller == nil {
		return nil, s.deny(caller, "edit_language")
	}

	// A rename must serialise with concurrent edits under the row's
	// current label too, not only the submitted one; the version guard
	// still backstops a rename that lands between this read and the lock.
	keys := []string{strings.ToLower(input.Label)}
	if input.ID != "" {
		if current, err := s.languages.FindByID(ctx, input.ID); err == nil {
			if k := strings.ToLower(current.Label); k != keys[0] {
				keys = append(keys, k)
			}
		}
	}

	tokens, err := s.acquireLabelLocks(ctx, keys)
	if err != nil {
		return nil, err
	}
	defer s.releaseLabelLocks(ctx, keys, tokens)

	start := time.Now()
	for attempt := 1; attempt <= maxReconcileAttempts; attempt++ {
		lang, outcome, err := s.applyOnce(ctx, caller, input, isUpdate)
		if errors.Is(err, domain.ErrVersionConflict) {
			metrics.ReconciliationConflictsTotal.Inc()
			s.log.Debug().Str("label", input.Label).Int("attempt", attempt).Msg("reconciliation snapshot invalidated, retrying")
			continue
		}
		if err != nil {
			metrics.ReconciliationDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
			return nil, err
		}
		metrics.ReconciliationsTotal.WithLabelValues(outcome).Inc()
		metrics.ReconciliationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		s.log.Info().Str("label", lang.Label).Str("language_id", lang.ID).Str("outcome", outcome).Msg("language reconciled")
		return lang, nil
	}

	metrics.ReconciliationDuration.WithLabelValues("conflict").Observe(time.Since(start).Seconds())
	return nil, domain.ErrReconciliationConflict
}

// acquireLabelLocks takes the label locks in sorted order so two passes
// wanting the same pair can never deadlock. On failure every lock already
// held is released.
func (s *LanguageService) acquireLabelLocks(ctx context.Context, keys []string) ([]string, error) {
	sort.Strings(keys)
	tokens := make([]string, len(keys))
	for i, key := range keys {
		token, err := s.locks.Acquire(ctx, key)
		if err != nil {
			s.releaseLabelLocks(ctx, keys[:i], tokens[:i])
			return nil, err
		}
		tokens[i] = token
	}
	return tokens, nil
}

func (s *LanguageService) releaseLabelLocks(ctx context.Context, keys, tokens []string) {
	for i := range keys {
		if rerr := s.locks.Release(ctx, keys[i], tokens[i]); rerr != nil {
			s.log.Warn().Err(rerr).Str("label", keys[i]).Msg("failed to release label lock")
		}
	}
}

// applyOnce runs one reconciliation pass over a fresh snapshot.
func (s *LanguageService) applyOnce(ctx context.Context, caller *domain.Caller, input ports.LanguageApplyInput, isUpdate bool) (*domain.Language, string, error) {
	// 1. Resolve the existing record by id if supplied, else by label: the
	// label is the cross-owner identity key of the catalog.
	var existing *domain.Language
	var err error
	if input.ID != "" {
		existing, err = s.languages.FindByID(ctx, input.ID)
		if err != nil && !errors.Is(err, domain.ErrEntityNotFound) {
			return nil, "", err
		}
	}
	if existing == nil {
		existing, err = s.languages.FindByLabel(ctx, input.Label)
		if err != nil && !errors.Is(err, domain.ErrEntityNotFound) {
			return nil, "", err
		}
	}
	if isUpdate && existing == nil {
		return nil, "", domain.ErrEntityNotFound
	}

	// 2. Restrict the requested projects to those the caller actually owns.
	// Emptying the set on an update is a denial, not a silent no-op.
	requested, err := s.projects.FindAllByIDs(ctx, input.ProjectIDs)
	if err != nil {
		return nil, "", err
	}
	owned := make([]*domain.Project, 0, len(requested))
	for _, p := range requested {
		if s.perms.OwnsProject(caller, p) {
			owned = append(owned, p)
		}
	}
	if isUpdate && len(owned) == 0 {
		return nil, "", s.deny(caller, "edit_language")
	}

	// 3. Classify by the owner set of the current reference snapshot. A
	// referenced row is never handled by the role-gated branch below: its
	// references decide. In-place mutation is reserved for the row's sole
	// owner; every other caller goes through fork-or-reuse so no other
	// owner ever observes the edit.
	if existing != nil && len(existing.Projects) > 0 {
		owners := existing.Owners()
		if len(owners) == 1 && owners[0] == caller.ID {
			return s.mutateInPlace(ctx, existing, input, owned)
		}
		return s.forkOrReuse(ctx, caller, existing, input, owned)
	}

	// 4. No references yet: ownership cannot be derived from an empty
	// reference set, so the decision is role-based.
	if !s.perms.CanEditUnreferencedLanguage(caller, isUpdate) {
		return nil, "", s.deny(caller, "edit_language")
	}
	if existing != nil {
		existing.Label = input.Label
		existing.Stack = input.Stack
		return s.attachAndSave(ctx, existing, owned, "in_place")
	}

	lang := &domain.Language{Label: input.Label, Stack: input.Stack}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, p := range owned {
			lang.AttachProject(domain.ProjectRef{ProjectID: p.ID, OwnerID: p.OwnerID})
		}
		created, err := s.languages.Create(ctx, lang)
		if err != nil {
			return err
		}
		lang = created
		for _, p := range owned {
			p.AttachLanguage(lang.ID)
			if err := s.projects.Update(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return lang, "created", nil
}

// mutateInPlace handles the row whose only owner is the caller: nobody
// else observes it, so the edit applies directly and the row identity is
// preserved.
func (s *LanguageService) mutateInPlace(ctx context.Context, existing *domain.Language, input ports.LanguageApplyInput, owned []*domain.Project) (*domain.Language, string, error) {
	if existing.Label != input.Label {
		existing.Label = input.Label
	}
	if existing.Stack != input.Stack {
		existing.Stack = input.Stack
	}
	return s.attachAndSave(ctx, existing, owned, "in_place")
}

// forkOrReuse handles every referenced row the caller does not solely own:
// the shared row is never mutated. An edit with no semantic change just
// attaches the requested projects; a real change forks into a fresh row
// and moves the caller's owned projects over, leaving other owners'
// references untouched.
func (s *LanguageService) forkOrReuse(ctx context.Context, caller *domain.Caller, existing *domain.Language, input ports.LanguageApplyInput, owned []*domain.Project) (*domain.Language, string, error) {
	if existing.SameValues(input.Label, input.Stack) {
		return s.attachAndSave(ctx, existing, owned, "noop")
	}

	fork := &domain.Language{Label: input.Label, Stack: input.Stack}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, p := range owned {
			fork.AttachProject(domain.ProjectRef{ProjectID: p.ID, OwnerID: p.OwnerID})
		}
		created, err := s.languages.Create(ctx, fork)
		if err != nil {
			return err
		}
		fork = created

		for _, p := range owned {
			p.DetachLanguage(existing.ID)
			p.AttachLanguage(fork.ID)
			if err := s.projects.Update(ctx, p); err != nil {
				return err
			}
			existing.DetachProject(p.ID)
		}
		if len(owned) == 0 {
			// nothing moved off the shared row, leave it untouched
			return nil
		}
		return s.languages.Update(ctx, existing)
	})
	if err != nil {
		return nil, "", err
	}
	s.log.Info().
		Str("label", fork.Label).
		Str("forked_from", existing.ID).
		Str("caller_id", caller.ID).
		Msg("shared language forked")
	return fork, "forked", nil
}

// attachAndSave links the owned projects to the row and persists both sides
// as one unit.
func (s *LanguageService) attachAndSave(ctx context.Context, lang *domain.Language, owned []*domain.Project, outcome string) (*domain.Language, string, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, p := range owned {
			lang.AttachProject(domain.ProjectRef{ProjectID: p.ID, OwnerID: p.OwnerID})
			p.AttachLanguage(lang.ID)
			if err := s.projects.Update(ctx, p); err != nil {
				return err
			}
		}
		return s.languages.Update(ctx, lang)
	})
	if err != nil {
		return nil, "", err
	}
	return lang, outcome, nil
}

// Delete removes one project's association, or the whole row when
// projectID is empty. Removing the last association deletes the row.
func (s *LanguageService) Delete(ctx context.Context, caller *domain.Caller, languageID, projectID string) (ports.LanguageDeleteResult, error) {
	var result ports.LanguageDeleteResult
	if caller == nil {
		return result, s.deny(caller, "delete_language")
	}

	lang, err := s.languages.FindByID(ctx, languageID)
	if err != nil {
		return result, err
	}

	keys := []string{strings.ToLower(lang.Label)}
	tokens, err := s.acquireLabelLocks(ctx, keys)
	if err != nil {
		return result, err
	}
	defer s.releaseLabelLocks(ctx, keys, tokens)

	for attempt := 1; attempt <= maxReconcileAttempts; attempt++ {
		result, outcome, err := s.deleteOnce(ctx, caller, languageID, projectID)
		if errors.Is(err, domain.ErrVersionConflict) {
			metrics.ReconciliationConflictsTotal.Inc()
			continue
		}
		if err != nil {
			return result, err
		}
		metrics.ReconciliationsTotal.WithLabelValues(outcome).Inc()
		return result, nil
	}
	return result, domain.ErrReconciliationConflict
}

func (s *LanguageService) deleteOnce(ctx context.Context, caller *domain.Caller, languageID, projectID string) (ports.LanguageDeleteResult, string, error) {
	var result ports.LanguageDeleteResult

	lang, err := s.languages.FindByID(ctx, languageID)
	if err != nil {
		return result, "", err
	}

	// Unreferenced rows have no ownership to derive; role decides.
	if len(lang.Projects) == 0 {
		if !s.perms.CanEditUnreferencedLanguage(caller, true) {
			return result, "", s.deny(caller, "delete_language")
		}
		if err := s.languages.Delete(ctx, lang.ID); err != nil {
			return result, "", err
		}
		result.Deleted = true
		return result, "deleted", nil
	}

	// Whole-row removal while other owners still reference it is reserved
	// to SUPERADMIN.
	if projectID == "" {
		for _, ref := range lang.Projects {
			if ref.OwnerID != caller.ID && !s.perms.HasRole(caller, domain.RoleSuperadmin) {
				return result, "", s.deny(caller, "delete_language")
			}
		}
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			for _, ref := range lang.Projects {
				p, err := s.projects.FindByID(ctx, ref.ProjectID)
				if err != nil {
					if errors.Is(err, domain.ErrEntityNotFound) {
						continue
					}
					return err
				}
				p.DetachLanguage(lang.ID)
				if err := s.projects.Update(ctx, p); err != nil {
					return err
				}
			}
			return s.languages.Delete(ctx, lang.ID)
		})
		if err != nil {
			return result, "", err
		}
		result.Deleted = true
		return result, "deleted", nil
	}

	if !lang.HasProject(projectID) {
		return result, "", domain.ErrEntityNotFound
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return result, "", err
	}
	if !s.perms.OwnsProject(caller, project) {
		return result, "", s.deny(caller, "delete_language")
	}

	lang.DetachProject(projectID)
	project.DetachLanguage(lang.ID)

	if len(lang.Projects) == 0 {
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.projects.Update(ctx, project); err != nil {
				return err
			}
			return s.languages.Delete(ctx, lang.ID)
		})
		if err != nil {
			return result, "", err
		}
		result.Deleted = true
		result.Updated = true
		return result, "deleted", nil
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.projects.Update(ctx, project); err != nil {
			return err
		}
		return s.languages.Update(ctx, lang)
	})
	if err != nil {
		return result, "", err
	}
	result.Updated = true
	return result, "detached", nil
}

func (s *LanguageService) deny(caller *domain.Caller, action string) error {
	id := ""
	if caller != nil {
		id = caller.ID
	}
	s.log.Info().Str("caller_id", id).Str("action", action).Msg("permission denied")
	metrics.PermissionDeniedTotal.WithLabelValues(action).Inc()
	return domain.ErrPermissionDenied
}
