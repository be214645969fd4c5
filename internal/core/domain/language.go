package domain

import "time"

// Stack tags a language with the part of the stack it belongs to.
type Stack string

const (
	StackFrontend  Stack = "FRONT_END"
	StackBackend   Stack = "BACK_END"
	StackFullstack Stack = "FULL_STACK"
)

// IsValid reports whether s is one of the known stack tags.
func (s Stack) IsValid() bool {
	switch s {
	case StackFrontend, StackBackend, StackFullstack:
		return true
	}
	return false
}

// ProjectRef records one project referencing a language, together with the
// project's owner. Carrying the owner in the reference keeps the owner set
// derivable from a single snapshot of the row, which the reconciler's
// optimistic concurrency check depends on.
type ProjectRef struct {
	ProjectID string `json:"project_id"`
	OwnerID   string `json:"owner_id"`
}

// Language is the shared catalog entity. The label is the cross-owner
// identity key: two rows with the same label are the same logical tag even
// after a fork splits them into distinct rows.
type Language struct {
	ID        string       `json:"id"`
	Label     string       `json:"label"`
	Stack     Stack        `json:"stack"`
	Projects  []ProjectRef `json:"projects"`
	Version   int64        `json:"-"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Owners returns the distinct owner ids of every referencing project.
func (l *Language) Owners() []string {
	seen := make(map[string]bool, len(l.Projects))
	owners := make([]string, 0, len(l.Projects))
	for _, ref := range l.Projects {
		if !seen[ref.OwnerID] {
			seen[ref.OwnerID] = true
			owners = append(owners, ref.OwnerID)
		}
	}
	return owners
}

// ReferencedBy reports whether the given owner has at least one project
// referencing this row.
func (l *Language) ReferencedBy(ownerID string) bool {
	for _, ref := range l.Projects {
		if ref.OwnerID == ownerID {
			return true
		}
	}
	return false
}

// HasProject reports whether the given project references this row.
func (l *Language) HasProject(projectID string) bool {
	for _, ref := range l.Projects {
		if ref.ProjectID == projectID {
			return true
		}
	}
	return false
}

// AttachProject adds a project reference, keeping the set duplicate-free.
func (l *Language) AttachProject(ref ProjectRef) {
	if !l.HasProject(ref.ProjectID) {
		l.Projects = append(l.Projects, ref)
	}
}

// DetachProject removes the reference of the given project if present.
func (l *Language) DetachProject(projectID string) {
	kept := l.Projects[:0]
	for _, ref := range l.Projects {
		if ref.ProjectID != projectID {
			kept = append(kept, ref)
		}
	}
	l.Projects = kept
}

// SameValues reports whether the submitted label and stack are
// field-for-field identical to the row (id and projects excluded). The
// reconciler uses this to avoid forking when an edit carries no semantic
// change.
func (l *Language) SameValues(label string, stack Stack) bool {
	return l.Label == label && l.Stack == stack
}
