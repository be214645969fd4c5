package domain

import "testing"

func sampleLanguage() *Language {
	return &Language{
		ID:    "lang_7",
		Label: "Go",
		Stack: StackBackend,
		Projects: []ProjectRef{
			{ProjectID: "p1", OwnerID: "u1"},
			{ProjectID: "p2", OwnerID: "u2"},
			{ProjectID: "p3", OwnerID: "u1"},
		},
	}
}

func TestLanguage_OwnersDistinct(t *testing.T) {
	owners := sampleLanguage().Owners()
	if len(owners) != 2 {
		t.Fatalf("expected 2 distinct owners, got %v", owners)
	}
}

func TestLanguage_AttachProjectNoDuplicates(t *testing.T) {
	l := sampleLanguage()
	l.AttachProject(ProjectRef{ProjectID: "p1", OwnerID: "u1"})
	if len(l.Projects) != 3 {
		t.Fatalf("duplicate reference attached: %v", l.Projects)
	}
}

func TestLanguage_DetachProject(t *testing.T) {
	l := sampleLanguage()
	l.DetachProject("p2")
	if l.HasProject("p2") {
		t.Fatalf("p2 still referenced after detach")
	}
	if !l.ReferencedBy("u1") || l.ReferencedBy("u2") {
		t.Fatalf("owner set wrong after detach: %v", l.Projects)
	}
}

func TestLanguage_SameValuesIgnoresIdentityAndRefs(t *testing.T) {
	l := sampleLanguage()
	if !l.SameValues("Go", StackBackend) {
		t.Fatalf("identical values reported different")
	}
	if l.SameValues("Golang", StackBackend) || l.SameValues("Go", StackFullstack) {
		t.Fatalf("changed values reported identical")
	}
}

func TestStack_IsValid(t *testing.T) {
	for _, s := range []Stack{StackFrontend, StackBackend, StackFullstack} {
		if !s.IsValid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if Stack("MIDDLE_END").IsValid() {
		t.Fatalf("unknown stack accepted")
	}
}
