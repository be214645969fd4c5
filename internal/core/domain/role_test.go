package domain

import (
	"reflect"
	"testing"
)

func TestCanonicalNames_EmptyInput(t *testing.T) {
	got := CanonicalNames(nil)
	want := []RoleName{RoleUnknown}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCanonicalNames_UnrecognisedInput(t *testing.T) {
	got := CanonicalNames([]string{"wizard", ""})
	want := []RoleName{RoleUnknown}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCanonicalNames_AdminImpliesLowerTiers(t *testing.T) {
	got := CanonicalNames([]string{"admin"})
	want := []RoleName{RoleAdmin, RoleUnknown}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCanonicalNames_AdminNeverEscalates(t *testing.T) {
	for _, name := range CanonicalNames([]string{"admin", "role_admin"}) {
		if name == RoleSuperadmin {
			t.Fatalf("ADMIN input must not imply SUPERADMIN")
		}
	}
}

func TestCanonicalNames_SuperadminClosure(t *testing.T) {
	got := CanonicalNames([]string{"SUPER_ADMIN"})
	want := []RoleName{RoleSuperadmin, RoleAdmin, RoleUnknown}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCanonicalNames_AliasesCaseInsensitive(t *testing.T) {
	variants := [][]string{
		{"superadmin"},
		{"Superadmin"},
		{"ROLE_SUPERADMIN"},
		{" super_admin "},
	}
	want := CanonicalNames([]string{"superadmin"})
	for _, v := range variants {
		if got := CanonicalNames(v); !reflect.DeepEqual(got, want) {
			t.Fatalf("variant %v: expected %v, got %v", v, want, got)
		}
	}
}

func TestCanonicalNames_Idempotent(t *testing.T) {
	first := CanonicalNames([]string{"superadmin", "admin"})

	asStrings := make([]string, len(first))
	for i, r := range first {
		asStrings[i] = string(r)
	}
	second := CanonicalNames(asStrings)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("closure not idempotent: %v vs %v", first, second)
	}
}

func TestCanonicalNames_DuplicatesCollapse(t *testing.T) {
	got := CanonicalNames([]string{"admin", "ADMIN", "role_admin"})
	want := []RoleName{RoleAdmin, RoleUnknown}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
