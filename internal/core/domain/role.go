package domain

import (
	"errors"
	"sort"
	"strings"
)

// RoleName identifies one of the canonical roles.
type RoleName string

const (
	RoleSuperadmin RoleName = "SUPERADMIN"
	RoleAdmin      RoleName = "ADMIN"
	RoleUnknown    RoleName = "UNKNOWN"
)

// Role is immutable reference data: created once at startup, never mutated
// by request handling.
type Role struct {
	ID          string   `json:"id"`
	Name        RoleName `json:"name"`
	Severity    int      `json:"severity"`
	Description string   `json:"description"`
}

var ErrRoleCatalogCorrupt = errors.New("role catalog missing a canonical role")
var ErrRoleAlreadyAssigned = errors.New("role already assigned")

// severities totally orders the roles; a higher severity implies every
// lower role.
var severities = map[RoleName]int{
	RoleUnknown:    1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// implies lists the roles each role directly implies (downward edges only;
// escalation never happens implicitly).
var implies = map[RoleName][]RoleName{
	RoleSuperadmin: {RoleAdmin},
	RoleAdmin:      {RoleUnknown},
	RoleUnknown:    nil,
}

// aliases maps free-form requested names (lower-cased) to canonical roles.
var aliases = map[string]RoleName{
	"superadmin":      RoleSuperadmin,
	"super_admin":     RoleSuperadmin,
	"role_superadmin": RoleSuperadmin,
	"admin":           RoleAdmin,
	"role_admin":      RoleAdmin,
	"unknown":         RoleUnknown,
	"role_unknown":    RoleUnknown,
}

// Severity returns the ordering weight of a canonical role name.
func (n RoleName) Severity() int { return severities[n] }

// CanonicalRoleNames lists every canonical role, highest severity first.
func CanonicalRoleNames() []RoleName {
	return []RoleName{RoleSuperadmin, RoleAdmin, RoleUnknown}
}

// CanonicalNames resolves a set of free-form role names into the full
// implied-role closure, ordered by severity (highest first).
//
// The closure walks the implication graph downward from every recognised
// name: lower tiers are always included (ADMIN pulls in UNKNOWN, UNKNOWN is
// present unconditionally), while a higher role enters the result only when
// one of its aliases appears in the input. Unrecognised or empty input still
// yields at least UNKNOWN.
func CanonicalNames(requested []string) []RoleName {
	recognised := map[RoleName]bool{RoleUnknown: true}
	for _, name := range requested {
		if canonical, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			recognised[canonical] = true
		}
	}

	closure := map[RoleName]bool{}
	var visit func(RoleName)
	visit = func(r RoleName) {
		if closure[r] {
			return
		}
		closure[r] = true
		for _, implied := range implies[r] {
			visit(implied)
		}
	}
	for r := range recognised {
		visit(r)
	}

	out := make([]RoleName, 0, len(closure))
	for r := range closure {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Severity() > out[j].Severity() })
	return out
}
