package domain

import "time"

// User models an account in the portfolio backend. Username doubles as the
// e-mail address and is mutable, which is why stale tokens must be checked
// against the stored value on every request.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports exact role membership. The closure is materialised into
// Roles at assignment time, so no hierarchy walk happens here.
func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
