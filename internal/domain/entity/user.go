package entity

import (
	"slices"
	"time"
)

// RoleUser is carried implicitly by every account; RoleAdmin must be granted.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is the aggregate root for the identity domain.
// Password holds a bcrypt hash, never the raw credential.
type User struct {
	ID        int64
	Email     string
	Password  string
	Name      string
	LastName  string
	Username  string
	Birthday  time.Time
	Roles     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleSet returns the stored roles plus the implicit ROLE_USER, without duplicates.
func (u *User) RoleSet() []string {
	roles := make([]string, 0, len(u.Roles)+1)
	for _, r := range u.Roles {
		if !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	if !slices.Contains(roles, RoleUser) {
		roles = append(roles, RoleUser)
	}
	return roles
}

// IsAdmin reports whether the user carries the privileged role.
func (u *User) IsAdmin() bool {
	return slices.Contains(u.Roles, RoleAdmin)
}

// Age derives the user's age in whole years at the given instant.
// The birthday itself is stored; the age never is.
func (u *User) Age(now time.Time) int {
	years := now.Year() - u.Birthday.Year()
	anniversary := u.Birthday.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
