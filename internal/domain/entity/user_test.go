package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleSetAddsImplicitUserRole(t *testing.T) {
	u := &User{Roles: []string{}}
	assert.Equal(t, []string{RoleUser}, u.RoleSet())

	u = &User{Roles: []string{RoleAdmin}}
	assert.Equal(t, []string{RoleAdmin, RoleUser}, u.RoleSet())
}

func TestRoleSetDeduplicates(t *testing.T) {
	u := &User{Roles: []string{RoleUser, RoleAdmin, RoleAdmin, RoleUser}}
	assert.Equal(t, []string{RoleUser, RoleAdmin}, u.RoleSet())
}

func TestIsAdmin(t *testing.T) {
	assert.False(t, (&User{Roles: []string{RoleUser}}).IsAdmin())
	assert.True(t, (&User{Roles: []string{RoleAdmin}}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}

func TestAgeAccountsForAnniversary(t *testing.T) {
	birthday := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	u := &User{Birthday: birthday}

	beforeAnniversary := time.Date(2020, time.June, 14, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 29, u.Age(beforeAnniversary))

	onAnniversary := time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, u.Age(onAnniversary))

	afterAnniversary := time.Date(2020, time.December, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, u.Age(afterAnniversary))
}
