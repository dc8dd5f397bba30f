package application

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinup-app/joinup-api/internal/domain/entity"
)

func sampleUser() *entity.User {
	return &entity.User{
		ID:       3,
		Email:    "jane@example.com",
		Password: "$2a$10$secret-hash",
		Name:     "Jane",
		LastName: "Doelittle",
		Username: "janedoe",
		Birthday: time.Date(1994, time.March, 21, 0, 0, 0, 0, time.UTC),
		Roles:    []string{entity.RoleAdmin},
	}
}

func TestReadProjectionOmitsRolesAgeAndPassword(t *testing.T) {
	b, err := json.Marshal(ProjectUserRead(sampleUser()))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, "jane@example.com", m["email"])
	assert.Equal(t, "1994-03-21", m["birthday"])
	assert.NotContains(t, m, "password")
	assert.NotContains(t, m, "roles")
	assert.NotContains(t, m, "age")
}

func TestShowProjectionAddsAgeAndRoles(t *testing.T) {
	now := time.Date(2024, time.March, 22, 0, 0, 0, 0, time.UTC)
	view := ProjectUserShow(sampleUser(), now)

	assert.Equal(t, 30, view.Age)
	assert.Equal(t, []string{entity.RoleAdmin, entity.RoleUser}, view.Roles)

	b, err := json.Marshal(view)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "password")
	assert.Contains(t, m, "roles")
	assert.Contains(t, m, "age")
}

func TestActivityProjectionHasNoParticipants(t *testing.T) {
	a := &entity.Activity{ID: 5, Name: "Yoga", Description: "Morning yoga session", Duration: 60}
	b, err := json.Marshal(ProjectActivity(a))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "Yoga", m["name"])
	assert.NotContains(t, m, "participants")
}
