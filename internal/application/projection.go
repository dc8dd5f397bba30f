package application

import (
	"time"

	"github.com/joinup-app/joinup-api/internal/domain/entity"
)

// Projections gate field visibility by operation context. The same record is
// filtered differently depending on who asks and why: "read" is the public
// listing shape, "show" is what a user sees of their own record, and the
// write shape is EditUserInput. No projection ever carries the password.

// UserReadView is the public projection of a user.
type UserReadView struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Username string `json:"username"`
	Birthday string `json:"birthday"`
}

// UserShowView extends the read projection with the role set and derived age.
type UserShowView struct {
	UserReadView
	Age   int      `json:"age"`
	Roles []string `json:"roles"`
}

// ActivityReadView is the only output shape for an activity. Participants are
// queried separately and never serialized with the activity itself.
type ActivityReadView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

const birthdayLayout = "2006-01-02"

func ProjectUserRead(u *entity.User) UserReadView {
	return UserReadView{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		LastName: u.LastName,
		Username: u.Username,
		Birthday: u.Birthday.Format(birthdayLayout),
	}
}

func ProjectUserShow(u *entity.User, now time.Time) UserShowView {
	return UserShowView{
		UserReadView: ProjectUserRead(u),
		Age:          u.Age(now),
		Roles:        u.RoleSet(),
	}
}

func ProjectUsersRead(users []entity.User) []UserReadView {
	out := make([]UserReadView, 0, len(users))
	for i := range users {
		out = append(out, ProjectUserRead(&users[i]))
	}
	return out
}

func ProjectActivity(a *entity.Activity) ActivityReadView {
	return ActivityReadView{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Duration:    a.Duration,
	}
}

func ProjectActivities(activities []entity.Activity) []ActivityReadView {
	out := make([]ActivityReadView, 0, len(activities))
	for i := range activities {
		out = append(out, ProjectActivity(&activities[i]))
	}
	return out
}
