package repository

import (
	"context"

	"github.com/joinup-app/joinup-api/internal/domain/entity"
)

// ActivityRepository defines the persistence operations for activity
// aggregates and their participant set.
type ActivityRepository interface {
	Create(ctx context.Context, a *entity.Activity) error
	GetByID(ctx context.Context, id int64) (*entity.Activity, error)
	List(ctx context.Context) ([]entity.Activity, error)

	// AddParticipant inserts the membership row if it is not present.
	// It returns false when the user was already a participant and
	// ErrNotFound when the activity does not exist.
	AddParticipant(ctx context.Context, activityID, userID int64) (bool, error)

	// Participants returns the users joined to an activity, in insertion order.
	Participants(ctx context.Context, activityID int64) ([]entity.User, error)

	// ActivitiesForUser is the "activities a user belongs to" index,
	// rebuilt from the owning side of the relation.
	ActivitiesForUser(ctx context.Context, userID int64) ([]entity.Activity, error)
}
