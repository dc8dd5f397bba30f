package entity

import "time"

// Activity is the aggregate root for group activities. The activity owns the
// participant relation; a user never removes itself from the owning side.
type Activity struct {
	ID          int64
	Name        string
	Description string
	Duration    int // minutes
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
