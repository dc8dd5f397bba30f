package repository

import (
	"context"
	"errors"

	"github.com/joinup-app/joinup-api/internal/domain/entity"
)

// Shared persistence outcomes. ErrConflict maps a uniqueness violation raised
// at commit time, so a pre-checked Create can still lose a race safely.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// UserRepository defines the persistence operations for user aggregates.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]entity.User, error)
}
