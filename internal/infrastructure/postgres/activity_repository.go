package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joinup-app/joinup-api/internal/domain/entity"
	"github.com/joinup-app/joinup-api/internal/domain/repository"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO activities (name, description, duration)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, a.Name, a.Description, a.Duration)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*entity.Activity, error) {
	a := &entity.Activity{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, duration, created_at, updated_at
		FROM activities
		WHERE id = $1
	`, id)
	if err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Duration, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *ActivityRepository) List(ctx context.Context) ([]entity.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, duration, created_at, updated_at
		FROM activities
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

// AddParticipant relies on the (activity_id, user_id) primary key: ON CONFLICT
// DO NOTHING makes two racing joins commit a single row, and RowsAffected
// distinguishes "joined" from "already joined".
func (r *ActivityRepository) AddParticipant(ctx context.Context, activityID, userID int64) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO activity_participants (activity_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (activity_id, user_id) DO NOTHING
	`, activityID, userID)
	if err != nil {
		return false, mapPgError(err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *ActivityRepository) Participants(ctx context.Context, activityID int64) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.email, u.password, u.name, u.last_name, u.username, u.birthday, u.roles, u.created_at, u.updated_at
		FROM users u
		JOIN activity_participants ap ON ap.user_id = u.id
		WHERE ap.activity_id = $1
		ORDER BY ap.joined_at
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *ActivityRepository) ActivitiesForUser(ctx context.Context, userID int64) ([]entity.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.name, a.description, a.duration, a.created_at, a.updated_at
		FROM activities a
		JOIN activity_participants ap ON ap.activity_id = a.id
		WHERE ap.user_id = $1
		ORDER BY ap.joined_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

func scanActivities(rows pgx.Rows) ([]entity.Activity, error) {
	var activities []entity.Activity
	for rows.Next() {
		var a entity.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Duration, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

var _ repository.ActivityRepository = (*ActivityRepository)(nil)
