package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinup-app/joinup-api/internal/domain/entity"
	repo "github.com/joinup-app/joinup-api/internal/domain/repository"
)

type fakeActivityRepo struct {
	activities   map[int64]*entity.Activity
	participants map[int64][]int64
	users        map[int64]*entity.User
	nextID       int64
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{
		activities:   map[int64]*entity.Activity{},
		participants: map[int64][]int64{},
		users:        map[int64]*entity.User{},
	}
}

func (f *fakeActivityRepo) Create(_ context.Context, a *entity.Activity) error {
	for _, existing := range f.activities {
		if existing.Name == a.Name {
			return repo.ErrConflict
		}
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	f.activities[a.ID] = &cp
	return nil
}

func (f *fakeActivityRepo) GetByID(_ context.Context, id int64) (*entity.Activity, error) {
	a, ok := f.activities[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeActivityRepo) List(_ context.Context) ([]entity.Activity, error) {
	out := make([]entity.Activity, 0, len(f.activities))
	for _, a := range f.activities {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeActivityRepo) AddParticipant(_ context.Context, activityID, userID int64) (bool, error) {
	if _, ok := f.activities[activityID]; !ok {
		return false, repo.ErrNotFound
	}
	for _, id := range f.participants[activityID] {
		if id == userID {
			return false, nil
		}
	}
	f.participants[activityID] = append(f.participants[activityID], userID)
	return true, nil
}

func (f *fakeActivityRepo) Participants(_ context.Context, activityID int64) ([]entity.User, error) {
	out := make([]entity.User, 0, len(f.participants[activityID]))
	for _, id := range f.participants[activityID] {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		} else {
			out = append(out, entity.User{ID: id})
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) ActivitiesForUser(_ context.Context, userID int64) ([]entity.Activity, error) {
	var out []entity.Activity
	for activityID, members := range f.participants {
		for _, id := range members {
			if id == userID {
				out = append(out, *f.activities[activityID])
			}
		}
	}
	return out, nil
}

var _ repo.ActivityRepository = (*fakeActivityRepo)(nil)

func validActivityInput() ActivityInput {
	return ActivityInput{
		Name:        "Yoga",
		Description: "Morning yoga session in the park",
		Duration:    60,
	}
}

func TestCreateActivity(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), nil, nil, "")

	a, err := svc.Create(context.Background(), validActivityInput())
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.Equal(t, "Yoga", a.Name)
}

func TestCreateActivityDuplicateName(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), nil, nil, "")

	_, err := svc.Create(context.Background(), validActivityInput())
	require.NoError(t, err)

	in := validActivityInput()
	in.Description = "A different description entirely"
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrActivityExists)
}

func TestCreateActivityCollectsAllViolations(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), nil, nil, "")

	_, err := svc.Create(context.Background(), ActivityInput{
		Name:        "Yo",
		Description: "too short",
		Duration:    200,
	})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Messages, "Activity name must be at least 3 characters long")
	assert.Contains(t, ve.Messages, "Activity description must be at least 10 characters long")
	assert.Contains(t, ve.Messages, "Activity duration must be between 30 and 120 minutes")
}

func TestBulkCreatePartialSuccess(t *testing.T) {
	r := newFakeActivityRepo()
	svc := NewActivityService(r, nil, nil, "")

	ins := []ActivityInput{
		{Name: "Yoga", Description: "Morning yoga session in the park", Duration: 60},
		{Name: "Bouldering", Description: "Indoor climbing for beginners", Duration: 90},
		{Name: "Marathon", Description: "Full city marathon training", Duration: 200},
	}
	created, failures, err := svc.BulkCreate(context.Background(), ins)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	require.Len(t, failures, 1)
	assert.Equal(t, "Activity duration must be between 30 and 120 minutes", failures[0])

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBulkCreateReportsDuplicates(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), nil, nil, "")

	_, err := svc.Create(context.Background(), validActivityInput())
	require.NoError(t, err)

	created, failures, err := svc.BulkCreate(context.Background(), []ActivityInput{validActivityInput()})
	require.NoError(t, err)
	assert.Zero(t, created)
	require.Len(t, failures, 1)
	assert.Equal(t, "This activity already exists", failures[0])
}

func TestJoinIsIdempotent(t *testing.T) {
	r := newFakeActivityRepo()
	svc := NewActivityService(r, nil, nil, "")

	a, err := svc.Create(context.Background(), validActivityInput())
	require.NoError(t, err)

	outcome, err := svc.Join(context.Background(), a.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, Joined, outcome)

	outcome, err = svc.Join(context.Background(), a.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, AlreadyJoined, outcome)

	members, err := svc.Participants(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestJoinUnknownActivity(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), nil, nil, "")
	_, err := svc.Join(context.Background(), 404, 7)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestParticipantsUnknownActivity(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), nil, nil, "")
	_, err := svc.Participants(context.Background(), 404)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestActivitiesForUser(t *testing.T) {
	r := newFakeActivityRepo()
	svc := NewActivityService(r, nil, nil, "")

	yoga, err := svc.Create(context.Background(), validActivityInput())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), ActivityInput{
		Name: "Bouldering", Description: "Indoor climbing for beginners", Duration: 90,
	})
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), yoga.ID, 7)
	require.NoError(t, err)

	joined, err := svc.ActivitiesForUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, "Yoga", joined[0].Name)
}
