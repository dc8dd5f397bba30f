package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/joinup-app/joinup-api/internal/domain/entity"
	repo "github.com/joinup-app/joinup-api/internal/domain/repository"
)

// JoinOutcome is the result of a join request. Both values are successes;
// joining an activity you already belong to is a no-op, not an error.
type JoinOutcome int

const (
	Joined JoinOutcome = iota
	AlreadyJoined
)

// ActivityService owns activity creation, listing, bulk import, search and
// the membership relation.
type ActivityService struct {
	Repo    repo.ActivityRepository
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewActivityService(r repo.ActivityRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ActivityService {
	return &ActivityService{Repo: r, Logger: logger, ES: es, ESIndex: esIndex}
}

// Create validates and persists a new activity with an empty participant set.
// All violated rules are collected; a duplicate name is a conflict enforced by
// the unique index at commit.
func (s *ActivityService) Create(ctx context.Context, in ActivityInput) (*entity.Activity, error) {
	if msgs := in.Validate(); len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}

	a := &entity.Activity{
		Name:        in.Name,
		Description: in.Description,
		Duration:    in.Duration,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrActivityExists
		}
		return nil, err
	}

	s.indexActivity(ctx, a)
	return a, nil
}

func (s *ActivityService) List(ctx context.Context) ([]entity.Activity, error) {
	return s.Repo.List(ctx)
}

// BulkCreate applies Create's validation per candidate. Invalid candidates are
// skipped and their messages accumulated; valid ones persist immediately.
// Partial success is real: the created count and the failure messages are both
// reported, nothing is rolled back.
func (s *ActivityService) BulkCreate(ctx context.Context, ins []ActivityInput) (int, []string, error) {
	created := 0
	var failures []string
	for _, in := range ins {
		if _, err := s.Create(ctx, in); err != nil {
			if ve, ok := AsValidation(err); ok {
				failures = append(failures, ve.Messages...)
				continue
			}
			if errors.Is(err, ErrActivityExists) {
				failures = append(failures, ErrActivityExists.Error())
				continue
			}
			return created, failures, err
		}
		created++
	}
	return created, failures, nil
}

// Join adds a user to an activity's participant set. Missing activity is the
// only failure; repeating the call is safe and reports AlreadyJoined.
func (s *ActivityService) Join(ctx context.Context, activityID, userID int64) (JoinOutcome, error) {
	added, err := s.Repo.AddParticipant(ctx, activityID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrActivityNotFound
		}
		return 0, err
	}
	if !added {
		return AlreadyJoined, nil
	}
	return Joined, nil
}

// Participants lists the users joined to an activity, separate from the
// activity's own representation.
func (s *ActivityService) Participants(ctx context.Context, activityID int64) ([]entity.User, error) {
	if _, err := s.Repo.GetByID(ctx, activityID); err != nil {
		return nil, ErrActivityNotFound
	}
	return s.Repo.Participants(ctx, activityID)
}

// ActivitiesForUser returns the activities the user has joined.
func (s *ActivityService) ActivitiesForUser(ctx context.Context, userID int64) ([]entity.Activity, error) {
	return s.Repo.ActivitiesForUser(ctx, userID)
}

// indexActivity pushes the read projection into Elasticsearch. Indexing is
// best effort; a failure is logged and the write path continues.
func (s *ActivityService) indexActivity(ctx context.Context, a *entity.Activity) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          a.ID,
		"name":        a.Name,
		"description": a.Description,
		"duration":    a.Duration,
		"created_at":  a.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: strconv.FormatInt(a.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("activity_id", a.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("activity_id", a.ID).Warn("es index response error")
	}
}

// Search performs a multi_match over activity name and description.
func (s *ActivityService) Search(ctx context.Context, q string, size int) ([]ActivityReadView, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []ActivityReadView{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source ActivityReadView `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]ActivityReadView, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
