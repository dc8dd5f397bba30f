package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinup-app/joinup-api/internal/application"
	"github.com/joinup-app/joinup-api/internal/domain/entity"
	repo "github.com/joinup-app/joinup-api/internal/domain/repository"
	"github.com/joinup-app/joinup-api/internal/interface/middleware"
	"github.com/joinup-app/joinup-api/pkg/helpers"
	"github.com/joinup-app/joinup-api/pkg/validation"
)

type memUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, e := range m.users {
		if e.Email == u.Email {
			return repo.ErrConflict
		}
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) List(_ context.Context) ([]entity.User, error) {
	out := make([]entity.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

type memActivityRepo struct {
	activities map[int64]*entity.Activity
	members    map[int64][]int64
	nextID     int64
}

func (m *memActivityRepo) Create(_ context.Context, a *entity.Activity) error {
	for _, e := range m.activities {
		if e.Name == a.Name {
			return repo.ErrConflict
		}
	}
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.activities[a.ID] = &cp
	return nil
}

func (m *memActivityRepo) GetByID(_ context.Context, id int64) (*entity.Activity, error) {
	a, ok := m.activities[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memActivityRepo) List(_ context.Context) ([]entity.Activity, error) {
	out := make([]entity.Activity, 0, len(m.activities))
	for _, a := range m.activities {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memActivityRepo) AddParticipant(_ context.Context, activityID, userID int64) (bool, error) {
	if _, ok := m.activities[activityID]; !ok {
		return false, repo.ErrNotFound
	}
	for _, id := range m.members[activityID] {
		if id == userID {
			return false, nil
		}
	}
	m.members[activityID] = append(m.members[activityID], userID)
	return true, nil
}

func (m *memActivityRepo) Participants(_ context.Context, activityID int64) ([]entity.User, error) {
	out := make([]entity.User, 0, len(m.members[activityID]))
	for _, id := range m.members[activityID] {
		out = append(out, entity.User{ID: id})
	}
	return out, nil
}

func (m *memActivityRepo) ActivitiesForUser(_ context.Context, userID int64) ([]entity.Activity, error) {
	var out []entity.Activity
	for activityID, members := range m.members {
		for _, id := range members {
			if id == userID {
				out = append(out, *m.activities[activityID])
			}
		}
	}
	return out, nil
}

type testEnv struct {
	engine   *gin.Engine
	userSvc  *application.UserService
	actSvc   *application.ActivityService
	userRepo *memUserRepo
}

// asUser stands in for the auth middleware and pins the caller identity.
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, id)
		c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))

	userRepo := &memUserRepo{users: map[int64]*entity.User{}}
	actRepo := &memActivityRepo{activities: map[int64]*entity.Activity{}, members: map[int64][]int64{}}

	jwt := helpers.NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)
	userSvc := application.NewUserService(userRepo, jwt, nil, logger, nil, "joinup-test")
	actSvc := application.NewActivityService(actRepo, logger, nil, "")

	auth := NewAuthHandler(userSvc, logger, "localhost", false)
	users := NewUserHandler(userSvc, actSvc, logger)
	activities := NewActivityHandler(actSvc, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/register", auth.Register)
	api.POST("/login", auth.Login)
	api.GET("/user/show", asUser(1), users.Show)
	api.PATCH("/user/edit", asUser(1), users.Edit)
	api.GET("/user/activities", asUser(1), users.Joined)
	api.POST("/activity/create", activities.Create)
	api.GET("/activity/list", activities.List)
	api.POST("/activity/join/:id", asUser(1), activities.Join)
	api.POST("/activity/import", activities.Import)
	api.GET("/activity/participants/:id", activities.Participants)

	return &testEnv{engine: r, userSvc: userSvc, actSvc: actSvc, userRepo: userRepo}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func registerBody() map[string]any {
	return map[string]any{
		"email":     "jane@example.com",
		"password":  "hunter22",
		"name":      "Jane",
		"last_name": "Doelittle",
		"username":  "janedoe",
		"birthday":  "1994-03-21",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/api/register", registerBody())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User created", body["message"])
	assert.Equal(t, true, body["success"])
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/register", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := env.do(t, http.MethodPost, "/api/register", registerBody())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists", body["message"])
}

func TestRegisterEndpointValidationMessages(t *testing.T) {
	env := newTestEnv(t)

	payload := registerBody()
	payload["password"] = "short"
	payload["username"] = "jd"
	w, body := env.do(t, http.MethodPost, "/api/register", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	msgs, ok := errObj["errors"].([]any)
	require.True(t, ok)
	assert.Contains(t, msgs, "Password must be at least 6 characters long")
	assert.Contains(t, msgs, "Username must be at least 5 characters long")
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.do(t, http.MethodPost, "/api/register", registerBody())

	w, body := env.do(t, http.MethodPost, "/api/login", map[string]any{
		"email": "jane@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "jane@example.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "roles")

	cookies := w.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "access_token")
	assert.Contains(t, names, "refresh_token")
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.do(t, http.MethodPost, "/api/register", registerBody())

	w, body := env.do(t, http.MethodPost, "/api/login", map[string]any{
		"email": "jane@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials.", body["message"])

	w, body = env.do(t, http.MethodPost, "/api/login", map[string]any{
		"email": "ghost@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials.", body["message"])
}

func TestLoginEndpointEmptyCredentials(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/api/login", map[string]any{
		"email": " ", "password": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password cannot be empty.", body["message"])
}

func TestShowEndpointIncludesRolesAndAge(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.do(t, http.MethodPost, "/api/register", registerBody())

	w, body := env.do(t, http.MethodGet, "/api/user/show", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]any)
	assert.Contains(t, data, "age")
	roles := data["roles"].([]any)
	assert.Contains(t, roles, entity.RoleUser)
}

func TestJoinEndpointIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	w, created := env.do(t, http.MethodPost, "/api/activity/create", map[string]any{
		"name":        "Yoga",
		"description": "Morning yoga session in the park",
		"duration":    60,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(created["data"].(map[string]any)["id"].(float64))

	w, body := env.do(t, http.MethodPost, "/api/activity/join/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User joined", body["message"])

	w, body = env.do(t, http.MethodPost, "/api/activity/join/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User already joined", body["message"])

	users, err := env.actSvc.Participants(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestJoinEndpointUnknownActivity(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/api/activity/join/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Activity not found", body["message"])
}

func TestImportEndpointPartialSuccess(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/api/activity/import", []map[string]any{
		{"name": "Yoga", "description": "Morning yoga session in the park", "duration": 60},
		{"name": "Bouldering", "description": "Indoor climbing for beginners", "duration": 90},
		{"name": "Marathon", "description": "Full city marathon training", "duration": 200},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "import finished with errors", body["message"])

	errObj := body["error"].(map[string]any)
	assert.Equal(t, float64(2), errObj["created"])
	msgs := errObj["errors"].([]any)
	assert.Contains(t, msgs, "Activity duration must be between 30 and 120 minutes")

	_, listBody := env.do(t, http.MethodGet, "/api/activity/list", nil)
	assert.Len(t, listBody["data"].([]any), 2)
}

func TestEditEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.do(t, http.MethodPost, "/api/register", registerBody())

	w, body := env.do(t, http.MethodPatch, "/api/user/edit", map[string]any{"name": "Janet"})
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Janet", data["name"])
	assert.Equal(t, "jane@example.com", data["email"])
}

func TestJoinedActivitiesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.do(t, http.MethodPost, "/api/activity/create", map[string]any{
		"name":        "Yoga",
		"description": "Morning yoga session in the park",
		"duration":    60,
	})
	_, _ = env.do(t, http.MethodPost, "/api/activity/join/1", nil)

	w, body := env.do(t, http.MethodGet, "/api/user/activities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Yoga", data[0].(map[string]any)["name"])
}
