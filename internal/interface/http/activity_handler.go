package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/joinup-app/joinup-api/internal/application"
	"github.com/joinup-app/joinup-api/internal/interface/middleware"
	"github.com/joinup-app/joinup-api/pkg/response"
	"github.com/joinup-app/joinup-api/pkg/validation"
)

// ActivityHandler serves the activity catalog and the join relation.
type ActivityHandler struct {
	Svc    *application.ActivityService
	Logger *logrus.Logger
}

func NewActivityHandler(svc *application.ActivityService, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{Svc: svc, Logger: logger}
}

// Create POST /api/activity/create (admin)
func (h *ActivityHandler) Create(c *gin.Context) {
	var req application.ActivityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	a, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		if ve, ok := application.AsValidation(err); ok {
			response.Error[any](c, http.StatusBadRequest, "validation failed", gin.H{"errors": ve.Messages})
			return
		}
		if errors.Is(err, application.ErrActivityExists) {
			response.Error[any](c, http.StatusConflict, application.ErrActivityExists.Error(), nil)
			return
		}
		h.Logger.WithError(err).Error("create activity failed")
		response.Error[any](c, http.StatusInternalServerError, "could not create activity", nil)
		return
	}

	response.Success(c, http.StatusCreated, application.ProjectActivity(a), "Activity created", nil)
}

// List GET /api/activity/list
func (h *ActivityHandler) List(c *gin.Context) {
	activities, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list activities failed")
		response.Error[any](c, http.StatusInternalServerError, "could not list activities", nil)
		return
	}
	response.Success(c, http.StatusOK, application.ProjectActivities(activities), "activities", nil)
}

// Join POST /api/activity/join/:id
// Idempotent: the second join of the same user answers success without change.
func (h *ActivityHandler) Join(c *gin.Context) {
	activityID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid activity id", nil)
		return
	}
	uid := c.GetInt64(middleware.CtxUserIDKey)

	outcome, err := h.Svc.Join(c.Request.Context(), activityID, uid)
	if err != nil {
		if errors.Is(err, application.ErrActivityNotFound) {
			response.Error[any](c, http.StatusNotFound, application.ErrActivityNotFound.Error(), nil)
			return
		}
		h.Logger.WithError(err).Error("join activity failed")
		response.Error[any](c, http.StatusInternalServerError, "could not join activity", nil)
		return
	}

	if outcome == application.AlreadyJoined {
		response.Success[any](c, http.StatusOK, gin.H{"joined": false}, "User already joined", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"joined": true}, "User joined", nil)
}

// Import POST /api/activity/import (admin)
// Bulk create with per-record validation. Valid records persist even when
// others fail; the reply carries both the created count and every message.
func (h *ActivityHandler) Import(c *gin.Context) {
	var req []application.ActivityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	created, failures, err := h.Svc.BulkCreate(c.Request.Context(), req)
	if err != nil {
		h.Logger.WithError(err).Error("bulk import failed")
		response.Error[any](c, http.StatusInternalServerError, "import failed", gin.H{"created": created})
		return
	}
	if len(failures) > 0 {
		response.Error[any](c, http.StatusBadRequest, "import finished with errors", gin.H{
			"created": created,
			"errors":  failures,
		})
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"created": created}, "Activities imported", nil)
}

// Search GET /api/activity/search?q=
func (h *ActivityHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	results, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("activity search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, results, "search results", nil)
}

// Participants GET /api/activity/participants/:id (admin)
// Membership is queried on its own, never embedded in an activity payload.
func (h *ActivityHandler) Participants(c *gin.Context) {
	activityID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid activity id", nil)
		return
	}
	users, err := h.Svc.Participants(c.Request.Context(), activityID)
	if err != nil {
		if errors.Is(err, application.ErrActivityNotFound) {
			response.Error[any](c, http.StatusNotFound, application.ErrActivityNotFound.Error(), nil)
			return
		}
		h.Logger.WithError(err).Error("list participants failed")
		response.Error[any](c, http.StatusInternalServerError, "could not list participants", nil)
		return
	}
	response.Success(c, http.StatusOK, application.ProjectUsersRead(users), "participants", nil)
}
