package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/joinup-app/joinup-api/internal/application"
	"github.com/joinup-app/joinup-api/internal/interface/middleware"
	"github.com/joinup-app/joinup-api/pkg/response"
	"github.com/joinup-app/joinup-api/pkg/validation"
)

// UserHandler serves the user's own record and the admin listing.
type UserHandler struct {
	Svc        *application.UserService
	Activities *application.ActivityService
	Logger     *logrus.Logger
}

func NewUserHandler(svc *application.UserService, activities *application.ActivityService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Activities: activities, Logger: logger}
}

// List GET /api/user/list (admin)
// Users go out through the read projection; no password, roles or age.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Error[any](c, http.StatusInternalServerError, "could not list users", nil)
		return
	}
	response.Success(c, http.StatusOK, application.ProjectUsersRead(users), "users", nil)
}

// Show GET /api/user/show
// The caller's own record through the show projection: read fields plus the
// role set and derived age.
func (h *UserHandler) Show(c *gin.Context) {
	uid := c.GetInt64(middleware.CtxUserIDKey)
	u, err := h.Svc.GetByID(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, application.ErrUserNotFound.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, application.ProjectUserShow(u, time.Now()), "profile", nil)
}

// Edit PUT/PATCH /api/user/edit
func (h *UserHandler) Edit(c *gin.Context) {
	uid := c.GetInt64(middleware.CtxUserIDKey)

	var req application.EditUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Edit(c.Request.Context(), uid, req)
	if err != nil {
		if ve, ok := application.AsValidation(err); ok {
			response.Error[any](c, http.StatusBadRequest, "validation failed", gin.H{"errors": ve.Messages})
			return
		}
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusConflict, application.ErrEmailTaken.Error(), nil)
			return
		}
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, application.ErrUserNotFound.Error(), nil)
			return
		}
		h.Logger.WithError(err).Error("edit user failed")
		response.Error[any](c, http.StatusInternalServerError, "could not update user", nil)
		return
	}

	response.Success(c, http.StatusOK, application.ProjectUserShow(u, time.Now()), "User updated", nil)
}

// Delete DELETE /api/user/delete
// Removes the caller's account; participation rows cascade away with it.
func (h *UserHandler) Delete(c *gin.Context) {
	uid := c.GetInt64(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), uid); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, application.ErrUserNotFound.Error(), nil)
			return
		}
		h.Logger.WithError(err).Error("delete user failed")
		response.Error[any](c, http.StatusInternalServerError, "could not delete user", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "User deleted", nil)
}

// Joined GET /api/user/activities
// The "activities a user belongs to" index, read from the owning side.
func (h *UserHandler) Joined(c *gin.Context) {
	uid := c.GetInt64(middleware.CtxUserIDKey)
	activities, err := h.Activities.ActivitiesForUser(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("list joined activities failed")
		response.Error[any](c, http.StatusInternalServerError, "could not list activities", nil)
		return
	}
	response.Success(c, http.StatusOK, application.ProjectActivities(activities), "joined activities", nil)
}
