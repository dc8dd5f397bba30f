package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joinup-app/joinup-api/internal/container"
	"github.com/joinup-app/joinup-api/internal/domain/entity"
	handlers "github.com/joinup-app/joinup-api/internal/interface/http"
	"github.com/joinup-app/joinup-api/internal/interface/middleware"
	"github.com/joinup-app/joinup-api/pkg/helpers"
)

// ActivityModule wires the activity catalog and membership endpoints.
// Creation, import and the participant listing are admin only; list, search
// and join are open to any authenticated user.

type ActivityModule struct {
	Handler *handlers.ActivityHandler
	JWT     *helpers.JWTManager
}

func NewActivityModule(h *handlers.ActivityHandler, jwt *helpers.JWTManager) *ActivityModule {
	return &ActivityModule{Handler: h, JWT: jwt}
}

func (m *ActivityModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/activity")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/list", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.POST("/join/:id", m.Handler.Join)

		admin := auth.Group("/")
		admin.Use(middleware.RequireRole(entity.RoleAdmin))
		{
			admin.POST("/create", m.Handler.Create)
			admin.POST("/import", m.Handler.Import)
			admin.GET("/participants/:id", m.Handler.Participants)
		}
	}
}
