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

// UserModule wires the user endpoints; everything is behind Auth, the listing
// additionally behind the admin role.

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/user")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/list", middleware.RequireRole(entity.RoleAdmin), m.Handler.List)
		auth.GET("/show", m.Handler.Show)
		auth.PUT("/edit", m.Handler.Edit)
		auth.PATCH("/edit", m.Handler.Edit)
		auth.DELETE("/delete", m.Handler.Delete)
		auth.GET("/activities", m.Handler.Joined)
	}
}
