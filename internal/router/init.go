package router

import (
	"github.com/joinup-app/joinup-api/internal/application"
	"github.com/joinup-app/joinup-api/internal/container"
	pginfra "github.com/joinup-app/joinup-api/internal/infrastructure/postgres"
	handlers "github.com/joinup-app/joinup-api/internal/interface/http"
	"github.com/joinup-app/joinup-api/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	activityRepo := pginfra.NewActivityRepository(container.GetPGPool())

	userSvc := application.NewUserService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetRabbitPub(),
		cfg.AppName,
	)
	activitySvc := application.NewActivityService(
		activityRepo,
		container.GetLogger(),
		container.GetES(),
		cfg.ESActivitiesIndex,
	)

	authHandler := handlers.NewAuthHandler(userSvc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(userSvc, activitySvc, container.GetLogger())
	activityHandler := handlers.NewActivityHandler(activitySvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewActivityModule(activityHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
