package api

import (
	"tradepost_server/api/auth"
	"tradepost_server/api/health"
	"tradepost_server/api/middleware"
	"tradepost_server/api/user"
	"tradepost_server/services"
	"tradepost_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	authRoutes   *auth.AuthRoutesManager
	userRoutes   *user.UserRoutesManager
	healthRoutes *health.HealthRoutesManager
}

func NewRouterManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	sm *services.ServiceManager,
	mw *middleware.Middleware,
) *routerManager {
	return &routerManager{
		authRoutes:   auth.NewAuthRoutesManager(logger, sm.AuthService, cfg),
		userRoutes:   user.NewUserRoutesManager(logger, sm.UserService, cfg, mw),
		healthRoutes: health.NewHealthRoutesManager(sm.HealthService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.authRoutes.RegisterRoutes(r)
	rm.userRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
}
