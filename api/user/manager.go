package user

import (
	"tradepost_server/api/middleware"
	"tradepost_server/services"
	"tradepost_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type UserRoutesManager struct {
	logger      *gecho.Logger
	userService *services.UserService
	cfg         *structs.Config
	mw          *middleware.Middleware
}

func NewUserRoutesManager(
	logger *gecho.Logger,
	userService *services.UserService,
	cfg *structs.Config,
	mw *middleware.Middleware,
) *UserRoutesManager {
	return &UserRoutesManager{
		logger:      logger,
		userService: userService,
		cfg:         cfg,
		mw:          mw,
	}
}

func (urm *UserRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/user", func(r chi.Router) {
		r.Use(urm.mw.RequireAuth)
		r.Use(urm.mw.RequireVerifiedEmail)
		r.Get("/profile", urm.HandleGetProfile)
		r.Patch("/profile", urm.HandleUpdateProfile)
	})
}
