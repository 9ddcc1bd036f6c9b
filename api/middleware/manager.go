package middleware

import (
	"tradepost_server/services"
	"tradepost_server/structs"

	"github.com/MonkyMars/gecho"
)

type Middleware struct {
	logger *gecho.Logger
	cfg    *structs.Config
	users  *services.UserService
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, users *services.UserService) *Middleware {
	return &Middleware{
		logger: logger,
		cfg:    cfg,
		users:  users,
	}
}
