package services

import (
	"tradepost_server/database"
	"tradepost_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	UserService   *UserService
	TokenService  *TokenService
	AuthService   *AuthService
	EmailService  *EmailService
	CacheService  *CacheService
	HealthService *HealthService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	cacheService := NewCacheService(logger, cfg)
	userService := NewUserService(cfg, logger, db, cacheService)
	tokenService := NewTokenService(cfg, logger, db)
	emailService := NewEmailService(logger, cfg)
	authService := NewAuthService(cfg, logger, userService, tokenService, emailService)
	healthService := NewHealthService(logger, db)

	return &ServiceManager{
		UserService:   userService,
		TokenService:  tokenService,
		AuthService:   authService,
		EmailService:  emailService,
		CacheService:  cacheService,
		HealthService: healthService,
	}
}
