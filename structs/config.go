package structs

import "time"

type Config struct {
	Server   *ServerConfig
	Cors     *CorsConfig
	Database *DatabaseConfig
	Auth     *AuthConfig
	Email    *EmailConfig
	Cache    *CacheConfig
}

type ServerConfig struct {
	AppName        string        // Tradepost
	Environment    string        // development, production
	Port           string        // :8084
	FrontendURL    string        // base URL for links embedded in emails
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration // in seconds
	MaxIdleTime  time.Duration // in seconds
	ReadTimeout  time.Duration // in seconds
	WriteTimeout time.Duration // in seconds
}

type AuthConfig struct {
	AccessTokenSecret       string
	AccessTokenExpiry       time.Duration
	EmailVerificationSecret string
	EmailVerificationExpiry time.Duration

	// AllowRequestedRole controls whether sign-up honors the caller-supplied
	// role. Off by default: everyone registers as a buyer and privilege is
	// granted by an admin action afterwards.
	AllowRequestedRole bool
}

type EmailConfig struct {
	ApiKey       string
	From         string
	SupportEmail string
}

type CacheConfig struct {
	Address      string
	Username     string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ProfileTTL   time.Duration
}
