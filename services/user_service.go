package services

import (
	"context"
	"strings"
	"time"
	"tradepost_server/database"
	"tradepost_server/lib"
	"tradepost_server/structs"
	"tradepost_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// UserService owns the users table: lookups, credential creation and
// verification, and profile projections. Every projection leaving this
// service has the password hash stripped.
type UserService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	db     *database.DB
	cache  *CacheService
}

// NewUserService builds the credential store. cache may be nil; profile
// caching is then skipped entirely.
func NewUserService(cfg *structs.Config, logger *gecho.Logger, db *database.DB, cache *CacheService) *UserService {
	return &UserService{
		logger: logger,
		cfg:    cfg,
		db:     db,
		cache:  cache,
	}
}

// FindByEmail returns the user with exactly this email, or nil. No
// normalization: emails are matched as stored.
func (us *UserService) FindByEmail(ctx context.Context, email string) (*tables.User, error) {
	user, err := database.Query[tables.User](us.db).
		Where("email", email).
		WithTimeout(us.cfg.Database.ReadTimeout).
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return user, nil
}

// FindByID returns the user with this id, or nil.
func (us *UserService) FindByID(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	user, err := database.Query[tables.User](us.db).
		Where("id", id).
		WithTimeout(us.cfg.Database.ReadTimeout).
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return user, nil
}

// Create hashes the password and inserts a new unverified user. The username
// defaults to the email local-part when not supplied. The requested role is
// honored only when the AllowRequestedRole policy flag is set; otherwise
// everyone starts as a buyer.
func (us *UserService) Create(ctx context.Context, req *structs.SignUpRequest) (*tables.User, error) {
	startTime := time.Now()

	passwordHash, err := lib.HashPassword(req.Password, lib.DefaultArgonParams)
	if err != nil {
		us.logger.Error("Failed to hash password", gecho.Field("error", err))
		return nil, err
	}

	username := req.Username
	if username == "" {
		username = strings.SplitN(req.Email, "@", 2)[0]
	}

	role := tables.RoleBuyer
	if us.cfg.Auth.AllowRequestedRole && req.Role != "" {
		role = req.Role
	}

	now := time.Now()
	user := &tables.User{
		Id:            uuid.New(),
		Username:      username,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PasswordHash:  passwordHash,
		Role:          role,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	user, err = database.Query[tables.User](us.db).Insert(ctx, user)
	if err != nil {
		mappedErr := lib.MapPgError(err)

		if lib.IsUniqueViolation(mappedErr) {
			us.logger.Warn("Registration failed - duplicate user",
				gecho.Field("email", req.Email),
			)
		} else {
			us.logger.Error("Database error during registration",
				gecho.Field("error", mappedErr),
				gecho.Field("email", req.Email),
			)
		}

		return nil, mappedErr
	}

	us.logger.Debug("User created",
		gecho.Field("user_id", user.Id),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()),
	)

	return user, nil
}

// VerifyPassword checks a plain-text password against the stored hash in
// constant time.
func (us *UserService) VerifyPassword(user *tables.User, password string) (bool, error) {
	return lib.VerifyPassword(password, user.PasswordHash)
}

// MarkEmailVerified flips the verified flag to true. Reapplying it is a
// no-op by construction; the single-use guarantee for verification tokens
// lives in the ledger, not here.
func (us *UserService) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	rows, err := database.Query[tables.User](us.db).
		Where("id", userID).
		Update(ctx, map[string]any{
			"email_verified": true,
			"updated_at":     time.Now(),
		})
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrNotFound
	}

	us.invalidateProfile(userID)
	return nil
}

// UpdateProfile applies the supplied fields and returns the refreshed
// sanitized profile. Fails with ErrNotFound when the user vanished.
func (us *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *structs.UpdateProfileRequest) (*tables.User, error) {
	fields := req.Fields()
	if len(fields) > 0 {
		fields["updated_at"] = time.Now()

		rows, err := database.Query[tables.User](us.db).
			Where("id", userID).
			Update(ctx, fields)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if rows == 0 {
			return nil, lib.ErrNotFound
		}

		us.invalidateProfile(userID)
	}

	return us.GetSanitizedProfile(ctx, userID)
}

// GetSanitizedProfile returns the user's profile with the password hash
// stripped, reading through the cache when one is wired.
func (us *UserService) GetSanitizedProfile(ctx context.Context, userID uuid.UUID) (*tables.User, error) {
	if us.cache != nil {
		cached, err := us.cache.GetUserProfile(ctx, userID)
		if err != nil {
			us.logger.Warn("Failed to read profile cache", gecho.Field("error", err), gecho.Field("user_id", userID))
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := us.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, lib.ErrNotFound
	}

	user.Sanitize()

	if us.cache != nil {
		go func() {
			if err := us.cache.SetUserProfile(context.Background(), user); err != nil {
				us.logger.Warn("Failed to cache profile", gecho.Field("error", err), gecho.Field("user_id", userID))
			}
		}()
	}

	return user, nil
}

func (us *UserService) invalidateProfile(userID uuid.UUID) {
	if us.cache == nil {
		return
	}
	if err := us.cache.DeleteUserProfile(context.Background(), userID); err != nil {
		us.logger.Warn("Failed to invalidate profile cache", gecho.Field("error", err), gecho.Field("user_id", userID))
	}
}
