package services

import (
	"context"
	"time"
	"tradepost_server/database"
	"tradepost_server/lib"
	"tradepost_server/structs"
	"tradepost_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// TokenService owns the auth_tokens ledger. It records which signed tokens
// were handed out, whether they were consumed, and when they lapse. It knows
// nothing about signatures; pairing a ledger row with its signed value is
// the identity service's job.
type TokenService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	db     *database.DB
}

func NewTokenService(cfg *structs.Config, logger *gecho.Logger, db *database.DB) *TokenService {
	return &TokenService{
		logger: logger,
		cfg:    cfg,
		db:     db,
	}
}

// Issue records a freshly minted signed token as an active ledger row
// expiring after ttl.
func (ts *TokenService) Issue(ctx context.Context, userID uuid.UUID, purpose, signedValue string, ttl time.Duration) (*tables.AuthToken, error) {
	now := time.Now()
	token := &tables.AuthToken{
		Id:         uuid.New(),
		UserId:     userID,
		TokenValue: signedValue,
		Purpose:    purpose,
		Expiry:     now.Add(ttl),
		Status:     tables.TokenStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	token, err := database.Query[tables.AuthToken](ts.db).Insert(ctx, token)
	if err != nil {
		ts.logger.Error("Failed to record issued token",
			gecho.Field("error", err),
			gecho.Field("user_id", userID),
			gecho.Field("purpose", purpose),
		)
		return nil, lib.MapPgError(err)
	}

	return token, nil
}

// FindValid looks up a ledger row by exact signed value and purpose that is
// still active and unexpired, newest first, with the owning user joined.
// Returns nil when no such row exists; the caller reports that the same way
// as any other token failure.
func (ts *TokenService) FindValid(ctx context.Context, signedValue, purpose string) (*tables.AuthToken, error) {
	token, err := database.Query[tables.AuthToken](ts.db).
		Where("token_value", signedValue).
		Where("purpose", purpose).
		Where("status", tables.TokenStatusActive).
		WhereOp("expiry", ">", time.Now()).
		OrderBy("created_at", "DESC").
		Relation("User").
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return token, nil
}

// Consume transitions a row from active to used. The update is conditional
// on the row still being active, so of two concurrent verifiers exactly one
// wins; the loser sees ErrInvalidOrExpiredToken.
func (ts *TokenService) Consume(ctx context.Context, tokenID uuid.UUID) error {
	rows, err := database.Query[tables.AuthToken](ts.db).
		Where("id", tokenID).
		Where("status", tables.TokenStatusActive).
		Update(ctx, map[string]any{
			"status":     tables.TokenStatusUsed,
			"updated_at": time.Now(),
		})
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		ts.logger.Warn("Token already consumed", gecho.Field("token_id", tokenID))
		return lib.ErrInvalidOrExpiredToken
	}
	return nil
}

// PurgeByUserAndPurpose deletes every ledger row for the pair, regardless of
// status. Called before re-issuing so only the newest token stays valid.
func (ts *TokenService) PurgeByUserAndPurpose(ctx context.Context, userID uuid.UUID, purpose string) error {
	deleted, err := database.Query[tables.AuthToken](ts.db).
		Where("user_id", userID).
		Where("purpose", purpose).
		Delete(ctx)
	if err != nil {
		return lib.MapPgError(err)
	}

	if deleted > 0 {
		ts.logger.Debug("Purged prior tokens",
			gecho.Field("user_id", userID),
			gecho.Field("purpose", purpose),
			gecho.Field("count", deleted),
		)
	}
	return nil
}
