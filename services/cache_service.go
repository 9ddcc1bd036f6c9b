package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"tradepost_server/structs"
	"tradepost_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// CacheService caches sanitized profile projections in redis. It is strictly
// an accelerator: every miss or failure falls through to the database, and
// writes invalidate rather than update.
type CacheService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		cfg:    cfg,
		client: getRedisClient(cfg.Cache),
	}
}

func getRedisClient(cfg *structs.CacheConfig) *redis.Client {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,

			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,

			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
	})
	return redisClient
}

func profileKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_profile:%s", userID)
}

// GetUserProfile returns the cached sanitized profile, or nil on a miss.
func (cs *CacheService) GetUserProfile(ctx context.Context, userID uuid.UUID) (*tables.User, error) {
	data, err := cs.client.Get(ctx, profileKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user tables.User
	if err := json.Unmarshal(data, &user); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		cs.logger.Warn("Dropping corrupt profile cache entry", gecho.Field("user_id", userID))
		cs.client.Del(ctx, profileKey(userID))
		return nil, nil
	}

	return &user, nil
}

// SetUserProfile stores a sanitized profile. The hash is stripped again here
// so a caller mistake cannot persist credentials into the cache.
func (cs *CacheService) SetUserProfile(ctx context.Context, user *tables.User) error {
	sanitized := *user
	sanitized.Sanitize()

	data, err := json.Marshal(&sanitized)
	if err != nil {
		return err
	}

	return cs.client.Set(ctx, profileKey(user.Id), data, cs.cfg.Cache.ProfileTTL).Err()
}

// DeleteUserProfile drops the cached profile after a mutation.
func (cs *CacheService) DeleteUserProfile(ctx context.Context, userID uuid.UUID) error {
	return cs.client.Del(ctx, profileKey(userID)).Err()
}

// Health pings redis.
func (cs *CacheService) Health(ctx context.Context) error {
	return cs.client.Ping(ctx).Err()
}

// Close closes the redis connection pool.
func (cs *CacheService) Close() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}
