// Package cache provides the shared current-odds cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/models"
)

// ErrOddsNotCached indicates no current odds are cached for the match
var ErrOddsNotCached = errors.New("odds not cached")

// OddsCache stores the latest odds snapshot per match.
type OddsCache interface {
	SetCurrent(ctx context.Context, odds *models.OddsSnapshot) error
	GetCurrent(ctx context.Context, matchID uuid.UUID) (*models.OddsSnapshot, error)
	Close() error
}

func oddsKey(matchID uuid.UUID) string {
	return "odds:current:" + matchID.String()
}

// RedisOddsCache keeps current odds in Redis with a TTL.
type RedisOddsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisOddsCache connects to Redis and verifies connectivity.
func NewRedisOddsCache(ctx context.Context, cfg *config.RedisConfig) (*RedisOddsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &RedisOddsCache{client: client, ttl: ttl}, nil
}

// SetCurrent stores the latest odds for a match.
func (r *RedisOddsCache) SetCurrent(ctx context.Context, odds *models.OddsSnapshot) error {
	data, err := json.Marshal(odds)
	if err != nil {
		return fmt.Errorf("failed to marshal odds: %w", err)
	}
	return r.client.Set(ctx, oddsKey(odds.MatchID), data, r.ttl).Err()
}

// GetCurrent retrieves the latest cached odds for a match.
func (r *RedisOddsCache) GetCurrent(ctx context.Context, matchID uuid.UUID) (*models.OddsSnapshot, error) {
	data, err := r.client.Get(ctx, oddsKey(matchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrOddsNotCached
		}
		return nil, fmt.Errorf("failed to read odds from redis: %w", err)
	}

	var odds models.OddsSnapshot
	if err := json.Unmarshal(data, &odds); err != nil {
		return nil, fmt.Errorf("failed to parse cached odds: %w", err)
	}
	return &odds, nil
}

// Close releases the Redis connection.
func (r *RedisOddsCache) Close() error {
	return r.client.Close()
}

// MemoryOddsCache is the in-process fallback used when Redis is disabled.
type MemoryOddsCache struct {
	cache *gocache.Cache
}

// NewMemoryOddsCache creates an in-memory odds cache with the given TTL.
func NewMemoryOddsCache(ttl time.Duration) *MemoryOddsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryOddsCache{cache: gocache.New(ttl, ttl*2)}
}

// SetCurrent stores the latest odds for a match.
func (m *MemoryOddsCache) SetCurrent(ctx context.Context, odds *models.OddsSnapshot) error {
	m.cache.SetDefault(oddsKey(odds.MatchID), odds)
	return nil
}

// GetCurrent retrieves the latest cached odds for a match.
func (m *MemoryOddsCache) GetCurrent(ctx context.Context, matchID uuid.UUID) (*models.OddsSnapshot, error) {
	if v, found := m.cache.Get(oddsKey(matchID)); found {
		return v.(*models.OddsSnapshot), nil
	}
	return nil, ErrOddsNotCached
}

// Close is a no-op for the in-memory cache.
func (m *MemoryOddsCache) Close() error {
	return nil
}

// New builds the configured odds cache: Redis when enabled, otherwise the
// in-memory fallback.
func New(ctx context.Context, cfg *config.RedisConfig) (OddsCache, error) {
	if cfg != nil && cfg.Enabled {
		return NewRedisOddsCache(ctx, cfg)
	}
	ttl := 5 * time.Minute
	if cfg != nil && cfg.TTLSeconds > 0 {
		ttl = time.Duration(cfg.TTLSeconds) * time.Second
	}
	return NewMemoryOddsCache(ttl), nil
}
