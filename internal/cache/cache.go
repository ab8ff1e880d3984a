// Package cache provides Redis caching of saved room layouts and the draft
// backups of open designer sessions.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hostel-manager/room-designer/internal/config"
	"github.com/hostel-manager/room-designer/internal/models"
)

const (
	// Cache key prefixes
	layoutKeyPrefix = "layout:"
	draftKeyPrefix  = "draft:"
)

// Cache defines the interface for caching operations.
type Cache interface {
	// GetLayout retrieves a saved layout from cache by room ID.
	GetLayout(ctx context.Context, roomID string) (*models.SavedLayout, error)

	// SetLayout stores a saved layout in cache.
	SetLayout(ctx context.Context, saved *models.SavedLayout) error

	// DeleteLayout removes a saved layout from cache.
	DeleteLayout(ctx context.Context, roomID string) error

	// SaveDraft stores the unsaved layout of a room's designer session.
	SaveDraft(ctx context.Context, roomID string, layout models.Layout) error

	// GetDraft retrieves the latest draft of a room.
	GetDraft(ctx context.Context, roomID string) (*models.Layout, error)

	// DeleteDraft removes the draft of a room.
	DeleteDraft(ctx context.Context, roomID string) error

	// Close closes the cache connection.
	Close() error
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client   *redis.Client
	logger   *zap.Logger
	ttl      time.Duration
	draftTTL time.Duration
}

// NewRedisCache creates a new Redis cache.
func NewRedisCache(cfg *config.Config, logger *zap.Logger) (Cache, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis cache")

	return &RedisCache{
		client:   client,
		logger:   logger,
		ttl:      cfg.CacheTTL,
		draftTTL: cfg.DraftTTL,
	}, nil
}

// GetLayout retrieves a saved layout from cache by room ID.
func (c *RedisCache) GetLayout(ctx context.Context, roomID string) (*models.SavedLayout, error) {
	var saved models.SavedLayout
	if !c.getJSON(ctx, layoutKeyPrefix+roomID, &saved) {
		return nil, nil
	}
	return &saved, nil
}

// SetLayout stores a saved layout in cache.
func (c *RedisCache) SetLayout(ctx context.Context, saved *models.SavedLayout) error {
	return c.setJSON(ctx, layoutKeyPrefix+saved.RoomID, saved, c.ttl)
}

// DeleteLayout removes a saved layout from cache.
func (c *RedisCache) DeleteLayout(ctx context.Context, roomID string) error {
	return c.del(ctx, layoutKeyPrefix+roomID)
}

// SaveDraft stores the unsaved layout of a room's designer session.
func (c *RedisCache) SaveDraft(ctx context.Context, roomID string, layout models.Layout) error {
	return c.setJSON(ctx, draftKeyPrefix+roomID, layout, c.draftTTL)
}

// GetDraft retrieves the latest draft of a room.
func (c *RedisCache) GetDraft(ctx context.Context, roomID string) (*models.Layout, error) {
	var layout models.Layout
	if !c.getJSON(ctx, draftKeyPrefix+roomID, &layout) {
		return nil, nil
	}
	return &layout, nil
}

// DeleteDraft removes the draft of a room.
func (c *RedisCache) DeleteDraft(ctx context.Context, roomID string) error {
	return c.del(ctx, draftKeyPrefix+roomID)
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	c.logger.Info("Closing Redis connection")
	return c.client.Close()
}

// getJSON decodes the value at key into v. Errors are treated as a cache miss.
func (c *RedisCache) getJSON(ctx context.Context, key string, v any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Warn("Failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false
	}

	c.logger.Debug("Cache hit", zap.String("key", key))
	return true
}

func (c *RedisCache) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to marshal value for cache", zap.String("key", key), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn("Failed to set cache", zap.String("key", key), zap.Error(err))
		return err
	}

	c.logger.Debug("Cached value", zap.String("key", key))
	return nil
}

func (c *RedisCache) del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return err
	}

	c.logger.Debug("Deleted from cache", zap.String("key", key))
	return nil
}
