package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

// scanBatch is both the SCAN count hint and the DEL batch size during invalidation.
const scanBatch = 100

// CacheRepository keeps generation responses in Redis as JSON. Without a client every
// lookup misses and writes are dropped, so the API runs uncached.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository constructs the repository; client may be nil.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{client: client, logger: logger}
}

// Get decodes the generation stored under key into dest, or returns ErrCacheMiss.
func (r *CacheRepository) Get(ctx context.Context, key string, dest any) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return appErrors.ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("read cached generation %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode cached generation %s: %w", key, err)
	}
	return nil
}

// Set stores value under key until ttl lapses.
func (r *CacheRepository) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode generation for %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store generation %s: %w", key, err)
	}
	return nil
}

// DeleteByPattern drops every key matching pattern, e.g. all generations after a ratings import.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.client == nil {
		return nil
	}

	pending := make([]string, 0, scanBatch)
	removed := 0
	drop := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := r.client.Del(ctx, pending...).Err(); err != nil {
			return fmt.Errorf("drop %d cached generations: %w", len(pending), err)
		}
		removed += len(pending)
		pending = pending[:0]
		return nil
	}

	keys := r.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for keys.Next(ctx) {
		pending = append(pending, keys.Val())
		if len(pending) < scanBatch {
			continue
		}
		if err := drop(); err != nil {
			return err
		}
	}
	if err := keys.Err(); err != nil {
		return fmt.Errorf("list cached generations %s: %w", pattern, err)
	}
	if err := drop(); err != nil {
		return err
	}
	if r.logger != nil {
		r.logger.Debug("generation cache cleared", zap.String("pattern", pattern), zap.Int("keys", removed))
	}
	return nil
}

// Close shuts the Redis client; a repository without one has nothing to close.
func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
