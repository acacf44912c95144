/**
 * Redis hypothesis cache for the OCR benchmark worker
 *
 * Caches recognized text per (engine, page-image content) so that repeated
 * runs over the same document skip the expensive recognition call. Keys are
 * derived from the image bytes, so a re-rasterized page invalidates itself.
 * Cache errors degrade to cache misses; they never fail the run.
 */

package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adverant/nexus/ocrbench-worker/internal/logging"
)

const (
	cacheKeyPrefix  = "ocrbench:hyp"
	defaultCacheTTL = 7 * 24 * time.Hour
)

// RedisCache implements the orchestrator's HypothesisCache on Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(redisURL string, logger *logging.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		ttl:    defaultCacheTTL,
		logger: logger,
	}, nil
}

// Get returns the cached hypothesis for an engine and page image.
func (c *RedisCache) Get(ctx context.Context, engineName, imagePath string) (string, bool) {
	key, err := c.cacheKey(engineName, imagePath)
	if err != nil {
		return "", false
	}

	text, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.logger.Warn("Hypothesis cache read failed", "engine", engineName, "error", err)
		return "", false
	}
	return text, true
}

// Put stores a hypothesis for an engine and page image.
func (c *RedisCache) Put(ctx context.Context, engineName, imagePath, text string) {
	key, err := c.cacheKey(engineName, imagePath)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, text, c.ttl).Err(); err != nil {
		c.logger.Warn("Hypothesis cache write failed", "engine", engineName, "error", err)
	}
}

// Close releases the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) cacheKey(engineName, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s:%s", cacheKeyPrefix, engineName, hex.EncodeToString(sum[:])), nil
}
