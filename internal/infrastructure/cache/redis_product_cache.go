package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/hms/backend/internal/application/catalog"
	"github.com/hms/backend/internal/domain/catalog"
	"github.com/hms/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient creates a Redis client and verifies the connection
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// RedisProductCache implements the product lookup cache using Redis.
// The cache is advisory: any Redis error degrades to a miss and the
// caller falls through to the repository.
type RedisProductCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisProductCache creates a new RedisProductCache
func NewRedisProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisProductCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisProductCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: "catalog:product:",
		logger:    logger.Named("product-cache"),
	}
}

// Get returns the cached product, or false on a miss or cache error
func (c *RedisProductCache) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", zap.String("product_id", id.String()), zap.Error(err))
		}
		return nil, false
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", zap.String("product_id", id.String()), zap.Error(err))
		c.client.Del(ctx, c.key(id))
		return nil, false
	}
	return &product, true
}

// Set stores the product with the configured TTL. Failures are logged
// and swallowed.
func (c *RedisProductCache) Set(ctx context.Context, product *catalog.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("product_id", product.ID.String()), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(product.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}

// Invalidate removes the product from the cache
func (c *RedisProductCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.logger.Warn("cache invalidate failed", zap.String("product_id", id.String()), zap.Error(err))
	}
}

func (c *RedisProductCache) key(id uuid.UUID) string {
	return c.keyPrefix + id.String()
}

// Ensure RedisProductCache implements ProductCache
var _ appcatalog.ProductCache = (*RedisProductCache)(nil)
