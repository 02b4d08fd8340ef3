package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/shopmate/pkg/config"
	"github.com/example/shopmate/pkg/models"
	"github.com/go-redis/redis/v8"
)

const (
	productCacheTTL  = 10 * time.Minute
	settingsCacheTTL = 30 * time.Minute
	settingsCacheKey = "settings:shop"
)

// Cache fronts the hot read paths: product detail pages and the
// settings snapshot every settlement reads for receipt formatting.
type Cache struct {
	client *redis.Client
}

func NewCache(cfg *config.RedisConfig) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Cache) getJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (c *Cache) CacheProduct(ctx context.Context, product *models.Product) error {
	return c.setJSON(ctx, productKey(product.ID), product, productCacheTTL)
}

func (c *Cache) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.getJSON(ctx, productKey(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Cache) InvalidateProduct(ctx context.Context, id string) error {
	return c.client.Del(ctx, productKey(id)).Err()
}

func (c *Cache) CacheSettings(ctx context.Context, settings *models.Settings) error {
	return c.setJSON(ctx, settingsCacheKey, settings, settingsCacheTTL)
}

func (c *Cache) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := c.getJSON(ctx, settingsCacheKey, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *Cache) InvalidateSettings(ctx context.Context) error {
	return c.client.Del(ctx, settingsCacheKey).Err()
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}
