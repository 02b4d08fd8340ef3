package repository

import (
	"context"

	"github.com/example/shopmate/pkg/models"
	"go.uber.org/zap"
)

// CachedSettings fronts a SettingsStore with the Redis cache. Cache
// trouble degrades to the store, never to an error.
type CachedSettings struct {
	store  SettingsStore
	cache  *Cache
	logger *zap.Logger
}

func NewCachedSettings(store SettingsStore, cache *Cache, logger *zap.Logger) *CachedSettings {
	return &CachedSettings{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func (c *CachedSettings) Get(ctx context.Context) (*models.Settings, error) {
	if c.cache != nil {
		if settings, err := c.cache.GetSettings(ctx); err == nil {
			return settings, nil
		}
	}

	settings, err := c.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.CacheSettings(ctx, settings); err != nil {
			c.logger.Warn("settings cache backfill failed", zap.Error(err))
		}
	}
	return settings, nil
}

func (c *CachedSettings) Update(ctx context.Context, settings *models.Settings) error {
	if err := c.store.Update(ctx, settings); err != nil {
		return err
	}
	if c.cache != nil {
		if err := c.cache.InvalidateSettings(ctx); err != nil {
			c.logger.Warn("settings cache invalidation failed", zap.Error(err))
		}
	}
	return nil
}
