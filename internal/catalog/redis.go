package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/lemonexport/quote-engine/internal/metrics"
	"github.com/lemonexport/quote-engine/internal/model"
)

// cacheLoadTimeout bounds a shared upstream load once it is detached from
// the caller that started it.
const cacheLoadTimeout = 30 * time.Second

// CacheClient is the slice of the Redis client the catalog cache uses.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CachedCatalog wraps a primary Provider with a Redis read-through cache.
// Concurrent misses for the same key share one upstream call. Errors are
// never cached; an absent price ("null") is.
type CachedCatalog struct {
	primary Provider
	rdb     CacheClient
	ttl     time.Duration
	group   singleflight.Group
}

// NewCachedCatalog creates a cached wrapper around a primary provider.
func NewCachedCatalog(primary Provider, rdb CacheClient, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

func (c *CachedCatalog) ListModels(ctx context.Context, brand string) ([]string, error) {
	return readThrough(ctx, c, modelsKey(brand), func(ctx context.Context) ([]string, error) {
		return c.primary.ListModels(ctx, brand)
	})
}

func (c *CachedCatalog) ListTrims(ctx context.Context, brand, modelName, year string) ([]string, error) {
	return readThrough(ctx, c, trimsKey(brand, modelName, year), func(ctx context.Context) ([]string, error) {
		return c.primary.ListTrims(ctx, brand, modelName, year)
	})
}

func (c *CachedCatalog) ListColors(ctx context.Context, brand, modelName, year, trim string) (model.ColorOptions, error) {
	return readThrough(ctx, c, colorsKey(brand, modelName, year, trim), func(ctx context.Context) (model.ColorOptions, error) {
		return c.primary.ListColors(ctx, brand, modelName, year, trim)
	})
}

func (c *CachedCatalog) EstimatePrice(ctx context.Context, q PriceQuery) (*model.PriceEstimate, error) {
	return readThrough(ctx, c, priceKey(q), func(ctx context.Context) (*model.PriceEstimate, error) {
		return c.primary.EstimatePrice(ctx, q)
	})
}

// readThrough serves key from Redis, or loads it through the singleflight
// group and caches the JSON result.
func readThrough[T any](ctx context.Context, c *CachedCatalog, key string, load func(context.Context) (T, error)) (T, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if json.Unmarshal(data, &v) == nil {
			metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
			return v, nil
		}
	case errors.Is(err, redis.Nil):
	default:
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		slog.Warn("catalog cache read failed", "key", key, "err", err)
	}
	metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()

	// The shared load outlives any single caller; each caller still stops
	// waiting when its own context ends.
	ch := c.group.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheLoadTimeout)
		defer cancel()
		v, err := load(lctx)
		if err != nil {
			return v, err
		}
		if data, err := json.Marshal(v); err == nil {
			if err := c.rdb.Set(lctx, key, data, c.ttl).Err(); err != nil {
				slog.Warn("catalog cache write failed", "key", key, "err", err)
			}
		}
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	}
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func modelsKey(brand string) string {
	return fmt.Sprintf("catalog:models:%s", norm(brand))
}

func trimsKey(brand, modelName, year string) string {
	return fmt.Sprintf("catalog:trims:%s|%s|%s", norm(brand), norm(modelName), norm(year))
}

func colorsKey(brand, modelName, year, trim string) string {
	return fmt.Sprintf("catalog:colors:%s|%s|%s|%s", norm(brand), norm(modelName), norm(year), norm(trim))
}

func priceKey(q PriceQuery) string {
	cond := model.ConditionNew
	if q.Used {
		cond = model.ConditionUsed
	}
	return fmt.Sprintf("catalog:price:%s|%s|%s|%s|%s", norm(q.Brand), norm(q.Model), norm(q.Year), norm(q.Trim), cond)
}
