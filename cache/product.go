// Package cache keeps product reads off the database.
package cache

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Kariqs/grocery-api/models"
)

var ErrCacheMiss = errors.New("cache miss")

const baseTTL = 10 * time.Minute

// ProductCache is a read-through cache of product details. A nil *ProductCache
// is valid and always loads from the source.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	sfg    singleflight.Group
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client, ttl: baseTTL}
}

func (c *ProductCache) Get(ctx context.Context, id uint) (*models.Product, error) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	var p models.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "unmarshal product")
	}
	return &p, nil
}

func (c *ProductCache) Set(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "marshal product")
	}
	// Jitter spreads expiry of products cached together.
	ttl := c.ttl + time.Duration(rand.IntN(60))*time.Second
	if err := c.client.Set(ctx, productKey(p.ID), data, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// Invalidate drops a product after it changes.
func (c *ProductCache) Invalidate(ctx context.Context, id uint) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		zap.L().Warn("product cache invalidate failed", zap.Uint("productId", id), zap.Error(err))
	}
}

// Fetch returns the cached product or loads it, collapsing concurrent misses into one load.
func (c *ProductCache) Fetch(ctx context.Context, id uint, load func(context.Context) (*models.Product, error)) (*models.Product, error) {
	if c == nil {
		return load(ctx)
	}

	v, err, _ := c.sfg.Do(productKey(id), func() (any, error) {
		p, err := c.Get(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			zap.L().Warn("product cache read failed", zap.Uint("productId", id), zap.Error(err))
		}

		p, err = load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, p); err != nil {
			zap.L().Warn("product cache write failed", zap.Uint("productId", id), zap.Error(err))
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Product), nil
}

func productKey(id uint) string {
	return "product:" + strconv.FormatUint(uint64(id), 10)
}
