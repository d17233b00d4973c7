package initializers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Kariqs/grocery-api/cache"
)

// Products caches product details. It stays nil when Redis is not configured.
var Products *cache.ProductCache

func ConnectToRedis() {
	if Config.RedisURL == "" {
		zap.L().Info("REDIS_URL not set, product cache disabled")
		return
	}
	opts, err := redis.ParseURL(Config.RedisURL)
	if err != nil {
		zap.L().Warn("Invalid REDIS_URL, product cache disabled", zap.Error(err))
		return
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("Redis unreachable, product cache disabled", zap.Error(err))
		_ = client.Close()
		return
	}
	Products = cache.NewProductCache(client)
	zap.L().Info("Connected to redis")
}
