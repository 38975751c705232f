package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/hr-prediction-board/pkg/contracts/keys"
)

// RedisCache encapsula a invalidação do cache de previsões no Redis
// O predictions-service preenche o cache sob demanda; aqui só removemos a data substituída
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache cria uma instância de cache Redis
func NewRedisCache(c *redis.Client) *RedisCache {
	return &RedisCache{Client: c}
}

// Invalidate remove o conjunto em cache da data
func (r *RedisCache) Invalidate(ctx context.Context, date string) error {
	return r.Client.Del(ctx, keys.Day(date)).Err()
}
