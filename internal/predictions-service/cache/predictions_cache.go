package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/hr-prediction-board/internal/board"
	"github.com/radieske/hr-prediction-board/pkg/contracts/keys"
)

// Cache guarda no Redis o conjunto de registros de cada data
// O processor apaga a chave quando a data é substituída
type Cache struct {
	R   *redis.Client
	TTL time.Duration
}

func New(r *redis.Client, ttl time.Duration) *Cache { return &Cache{R: r, TTL: ttl} }

// GetDay devolve (registros, true) em cache hit; um dia vazio também é hit
func (c *Cache) GetDay(ctx context.Context, date string) ([]board.Record, bool, error) {
	b, err := c.R.Get(ctx, keys.Day(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []board.Record
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *Cache) SetDay(ctx context.Context, date string, records []board.Record) error {
	if records == nil {
		records = []board.Record{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, keys.Day(date), b, c.TTL).Err()
}
