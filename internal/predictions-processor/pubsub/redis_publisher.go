package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/hr-prediction-board/pkg/contracts/events"
)

// RedisBroadcaster avisa o predictions-service (via Redis Pub/Sub) que uma data foi substituída
type RedisBroadcaster struct {
	r       *redis.Client
	channel string
}

func NewRedisBroadcaster(r *redis.Client, channel string) *RedisBroadcaster {
	return &RedisBroadcaster{r: r, channel: channel}
}

// PublishReplaced publica o aviso DayReplaced no canal configurado
func (b *RedisBroadcaster) PublishReplaced(ctx context.Context, ev events.DayReplaced) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.r.Publish(ctx, b.channel, payload).Err()
}
