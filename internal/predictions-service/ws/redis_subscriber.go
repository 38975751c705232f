package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/hr-prediction-board/pkg/contracts/events"
)

// StartRedisSubscriber inicia uma goroutine que escuta os avisos de substituição de data
// publicados pelo processor e atualiza as sessões que exibem a data
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg == nil {
					continue
				}
				handlePayload(ctx, hub, log, msg.Payload)
			}
		}
	}()
}

func handlePayload(ctx context.Context, hub *Hub, log *zap.Logger, payload string) {
	var ev events.DayReplaced
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		log.Warn("ws subscriber unmarshal error", zap.Error(err))
		return
	}
	if ev.Date == "" {
		log.Warn("ws subscriber: replace notice without date", zap.String("batch_id", ev.BatchID))
		return
	}
	hub.DayReplaced(ctx, ev.Date)
}
