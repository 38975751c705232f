package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/hr-prediction-board/internal/predictions-processor/cache"
	"github.com/radieske/hr-prediction-board/internal/predictions-processor/consumer"
	"github.com/radieske/hr-prediction-board/internal/predictions-processor/pubsub"
	"github.com/radieske/hr-prediction-board/internal/predictions-processor/repository"
	sharedcache "github.com/radieske/hr-prediction-board/internal/shared/cache"
	"github.com/radieske/hr-prediction-board/internal/shared/config"
	"github.com/radieske/hr-prediction-board/internal/shared/db"
	"github.com/radieske/hr-prediction-board/internal/shared/kafka"
	"github.com/radieske/hr-prediction-board/internal/shared/logger"
	"github.com/radieske/hr-prediction-board/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Inicializa dependências: Postgres e Redis
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()

	pg, err := db.ConnectPostgres(connectCtx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(connectCtx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Consumer group predictions-processor; falhas vão para a DLQ
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicPredictionBatches, "predictions-processor")
	defer reader.Close()
	dlqWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPredictionBatchesDLQ)
	defer dlqWriter.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "hr_proc_batches_consumed_total", Help: "lotes consumidos"})
	accepted := prometheus.NewCounter(prometheus.CounterOpts{Name: "hr_proc_predictions_accepted_total", Help: "previsões aceitas"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "hr_proc_predictions_rejected_total", Help: "previsões recusadas por motivo"}, []string{"reason"})
	replaced := prometheus.NewCounter(prometheus.CounterOpts{Name: "hr_proc_days_replaced_total", Help: "datas substituídas no banco"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "hr_proc_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, accepted, rejected, replaced, errorsBy)

	proc := &consumer.Processor{
		Log:         log,
		Reader:      reader,
		Repo:        repository.NewPostgresRepo(pg),
		Cache:       cache.NewRedisCache(redisClient),
		Broadcaster: pubsub.NewRedisBroadcaster(redisClient, cfg.RedisPubSubChannel),
		DLQ:         kafka.DeadLetter{W: dlqWriter},

		OnConsumed: func() { consumed.Inc() },
		OnAccepted: func(n int) { accepted.Add(float64(n)) },
		OnRejected: func(reason string) { rejected.WithLabelValues(reason).Inc() },
		OnPersist:  func() { replaced.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	msrv := metrics.StartMetricsServer(log, cfg.MetricsPort,
		metrics.HealthCheck{Name: "postgres", Check: pg.PingContext},
		metrics.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	)

	log.Info("predictions-processor started", zap.String("topic", cfg.TopicPredictionBatches))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutdownCancel()
	_ = msrv.Shutdown(shutdownCtx)
	log.Info("predictions-processor stopped")
}
