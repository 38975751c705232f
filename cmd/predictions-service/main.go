package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/hr-prediction-board/internal/board"
	"github.com/radieske/hr-prediction-board/internal/predictions-service/cache"
	httpapi "github.com/radieske/hr-prediction-board/internal/predictions-service/http"
	"github.com/radieske/hr-prediction-board/internal/predictions-service/repo"
	"github.com/radieske/hr-prediction-board/internal/predictions-service/source"
	"github.com/radieske/hr-prediction-board/internal/predictions-service/ws"
	sharedcache "github.com/radieske/hr-prediction-board/internal/shared/cache"
	"github.com/radieske/hr-prediction-board/internal/shared/config"
	"github.com/radieske/hr-prediction-board/internal/shared/db"
	"github.com/radieske/hr-prediction-board/internal/shared/logger"
	"github.com/radieske/hr-prediction-board/internal/shared/metrics"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogFile)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	boardCfg, err := board.LoadConfig(cfg.BoardConfigPath)
	if err != nil {
		log.Fatal("board config", zap.String("path", cfg.BoardConfigPath), zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()

	// conecta com db Postgres
	pg, err := db.ConnectPostgres(connectCtx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	// conecta com cache Redis
	redisClient, err := sharedcache.ConnectRedis(connectCtx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	src := source.New(log, &repo.ReadRepo{DB: pg}, cache.New(redisClient, 10*time.Minute), boardCfg, 14)

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hr_api_requests_total", Help: "requisições REST por rota e status"},
		[]string{"route", "status"},
	)
	prometheus.MustRegister(requests)

	api := &httpapi.API{Source: src, Log: log, Requests: requests}
	hub := ws.NewHub(src, log, func(r *http.Request) bool { return true }, 5, 10)
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "hr_ws_sessions", Help: "sessões websocket abertas"},
		func() float64 { return float64(hub.Sessions()) },
	))

	// avisos do processor: data substituída -> recarrega e reenvia às sessões
	ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log)

	router := api.Router()
	router.Get("/ws", hub.HandleWS)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("http listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	// sobe servidor de métricas e health
	msrv := metrics.StartMetricsServer(log, cfg.MetricsPort,
		metrics.HealthCheck{Name: "postgres", Check: pg.PingContext},
		metrics.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	)

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = msrv.Shutdown(shutdownCtx)
	log.Info("predictions-service stopped")
}
