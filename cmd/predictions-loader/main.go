package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/hr-prediction-board/internal/predictions-loader/publisher"
	"github.com/radieske/hr-prediction-board/internal/predictions-loader/source"
	"github.com/radieske/hr-prediction-board/internal/shared/config"
	"github.com/radieske/hr-prediction-board/internal/shared/logger"
)

func main() {
	file := flag.String("file", "predictions.json", "export JSON do pipeline do modelo")
	date := flag.String("date", "", "publica só esta data (YYYY-MM-DD); vazio publica todas as datas do arquivo")
	flag.Parse()

	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "predictions-loader"
	}
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	days, err := source.ReadFile(*file)
	if err != nil {
		log.Fatal("read predictions", zap.String("file", *file), zap.Error(err))
	}
	if *date != "" {
		d, err := source.NormalizeDate(*date)
		if err != nil {
			log.Fatal("invalid -date", zap.Error(err))
		}
		days = []source.Day{source.Select(days, d)}
	}

	if cfg.Env == "local" || cfg.Env == "dev" {
		topicCtx, topicCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := publisher.EnsureTopic(topicCtx, cfg.KafkaBrokers, cfg.TopicPredictionBatches, log); err != nil {
			log.Warn("ensure topic failed", zap.Error(err))
		}
		topicCancel()
	}

	pub := publisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.TopicPredictionBatches, log)
	defer pub.Close()

	failed := 0
	for _, d := range days {
		if err := pub.Publish(ctx, publisher.NewBatch(d.Date, d.Predictions)); err != nil {
			failed++
			if ctx.Err() != nil {
				break
			}
		}
	}
	log.Info("loader finished", zap.Int("days", len(days)), zap.Int("failed", failed))
	if failed > 0 {
		log.Fatal("some batches were not published")
	}
}
