package publisher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedkafka "github.com/radieske/hr-prediction-board/internal/shared/kafka"
	"github.com/radieske/hr-prediction-board/pkg/contracts/events"
)

// KafkaPublisher encapsula o writer Kafka e o logger.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewKafkaPublisher cria um publisher para o tópico de lotes de previsões.
func NewKafkaPublisher(brokers, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: sharedkafka.NewWriter(brokers, topic),
		log:    log,
	}
}

// EnsureTopic cria o tópico via controller do cluster; usado só em ambiente local/dev.
func EnsureTopic(ctx context.Context, brokers, topic string, log *zap.Logger) error {
	list := sharedkafka.Brokers(brokers)
	if len(list) == 0 {
		return fmt.Errorf("kafka brokers not provided")
	}

	conn, err := kafka.DialContext(ctx, "tcp", list[0])
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("kafka controller: %w", err)
	}

	cconn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer cconn.Close()

	// single-broker: uma partição mantém os lotes de uma data em ordem
	err = cconn.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if err == nil {
		log.Info("kafka topic created", zap.String("topic", topic))
	}
	return nil
}

// NewBatch monta o lote de uma data com um batch_id novo
func NewBatch(date string, preds []events.RawPrediction) events.PredictionBatch {
	if preds == nil {
		preds = []events.RawPrediction{}
	}
	return events.PredictionBatch{
		BatchID:     uuid.NewString(),
		Date:        date,
		Predictions: preds,
		PublishedAt: time.Now().UTC(),
	}
}

// Publish envia o lote; a chave é a data para que lotes do mesmo dia caiam na mesma partição.
func (p *KafkaPublisher) Publish(ctx context.Context, b events.PredictionBatch) error {
	if err := sharedkafka.WriteJSON(ctx, p.writer, b.Date, b); err != nil {
		p.log.Error("failed to publish prediction batch", zap.String("date", b.Date), zap.Error(err))
		return err
	}

	p.log.Info("published prediction batch",
		zap.String("batch_id", b.BatchID),
		zap.String("date", b.Date),
		zap.Int("predictions", len(b.Predictions)))
	return nil
}

// Close finaliza o writer e libera recursos associados.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
