package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/hr-prediction-board/internal/board"
	"github.com/radieske/hr-prediction-board/internal/predictions-processor/repository"
	"github.com/radieske/hr-prediction-board/pkg/contracts/events"
)

// MessageReader é o subconjunto do kafka.Reader usado pelo processor
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type DayRepo interface {
	ReplaceDay(ctx context.Context, meta repository.BatchMeta, records []board.Record) error
}

type DayCache interface {
	Invalidate(ctx context.Context, date string) error
}

type Broadcaster interface {
	PublishReplaced(ctx context.Context, ev events.DayReplaced) error
}

// DeadLetter recebe lotes que não puderam ser aplicados
type DeadLetter interface {
	Send(ctx context.Context, key string, payload []byte) error
}

var errAllRejected = errors.New("every prediction in the batch was rejected")

// Processor consome lotes de previsões do Kafka, valida na ingestão, substitui a data
// no Postgres, invalida o cache e avisa o predictions-service
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log         *zap.Logger
	Reader      MessageReader
	Repo        DayRepo
	Cache       DayCache
	Broadcaster Broadcaster
	DLQ         DeadLetter // opcional

	OnConsumed func()              // métricas (counter++)
	OnAccepted func(n int)         // registros válidos
	OnRejected func(reason string) // registros recusados por motivo
	OnPersist  func()              // dia substituído com sucesso
	OnError    func(string)        // métricas por fase
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		if err := p.Handle(ctx, m.Value); err != nil {
			p.Log.Warn("batch not applied", zap.ByteString("key", m.Key), zap.Error(err))
		}
	}
}

// Handle aplica um lote: decodifica, valida, substitui o dia e avisa os interessados
func (p *Processor) Handle(ctx context.Context, value []byte) error {
	var batch events.PredictionBatch
	if err := json.Unmarshal(value, &batch); err != nil {
		p.fail("decode")
		p.deadLetter(ctx, "invalid", value)
		return fmt.Errorf("decode batch: %w", err)
	}
	if _, err := time.Parse(time.DateOnly, batch.Date); err != nil {
		p.fail("decode")
		p.deadLetter(ctx, batch.BatchID, value)
		return fmt.Errorf("batch %s: invalid date %q: %w", batch.BatchID, batch.Date, err)
	}

	log := p.Log.With(zap.String("batch_id", batch.BatchID), zap.String("date", batch.Date))

	records, rejected := board.Ingest(batch.Predictions)
	for _, r := range rejected {
		log.Warn("prediction rejected", zap.Int("index", r.Index), zap.String("player", r.Player), zap.Error(r.Err))
		if p.OnRejected != nil {
			p.OnRejected(RejectReason(r.Err))
		}
	}
	if len(records) == 0 && len(batch.Predictions) > 0 {
		// não apaga um dia válido por causa de um lote inteiro inválido
		p.fail("validate")
		p.deadLetter(ctx, batch.BatchID, value)
		return errAllRejected
	}
	if p.OnAccepted != nil {
		p.OnAccepted(len(records))
	}

	meta := repository.BatchMeta{
		BatchID:    batch.BatchID,
		Date:       batch.Date,
		Received:   len(batch.Predictions),
		Rejected:   len(rejected),
		ReceivedAt: time.Now().UTC(),
	}
	if err := p.Repo.ReplaceDay(ctx, meta, records); err != nil {
		p.fail("db_replace")
		p.deadLetter(ctx, batch.BatchID, value)
		return fmt.Errorf("replace day: %w", err)
	}
	if p.OnPersist != nil {
		p.OnPersist() // callback de métrica: persistência concluída
	}

	// cache e broadcast não desfazem a persistência; só registram a falha
	if err := p.Cache.Invalidate(ctx, batch.Date); err != nil {
		log.Warn("redis invalidate failed", zap.Error(err))
		p.fail("cache")
	}
	ev := events.DayReplaced{Date: batch.Date, BatchID: batch.BatchID, Count: len(records), Ts: time.Now().UTC()}
	if err := p.Broadcaster.PublishReplaced(ctx, ev); err != nil {
		log.Warn("replace broadcast failed", zap.Error(err))
		p.fail("broadcast")
	}

	log.Info("day replaced", zap.Int("accepted", len(records)), zap.Int("rejected", len(rejected)))
	return nil
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}

func (p *Processor) deadLetter(ctx context.Context, key string, value []byte) {
	if p.DLQ == nil {
		return
	}
	if err := p.DLQ.Send(ctx, key, value); err != nil {
		p.Log.Error("dlq publish failed", zap.String("key", key), zap.Error(err))
	}
}

// RejectReason traduz o erro de ingestão no rótulo usado nas métricas
func RejectReason(err error) string {
	switch {
	case errors.Is(err, board.ErrMissingPlayerName):
		return "missing_player"
	case errors.Is(err, board.ErrDuplicatePlayer):
		return "duplicate_player"
	case errors.Is(err, board.ErrProbabilityRange):
		return "probability_range"
	case errors.Is(err, board.ErrZeroOdds):
		return "bad_odds"
	case errors.Is(err, board.ErrNoFairOdds):
		return "no_fair_odds"
	case errors.Is(err, board.ErrBadOutcome):
		return "bad_outcome"
	case errors.Is(err, board.ErrMalformedStats):
		return "malformed_stats"
	case errors.Is(err, board.ErrMalformedOdds):
		return "malformed_odds"
	}
	return "other"
}
