package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/radieske/hr-prediction-board/internal/board"
)

// PostgresRepo implementa a persistência das previsões em um banco Postgres
// stats e odds ficam em colunas JSON (não JSONB) para manter a ordem das chaves
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// BatchMeta identifica o lote que originou a substituição
type BatchMeta struct {
	BatchID    string
	Date       string
	Received   int
	Rejected   int
	ReceivedAt time.Time
}

var predictionColumns = []string{
	"game_date", "position", "player_name", "team", "opposing_pitcher", "model",
	"probability", "model_odds", "did_hit_hr", "stats", "odds_data", "batch_id",
}

// ReplaceDay troca todas as previsões da data em uma única transação
// Leitores nunca enxergam o dia parcialmente gravado
func (r *PostgresRepo) ReplaceDay(ctx context.Context, meta BatchMeta, records []board.Record) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op após commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM hr_predictions WHERE game_date = $1`, meta.Date); err != nil {
		return fmt.Errorf("delete day: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("hr_predictions", predictionColumns...))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	for i, rec := range records {
		stats, err := nullableJSON(rec.Stats)
		if err != nil {
			return fmt.Errorf("encode stats of %q: %w", rec.PlayerName, err)
		}
		odds, err := nullableJSON(rec.Odds)
		if err != nil {
			return fmt.Errorf("encode odds of %q: %w", rec.PlayerName, err)
		}
		if _, err := stmt.ExecContext(ctx,
			meta.Date, i, rec.PlayerName, rec.Team, rec.OpposingPitcher, rec.Model,
			rec.Probability, rec.ModelOdds, int(rec.Outcome), stats, odds, meta.BatchID,
		); err != nil {
			return fmt.Errorf("copy row %q: %w", rec.PlayerName, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}

	if err := insertHistory(ctx, tx, meta, len(records)); err != nil {
		return err
	}
	return tx.Commit()
}

// insertHistory registra o lote aplicado em hr_prediction_batches
func insertHistory(ctx context.Context, tx *sql.Tx, meta BatchMeta, accepted int) error {
	const q = `
		INSERT INTO hr_prediction_batches
		  (batch_id, game_date, received, accepted, rejected, received_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (batch_id) DO NOTHING
	`
	_, err := tx.ExecContext(ctx, q,
		meta.BatchID, meta.Date, meta.Received, accepted, meta.Rejected, meta.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch history: %w", err)
	}
	return nil
}

// nullableJSON grava NULL quando o campo opcional está ausente
func nullableJSON[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
