package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/radieske/hr-prediction-board/internal/board"
)

type ReadRepo struct {
	DB *sql.DB
}

// LoadDay lê as previsões da data, da maior probabilidade para a menor
// (a mesma ordem em que a tabela aparece antes de qualquer ordenação)
func (r *ReadRepo) LoadDay(ctx context.Context, date string) ([]board.Record, error) {
	const q = `
		SELECT player_name, team, opposing_pitcher, model, probability, model_odds,
		       did_hit_hr, stats, odds_data
		FROM hr_predictions
		WHERE game_date = $1
		ORDER BY probability DESC, position;
	`
	rows, err := r.DB.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []board.Record{}
	for rows.Next() {
		var (
			rec         board.Record
			outcome     int16
			stats, odds []byte
		)
		if err := rows.Scan(&rec.PlayerName, &rec.Team, &rec.OpposingPitcher, &rec.Model,
			&rec.Probability, &rec.ModelOdds, &outcome, &stats, &odds); err != nil {
			return nil, err
		}
		rec.Outcome = board.Outcome(outcome)
		if stats != nil {
			rec.Stats = &board.StatsSnapshot{}
			if err := json.Unmarshal(stats, rec.Stats); err != nil {
				return nil, fmt.Errorf("stats of %q: %w", rec.PlayerName, err)
			}
		}
		if odds != nil {
			rec.Odds = &board.OddsQuote{}
			if err := json.Unmarshal(odds, rec.Odds); err != nil {
				return nil, fmt.Errorf("odds of %q: %w", rec.PlayerName, err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
