package events

import (
	"encoding/json"
	"time"
)

// Evento publicado no tópico "hr_prediction_batches"
// Um lote substitui por inteiro as previsões da data; não há atualização parcial
type PredictionBatch struct {
	BatchID     string          `json:"batch_id"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Predictions []RawPrediction `json:"predictions"`
	PublishedAt time.Time       `json:"published_at"`
}

// RawPrediction segue o documento gravado pelo pipeline do modelo
// Campos opcionais chegam como ponteiro ou JSON bruto e só são validados na ingestão
type RawPrediction struct {
	PlayerName      *string         `json:"player_name"`
	Team            string          `json:"team,omitempty"`
	OpposingPitcher string          `json:"opposing_pitcher,omitempty"`
	Model           string          `json:"model,omitempty"`
	Probability     float64         `json:"home_run_odds"` // probabilidade de home run (0..1)
	ModelOdds       *float64        `json:"model_odds,omitempty"`
	DidHitHR        *int            `json:"did_hit_hr,omitempty"` // 0=não, 1=sim, 2=jogo não disputado
	Stats           json.RawMessage `json:"stats,omitempty"`
	OddsData        json.RawMessage `json:"odds_data,omitempty"`
}

// Aviso publicado no Redis Pub/Sub quando o conjunto de uma data é substituído
type DayReplaced struct {
	Date    string    `json:"date"`
	BatchID string    `json:"batch_id"`
	Count   int       `json:"count"`
	Ts      time.Time `json:"ts"`
}
