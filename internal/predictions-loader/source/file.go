package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/radieske/hr-prediction-board/pkg/contracts/events"
)

// document é uma linha do export do pipeline do modelo: a previsão mais a data do jogo
type document struct {
	Date string `json:"date"`
	events.RawPrediction
}

// Day agrupa as previsões brutas de uma data, na ordem do arquivo
type Day struct {
	Date        string
	Predictions []events.RawPrediction
}

// ReadFile lê o export JSON (array de documentos) do caminho informado
func ReadFile(path string) ([]Day, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodifica o export e agrupa por data; datas saem em ordem crescente
func Read(r io.Reader) ([]Day, error) {
	var docs []document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", err)
	}

	byDate := map[string][]events.RawPrediction{}
	for i, d := range docs {
		date, err := NormalizeDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		byDate[date] = append(byDate[date], d.RawPrediction)
	}

	days := make([]Day, 0, len(byDate))
	for date, preds := range byDate {
		days = append(days, Day{Date: date, Predictions: preds})
	}
	slices.SortFunc(days, func(a, b Day) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		}
		return 0
	})
	return days, nil
}

// Select devolve só a data pedida; uma data ausente vira um dia vazio,
// o que limpa a data no processor
func Select(days []Day, date string) Day {
	for _, d := range days {
		if d.Date == date {
			return d
		}
	}
	return Day{Date: date}
}

var dateLayouts = []string{time.DateOnly, "2006/01/02", "01/02/2006", time.RFC3339}

// NormalizeDate aceita os formatos comuns do export e devolve YYYY-MM-DD
func NormalizeDate(s string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", s)
}
