package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/radieske/hr-prediction-board/pkg/contracts/events"
)

var (
	ErrMissingPlayerName = errors.New("player_name is missing")
	ErrDuplicatePlayer   = errors.New("player_name already present for this date")
	ErrProbabilityRange  = errors.New("probability outside [0,1]")
	ErrZeroOdds          = errors.New("american odds must be non-zero integers")
	ErrNoFairOdds        = errors.New("no fair odds: model_odds absent and probability is 0 or 1")
	ErrBadOutcome        = errors.New("did_hit_hr must be 0, 1 or 2")
	ErrMalformedStats    = errors.New("malformed stats")
	ErrMalformedOdds     = errors.New("malformed odds_data")
)

// Rejection descreve um registro recusado na ingestão
type Rejection struct {
	Index  int
	Player string
	Err    error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("prediction #%d (%q): %v", r.Index, r.Player, r.Err)
}

func (r Rejection) Unwrap() error { return r.Err }

// Ingest valida e normaliza os documentos brutos de uma data
// Registros inválidos são recusados individualmente; os demais seguem na ordem recebida
func Ingest(raw []events.RawPrediction) ([]Record, []Rejection) {
	records := make([]Record, 0, len(raw))
	var rejected []Rejection
	seen := make(map[string]struct{}, len(raw))

	for i, p := range raw {
		rec, err := normalize(p)
		if err == nil {
			if _, dup := seen[rec.PlayerName]; dup {
				err = ErrDuplicatePlayer
			}
		}
		if err != nil {
			name := ""
			if p.PlayerName != nil {
				name = *p.PlayerName
			}
			rejected = append(rejected, Rejection{Index: i, Player: name, Err: err})
			continue
		}
		seen[rec.PlayerName] = struct{}{}
		records = append(records, rec)
	}
	return records, rejected
}

func normalize(p events.RawPrediction) (Record, error) {
	if p.PlayerName == nil || strings.TrimSpace(*p.PlayerName) == "" {
		return Record{}, ErrMissingPlayerName
	}
	if math.IsNaN(p.Probability) || p.Probability < 0 || p.Probability > 1 {
		return Record{}, ErrProbabilityRange
	}
	rec := Record{
		PlayerName:      strings.TrimSpace(*p.PlayerName),
		Team:            p.Team,
		OpposingPitcher: p.OpposingPitcher,
		Model:           p.Model,
		Probability:     p.Probability,
		Outcome:         OutcomeUnknown,
	}

	switch {
	case p.ModelOdds != nil:
		o := *p.ModelOdds
		if o == 0 || o != math.Trunc(o) || math.Abs(o) > math.MaxInt32 {
			return Record{}, fmt.Errorf("model_odds %v: %w", o, ErrZeroOdds)
		}
		rec.ModelOdds = int(o)
	default:
		odds, ok := ProbabilityToAmerican(p.Probability)
		if !ok {
			return Record{}, ErrNoFairOdds
		}
		rec.ModelOdds = odds
	}

	if p.DidHitHR != nil {
		// confere o valor inteiro antes de converter: Outcome é int8 e 258 viraria 2
		switch h := *p.DidHitHR; h {
		case int(OutcomeNo), int(OutcomeYes), int(OutcomeUnknown):
			rec.Outcome = Outcome(h)
		default:
			return Record{}, fmt.Errorf("did_hit_hr %d: %w", h, ErrBadOutcome)
		}
	}

	if present(p.Stats) {
		var s StatsSnapshot
		if err := json.Unmarshal(p.Stats, &s); err != nil {
			return Record{}, fmt.Errorf("%w: %v", ErrMalformedStats, err)
		}
		rec.Stats = &s
	}

	if present(p.OddsData) {
		var q OddsQuote
		if err := json.Unmarshal(p.OddsData, &q); err != nil {
			return Record{}, fmt.Errorf("%w: %v", ErrMalformedOdds, err)
		}
		for _, s := range q.Sites {
			if (s.Over != nil && *s.Over == 0) || (s.Under != nil && *s.Under == 0) {
				return Record{}, fmt.Errorf("site %q: %w", s.Site, ErrZeroOdds)
			}
		}
		// {} era o default do servidor legado para "sem odds"
		if !q.empty() {
			rec.Odds = &q
		}
	}
	return rec, nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
