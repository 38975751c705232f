package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Outcome indica se o jogador rebateu home run no jogo da data
// A ordem numérica (No < Yes < Unknown) é a mesma usada na ordenação da coluna
type Outcome int8

const (
	OutcomeNo      Outcome = 0
	OutcomeYes     Outcome = 1
	OutcomeUnknown Outcome = 2 // jogo ainda não disputado
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNo:
		return "No"
	case OutcomeYes:
		return "Yes"
	default:
		return "---"
	}
}

// Record representa a previsão de um jogador para uma data
// Stats e Odds são opcionais: nil significa "sem dados" e nunca é erro
type Record struct {
	PlayerName      string         `json:"player_name"`
	Team            string         `json:"team"`
	OpposingPitcher string         `json:"opposing_pitcher"`
	Model           string         `json:"model"`
	Probability     float64        `json:"probability"`
	ModelOdds       int            `json:"model_odds"` // odds americanas justas do modelo
	Outcome         Outcome        `json:"outcome"`
	Stats           *StatsSnapshot `json:"stats,omitempty"`
	Odds            *OddsQuote     `json:"odds,omitempty"`
}

// Stat é uma entrada do snapshot de estatísticas pré-jogo
// Valores não numéricos ficam em Text e são exibidos como vieram
type Stat struct {
	Name    string
	Value   float64
	Text    string
	Numeric bool
}

// StatsSnapshot mantém as estatísticas na ordem em que chegaram
type StatsSnapshot struct {
	Entries []Stat
}

// SiteOdds são as odds over/under de uma casa; qualquer lado pode faltar
type SiteOdds struct {
	Site  string
	Over  *int
	Under *int
}

// OddsQuote agrupa as cotações por casa, preservando a ordem de inserção
type OddsQuote struct {
	Sites      []SiteOdds
	UpdateTime time.Time
	GameTime   time.Time
}

var errNotObject = errors.New("expected json object")

// decodeObject percorre um objeto JSON chave a chave, na ordem do documento
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errNotObject
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

// writeObject escreve um objeto JSON com as chaves na ordem recebida
func writeObject(n int, entry func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		k, v := entry(i)
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *StatsSnapshot) UnmarshalJSON(data []byte) error {
	var entries []Stat
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		st := Stat{Name: key}
		var f float64
		var str string
		switch {
		case string(raw) == "null":
		case json.Unmarshal(raw, &f) == nil:
			st.Value, st.Numeric = f, true
		case json.Unmarshal(raw, &str) == nil:
			st.Text = str
		default:
			st.Text = string(raw)
		}
		entries = append(entries, st)
		return nil
	})
	if err != nil {
		return err
	}
	s.Entries = entries
	return nil
}

func (s StatsSnapshot) MarshalJSON() ([]byte, error) {
	return writeObject(len(s.Entries), func(i int) (string, any) {
		e := s.Entries[i]
		if e.Numeric {
			return e.Name, e.Value
		}
		return e.Name, e.Text
	})
}

type sideJSON struct {
	Over  *int `json:"over,omitempty"`
	Under *int `json:"under,omitempty"`
}

type quoteJSON struct {
	Sites      json.RawMessage `json:"sites,omitempty"`
	UpdateTime *time.Time      `json:"update_time,omitempty"`
	GameTime   *time.Time      `json:"game_time,omitempty"`
}

func (q *OddsQuote) UnmarshalJSON(data []byte) error {
	var aux quoteJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var sites []SiteOdds
	if len(aux.Sites) > 0 && string(aux.Sites) != "null" {
		err := decodeObject(aux.Sites, func(key string, raw json.RawMessage) error {
			var side sideJSON
			if err := json.Unmarshal(raw, &side); err != nil {
				return fmt.Errorf("site %q: %w", key, err)
			}
			sites = append(sites, SiteOdds{Site: key, Over: side.Over, Under: side.Under})
			return nil
		})
		if err != nil {
			return err
		}
	}
	q.Sites = sites
	q.UpdateTime, q.GameTime = time.Time{}, time.Time{}
	if aux.UpdateTime != nil {
		q.UpdateTime = *aux.UpdateTime
	}
	if aux.GameTime != nil {
		q.GameTime = *aux.GameTime
	}
	return nil
}

func (q OddsQuote) MarshalJSON() ([]byte, error) {
	sites, err := writeObject(len(q.Sites), func(i int) (string, any) {
		s := q.Sites[i]
		return s.Site, sideJSON{Over: s.Over, Under: s.Under}
	})
	if err != nil {
		return nil, err
	}
	aux := quoteJSON{Sites: sites}
	if !q.UpdateTime.IsZero() {
		aux.UpdateTime = &q.UpdateTime
	}
	if !q.GameTime.IsZero() {
		aux.GameTime = &q.GameTime
	}
	return json.Marshal(aux)
}

// empty indica um odds_data sem casas nem horários ({} no formato legado)
func (q *OddsQuote) empty() bool {
	return len(q.Sites) == 0 && q.UpdateTime.IsZero() && q.GameTime.IsZero()
}
