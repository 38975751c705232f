package board

import (
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// statDecimals é a precisão fixa dos valores numéricos nos tooltips
const statDecimals = 3

// Tooltip é o conteúdo do ícone de informação de uma linha
// Active=false é o indicador desabilitado usado quando o dicionário não existe
type Tooltip struct {
	Active bool     `json:"active"`
	Lines  []string `json:"lines,omitempty"`
}

// FormatStats gera uma linha "nome: valor" por estatística, na ordem original
func FormatStats(s *StatsSnapshot) Tooltip {
	if s == nil {
		return Tooltip{}
	}
	lines := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		val := e.Text
		if e.Numeric {
			val = formatNumber(e.Value)
		}
		lines = append(lines, e.Name+": "+val)
	}
	return Tooltip{Active: true, Lines: lines}
}

// FormatOdds gera "casa: over/under" por casa e, se houver, os horários locais
// de atualização e do jogo
func FormatOdds(q *OddsQuote, cfg Config) Tooltip {
	if q == nil {
		return Tooltip{}
	}
	lines := make([]string, 0, len(q.Sites)+2)
	for _, s := range q.Sites {
		lines = append(lines, s.Site+": "+cfg.side(s.Over)+"/"+cfg.side(s.Under))
	}
	if !q.UpdateTime.IsZero() {
		lines = append(lines, "Updated: "+cfg.clock(q.UpdateTime))
	}
	if !q.GameTime.IsZero() {
		lines = append(lines, "Game: "+cfg.clock(q.GameTime))
	}
	return Tooltip{Active: true, Lines: lines}
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', statDecimals, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(statDecimals)
}

func (c Config) side(price *int) string {
	if price == nil {
		return c.MissingOdds
	}
	return FormatAmerican(*price)
}

func (c Config) clock(t time.Time) string {
	return t.In(c.Location()).Format(c.TimeFormat)
}
