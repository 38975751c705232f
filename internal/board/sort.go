package board

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Column identifica uma coluna ordenável da tabela
type Column string

const (
	ColumnNone            Column = ""
	ColumnPlayerName      Column = "player_name"
	ColumnTeam            Column = "team"
	ColumnOpposingPitcher Column = "opposing_pitcher"
	ColumnModel           Column = "model"
	ColumnProbability     Column = "probability"
	ColumnModelOdds       Column = "model_odds"
	ColumnOutcome         Column = "outcome"
)

// Columns lista as colunas na ordem de exibição
var Columns = []Column{
	ColumnPlayerName,
	ColumnTeam,
	ColumnOpposingPitcher,
	ColumnModel,
	ColumnProbability,
	ColumnModelOdds,
	ColumnOutcome,
}

// ParseColumn aceita o identificador da coluna; vazio equivale a "sem ordenação"
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	if c == ColumnNone || slices.Contains(Columns, c) {
		return c, nil
	}
	return ColumnNone, fmt.Errorf("unknown sort column %q", s)
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "", Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort direction %q", s)
}

// compareBy devolve o comparador natural da coluna
func compareBy(c Column) func(a, b Record) int {
	switch c {
	case ColumnPlayerName:
		return func(a, b Record) int { return strings.Compare(a.PlayerName, b.PlayerName) }
	case ColumnTeam:
		return func(a, b Record) int { return strings.Compare(a.Team, b.Team) }
	case ColumnOpposingPitcher:
		return func(a, b Record) int { return strings.Compare(a.OpposingPitcher, b.OpposingPitcher) }
	case ColumnModel:
		return func(a, b Record) int { return strings.Compare(a.Model, b.Model) }
	case ColumnProbability:
		return func(a, b Record) int { return cmp.Compare(a.Probability, b.Probability) }
	case ColumnModelOdds:
		return func(a, b Record) int { return cmp.Compare(a.ModelOdds, b.ModelOdds) }
	case ColumnOutcome:
		return func(a, b Record) int { return cmp.Compare(a.Outcome, b.Outcome) }
	}
	return nil
}

// Sort ordena uma cópia dos registros pela coluna e direção
// ColumnNone mantém a ordem de entrada; empates preservam a ordem original (sort estável)
func Sort(records []Record, c Column, dir Direction) []Record {
	less := compareBy(c)
	if less == nil {
		return records
	}
	out := slices.Clone(records)
	if dir == Descending {
		slices.SortStableFunc(out, func(a, b Record) int { return less(b, a) })
	} else {
		slices.SortStableFunc(out, less)
	}
	return out
}
