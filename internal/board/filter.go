package board

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter mantém os registros cujo nome do jogador contém o termo, sem diferenciar maiúsculas
// Termo vazio devolve a entrada como veio
func Filter(records []Record, term string) []Record {
	if term == "" {
		return records
	}
	fold := cases.Fold() // Caser tem estado, não compartilhar entre goroutines
	needle := fold.String(term)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(fold.String(r.PlayerName), needle) {
			out = append(out, r)
		}
	}
	return out
}
