package board

import (
	"fmt"
	"time"
)

// ParseDate aceita YYYY-MM-DD com ou sem zeros à esquerda ("2024-5-1")
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-1-2", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Today devolve a data corrente no fuso configurado
func (c Config) Today(now time.Time) string {
	return now.In(c.Location()).Format(time.DateOnly)
}
