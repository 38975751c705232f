package board

import (
	"math"
	"strconv"
)

// ProbabilityToAmerican converte a probabilidade do modelo em odds americanas justas
// Zebras (p < 0.5) ficam positivas e favoritos negativos; fora de (0,1) não há odds
func ProbabilityToAmerican(p float64) (int, bool) {
	if p <= 0 || p >= 1 || math.IsNaN(p) {
		return 0, false
	}
	if p < 0.5 {
		return int(math.Round((1/p - 1) * 100)), true
	}
	return -int(math.Round(100 * p / (1 - p))), true
}

// FormatAmerican exibe odds americanas sempre com sinal (+150, -130)
func FormatAmerican(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
