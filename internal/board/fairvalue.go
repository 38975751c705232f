package board

// Verdict indica quais lados estão acima do preço justo do modelo
// Os dois lados são avaliados de forma independente e podem ser marcados juntos
type Verdict struct {
	Over  bool `json:"over"`
	Under bool `json:"under"`
}

// CompareFairValue compara as melhores odds com as odds justas do modelo
// Over: fair < bestOver. Under: -fair < bestUnder
func CompareFairValue(fair int, best BestOdds) Verdict {
	var v Verdict
	if best.NoData {
		return v
	}
	if best.Over != nil && fair < best.Over.Price {
		v.Over = true
	}
	if best.Under != nil && -fair < best.Under.Price {
		v.Under = true
	}
	return v
}

// Any informa se algum lado foi marcado
func (v Verdict) Any() bool { return v.Over || v.Under }
