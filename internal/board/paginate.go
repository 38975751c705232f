package board

import "math"

// PageSizes são os tamanhos de página aceitos por padrão
var PageSizes = []int{10, 20, 50}

// Paginate devolve a fatia [page*size, page*size+size) e quantas linhas vazias
// completam a página: max(0, size - min(size, total - page*size))
// Página além do fim devolve fatia vazia; o padding cresce com a distância até o fim
// e satura em math.MaxInt em vez de estourar
func Paginate(records []Record, page, size int) ([]Record, int) {
	if size <= 0 {
		return nil, 0
	}
	if page < 0 {
		page = 0
	}
	total := len(records)

	// page*size só é calculado quando cabe em int
	if page >= math.MaxInt/size {
		return []Record{}, math.MaxInt
	}
	start := page * size
	if start >= total {
		// size - (total - start) = (page+1)*size - total, que cabe pela checagem acima
		return []Record{}, start + size - total
	}
	end := min(start+size, total)
	return records[start:end], size - (end - start)
}
