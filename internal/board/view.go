package board

import "fmt"

// ViewState é o estado de visualização da tabela: busca, ordenação e paginação
// É um valor imutável; cada interação gera um novo estado
type ViewState struct {
	Search    string    `json:"search"`
	Sort      Column    `json:"sort"`
	Direction Direction `json:"direction"`
	PageIndex int       `json:"page"`
	PageSize  int       `json:"pageSize"`
}

// NewViewState é o estado inicial: sem busca, sem ordenação, primeira página
func NewViewState(cfg Config) ViewState {
	return ViewState{Direction: Ascending, PageSize: cfg.DefaultPageSize}
}

func (v ViewState) WithSearch(term string) ViewState {
	v.Search = term
	return v
}

// ToggleSort imita o clique no cabeçalho: mesma coluna em asc passa para desc,
// qualquer outro caso ordena a coluna em asc
func (v ViewState) ToggleSort(c Column) ViewState {
	desc := v.Sort == c && v.Direction == Ascending
	v.Sort = c
	v.Direction = Ascending
	if desc {
		v.Direction = Descending
	}
	return v
}

func (v ViewState) WithSort(c Column, dir Direction) ViewState {
	v.Sort, v.Direction = c, dir
	return v
}

func (v ViewState) WithPage(page int) ViewState {
	if page < 0 {
		page = 0
	}
	v.PageIndex = page
	return v
}

// WithPageSize troca o tamanho da página e volta para a primeira
func (v ViewState) WithPageSize(size int, cfg Config) (ViewState, error) {
	if !cfg.AllowsPageSize(size) {
		return v, fmt.Errorf("page size %d not allowed, use one of %v", size, cfg.PageSizes)
	}
	v.PageSize = size
	v.PageIndex = 0
	return v, nil
}

// Row é uma linha visível já anotada com melhores odds, valor e tooltips
type Row struct {
	Record
	Best     BestOdds `json:"best"`
	Value    Verdict  `json:"value"`
	StatsTip Tooltip  `json:"statsTooltip"`
	OddsTip  Tooltip  `json:"oddsTooltip"`
}

// Page é o que a superfície de renderização recebe
type Page struct {
	Rows      []Row `json:"rows"`
	Total     int   `json:"total"` // registros após filtro, para os controles de paginação
	PageIndex int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	PadRows   int   `json:"padRows"`
}

// Build roda filtro, ordenação e paginação sobre todos os registros e anota
// apenas as linhas da página visível
func Build(records []Record, v ViewState, cfg Config) Page {
	size := v.PageSize
	if size <= 0 {
		size = cfg.DefaultPageSize
	}
	sorted := Sort(Filter(records, v.Search), v.Sort, v.Direction)
	visible, pad := Paginate(sorted, v.PageIndex, size)

	rows := make([]Row, 0, len(visible))
	for _, r := range visible {
		best := Aggregate(r.Odds)
		rows = append(rows, Row{
			Record:   r,
			Best:     best,
			Value:    CompareFairValue(r.ModelOdds, best),
			StatsTip: FormatStats(r.Stats),
			OddsTip:  FormatOdds(r.Odds, cfg),
		})
	}
	return Page{
		Rows:      rows,
		Total:     len(sorted),
		PageIndex: max(v.PageIndex, 0),
		PageSize:  size,
		PadRows:   pad,
	}
}
