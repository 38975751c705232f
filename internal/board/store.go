package board

import (
	"slices"
	"sync"
	"sync/atomic"
)

// RecordSet é o conjunto imutável de registros de uma data
// Guarda as páginas já montadas por ViewState; a memória não altera o resultado
type RecordSet struct {
	Date    string
	records []Record
	cfg     Config

	mu   sync.Mutex
	memo map[ViewState]Page
}

// NewRecordSet copia os registros; quem chamou pode descartar o slice original
func NewRecordSet(date string, records []Record, cfg Config) *RecordSet {
	return &RecordSet{
		Date:    date,
		records: slices.Clone(records),
		cfg:     cfg,
		memo:    make(map[ViewState]Page),
	}
}

func (s *RecordSet) Len() int { return len(s.records) }

// Records devolve uma cópia dos registros na ordem de chegada
func (s *RecordSet) Records() []Record { return slices.Clone(s.records) }

// View monta (ou reaproveita) a página para o estado de visualização
func (s *RecordSet) View(v ViewState) Page {
	if v.PageSize <= 0 {
		v.PageSize = s.cfg.DefaultPageSize
	}
	if v.PageIndex < 0 {
		v.PageIndex = 0
	}
	s.mu.Lock()
	p, ok := s.memo[v]
	s.mu.Unlock()
	if ok {
		return p
	}

	p = Build(s.records, v, s.cfg)

	s.mu.Lock()
	if len(s.memo) >= s.cfg.MemoSize {
		clear(s.memo)
	}
	s.memo[v] = p
	s.mu.Unlock()
	return p
}

// Store guarda o conjunto da data selecionada
// Troca de data substitui o conjunto inteiro de uma vez, sem atualização parcial
type Store struct {
	cur atomic.Pointer[RecordSet]
}

// Replace instala o novo conjunto e devolve o anterior (ou nil)
func (s *Store) Replace(set *RecordSet) *RecordSet {
	return s.cur.Swap(set)
}

// Current devolve o conjunto atual, somente leitura; nil antes da primeira carga
func (s *Store) Current() *RecordSet {
	return s.cur.Load()
}
