package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/radieske/hr-prediction-board/internal/board"
)

// loadTimeout limita uma carga compartilhada (Redis + Postgres) de uma data
const loadTimeout = 10 * time.Second

// DayLoader lê o conjunto de uma data no banco
type DayLoader interface {
	LoadDay(ctx context.Context, date string) ([]board.Record, error)
}

// DayCache é o cache compartilhado entre instâncias (Redis)
type DayCache interface {
	GetDay(ctx context.Context, date string) ([]board.Record, bool, error)
	SetDay(ctx context.Context, date string, records []board.Record) error
}

// Source busca o conjunto de uma data e o mantém em memória, um Store por data
// Buscas concorrentes da mesma data viram uma única leitura (singleflight)
type Source struct {
	log   *zap.Logger
	repo  DayLoader
	cache DayCache
	cfg   board.Config

	// datas mantidas em memória; acima disso a mais antiga acessada sai
	maxDays int

	group singleflight.Group

	mu     sync.Mutex
	stores map[string]*entry
	tick   uint64
}

type entry struct {
	store board.Store
	used  uint64
}

func New(log *zap.Logger, repo DayLoader, cache DayCache, cfg board.Config, maxDays int) *Source {
	if maxDays <= 0 {
		maxDays = 14
	}
	return &Source{
		log:     log,
		repo:    repo,
		cache:   cache,
		cfg:     cfg,
		maxDays: maxDays,
		stores:  make(map[string]*entry),
	}
}

// Config devolve as opções da tabela usadas para montar os conjuntos
func (s *Source) Config() board.Config { return s.cfg }

// Day devolve o conjunto da data, carregando na primeira vez
func (s *Source) Day(ctx context.Context, date string) (*board.RecordSet, error) {
	if set := s.current(date); set != nil {
		return set, nil
	}
	v, err, _ := s.group.Do(date, func() (any, error) {
		if set := s.current(date); set != nil {
			return set, nil
		}
		// a carga é compartilhada: não pode morrer com o cancelamento de quem chegou primeiro
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		records, err := s.fetch(loadCtx, date, true)
		if err != nil {
			return nil, err
		}
		set := board.NewRecordSet(date, records, s.cfg)
		s.install(date, set)
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*board.RecordSet), nil
}

// Refresh recarrega do banco uma data já em memória, após um aviso de substituição
// Devolve nil quando ninguém estava olhando a data
func (s *Source) Refresh(ctx context.Context, date string) (*board.RecordSet, error) {
	if s.current(date) == nil {
		return nil, nil
	}
	v, err, _ := s.group.Do("refresh:"+date, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		records, err := s.fetch(loadCtx, date, false)
		if err != nil {
			return nil, err
		}
		set := board.NewRecordSet(date, records, s.cfg)
		s.install(date, set)
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*board.RecordSet), nil
}

// DefaultDate é a data de hoje no fuso configurado, ou ontem se hoje ainda não tem previsões
func (s *Source) DefaultDate(ctx context.Context, now time.Time) (string, error) {
	today := s.cfg.Today(now)
	set, err := s.Day(ctx, today)
	if err != nil {
		return "", err
	}
	if set.Len() > 0 {
		return today, nil
	}
	return now.In(s.cfg.Location()).AddDate(0, 0, -1).Format(time.DateOnly), nil
}

func (s *Source) fetch(ctx context.Context, date string, useCache bool) ([]board.Record, error) {
	if useCache {
		records, ok, err := s.cache.GetDay(ctx, date)
		if err != nil {
			s.log.Warn("redis get failed", zap.String("date", date), zap.Error(err))
		}
		if ok {
			return records, nil
		}
	}

	records, err := s.repo.LoadDay(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load day %s: %w", date, err)
	}
	if err := s.cache.SetDay(ctx, date, records); err != nil {
		s.log.Warn("redis set failed", zap.String("date", date), zap.Error(err))
	}
	return records, nil
}

func (s *Source) current(date string) *board.RecordSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.stores[date]
	if !ok {
		return nil
	}
	s.tick++
	e.used = s.tick
	return e.store.Current()
}

func (s *Source) install(date string, set *board.RecordSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.stores[date]
	if !ok {
		if len(s.stores) >= s.maxDays {
			s.evictLocked()
		}
		e = &entry{}
		s.stores[date] = e
	}
	s.tick++
	e.used = s.tick
	e.store.Replace(set)
}

func (s *Source) evictLocked() {
	var oldest string
	var oldestUsed uint64
	for d, e := range s.stores {
		if oldest == "" || e.used < oldestUsed {
			oldest, oldestUsed = d, e.used
		}
	}
	delete(s.stores, oldest)
}
