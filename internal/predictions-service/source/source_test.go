package source

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/hr-prediction-board/internal/board"
)

type fakeRepo struct {
	mu    sync.Mutex
	days  map[string][]board.Record
	loads atomic.Int32
	err   error
	delay time.Duration
}

func (f *fakeRepo) LoadDay(ctx context.Context, date string) ([]board.Record, error) {
	f.loads.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("load without deadline")
	}
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]board.Record{}, f.days[date]...), nil
}

func (f *fakeRepo) set(date string, recs []board.Record) {
	f.mu.Lock()
	f.days[date] = recs
	f.mu.Unlock()
}

type fakeCache struct {
	mu   sync.Mutex
	days map[string][]board.Record
	err  error
}

func (f *fakeCache) GetDay(_ context.Context, date string) ([]board.Record, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	r, ok := f.days[date]
	return r, ok, nil
}

func (f *fakeCache) SetDay(_ context.Context, date string, recs []board.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.days[date] = recs
	return nil
}

func rec(name string, p float64) board.Record {
	return board.Record{PlayerName: name, Probability: p, ModelOdds: 300, Outcome: board.OutcomeUnknown}
}

func newSource(repo *fakeRepo, cache *fakeCache, maxDays int) *Source {
	return New(zap.NewNop(), repo, cache, board.DefaultConfig(), maxDays)
}

func TestDayReadsThroughCache(t *testing.T) {
	repo := &fakeRepo{days: map[string][]board.Record{"2024-05-01": {rec("A", 0.2), rec("B", 0.1)}}}
	cache := &fakeCache{days: map[string][]board.Record{}}
	src := newSource(repo, cache, 0)

	set, err := src.Day(context.Background(), "2024-05-01")
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 2 || set.Date != "2024-05-01" {
		t.Fatalf("set = %d records for %s", set.Len(), set.Date)
	}
	if _, ok := cache.days["2024-05-01"]; !ok {
		t.Error("loaded day was not written to the cache")
	}

	again, _ := src.Day(context.Background(), "2024-05-01")
	if again != set {
		t.Error("second call should reuse the in-memory set")
	}
	if n := repo.loads.Load(); n != 1 {
		t.Errorf("repo loads = %d, want 1", n)
	}
}

func TestDayPrefersCache(t *testing.T) {
	repo := &fakeRepo{days: map[string][]board.Record{}}
	cache := &fakeCache{days: map[string][]board.Record{"2024-05-01": {rec("Cached", 0.3)}}}
	src := newSource(repo, cache, 0)

	set, err := src.Day(context.Background(), "2024-05-01")
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 1 || set.Records()[0].PlayerName != "Cached" {
		t.Errorf("records = %+v", set.Records())
	}
	if repo.loads.Load() != 0 {
		t.Error("repo should not be hit on cache hit")
	}
}

func TestDayCacheFailureFallsBackToRepo(t *testing.T) {
	repo := &fakeRepo{days: map[string][]board.Record{"2024-05-01": {rec("A", 0.2)}}}
	cache := &fakeCache{days: map[string][]board.Record{}, err: errors.New("redis down")}
	src := newSource(repo, cache, 0)

	set, err := src.Day(context.Background(), "2024-05-01")
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 1 {
		t.Errorf("Len = %d, want 1", set.Len())
	}
}

func TestDayRepoError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("pg down")}
	src := newSource(repo, &fakeCache{days: map[string][]board.Record{}}, 0)
	if _, err := src.Day(context.Background(), "2024-05-01"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDayCoalescesConcurrentLoads(t *testing.T) {
	repo := &fakeRepo{days: map[string][]board.Record{"2024-05-01": {rec("A", 0.2)}}, delay: 20 * time.Millisecond}
	src := newSource(repo, &fakeCache{days: map[string][]board.Record{}}, 0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := src.Day(context.Background(), "2024-05-01"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if n := repo.loads.Load(); n != 1 {
		t.Errorf("repo loads = %d, want 1", n)
	}
}

func TestDaySharedLoadIgnoresCallerCancel(t *testing.T) {
	repo := &fakeRepo{days: map[string][]board.Record{"2024-05-01": {rec("A", 0.2)}}, delay: 30 * time.Millisecond}
	src := newSource(repo, &fakeCache{days: map[string][]board.Record{}}, 0)

	first, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var firstErr, otherErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, firstErr = src.Day(first, "2024-05-01")
	}()
	time.Sleep(5 * time.Millisecond)
	go func() {
		defer wg.Done()
		_, otherErr = src.Day(context.Background(), "2024-05-01")
	}()
	cancel()
	wg.Wait()

	if firstErr != nil || otherErr != nil {
		t.Fatalf("errors = %v / %v, want both nil", firstErr, otherErr)
	}
	if n := repo.loads.Load(); n != 1 {
		t.Errorf("repo loads = %d, want 1", n)
	}
}

func TestRefreshIgnoresCallerCancel(t *testing.T) {
	repo := &fakeRepo{days: map[string][]board.Record{"2024-05-01": {rec("A", 0.2)}}}
	src := newSource(repo, &fakeCache{days: map[string][]board.Record{}}, 0)
	if _, err := src.Day(context.Background(), "2024-05-01"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	set, err := src.Refresh(ctx, "2024-05-01")
	if err != nil || set == nil {
		t.Fatalf("Refresh = %v, %v", set, err)
	}
}

func TestRefresh(t *testing.T) {
	repo := &fakeRepo{days: map[string][]board.Record{"2024-05-01": {rec("A", 0.2)}}}
	cache := &fakeCache{days: map[string][]board.Record{}}
	src := newSource(repo, cache, 0)
	ctx := context.Background()

	if set, err := src.Refresh(ctx, "2024-05-01"); err != nil || set != nil {
		t.Fatalf("refresh of an unseen date = %v, %v; want nil, nil", set, err)
	}

	if _, err := src.Day(ctx, "2024-05-01"); err != nil {
		t.Fatal(err)
	}
	repo.set("2024-05-01", []board.Record{rec("B", 0.3), rec("C", 0.1)})

	set, err := src.Refresh(ctx, "2024-05-01")
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 2 {
		t.Errorf("refreshed Len = %d, want 2", set.Len())
	}
	cur, _ := src.Day(ctx, "2024-05-01")
	if cur != set {
		t.Error("Day should serve the refreshed set")
	}
}

func TestEviction(t *testing.T) {
	repo := &fakeRepo{days: map[string][]board.Record{}}
	src := newSource(repo, &fakeCache{days: map[string][]board.Record{}}, 2)
	ctx := context.Background()

	for _, d := range []string{"2024-05-01", "2024-05-02", "2024-05-01", "2024-05-03"} {
		if _, err := src.Day(ctx, d); err != nil {
			t.Fatal(err)
		}
	}
	if src.current("2024-05-02") != nil {
		t.Error("least recently used date should have been evicted")
	}
	if src.current("2024-05-01") == nil || src.current("2024-05-03") == nil {
		t.Error("recent dates should stay in memory")
	}
}

func TestDefaultDate(t *testing.T) {
	// 16:00 UTC = 12:00 em Nova York
	now := time.Date(2024, 5, 2, 16, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		days map[string][]board.Record
		want string
	}{
		{"today has data", map[string][]board.Record{"2024-05-02": {rec("A", 0.2)}}, "2024-05-02"},
		{"today empty falls back to yesterday", map[string][]board.Record{}, "2024-05-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSource(&fakeRepo{days: tt.days}, &fakeCache{days: map[string][]board.Record{}}, 0)
			got, err := src.DefaultDate(context.Background(), now)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("DefaultDate = %s, want %s", got, tt.want)
			}
		})
	}
}
