package board

import (
	"sync"
	"testing"
)

func TestViewStateTransitions(t *testing.T) {
	cfg := DefaultConfig()
	v := NewViewState(cfg)
	if v.PageSize != 10 || v.Sort != ColumnNone || v.PageIndex != 0 {
		t.Fatalf("NewViewState = %+v", v)
	}

	v = v.ToggleSort(ColumnProbability)
	if v.Sort != ColumnProbability || v.Direction != Ascending {
		t.Errorf("first click = %+v, want probability asc", v)
	}
	v = v.ToggleSort(ColumnProbability)
	if v.Direction != Descending {
		t.Errorf("second click direction = %q, want desc", v.Direction)
	}
	v = v.ToggleSort(ColumnProbability)
	if v.Direction != Ascending {
		t.Errorf("third click direction = %q, want asc", v.Direction)
	}
	v = v.ToggleSort(ColumnProbability).ToggleSort(ColumnTeam)
	if v.Sort != ColumnTeam || v.Direction != Ascending {
		t.Errorf("other column = %+v, want team asc", v)
	}

	v = v.WithPage(3)
	v2, err := v.WithPageSize(50, cfg)
	if err != nil {
		t.Fatalf("WithPageSize: %v", err)
	}
	if v2.PageIndex != 0 || v2.PageSize != 50 {
		t.Errorf("WithPageSize = %+v, want page 0 size 50", v2)
	}
	if v.PageIndex != 3 {
		t.Errorf("original state mutated: %+v", v)
	}
	if _, err := v.WithPageSize(15, cfg); err == nil {
		t.Error("expected error for page size 15")
	}
	if got := v.WithPage(-2).PageIndex; got != 0 {
		t.Errorf("WithPage(-2) = %d, want 0", got)
	}
}

func TestBuildPipeline(t *testing.T) {
	cfg := DefaultConfig()
	recs := sampleRecords()
	recs[0].Odds = &OddsQuote{Sites: []SiteOdds{
		{Site: "A", Over: intp(250), Under: intp(-350)},
		{Site: "B", Over: intp(240), Under: intp(-300)},
	}}
	recs[0].Stats = &StatsSnapshot{Entries: []Stat{{Name: "hrCount", Value: 20, Numeric: true}}}

	v := NewViewState(cfg).WithSearch("a").ToggleSort(ColumnProbability).ToggleSort(ColumnProbability)
	page := Build(recs, v, cfg)

	// todos os nomes contêm "a"
	if page.Total != 5 {
		t.Errorf("Total = %d, want 5", page.Total)
	}
	if page.PadRows != 5 {
		t.Errorf("PadRows = %d, want 5", page.PadRows)
	}
	if got := page.Rows[0].PlayerName; got != "Aaron Judge" {
		t.Errorf("first row = %q, want Aaron Judge", got)
	}
	judge := page.Rows[0]
	if judge.Best.NoData || judge.Best.Over.Price != 250 || judge.Best.Under.Price != -300 {
		t.Errorf("Best = %+v", judge.Best)
	}
	// fair +223: over 250 > 223 marca; under -300 > -223 não
	if !judge.Value.Over || judge.Value.Under {
		t.Errorf("Value = %+v, want over only", judge.Value)
	}
	if !judge.StatsTip.Active || judge.StatsTip.Lines[0] != "hrCount: 20.000" {
		t.Errorf("StatsTip = %+v", judge.StatsTip)
	}
	other := page.Rows[1]
	if !other.Best.NoData || other.Value.Any() || other.OddsTip.Active || other.StatsTip.Active {
		t.Errorf("row without data = %+v", other)
	}
}

func TestBuildSearchNarrowsTotal(t *testing.T) {
	cfg := DefaultConfig()
	page := Build(sampleRecords(), NewViewState(cfg).WithSearch("soto"), cfg)
	if page.Total != 1 || len(page.Rows) != 1 || page.PadRows != 9 {
		t.Errorf("page = total %d rows %d pad %d, want 1/1/9", page.Total, len(page.Rows), page.PadRows)
	}
}

func TestRecordSetViewMemoized(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MemoSize = 2
	set := NewRecordSet("2024-05-01", manyRecords(30), cfg)
	v := NewViewState(cfg)

	first := set.View(v)
	again := set.View(v)
	if !equalNames(rowNames(first), rowNames(again)) || first.Total != again.Total {
		t.Errorf("memoized page differs")
	}

	// estouro da memória limpa o cache sem mudar o resultado
	for page := 0; page < 4; page++ {
		got := set.View(v.WithPage(page))
		want := Build(set.Records(), v.WithPage(page), cfg)
		if !equalNames(rowNames(got), rowNames(want)) {
			t.Errorf("page %d: memo = %v, build = %v", page, rowNames(got), rowNames(want))
		}
	}
	if len(set.memo) > cfg.MemoSize {
		t.Errorf("memo size = %d, want <= %d", len(set.memo), cfg.MemoSize)
	}
}

func TestRecordSetConcurrentViews(t *testing.T) {
	cfg := DefaultConfig()
	set := NewRecordSet("2024-05-01", manyRecords(60), cfg)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := set.View(NewViewState(cfg).WithPage(i % 6))
			if p.Total != 60 {
				t.Errorf("Total = %d, want 60", p.Total)
			}
		}(i)
	}
	wg.Wait()
}

func TestStoreReplace(t *testing.T) {
	var s Store
	if s.Current() != nil {
		t.Fatal("Current() before load should be nil")
	}
	cfg := DefaultConfig()
	a := NewRecordSet("2024-05-01", manyRecords(3), cfg)
	b := NewRecordSet("2024-05-02", manyRecords(5), cfg)
	if prev := s.Replace(a); prev != nil {
		t.Errorf("prev = %v, want nil", prev)
	}
	if prev := s.Replace(b); prev != a {
		t.Errorf("prev = %v, want first set", prev)
	}
	if got := s.Current(); got.Date != "2024-05-02" || got.Len() != 5 {
		t.Errorf("Current = %s/%d", got.Date, got.Len())
	}
}

func TestRecordSetCopiesInput(t *testing.T) {
	recs := manyRecords(2)
	set := NewRecordSet("d", recs, DefaultConfig())
	recs[0].PlayerName = "changed"
	if set.Records()[0].PlayerName == "changed" {
		t.Error("RecordSet shares caller slice")
	}
}

func rowNames(p Page) []string {
	out := make([]string, len(p.Rows))
	for i, r := range p.Rows {
		out[i] = r.PlayerName
	}
	return out
}
