package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/hr-prediction-board/internal/board"
	"github.com/radieske/hr-prediction-board/internal/predictions-service/dto"
)

type fakeSource struct {
	cfg  board.Config
	days map[string][]board.Record
	err  error
	def  string
}

func (f *fakeSource) Day(_ context.Context, date string) (*board.RecordSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return board.NewRecordSet(date, f.days[date], f.cfg), nil
}

func (f *fakeSource) DefaultDate(context.Context, time.Time) (string, error) { return f.def, f.err }

func (f *fakeSource) Config() board.Config { return f.cfg }

func players(n int) []board.Record {
	out := make([]board.Record, n)
	for i := range out {
		out[i] = board.Record{
			PlayerName:  string(rune('A'+i)) + " Player",
			Probability: float64(i+1) / 100,
			ModelOdds:   100 + i,
			Outcome:     board.OutcomeUnknown,
		}
	}
	return out
}

func newAPI(src *fakeSource) http.Handler {
	api := &API{Source: src, Log: zap.NewNop()}
	return api.Router()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetPredictions(t *testing.T) {
	src := &fakeSource{
		cfg:  board.DefaultConfig(),
		days: map[string][]board.Record{"2024-05-01": players(25)},
		def:  "2024-05-01",
	}
	h := newAPI(src)

	tests := []struct {
		name      string
		query     string
		wantRows  int
		wantTotal int
		wantPad   int
		wantFirst string
	}{
		{"default view", "date=2024-05-01", 10, 25, 0, "A Player"},
		{"unpadded date", "date=2024-5-1", 10, 25, 0, "A Player"},
		{"last page pads", "date=2024-05-01&page=2", 5, 25, 5, "U Player"},
		{"page size", "date=2024-05-01&pageSize=20&page=1", 5, 25, 15, "U Player"},
		{"sort desc", "date=2024-05-01&sort=probability&order=desc", 10, 25, 0, "Y Player"},
		{"search", "date=2024-05-01&search=c%20pl", 1, 1, 9, "C Player"},
		{"no date uses default", "", 10, 25, 0, "A Player"},
		{"empty day", "date=2024-06-01", 0, 0, 10, ""},
		{"page far past the end", "date=2024-05-01&page=1000000000000000000", 0, 25, math.MaxInt, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, "/v1/predictions?"+tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			var page dto.Page
			if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
				t.Fatal(err)
			}
			if len(page.Rows) != tt.wantRows || page.Total != tt.wantTotal || page.PadRows != tt.wantPad {
				t.Errorf("rows=%d total=%d pad=%d, want %d/%d/%d",
					len(page.Rows), page.Total, page.PadRows, tt.wantRows, tt.wantTotal, tt.wantPad)
			}
			if tt.wantFirst != "" && page.Rows[0].PlayerName != tt.wantFirst {
				t.Errorf("first row = %s, want %s", page.Rows[0].PlayerName, tt.wantFirst)
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Error("missing CORS header")
			}
		})
	}
}

func TestGetPredictionsBadRequest(t *testing.T) {
	h := newAPI(&fakeSource{cfg: board.DefaultConfig(), days: map[string][]board.Record{}})
	for _, q := range []string{
		"date=yesterday",
		"date=2024-05-01&sort=salary",
		"date=2024-05-01&order=sideways",
		"date=2024-05-01&pageSize=15",
		"date=2024-05-01&pageSize=ten",
		"date=2024-05-01&page=-1",
	} {
		t.Run(q, func(t *testing.T) {
			rec := get(t, h, "/v1/predictions?"+q)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestGetPredictionsSourceError(t *testing.T) {
	h := newAPI(&fakeSource{cfg: board.DefaultConfig(), err: errors.New("pg down")})
	rec := get(t, h, "/v1/predictions?date=2024-05-01")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestGetDefaultDate(t *testing.T) {
	h := newAPI(&fakeSource{cfg: board.DefaultConfig(), def: "2024-04-30"})
	rec := get(t, h, "/v1/predictions/default-date")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["date"] != "2024-04-30" {
		t.Errorf("date = %q", body["date"])
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newAPI(&fakeSource{cfg: board.DefaultConfig()})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/v1/predictions", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestParseViewKeepsPageAfterPageSize(t *testing.T) {
	cfg := board.DefaultConfig()
	v, err := ParseView(url.Values{"pageSize": {"20"}, "page": {"3"}}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if v.PageSize != 20 || v.PageIndex != 3 {
		t.Errorf("view = %+v", v)
	}
}
