package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/hr-prediction-board/internal/board"
	"github.com/radieske/hr-prediction-board/internal/predictions-service/dto"
)

// DaySource é o que a API precisa da camada de dados
type DaySource interface {
	Day(ctx context.Context, date string) (*board.RecordSet, error)
	DefaultDate(ctx context.Context, now time.Time) (string, error)
	Config() board.Config
}

// API expõe os endpoints REST da tabela de previsões
type API struct {
	Source DaySource
	Log    *zap.Logger
	Now    func() time.Time // relógio (substituível nos testes)

	// Requests conta requisições por rota e status (opcional)
	Requests *prometheus.CounterVec
}

var errBadRequest = errors.New("bad request")

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(withCORS)
	r.Get("/v1/predictions", a.getPredictions)              // Página da tabela para uma data
	r.Get("/v1/predictions/default-date", a.getDefaultDate) // Data exibida ao abrir a tela
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, route string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, errBadRequest) {
		status = http.StatusBadRequest
	} else {
		a.Log.Error("request failed", zap.String("route", route), zap.String("query", r.URL.RawQuery), zap.Error(err))
	}
	a.count(route, status)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (a *API) count(route string, status int) {
	if a.Requests != nil {
		a.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}
}

func (a *API) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// getPredictions devolve a página pedida; sem date usa a data padrão
func (a *API) getPredictions(w http.ResponseWriter, r *http.Request) {
	const route = "predictions"
	cfg := a.Source.Config()
	q := r.URL.Query()

	date, err := a.resolveDate(r.Context(), q.Get("date"))
	if err != nil {
		a.writeError(w, r, route, err)
		return
	}
	v, err := ParseView(q, cfg)
	if err != nil {
		a.writeError(w, r, route, err)
		return
	}

	set, err := a.Source.Day(r.Context(), date)
	if err != nil {
		a.writeError(w, r, route, err)
		return
	}

	a.count(route, http.StatusOK)
	writeJSON(w, http.StatusOK, dto.FromPage(date, v, set.View(v), cfg))
}

// getDefaultDate devolve hoje ou, se hoje ainda não tem previsões, ontem
func (a *API) getDefaultDate(w http.ResponseWriter, r *http.Request) {
	const route = "default_date"
	date, err := a.Source.DefaultDate(r.Context(), a.now())
	if err != nil {
		a.writeError(w, r, route, err)
		return
	}
	a.count(route, http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]string{"date": date})
}

func (a *API) resolveDate(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return a.Source.DefaultDate(ctx, a.now())
	}
	d, err := board.ParseDate(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return d.Format(time.DateOnly), nil
}

// ParseView monta o ViewState a partir de search, sort, order, page e pageSize
func ParseView(q url.Values, cfg board.Config) (board.ViewState, error) {
	v := board.NewViewState(cfg).WithSearch(q.Get("search"))

	col, err := board.ParseColumn(q.Get("sort"))
	if err != nil {
		return v, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	dir, err := board.ParseDirection(q.Get("order"))
	if err != nil {
		return v, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	v = v.WithSort(col, dir)

	if s := q.Get("pageSize"); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil {
			return v, fmt.Errorf("%w: pageSize %q", errBadRequest, s)
		}
		if v, err = v.WithPageSize(size, cfg); err != nil {
			return v, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}
	if s := q.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 0 {
			return v, fmt.Errorf("%w: page %q", errBadRequest, s)
		}
		v = v.WithPage(page)
	}
	return v, nil
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
