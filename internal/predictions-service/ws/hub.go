package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/radieske/hr-prediction-board/internal/board"
	"github.com/radieske/hr-prediction-board/internal/predictions-service/dto"
)

// DaySource é a camada de dados usada pelas sessões
type DaySource interface {
	Day(ctx context.Context, date string) (*board.RecordSet, error)
	Refresh(ctx context.Context, date string) (*board.RecordSet, error)
	DefaultDate(ctx context.Context, now time.Time) (string, error)
	Config() board.Config
}

const writeWait = 5 * time.Second

// Hub gerencia as sessões WebSocket; cada sessão guarda a data e o ViewState do cliente
// e recebe uma nova página a cada interação ou quando a data exibida é substituída
type Hub struct {
	upgrader websocket.Upgrader
	source   DaySource
	log      *zap.Logger

	// limite de mensagens por sessão
	rate  rate.Limit
	burst int

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	id      string
	conn    *websocket.Conn
	limiter *rate.Limiter

	mu   sync.Mutex // protege date e view
	date string
	view board.ViewState

	writeMu sync.Mutex // gorilla/websocket aceita um único escritor por vez
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(source DaySource, log *zap.Logger, allowOrigin func(r *http.Request) bool, perSecond float64, burst int) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		source:   source,
		log:      log,
		rate:     rate.Limit(perSecond),
		burst:    burst,
		sessions: make(map[string]*session),
	}
}

// Sessions devolve o número de sessões abertas
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Ao conectar o cliente recebe a página inicial da data padrão (ou de ?date=)
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s := &session{
		id:      uuid.NewString(),
		conn:    conn,
		limiter: rate.NewLimiter(h.rate, h.burst),
		view:    board.NewViewState(h.source.Config()),
	}
	log := h.log.With(zap.String("session", s.id))
	ctx := r.Context()

	date, err := h.initialDate(ctx, r.URL.Query().Get("date"))
	if err != nil {
		log.Warn("ws initial date failed", zap.Error(err))
		s.sendError(err)
		return
	}
	s.date = date

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
	log.Debug("ws session opened", zap.String("date", date))

	defer func() {
		h.mu.Lock()
		delete(h.sessions, s.id)
		h.mu.Unlock()
		log.Debug("ws session closed")
	}()

	h.render(ctx, s, nil)

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			var ce *websocket.CloseError
			if !errors.As(err, &ce) {
				log.Debug("ws read failed", zap.Error(err))
			}
			return
		}
		if !s.limiter.Allow() {
			s.sendError(errors.New("rate limit exceeded"))
			continue
		}
		h.handle(ctx, s, msg)
	}
}

func (h *Hub) initialDate(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return h.source.DefaultDate(ctx, time.Now())
	}
	d, err := board.ParseDate(raw)
	if err != nil {
		return "", err
	}
	return d.Format(time.DateOnly), nil
}

// handle aplica a transição pedida pelo cliente e devolve a nova página
func (h *Hub) handle(ctx context.Context, s *session, msg ClientMsg) {
	cfg := h.source.Config()

	s.mu.Lock()
	date, v := s.date, s.view
	s.mu.Unlock()

	switch msg.Type {
	case "ping":
		s.write(ServerMsg{Type: "pong"})
		return
	case "date":
		d, err := board.ParseDate(msg.Date)
		if err != nil {
			s.sendError(err)
			return
		}
		date = d.Format(time.DateOnly)
	case "search":
		v = v.WithSearch(msg.Search)
	case "sort":
		col, err := board.ParseColumn(msg.Column)
		if err != nil {
			s.sendError(err)
			return
		}
		v = v.ToggleSort(col)
	case "page":
		if msg.Page < 0 {
			s.sendError(fmt.Errorf("invalid page %d", msg.Page))
			return
		}
		v = v.WithPage(msg.Page)
	case "pageSize":
		nv, err := v.WithPageSize(msg.PageSize, cfg)
		if err != nil {
			s.sendError(err)
			return
		}
		v = nv
	default:
		s.sendError(fmt.Errorf("unknown message type %q", msg.Type))
		return
	}

	s.mu.Lock()
	s.date, s.view = date, v
	s.mu.Unlock()
	h.render(ctx, s, nil)
}

// render monta a página atual da sessão; set != nil evita buscar a data de novo
func (h *Hub) render(ctx context.Context, s *session, set *board.RecordSet) {
	s.mu.Lock()
	date, v := s.date, s.view
	s.mu.Unlock()

	if set == nil || set.Date != date {
		var err error
		set, err = h.source.Day(ctx, date)
		if err != nil {
			h.log.Error("ws load day failed", zap.String("session", s.id), zap.String("date", date), zap.Error(err))
			s.sendError(fmt.Errorf("could not load %s", date))
			return
		}
	}
	page := dto.FromPage(date, v, set.View(v), h.source.Config())
	s.write(ServerMsg{Type: "page", Page: &page})
}

// DayReplaced recarrega a data substituída e reenvia a página às sessões que a exibem
func (h *Hub) DayReplaced(ctx context.Context, date string) {
	set, err := h.source.Refresh(ctx, date)
	if err != nil {
		h.log.Error("refresh replaced day failed", zap.String("date", date), zap.Error(err))
		return
	}
	if set == nil {
		return
	}

	h.mu.RLock()
	targets := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		s.mu.Lock()
		if s.date == date {
			targets = append(targets, s)
		}
		s.mu.Unlock()
	}
	h.mu.RUnlock()

	for _, s := range targets {
		h.render(ctx, s, set)
	}
	h.log.Info("replaced day pushed", zap.String("date", date), zap.Int("sessions", len(targets)))
}

func (s *session) sendError(err error) {
	s.write(ServerMsg{Type: "error", Error: err.Error()})
}

func (s *session) write(msg ServerMsg) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = s.conn.WriteJSON(msg)
}
