// Package inspect serves a live view of a reactive runtime over HTTP.
//
// Routes:
//
//	GET /metrics       Prometheus metrics
//	GET /api/flushes   recent flush reports as JSON, oldest first
//	GET /api/view      the latest published view as text, with an ETag
//	GET /ws            WebSocket stream of flush reports
//
// Server implements reactive.FlushObserver. OnFlush and PublishView may be
// called from the runtime's goroutine while requests are being served.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// Message is the envelope of every WebSocket frame.
type Message struct {
	Type   string  `json:"type"` // "hello" or "flush"
	Client string  `json:"client,omitempty"`
	Report *Report `json:"report,omitempty"`
}

// Server is the inspector HTTP server.
type Server struct {
	config   Config
	router   chi.Router
	upgrader websocket.Upgrader
	history  *history
	hub      *hub

	viewMu   sync.RWMutex
	view     string
	viewETag string

	httpServer *http.Server
}

// New creates an inspector server.
func New(config Config) *Server {
	config = config.withDefaults()
	s := &Server{
		config:  config,
		history: newHistory(config.History),
		hub:     newHub(config.ClientBuffer, config.WriteTimeout, config.Logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/api/flushes", s.handleFlushes)
	r.Get("/api/view", s.handleView)
	r.Get("/ws", s.handleWS)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// OnFlush implements reactive.FlushObserver.
func (s *Server) OnFlush(r reactive.FlushReport) {
	rep := newReport(r)
	s.history.add(rep)

	msg, err := json.Marshal(Message{Type: "flush", Report: &rep})
	if err != nil {
		s.config.Logger.Error("inspector encode error", "error", err)
		return
	}
	s.hub.broadcast(msg)
}

// PublishView replaces the text served at /api/view.
func (s *Server) PublishView(text string) {
	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64String(text))
	s.viewMu.Lock()
	s.view = text
	s.viewETag = etag
	s.viewMu.Unlock()
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	return s.hub.count()
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("inspector listening", "address", l.Addr().String())
		errCh <- s.httpServer.Serve(l)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		return s.shutdown()
	}
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.hub.closeAll()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.config.Logger.Error("inspector shutdown error", "error", err)
		return err
	}
	s.config.Logger.Info("inspector shutdown complete")
	return nil
}

func (s *Server) handleFlushes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.history.list()); err != nil {
		s.config.Logger.Error("inspector encode error", "error", err)
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.viewMu.RLock()
	text, etag := s.view, s.viewETag
	s.viewMu.RUnlock()

	if etag != "" {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.config.Logger.Debug("inspector upgrade failed", "error", err)
		return
	}

	c := s.hub.register(conn, helloMessage)
	if c == nil {
		return
	}

	// Drain reads so control frames are processed and a closed peer is noticed.
	go func() {
		defer s.hub.unregister(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.config.Logger.Debug("inspector read error", "client", c.id, "error", err)
				}
				return
			}
		}
	}()
}

func helloMessage(id string) []byte {
	msg, _ := json.Marshal(Message{Type: "hello", Client: id})
	return msg
}
