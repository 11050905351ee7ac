// Package httpx serves the chess API over HTTP and pushes live game updates
// over websockets.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/lgbarn/chess-server-go/internal/config"
	"github.com/lgbarn/chess-server-go/internal/service"
)

const maxJSONBodyBytes int64 = 1 << 20

// Server wires the HTTP routes and the websocket hub to the services.
type Server struct {
	users *service.UserService
	games *service.GameService
	hub   *Hub
	cfg   *config.ServerConfig
	log   *slog.Logger

	srvMu  sync.Mutex
	srv    *http.Server
	closed bool
}

// NewServer builds a Server.
func NewServer(users *service.UserService, games *service.GameService, cfg *config.ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		users: users,
		games: games,
		hub:   NewHub(cfg.WriteTimeout, logger),
		cfg:   cfg,
		log:   logger,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user", s.withJSON(s.handleRegister))
	mux.HandleFunc("POST /session", s.withJSON(s.handleLogin))
	mux.HandleFunc("DELETE /session", s.withJSON(s.handleLogout))
	mux.HandleFunc("GET /game", s.withJSON(s.handleListGames))
	mux.HandleFunc("POST /game", s.withJSON(s.handleCreateGame))
	mux.HandleFunc("PUT /game", s.withJSON(s.handleJoinGame))
	mux.HandleFunc("DELETE /db", s.withJSON(s.handleClear))
	mux.HandleFunc("GET /ws", s.handleWebsocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Listen serves on the configured address until Close is called.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Close is called. If Close already ran, Serve
// closes ln and returns nil at once.
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	if s.closed {
		s.srvMu.Unlock()
		return ln.Close()
	}
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	s.log.Info("listening", "addr", ln.Addr().String())
	err := srv.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts the HTTP server down gracefully and closes every websocket.
// A Serve call that starts after Close returns immediately.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	s.closed = true
	srv := s.srv
	s.srvMu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	s.hub.CloseAll()
	return err
}

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// writeError reports err with the status its kind maps to.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := service.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.log.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	w.WriteHeader(status)
	writeJSON(w, errorResult(err))
}
