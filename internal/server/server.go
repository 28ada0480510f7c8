// Package server exposes the habit engine over HTTP. The daemon binds to
// loopback by default; there is no authentication layer, so exposing it on a
// routable address is the operator's responsibility.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/julianstephens/habitd/internal/habit"
	"github.com/julianstephens/habitd/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server wraps the engine behind an http.Server.
type Server struct {
	engine *habit.Engine
	addr   string
	srv    *http.Server
	ln     net.Listener
}

// NewServer creates a server for the given engine listening on addr.
func NewServer(engine *habit.Engine, addr string) *Server {
	s := &Server{engine: engine, addr: addr}
	s.srv = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins listening and serving. It blocks until the listener is ready,
// then serves in the background; use Stop for a graceful shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.ln = ln

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve error", "error", err)
		}
	}()

	logger.Info("listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listener address, useful for tests with port :0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts the server down, draining in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /habits", s.handleListHabits)
	mux.HandleFunc("POST /habits", s.handleCreateHabit)
	mux.HandleFunc("GET /habits/{id}", s.handleGetHabit)
	mux.HandleFunc("PATCH /habits/{id}", s.handleUpdateHabit)
	mux.HandleFunc("DELETE /habits/{id}", s.handleDeleteHabit)
	mux.HandleFunc("POST /habits/{id}/complete", s.handleComplete)
	mux.HandleFunc("POST /habits/{id}/freeze", s.handleFreeze)
	mux.HandleFunc("GET /habits/{id}/status", s.handleStatus)
	mux.HandleFunc("GET /habits/{id}/stats", s.handleStats)

	mux.HandleFunc("POST /habit_logs/{id}/logs/start", s.handleStartSession)
	mux.HandleFunc("PATCH /habit_logs/{id}/logs/{logID}/stop", s.handleStopSession)
	mux.HandleFunc("POST /habit_logs/{id}/logs/manual", s.handleManualLog)
	mux.HandleFunc("GET /habit_logs/{id}/logs", s.handleListLogs)
	mux.HandleFunc("GET /habit_logs/{id}/logs/active", s.handleActiveSession)

	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("PUT /settings", s.handleUpdateSettings)

	return logRequests(mux)
}

// logRequests logs method, path and duration for every request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
