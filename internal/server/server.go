// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/logging"
	"github.com/jeranaias/dailyai/internal/markup"
	"github.com/jeranaias/dailyai/internal/model"
	"github.com/jeranaias/dailyai/internal/session"
	"github.com/jeranaias/dailyai/internal/telemetry"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8080"

	// DefaultRequestTimeout bounds every route except a waiting send.
	DefaultRequestTimeout = 30 * time.Second

	// MaxRequestBodySize caps a message body (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// shutdownGrace is how long Start waits for in-flight requests.
	shutdownGrace = 10 * time.Second
)

// ============================================================================
// SERVER
// ============================================================================

// Config configures the HTTP surface.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	Version        string
	Logger         zerolog.Logger
}

// Server is the HTTP API server.
type Server struct {
	cfg      Config
	sessions *session.Manager
	metrics  *telemetry.Metrics
	gatherer prometheus.Gatherer
	router   chi.Router
	log      zerolog.Logger
	started  time.Time

	// base parents background completions so Shutdown can cancel them.
	base   context.Context
	cancel context.CancelFunc
}

// New creates a Server over sessions. metrics and gatherer may be nil, in
// which case /metrics is not mounted.
func New(cfg Config, sessions *session.Manager, metrics *telemetry.Metrics, gatherer prometheus.Gatherer) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	base, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		metrics:  metrics,
		gatherer: gatherer,
		log:      cfg.Logger.With().Str("component", "server").Logger(),
		started:  time.Now(),
		base:     base,
		cancel:   cancel,
	}
	if metrics != nil {
		sessions.SetChangeCallback(metrics.SetSessions)
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go s.sessions.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Str("version", s.cfg.Version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.cancel()
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.cancel()
	s.sessions.Close()
	return err
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(s.log))
	r.Use(RecoveryMiddleware(s.log))
	r.Use(SecurityHeadersMiddleware())

	timeout := middleware.Timeout(s.cfg.RequestTimeout)

	r.With(timeout).Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.With(timeout).Method(http.MethodGet, "/metrics", telemetry.Handler(s.gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(timeout)
			r.Get("/assistants", s.handleAssistants)
			r.Post("/{assistant}/sessions", s.handleCreateSession)
			r.Get("/sessions", s.handleListSessions)
			r.Get("/sessions/{id}", s.handleGetSession)
			r.Post("/sessions/{id}/reset", s.handleResetSession)
			r.Delete("/sessions/{id}", s.handleDeleteSession)
		})

		// A waiting send lasts as long as the completion does; the
		// completion client carries its own timeout.
		r.Post("/sessions/{id}/messages", s.handleSendMessage)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// ============================================================================
// TYPES
// ============================================================================

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Sessions int    `json:"sessions"`
	Uptime   string `json:"uptime"`
}

type createSessionResponse struct {
	ID        string `json:"id"`
	Assistant string `json:"assistant"`
}

type sendRequest struct {
	Text string `json:"text"`
}

// stateResponse is a session snapshot plus the transcript as formatted
// lines, one entry per message. Assistant text has bold markers resolved;
// user text is literal.
type stateResponse struct {
	session.State
	Formatted [][]markup.Line `json:"formatted"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newStateResponse(st session.State) stateResponse {
	formatted := make([][]markup.Line, len(st.Transcript))
	for i, msg := range st.Transcript {
		formatted[i] = formatMessage(msg)
	}
	return stateResponse{State: st, Formatted: formatted}
}

func formatMessage(msg model.Message) []markup.Line {
	if !msg.IsUser() {
		return markup.Format(msg.Text)
	}
	raw := strings.Split(msg.Text, "\n")
	lines := make([]markup.Line, len(raw))
	for i, l := range raw {
		lines[i] = markup.Line{{Text: l}}
	}
	return lines
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Version:  s.cfg.Version,
		Sessions: s.sessions.Len(),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleAssistants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, assistant.All())
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	p, err := assistant.Lookup(chi.URLParam(r, "assistant"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	sess := s.sessions.Create(p)
	log := logging.With(logging.WithSessionID(r.Context(), sess.ID()), s.log)
	log.Info().Str("assistant", p.Slug).Msg("session created")
	writeJSON(w, http.StatusCreated, createSessionResponse{ID: sess.ID(), Assistant: p.Slug})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.List())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(sess.Snapshot()))
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	var body sendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := sess.BeginWith(body.Text)
	switch {
	case errors.Is(err, session.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, session.ErrEmptyInput):
		writeError(w, http.StatusUnprocessableEntity, sess.Profile().EmptyInputNotice)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "could not start turn")
		return
	}

	log := logging.With(logging.WithSessionID(r.Context(), sess.ID()), s.log)

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		// A client that hangs up cancels its own completion.
		if !sess.Resolve(req.Do(r.Context())) {
			log.Debug().Msg("waited turn discarded by reset")
		}
		writeJSON(w, http.StatusOK, newStateResponse(sess.Snapshot()))
		return
	}

	go func() {
		if !sess.Resolve(req.Do(s.base)) {
			log.Debug().Msg("turn discarded by reset")
		}
	}()
	writeJSON(w, http.StatusAccepted, newStateResponse(sess.Snapshot()))
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, newStateResponse(sess.Snapshot()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookup resolves {id} or writes a 404.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

// ============================================================================
// HELPERS
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
