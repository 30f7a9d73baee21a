// Package http exposes Nova sessions over HTTP: a JSON API for stateless
// clients, a server-sent event stream of session views and a websocket that
// drives a live engine with real timers.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/nova"
	"github.com/aretw0/nova/internal/logging"
	"github.com/aretw0/nova/internal/presentation/graph"
	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/observability"
	"github.com/aretw0/nova/pkg/registry"
	"github.com/aretw0/nova/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config wires the handler.
type Config struct {
	Sessions *session.Service
	Steps    *registry.Registry

	// Metrics instruments requests and live sessions. Optional.
	Metrics *observability.Metrics
	// Gatherer serves /metrics. Optional.
	Gatherer prometheus.Gatherer

	// AllowedOrigins for CORS and websocket upgrades. Empty or "*" allows all.
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server holds the handlers.
type Server struct {
	sessions *session.Service
	steps    *registry.Registry
	metrics  *observability.Metrics
	origins  []string
	logger   *slog.Logger

	Streams  *StreamManager
	upgrader websocket.Upgrader
}

// NewHandler creates the HTTP handler.
func NewHandler(cfg Config) http.Handler {
	s := &Server{
		sessions: cfg.Sessions,
		steps:    cfg.Steps,
		metrics:  cfg.Metrics,
		origins:  cfg.AllowedOrigins,
		logger:   cfg.Logger,
		Streams:  NewStreamManager(),
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.Streams.logger = s.logger
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	r := chi.NewRouter()
	r.Use(s.enableCORS)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/steps", s.ListSteps)
	r.Get("/graph", s.GetGraph)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/activate", s.Activate)
			r.Post("/select", s.Select)
			r.Post("/back", s.Back)
			r.Post("/hide", s.Hide)
			r.Post("/steps/{step}", s.GoToStep)
			r.Get("/events", s.SubscribeEvents)
			r.Get("/ws", s.Live)
		})
	})

	return r
}

func (s *Server) allowAll() bool {
	if len(s.origins) == 0 {
		return true
	}
	for _, o := range s.origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (s *Server) originAllowed(origin string) bool {
	if s.allowAll() {
		return true
	}
	for _, o := range s.origins {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || s.originAllowed(origin)
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case s.allowAll():
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && s.originAllowed(origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrUnknownStep):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoSuchOption):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDialogClosed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// respond writes the view and fans it out to the session's event stream.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, view *session.View, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if bytes, err := json.Marshal(view); err == nil {
		s.Streams.Broadcast(view.SessionID, string(bytes))
	}
	s.writeJSON(w, http.StatusOK, view)
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.Create(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+view.SessionID)
	s.writeJSON(w, http.StatusCreated, view)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.Current(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activate handles POST /sessions/{id}/activate.
func (s *Server) Activate(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.Activate(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, r, view, err)
}

// SelectRequest is the body of POST /sessions/{id}/select.
type SelectRequest struct {
	Index *int `json:"index"`
}

// maxBodyBytes caps request bodies. A select body is a single index.
const maxBodyBytes = 1024

// Select handles POST /sessions/{id}/select.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	var body SelectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes)})
			return
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if body.Index == nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index is required"})
		return
	}
	view, err := s.sessions.Select(r.Context(), chi.URLParam(r, "id"), *body.Index)
	s.respond(w, r, view, err)
}

// Back handles POST /sessions/{id}/back.
func (s *Server) Back(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.Back(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, r, view, err)
}

// Hide handles POST /sessions/{id}/hide.
func (s *Server) Hide(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.Hide(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, r, view, err)
}

// GoToStep handles POST /sessions/{id}/steps/{step}.
func (s *Server) GoToStep(w http.ResponseWriter, r *http.Request) {
	step := domain.StepName(chi.URLParam(r, "step"))
	view, err := s.sessions.GoTo(r.Context(), chi.URLParam(r, "id"), step)
	s.respond(w, r, view, err)
}

// ListSteps handles GET /steps.
func (s *Server) ListSteps(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.steps.Steps())
}

// GetGraph handles GET /graph. With ?session_id= the session's path is highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.Overlay
	if id := r.URL.Query().Get("session_id"); id != "" {
		state, err := s.sessions.Manager().Load(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		overlay = &graph.Overlay{Visited: state.History, Current: state.CurrentStep}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.steps.Steps(), overlay)))
}

// pinger is implemented by stores that can report connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.sessions.Manager().Store().(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", "err", err)
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "nova-http",
		"version": strings.TrimSpace(nova.Version),
	})
}
