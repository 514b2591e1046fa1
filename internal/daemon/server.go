// Package daemon exposes the drill engine over a local HTTP API. Requests
// for one session are serialized by the session service, so the selection
// and recording core never runs concurrently for the same learner flow.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/kaina/internal/config"
	"github.com/felixgeelhaar/kaina/internal/content"
	"github.com/felixgeelhaar/kaina/internal/domain"
	"github.com/felixgeelhaar/kaina/internal/session"
)

// pruneInterval is how often the expired-session sweep runs.
const pruneInterval = 1 * time.Hour

// Server is the kaina daemon HTTP server.
type Server struct {
	cfg    *config.LocalConfig
	server *http.Server
	router *http.ServeMux

	drill    session.DrillService
	registry *content.Registry
	version  string

	pruneStop chan struct{}
}

// ServerConfig holds the dependencies for creating a server. Wiring the
// storage backend, content registry and queue happens in the entrypoint;
// the server only routes requests to the drill service.
type ServerConfig struct {
	Config   *config.LocalConfig
	Drill    session.DrillService
	Registry *content.Registry
	Version  string
}

// NewServer creates a daemon server.
func NewServer(cfg ServerConfig) *Server {
	s := &Server{
		cfg:       cfg.Config,
		router:    http.NewServeMux(),
		drill:     cfg.Drill,
		registry:  cfg.Registry,
		version:   cfg.Version,
		pruneStop: make(chan struct{}),
	}

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Config.Daemon.Bind, cfg.Config.Daemon.Port)
	handler := recoveryMiddleware(loggingMiddleware(correlationIDMiddleware(s.router)))
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health & status
	s.router.HandleFunc("GET /v1/health", s.handleHealth)
	s.router.HandleFunc("GET /v1/status", s.handleStatus)

	// Content catalog
	s.router.HandleFunc("GET /v1/content/packs", s.handleListPacks)
	s.router.HandleFunc("GET /v1/content/rows", s.handleListRows)
	s.router.HandleFunc("GET /v1/content/arms", s.handleListArms)

	// Drill sessions
	s.router.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	s.router.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	s.router.HandleFunc("DELETE /v1/sessions/{id}", s.handleDeleteSession)
	s.router.HandleFunc("POST /v1/sessions/{id}/next", s.handleNext)
	s.router.HandleFunc("POST /v1/sessions/{id}/answer", s.handleAnswer)
	s.router.HandleFunc("GET /v1/sessions/{id}/stats", s.handleStats)
	s.router.HandleFunc("GET /v1/sessions/{id}/weak-areas", s.handleWeakAreas)
	s.router.HandleFunc("POST /v1/sessions/{id}/reset", s.handleReset)
}

// Start starts the HTTP server and the expired-session sweep.
func (s *Server) Start() error {
	slog.Info("starting kaina daemon",
		"addr", s.server.Addr,
		"arms", len(s.registry.Arms()),
		"version", s.version,
	)
	go s.pruneLoop()
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down daemon...")
	close(s.pruneStop)
	return s.server.Shutdown(ctx)
}

// pruneLoop sweeps expired sessions until shutdown.
func (s *Server) pruneLoop() {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n, err := s.drill.PruneExpired(context.Background())
			if err != nil {
				slog.Warn("session prune failed", "error", err)
			} else if n > 0 {
				slog.Info("pruned expired sessions", "count", n)
			}
		case <-s.pruneStop:
			return
		}
	}
}

// Client-facing shapes. The pending exercise is rendered without its
// expected answer, which stays server-side until the learner submits.

type exerciseView struct {
	Arm    string `json:"arm"`
	Prompt string `json:"prompt"`
	Price  int    `json:"price"`
	Item   string `json:"item,omitempty"`
}

type sessionView struct {
	ID        string        `json:"id"`
	LearnerID string        `json:"learner_id"`
	Pending   *exerciseView `json:"pending,omitempty"`
	Answered  int           `json:"answered"`
	Correct   int           `json:"correct"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func viewOfExercise(ex *domain.Exercise) *exerciseView {
	if ex == nil {
		return nil
	}
	return &exerciseView{
		Arm:    ex.Arm.Key(),
		Prompt: ex.Prompt,
		Price:  ex.Price,
		Item:   ex.Item,
	}
}

func viewOfSession(sess *session.Session) sessionView {
	return sessionView{
		ID:        sess.ID,
		LearnerID: sess.LearnerID,
		Pending:   viewOfExercise(sess.Pending),
		Answered:  sess.Answered,
		Correct:   sess.Correct,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

// Handler implementations

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.drill.List(r.Context())
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to list sessions", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":        "running",
		"version":       s.version,
		"storage":       s.cfg.Storage.Backend,
		"arms":          len(s.registry.Arms()),
		"live_sessions": len(sessions),
	})
}

func (s *Server) handleListPacks(w http.ResponseWriter, r *http.Request) {
	packs := s.registry.Packs()
	result := make([]map[string]interface{}, 0, len(packs))
	for _, pack := range packs {
		result = append(result, map[string]interface{}{
			"id":        pack.ID,
			"name":      pack.Name,
			"version":   pack.Version,
			"language":  pack.Language,
			"row_count": len(pack.Rows),
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"packs": result})
}

func (s *Server) handleListRows(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"rows": s.registry.Rows(),
	})
}

func (s *Server) handleListArms(w http.ResponseWriter, r *http.Request) {
	arms := s.registry.Arms()
	keys := make([]string, 0, len(arms))
	for _, arm := range arms {
		keys = append(keys, arm.Key())
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"arms": keys})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LearnerID string `json:"learner_id,omitempty"`
	}
	// An empty body means the default learner.
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}

	sess, err := s.drill.Create(r.Context(), req.LearnerID)
	if err != nil {
		s.serviceError(w, "failed to create session", err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, viewOfSession(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.drill.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, "failed to get session", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, viewOfSession(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.drill.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.serviceError(w, "failed to delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	ex, err := s.drill.Next(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, "failed to bind next exercise", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, viewOfExercise(ex))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := s.drill.Answer(r.Context(), r.PathValue("id"), req.Answer)
	if err != nil {
		s.serviceError(w, "failed to grade answer", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report, err := s.drill.Stats(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, "failed to get stats", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleWeakAreas(w http.ResponseWriter, r *http.Request) {
	report, err := s.drill.WeakAreas(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, "failed to get weak areas", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.drill.Reset(r.Context(), r.PathValue("id")); err != nil {
		s.serviceError(w, "failed to reset progress", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"reset": true})
}

// serviceError maps domain sentinels onto HTTP status codes.
func (s *Server) serviceError(w http.ResponseWriter, message string, err error) {
	s.jsonError(w, statusForError(err), message, err)
}

// statusForError picks the HTTP status for a service failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrLearnerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrInvalidArm),
		errors.Is(err, domain.ErrNoPendingExercise),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoArmsAvailable),
		errors.Is(err, domain.ErrNoContentForArm):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPersistenceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}
