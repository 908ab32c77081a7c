package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goldi-lab/gift"
	"github.com/goldi-lab/gift/internal/logging"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/history"
	"github.com/goldi-lab/gift/pkg/session"
	"github.com/google/uuid"
)

// maxBodyBytes caps request bodies; exported snapshots are the largest.
const maxBodyBytes = 4 << 20

// Server exposes a session.Manager over HTTP.
type Server struct {
	Manager *session.Manager
	Streams *StreamManager
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// SessionResponse is the body returned by every state-changing route.
type SessionResponse struct {
	SessionID string          `json:"session_id"`
	Name      string          `json:"name"`
	Revision  int64           `json:"revision"`
	Version   int             `json:"version"`
	CanUndo   bool            `json:"canUndo"`
	CanRedo   bool            `json:"canRedo"`
	State     domain.AppState `json:"state"`
}

// CreateRequest is the optional body of POST /sessions.
type CreateRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// NewHandler creates the HTTP handler and subscribes its event streams to mgr.
func NewHandler(mgr *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Manager: mgr,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	mgr.OnChange(s.Streams.Publish)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/actions", s.DispatchAction)
			r.Post("/undo", s.Undo)
			r.Post("/redo", s.Redo)
			r.Get("/snapshot", s.ExportSnapshot)
			r.Put("/snapshot", s.ImportSnapshot)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "gift-http",
		"version": strings.TrimSpace(gift.Version),
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Manager.List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.logger.Warn("CreateSession: Invalid request body", "err", err)
			return
		}
	}
	if body.ID == "" {
		body.ID = uuid.NewString()
	}
	if body.Name == "" {
		body.Name = body.ID
	}

	sess, err := s.Manager.Create(r.Context(), body.ID, body.Name)
	if err != nil {
		s.fail(w, "CreateSession", err)
		return
	}
	w.Header().Set("Location", "/sessions/"+body.ID)
	writeJSON(w, http.StatusCreated, toResponse(body.ID, sess))
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.Manager.Load(r.Context(), id)
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(id, sess))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Manager.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DispatchAction handles POST /sessions/{id}/actions with body {type, payload}.
func (s *Server) DispatchAction(w http.ResponseWriter, r *http.Request) {
	var action domain.Action
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&action); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("DispatchAction: Invalid request body", "err", err)
		return
	}
	if action.Type == "" {
		http.Error(w, "Missing action type", http.StatusBadRequest)
		return
	}
	s.apply(w, r, "DispatchAction", action)
}

// Undo handles POST /sessions/{id}/undo.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, "Undo", domain.Action{Type: domain.ActionUndo})
}

// Redo handles POST /sessions/{id}/redo.
func (s *Server) Redo(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, "Redo", domain.Action{Type: domain.ActionRedo})
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, op string, action domain.Action) {
	id := chi.URLParam(r, "id")
	sess, err := s.Manager.Dispatch(r.Context(), id, action)
	if err != nil {
		s.fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(id, sess))
}

// ExportSnapshot handles GET /sessions/{id}/snapshot.
func (s *Server) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := s.Manager.Export(r.Context(), id)
	if err != nil {
		s.fail(w, "ExportSnapshot", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".json"))
	_, _ = w.Write(data)
}

// ImportSnapshot handles PUT /sessions/{id}/snapshot.
func (s *Server) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	sess, err := s.Manager.Import(r.Context(), id, data)
	if err != nil {
		s.fail(w, "ImportSnapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(id, sess))
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionExists), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, history.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPayload), errors.Is(err, domain.ErrNotFound):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Debug(op+" rejected", "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func toResponse(id string, sess *domain.Session) SessionResponse {
	return SessionResponse{
		SessionID: id,
		Name:      sess.Name,
		Revision:  sess.Revision,
		Version:   sess.State.CurrentVersion,
		CanUndo:   sess.State.CanUndo,
		CanRedo:   sess.State.CanRedo,
		State:     sess.State.Current,
	}
}
