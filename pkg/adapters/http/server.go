// Package http exposes the engine over a JSON API. Handlers go through
// the session manager so every mutation runs under the session lock.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/courselets/trail"
	"github.com/courselets/trail/internal/logging"
	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/schema"
)

// Identity headers. The hosting application authenticates upstream and
// forwards who is acting; the engine trusts these values.
const (
	headerSessionKey = "X-Session-Key"
	headerUser       = "X-User"
)

// Server holds the handler dependencies.
type Server struct {
	engine *trail.Engine
	logger *slog.Logger
}

// NewHandler builds the HTTP handler for an engine.
func NewHandler(engine *trail.Engine, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/graphs", s.listGraphs)

	r.Route("/session", func(r chi.Router) {
		r.Post("/push", s.push)
		r.Post("/event", s.event)
		r.Post("/pop", s.pop)
		r.Post("/resume", s.resume)
		r.Get("/current", s.current)
		r.Get("/options", s.options)
		r.Get("/help", s.help)
		r.Get("/orphans", s.orphans)
	})

	r.Get("/states/{stateID}/followers", s.followers)

	return r
}

func requestFrom(r *http.Request, params map[string]any) *domain.Request {
	return &domain.Request{
		SessionKey: r.Header.Get(headerSessionKey),
		User:       r.Header.Get(headerUser),
		Params:     params,
	}
}

type pushRequest struct {
	Graph  string         `json:"graph"`
	Data   map[string]any `json:"data,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

type eventRequest struct {
	Event  string         `json:"event"`
	Params map[string]any `json:"params,omitempty"`
}

type resumeRequest struct {
	StateID string `json:"state_id"`
}

type pathResponse struct {
	Path string `json:"path"`
}

func (s *Server) push(w http.ResponseWriter, r *http.Request) {
	var body pushRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req := requestFrom(r, body.Params)
	path, err := s.engine.Sessions().Push(r.Context(), req, body.Graph, body.Data)
	if err != nil {
		s.writeError(w, "push", err)
		return
	}
	s.writeJSON(w, pathResponse{Path: path})
}

func (s *Server) event(w http.ResponseWriter, r *http.Request) {
	var body eventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req := requestFrom(r, body.Params)
	path, err := s.engine.Sessions().Event(r.Context(), req, body.Event)
	if err != nil {
		s.writeError(w, "event", err)
		return
	}
	s.writeJSON(w, pathResponse{Path: path})
}

func (s *Server) pop(w http.ResponseWriter, r *http.Request) {
	var body eventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req := requestFrom(r, body.Params)
	path, err := s.engine.Sessions().Pop(r.Context(), req, body.Event)
	if err != nil {
		s.writeError(w, "pop", err)
		return
	}
	s.writeJSON(w, pathResponse{Path: path})
}

func (s *Server) resume(w http.ResponseWriter, r *http.Request) {
	var body resumeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req := requestFrom(r, nil)
	path, err := s.engine.Sessions().Resume(r.Context(), req, body.StateID)
	if err != nil {
		s.writeError(w, "resume", err)
		return
	}
	s.writeJSON(w, pathResponse{Path: path})
}

func (s *Server) current(w http.ResponseWriter, r *http.Request) {
	req := requestFrom(r, nil)
	st, err := s.engine.Sessions().Current(r.Context(), req)
	if err != nil {
		s.writeError(w, "current", err)
		return
	}
	if st == nil {
		http.Error(w, "no ongoing activity", http.StatusNotFound)
		return
	}
	s.writeJSON(w, st)
}

func (s *Server) options(w http.ResponseWriter, r *http.Request) {
	req := requestFrom(r, nil)
	edges, err := s.engine.Stack().Options(r.Context(), req)
	if err != nil {
		s.writeError(w, "options", err)
		return
	}
	if edges == nil {
		edges = []domain.Edge{}
	}
	s.writeJSON(w, edges)
}

func (s *Server) help(w http.ResponseWriter, r *http.Request) {
	req := requestFrom(r, nil)
	help, err := s.engine.Stack().Help(r.Context(), req)
	if err != nil {
		s.writeError(w, "help", err)
		return
	}
	s.writeJSON(w, map[string]string{"help": help})
}

func (s *Server) orphans(w http.ResponseWriter, r *http.Request) {
	req := requestFrom(r, nil)
	states, err := s.engine.Stack().ListOrphans(r.Context(), req)
	if err != nil {
		s.writeError(w, "orphans", err)
		return
	}
	if states == nil {
		states = []*domain.State{}
	}
	s.writeJSON(w, states)
}

func (s *Server) followers(w http.ResponseWriter, r *http.Request) {
	stateID := chi.URLParam(r, "stateID")
	states, err := s.engine.Stack().FindLiveSessions(r.Context(), stateID)
	if err != nil {
		s.writeError(w, "followers", err)
		return
	}
	if states == nil {
		states = []*domain.State{}
	}
	s.writeJSON(w, states)
}

func (s *Server) listGraphs(w http.ResponseWriter, r *http.Request) {
	names, err := s.engine.GraphStore().ListGraphs(r.Context())
	if err != nil {
		s.writeError(w, "graphs", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, names)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "trail",
		"version": trail.Version,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// writeError maps engine errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	var agg *schema.AggregateError
	switch {
	case errors.As(err, &agg):
		http.Error(w, agg.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNoActivity),
		errors.Is(err, domain.ErrGraphNotFound),
		errors.Is(err, domain.ErrStateNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrNotOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrHasChildren):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.logger.Error("request failed", "op", op, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
