package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tbxark/tripagent/agent"
	"github.com/tbxark/tripagent/present"
	"github.com/tbxark/tripagent/types"
)

// SessionView is a session snapshot with every message already rendered.
type SessionView struct {
	agent.Snapshot
	Renders []present.Render `json:"renders"`
}

type errorBody struct {
	Error string `json:"error"`
}

type Server struct {
	router   *chi.Mux
	registry *agent.Registry
	selector *present.Selector
}

func NewServer(registry *agent.Registry, selector *present.Selector, allowedOrigin string) *Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: allowedOrigin != "*",
		MaxAge:           300,
	}))
	s := &Server{
		router:   r,
		registry: registry,
		selector: selector,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/schema/render", s.handleRenderSchema)
	s.router.Get("/api/schema/action", s.handleActionSchema)
	s.router.Post("/api/sessions", s.handleOpen)
	s.router.Get("/api/sessions/{id}", s.handleSession)
	s.router.Post("/api/sessions/{id}/actions", s.handleAction)
	s.router.Delete("/api/sessions/{id}", s.handleClose)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRenderSchema(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, jsonschema.Reflect(&present.Render{}))
}

func (s *Server) handleActionSchema(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, jsonschema.Reflect(&types.Action{}))
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	o, err := s.registry.Open(r.Context())
	if o == nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err != nil {
		slog.Warn("Greeting turn failed", "session", o.ID(), "error", err)
	}
	s.writeSession(w, http.StatusCreated, o)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	o, ok := s.registry.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}
	s.writeSession(w, http.StatusOK, o)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, ok := s.registry.Get(r.Context(), id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	var action types.Action
	if err := sonic.Unmarshal(raw, &action); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if action.Kind == types.ActionReset {
		o, err = s.registry.Reset(r.Context(), id)
	} else {
		err = o.Handle(r.Context(), action)
	}
	switch {
	case errors.Is(err, agent.ErrTurnPending):
		s.writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, agent.ErrNoOptions), errors.Is(err, agent.ErrUnknownAction):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeSession(w, http.StatusOK, o)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeSession(w http.ResponseWriter, code int, o *agent.Orchestrator) {
	snap := o.Snapshot()
	w.Header().Set("X-Session-Id", snap.Session.ID)
	s.writeJSON(w, code, SessionView{
		Snapshot: snap,
		Renders:  s.selector.SelectAll(snap.Messages, snap.Session),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, errorBody{Error: msg})
}
