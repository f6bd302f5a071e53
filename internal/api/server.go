// Package api serves the cap desk over a local JSON API.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pmurley/capbot/internal/frontoffice"
	"github.com/pmurley/capbot/internal/models"
	"github.com/pmurley/capbot/pkg/logger"
)

// UserHeader names the caller recorded on journal entries.
const UserHeader = "X-User"

const defaultJournalLimit = 50

type Server struct {
	desk   *frontoffice.Desk
	logger *logger.Logger
	router chi.Router
	srv    *http.Server
}

func NewServer(desk *frontoffice.Desk, log *logger.Logger) *Server {
	s := &Server{desk: desk, logger: log}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/teams/{code}", func(team chi.Router) {
		team.Get("/ledger", s.getLedger)
		team.Post("/refresh", s.refresh)
		team.Post("/preview", s.preview)
		team.Post("/actions", s.commit)
		team.Post("/retry", s.retry)
		team.Get("/journal", s.journal)
	})
	r.Get("/freeagents", s.freeAgents)

	return r
}

// ListenAndServe blocks until the server stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API listening on ", addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func caller(r *http.Request) string {
	if user := r.Header.Get(UserHeader); user != "" {
		return user
	}
	return "api"
}

func (s *Server) getLedger(w http.ResponseWriter, r *http.Request) {
	l, err := s.desk.Ledger(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, l.Snapshot())
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	l, discrepancies, err := s.desk.Refresh(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		WriteError(w, err)
		return
	}
	notes := make([]string, 0, len(discrepancies))
	for _, d := range discrepancies {
		notes = append(notes, d.String())
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"ledger":        l.Snapshot(),
		"discrepancies": notes,
	})
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	var req models.ActionRequest
	if err := ReadJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	impact, err := s.desk.Preview(chi.URLParam(r, "code"), req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"impact_report": impact})
}

func (s *Server) commit(w http.ResponseWriter, r *http.Request) {
	var req models.ActionRequest
	if err := ReadJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	resp, err := s.desk.Commit(r.Context(), chi.URLParam(r, "code"), caller(r), req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, statusForResponse(resp), resp)
}

func (s *Server) retry(w http.ResponseWriter, r *http.Request) {
	resp, err := s.desk.Retry(r.Context(), chi.URLParam(r, "code"), caller(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, statusForResponse(resp), resp)
}

func (s *Server) journal(w http.ResponseWriter, r *http.Request) {
	limit := defaultJournalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteError(w, models.Validationf("limit must be a positive number"))
			return
		}
		limit = n
	}
	entries, err := s.desk.Journal(chi.URLParam(r, "code"), limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) freeAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.desk.FreeAgents(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"free_agents": agents})
}
