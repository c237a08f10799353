package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/scribehq/scribe/internal/domain"
	"github.com/scribehq/scribe/internal/processor"
)

// Store is the persistence surface the HTTP handlers need.
type Store interface {
	CreateTranscript(ctx context.Context, title, text string) (*domain.Transcript, error)
	Transcripts(ctx context.Context) ([]domain.Transcript, error)
	Transcript(ctx context.Context, id int64) (*domain.Transcript, error)
	ActionsForTranscript(ctx context.Context, transcriptID int64) ([]domain.TranscriptAction, error)
	Users(ctx context.Context) ([]domain.User, error)
}

// Pipeline runs the transcript-to-task extraction for one transcript.
type Pipeline interface {
	ProcessTranscript(ctx context.Context, transcriptID int64) processor.Outcome
}

type Server struct {
	router   *chi.Mux
	port     int
	store    Store
	pipeline Pipeline
	logger   *slog.Logger
}

func NewServer(port int, store Store, pipeline Pipeline, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		store:    store,
		pipeline: pipeline,
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/scribe/status", s.status)
	router.Get("/api/v1/users", s.listUsers)
	router.Post("/api/v1/transcripts", s.createTranscript)
	router.Get("/api/v1/transcripts", s.listTranscripts)
	router.Get("/api/v1/transcripts/{id}", s.getTranscript)
	router.Get("/api/v1/transcripts/{id}/actions", s.listActions)
	router.Post("/api/v1/transcripts/{id}/process", s.processTranscript)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "scribe",
		"status":  "ready",
	})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.Users(r.Context())
	if err != nil {
		s.internalError(w, "list users", err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

type createTranscriptRequest struct {
	Title      string `json:"title"`
	Transcript string `json:"transcript"`
}

func (s *Server) createTranscript(w http.ResponseWriter, r *http.Request) {
	var req createTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Transcript == "" {
		writeError(w, http.StatusBadRequest, "title and transcript are required")
		return
	}

	tr, err := s.store.CreateTranscript(r.Context(), req.Title, req.Transcript)
	if err != nil {
		s.internalError(w, "create transcript", err)
		return
	}
	writeJSON(w, http.StatusCreated, tr)
}

func (s *Server) listTranscripts(w http.ResponseWriter, r *http.Request) {
	transcripts, err := s.store.Transcripts(r.Context())
	if err != nil {
		s.internalError(w, "list transcripts", err)
		return
	}
	if transcripts == nil {
		transcripts = []domain.Transcript{}
	}
	writeJSON(w, http.StatusOK, transcripts)
}

func (s *Server) getTranscript(w http.ResponseWriter, r *http.Request) {
	id, ok := s.transcriptID(w, r)
	if !ok {
		return
	}
	tr, err := s.store.Transcript(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transcript not found")
		return
	}
	if err != nil {
		s.internalError(w, "get transcript", err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.transcriptID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.Transcript(r.Context(), id); errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transcript not found")
		return
	} else if err != nil {
		s.internalError(w, "get transcript", err)
		return
	}

	actions, err := s.store.ActionsForTranscript(r.Context(), id)
	if err != nil {
		s.internalError(w, "list transcript actions", err)
		return
	}
	if actions == nil {
		actions = []domain.TranscriptAction{}
	}
	writeJSON(w, http.StatusOK, actions)
}

func (s *Server) processTranscript(w http.ResponseWriter, r *http.Request) {
	id, ok := s.transcriptID(w, r)
	if !ok {
		return
	}

	tr, err := s.store.Transcript(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transcript not found")
		return
	}
	if err != nil {
		s.internalError(w, "get transcript", err)
		return
	}
	if tr.Processed {
		writeError(w, http.StatusConflict, "transcript already processed")
		return
	}

	outcome := s.pipeline.ProcessTranscript(r.Context(), id)
	code := http.StatusOK
	if !outcome.Success {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, outcome)
}

func (s *Server) transcriptID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid transcript id")
		return 0, false
	}
	return id, true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
