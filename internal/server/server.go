// Package server exposes the orchestration pipelines over HTTP: SSE chat
// streaming, plan autofill, plan analysis, voice transcription, and project
// lifecycle endpoints.
package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/loopinhq/loopin-go/internal/metrics"
	"github.com/loopinhq/loopin-go/internal/models"
	"github.com/loopinhq/loopin-go/internal/service"
)

// ChatStreamer runs one streaming chat turn.
type ChatStreamer interface {
	HandleUserTurn(ctx context.Context, projectID, userText string) (<-chan service.StreamEvent, error)
}

// PlanExtractor derives a plan from a project's transcript.
type PlanExtractor interface {
	Extract(ctx context.Context, projectID string) (*models.PlanData, error)
}

// PlanScorer evaluates a project's plan.
type PlanScorer interface {
	Analyze(ctx context.Context, projectID string) (*service.AnalysisResult, error)
}

// ProjectDirectory handles project lifecycle and transcript reads.
type ProjectDirectory interface {
	Create(ctx context.Context, input models.ProjectInput) (*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, userID string) ([]models.Project, error)
	Publish(ctx context.Context, id string) (*models.Project, error)
	Timeline(ctx context.Context, limit int) ([]models.Project, error)
	Transcript(ctx context.Context, projectID string) ([]models.ChatMessage, error)
}

// Transcriber converts uploaded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Chat        ChatStreamer
	Plans       PlanExtractor
	Scores      PlanScorer
	Projects    ProjectDirectory
	Transcriber Transcriber
	Metrics     *metrics.Collector
	Logger      *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	router      *chi.Mux
	chat        ChatStreamer
	plans       PlanExtractor
	scores      PlanScorer
	projects    ProjectDirectory
	transcriber Transcriber
	metrics     *metrics.Collector
	logger      *slog.Logger
}

// New creates the API server and mounts all routes.
func New(deps Deps) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		chat:        deps.Chat,
		plans:       deps.Plans,
		scores:      deps.Scores,
		projects:    deps.Projects,
		transcriber: deps.Transcriber,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger(deps.Logger))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", s.handleStats)

		r.Post("/projects", s.handleCreateProject)
		r.Get("/projects", s.handleListProjects)
		r.Get("/projects/{id}", s.handleGetProject)
		r.Post("/projects/{id}/publish", s.handlePublishProject)
		r.Get("/timeline", s.handleTimeline)

		r.Post("/chat", s.handleChat)
		r.Get("/chat", s.handleTranscript)
		r.Get("/chat/ws", s.handleChatWS)

		r.Post("/autofill", s.handleAutofill)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/voice", s.handleVoice)
	})

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer builds an http.Server on the given port. The write timeout is
// long because chat turns stream model output.
func (s *Server) HTTPServer(port string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		respondJSON(w, http.StatusOK, metrics.Snapshot{})
		return
	}
	respondJSON(w, http.StatusOK, s.metrics.Snapshot())
}
