package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/loopinhq/loopin-go/internal/models"
)

type createProjectRequest struct {
	UserID        string             `json:"userId"`
	Title         string             `json:"title"`
	AIPersonality models.Persona     `json:"aiPersonality"`
	Attributes    *models.Attributes `json:"attributes"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UserID == "" {
		respondErrorCode(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}
	if req.AIPersonality != "" && !req.AIPersonality.Valid() {
		respondErrorCode(w, http.StatusBadRequest, "invalid_request", "unknown aiPersonality")
		return
	}

	project, err := s.projects.Create(r.Context(), models.ProjectInput{
		UserID:        req.UserID,
		Title:         req.Title,
		AIPersonality: req.AIPersonality,
		Attributes:    req.Attributes,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondErrorCode(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}

	projects, err := s.projects.List(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handlePublishProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projects.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondErrorCode(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	projects, err := s.projects.Timeline(r.Context(), limit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"projects": projects})
}
