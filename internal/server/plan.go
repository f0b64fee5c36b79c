package server

import (
	"encoding/json"
	"net/http"
)

type projectIDRequest struct {
	ProjectID string `json:"projectId"`
}

func decodeProjectID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req projectIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return "", false
	}
	if req.ProjectID == "" {
		respondErrorCode(w, http.StatusBadRequest, "invalid_request", "projectId is required")
		return "", false
	}
	return req.ProjectID, true
}

// handleAutofill extracts a plan from the project's transcript and persists
// it, replacing any previous plan.
func (s *Server) handleAutofill(w http.ResponseWriter, r *http.Request) {
	projectID, ok := decodeProjectID(w, r)
	if !ok {
		return
	}

	plan, err := s.plans.Extract(r.Context(), projectID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"planData": plan})
}

// handleAnalyze scores the project's plan. The six numeric dimensions are
// persisted; the narrative fields only live in this response.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	projectID, ok := decodeProjectID(w, r)
	if !ok {
		return
	}

	result, err := s.scores.Analyze(r.Context(), projectID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
