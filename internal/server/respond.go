package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loopinhq/loopin-go/internal/db"
	"github.com/loopinhq/loopin-go/internal/service"
)

// errorBody is the JSON shape of every failure response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondErrorCode(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorBody{Error: code, Message: message})
}

// respondError maps pipeline errors onto the HTTP taxonomy: precondition
// failures are 4xx, missing records 404, parse and upstream failures 5xx.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		respondErrorCode(w, http.StatusNotFound, "project_not_found", "project not found")
	case errors.Is(err, service.ErrEmptyTranscript):
		respondErrorCode(w, http.StatusBadRequest, "empty_transcript", "no chat messages to extract from")
	case errors.Is(err, service.ErrNoPlanData):
		respondErrorCode(w, http.StatusBadRequest, "no_plan_data", "run autofill before analysis")
	case errors.Is(err, service.ErrExtractionParse):
		respondErrorCode(w, http.StatusInternalServerError, "extraction_parse_error", "could not parse model output")
	case errors.Is(err, service.ErrScoringParse):
		respondErrorCode(w, http.StatusInternalServerError, "scoring_parse_error", "could not parse model output")
	default:
		s.logger.Error("request error", "error", err)
		respondErrorCode(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
