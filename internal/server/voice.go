package server

import (
	"net/http"
)

// maxAudioUpload caps voice uploads at 25MB, the Whisper API file limit.
const maxAudioUpload = 25 << 20

// handleVoice accepts a multipart audio file and returns its transcription.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if s.transcriber == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "transcription_unavailable", "transcription is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)

	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		respondErrorCode(w, http.StatusBadRequest, "missing_audio", "no audio file provided")
		return
	}
	defer file.Close()

	text, err := s.transcriber.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		s.logger.Error("transcription failed", "filename", header.Filename, "error", err)
		respondErrorCode(w, http.StatusInternalServerError, "transcription_error", "transcription failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"text": text})
}
