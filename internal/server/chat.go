package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// doneFrame terminates every successful SSE chat stream.
const doneFrame = "data: [DONE]\n\n"

type chatRequest struct {
	ProjectID string `json:"projectId"`
	Message   string `json:"message"`
}

// handleChat runs one chat turn and relays model deltas as server-sent
// events. Content frames carry {"content": "..."}; the literal [DONE] frame
// ends the turn; a terminal {"error": "..."} frame reports a failure.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProjectID == "" || req.Message == "" {
		respondErrorCode(w, http.StatusBadRequest, "invalid_request", "projectId and message are required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondErrorCode(w, http.StatusInternalServerError, "internal_error", "streaming unsupported")
		return
	}

	events, err := s.chat.HandleUserTurn(r.Context(), req.ProjectID, req.Message)
	if err != nil {
		s.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range events {
		switch {
		case ev.Err != nil:
			payload, _ := json.Marshal(map[string]string{"error": "chat turn failed"})
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			return
		case ev.Done:
			fmt.Fprint(w, doneFrame)
			flusher.Flush()
			return
		default:
			payload, _ := json.Marshal(map[string]string{"content": ev.Content})
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// handleTranscript returns a project's conversation oldest-first.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectId")
	if projectID == "" {
		respondErrorCode(w, http.StatusBadRequest, "invalid_request", "projectId is required")
		return
	}

	messages, err := s.projects.Transcript(r.Context(), projectID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // same-origin is enforced by the reverse proxy in prod
	},
}

// wsFrame is one server-to-client WebSocket message.
type wsFrame struct {
	Content string `json:"content,omitempty"`
	Done    bool   `json:"done,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleChatWS is the WebSocket chat transport. The client sends one
// {"message": "..."} frame per turn; the server answers with content frames,
// then a single done or error frame, and waits for the next turn.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectId")
	if projectID == "" {
		respondErrorCode(w, http.StatusBadRequest, "invalid_request", "projectId is required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var in struct {
			Message string `json:"message"`
		}
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		if in.Message == "" {
			_ = conn.WriteJSON(wsFrame{Error: "message is required"})
			continue
		}

		events, err := s.chat.HandleUserTurn(r.Context(), projectID, in.Message)
		if err != nil {
			_ = conn.WriteJSON(wsFrame{Error: "chat turn failed"})
			continue
		}

		for ev := range events {
			switch {
			case ev.Err != nil:
				_ = conn.WriteJSON(wsFrame{Error: "chat turn failed"})
			case ev.Done:
				_ = conn.WriteJSON(wsFrame{Done: true})
			default:
				if err := conn.WriteJSON(wsFrame{Content: ev.Content}); err != nil {
					return
				}
			}
		}
	}
}
