package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/scholarhub/portal/chatbot"
)

// ChatRequest is the JSON body for POST /api/chat
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the JSON reply for POST /api/chat
type ChatResponse struct {
	Response string `json:"response"`
}

func (s *Server) chatConfigured() bool {
	return s.chat.Configured()
}

// ChatHandler relays a message to the assistant (POST /api/chat, session
// required). History is kept per session, capped, and replayed on each call.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.chatConfigured() {
			writeJSONError(w, http.StatusServiceUnavailable, "assistant not configured")
			return
		}

		var req ChatRequest
		if err := decodeJSONBody(r, &req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Message == "" {
			writeJSONError(w, http.StatusBadRequest, "message is required")
			return
		}

		sessionToken, _ := r.Context().Value(ContextKeySessionToken).(string)

		history := s.chatHistory.Get(sessionToken)
		reply, err := s.chat.Message(r.Context(), history, req.Message)
		if err != nil {
			log.Err(err).Msg("Assistant call failed")
			writeJSONError(w, http.StatusBadGateway, "assistant unavailable")
			return
		}

		s.chatHistory.Append(sessionToken,
			chatbot.Turn{Role: "user", Content: req.Message},
			chatbot.Turn{Role: "assistant", Content: reply},
		)

		writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
	}
}

// ResetChatHandler clears the session's conversation history
// (POST /api/reset-chat, session required)
func (s *Server) ResetChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionToken, _ := r.Context().Value(ContextKeySessionToken).(string)
		s.chatHistory.Reset(sessionToken)
		writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	}
}
