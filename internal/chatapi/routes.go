// Package chatapi serves the JSON chat endpoint the widget transport posts to.
package chatapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/mindchat/internal/agent"
)

// errorPrefix starts the reply text when an agent fails. The endpoint still
// answers 200 so the widget shows the text as an ordinary reply.
const errorPrefix = "internal error while processing your request: "

type chatRequest struct {
	Message *string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes mounts POST /chat on the given router.
func RegisterRoutes(r chi.Router, a agent.Agent, log zerolog.Logger) {
	r.Post("/chat", handleChat(a, log))
}

func handleChat(a agent.Agent, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		message, ok := readMessage(r.Body)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No message provided"})
			return
		}

		reply, err := a.Respond(r.Context(), message)
		if err != nil {
			log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("chat request failed")
			reply = errorPrefix + err.Error()
		}

		writeJSON(w, http.StatusOK, chatResponse{Response: reply})
	}
}

// readMessage decodes the body as JSON whatever its Content-Type. A body
// that does not parse, or lacks a non-empty message string, yields false.
func readMessage(body io.Reader) (string, bool) {
	var req chatRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return "", false
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		return "", false
	}
	return *req.Message, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
