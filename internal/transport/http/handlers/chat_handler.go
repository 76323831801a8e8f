package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/avukelic/homespace/internal/service"
	"github.com/avukelic/homespace/internal/transport/http/middleware"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type postMessageInput struct {
	Text string `json:"text"`
}

// Post accepts a chat message. Empty text is a silent no-op, so the
// response is 204 either way; the caller sees its message only when the
// broadcast comes back around.
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input postMessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if _, err := h.chatService.Post(r.Context(), userID, input.Text); err != nil {
		if errors.Is(err, service.ErrUnknownSender) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unknown sender")
			return
		}
		log.Printf("ERROR post message: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// History serves the bounded recent history, oldest first. Public.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatService.History(r.Context())
	if err != nil {
		log.Printf("ERROR chat history: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}
