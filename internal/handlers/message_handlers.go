package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dileepkumar18311/ChatApp/internal/models"
	"github.com/Dileepkumar18311/ChatApp/internal/services"

	"github.com/gorilla/mux"
)

// Publisher relays a stored message to connected sockets.
type Publisher interface {
	PublishMessage(view *models.MessageView)
}

type MessageHandlers struct {
	messageService *services.MessageService
	publisher      Publisher
}

func NewMessageHandlers(messageService *services.MessageService, publisher Publisher) *MessageHandlers {
	return &MessageHandlers{
		messageService: messageService,
		publisher:      publisher,
	}
}

// queryInt returns 0 for a missing or non-numeric parameter.
func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

// History handles GET /messages/{receiverId}?page=&limit=.
func (h *MessageHandlers) History(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	peerID, err := strconv.Atoi(mux.Vars(r)["receiverId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid receiver ID")
		return
	}

	page, err := h.messageService.History(r.Context(), user.ID, peerID, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, "Message history", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Send handles POST /messages. The stored message is also pushed to any
// connected participants.
func (h *MessageHandlers) Send(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req models.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.messageService.Send(r.Context(), user.ID, &req)
	if err != nil {
		writeServiceError(w, "Send message", err)
		return
	}

	if h.publisher != nil {
		h.publisher.PublishMessage(view)
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *MessageHandlers) Conversations(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	conversations, err := h.messageService.Conversations(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "List conversations", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}
