package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/service"
)

// MessageHandler holds the direct-message endpoints.
type MessageHandler struct {
	svc *service.MessageService
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Send handles POST /messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	msg, err := h.svc.Send(r.Context(), currentUser(r), req)
	if err != nil {
		if isDomainError(err) {
			writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Inbox handles GET /messages
func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.Inbox(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// Conversation handles GET /messages/{userID}
// Fetching a conversation marks the other user's messages as read.
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.Conversation(r.Context(), currentUser(r), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
