package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/service"
)

// FeedbackHandler holds the feedback, suggestion and summary endpoints.
type FeedbackHandler struct {
	svc *service.FeedbackService
}

// NewFeedbackHandler constructs a FeedbackHandler.
func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// SubmitFeedback handles POST /events/{id}/feedback
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req model.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	fb, err := h.svc.SubmitFeedback(r.Context(), currentUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		if isDomainError(err) {
			writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

// ListFeedback handles GET /events/{id}/feedback
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.svc.ListFeedback(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if feedback == nil {
		feedback = []model.Feedback{}
	}
	writeJSON(w, http.StatusOK, feedback)
}

// SubmitSuggestion handles POST /events/{id}/suggestions
func (h *FeedbackHandler) SubmitSuggestion(w http.ResponseWriter, r *http.Request) {
	var req model.SuggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	suggestion, err := h.svc.SubmitSuggestion(r.Context(), currentUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		if isDomainError(err) {
			writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, suggestion)
}

// ListSuggestions handles GET /events/{id}/suggestions
func (h *FeedbackHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.svc.ListSuggestions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []model.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// Summary handles GET /events/{id}/summary
func (h *FeedbackHandler) Summary(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.EventSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": text})
}
