package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/service"
)

// RegistrationHandler holds all HTTP handlers for the registration ledger.
type RegistrationHandler struct {
	svc *service.RegistrationService
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(svc *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

// Register handles POST /events/{id}/register
// Performs a concurrency-safe registration for the specified event.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reg, err := h.svc.Register(r.Context(), currentUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		if isDomainError(err) {
			writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

// Cancel handles DELETE /events/{id}/register
// Cancellation is destructive; a repeat cancel reports a conflict, not a
// crash.
func (h *RegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cancel(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRegistrations handles GET /events/{id}/registrations (owning
// organizer only).
func (h *RegistrationHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.svc.ListByEvent(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

// MarkAttended handles POST /events/{id}/registrations/{userID}/attended
// (owning organizer only).
func (h *RegistrationHandler) MarkAttended(w http.ResponseWriter, r *http.Request) {
	err := h.svc.MarkAttended(r.Context(), currentUser(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MyRegistrations handles GET /profile/registrations
func (h *RegistrationHandler) MyRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.svc.ListByUser(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list registrations")
		return
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}
