// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
	"github.com/gatherly/gatherly/internal/service"
)

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps every sentinel in the error taxonomy to a distinct
// HTTP status and user-facing message. Anything unmapped is an internal
// failure and surfaces as a generic 500, keeping infrastructure detail out
// of responses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, repository.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, "you are already registered for this event")
	case errors.Is(err, repository.ErrEventFull):
		writeError(w, http.StatusConflict, "event is fully booked")
	case errors.Is(err, repository.ErrNotRegistered):
		writeError(w, http.StatusConflict, "you are not registered for this event")
	case errors.Is(err, repository.ErrDuplicateFeedback):
		writeError(w, http.StatusConflict, "you have already submitted feedback for this event")
	case errors.Is(err, repository.ErrUserExists):
		writeError(w, http.StatusConflict, "username or email already taken")
	case errors.Is(err, service.ErrNotAttended):
		writeError(w, http.StatusForbidden, "you can only provide feedback for events you attended")
	case errors.Is(err, service.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "permission denied")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// isDomainError reports whether err is one of the typed sentinels handled
// by writeDomainError. Service validation failures fall outside this set
// and render as 400 with their own message.
func isDomainError(err error) bool {
	for _, sentinel := range []error{
		repository.ErrNotFound,
		repository.ErrAlreadyRegistered,
		repository.ErrEventFull,
		repository.ErrNotRegistered,
		repository.ErrDuplicateFeedback,
		repository.ErrUserExists,
		service.ErrNotAttended,
		service.ErrPermissionDenied,
		service.ErrInvalidCredentials,
		service.ErrInvalidToken,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
