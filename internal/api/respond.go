// Package api contains the HTTP handlers for the dashboard REST surface.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shiftboard/backend/internal/camp"
	"github.com/shiftboard/backend/internal/ledger"
	"github.com/shiftboard/backend/internal/report"
	"github.com/shiftboard/backend/internal/roster"
	"github.com/shiftboard/backend/internal/settings"
	"github.com/shiftboard/backend/internal/users"
)

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service sentinel errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, roster.ErrNotFound),
		errors.Is(err, camp.ErrNotFound),
		errors.Is(err, report.ErrNotFound),
		errors.Is(err, users.ErrNotFound),
		errors.Is(err, ledger.ErrSeatNotFound):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, ledger.ErrAlreadyActive),
		errors.Is(err, ledger.ErrNotActive),
		errors.Is(err, camp.ErrDuplicateName),
		errors.Is(err, users.ErrDuplicateUsername),
		errors.Is(err, users.ErrLastAdmin):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, roster.ErrNameRequired),
		errors.Is(err, roster.ErrInvalidSchedule),
		errors.Is(err, camp.ErrInvalidTarget),
		errors.Is(err, users.ErrUsernameRequired),
		errors.Is(err, users.ErrPasswordRequired),
		errors.Is(err, users.ErrInvalidRole),
		errors.Is(err, settings.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, err.Error())

	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
