// Package handler exposes the planning operations as a thin JSON HTTP
// surface. Handlers only decode requests, call a service, and encode the
// result; every domain rule lives below this package. This is also the only
// place error kinds are mapped to status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"eventful/internal/auth"
	"eventful/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(models.ErrValidation, err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain error kinds to HTTP status codes. Unknown errors
// become 500 and are logged here, at the outermost layer, exactly once.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrPermission):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrCapacity),
		errors.Is(err, models.ErrDuplicate),
		errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrState):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrWeakPassword):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("internal error", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseTimeRange(start, end string) (models.TimeOfDay, models.TimeOfDay, error) {
	s, err := models.ParseTimeOfDay(start)
	if err != nil {
		return 0, 0, err
	}
	e, err := models.ParseTimeOfDay(end)
	if err != nil {
		return 0, 0, err
	}
	return s, e, nil
}
