package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amaumene/reeldle/internal/models"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a game or provider error to an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidRecord):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrTerminalSession),
		errors.Is(err, models.ErrStaleSession),
		errors.Is(err, models.ErrDuplicateGuess):
		return http.StatusConflict
	case errors.Is(err, models.ErrPracticeLocked):
		return http.StatusForbidden
	case errors.Is(err, models.ErrProviderUnavailable),
		errors.Is(err, models.ErrNoSession):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).Error("Request failed")
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func parseMode(r *http.Request) (models.Mode, bool) {
	mode := models.Mode(r.PathValue("mode"))
	return mode, mode.Valid()
}
