package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/model"
)

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps domain errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrInvalidQuestionCount):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrEmailTaken),
		errors.Is(err, model.ErrSessionFinished),
		errors.Is(err, model.ErrAlreadyAnswered),
		errors.Is(err, model.ErrQuestionNotInSession):
		return http.StatusConflict
	case errors.Is(err, model.ErrSourceNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
