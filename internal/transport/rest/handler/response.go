package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"encuesta/internal/service"
	"encuesta/internal/wizard"
)

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

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSurveyNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrResumePending),
		errors.Is(err, service.ErrNoResumeOffer),
		errors.Is(err, service.ErrAlreadySubmitted),
		errors.Is(err, service.ErrSubmitInFlight),
		errors.Is(err, service.ErrNotComplete),
		errors.Is(err, wizard.ErrSessionComplete),
		errors.Is(err, wizard.ErrWrongSlot):
		return http.StatusConflict
	case errors.Is(err, wizard.ErrUnknownQuestion),
		errors.Is(err, wizard.ErrUnknownOption),
		errors.Is(err, service.ErrInvalidSurvey),
		errors.Is(err, service.ErrInvalidInvitation),
		errors.Is(err, service.ErrAlreadyAnswered),
		errors.Is(err, service.ErrInvalidResponse),
		errors.Is(err, service.ErrInvalidProgress):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}
