package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"encuesta/internal/model"
	"encuesta/internal/service"

	"github.com/gorilla/mux"
)

// SurveyHandler handles survey endpoints of the reference API
type SurveyHandler struct {
	surveySvc *service.SurveyService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveySvc: surveySvc}
}

func surveyIDVar(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["surveyId"], 10, 64)
	return id, err == nil && id > 0
}

// Get handles GET /surveys/{surveyId}/
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyIDVar(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid survey id")
		return
	}

	survey, err := h.surveySvc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if survey == nil {
		writeError(w, http.StatusNotFound, "survey not found")
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// List handles GET /surveys/
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.surveySvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if surveys == nil {
		surveys = []*model.Survey{}
	}
	writeJSON(w, http.StatusOK, surveys)
}

// Put handles PUT /surveys/{surveyId}/
func (h *SurveyHandler) Put(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyIDVar(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid survey id")
		return
	}

	var survey model.Survey
	if err := json.NewDecoder(r.Body).Decode(&survey); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	survey.ID = id

	if err := h.surveySvc.Save(r.Context(), &survey); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// Delete handles DELETE /surveys/{surveyId}/
func (h *SurveyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyIDVar(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid survey id")
		return
	}
	if err := h.surveySvc.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
