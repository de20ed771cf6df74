package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"encuesta/internal/model"
	"encuesta/internal/service"
)

// ProgressHandler handles resume snapshot endpoints of the reference API
type ProgressHandler struct {
	progressSvc *service.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressSvc *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

func progressQuery(r *http.Request) (string, int64, bool) {
	q := r.URL.Query()
	email := q.Get("email")
	surveyID, err := strconv.ParseInt(q.Get("survey"), 10, 64)
	return email, surveyID, email != "" && err == nil && surveyID > 0
}

// Save handles POST /progress/
func (h *ProgressHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req model.SaveProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap := req.Snapshot()
	if err := h.progressSvc.Save(r.Context(), snap); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Get handles GET /progress/?email=&survey=
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	email, surveyID, ok := progressQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "email and survey are required")
		return
	}

	snap, err := h.progressSvc.Get(r.Context(), email, surveyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "progress not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Delete handles DELETE /progress/?email=&survey=
func (h *ProgressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email, surveyID, ok := progressQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "email and survey are required")
		return
	}

	if _, err := h.progressSvc.Delete(r.Context(), email, surveyID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
