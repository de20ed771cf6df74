package handler

import (
	"encoding/json"
	"net/http"

	"encuesta/internal/model"
	"encuesta/internal/service"
)

// ParticipantHandler handles invitation, participant and response endpoints
type ParticipantHandler struct {
	participantSvc *service.ParticipantService
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(participantSvc *service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantSvc: participantSvc}
}

// InvitationCheckRequest is the body of POST /invitation-code/
type InvitationCheckRequest struct {
	InvitationCode string `json:"invitation_code"`
}

// HasAnswerRequest is the body of POST /participant/has-answer/
type HasAnswerRequest struct {
	Email    string `json:"email"`
	SurveyID int64  `json:"survey_id"`
}

// CheckInvitation handles POST /invitation-code/
func (h *ParticipantHandler) CheckInvitation(w http.ResponseWriter, r *http.Request) {
	var req InvitationCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid, err := h.participantSvc.ValidateInvitation(r.Context(), req.InvitationCode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !valid {
		writeJSON(w, http.StatusBadRequest, map[string]bool{"valid": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// HasAnswer handles POST /participant/has-answer/. 200 means the email may still answer.
func (h *ParticipantHandler) HasAnswer(w http.ResponseWriter, r *http.Request) {
	var req HasAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.SurveyID == 0 {
		writeError(w, http.StatusBadRequest, "email and survey_id are required")
		return
	}

	ok, err := h.participantSvc.CanAnswer(r.Context(), req.Email, req.SurveyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]bool{"valid": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// Submit handles POST /response/
func (h *ParticipantHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmissionPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := h.participantSvc.Submit(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}
