package handler

import (
	"encoding/json"
	"net/http"

	"encuesta/internal/model"
	"encuesta/internal/service"
	"encuesta/internal/transport/rest/middleware"
)

// WizardHandler handles wizard session endpoints
type WizardHandler struct {
	wizardSvc *service.WizardService
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(wizardSvc *service.WizardService) *WizardHandler {
	return &WizardHandler{wizardSvc: wizardSvc}
}

// AnswerRequest is the request body for answering a question
type AnswerRequest struct {
	QuestionID int64 `json:"questionId"`
	OptionID   int64 `json:"optionId"`
}

// InvitationCodeRequest is the request body for editing the invitation code
type InvitationCodeRequest struct {
	InvitationCode string `json:"invitationCode"`
}

// ResumeRequest answers a resume offer
type ResumeRequest struct {
	Accept bool `json:"accept"`
}

// Start handles POST /v1/sessions
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.StartSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	resp, err := h.wizardSvc.Start(r.Context(), req.SurveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Choices handles GET /v1/choices
func (h *WizardHandler) Choices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]model.Choice{
		"gender":     model.GenderChoices,
		"birthRange": model.BirthRangeChoices,
		"position":   model.PositionChoices,
	})
}

func (h *WizardHandler) respond(w http.ResponseWriter, v *service.View, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// View handles GET /v1/session
func (h *WizardHandler) View(w http.ResponseWriter, r *http.Request) {
	v, err := h.wizardSvc.View(r.Context(), middleware.GetSessionID(r.Context()))
	h.respond(w, v, err)
}

// Answer handles PUT /v1/session/answers
func (h *WizardHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := h.wizardSvc.Answer(r.Context(), middleware.GetSessionID(r.Context()), req.QuestionID, req.OptionID)
	h.respond(w, v, err)
}

// SetInvitationCode handles PUT /v1/session/invitation-code
func (h *WizardHandler) SetInvitationCode(w http.ResponseWriter, r *http.Request) {
	var req InvitationCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := h.wizardSvc.SetInvitationCode(r.Context(), middleware.GetSessionID(r.Context()), req.InvitationCode)
	h.respond(w, v, err)
}

// CheckInvitationCode handles POST /v1/session/invitation-code/check
func (h *WizardHandler) CheckInvitationCode(w http.ResponseWriter, r *http.Request) {
	v, err := h.wizardSvc.CheckInvitationCode(r.Context(), middleware.GetSessionID(r.Context()))
	h.respond(w, v, err)
}

// UpdateProfile handles PUT /v1/session/profile
func (h *WizardHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.RespondentProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := h.wizardSvc.UpdateProfile(r.Context(), middleware.GetSessionID(r.Context()), req)
	h.respond(w, v, err)
}

// CheckEmail handles POST /v1/session/email/check
func (h *WizardHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	v, err := h.wizardSvc.CheckEmail(r.Context(), middleware.GetSessionID(r.Context()))
	h.respond(w, v, err)
}

// ResolveResume handles POST /v1/session/resume
func (h *WizardHandler) ResolveResume(w http.ResponseWriter, r *http.Request) {
	var req ResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := h.wizardSvc.ResolveResume(r.Context(), middleware.GetSessionID(r.Context()), req.Accept)
	h.respond(w, v, err)
}

// Next handles POST /v1/session/next
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	v, err := h.wizardSvc.Next(r.Context(), middleware.GetSessionID(r.Context()))
	h.respond(w, v, err)
}

// Back handles POST /v1/session/back
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	v, err := h.wizardSvc.Back(r.Context(), middleware.GetSessionID(r.Context()))
	h.respond(w, v, err)
}

// Reset handles POST /v1/session/reset
func (h *WizardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	v, err := h.wizardSvc.Reset(r.Context(), middleware.GetSessionID(r.Context()))
	h.respond(w, v, err)
}

// Submit handles POST /v1/session/submit
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	v, err := h.wizardSvc.Submit(r.Context(), middleware.GetSessionID(r.Context()))
	h.respond(w, v, err)
}

// End handles DELETE /v1/session
func (h *WizardHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.wizardSvc.End(r.Context(), middleware.GetSessionID(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
