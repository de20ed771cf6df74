package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"encuesta/internal/model"
	"encuesta/internal/repository"
)

var (
	ErrInvalidInvitation = errors.New("invitation code is not valid")
	ErrAlreadyAnswered   = errors.New("participant already answered this survey")
	ErrSurveyNotFound    = errors.New("survey not found")
	ErrInvalidResponse   = errors.New("invalid response")
)

// ParticipantService answers the participant checks and stores
// submissions for the reference API
type ParticipantService struct {
	invitationRepo repository.InvitationRepo
	responseRepo   repository.ResponseRepo
	surveyRepo     repository.SurveyRepo
}

// NewParticipantService creates a new participant service
func NewParticipantService(
	invitationRepo repository.InvitationRepo,
	responseRepo repository.ResponseRepo,
	surveyRepo repository.SurveyRepo,
) *ParticipantService {
	return &ParticipantService{
		invitationRepo: invitationRepo,
		responseRepo:   responseRepo,
		surveyRepo:     surveyRepo,
	}
}

// ValidateInvitation reports whether code is issued and active
func (s *ParticipantService) ValidateInvitation(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}
	rec, err := s.invitationRepo.Get(ctx, code)
	if err != nil {
		return false, err
	}
	return rec != nil && rec.Active, nil
}

// CanAnswer reports whether email has not submitted surveyID yet
func (s *ParticipantService) CanAnswer(ctx context.Context, email string, surveyID int64) (bool, error) {
	answered, err := s.responseRepo.HasAnswered(ctx, strings.TrimSpace(email), surveyID)
	if err != nil {
		return false, err
	}
	return !answered, nil
}

// Submit validates and stores a completed survey
func (s *ParticipantService) Submit(ctx context.Context, payload model.SubmissionPayload) (*model.StoredResponse, error) {
	survey, err := s.surveyRepo.GetByID(ctx, payload.SurveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}

	valid, err := s.ValidateInvitation(ctx, payload.InvitationCode)
	if err != nil {
		return nil, fmt.Errorf("failed to check invitation: %w", err)
	}
	if !valid {
		return nil, ErrInvalidInvitation
	}

	if payload.Participant.Email == "" {
		return nil, fmt.Errorf("%w: participant email is required", ErrInvalidResponse)
	}
	if err := checkAnswers(survey, payload.Answers); err != nil {
		return nil, err
	}

	ok, err := s.CanAnswer(ctx, payload.Participant.Email, payload.SurveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check participant: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyAnswered
	}

	stored := &model.StoredResponse{SubmissionPayload: payload}
	if err := s.responseRepo.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to store response: %w", err)
	}
	return stored, nil
}

// checkAnswers verifies every option id belongs to a distinct question of the survey
func checkAnswers(survey *model.Survey, answers []int64) error {
	owner := make(map[int64]int64)
	for _, q := range survey.AllQuestions() {
		for _, o := range q.Options {
			owner[o.ID] = q.ID
		}
	}
	answered := make(map[int64]struct{}, len(answers))
	for _, id := range answers {
		qid, ok := owner[id]
		if !ok {
			return fmt.Errorf("%w: option %d not in survey", ErrInvalidResponse, id)
		}
		if _, dup := answered[qid]; dup {
			return fmt.Errorf("%w: question %d answered twice", ErrInvalidResponse, qid)
		}
		answered[qid] = struct{}{}
	}
	return nil
}
