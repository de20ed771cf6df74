package service

import (
	"context"
	"errors"
	"fmt"

	"encuesta/internal/model"
	"encuesta/internal/repository"
)

var ErrInvalidSurvey = errors.New("invalid survey")

// SurveyService handles survey storage for the reference API
type SurveyService struct {
	surveyRepo repository.SurveyRepo
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo) *SurveyService {
	return &SurveyService{
		surveyRepo: surveyRepo,
	}
}

// Save validates and stores a survey
func (s *SurveyService) Save(ctx context.Context, survey *model.Survey) error {
	if err := ValidateSurvey(survey); err != nil {
		return err
	}
	return s.surveyRepo.Upsert(ctx, survey)
}

// GetByID retrieves a survey by ID
func (s *SurveyService) GetByID(ctx context.Context, id int64) (*model.Survey, error) {
	return s.surveyRepo.GetByID(ctx, id)
}

// List returns survey headers without their question groups
func (s *SurveyService) List(ctx context.Context) ([]*model.Survey, error) {
	return s.surveyRepo.List(ctx)
}

// Delete deletes a survey
func (s *SurveyService) Delete(ctx context.Context, id int64) error {
	return s.surveyRepo.Delete(ctx, id)
}

// ValidateSurvey checks the structural rules the wizard depends on:
// question ids are unique across the survey and every question has options.
func ValidateSurvey(survey *model.Survey) error {
	if survey.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidSurvey)
	}
	seen := make(map[int64]struct{})
	for gi, g := range survey.QuestionGroups {
		for _, m := range g.Modifiers {
			if m != model.ModifierGrid && m != model.ModifierUnique {
				return fmt.Errorf("%w: group %d has unknown modifier %q", ErrInvalidSurvey, gi, m)
			}
		}
		for _, q := range g.Questions {
			if _, dup := seen[q.ID]; dup {
				return fmt.Errorf("%w: question id %d repeated", ErrInvalidSurvey, q.ID)
			}
			seen[q.ID] = struct{}{}
			if len(q.Options) == 0 {
				return fmt.Errorf("%w: question %d has no options", ErrInvalidSurvey, q.ID)
			}
		}
	}
	return nil
}
