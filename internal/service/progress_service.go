package service

import (
	"context"
	"errors"
	"fmt"

	"encuesta/internal/model"
	"encuesta/internal/repository"
)

var ErrInvalidProgress = errors.New("invalid progress")

// ProgressService stores resume snapshots for the reference API
type ProgressService struct {
	progressRepo repository.ProgressRepo
}

// NewProgressService creates a new progress service
func NewProgressService(progressRepo repository.ProgressRepo) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
	}
}

// Save overwrites the snapshot stored for (email, survey)
func (s *ProgressService) Save(ctx context.Context, snap *model.ProgressSnapshot) error {
	if snap.Email == "" || snap.SurveyID == 0 {
		return fmt.Errorf("%w: email and survey are required", ErrInvalidProgress)
	}
	if snap.CurrentScreen < 0 {
		return fmt.Errorf("%w: negative screen", ErrInvalidProgress)
	}
	return s.progressRepo.Save(ctx, snap)
}

// Get returns nil, nil when nothing is stored
func (s *ProgressService) Get(ctx context.Context, email string, surveyID int64) (*model.ProgressSnapshot, error) {
	return s.progressRepo.Get(ctx, email, surveyID)
}

// Delete removes the snapshot and reports whether one existed
func (s *ProgressService) Delete(ctx context.Context, email string, surveyID int64) (bool, error) {
	return s.progressRepo.Delete(ctx, email, surveyID)
}
