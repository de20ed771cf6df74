package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"encuesta/internal/model"

	"go.uber.org/zap"
)

var (
	ErrAlreadySubmitted = errors.New("survey already submitted")
	ErrSubmitInFlight   = errors.New("submission already in progress")
	ErrSubmitFailed     = errors.New("submission failed")
)

// MsgSubmitError is shown to the respondent when the backend refuses or cannot be reached
const MsgSubmitError = "No se pudo enviar tu respuesta. Inténtalo de nuevo."

const (
	latchPending int32 = iota
	latchInFlight
	latchSubmitted
)

// SubmissionController sends the final payload at most once. A failed
// attempt returns the latch to pending so the respondent can try again.
type SubmissionController struct {
	submitter ResponseSubmitter
	progress  *ProgressController
	logger    *zap.Logger
	state     atomic.Int32
}

// NewSubmissionController creates a controller starting from status.
// A stored in-flight status means the attempt never finished and is
// treated as pending.
func NewSubmissionController(submitter ResponseSubmitter, progress *ProgressController, status model.SubmissionStatus, logger *zap.Logger) *SubmissionController {
	c := &SubmissionController{
		submitter: submitter,
		progress:  progress,
		logger:    logger.Named("submission"),
	}
	if status == model.SubmissionSubmitted {
		c.state.Store(latchSubmitted)
	}
	return c
}

// Status returns the latch state
func (c *SubmissionController) Status() model.SubmissionStatus {
	switch c.state.Load() {
	case latchInFlight:
		return model.SubmissionInFlight
	case latchSubmitted:
		return model.SubmissionSubmitted
	default:
		return model.SubmissionPending
	}
}

// Submit posts payload once. On success the stored progress for email is
// cleaned up and the cleanup warning, if any, is returned alongside.
func (c *SubmissionController) Submit(ctx context.Context, email string, payload model.SubmissionPayload) (*Warning, error) {
	if !c.state.CompareAndSwap(latchPending, latchInFlight) {
		if c.state.Load() == latchSubmitted {
			return nil, ErrAlreadySubmitted
		}
		return nil, ErrSubmitInFlight
	}

	if err := c.submitter.SubmitResponse(ctx, payload); err != nil {
		c.state.Store(latchPending)
		c.logger.Error("submit failed",
			zap.Int64("survey_id", payload.SurveyID),
			zap.String("email", email),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	c.state.Store(latchSubmitted)
	c.logger.Info("survey submitted",
		zap.Int64("survey_id", payload.SurveyID),
		zap.String("email", email),
		zap.Int("answers", len(payload.Answers)))

	return c.progress.Cleanup(ctx, email, payload.SurveyID), nil
}
