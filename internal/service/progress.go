package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"encuesta/internal/model"

	"go.uber.org/zap"
)

// ProgressPhase is the state of the persistence controller for one key
type ProgressPhase string

const (
	PhaseIdle     ProgressPhase = "idle"
	PhaseSaving   ProgressPhase = "saving"
	PhaseFetching ProgressPhase = "fetching"
	PhaseResolved ProgressPhase = "resolved"
)

// User-visible warnings; a failed save never blocks navigation
const (
	WarnSaveFailed    = "No se pudo guardar tu progreso. Puedes continuar, pero no podrás retomarlo más tarde."
	WarnCleanupFailed = "Tu respuesta fue enviada, pero no se pudo limpiar el progreso guardado."
)

// Warning is a non-blocking failure of a persistence operation
type Warning struct {
	Op      string `json:"op"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (w *Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Op, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}

// DefaultResolvedTTL bounds how long an unanswered resume offer keeps its phase
const DefaultResolvedTTL = 24 * time.Hour

type phaseEntry struct {
	phase ProgressPhase
	since time.Time
}

// ProgressController saves and fetches resume snapshots
type ProgressController struct {
	store  ProgressStore
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	phases      map[string]phaseEntry
	resolvedTTL time.Duration
}

// NewProgressController creates a new progress controller
func NewProgressController(store ProgressStore, logger *zap.Logger) *ProgressController {
	return &ProgressController{
		store:       store,
		logger:      logger.Named("progress"),
		now:         time.Now,
		phases:      make(map[string]phaseEntry),
		resolvedTTL: DefaultResolvedTTL,
	}
}

// SetResolvedTTL sets how long a resolved offer nobody answered is remembered.
// Match it to the session TTL: past it the session holding the offer is gone.
func (p *ProgressController) SetResolvedTTL(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d > 0 {
		p.resolvedTTL = d
	}
}

func progressKey(email string, surveyID int64) string {
	return fmt.Sprintf("%d:%s", surveyID, email)
}

func (p *ProgressController) setPhase(key string, phase ProgressPhase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	p.sweepLocked(now)
	if phase == PhaseIdle {
		delete(p.phases, key)
		return
	}
	p.phases[key] = phaseEntry{phase: phase, since: now}
}

// sweepLocked drops resolved offers older than resolvedTTL
func (p *ProgressController) sweepLocked(now time.Time) {
	for key, e := range p.phases {
		if e.phase == PhaseResolved && now.Sub(e.since) > p.resolvedTTL {
			delete(p.phases, key)
		}
	}
}

// Phase returns the controller state for (email, survey)
func (p *ProgressController) Phase(email string, surveyID int64) ProgressPhase {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweepLocked(p.now())
	if e, ok := p.phases[progressKey(email, surveyID)]; ok {
		return e.phase
	}
	return PhaseIdle
}

// Tracked returns how many keys are not idle
func (p *ProgressController) Tracked() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweepLocked(p.now())
	return len(p.phases)
}

// Persist saves snap, overwriting whatever is stored for its key. A nil
// snapshot or one without email or survey id is ignored. Failures are
// logged and returned as a warning.
func (p *ProgressController) Persist(ctx context.Context, snap *model.ProgressSnapshot) *Warning {
	if snap == nil || snap.Email == "" || snap.SurveyID == 0 {
		return nil
	}
	key := progressKey(snap.Email, snap.SurveyID)
	p.setPhase(key, PhaseSaving)
	defer p.setPhase(key, PhaseIdle)

	if err := p.store.SaveProgress(ctx, snap); err != nil {
		p.logger.Warn("save progress failed",
			zap.String("email", snap.Email),
			zap.Int64("survey_id", snap.SurveyID),
			zap.Int("screen", snap.CurrentScreen),
			zap.Error(err))
		return &Warning{Op: "save_progress", Message: WarnSaveFailed, Err: err}
	}

	p.logger.Debug("progress saved",
		zap.String("email", snap.Email),
		zap.Int64("survey_id", snap.SurveyID),
		zap.Int("screen", snap.CurrentScreen))
	return nil
}

// FetchForResume returns the stored snapshot, or nil when there is none
func (p *ProgressController) FetchForResume(ctx context.Context, email string, surveyID int64) (*model.ProgressSnapshot, error) {
	if email == "" || surveyID == 0 {
		return nil, nil
	}
	key := progressKey(email, surveyID)
	p.setPhase(key, PhaseFetching)

	snap, err := p.store.GetProgress(ctx, email, surveyID)
	if err != nil {
		p.setPhase(key, PhaseIdle)
		p.logger.Warn("fetch progress failed",
			zap.String("email", email),
			zap.Int64("survey_id", surveyID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}
	if snap == nil {
		p.setPhase(key, PhaseIdle)
		return nil, nil
	}
	if snap.SurveyID != 0 && snap.SurveyID != surveyID {
		p.setPhase(key, PhaseIdle)
		p.logger.Warn("stored progress belongs to another survey",
			zap.Int64("want", surveyID),
			zap.Int64("got", snap.SurveyID))
		return nil, nil
	}
	snap.SurveyID = surveyID
	if snap.Email == "" {
		snap.Email = email
	}
	p.setPhase(key, PhaseResolved)
	return snap, nil
}

// Resolved marks the offer for (email, survey) as answered
func (p *ProgressController) Resolved(email string, surveyID int64) {
	p.setPhase(progressKey(email, surveyID), PhaseIdle)
}

// Cleanup deletes the stored snapshot. Best-effort.
func (p *ProgressController) Cleanup(ctx context.Context, email string, surveyID int64) *Warning {
	if email == "" || surveyID == 0 {
		return nil
	}
	if err := p.store.DeleteProgress(ctx, email, surveyID); err != nil {
		p.logger.Warn("cleanup progress failed",
			zap.String("email", email),
			zap.Int64("survey_id", surveyID),
			zap.Error(err))
		return &Warning{Op: "cleanup_progress", Message: WarnCleanupFailed, Err: err}
	}
	p.setPhase(progressKey(email, surveyID), PhaseIdle)
	return nil
}
