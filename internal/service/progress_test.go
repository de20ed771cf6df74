package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"encuesta/internal/model"
)

func TestPersistWithoutKeyIsNoop(t *testing.T) {
	api := newFakeAPI()
	p := NewProgressController(api, zap.NewNop())
	ctx := context.Background()

	assert.Nil(t, p.Persist(ctx, nil))
	assert.Nil(t, p.Persist(ctx, &model.ProgressSnapshot{SurveyID: 1}))
	assert.Nil(t, p.Persist(ctx, &model.ProgressSnapshot{Email: "ana@example.com"}))
	assert.Zero(t, api.saves)
}

func TestPersistOverwritesInPlace(t *testing.T) {
	api := newFakeAPI()
	p := NewProgressController(api, zap.NewNop())
	ctx := context.Background()

	for screen := 3; screen <= 4; screen++ {
		assert.Nil(t, p.Persist(ctx, &model.ProgressSnapshot{Email: "ana@example.com", SurveyID: 1, CurrentScreen: screen}))
	}
	assert.Len(t, api.progress, 1)

	snap, err := p.FetchForResume(ctx, "ana@example.com", 1)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 4, snap.CurrentScreen)
	assert.Equal(t, PhaseResolved, p.Phase("ana@example.com", 1))

	p.Resolved("ana@example.com", 1)
	assert.Equal(t, PhaseIdle, p.Phase("ana@example.com", 1))
}

func TestPersistFailureIsWarning(t *testing.T) {
	api := newFakeAPI()
	api.saveErr = errors.New("connection refused")
	p := NewProgressController(api, zap.NewNop())

	w := p.Persist(context.Background(), &model.ProgressSnapshot{Email: "ana@example.com", SurveyID: 1})
	require.NotNil(t, w)
	assert.Equal(t, WarnSaveFailed, w.Message)
	assert.ErrorIs(t, w, api.saveErr)
	assert.Equal(t, PhaseIdle, p.Phase("ana@example.com", 1))
}

func TestFetchForResumeNone(t *testing.T) {
	p := NewProgressController(newFakeAPI(), zap.NewNop())

	snap, err := p.FetchForResume(context.Background(), "nadie@example.com", 1)
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Equal(t, PhaseIdle, p.Phase("nadie@example.com", 1))
}

func TestFetchForResumeIgnoresOtherSurvey(t *testing.T) {
	api := newFakeAPI()
	api.progress[progressKey("ana@example.com", 1)] = &model.ProgressSnapshot{Email: "ana@example.com", SurveyID: 2}
	p := NewProgressController(api, zap.NewNop())

	snap, err := p.FetchForResume(context.Background(), "ana@example.com", 1)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestCleanupThenFetchReturnsNone(t *testing.T) {
	api := newFakeAPI()
	p := NewProgressController(api, zap.NewNop())
	ctx := context.Background()

	require.Nil(t, p.Persist(ctx, &model.ProgressSnapshot{Email: "ana@example.com", SurveyID: 1, CurrentScreen: 3}))
	require.Nil(t, p.Cleanup(ctx, "ana@example.com", 1))

	snap, err := p.FetchForResume(ctx, "ana@example.com", 1)
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Equal(t, 1, api.deletes)
}

func TestUnansweredOfferExpires(t *testing.T) {
	api := newFakeAPI()
	p := NewProgressController(api, zap.NewNop())
	p.SetResolvedTTL(time.Hour)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	ctx := context.Background()

	require.Nil(t, p.Persist(ctx, &model.ProgressSnapshot{Email: "ana@example.com", SurveyID: 1, CurrentScreen: 4}))
	snap, err := p.FetchForResume(ctx, "ana@example.com", 1)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 1, p.Tracked())

	now = now.Add(59 * time.Minute)
	assert.Equal(t, PhaseResolved, p.Phase("ana@example.com", 1))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, PhaseIdle, p.Phase("ana@example.com", 1))
	assert.Zero(t, p.Tracked())
}
