package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"encuesta/internal/model"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSessionCacheRoundTrip(t *testing.T) {
	mr, client := newRedis(t)
	c := NewSessionCache(client, time.Minute)
	ctx := context.Background()

	opt := int64(4)
	state := &model.SessionState{
		ID:         "abc",
		SurveyID:   1,
		Position:   3,
		Responses:  []model.FormResponse{{QuestionID: 3, OptionID: &opt, Answer: "Verdadero"}},
		Profile:    model.RespondentProfile{Email: "ana@example.com"},
		Submission: model.SubmissionPending,
	}
	require.NoError(t, c.Set(ctx, state))
	assert.True(t, mr.Exists("wizard:session:abc"))

	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.Position, got.Position)
	assert.Equal(t, int64(4), *got.Responses[0].OptionID)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got, "expired")
}

func TestSessionCacheMissAndDelete(t *testing.T) {
	_, client := newRedis(t)
	c := NewSessionCache(client, 0)
	ctx := context.Background()

	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, &model.SessionState{ID: "x"}))
	require.NoError(t, c.Delete(ctx, "x"))
	got, err = c.Get(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSurveyCache(t *testing.T) {
	_, client := newRedis(t)
	c := NewSurveyCache(client, time.Hour)
	ctx := context.Background()

	survey := &model.Survey{
		ID:   7,
		Name: "Evaluación",
		QuestionGroups: []model.QuestionGroup{
			{ID: 1, Name: "TEMA 1", Modifiers: []model.Modifier{model.ModifierUnique}},
		},
	}
	require.NoError(t, c.SetSurvey(ctx, survey))

	got, err := c.GetSurvey(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Evaluación", got.Name)
	assert.True(t, got.QuestionGroups[0].HasModifier(model.ModifierUnique))

	require.NoError(t, c.DeleteSurvey(ctx, 7))
	got, err = c.GetSurvey(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}
