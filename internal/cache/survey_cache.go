package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"encuesta/internal/model"

	"github.com/redis/go-redis/v9"
)

// SurveyCache holds survey documents fetched from the survey API
type SurveyCache interface {
	SetSurvey(ctx context.Context, survey *model.Survey) error
	GetSurvey(ctx context.Context, id int64) (*model.Survey, error)
	DeleteSurvey(ctx context.Context, id int64) error
}

type surveyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSurveyCache creates a new survey cache
func NewSurveyCache(client *redis.Client, ttl time.Duration) SurveyCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &surveyCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *surveyCache) key(id int64) string {
	return fmt.Sprintf("survey:%d", id)
}

func (c *surveyCache) SetSurvey(ctx context.Context, survey *model.Survey) error {
	data, err := json.Marshal(survey)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(survey.ID), data, c.ttl).Err()
}

func (c *surveyCache) GetSurvey(ctx context.Context, id int64) (*model.Survey, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var survey model.Survey
	if err := json.Unmarshal([]byte(data), &survey); err != nil {
		return nil, err
	}
	return &survey, nil
}

func (c *surveyCache) DeleteSurvey(ctx context.Context, id int64) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
