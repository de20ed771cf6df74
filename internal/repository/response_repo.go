package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"encuesta/internal/model"
)

// ResponseRepo stores completed survey submissions
type ResponseRepo interface {
	Create(ctx context.Context, resp *model.StoredResponse) error
	HasAnswered(ctx context.Context, email string, surveyID int64) (bool, error)
	CountBySurvey(ctx context.Context, surveyID int64) (int64, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) Create(ctx context.Context, resp *model.StoredResponse) error {
	if resp.SubmittedAt.IsZero() {
		resp.SubmittedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, resp)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		resp.ID = oid.Hex()
	}
	return nil
}

func (r *responseRepo) HasAnswered(ctx context.Context, email string, surveyID int64) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{
		"participant.email": email,
		"survey_id":         surveyID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *responseRepo) CountBySurvey(ctx context.Context, surveyID int64) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"survey_id": surveyID})
}
