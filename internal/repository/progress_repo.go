package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"encuesta/internal/model"
)

// ProgressRepo stores one resume snapshot per (email, survey)
type ProgressRepo interface {
	Save(ctx context.Context, snap *model.ProgressSnapshot) error
	Get(ctx context.Context, email string, surveyID int64) (*model.ProgressSnapshot, error)
	Delete(ctx context.Context, email string, surveyID int64) (bool, error)
}

type progressRepo struct {
	collection *mongo.Collection
}

// NewProgressRepo creates a new progress repository
func NewProgressRepo(db *mongo.Database) ProgressRepo {
	return &progressRepo{
		collection: db.Collection("progress"),
	}
}

func progressFilter(email string, surveyID int64) bson.M {
	return bson.M{"email": email, "survey_id": surveyID}
}

// Save overwrites the snapshot in place; last write wins
func (r *progressRepo) Save(ctx context.Context, snap *model.ProgressSnapshot) error {
	snap.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx,
		progressFilter(snap.Email, snap.SurveyID),
		snap,
		options.Replace().SetUpsert(true))
	return err
}

func (r *progressRepo) Get(ctx context.Context, email string, surveyID int64) (*model.ProgressSnapshot, error) {
	var snap model.ProgressSnapshot
	err := r.collection.FindOne(ctx, progressFilter(email, surveyID)).Decode(&snap)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Delete reports whether a snapshot existed
func (r *progressRepo) Delete(ctx context.Context, email string, surveyID int64) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, progressFilter(email, surveyID))
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
