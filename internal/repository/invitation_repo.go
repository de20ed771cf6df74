package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"encuesta/internal/model"
)

// InvitationRepo handles issued invitation codes
type InvitationRepo interface {
	Upsert(ctx context.Context, rec *model.InvitationCodeRecord) error
	Get(ctx context.Context, code string) (*model.InvitationCodeRecord, error)
}

type invitationRepo struct {
	collection *mongo.Collection
}

// NewInvitationRepo creates a new invitation code repository
func NewInvitationRepo(db *mongo.Database) InvitationRepo {
	return &invitationRepo{
		collection: db.Collection("invitation_codes"),
	}
}

func (r *invitationRepo) Upsert(ctx context.Context, rec *model.InvitationCodeRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": rec.Code},
		rec,
		options.Replace().SetUpsert(true))
	return err
}

func (r *invitationRepo) Get(ctx context.Context, code string) (*model.InvitationCodeRecord, error) {
	var rec model.InvitationCodeRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": code}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
