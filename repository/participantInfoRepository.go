package repository

import (
	"context"
	"os"
	"time"

	"github.com/offentlig-fagnett/backend/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ParticipantInfoRepository struct {
	mongoClient *mongo.Client
}

func NewParticipantInfoRepository(mongoClient *mongo.Client) *ParticipantInfoRepository {
	return &ParticipantInfoRepository{
		mongoClient: mongoClient,
	}
}

func (r *ParticipantInfoRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(os.Getenv("MONGODB_NAME")).Collection("eventParticipantInfo")
}

func (r *ParticipantInfoRepository) FindOneByEventSlug(ctx context.Context, eventSlug string) (*entity.ParticipantInfo, error) {
	result := r.collection().FindOne(ctx, bson.M{"_id": eventSlug})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var info *entity.ParticipantInfo
	err := result.Decode(&info)
	if err != nil {
		return nil, err
	}

	return info, nil
}

func (r *ParticipantInfoRepository) UpsertOne(ctx context.Context, info entity.ParticipantInfo) (*entity.ParticipantInfo, error) {
	info.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": info.EventSlug}
	update := bson.M{"$set": info}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var updated *entity.ParticipantInfo
	err := result.Decode(&updated)
	if err != nil {
		return nil, err
	}

	return updated, nil
}
