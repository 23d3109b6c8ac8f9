package repository

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/offentlig-fagnett/backend/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FeedbackRepository struct {
	mongoClient *mongo.Client
}

func NewFeedbackRepository(mongoClient *mongo.Client) *FeedbackRepository {
	return &FeedbackRepository{
		mongoClient: mongoClient,
	}
}

func (r *FeedbackRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(os.Getenv("MONGODB_NAME")).Collection("eventFeedback")
}

func (r *FeedbackRepository) FindOneByEventAndUser(ctx context.Context, eventSlug, slackUserID string) (*entity.Feedback, error) {
	result := r.collection().FindOne(ctx, bson.M{
		"eventSlug":   eventSlug,
		"slackUserId": slackUserID,
	})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var feedback *entity.Feedback
	err := result.Decode(&feedback)
	if err != nil {
		return nil, err
	}

	return feedback, nil
}

func (r *FeedbackRepository) FindManyByEventSlug(ctx context.Context, eventSlug string) ([]*entity.Feedback, error) {
	cur, err := r.collection().Find(ctx,
		bson.M{"eventSlug": eventSlug},
		options.Find().SetSort(bson.M{"submittedAt": -1}),
	)
	if err != nil {
		return nil, err
	}

	var feedback []*entity.Feedback
	err = cur.All(ctx, &feedback)
	if err != nil {
		return nil, err
	}

	return feedback, nil
}

func (r *FeedbackRepository) FindManyBySlackUserID(ctx context.Context, slackUserID string) ([]*entity.Feedback, error) {
	cur, err := r.collection().Find(ctx, bson.M{"slackUserId": slackUserID})
	if err != nil {
		return nil, err
	}

	var feedback []*entity.Feedback
	err = cur.All(ctx, &feedback)
	if err != nil {
		return nil, err
	}

	return feedback, nil
}

func (r *FeedbackRepository) InsertOne(ctx context.Context, feedback entity.Feedback) (*entity.Feedback, error) {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.SubmittedAt.IsZero() {
		feedback.SubmittedAt = time.Now().UTC()
	}

	_, err := r.collection().InsertOne(ctx, feedback)
	if err != nil {
		return nil, err
	}

	return &feedback, nil
}

func (r *FeedbackRepository) UpdateOne(ctx context.Context, feedback entity.Feedback) (*entity.Feedback, error) {
	filter := bson.M{"_id": feedback.ID}
	update := bson.M{"$set": feedback}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var updated *entity.Feedback
	err := result.Decode(&updated)
	if err != nil {
		return nil, err
	}

	return updated, nil
}
