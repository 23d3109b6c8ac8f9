package repository

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/offentlig-fagnett/backend/entity"
	"github.com/offentlig-fagnett/backend/helpers"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RegistrationRepository struct {
	mongoClient *mongo.Client
}

func NewRegistrationRepository(mongoClient *mongo.Client) *RegistrationRepository {
	return &RegistrationRepository{
		mongoClient: mongoClient,
	}
}

func (r *RegistrationRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(os.Getenv("MONGODB_NAME")).Collection("eventRegistrations")
}

func (r *RegistrationRepository) FindManyByEventSlug(ctx context.Context, eventSlug string) ([]*entity.Registration, error) {
	return r.find(ctx,
		bson.M{"eventSlug": eventSlug},
		options.Find().SetSort(bson.M{"registeredAt": -1}),
	)
}

func (r *RegistrationRepository) FindManyByEventSlugAndPageNumber(ctx context.Context, eventSlug string, pageNumber int) ([]*entity.Registration, error) {
	return r.find(ctx,
		bson.M{"eventSlug": eventSlug},
		options.Find().
			SetSort(bson.M{"registeredAt": -1}).
			SetSkip(int64(pageNumber*helpers.RegistrationsPageSize)).
			SetLimit(helpers.RegistrationsPageSize),
	)
}

func (r *RegistrationRepository) FindManyByEventSlugAndStatus(ctx context.Context, eventSlug string, status entity.Status) ([]*entity.Registration, error) {
	return r.find(ctx,
		bson.M{"eventSlug": eventSlug, "status": status},
		options.Find().SetSort(bson.M{"registeredAt": -1}),
	)
}

func (r *RegistrationRepository) FindManyBySlackUserID(ctx context.Context, slackUserID string) ([]*entity.Registration, error) {
	return r.find(ctx,
		bson.M{"slackUserId": slackUserID},
		options.Find().SetSort(bson.M{"registeredAt": -1}),
	)
}

func (r *RegistrationRepository) FindOneByID(ctx context.Context, id string) (*entity.Registration, error) {
	result := r.collection().FindOne(ctx, bson.M{"_id": id})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var registration *entity.Registration
	err := result.Decode(&registration)
	if err != nil {
		return nil, err
	}

	return registration, nil
}

// FindOneNonCancelledByEventAndUser backs the duplicate-registration guard.
func (r *RegistrationRepository) FindOneNonCancelledByEventAndUser(ctx context.Context, eventSlug, slackUserID string) (*entity.Registration, error) {
	result := r.collection().FindOne(ctx, bson.M{
		"eventSlug":   eventSlug,
		"slackUserId": slackUserID,
		"status":      bson.M{"$ne": entity.StatusCancelled},
	})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var registration *entity.Registration
	err := result.Decode(&registration)
	if err != nil {
		return nil, err
	}

	return registration, nil
}

// FindOneActiveByEventAndUser filters to statuses that still occupy a place.
func (r *RegistrationRepository) FindOneActiveByEventAndUser(ctx context.Context, eventSlug, slackUserID string) (*entity.Registration, error) {
	result := r.collection().FindOne(ctx, bson.M{
		"eventSlug":   eventSlug,
		"slackUserId": slackUserID,
		"status": bson.M{"$in": bson.A{
			entity.StatusConfirmed,
			entity.StatusWaitlist,
			entity.StatusAttended,
		}},
	})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var registration *entity.Registration
	err := result.Decode(&registration)
	if err != nil {
		return nil, err
	}

	return registration, nil
}

func (r *RegistrationRepository) InsertOne(ctx context.Context, registration entity.Registration) (*entity.Registration, error) {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	if registration.RegisteredAt.IsZero() {
		registration.RegisteredAt = time.Now().UTC()
	}

	_, err := r.collection().InsertOne(ctx, registration)
	if err != nil {
		return nil, err
	}

	return &registration, nil
}

func (r *RegistrationRepository) UpdateOne(ctx context.Context, registration entity.Registration) (*entity.Registration, error) {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}

	filter := bson.M{"_id": registration.ID}
	update := bson.M{"$set": registration}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var updated *entity.Registration
	err := result.Decode(&updated)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// UpdateStatusByID overwrites the status. mongo.ErrNoDocuments when the id
// does not resolve.
func (r *RegistrationRepository) UpdateStatusByID(ctx context.Context, id string, status entity.Status) error {
	result, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *RegistrationRepository) DeleteOneByID(ctx context.Context, id string) error {
	_, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// CountsByStatus groups the event's registrations by status.
func (r *RegistrationRepository) CountsByStatus(ctx context.Context, eventSlug string) ([]*entity.StatusCount, error) {
	pipeline := bson.A{
		bson.M{
			"$match": bson.M{"eventSlug": eventSlug},
		},
		bson.M{
			"$group": bson.M{
				"_id":   "$status",
				"count": bson.M{"$sum": 1},
			},
		},
	}

	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var counts []*entity.StatusCount
	err = cur.All(ctx, &counts)
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *RegistrationRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*entity.Registration, error) {
	cur, err := r.collection().Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	var registrations []*entity.Registration
	err = cur.All(ctx, &registrations)
	if err != nil {
		return nil, err
	}

	return registrations, nil
}
