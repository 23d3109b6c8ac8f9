package repository

import (
	"context"
	"os"
	"time"

	"github.com/offentlig-fagnett/backend/entity"
	"github.com/offentlig-fagnett/backend/helpers"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository reads CMS-authored event documents. This service never
// writes to the events collection.
type EventRepository struct {
	mongoClient *mongo.Client
}

func NewEventRepository(mongoClient *mongo.Client) *EventRepository {
	return &EventRepository{
		mongoClient: mongoClient,
	}
}

func (r *EventRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(os.Getenv("MONGODB_NAME")).Collection("events")
}

func (r *EventRepository) photoCollection() *mongo.Collection {
	return r.mongoClient.Database(os.Getenv("MONGODB_NAME")).Collection("eventPhotos")
}

func (r *EventRepository) FindOneBySlug(ctx context.Context, slug string) (*entity.Event, error) {
	result := r.collection().FindOne(ctx, bson.M{"slug": slug})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var event *entity.Event
	err := result.Decode(&event)
	if err != nil {
		return nil, err
	}

	return event, nil
}

func (r *EventRepository) FindManyFromDate(ctx context.Context, fromUTC time.Time) ([]*entity.Event, error) {
	cur, err := r.collection().Find(ctx,
		bson.M{"start": bson.M{"$gte": fromUTC}},
		options.Find().SetSort(bson.M{"start": 1}),
	)
	if err != nil {
		return nil, err
	}

	var events []*entity.Event
	err = cur.All(ctx, &events)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) FindManyByPageNumber(ctx context.Context, pageNumber int) ([]*entity.Event, error) {
	cur, err := r.collection().Find(ctx,
		bson.M{},
		options.Find().
			SetSort(bson.M{"start": -1}).
			SetSkip(int64(pageNumber*helpers.RegistrationsPageSize)).
			SetLimit(helpers.RegistrationsPageSize),
	)
	if err != nil {
		return nil, err
	}

	var events []*entity.Event
	err = cur.All(ctx, &events)
	if err != nil {
		return nil, err
	}

	return events, nil
}

// CountPhotos counts uploaded photo documents for the event, used by the
// post-event checklist.
func (r *EventRepository) CountPhotos(ctx context.Context, slug string) (int, error) {
	n, err := r.photoCollection().CountDocuments(ctx, bson.M{"eventSlug": slug})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
