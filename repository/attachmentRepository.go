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

type AttachmentRepository struct {
	mongoClient *mongo.Client
}

func NewAttachmentRepository(mongoClient *mongo.Client) *AttachmentRepository {
	return &AttachmentRepository{
		mongoClient: mongoClient,
	}
}

func (r *AttachmentRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(os.Getenv("MONGODB_NAME")).Collection("talkAttachments")
}

func (r *AttachmentRepository) FindManyByEventSlug(ctx context.Context, eventSlug string) ([]*entity.Attachment, error) {
	cur, err := r.collection().Find(ctx,
		bson.M{"eventSlug": eventSlug},
		options.Find().SetSort(bson.M{"uploadedAt": -1}),
	)
	if err != nil {
		return nil, err
	}

	var attachments []*entity.Attachment
	err = cur.All(ctx, &attachments)
	if err != nil {
		return nil, err
	}

	return attachments, nil
}

func (r *AttachmentRepository) InsertOne(ctx context.Context, attachment entity.Attachment) (*entity.Attachment, error) {
	if attachment.ID == "" {
		attachment.ID = uuid.NewString()
	}
	if attachment.UploadedAt.IsZero() {
		attachment.UploadedAt = time.Now().UTC()
	}

	_, err := r.collection().InsertOne(ctx, attachment)
	if err != nil {
		return nil, err
	}

	return &attachment, nil
}

func (r *AttachmentRepository) DeleteOneByID(ctx context.Context, id string) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *AttachmentRepository) CountByEventSlug(ctx context.Context, eventSlug string) (int, error) {
	n, err := r.collection().CountDocuments(ctx, bson.M{"eventSlug": eventSlug})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
