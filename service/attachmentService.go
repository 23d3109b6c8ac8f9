package service

import (
	"context"
	"errors"
	"strings"

	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/entity"

	"go.mongodb.org/mongo-driver/mongo"
)

type AttachmentStore interface {
	FindManyByEventSlug(ctx context.Context, eventSlug string) ([]*entity.Attachment, error)
	InsertOne(ctx context.Context, attachment entity.Attachment) (*entity.Attachment, error)
	DeleteOneByID(ctx context.Context, id string) error
	CountByEventSlug(ctx context.Context, eventSlug string) (int, error)
}

type AttachmentService struct {
	attachmentStore AttachmentStore
}

func NewAttachmentService(attachmentStore AttachmentStore) *AttachmentService {
	return &AttachmentService{
		attachmentStore: attachmentStore,
	}
}

func (s *AttachmentService) GetEventAttachments(ctx context.Context, eventSlug string) ([]*entity.Attachment, error) {
	attachments, err := s.attachmentStore.FindManyByEventSlug(ctx, eventSlug)
	if err != nil {
		return nil, apperror.Internal("listing attachments", err)
	}

	return attachments, nil
}

func (s *AttachmentService) AddAttachment(ctx context.Context, attachment entity.Attachment) (*entity.Attachment, error) {
	if attachment.EventSlug == "" || attachment.Title == "" {
		return nil, apperror.Validation("event slug and title are required")
	}
	if !strings.HasPrefix(attachment.URL, "https://") {
		return nil, apperror.Validation("attachment url must be https")
	}

	created, err := s.attachmentStore.InsertOne(ctx, attachment)
	if err != nil {
		return nil, apperror.Internal("creating attachment", err)
	}

	return created, nil
}

func (s *AttachmentService) DeleteAttachment(ctx context.Context, id string) error {
	err := s.attachmentStore.DeleteOneByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound("attachment not found")
	}
	if err != nil {
		return apperror.Internal("deleting attachment", err)
	}

	return nil
}

func (s *AttachmentService) GetAttachmentCount(ctx context.Context, eventSlug string) (int, error) {
	n, err := s.attachmentStore.CountByEventSlug(ctx, eventSlug)
	if err != nil {
		return 0, apperror.Internal("counting attachments", err)
	}

	return n, nil
}
