package service

import (
	"context"
	"errors"
	"time"

	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/entity"

	"go.mongodb.org/mongo-driver/mongo"
)

type EventStore interface {
	FindOneBySlug(ctx context.Context, slug string) (*entity.Event, error)
	FindManyFromDate(ctx context.Context, fromUTC time.Time) ([]*entity.Event, error)
	FindManyByPageNumber(ctx context.Context, pageNumber int) ([]*entity.Event, error)
	CountPhotos(ctx context.Context, slug string) (int, error)
}

type EventService struct {
	eventStore EventStore
}

func NewEventService(eventStore EventStore) *EventService {
	return &EventService{
		eventStore: eventStore,
	}
}

func (s *EventService) GetEvent(ctx context.Context, slug string) (*entity.Event, error) {
	event, err := s.eventStore.FindOneBySlug(ctx, slug)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("event not found")
	}
	if err != nil {
		return nil, apperror.Internal("looking up event", err)
	}

	return event, nil
}

func (s *EventService) GetUpcomingEvents(ctx context.Context, from time.Time) ([]*entity.Event, error) {
	events, err := s.eventStore.FindManyFromDate(ctx, from.UTC())
	if err != nil {
		return nil, apperror.Internal("listing upcoming events", err)
	}

	return events, nil
}

func (s *EventService) GetAllEvents(ctx context.Context, pageNumber int) ([]*entity.Event, error) {
	events, err := s.eventStore.FindManyByPageNumber(ctx, pageNumber)
	if err != nil {
		return nil, apperror.Internal("listing events", err)
	}

	return events, nil
}

func (s *EventService) GetPhotoCount(ctx context.Context, slug string) (int, error) {
	n, err := s.eventStore.CountPhotos(ctx, slug)
	if err != nil {
		return 0, apperror.Internal("counting event photos", err)
	}

	return n, nil
}
