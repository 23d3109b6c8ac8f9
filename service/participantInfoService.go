package service

import (
	"context"
	"errors"

	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/entity"

	"go.mongodb.org/mongo-driver/mongo"
)

type ParticipantInfoStore interface {
	FindOneByEventSlug(ctx context.Context, eventSlug string) (*entity.ParticipantInfo, error)
	UpsertOne(ctx context.Context, info entity.ParticipantInfo) (*entity.ParticipantInfo, error)
}

type ParticipantInfoService struct {
	participantInfoStore ParticipantInfoStore
}

func NewParticipantInfoService(participantInfoStore ParticipantInfoStore) *ParticipantInfoService {
	return &ParticipantInfoService{
		participantInfoStore: participantInfoStore,
	}
}

func (s *ParticipantInfoService) GetParticipantInfo(ctx context.Context, eventSlug string) (*entity.ParticipantInfo, error) {
	info, err := s.participantInfoStore.FindOneByEventSlug(ctx, eventSlug)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("participant info not found")
	}
	if err != nil {
		return nil, apperror.Internal("looking up participant info", err)
	}

	return info, nil
}

// GetParticipantInfoOrNil is for aggregation paths where a missing document
// is not an error.
func (s *ParticipantInfoService) GetParticipantInfoOrNil(ctx context.Context, eventSlug string) (*entity.ParticipantInfo, error) {
	info, err := s.GetParticipantInfo(ctx, eventSlug)
	if apperror.IsKind(err, apperror.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return info, nil
}

func (s *ParticipantInfoService) UpsertParticipantInfo(ctx context.Context, info entity.ParticipantInfo) (*entity.ParticipantInfo, error) {
	if info.EventSlug == "" {
		return nil, apperror.Validation("event slug is required")
	}

	updated, err := s.participantInfoStore.UpsertOne(ctx, info)
	if err != nil {
		return nil, apperror.Internal("saving participant info", err)
	}

	return updated, nil
}
