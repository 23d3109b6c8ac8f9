package service

import (
	"context"
	"errors"
	"strings"

	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/entity"

	"go.mongodb.org/mongo-driver/mongo"
)

type FeedbackStore interface {
	FindOneByEventAndUser(ctx context.Context, eventSlug, slackUserID string) (*entity.Feedback, error)
	FindManyByEventSlug(ctx context.Context, eventSlug string) ([]*entity.Feedback, error)
	FindManyBySlackUserID(ctx context.Context, slackUserID string) ([]*entity.Feedback, error)
	InsertOne(ctx context.Context, feedback entity.Feedback) (*entity.Feedback, error)
	UpdateOne(ctx context.Context, feedback entity.Feedback) (*entity.Feedback, error)
}

type FeedbackService struct {
	feedbackStore FeedbackStore
}

func NewFeedbackService(feedbackStore FeedbackStore) *FeedbackService {
	return &FeedbackService{
		feedbackStore: feedbackStore,
	}
}

type FeedbackInput struct {
	EventSlug   string
	SlackUserID string
	Name        string
	Email       string

	Rating           int
	Comment          string
	TalkRatings      []entity.TalkRating
	TopicSuggestions []string
}

// SubmitFeedback accepts one submission per user per event.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, input FeedbackInput) (*entity.Feedback, error) {
	if input.EventSlug == "" || input.SlackUserID == "" {
		return nil, apperror.Validation("event and user are required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}
	for _, tr := range input.TalkRatings {
		if tr.Rating < 1 || tr.Rating > 5 {
			return nil, apperror.Validation("talk rating must be between 1 and 5")
		}
	}

	_, err := s.feedbackStore.FindOneByEventAndUser(ctx, input.EventSlug, input.SlackUserID)
	if err == nil {
		return nil, apperror.AlreadySubmitted("feedback already submitted for this event")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Internal("looking up existing feedback", err)
	}

	feedback, err := s.feedbackStore.InsertOne(ctx, entity.Feedback{
		EventSlug:        input.EventSlug,
		SlackUserID:      input.SlackUserID,
		Name:             strings.TrimSpace(input.Name),
		Email:            strings.TrimSpace(input.Email),
		Rating:           input.Rating,
		Comment:          input.Comment,
		TalkRatings:      input.TalkRatings,
		TopicSuggestions: input.TopicSuggestions,
	})
	if err != nil {
		return nil, apperror.Internal("creating feedback", err)
	}

	return feedback, nil
}

func (s *FeedbackService) HasSubmitted(ctx context.Context, eventSlug, slackUserID string) (bool, error) {
	_, err := s.feedbackStore.FindOneByEventAndUser(ctx, eventSlug, slackUserID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, apperror.Internal("looking up feedback", err)
	}

	return true, nil
}

func (s *FeedbackService) GetEventFeedback(ctx context.Context, eventSlug string) ([]*entity.Feedback, error) {
	feedback, err := s.feedbackStore.FindManyByEventSlug(ctx, eventSlug)
	if err != nil {
		return nil, apperror.Internal("listing feedback", err)
	}

	return feedback, nil
}

func (s *FeedbackService) GetEventFeedbackSummary(ctx context.Context, eventSlug string) (*entity.FeedbackSummary, error) {
	feedback, err := s.GetEventFeedback(ctx, eventSlug)
	if err != nil {
		return nil, err
	}

	summary := &entity.FeedbackSummary{Count: len(feedback)}
	if len(feedback) == 0 {
		return summary, nil
	}

	var total int
	talkTotals := map[string]*entity.TalkAverage{}
	var talkOrder []string
	for _, f := range feedback {
		total += f.Rating
		for _, tr := range f.TalkRatings {
			avg, ok := talkTotals[tr.TalkTitle]
			if !ok {
				avg = &entity.TalkAverage{TalkTitle: tr.TalkTitle}
				talkTotals[tr.TalkTitle] = avg
				talkOrder = append(talkOrder, tr.TalkTitle)
			}
			avg.Average += float64(tr.Rating)
			avg.Count++
		}
	}

	summary.AverageRating = float64(total) / float64(len(feedback))
	for _, title := range talkOrder {
		avg := talkTotals[title]
		avg.Average /= float64(avg.Count)
		summary.TalkAverages = append(summary.TalkAverages, *avg)
	}

	return summary, nil
}
