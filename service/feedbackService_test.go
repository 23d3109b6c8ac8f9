package service

import (
	"context"
	"testing"

	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/entity"
	"github.com/stretchr/testify/assert"
)

func validFeedbackInput() FeedbackInput {
	return FeedbackInput{
		EventSlug:   "fagdag-mars",
		SlackUserID: "U123",
		Name:        "Kari Nordmann",
		Email:       "kari@nav.no",
		Rating:      4,
		Comment:     "Nyttig dag!",
	}
}

func TestSubmitFeedback(t *testing.T) {
	s := NewFeedbackService(newFakeFeedbackStore())

	feedback, err := s.SubmitFeedback(context.Background(), validFeedbackInput())
	assert.NoError(t, err)
	assert.NotEmpty(t, feedback.ID)
	assert.False(t, feedback.SubmittedAt.IsZero())

	submitted, err := s.HasSubmitted(context.Background(), "fagdag-mars", "U123")
	assert.NoError(t, err)
	assert.True(t, submitted)
}

func TestSubmitFeedbackRejectsDuplicate(t *testing.T) {
	s := NewFeedbackService(newFakeFeedbackStore())

	_, err := s.SubmitFeedback(context.Background(), validFeedbackInput())
	assert.NoError(t, err)

	_, err = s.SubmitFeedback(context.Background(), validFeedbackInput())
	assert.True(t, apperror.IsKind(err, apperror.KindAlreadySubmitted))
}

func TestSubmitFeedbackValidatesRatings(t *testing.T) {
	s := NewFeedbackService(newFakeFeedbackStore())

	input := validFeedbackInput()
	input.Rating = 0
	_, err := s.SubmitFeedback(context.Background(), input)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	input = validFeedbackInput()
	input.Rating = 6
	_, err = s.SubmitFeedback(context.Background(), input)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	input = validFeedbackInput()
	input.TalkRatings = []entity.TalkRating{{TalkTitle: "Datadeling i praksis", Rating: 0}}
	_, err = s.SubmitFeedback(context.Background(), input)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestGetEventFeedbackSummary(t *testing.T) {
	store := newFakeFeedbackStore()
	s := NewFeedbackService(store)

	submit := func(user string, rating int, talkRatings ...entity.TalkRating) {
		input := validFeedbackInput()
		input.SlackUserID = user
		input.Rating = rating
		input.TalkRatings = talkRatings
		_, err := s.SubmitFeedback(context.Background(), input)
		assert.NoError(t, err)
	}

	submit("U1", 5, entity.TalkRating{TalkTitle: "Datadeling", Rating: 5})
	submit("U2", 4, entity.TalkRating{TalkTitle: "Datadeling", Rating: 3}, entity.TalkRating{TalkTitle: "Skyreisen", Rating: 4})
	submit("U3", 3)

	summary, err := s.GetEventFeedbackSummary(context.Background(), "fagdag-mars")
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.InDelta(t, 4.0, summary.AverageRating, 0.001)
	assert.Len(t, summary.TalkAverages, 2)

	byTitle := map[string]entity.TalkAverage{}
	for _, ta := range summary.TalkAverages {
		byTitle[ta.TalkTitle] = ta
	}
	assert.InDelta(t, 4.0, byTitle["Datadeling"].Average, 0.001)
	assert.Equal(t, 2, byTitle["Datadeling"].Count)
	assert.InDelta(t, 4.0, byTitle["Skyreisen"].Average, 0.001)
	assert.Equal(t, 1, byTitle["Skyreisen"].Count)
}

func TestGetEventFeedbackSummaryEmpty(t *testing.T) {
	s := NewFeedbackService(newFakeFeedbackStore())

	summary, err := s.GetEventFeedbackSummary(context.Background(), "fagdag-mars")
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Count)
	assert.Zero(t, summary.AverageRating)
	assert.Empty(t, summary.TalkAverages)
}
