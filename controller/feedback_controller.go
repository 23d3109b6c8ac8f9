package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/entity"
	"github.com/offentlig-fagnett/backend/metric"
	"github.com/offentlig-fagnett/backend/service"
	"github.com/rs/zerolog/log"
)

type FeedbackController struct {
	EventService        *service.EventService
	RegistrationService *service.RegistrationService
	FeedbackService     *service.FeedbackService
	SlackService        *service.SlackService
}

type feedbackRequest struct {
	Rating           int                 `json:"rating" binding:"required"`
	Comment          string              `json:"comment"`
	TalkRatings      []entity.TalkRating `json:"talkRatings"`
	TopicSuggestions []string            `json:"topicSuggestions"`
}

// Submit handles POST /api/events/:slug/feedback.
func (h *FeedbackController) Submit(ctx *gin.Context) {
	session := SessionFrom(ctx)
	slug := ctx.Param("slug")

	var req feedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	event, err := h.EventService.GetEvent(ctx.Request.Context(), slug)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	// Feedback requires a live registration for the event.
	registration, err := h.RegistrationService.GetUserRegistration(ctx.Request.Context(), slug, session.SlackUserID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			err = apperror.Forbidden("feedback requires a registration for this event")
		}
		abortWithError(ctx, err)
		return
	}

	feedback, err := h.FeedbackService.SubmitFeedback(ctx.Request.Context(), service.FeedbackInput{
		EventSlug:        slug,
		SlackUserID:      session.SlackUserID,
		Name:             registration.Name,
		Email:            registration.Email,
		Rating:           req.Rating,
		Comment:          req.Comment,
		TalkRatings:      req.TalkRatings,
		TopicSuggestions: req.TopicSuggestions,
	})
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	metric.FeedbackSubmitted.Inc()

	go func() {
		dmCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := h.SlackService.SendFeedbackReceipt(dmCtx, session.SlackUserID, event)
		if err != nil {
			log.Error().Err(err).Str("slackUserId", session.SlackUserID).Msg("feedback receipt DM failed")
		}
	}()

	ctx.JSON(http.StatusCreated, feedback)
}
