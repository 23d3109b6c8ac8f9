package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/metric"
	"github.com/offentlig-fagnett/backend/service"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

type SlackController struct {
	EventService        *service.EventService
	RegistrationService *service.RegistrationService
	FeedbackService     *service.FeedbackService
	SlackService        *service.SlackService
}

// Interactions handles POST /api/slack/interactions. The request signature
// (HMAC-SHA256 over version, timestamp and body, 5-minute freshness window,
// constant-time compare) is verified before anything is parsed.
func (h *SlackController) Interactions(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		abortWithError(ctx, apperror.Validation("unreadable body"))
		return
	}

	verifier, err := slack.NewSecretsVerifier(ctx.Request.Header, os.Getenv("SLACK_SIGNING_SECRET"))
	if err != nil {
		abortWithError(ctx, apperror.Unauthorized("invalid slack signature headers"))
		return
	}
	if _, err := verifier.Write(body); err != nil {
		abortWithError(ctx, apperror.Internal("verifying slack signature", err))
		return
	}
	if err := verifier.Ensure(); err != nil {
		abortWithError(ctx, apperror.Unauthorized("slack signature mismatch"))
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		abortWithError(ctx, apperror.Validation("invalid form body"))
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(form.Get("payload")), &callback); err != nil {
		abortWithError(ctx, apperror.Validation("invalid interaction payload"))
		return
	}

	switch callback.Type {
	case slack.InteractionTypeBlockActions:
		h.handleBlockActions(ctx, &callback)

	case slack.InteractionTypeViewSubmission:
		// Ack inside Slack's 3-second window; the write happens afterwards.
		ctx.Status(http.StatusOK)
		go h.processFeedbackSubmission(&callback)

	default:
		ctx.Status(http.StatusOK)
	}
}

func (h *SlackController) handleBlockActions(ctx *gin.Context, callback *slack.InteractionCallback) {
	for _, action := range callback.ActionCallback.BlockActions {
		if action.ActionID != service.FeedbackButtonActionID {
			continue
		}

		event, err := h.EventService.GetEvent(ctx.Request.Context(), action.Value)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		err = h.SlackService.OpenFeedbackModal(ctx.Request.Context(), callback.TriggerID, event)
		if err != nil {
			abortWithError(ctx, err)
			return
		}
	}

	ctx.Status(http.StatusOK)
}

func (h *SlackController) processFeedbackSubmission(callback *slack.InteractionCallback) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slug := callback.View.PrivateMetadata
	slackUserID := callback.User.ID
	logger := log.With().Str("eventSlug", slug).Str("slackUserId", slackUserID).Logger()

	event, err := h.EventService.GetEvent(ctx, slug)
	if err != nil {
		logger.Error().Err(err).Msg("feedback submission: event lookup failed")
		return
	}

	registration, err := h.RegistrationService.GetUserRegistration(ctx, slug, slackUserID)
	if err != nil {
		logger.Warn().Err(err).Msg("feedback submission without registration")
		return
	}

	rating, comment, topics := service.ExtractFeedbackSubmission(callback)

	_, err = h.FeedbackService.SubmitFeedback(ctx, service.FeedbackInput{
		EventSlug:        slug,
		SlackUserID:      slackUserID,
		Name:             registration.Name,
		Email:            registration.Email,
		Rating:           rating,
		Comment:          comment,
		TopicSuggestions: topics,
	})
	if apperror.IsKind(err, apperror.KindAlreadySubmitted) {
		logger.Info().Msg("duplicate feedback submission ignored")
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("feedback submission failed")
		return
	}

	metric.FeedbackSubmitted.Inc()

	err = h.SlackService.SendFeedbackReceipt(ctx, slackUserID, event)
	if err != nil {
		logger.Error().Err(err).Msg("feedback receipt DM failed")
	}
}
