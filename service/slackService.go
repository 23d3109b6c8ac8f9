package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/entity"
	"github.com/offentlig-fagnett/backend/helpers"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

const (
	FeedbackModalCallbackID = "event_feedback"
	FeedbackButtonActionID  = "give_feedback"

	ratingBlockID   = "rating_block"
	ratingActionID  = "rating"
	commentBlockID  = "comment_block"
	commentActionID = "comment"
	topicsBlockID   = "topics_block"
	topicsActionID  = "topics"
)

// SlackAPI is the slice of the Slack client this service uses;
// *slack.Client satisfies it.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error)
	InviteUsersToConversationContext(ctx context.Context, channelID string, users ...string) (*slack.Channel, error)
	OpenViewContext(ctx context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
	GetUserGroupMembersContext(ctx context.Context, userGroup string) ([]string, error)
}

type SlackService struct {
	api          SlackAPI
	cache        *cache.Cache
	adminGroupID string
}

func NewSlackService(api SlackAPI, adminGroupID string) *SlackService {
	return &SlackService{
		api:          api,
		cache:        cache.New(helpers.SlackCacheTTL, 10*time.Minute),
		adminGroupID: adminGroupID,
	}
}

type InviteFailure struct {
	UserID string `json:"userId"`
	Error  string `json:"error"`
}

type InviteResult struct {
	Invited []string        `json:"invited"`
	Failed  []InviteFailure `json:"failed"`
}

// InviteUsersToChannel invites users in chunks with a delay between chunks to
// stay inside Slack's rate limits. A failing chunk is retried on rate
// limiting, then retried user by user so one bad member does not sink the
// rest. Users already in the channel count as invited.
func (s *SlackService) InviteUsersToChannel(ctx context.Context, channelID string, userIDs []string, batchSize int, delay time.Duration) (*InviteResult, error) {
	if channelID == "" {
		return nil, apperror.Validation("channel id is required")
	}
	if batchSize <= 0 {
		batchSize = helpers.InviteBatchSize
	}
	if delay <= 0 {
		delay = helpers.InviteBatchDelay
	}

	result := &InviteResult{
		Invited: []string{},
		Failed:  []InviteFailure{},
	}

	for start := 0; start < len(userIDs); start += batchSize {
		end := start + batchSize
		if end > len(userIDs) {
			end = len(userIDs)
		}
		chunk := userIDs[start:end]

		if start > 0 {
			select {
			case <-ctx.Done():
				return result, apperror.Internal("invite interrupted", ctx.Err())
			case <-time.After(delay):
			}
		}

		err := s.inviteChunk(ctx, channelID, chunk)
		if err == nil {
			result.Invited = append(result.Invited, chunk...)
			continue
		}

		for _, userID := range chunk {
			err := s.inviteChunk(ctx, channelID, []string{userID})
			if err != nil && !isAlreadyInChannel(err) {
				result.Failed = append(result.Failed, InviteFailure{UserID: userID, Error: err.Error()})
				continue
			}
			result.Invited = append(result.Invited, userID)
		}
	}

	return result, nil
}

func (s *SlackService) inviteChunk(ctx context.Context, channelID string, userIDs []string) error {
	retrier := retry.NewRetrier(5, 500*time.Millisecond, 10*time.Second)

	return retrier.RunContext(ctx, func(ctx context.Context) error {
		_, err := s.api.InviteUsersToConversationContext(ctx, channelID, userIDs...)
		if err == nil || isAlreadyInChannel(err) {
			return nil
		}

		var rateLimited *slack.RateLimitedError
		if errors.As(err, &rateLimited) {
			log.Warn().Dur("retryAfter", rateLimited.RetryAfter).Msg("slack invite rate limited")
			return err
		}

		return retry.Stop(err)
	})
}

func isAlreadyInChannel(err error) bool {
	return err != nil && err.Error() == "already_in_channel"
}

// SendRegistrationConfirmation DMs the user after registering.
func (s *SlackService) SendRegistrationConfirmation(ctx context.Context, slackUserID string, event *entity.Event, status entity.Status) error {
	var text string
	switch status {
	case entity.StatusWaitlist:
		text = fmt.Sprintf("Du står nå på venteliste til *%s* (%s). Vi gir deg beskjed hvis du får plass.", event.Title, event.DateString())
	default:
		text = fmt.Sprintf("Du er påmeldt *%s* (%s). Velkommen!", event.Title, event.DateString())
	}

	return s.sendDM(ctx, slackUserID, text)
}

// SendFeedbackPrompt posts the feedback call-to-action to the event's channel.
// The button carries the event slug; clicking it opens the feedback modal.
func (s *SlackService) SendFeedbackPrompt(ctx context.Context, event *entity.Event) error {
	if event.SlackChannelID == "" {
		return apperror.Validation("event has no Slack channel")
	}

	section := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("Takk for i dag! Hvordan var *%s*? Gi oss en tilbakemelding.", event.Title),
			false, false),
		nil, nil,
	)
	button := slack.NewButtonBlockElement(
		FeedbackButtonActionID,
		event.Slug,
		slack.NewTextBlockObject(slack.PlainTextType, "Gi tilbakemelding", false, false),
	)

	_, _, err := s.api.PostMessageContext(ctx, event.SlackChannelID,
		slack.MsgOptionBlocks(section, slack.NewActionBlock("feedback_prompt", button)),
	)
	if err != nil {
		return apperror.Internal("posting feedback prompt", err)
	}

	return nil
}

// SendFeedbackReceipt DMs the user after a feedback submission.
func (s *SlackService) SendFeedbackReceipt(ctx context.Context, slackUserID string, event *entity.Event) error {
	text := fmt.Sprintf("Takk for tilbakemeldingen på *%s*!", event.Title)
	return s.sendDM(ctx, slackUserID, text)
}

func (s *SlackService) sendDM(ctx context.Context, slackUserID, text string) error {
	channel, _, _, err := s.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{slackUserID},
	})
	if err != nil {
		return apperror.Internal("opening DM channel", err)
	}

	_, _, err = s.api.PostMessageContext(ctx, channel.ID,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return apperror.Internal("sending DM", err)
	}

	return nil
}

// OpenFeedbackModal opens the feedback dialog tied to a button click. The
// event slug travels in the view's private metadata.
func (s *SlackService) OpenFeedbackModal(ctx context.Context, triggerID string, event *entity.Event) error {
	ratingOptions := make([]*slack.OptionBlockObject, 0, 5)
	for i := 1; i <= 5; i++ {
		value := strconv.Itoa(i)
		ratingOptions = append(ratingOptions, slack.NewOptionBlockObject(
			value,
			slack.NewTextBlockObject(slack.PlainTextType, value, false, false),
			nil,
		))
	}

	ratingSelect := slack.NewOptionsSelectBlockElement(
		slack.OptTypeStatic,
		slack.NewTextBlockObject(slack.PlainTextType, "Velg", false, false),
		ratingActionID,
		ratingOptions...,
	)

	commentInput := slack.NewPlainTextInputBlockElement(
		slack.NewTextBlockObject(slack.PlainTextType, "Hva fungerte bra, hva kan bli bedre?", false, false),
		commentActionID,
	)
	commentInput.Multiline = true

	topicsInput := slack.NewPlainTextInputBlockElement(
		slack.NewTextBlockObject(slack.PlainTextType, "Temaer du ønsker deg fremover", false, false),
		topicsActionID,
	)

	ratingBlock := slack.NewInputBlock(ratingBlockID,
		slack.NewTextBlockObject(slack.PlainTextType, "Hvordan var arrangementet?", false, false),
		nil, ratingSelect)

	commentBlock := slack.NewInputBlock(commentBlockID,
		slack.NewTextBlockObject(slack.PlainTextType, "Kommentar", false, false),
		nil, commentInput)
	commentBlock.Optional = true

	topicsBlock := slack.NewInputBlock(topicsBlockID,
		slack.NewTextBlockObject(slack.PlainTextType, "Forslag til temaer", false, false),
		nil, topicsInput)
	topicsBlock.Optional = true

	view := slack.ModalViewRequest{
		Type:            slack.VTModal,
		Title:           slack.NewTextBlockObject(slack.PlainTextType, "Tilbakemelding", false, false),
		Submit:          slack.NewTextBlockObject(slack.PlainTextType, "Send", false, false),
		Close:           slack.NewTextBlockObject(slack.PlainTextType, "Avbryt", false, false),
		CallbackID:      FeedbackModalCallbackID,
		PrivateMetadata: event.Slug,
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{ratingBlock, commentBlock, topicsBlock},
		},
	}

	_, err := s.api.OpenViewContext(ctx, triggerID, view)
	if err != nil {
		return apperror.Internal("opening feedback modal", err)
	}

	return nil
}

// GetUserProfile fetches a user's profile, cached for a few minutes.
func (s *SlackService) GetUserProfile(ctx context.Context, slackUserID string) (*entity.Profile, error) {
	if cached, ok := s.cache.Get("user:" + slackUserID); ok {
		return cached.(*entity.Profile), nil
	}

	user, err := s.api.GetUserInfoContext(ctx, slackUserID)
	if err != nil {
		return nil, apperror.Internal("fetching slack user", err)
	}

	profile := &entity.Profile{
		SlackUserID: user.ID,
		Name:        user.Profile.RealName,
		Email:       user.Profile.Email,
		ImageURL:    user.Profile.Image192,
	}
	s.cache.SetDefault("user:"+slackUserID, profile)

	return profile, nil
}

// IsAdmin checks membership of the admin usergroup, cached for a few minutes.
func (s *SlackService) IsAdmin(ctx context.Context, slackUserID string) (bool, error) {
	members, err := s.adminGroupMembers(ctx)
	if err != nil {
		return false, err
	}

	for _, member := range members {
		if member == slackUserID {
			return true, nil
		}
	}
	return false, nil
}

func (s *SlackService) adminGroupMembers(ctx context.Context) ([]string, error) {
	if cached, ok := s.cache.Get("adminGroupMembers"); ok {
		return cached.([]string), nil
	}

	members, err := s.api.GetUserGroupMembersContext(ctx, s.adminGroupID)
	if err != nil {
		return nil, apperror.Internal("fetching admin group members", err)
	}
	s.cache.SetDefault("adminGroupMembers", members)

	return members, nil
}

// ExtractFeedbackSubmission pulls the modal's field values out of a view
// submission payload.
func ExtractFeedbackSubmission(callback *slack.InteractionCallback) (rating int, comment string, topics []string) {
	if callback.View.State == nil {
		return 0, "", nil
	}
	values := callback.View.State.Values

	rating, _ = strconv.Atoi(values[ratingBlockID][ratingActionID].SelectedOption.Value)
	comment = values[commentBlockID][commentActionID].Value

	raw := values[topicsBlockID][topicsActionID].Value
	for _, topic := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		topic = strings.TrimSpace(topic)
		if topic != "" {
			topics = append(topics, topic)
		}
	}

	return rating, comment, topics
}
