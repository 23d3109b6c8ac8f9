package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/checklist"
	"github.com/offentlig-fagnett/backend/entity"
	"github.com/offentlig-fagnett/backend/metric"
	"github.com/offentlig-fagnett/backend/orgname"
	"github.com/offentlig-fagnett/backend/service"
	"golang.org/x/sync/errgroup"
)

type AdminController struct {
	EventService           *service.EventService
	RegistrationService    *service.RegistrationService
	FeedbackService        *service.FeedbackService
	ParticipantInfoService *service.ParticipantInfoService
	AttachmentService      *service.AttachmentService
	SlackService           *service.SlackService
}

type listRegistrationsQuery struct {
	Page   int    `schema:"page"`
	Status string `schema:"status"`
	Query  string `schema:"q"`
}

// ListRegistrations handles GET /api/admin/events/:slug/registrations.
// A q parameter switches to fuzzy search; a status parameter filters.
func (h *AdminController) ListRegistrations(ctx *gin.Context) {
	slug := ctx.Param("slug")

	var query listRegistrationsQuery
	if err := decoder.Decode(&query, ctx.Request.URL.Query()); err != nil {
		abortWithError(ctx, apperror.Validation("invalid query: "+err.Error()))
		return
	}

	var registrations []*entity.Registration
	var err error
	switch {
	case query.Query != "":
		registrations, err = h.RegistrationService.SearchEventRegistrations(ctx.Request.Context(), slug, query.Query)
	default:
		registrations, err = h.RegistrationService.GetEventRegistrationsPage(ctx.Request.Context(), slug, query.Page, entity.Status(query.Status))
	}
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"registrations": registrations})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/admin/registrations/:id/status.
func (h *AdminController) UpdateStatus(ctx *gin.Context) {
	var req updateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	err := h.RegistrationService.UpdateRegistrationStatus(ctx.Request.Context(), ctx.Param("id"), entity.Status(req.Status))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	if entity.Status(req.Status) == entity.StatusCancelled {
		metric.RegistrationsCancelled.Inc()
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

type bulkStatusRequest struct {
	IDs    []string `json:"ids" binding:"required"`
	Status string   `json:"status" binding:"required"`
}

// BulkUpdateStatus handles POST /api/admin/registrations/status. Best-effort:
// the response lists which ids succeeded and which failed.
func (h *AdminController) BulkUpdateStatus(ctx *gin.Context) {
	var req bulkStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	result, err := h.RegistrationService.BulkUpdateStatus(ctx.Request.Context(), req.IDs, entity.Status(req.Status))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// Stats handles GET /api/admin/events/:slug/stats.
func (h *AdminController) Stats(ctx *gin.Context) {
	slug := ctx.Param("slug")

	stats, err := h.RegistrationService.GetEventRegistrationStats(ctx.Request.Context(), slug)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	counts, err := h.RegistrationService.GetRegistrationCountsByCategory(ctx.Request.Context(), slug)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"stats":  stats,
		"counts": counts,
	})
}

// Organizations handles GET /api/admin/events/:slug/organizations: the
// deduplicated organisation list behind the dashboard counts.
func (h *AdminController) Organizations(ctx *gin.Context) {
	registrations, err := h.RegistrationService.GetEventRegistrations(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	var raw []string
	for _, registration := range registrations {
		if registration.Status.IsActive() && registration.Organisation != "" {
			raw = append(raw, registration.Organisation)
		}
	}

	unique := orgname.UniqueClean(raw)
	organizations := make([]string, 0, len(unique))
	for name := range unique {
		organizations = append(organizations, orgname.Display(name))
	}

	ctx.JSON(http.StatusOK, gin.H{"organizations": organizations})
}

// Checklist handles GET /api/admin/events/:slug/checklist. All inputs are
// fetched up front, concurrently, and the returned list is fully resolved.
func (h *AdminController) Checklist(ctx *gin.Context) {
	slug := ctx.Param("slug")

	event, err := h.EventService.GetEvent(ctx.Request.Context(), slug)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	var (
		stats           entity.Stats
		participantInfo *entity.ParticipantInfo
		photoCount      int
		attachmentCount int
	)

	group, groupCtx := errgroup.WithContext(ctx.Request.Context())
	group.Go(func() error {
		var err error
		stats, err = h.RegistrationService.GetEventRegistrationStats(groupCtx, slug)
		return err
	})
	group.Go(func() error {
		var err error
		participantInfo, err = h.ParticipantInfoService.GetParticipantInfoOrNil(groupCtx, slug)
		return err
	})
	group.Go(func() error {
		var err error
		photoCount, err = h.EventService.GetPhotoCount(groupCtx, slug)
		return err
	})
	group.Go(func() error {
		var err error
		attachmentCount, err = h.AttachmentService.GetAttachmentCount(groupCtx, slug)
		return err
	})
	if err := group.Wait(); err != nil {
		abortWithError(ctx, err)
		return
	}

	state := checklist.StateOf(event.Start)
	items := checklist.Build(checklist.Inputs{
		Event:           event,
		State:           state,
		Stats:           stats,
		ParticipantInfo: participantInfo,
		PhotoCount:      photoCount,
		AttachmentCount: attachmentCount,
	})

	ctx.JSON(http.StatusOK, gin.H{
		"state": state,
		"items": items,
	})
}

type participantInfoRequest struct {
	VenueDetails  string `json:"venueDetails"`
	WifiInfo      string `json:"wifiInfo"`
	ArrivalNotes  string `json:"arrivalNotes"`
	ContactPerson string `json:"contactPerson"`
}

// UpsertParticipantInfo handles PUT /api/admin/events/:slug/participant-info.
func (h *AdminController) UpsertParticipantInfo(ctx *gin.Context) {
	var req participantInfoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	info, err := h.ParticipantInfoService.UpsertParticipantInfo(ctx.Request.Context(), entity.ParticipantInfo{
		EventSlug:     ctx.Param("slug"),
		VenueDetails:  req.VenueDetails,
		WifiInfo:      req.WifiInfo,
		ArrivalNotes:  req.ArrivalNotes,
		ContactPerson: req.ContactPerson,
	})
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, info)
}

// ListAttachments handles GET /api/admin/events/:slug/attachments.
func (h *AdminController) ListAttachments(ctx *gin.Context) {
	attachments, err := h.AttachmentService.GetEventAttachments(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"attachments": attachments})
}

type attachmentRequest struct {
	TalkTitle string `json:"talkTitle"`
	Title     string `json:"title" binding:"required"`
	URL       string `json:"url" binding:"required"`
}

// AddAttachment handles POST /api/admin/events/:slug/attachments.
func (h *AdminController) AddAttachment(ctx *gin.Context) {
	session := SessionFrom(ctx)

	var req attachmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	attachment, err := h.AttachmentService.AddAttachment(ctx.Request.Context(), entity.Attachment{
		EventSlug:  ctx.Param("slug"),
		TalkTitle:  req.TalkTitle,
		Title:      req.Title,
		URL:        req.URL,
		UploadedBy: session.SlackUserID,
	})
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, attachment)
}

// DeleteAttachment handles DELETE /api/admin/events/:slug/attachments/:id.
func (h *AdminController) DeleteAttachment(ctx *gin.Context) {
	err := h.AttachmentService.DeleteAttachment(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListFeedback handles GET /api/admin/events/:slug/feedback.
func (h *AdminController) ListFeedback(ctx *gin.Context) {
	slug := ctx.Param("slug")

	feedback, err := h.FeedbackService.GetEventFeedback(ctx.Request.Context(), slug)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	summary, err := h.FeedbackService.GetEventFeedbackSummary(ctx.Request.Context(), slug)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"feedback": feedback,
		"summary":  summary,
	})
}

type slackInviteRequest struct {
	BatchSize       int  `json:"batchSize"`
	DelaySeconds    int  `json:"delaySeconds"`
	IncludeWaitlist bool `json:"includeWaitlist"`
}

// SlackInvite handles POST /api/admin/events/:slug/slack/invite: invites the
// event's registered users to its Slack channel.
func (h *AdminController) SlackInvite(ctx *gin.Context) {
	slug := ctx.Param("slug")

	var req slackInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	event, err := h.EventService.GetEvent(ctx.Request.Context(), slug)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	if event.SlackChannelID == "" {
		abortWithError(ctx, apperror.Validation("event has no Slack channel"))
		return
	}

	registrations, err := h.RegistrationService.GetEventRegistrations(ctx.Request.Context(), slug)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	var userIDs []string
	for _, registration := range registrations {
		switch registration.Status {
		case entity.StatusConfirmed, entity.StatusAttended:
			userIDs = append(userIDs, registration.SlackUserID)
		case entity.StatusWaitlist:
			if req.IncludeWaitlist {
				userIDs = append(userIDs, registration.SlackUserID)
			}
		}
	}

	result, err := h.SlackService.InviteUsersToChannel(
		ctx.Request.Context(),
		event.SlackChannelID,
		userIDs,
		req.BatchSize,
		time.Duration(req.DelaySeconds)*time.Second,
	)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	metric.SlackInvitesSent.Add(float64(len(result.Invited)))
	metric.SlackInvitesFailed.Add(float64(len(result.Failed)))

	ctx.JSON(http.StatusOK, result)
}

// SlackFeedbackPrompt handles POST /api/admin/events/:slug/slack/feedback-prompt:
// posts the feedback button to the event's channel.
func (h *AdminController) SlackFeedbackPrompt(ctx *gin.Context) {
	event, err := h.EventService.GetEvent(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	err = h.SlackService.SendFeedbackPrompt(ctx.Request.Context(), event)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// AnonymizeUser handles DELETE /api/admin/users/:slackUserId: the GDPR
// erasure path.
func (h *AdminController) AnonymizeUser(ctx *gin.Context) {
	count, err := h.RegistrationService.AnonymizeUserData(ctx.Request.Context(), ctx.Param("slackUserId"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"anonymized": count})
}
