package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/entity"
	"github.com/offentlig-fagnett/backend/metric"
	"github.com/offentlig-fagnett/backend/service"
	"github.com/rs/zerolog/log"
)

var decoder = schema.NewDecoder()

type RegistrationController struct {
	EventService        *service.EventService
	RegistrationService *service.RegistrationService
	SlackService        *service.SlackService
}

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Organisation         string `json:"organisation"`
	Dietary              string `json:"dietary"`
	Comments             string `json:"comments"`
	AttendanceType       string `json:"attendanceType" binding:"required"`
	AttendingSocialEvent bool   `json:"attendingSocialEvent"`
}

// Register handles POST /api/events/:slug/registrations.
func (h *RegistrationController) Register(ctx *gin.Context) {
	session := SessionFrom(ctx)
	slug := ctx.Param("slug")

	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	event, err := h.EventService.GetEvent(ctx.Request.Context(), slug)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	if !event.RegistrationOpen(time.Now()) {
		abortWithError(ctx, apperror.Validation("registration is closed for this event"))
		return
	}

	// Form fields default to the caller's Slack profile.
	if req.Name == "" || req.Email == "" {
		profile, err := h.SlackService.GetUserProfile(ctx.Request.Context(), session.SlackUserID)
		if err == nil {
			if req.Name == "" {
				req.Name = profile.Name
			}
			if req.Email == "" {
				req.Email = profile.Email
			}
		}
	}

	waitlist, err := h.shouldWaitlist(ctx.Request.Context(), event)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	registration, err := h.RegistrationService.RegisterForEvent(ctx.Request.Context(), service.RegisterInput{
		EventSlug:            slug,
		SlackUserID:          session.SlackUserID,
		Name:                 req.Name,
		Email:                req.Email,
		Organisation:         req.Organisation,
		Dietary:              req.Dietary,
		Comments:             req.Comments,
		AttendanceType:       entity.AttendanceType(req.AttendanceType),
		AttendingSocialEvent: req.AttendingSocialEvent,
		Waitlist:             waitlist,
	})
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	metric.RegistrationsCreated.Inc()

	// Confirmation DM must not block the response.
	go func() {
		dmCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := h.SlackService.SendRegistrationConfirmation(dmCtx, session.SlackUserID, event, registration.Status)
		if err != nil {
			log.Error().Err(err).Str("slackUserId", session.SlackUserID).Msg("confirmation DM failed")
		}
	}()

	ctx.JSON(http.StatusCreated, registration)
}

// shouldWaitlist applies the capacity heuristic: physical capacity reached
// means new registrations go to the waitlist. Capacity is advisory, not a
// hard limit.
func (h *RegistrationController) shouldWaitlist(ctx context.Context, event *entity.Event) (bool, error) {
	if event.MaxCapacity <= 0 {
		return false, nil
	}

	stats, err := h.RegistrationService.GetEventRegistrationStats(ctx, event.Slug)
	if err != nil {
		return false, err
	}

	return stats.Confirmed+stats.Attended >= event.MaxCapacity, nil
}

// GetMyRegistration handles GET /api/events/:slug/registrations/me.
func (h *RegistrationController) GetMyRegistration(ctx *gin.Context) {
	session := SessionFrom(ctx)

	registration, err := h.RegistrationService.GetUserRegistration(ctx.Request.Context(), ctx.Param("slug"), session.SlackUserID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, registration)
}

type selfServiceRequest struct {
	AttendanceType       *string `json:"attendanceType"`
	Comments             *string `json:"comments"`
	AttendingSocialEvent *bool   `json:"attendingSocialEvent"`
}

// UpdateMyRegistration handles PATCH /api/events/:slug/registrations/me.
func (h *RegistrationController) UpdateMyRegistration(ctx *gin.Context) {
	session := SessionFrom(ctx)

	var req selfServiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	event, err := h.EventService.GetEvent(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	update := service.SelfServiceUpdate{
		Comments:             req.Comments,
		AttendingSocialEvent: req.AttendingSocialEvent,
	}
	if req.AttendanceType != nil {
		at := entity.AttendanceType(*req.AttendanceType)
		update.AttendanceType = &at
	}

	registration, err := h.RegistrationService.UpdateSelfService(ctx.Request.Context(), event, session.SlackUserID, update)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, registration)
}

// CancelMyRegistration handles DELETE /api/events/:slug/registrations/me.
func (h *RegistrationController) CancelMyRegistration(ctx *gin.Context) {
	session := SessionFrom(ctx)

	err := h.RegistrationService.CancelRegistrationForUser(ctx.Request.Context(), ctx.Param("slug"), session.SlackUserID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	metric.RegistrationsCancelled.Inc()
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetParticipantInfoForUser handles GET /api/events/:slug/participant-info;
// only actively registered users see it.
func (h *RegistrationController) GetParticipantInfo(participantInfoService *service.ParticipantInfoService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session := SessionFrom(ctx)
		slug := ctx.Param("slug")

		registered, err := h.RegistrationService.IsUserRegistered(ctx.Request.Context(), slug, session.SlackUserID)
		if err != nil {
			abortWithError(ctx, err)
			return
		}
		if !registered {
			abortWithError(ctx, apperror.Forbidden("participant info is only available to registered participants"))
			return
		}

		info, err := participantInfoService.GetParticipantInfo(ctx.Request.Context(), slug)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, info)
	}
}

// rpcRequest is the form-encoded operation envelope posted by the
// server-rendered pages.
type rpcRequest struct {
	Op        string `schema:"op,required"`
	EventSlug string `schema:"eventSlug,required"`

	Name                 string  `schema:"name"`
	Email                string  `schema:"email"`
	Organisation         string  `schema:"organisation"`
	Dietary              string  `schema:"dietary"`
	Comments             *string `schema:"comments"`
	AttendanceType       string  `schema:"attendanceType"`
	AttendingSocialEvent *bool   `schema:"attendingSocialEvent"`
}

// RPC handles POST /rpc/registration for the server-rendered UI. Same
// operations as the REST routes, form-encoded.
func (h *RegistrationController) RPC(ctx *gin.Context) {
	session := SessionFrom(ctx)

	if err := ctx.Request.ParseForm(); err != nil {
		abortWithError(ctx, apperror.Validation("invalid form body"))
		return
	}

	var req rpcRequest
	if err := decoder.Decode(&req, ctx.Request.PostForm); err != nil {
		abortWithError(ctx, apperror.Validation("invalid form body: "+err.Error()))
		return
	}

	switch req.Op {
	case "register":
		event, err := h.EventService.GetEvent(ctx.Request.Context(), req.EventSlug)
		if err != nil {
			abortWithError(ctx, err)
			return
		}
		if !event.RegistrationOpen(time.Now()) {
			abortWithError(ctx, apperror.Validation("registration is closed for this event"))
			return
		}

		waitlist, err := h.shouldWaitlist(ctx.Request.Context(), event)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		comments := ""
		if req.Comments != nil {
			comments = *req.Comments
		}
		social := false
		if req.AttendingSocialEvent != nil {
			social = *req.AttendingSocialEvent
		}

		registration, err := h.RegistrationService.RegisterForEvent(ctx.Request.Context(), service.RegisterInput{
			EventSlug:            req.EventSlug,
			SlackUserID:          session.SlackUserID,
			Name:                 req.Name,
			Email:                req.Email,
			Organisation:         req.Organisation,
			Dietary:              req.Dietary,
			Comments:             comments,
			AttendanceType:       entity.AttendanceType(req.AttendanceType),
			AttendingSocialEvent: social,
			Waitlist:             waitlist,
		})
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		metric.RegistrationsCreated.Inc()
		ctx.JSON(http.StatusCreated, registration)

	case "cancel":
		err := h.RegistrationService.CancelRegistrationForUser(ctx.Request.Context(), req.EventSlug, session.SlackUserID)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		metric.RegistrationsCancelled.Inc()
		ctx.JSON(http.StatusOK, gin.H{"ok": true})

	case "update":
		event, err := h.EventService.GetEvent(ctx.Request.Context(), req.EventSlug)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		update := service.SelfServiceUpdate{
			Comments:             req.Comments,
			AttendingSocialEvent: req.AttendingSocialEvent,
		}
		if req.AttendanceType != "" {
			at := entity.AttendanceType(req.AttendanceType)
			update.AttendanceType = &at
		}

		registration, err := h.RegistrationService.UpdateSelfService(ctx.Request.Context(), event, session.SlackUserID, update)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, registration)

	default:
		abortWithError(ctx, apperror.Validation("unknown op: "+req.Op))
	}
}
