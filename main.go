package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/offentlig-fagnett/backend/controller"
	"github.com/offentlig-fagnett/backend/helpers"
	"github.com/offentlig-fagnett/backend/metric"
	"github.com/offentlig-fagnett/backend/repository"
	"github.com/offentlig-fagnett/backend/service"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	_ = godotenv.Load()
	helpers.SetupLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(os.Getenv("MONGODB_URI")))
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongo")
	}
	defer mongoClient.Disconnect(context.Background())

	err = mongoClient.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatal().Err(err).Msg("pinging mongo")
	}

	slackClient := slack.New(
		os.Getenv("SLACK_BOT_TOKEN"),
		slack.OptionHTTPClient(&http.Client{
			Transport: helpers.NewTransportWithLogger(nil),
			Timeout:   30 * time.Second,
		}),
	)

	registrationRepository := repository.NewRegistrationRepository(mongoClient)
	feedbackRepository := repository.NewFeedbackRepository(mongoClient)
	eventRepository := repository.NewEventRepository(mongoClient)
	participantInfoRepository := repository.NewParticipantInfoRepository(mongoClient)
	attachmentRepository := repository.NewAttachmentRepository(mongoClient)

	registrationService := service.NewRegistrationService(registrationRepository, feedbackRepository)
	feedbackService := service.NewFeedbackService(feedbackRepository)
	eventService := service.NewEventService(eventRepository)
	participantInfoService := service.NewParticipantInfoService(participantInfoRepository)
	attachmentService := service.NewAttachmentService(attachmentRepository)
	slackService := service.NewSlackService(slackClient, os.Getenv("ADMIN_SLACK_GROUP_ID"))

	registrationController := &controller.RegistrationController{
		EventService:        eventService,
		RegistrationService: registrationService,
		SlackService:        slackService,
	}
	feedbackController := &controller.FeedbackController{
		EventService:        eventService,
		RegistrationService: registrationService,
		FeedbackService:     feedbackService,
		SlackService:        slackService,
	}
	adminController := &controller.AdminController{
		EventService:           eventService,
		RegistrationService:    registrationService,
		FeedbackService:        feedbackService,
		ParticipantInfoService: participantInfoService,
		AttachmentService:      attachmentService,
		SlackService:           slackService,
	}
	slackController := &controller.SlackController{
		EventService:        eventService,
		RegistrationService: registrationService,
		FeedbackService:     feedbackService,
		SlackService:        slackService,
	}
	calendarController := &controller.CalendarController{
		EventService: eventService,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metric.Middleware())

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metric.Handler())
	r.GET("/calendar.ics", calendarController.Feed)

	api := r.Group("/api", controller.RequireSession())
	{
		api.POST("/events/:slug/registrations", registrationController.Register)
		api.GET("/events/:slug/registrations/me", registrationController.GetMyRegistration)
		api.PATCH("/events/:slug/registrations/me", registrationController.UpdateMyRegistration)
		api.DELETE("/events/:slug/registrations/me", registrationController.CancelMyRegistration)
		api.GET("/events/:slug/participant-info", registrationController.GetParticipantInfo(participantInfoService))
		api.POST("/events/:slug/feedback", feedbackController.Submit)
	}

	r.POST("/rpc/registration", controller.RequireSession(), registrationController.RPC)

	admin := r.Group("/api/admin", controller.RequireSession(), controller.RequireAdmin(slackService))
	{
		admin.GET("/events/:slug/registrations", adminController.ListRegistrations)
		admin.PATCH("/registrations/:id/status", adminController.UpdateStatus)
		admin.POST("/registrations/status", adminController.BulkUpdateStatus)
		admin.GET("/events/:slug/stats", adminController.Stats)
		admin.GET("/events/:slug/organizations", adminController.Organizations)
		admin.GET("/events/:slug/checklist", adminController.Checklist)
		admin.PUT("/events/:slug/participant-info", adminController.UpsertParticipantInfo)
		admin.GET("/events/:slug/attachments", adminController.ListAttachments)
		admin.POST("/events/:slug/attachments", adminController.AddAttachment)
		admin.DELETE("/events/:slug/attachments/:id", adminController.DeleteAttachment)
		admin.GET("/events/:slug/feedback", adminController.ListFeedback)
		admin.POST("/events/:slug/slack/invite", adminController.SlackInvite)
		admin.POST("/events/:slug/slack/feedback-prompt", adminController.SlackFeedbackPrompt)
		admin.DELETE("/users/:slackUserId", adminController.AnonymizeUser)
	}

	r.POST("/api/slack/interactions", slackController.Interactions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("starting server")
	err = r.Run(":" + port)
	if err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
