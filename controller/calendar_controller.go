package controller

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/offentlig-fagnett/backend/ical"
	"github.com/offentlig-fagnett/backend/service"
	"github.com/rs/zerolog/log"
)

type CalendarController struct {
	EventService *service.EventService
}

// Feed handles GET /calendar.ics: upcoming events as an iCalendar document.
func (h *CalendarController) Feed(ctx *gin.Context) {
	events, err := h.EventService.GetUpcomingEvents(ctx.Request.Context(), time.Now())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	baseURL := os.Getenv("BASE_URL")

	calendar := ical.Calendar{
		Name:        "Offentlig fagnettverk",
		Description: "Kommende arrangementer",
	}
	for _, event := range events {
		description := event.Ingress
		for _, talk := range event.Talks {
			description += "\n" + talk.Title + " – " + talk.Speaker
		}

		calendar.AddEvent(ical.Event{
			UID:         event.Slug + "@fagnett",
			Summary:     event.Title,
			Description: description,
			Location:    event.Location,
			URL:         baseURL + "/events/" + event.Slug,
			Start:       event.Start,
			End:         event.End,
		})
	}

	ctx.Header("Content-Type", "text/calendar; charset=utf-8")
	ctx.Status(http.StatusOK)
	if err := calendar.WriteTo(ctx.Writer); err != nil {
		log.Error().Err(err).Msg("writing calendar feed")
	}
}
