package entity

import (
	"time"

	"github.com/klauspost/lctime"
)

type Talk struct {
	Title           string `bson:"title" json:"title"`
	Speaker         string `bson:"speaker" json:"speaker"`
	DurationMinutes int    `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
}

// Event is authored in the CMS and read-only from this service.
type Event struct {
	Slug     string    `bson:"slug" json:"slug"`
	Title    string    `bson:"title" json:"title"`
	Ingress  string    `bson:"ingress,omitempty" json:"ingress,omitempty"`
	Start    time.Time `bson:"start" json:"start"`
	End      time.Time `bson:"end" json:"end"`
	Location string    `bson:"location,omitempty" json:"location,omitempty"`
	Audience string    `bson:"audience,omitempty" json:"audience,omitempty"`

	RegistrationOpens *time.Time `bson:"registrationOpens,omitempty" json:"registrationOpens,omitempty"`
	MaxCapacity       int        `bson:"maxCapacity,omitempty" json:"maxCapacity,omitempty"`
	SocialEvent       bool       `bson:"socialEvent" json:"socialEvent"`

	SlackChannelID string `bson:"slackChannelId,omitempty" json:"slackChannelId,omitempty"`
	RecordingURL   string `bson:"recordingUrl,omitempty" json:"recordingUrl,omitempty"`

	Talks []Talk `bson:"talks,omitempty" json:"talks,omitempty"`
}

// DateString renders the event start in Norwegian for Slack messages,
// e.g. "torsdag 12. mars 09:00".
func (e *Event) DateString() string {
	format := "%A %d. %B %H:%M"
	if e.Start.Hour() == 0 && e.Start.Minute() == 0 {
		format = "%A %d. %B"
	}
	s, err := lctime.StrftimeLoc("nb_NO", format, e.Start)
	if err != nil {
		return e.Start.Format("02.01.2006 15:04")
	}
	return s
}

// RegistrationOpen reports whether self-registration is accepted at t.
func (e *Event) RegistrationOpen(t time.Time) bool {
	if !t.Before(e.Start) {
		return false
	}
	if e.RegistrationOpens != nil && t.Before(*e.RegistrationOpens) {
		return false
	}
	return true
}
