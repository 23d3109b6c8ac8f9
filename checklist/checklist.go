// Package checklist derives the admin task list for an event from its state
// and the already-fetched facts about it. Build takes every input up front
// and returns a fully resolved list; no item depends on data the caller has
// to patch in afterwards.
package checklist

import (
	"time"

	"github.com/offentlig-fagnett/backend/entity"
)

type State string

const (
	PreEvent  State = "PRE_EVENT"
	PostEvent State = "POST_EVENT"
)

// StateAt classifies an event relative to now. The boundary counts as
// post-event: only a start strictly in the future is pre-event.
func StateAt(eventStart, now time.Time) State {
	if eventStart.After(now) {
		return PreEvent
	}
	return PostEvent
}

func StateOf(eventStart time.Time) State {
	return StateAt(eventStart, time.Now())
}

type Item struct {
	Label      string `json:"label"`
	Done       bool   `json:"done"`
	ActionPath string `json:"actionPath,omitempty"`
}

// Inputs carries everything the checklist needs, fetched by the caller in one
// pass before Build.
type Inputs struct {
	Event           *entity.Event
	State           State
	Stats           entity.Stats
	ParticipantInfo *entity.ParticipantInfo
	PhotoCount      int
	AttachmentCount int
}

// Build returns the ordered checklist for the event in the given state.
func Build(in Inputs) []Item {
	base := "/admin/events/" + in.Event.Slug

	if in.State == PreEvent {
		return []Item{
			{
				Label:      "Legg inn praktisk informasjon til deltakerne",
				Done:       in.ParticipantInfo != nil && !in.ParticipantInfo.IsEmpty(),
				ActionPath: base + "/participant-info",
			},
			{
				Label:      "Opprett Slack-kanal for arrangementet",
				Done:       in.Event.SlackChannelID != "",
				ActionPath: base + "/slack",
			},
			{
				Label: "Minst én påmelding mottatt",
				Done:  in.Stats.Confirmed+in.Stats.Pending > 0,
			},
		}
	}

	return []Item{
		{
			Label:      "Registrer oppmøte",
			Done:       in.Stats.Attended > 0,
			ActionPath: base + "/registrations",
		},
		{
			Label:      "Last opp bilder fra arrangementet",
			Done:       in.PhotoCount > 0,
			ActionPath: base + "/photos",
		},
		{
			Label:      "Legg inn lenke til opptak",
			Done:       in.Event.RecordingURL != "",
			ActionPath: base + "/recording",
		},
		{
			Label:      "Del presentasjoner fra foredragene",
			Done:       in.AttachmentCount > 0,
			ActionPath: base + "/attachments",
		},
	}
}
