package checklist

import (
	"testing"
	"time"

	"github.com/offentlig-fagnett/backend/entity"
	"github.com/stretchr/testify/assert"
)

func TestStateAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)

	assert.Equal(t, PreEvent, StateAt(now.Add(time.Hour), now))
	assert.Equal(t, PostEvent, StateAt(now.Add(-time.Hour), now))
	// the boundary counts as post-event
	assert.Equal(t, PostEvent, StateAt(now, now))
}

func TestBuildPreEvent(t *testing.T) {
	event := &entity.Event{Slug: "fagdag-mars", SlackChannelID: "C123"}

	items := Build(Inputs{
		Event: event,
		State: PreEvent,
		Stats: entity.Stats{Confirmed: 3},
		ParticipantInfo: &entity.ParticipantInfo{
			EventSlug:    "fagdag-mars",
			ArrivalNotes: "Inngang fra gateplan",
		},
	})

	assert.Len(t, items, 3)
	assert.True(t, items[0].Done)
	assert.Equal(t, "/admin/events/fagdag-mars/participant-info", items[0].ActionPath)
	assert.True(t, items[1].Done)
	assert.True(t, items[2].Done)
}

func TestBuildPreEventNothingDone(t *testing.T) {
	event := &entity.Event{Slug: "fagdag-mars"}

	items := Build(Inputs{
		Event:           event,
		State:           PreEvent,
		ParticipantInfo: nil,
	})

	assert.Len(t, items, 3)
	for _, item := range items {
		assert.False(t, item.Done, item.Label)
	}
}

func TestBuildPreEventWaitlistCountsAsRegistration(t *testing.T) {
	event := &entity.Event{Slug: "fagdag-mars"}

	items := Build(Inputs{
		Event: event,
		State: PreEvent,
		Stats: entity.Stats{Pending: 1},
	})

	assert.True(t, items[2].Done)
}

func TestBuildPostEvent(t *testing.T) {
	event := &entity.Event{Slug: "fagdag-mars", RecordingURL: "https://vimeo.com/1"}

	items := Build(Inputs{
		Event:           event,
		State:           PostEvent,
		Stats:           entity.Stats{Attended: 12},
		PhotoCount:      0,
		AttachmentCount: 2,
	})

	assert.Len(t, items, 4)
	assert.True(t, items[0].Done)
	assert.False(t, items[1].Done)
	assert.True(t, items[2].Done)
	assert.True(t, items[3].Done)
}
