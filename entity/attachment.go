package entity

import "time"

// Attachment is a slide deck or other link attached to a talk after the event.
type Attachment struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	EventSlug  string    `bson:"eventSlug" json:"eventSlug"`
	TalkTitle  string    `bson:"talkTitle" json:"talkTitle"`
	Title      string    `bson:"title" json:"title"`
	URL        string    `bson:"url" json:"url"`
	UploadedBy string    `bson:"uploadedBy" json:"uploadedBy"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}
