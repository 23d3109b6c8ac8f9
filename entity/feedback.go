package entity

import "time"

type TalkRating struct {
	TalkTitle string `bson:"talkTitle" json:"talkTitle"`
	Rating    int    `bson:"rating" json:"rating"`
}

type Feedback struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	EventSlug   string `bson:"eventSlug" json:"eventSlug"`
	SlackUserID string `bson:"slackUserId" json:"slackUserId"`

	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`

	Rating           int          `bson:"rating" json:"rating"`
	Comment          string       `bson:"comment,omitempty" json:"comment,omitempty"`
	TalkRatings      []TalkRating `bson:"talkRatings,omitempty" json:"talkRatings,omitempty"`
	TopicSuggestions []string     `bson:"topicSuggestions,omitempty" json:"topicSuggestions,omitempty"`

	SubmittedAt time.Time `bson:"submittedAt" json:"submittedAt"`
}

// Anonymize blanks the author fields while keeping the ratings.
func (f *Feedback) Anonymize() {
	f.Name = ""
	f.Email = ""
	f.Comment = ""
}

type TalkAverage struct {
	TalkTitle string  `json:"talkTitle"`
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
}

type FeedbackSummary struct {
	Count         int           `json:"count"`
	AverageRating float64       `json:"averageRating"`
	TalkAverages  []TalkAverage `json:"talkAverages"`
}
