package entity

import "time"

// ParticipantInfo is the practical information sent to registered
// participants ahead of an event. One document per event.
type ParticipantInfo struct {
	EventSlug     string    `bson:"_id" json:"eventSlug"`
	VenueDetails  string    `bson:"venueDetails,omitempty" json:"venueDetails,omitempty"`
	WifiInfo      string    `bson:"wifiInfo,omitempty" json:"wifiInfo,omitempty"`
	ArrivalNotes  string    `bson:"arrivalNotes,omitempty" json:"arrivalNotes,omitempty"`
	ContactPerson string    `bson:"contactPerson,omitempty" json:"contactPerson,omitempty"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (p *ParticipantInfo) IsEmpty() bool {
	return p.VenueDetails == "" && p.WifiInfo == "" && p.ArrivalNotes == "" && p.ContactPerson == ""
}
