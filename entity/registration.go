package entity

import (
	"time"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusWaitlist  Status = "waitlist"
	StatusCancelled Status = "cancelled"
	StatusAttended  Status = "attended"
	StatusNoShow    Status = "no-show"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusWaitlist, StatusCancelled, StatusAttended, StatusNoShow:
		return true
	}
	return false
}

// IsActive reports whether the registration still occupies a place for the
// event. Cancelled and no-show rows do not.
func (s Status) IsActive() bool {
	switch s {
	case StatusConfirmed, StatusWaitlist, StatusAttended:
		return true
	}
	return false
}

type AttendanceType string

const (
	AttendancePhysical AttendanceType = "physical"
	AttendanceDigital  AttendanceType = "digital"
)

func (a AttendanceType) IsValid() bool {
	return a == AttendancePhysical || a == AttendanceDigital
}

type Registration struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	EventSlug   string `bson:"eventSlug" json:"eventSlug"`
	SlackUserID string `bson:"slackUserId" json:"slackUserId"`

	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	Organisation string `bson:"organisation" json:"organisation"`
	Dietary      string `bson:"dietary,omitempty" json:"dietary,omitempty"`
	Comments     string `bson:"comments,omitempty" json:"comments,omitempty"`

	AttendanceType       AttendanceType `bson:"attendanceType" json:"attendanceType"`
	AttendingSocialEvent bool           `bson:"attendingSocialEvent" json:"attendingSocialEvent"`

	RegisteredAt time.Time `bson:"registeredAt" json:"registeredAt"`
	Status       Status    `bson:"status" json:"status"`
}

// Anonymize blanks the personal fields while keeping the row for statistics.
func (r *Registration) Anonymize() {
	r.Name = ""
	r.Email = ""
	r.Organisation = ""
	r.Dietary = ""
	r.Comments = ""
}

// Stats is the fixed aggregate shape the admin dashboard renders. Pending
// counts the waitlist; cancelled includes no-shows.
type Stats struct {
	Confirmed int `json:"confirmed"`
	Attended  int `json:"attended"`
	Cancelled int `json:"cancelled"`
	Pending   int `json:"pending"`
}

type CategoryCounts struct {
	Persons             int `json:"persons"`
	UniqueOrganisations int `json:"uniqueOrganisations"`
	NamedOrganisations  int `json:"namedOrganisations"`
}

type StatusCount struct {
	Status Status `bson:"_id"`
	Count  int    `bson:"count"`
}
