package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/checklist"
	"github.com/offentlig-fagnett/backend/entity"
	"github.com/offentlig-fagnett/backend/orgname"
	"github.com/rs/zerolog/log"

	"go.mongodb.org/mongo-driver/mongo"
)

// RegistrationStore is what the service needs from the registration
// collection; *repository.RegistrationRepository satisfies it.
type RegistrationStore interface {
	FindManyByEventSlug(ctx context.Context, eventSlug string) ([]*entity.Registration, error)
	FindManyByEventSlugAndPageNumber(ctx context.Context, eventSlug string, pageNumber int) ([]*entity.Registration, error)
	FindManyByEventSlugAndStatus(ctx context.Context, eventSlug string, status entity.Status) ([]*entity.Registration, error)
	FindManyBySlackUserID(ctx context.Context, slackUserID string) ([]*entity.Registration, error)
	FindOneByID(ctx context.Context, id string) (*entity.Registration, error)
	FindOneNonCancelledByEventAndUser(ctx context.Context, eventSlug, slackUserID string) (*entity.Registration, error)
	FindOneActiveByEventAndUser(ctx context.Context, eventSlug, slackUserID string) (*entity.Registration, error)
	InsertOne(ctx context.Context, registration entity.Registration) (*entity.Registration, error)
	UpdateOne(ctx context.Context, registration entity.Registration) (*entity.Registration, error)
	UpdateStatusByID(ctx context.Context, id string, status entity.Status) error
	CountsByStatus(ctx context.Context, eventSlug string) ([]*entity.StatusCount, error)
}

// FeedbackWriter is the slice of the feedback store the GDPR path needs.
type FeedbackWriter interface {
	FindManyBySlackUserID(ctx context.Context, slackUserID string) ([]*entity.Feedback, error)
	UpdateOne(ctx context.Context, feedback entity.Feedback) (*entity.Feedback, error)
}

type RegistrationService struct {
	registrationStore RegistrationStore
	feedbackStore     FeedbackWriter
}

func NewRegistrationService(registrationStore RegistrationStore, feedbackStore FeedbackWriter) *RegistrationService {
	return &RegistrationService{
		registrationStore: registrationStore,
		feedbackStore:     feedbackStore,
	}
}

type RegisterInput struct {
	EventSlug   string
	SlackUserID string

	Name         string
	Email        string
	Organisation string
	Dietary      string
	Comments     string

	AttendanceType       entity.AttendanceType
	AttendingSocialEvent bool

	// Waitlist is decided by the caller (capacity is not enforced here).
	Waitlist bool
}

// RegisterForEvent creates a registration unless the user already holds a
// non-cancelled one for the event. The duplicate guard is check-then-create
// against the store and therefore best-effort under concurrent requests.
func (s *RegistrationService) RegisterForEvent(ctx context.Context, input RegisterInput) (*entity.Registration, error) {
	if input.EventSlug == "" || input.SlackUserID == "" {
		return nil, apperror.Validation("event and user are required")
	}
	if input.Name == "" || input.Email == "" {
		return nil, apperror.Validation("name and email are required")
	}
	if !input.AttendanceType.IsValid() {
		return nil, apperror.Validation("attendance type must be physical or digital")
	}

	_, err := s.registrationStore.FindOneNonCancelledByEventAndUser(ctx, input.EventSlug, input.SlackUserID)
	if err == nil {
		return nil, apperror.AlreadyRegistered("user is already registered for this event")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Internal("looking up existing registration", err)
	}

	status := entity.StatusConfirmed
	if input.Waitlist {
		status = entity.StatusWaitlist
	}

	registration, err := s.registrationStore.InsertOne(ctx, entity.Registration{
		EventSlug:            input.EventSlug,
		SlackUserID:          input.SlackUserID,
		Name:                 strings.TrimSpace(input.Name),
		Email:                strings.TrimSpace(input.Email),
		Organisation:         strings.TrimSpace(input.Organisation),
		Dietary:              input.Dietary,
		Comments:             input.Comments,
		AttendanceType:       input.AttendanceType,
		AttendingSocialEvent: input.AttendingSocialEvent,
		Status:               status,
	})
	if err != nil {
		return nil, apperror.Internal("creating registration", err)
	}

	return registration, nil
}

func (s *RegistrationService) CancelRegistration(ctx context.Context, id string) error {
	err := s.registrationStore.UpdateStatusByID(ctx, id, entity.StatusCancelled)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound("registration not found")
	}
	if err != nil {
		return apperror.Internal("cancelling registration", err)
	}

	return nil
}

// CancelRegistrationForUser is the self-service path.
func (s *RegistrationService) CancelRegistrationForUser(ctx context.Context, eventSlug, slackUserID string) error {
	registration, err := s.registrationStore.FindOneNonCancelledByEventAndUser(ctx, eventSlug, slackUserID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound("registration not found")
	}
	if err != nil {
		return apperror.Internal("looking up registration", err)
	}

	return s.CancelRegistration(ctx, registration.ID)
}

func (s *RegistrationService) UpdateRegistrationStatus(ctx context.Context, id string, status entity.Status) error {
	if !status.IsValid() {
		return apperror.Validation("unknown status: " + string(status))
	}

	err := s.registrationStore.UpdateStatusByID(ctx, id, status)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound("registration not found")
	}
	if err != nil {
		return apperror.Internal("updating registration status", err)
	}

	return nil
}

type BulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type BulkStatusResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// BulkUpdateStatus applies the status to every id independently. A failure on
// one id does not stop the rest; the result reports both sides.
func (s *RegistrationService) BulkUpdateStatus(ctx context.Context, ids []string, status entity.Status) (*BulkStatusResult, error) {
	if !status.IsValid() {
		return nil, apperror.Validation("unknown status: " + string(status))
	}

	result := &BulkStatusResult{
		Succeeded: []string{},
		Failed:    []BulkFailure{},
	}
	for _, id := range ids {
		err := s.UpdateRegistrationStatus(ctx, id, status)
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Error: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	return result, nil
}

func (s *RegistrationService) GetEventRegistrations(ctx context.Context, eventSlug string) ([]*entity.Registration, error) {
	registrations, err := s.registrationStore.FindManyByEventSlug(ctx, eventSlug)
	if err != nil {
		return nil, apperror.Internal("listing registrations", err)
	}

	return registrations, nil
}

func (s *RegistrationService) GetEventRegistrationsPage(ctx context.Context, eventSlug string, pageNumber int, status entity.Status) ([]*entity.Registration, error) {
	if status != "" {
		if !status.IsValid() {
			return nil, apperror.Validation("unknown status: " + string(status))
		}
		registrations, err := s.registrationStore.FindManyByEventSlugAndStatus(ctx, eventSlug, status)
		if err != nil {
			return nil, apperror.Internal("listing registrations", err)
		}
		return registrations, nil
	}

	registrations, err := s.registrationStore.FindManyByEventSlugAndPageNumber(ctx, eventSlug, pageNumber)
	if err != nil {
		return nil, apperror.Internal("listing registrations", err)
	}

	return registrations, nil
}

// SearchEventRegistrations ranks the event's registrations against the query
// by name, organisation and email similarity.
func (s *RegistrationService) SearchEventRegistrations(ctx context.Context, eventSlug, query string) ([]*entity.Registration, error) {
	registrations, err := s.registrationStore.FindManyByEventSlug(ctx, eventSlug)
	if err != nil {
		return nil, apperror.Internal("listing registrations", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return registrations, nil
	}

	type scored struct {
		registration *entity.Registration
		score        float32
	}

	var matches []scored
	for _, registration := range registrations {
		score := similarity(query, registration.Name)
		if v := similarity(query, registration.Organisation); v > score {
			score = v
		}
		if v := similarity(query, registration.Email); v > score {
			score = v
		}
		if score >= 0.75 {
			matches = append(matches, scored{registration: registration, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	ranked := make([]*entity.Registration, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, m.registration)
	}

	return ranked, nil
}

func similarity(query, value string) float32 {
	value = strings.ToLower(value)
	if value == "" {
		return 0
	}
	if strings.Contains(value, query) {
		return 1
	}

	score, err := edlib.StringsSimilarity(query, value, edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	return score
}

// GetEventRegistrationStats aggregates counts into the dashboard's fixed
// shape. Waitlist counts as pending; no-shows count with the cancelled.
func (s *RegistrationService) GetEventRegistrationStats(ctx context.Context, eventSlug string) (entity.Stats, error) {
	counts, err := s.registrationStore.CountsByStatus(ctx, eventSlug)
	if err != nil {
		return entity.Stats{}, apperror.Internal("aggregating registration stats", err)
	}

	var stats entity.Stats
	for _, c := range counts {
		switch c.Status {
		case entity.StatusConfirmed:
			stats.Confirmed += c.Count
		case entity.StatusAttended:
			stats.Attended += c.Count
		case entity.StatusCancelled, entity.StatusNoShow:
			stats.Cancelled += c.Count
		case entity.StatusWaitlist:
			stats.Pending += c.Count
		}
	}

	return stats, nil
}

// GetRegistrationCountsByCategory counts people and organisations for the
// event. Organisation dedup goes through the normalization heuristic.
func (s *RegistrationService) GetRegistrationCountsByCategory(ctx context.Context, eventSlug string) (entity.CategoryCounts, error) {
	registrations, err := s.registrationStore.FindManyByEventSlug(ctx, eventSlug)
	if err != nil {
		return entity.CategoryCounts{}, apperror.Internal("listing registrations", err)
	}

	var counts entity.CategoryCounts
	var organisations []string
	for _, registration := range registrations {
		if !registration.Status.IsActive() {
			continue
		}
		counts.Persons++
		if registration.Organisation != "" {
			counts.NamedOrganisations++
			organisations = append(organisations, registration.Organisation)
		}
	}
	counts.UniqueOrganisations = len(orgname.UniqueClean(organisations))

	return counts, nil
}

func (s *RegistrationService) IsUserRegistered(ctx context.Context, eventSlug, slackUserID string) (bool, error) {
	_, err := s.registrationStore.FindOneActiveByEventAndUser(ctx, eventSlug, slackUserID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, apperror.Internal("looking up registration", err)
	}

	return true, nil
}

func (s *RegistrationService) GetUserRegistration(ctx context.Context, eventSlug, slackUserID string) (*entity.Registration, error) {
	registration, err := s.registrationStore.FindOneNonCancelledByEventAndUser(ctx, eventSlug, slackUserID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("registration not found")
	}
	if err != nil {
		return nil, apperror.Internal("looking up registration", err)
	}

	return registration, nil
}

type SelfServiceUpdate struct {
	AttendanceType       *entity.AttendanceType
	Comments             *string
	AttendingSocialEvent *bool
}

// UpdateSelfService lets a user adjust their own registration before the
// event starts.
func (s *RegistrationService) UpdateSelfService(ctx context.Context, event *entity.Event, slackUserID string, update SelfServiceUpdate) (*entity.Registration, error) {
	if checklist.StateOf(event.Start) != checklist.PreEvent {
		return nil, apperror.Validation("registration can no longer be changed")
	}

	registration, err := s.GetUserRegistration(ctx, event.Slug, slackUserID)
	if err != nil {
		return nil, err
	}

	if update.AttendanceType != nil {
		if !update.AttendanceType.IsValid() {
			return nil, apperror.Validation("attendance type must be physical or digital")
		}
		registration.AttendanceType = *update.AttendanceType
	}
	if update.Comments != nil {
		registration.Comments = *update.Comments
	}
	if update.AttendingSocialEvent != nil {
		registration.AttendingSocialEvent = *update.AttendingSocialEvent
	}

	updated, err := s.registrationStore.UpdateOne(ctx, *registration)
	if err != nil {
		return nil, apperror.Internal("updating registration", err)
	}

	return updated, nil
}

// AnonymizeUserData blanks personal fields on every registration the user has,
// across all events, keeping status and event reference for statistics. The
// user's feedback author fields are blanked as well. Returns the number of
// registrations touched.
func (s *RegistrationService) AnonymizeUserData(ctx context.Context, slackUserID string) (int, error) {
	registrations, err := s.registrationStore.FindManyBySlackUserID(ctx, slackUserID)
	if err != nil {
		return 0, apperror.Internal("listing user registrations", err)
	}

	var anonymized int
	for _, registration := range registrations {
		registration.Anonymize()
		_, err := s.registrationStore.UpdateOne(ctx, *registration)
		if err != nil {
			log.Error().Err(err).Str("registrationId", registration.ID).Msg("anonymize registration failed")
			continue
		}
		anonymized++
	}

	feedback, err := s.feedbackStore.FindManyBySlackUserID(ctx, slackUserID)
	if err != nil {
		return anonymized, apperror.Internal("listing user feedback", err)
	}
	for _, f := range feedback {
		f.Anonymize()
		_, err := s.feedbackStore.UpdateOne(ctx, *f)
		if err != nil {
			log.Error().Err(err).Str("feedbackId", f.ID).Msg("anonymize feedback failed")
		}
	}

	return anonymized, nil
}
