package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/offentlig-fagnett/backend/entity"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRegistrationStore struct {
	registrations map[string]*entity.Registration
	nextID        int
	failUpdateFor map[string]bool
}

func newFakeRegistrationStore() *fakeRegistrationStore {
	return &fakeRegistrationStore{
		registrations: map[string]*entity.Registration{},
		failUpdateFor: map[string]bool{},
	}
}

func (f *fakeRegistrationStore) FindManyByEventSlug(_ context.Context, eventSlug string) ([]*entity.Registration, error) {
	var out []*entity.Registration
	for _, r := range f.registrations {
		if r.EventSlug == eventSlug {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRegistrationStore) FindManyByEventSlugAndPageNumber(ctx context.Context, eventSlug string, _ int) ([]*entity.Registration, error) {
	return f.FindManyByEventSlug(ctx, eventSlug)
}

func (f *fakeRegistrationStore) FindManyByEventSlugAndStatus(_ context.Context, eventSlug string, status entity.Status) ([]*entity.Registration, error) {
	var out []*entity.Registration
	for _, r := range f.registrations {
		if r.EventSlug == eventSlug && r.Status == status {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRegistrationStore) FindManyBySlackUserID(_ context.Context, slackUserID string) ([]*entity.Registration, error) {
	var out []*entity.Registration
	for _, r := range f.registrations {
		if r.SlackUserID == slackUserID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRegistrationStore) FindOneByID(_ context.Context, id string) (*entity.Registration, error) {
	r, ok := f.registrations[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRegistrationStore) FindOneNonCancelledByEventAndUser(_ context.Context, eventSlug, slackUserID string) (*entity.Registration, error) {
	for _, r := range f.registrations {
		if r.EventSlug == eventSlug && r.SlackUserID == slackUserID && r.Status != entity.StatusCancelled {
			copied := *r
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeRegistrationStore) FindOneActiveByEventAndUser(_ context.Context, eventSlug, slackUserID string) (*entity.Registration, error) {
	for _, r := range f.registrations {
		if r.EventSlug == eventSlug && r.SlackUserID == slackUserID && r.Status.IsActive() {
			copied := *r
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeRegistrationStore) InsertOne(_ context.Context, registration entity.Registration) (*entity.Registration, error) {
	f.nextID++
	registration.ID = "reg-" + strconv.Itoa(f.nextID)
	registration.RegisteredAt = time.Now().UTC()
	f.registrations[registration.ID] = &registration
	copied := registration
	return &copied, nil
}

func (f *fakeRegistrationStore) UpdateOne(_ context.Context, registration entity.Registration) (*entity.Registration, error) {
	if f.failUpdateFor[registration.ID] {
		return nil, assert.AnError
	}
	f.registrations[registration.ID] = &registration
	copied := registration
	return &copied, nil
}

func (f *fakeRegistrationStore) UpdateStatusByID(_ context.Context, id string, status entity.Status) error {
	r, ok := f.registrations[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	r.Status = status
	return nil
}

func (f *fakeRegistrationStore) CountsByStatus(_ context.Context, eventSlug string) ([]*entity.StatusCount, error) {
	counts := map[entity.Status]int{}
	for _, r := range f.registrations {
		if r.EventSlug == eventSlug {
			counts[r.Status]++
		}
	}
	var out []*entity.StatusCount
	for status, count := range counts {
		out = append(out, &entity.StatusCount{Status: status, Count: count})
	}
	return out, nil
}

type fakeFeedbackStore struct {
	feedback map[string]*entity.Feedback
	nextID   int
}

func newFakeFeedbackStore() *fakeFeedbackStore {
	return &fakeFeedbackStore{feedback: map[string]*entity.Feedback{}}
}

func (f *fakeFeedbackStore) FindOneByEventAndUser(_ context.Context, eventSlug, slackUserID string) (*entity.Feedback, error) {
	for _, fb := range f.feedback {
		if fb.EventSlug == eventSlug && fb.SlackUserID == slackUserID {
			copied := *fb
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeFeedbackStore) FindManyByEventSlug(_ context.Context, eventSlug string) ([]*entity.Feedback, error) {
	var out []*entity.Feedback
	for _, fb := range f.feedback {
		if fb.EventSlug == eventSlug {
			copied := *fb
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeFeedbackStore) FindManyBySlackUserID(_ context.Context, slackUserID string) ([]*entity.Feedback, error) {
	var out []*entity.Feedback
	for _, fb := range f.feedback {
		if fb.SlackUserID == slackUserID {
			copied := *fb
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeFeedbackStore) InsertOne(_ context.Context, feedback entity.Feedback) (*entity.Feedback, error) {
	f.nextID++
	feedback.ID = "fb-" + strconv.Itoa(f.nextID)
	feedback.SubmittedAt = time.Now().UTC()
	f.feedback[feedback.ID] = &feedback
	copied := feedback
	return &copied, nil
}

func (f *fakeFeedbackStore) UpdateOne(_ context.Context, feedback entity.Feedback) (*entity.Feedback, error) {
	f.feedback[feedback.ID] = &feedback
	copied := feedback
	return &copied, nil
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		EventSlug:      "fagdag-mars",
		SlackUserID:    "U123",
		Name:           "Kari Nordmann",
		Email:          "kari@example.no",
		Organisation:   "NAV",
		AttendanceType: entity.AttendancePhysical,
	}
}

func TestRegisterForEvent(t *testing.T) {
	store := newFakeRegistrationStore()
	s := NewRegistrationService(store, newFakeFeedbackStore())

	registration, err := s.RegisterForEvent(context.Background(), validRegisterInput())
	assert.NoError(t, err)
	assert.NotEmpty(t, registration.ID)
	assert.Equal(t, entity.StatusConfirmed, registration.Status)
	assert.False(t, registration.RegisteredAt.IsZero())

	fetched, err := s.GetUserRegistration(context.Background(), "fagdag-mars", "U123")
	assert.NoError(t, err)
	assert.Equal(t, registration.ID, fetched.ID)
	assert.Equal(t, entity.AttendancePhysical, fetched.AttendanceType)
}

func TestRegisterForEventRejectsDuplicate(t *testing.T) {
	s := NewRegistrationService(newFakeRegistrationStore(), newFakeFeedbackStore())

	_, err := s.RegisterForEvent(context.Background(), validRegisterInput())
	assert.NoError(t, err)

	_, err = s.RegisterForEvent(context.Background(), validRegisterInput())
	assert.True(t, apperror.IsKind(err, apperror.KindAlreadyRegistered))
}

func TestRegisterForEventAllowsReregisterAfterCancel(t *testing.T) {
	s := NewRegistrationService(newFakeRegistrationStore(), newFakeFeedbackStore())

	registration, err := s.RegisterForEvent(context.Background(), validRegisterInput())
	assert.NoError(t, err)
	assert.NoError(t, s.CancelRegistration(context.Background(), registration.ID))

	_, err = s.RegisterForEvent(context.Background(), validRegisterInput())
	assert.NoError(t, err)
}

func TestRegisterForEventValidation(t *testing.T) {
	s := NewRegistrationService(newFakeRegistrationStore(), newFakeFeedbackStore())

	input := validRegisterInput()
	input.Email = ""
	_, err := s.RegisterForEvent(context.Background(), input)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	input = validRegisterInput()
	input.AttendanceType = "telepathic"
	_, err = s.RegisterForEvent(context.Background(), input)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestRegisterForEventWaitlist(t *testing.T) {
	s := NewRegistrationService(newFakeRegistrationStore(), newFakeFeedbackStore())

	input := validRegisterInput()
	input.Waitlist = true
	registration, err := s.RegisterForEvent(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, entity.StatusWaitlist, registration.Status)
}

func TestUpdateRegistrationStatusNotFound(t *testing.T) {
	s := NewRegistrationService(newFakeRegistrationStore(), newFakeFeedbackStore())

	err := s.UpdateRegistrationStatus(context.Background(), "missing", entity.StatusAttended)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	err = s.UpdateRegistrationStatus(context.Background(), "missing", "bogus")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestBulkUpdateStatusReportsBothSides(t *testing.T) {
	store := newFakeRegistrationStore()
	s := NewRegistrationService(store, newFakeFeedbackStore())

	first, _ := s.RegisterForEvent(context.Background(), validRegisterInput())
	secondInput := validRegisterInput()
	secondInput.SlackUserID = "U456"
	second, _ := s.RegisterForEvent(context.Background(), secondInput)

	result, err := s.BulkUpdateStatus(context.Background(), []string{first.ID, second.ID, "missing"}, entity.StatusAttended)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, result.Succeeded)
	assert.Len(t, result.Failed, 1)
	assert.Equal(t, "missing", result.Failed[0].ID)

	updated, _ := store.FindOneByID(context.Background(), first.ID)
	assert.Equal(t, entity.StatusAttended, updated.Status)
}

func TestGetEventRegistrationStats(t *testing.T) {
	store := newFakeRegistrationStore()
	s := NewRegistrationService(store, newFakeFeedbackStore())

	seed := func(user string, status entity.Status) {
		store.registrations[user] = &entity.Registration{
			ID: user, EventSlug: "fagdag-mars", SlackUserID: user, Status: status,
		}
	}
	seed("a", entity.StatusConfirmed)
	seed("b", entity.StatusConfirmed)
	seed("c", entity.StatusWaitlist)
	seed("d", entity.StatusCancelled)
	seed("e", entity.StatusNoShow)
	seed("f", entity.StatusAttended)

	stats, err := s.GetEventRegistrationStats(context.Background(), "fagdag-mars")
	assert.NoError(t, err)
	assert.Equal(t, entity.Stats{Confirmed: 2, Attended: 1, Cancelled: 2, Pending: 1}, stats)
}

func TestGetRegistrationCountsByCategory(t *testing.T) {
	store := newFakeRegistrationStore()
	s := NewRegistrationService(store, newFakeFeedbackStore())

	seed := func(id, org string, status entity.Status) {
		store.registrations[id] = &entity.Registration{
			ID: id, EventSlug: "fagdag-mars", SlackUserID: id,
			Organisation: org, Status: status,
		}
	}
	seed("a", "NAV", entity.StatusConfirmed)
	seed("b", "Arbeids- og velferdsetaten", entity.StatusConfirmed)
	seed("c", "Bekk", entity.StatusConfirmed)
	seed("d", "", entity.StatusConfirmed)
	seed("e", "Politiet", entity.StatusCancelled)

	counts, err := s.GetRegistrationCountsByCategory(context.Background(), "fagdag-mars")
	assert.NoError(t, err)
	assert.Equal(t, entity.CategoryCounts{
		Persons:             4,
		UniqueOrganisations: 2,
		NamedOrganisations:  3,
	}, counts)
}

func TestSearchEventRegistrations(t *testing.T) {
	store := newFakeRegistrationStore()
	s := NewRegistrationService(store, newFakeFeedbackStore())

	store.registrations["a"] = &entity.Registration{
		ID: "a", EventSlug: "fagdag-mars", SlackUserID: "a",
		Name: "Kari Nordmann", Organisation: "NAV", Email: "kari@nav.no",
		Status: entity.StatusConfirmed,
	}
	store.registrations["b"] = &entity.Registration{
		ID: "b", EventSlug: "fagdag-mars", SlackUserID: "b",
		Name: "Ola Hansen", Organisation: "Bekk", Email: "ola@bekk.no",
		Status: entity.StatusConfirmed,
	}

	results, err := s.SearchEventRegistrations(context.Background(), "fagdag-mars", "kari")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)

	results, err = s.SearchEventRegistrations(context.Background(), "fagdag-mars", "zzqx")
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpdateSelfServicePreEventOnly(t *testing.T) {
	store := newFakeRegistrationStore()
	s := NewRegistrationService(store, newFakeFeedbackStore())

	_, err := s.RegisterForEvent(context.Background(), validRegisterInput())
	assert.NoError(t, err)

	pastEvent := &entity.Event{Slug: "fagdag-mars", Start: time.Now().Add(-time.Hour)}
	digital := entity.AttendanceDigital
	_, err = s.UpdateSelfService(context.Background(), pastEvent, "U123", SelfServiceUpdate{AttendanceType: &digital})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	futureEvent := &entity.Event{Slug: "fagdag-mars", Start: time.Now().Add(time.Hour)}
	updated, err := s.UpdateSelfService(context.Background(), futureEvent, "U123", SelfServiceUpdate{AttendanceType: &digital})
	assert.NoError(t, err)
	assert.Equal(t, entity.AttendanceDigital, updated.AttendanceType)
}

func TestAnonymizeUserData(t *testing.T) {
	store := newFakeRegistrationStore()
	feedbackStore := newFakeFeedbackStore()
	s := NewRegistrationService(store, feedbackStore)

	store.registrations["a"] = &entity.Registration{
		ID: "a", EventSlug: "fagdag-mars", SlackUserID: "U123",
		Name: "Kari Nordmann", Email: "kari@nav.no", Organisation: "NAV",
		Dietary: "vegetar", Status: entity.StatusAttended,
	}
	store.registrations["b"] = &entity.Registration{
		ID: "b", EventSlug: "fagdag-april", SlackUserID: "U123",
		Name: "Kari Nordmann", Email: "kari@nav.no",
		Status: entity.StatusCancelled,
	}
	store.registrations["other"] = &entity.Registration{
		ID: "other", EventSlug: "fagdag-mars", SlackUserID: "U999",
		Name: "Ola Hansen", Status: entity.StatusConfirmed,
	}
	feedbackStore.feedback["fb-1"] = &entity.Feedback{
		ID: "fb-1", EventSlug: "fagdag-mars", SlackUserID: "U123",
		Name: "Kari Nordmann", Email: "kari@nav.no", Rating: 4, Comment: "Bra!",
	}

	count, err := s.AnonymizeUserData(context.Background(), "U123")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, id := range []string{"a", "b"} {
		r := store.registrations[id]
		assert.Empty(t, r.Name)
		assert.Empty(t, r.Email)
		assert.Empty(t, r.Organisation)
		assert.Empty(t, r.Dietary)
	}
	// status and event reference stay for statistics
	assert.Equal(t, entity.StatusAttended, store.registrations["a"].Status)
	assert.Equal(t, "fagdag-mars", store.registrations["a"].EventSlug)
	assert.Equal(t, "Ola Hansen", store.registrations["other"].Name)

	fb := feedbackStore.feedback["fb-1"]
	assert.Empty(t, fb.Name)
	assert.Empty(t, fb.Email)
	assert.Empty(t, fb.Comment)
	assert.Equal(t, 4, fb.Rating)
}

func TestAnonymizeUserDataContinuesOnFailure(t *testing.T) {
	store := newFakeRegistrationStore()
	s := NewRegistrationService(store, newFakeFeedbackStore())

	store.registrations["a"] = &entity.Registration{
		ID: "a", EventSlug: "fagdag-mars", SlackUserID: "U123", Name: "Kari",
	}
	store.registrations["b"] = &entity.Registration{
		ID: "b", EventSlug: "fagdag-april", SlackUserID: "U123", Name: "Kari",
	}
	store.failUpdateFor["a"] = true

	count, err := s.AnonymizeUserData(context.Background(), "U123")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
