package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirqle/cirqle-api/internal/booking"
	"github.com/cirqle/cirqle-api/internal/models"
	"github.com/cirqle/cirqle-api/internal/repository"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

// hookedSlots runs hook once before resolving, to interleave a second request.
type hookedSlots struct {
	inner flowSlotResolver
	hook  func()
}

func (h *hookedSlots) SlotsForHost(ctx context.Context, host *Host, date string) (bool, []string, error) {
	if hook := h.hook; hook != nil {
		h.hook = nil
		hook()
	}
	return h.inner.SlotsForHost(ctx, host, date)
}

// hookedRecorder runs hook once before recording.
type hookedRecorder struct {
	inner bookingRecorder
	hook  func()
}

func (h *hookedRecorder) RecordBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if hook := h.hook; hook != nil {
		h.hook = nil
		hook()
	}
	return h.inner.RecordBooking(ctx, req)
}

type flowFixture struct {
	svc      *BookingFlowService
	store    *mockBookingStore
	slots    *hookedSlots
	recorder *hookedRecorder
}

func newFlowFixture() *flowFixture {
	hosts := NewHostService(newMockUserRepo(testHost()), newMockCalendarRepo(testSettings()), &recordingNotifier{}, nil, nil, nil, HostConfig{})
	store := &mockBookingStore{}
	availability := NewAvailabilityService(hosts, store, nil, nil, 0)
	recorder := &hookedRecorder{inner: NewBookingService(hosts, store, nil, &recordingNotifier{}, nil, nil, nil, 0)}
	slots := &hookedSlots{inner: availability}
	sessions := repository.NewSessionRepository(repository.NewMemoryKVStore(), time.Minute)
	svc := NewBookingFlowService(sessions, hosts, slots, recorder, NewMetricsService(), nil, 0)
	return &flowFixture{svc: svc, store: store, slots: slots, recorder: recorder}
}

var testCustomer = booking.Customer{Name: "Bob", Email: "bob@example.com"}

func TestBookingFlowHappyPath(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()

	view, err := f.svc.Start(ctx, "ada")
	require.NoError(t, err)
	id := view.Session.ID
	assert.Equal(t, booking.StepSelectingService, view.Session.Step)
	assert.Equal(t, "consultation", view.Session.ServiceID)
	assert.Equal(t, "Europe/Paris", view.Timezone)
	assert.Len(t, view.Services, 2)

	view, err = f.svc.ChooseService(ctx, id, "intro")
	require.NoError(t, err)
	assert.Equal(t, booking.StepSelectingDate, view.Session.Step)

	view, err = f.svc.ChooseDate(ctx, id, openMonday)
	require.NoError(t, err)
	assert.Equal(t, booking.StepSelectingTime, view.Session.Step)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, view.Session.Slots)
	assert.False(t, view.CanConfirm)

	view, err = f.svc.ChooseTime(ctx, id, "10:00")
	require.NoError(t, err)
	assert.True(t, view.CanConfirm)

	view, err = f.svc.Confirm(ctx, id, testCustomer)
	require.NoError(t, err)
	assert.Equal(t, booking.StepConfirmed, view.Session.Step)
	require.NotNil(t, view.Session.Booking)
	assert.Equal(t, "10:00", view.Session.Booking.TimeSlot)
	assert.Equal(t, "intro", view.Session.Booking.ServiceID)
	require.Len(t, f.store.bookings, 1)

	stored, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, booking.StepConfirmed, stored.Session.Step)

	_, err = f.svc.Back(ctx, id)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidStep))
}

func TestBookingFlowDisabledDayStaysOnDateSelection(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()

	view, err := f.svc.Start(ctx, "ada")
	require.NoError(t, err)
	id := view.Session.ID
	_, err = f.svc.ChooseService(ctx, id, "intro")
	require.NoError(t, err)
	_, err = f.svc.ChooseDate(ctx, id, openMonday)
	require.NoError(t, err)

	view, err = f.svc.ChooseDate(ctx, id, "2030-01-08")
	require.NoError(t, err)
	assert.Equal(t, booking.StepSelectingDate, view.Session.Step)
	assert.False(t, view.Session.DayEnabled)
	assert.Empty(t, view.Session.Slots)
	assert.Equal(t, "2030-01-08", view.Session.Date)
}

func TestBookingFlowRejectsOutOfOrderActions(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()

	view, err := f.svc.Start(ctx, "ada")
	require.NoError(t, err)
	id := view.Session.ID

	_, err = f.svc.ChooseTime(ctx, id, "09:00")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidStep.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)

	_, err = f.svc.ChooseDate(ctx, id, openMonday)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidStep))

	_, err = f.svc.Confirm(ctx, id, testCustomer)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidStep))

	_, err = f.svc.ChooseService(ctx, id, "massage")
	assert.Contains(t, appErrors.FromError(err).Fields, "service_id")

	_, err = f.svc.ChooseDate(ctx, id, "next monday")
	assert.Contains(t, appErrors.FromError(err).Fields, "date")
}

func TestBookingFlowBackKeepsSelections(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()

	view, err := f.svc.Start(ctx, "ada")
	require.NoError(t, err)
	id := view.Session.ID
	_, err = f.svc.ChooseService(ctx, id, "intro")
	require.NoError(t, err)
	_, err = f.svc.ChooseDate(ctx, id, openMonday)
	require.NoError(t, err)
	_, err = f.svc.ChooseTime(ctx, id, "11:00")
	require.NoError(t, err)

	view, err = f.svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, booking.StepSelectingDate, view.Session.Step)
	view, err = f.svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, booking.StepSelectingService, view.Session.Step)
	assert.Equal(t, "intro", view.Session.ServiceID)
	assert.Equal(t, openMonday, view.Session.Date)
	assert.Equal(t, "11:00", view.Session.Time)

	_, err = f.svc.Back(ctx, id)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidStep))
}

func TestBookingFlowLostSlotStaysOnTimeSelection(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()

	open := func() string {
		view, err := f.svc.Start(ctx, "ada")
		require.NoError(t, err)
		id := view.Session.ID
		_, err = f.svc.ChooseService(ctx, id, "intro")
		require.NoError(t, err)
		_, err = f.svc.ChooseDate(ctx, id, openMonday)
		require.NoError(t, err)
		_, err = f.svc.ChooseTime(ctx, id, "10:00")
		require.NoError(t, err)
		return id
	}
	first, second := open(), open()

	_, err := f.svc.Confirm(ctx, first, testCustomer)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, second, booking.Customer{Name: "Carol", Email: "carol@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrSlotTaken))

	view, err := f.svc.Get(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, booking.StepSelectingTime, view.Session.Step)
	assert.Empty(t, view.Session.Time)
	assert.Equal(t, []string{"09:00", "11:00"}, view.Session.Slots)
	assert.Len(t, f.store.bookings, 1)
}

func TestBookingFlowDoubleConfirmKeepsConfirmedSession(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()

	view, err := f.svc.Start(ctx, "ada")
	require.NoError(t, err)
	id := view.Session.ID
	_, err = f.svc.ChooseService(ctx, id, "intro")
	require.NoError(t, err)
	_, err = f.svc.ChooseDate(ctx, id, openMonday)
	require.NoError(t, err)
	_, err = f.svc.ChooseTime(ctx, id, "10:00")
	require.NoError(t, err)

	var innerErr error
	f.recorder.hook = func() {
		_, innerErr = f.svc.Confirm(ctx, id, testCustomer)
	}
	_, err = f.svc.Confirm(ctx, id, testCustomer)
	require.NoError(t, innerErr)
	assert.True(t, errors.Is(err, appErrors.ErrSlotTaken))

	view, err = f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, booking.StepConfirmed, view.Session.Step)
	require.NotNil(t, view.Session.Booking)
	assert.Equal(t, "10:00", view.Session.Booking.TimeSlot)

	_, err = f.svc.ChooseTime(ctx, id, "11:00")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidStep))
	_, err = f.svc.Confirm(ctx, id, testCustomer)
	require.Error(t, err)
	assert.Len(t, f.store.bookings, 1)
}

func TestBookingFlowInvalidCustomerKeepsSelection(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()

	view, err := f.svc.Start(ctx, "ada")
	require.NoError(t, err)
	id := view.Session.ID
	_, err = f.svc.ChooseService(ctx, id, "intro")
	require.NoError(t, err)
	_, err = f.svc.ChooseDate(ctx, id, openMonday)
	require.NoError(t, err)
	_, err = f.svc.ChooseTime(ctx, id, "09:00")
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, id, booking.Customer{Name: "Bob", Email: "not-an-email"})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "customer_email")

	view, err = f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "09:00", view.Session.Time)
	assert.True(t, view.CanConfirm)
}

func TestBookingFlowStaleDateSelectionIsDiscarded(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()

	view, err := f.svc.Start(ctx, "ada")
	require.NoError(t, err)
	id := view.Session.ID
	_, err = f.svc.ChooseService(ctx, id, "intro")
	require.NoError(t, err)

	f.slots.hook = func() {
		_, err := f.svc.ChooseDate(ctx, id, "2030-01-14")
		require.NoError(t, err)
	}

	_, err = f.svc.ChooseDate(ctx, id, openMonday)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	view, err = f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2030-01-14", view.Session.Date)
	assert.Equal(t, booking.StepSelectingTime, view.Session.Step)
}

func TestBookingFlowUnknownSession(t *testing.T) {
	f := newFlowFixture()

	_, err := f.svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "booking session not found or expired", appErr.Message)

	_, err = f.svc.Start(context.Background(), "nobody")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
