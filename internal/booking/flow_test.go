package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirqle/cirqle-api/internal/models"
)

var services = models.Services{
	{ID: "intro", Name: "Intro call", DurationMinutes: 15},
	{ID: "consultation", Name: "Consultation", DurationMinutes: 30, IsDefault: true},
}

func newState() *State {
	return New("sess-1", "host-1", "ada", services, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
}

func selectDate(t *testing.T, s *State, date string, enabled bool, slots ...string) {
	t.Helper()
	ticket, err := s.BeginDateSelection(date)
	require.NoError(t, err)
	require.NoError(t, s.ApplySlots(ticket, enabled, slots))
}

func TestNewPreselectsDefaultService(t *testing.T) {
	s := newState()
	assert.Equal(t, StepSelectingService, s.Step)
	assert.Equal(t, "consultation", s.ServiceID)
	assert.False(t, s.CanConfirm())

	plain := New("sess-2", "host-1", "ada", models.Services{{ID: "x"}}, time.Now())
	assert.Empty(t, plain.ServiceID)
}

func TestHappyPath(t *testing.T) {
	s := newState()
	require.NoError(t, s.ChooseService(services, "intro"))
	assert.Equal(t, StepSelectingDate, s.Step)

	selectDate(t, s, "2025-03-10", true, "09:00", "10:00")
	assert.Equal(t, StepSelectingTime, s.Step)
	assert.Equal(t, []string{"09:00", "10:00"}, s.Slots)

	require.NoError(t, s.ChooseTime("10:00"))
	assert.Equal(t, StepSelectingTime, s.Step)
	assert.True(t, s.CanConfirm())

	req, err := s.Request(Customer{Name: "Grace", Email: "grace@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingRequest{
		HostID: "host-1", ServiceID: "intro", Date: "2025-03-10", TimeSlot: "10:00",
		CustomerName: "Grace", CustomerEmail: "grace@example.com",
	}, req)

	require.NoError(t, s.Confirm(&models.Booking{ID: "b-1"}))
	assert.Equal(t, StepConfirmed, s.Step)

	// Terminal.
	assert.ErrorIs(t, s.Back(), ErrInvalidStep)
	_, err = s.BeginDateSelection("2025-03-11")
	assert.ErrorIs(t, err, ErrInvalidStep)
	assert.ErrorIs(t, s.ChooseTime("09:00"), ErrInvalidStep)
}

func TestDisabledDayStaysOnDateSelection(t *testing.T) {
	s := newState()
	require.NoError(t, s.ChooseService(services, "consultation"))

	selectDate(t, s, "2025-03-09", false)
	assert.Equal(t, StepSelectingDate, s.Step)
	assert.Empty(t, s.Slots)
	assert.False(t, s.DayEnabled)
	assert.Equal(t, "2025-03-09", s.Date)

	// Picking a disabled day from time selection drops back to date selection.
	selectDate(t, s, "2025-03-10", true, "09:00")
	require.NoError(t, s.ChooseTime("09:00"))
	selectDate(t, s, "2025-03-16", false)
	assert.Equal(t, StepSelectingDate, s.Step)
	assert.Empty(t, s.Time)
}

func TestStepGuards(t *testing.T) {
	s := newState()
	_, err := s.BeginDateSelection("2025-03-10")
	assert.ErrorIs(t, err, ErrInvalidStep)
	assert.ErrorIs(t, s.ChooseTime("09:00"), ErrInvalidStep)
	assert.ErrorIs(t, s.Back(), ErrInvalidStep)
	assert.ErrorIs(t, s.ChooseService(services, "nope"), ErrUnknownService)
	assert.ErrorIs(t, s.Confirm(&models.Booking{}), ErrInvalidStep)

	require.NoError(t, s.ChooseService(services, "intro"))
	assert.ErrorIs(t, s.ChooseService(services, "intro"), ErrInvalidStep)

	selectDate(t, s, "2025-03-10", true, "09:00")
	assert.ErrorIs(t, s.ChooseTime("11:00"), ErrSlotNotOffered)
	_, err = s.Request(Customer{})
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestStaleSlotResponsesAreDiscarded(t *testing.T) {
	s := newState()
	require.NoError(t, s.ChooseService(services, "intro"))

	first, err := s.BeginDateSelection("2025-03-10")
	require.NoError(t, err)
	second, err := s.BeginDateSelection("2025-03-11")
	require.NoError(t, err)

	assert.ErrorIs(t, s.ApplySlots(first, true, []string{"09:00"}), ErrStaleSelection)
	assert.Equal(t, StepSelectingDate, s.Step)

	require.NoError(t, s.ApplySlots(second, true, []string{"14:00"}))
	assert.Equal(t, "2025-03-11", s.Date)
	assert.Equal(t, []string{"14:00"}, s.Slots)

	// A ticket cannot be applied twice.
	assert.ErrorIs(t, s.ApplySlots(second, true, []string{"15:00"}), ErrStaleSelection)
}

func TestBackKeepsSelections(t *testing.T) {
	s := newState()
	require.NoError(t, s.ChooseService(services, "intro"))
	selectDate(t, s, "2025-03-10", true, "09:00", "10:00")
	require.NoError(t, s.ChooseTime("09:00"))

	require.NoError(t, s.Back())
	assert.Equal(t, StepSelectingDate, s.Step)
	assert.Equal(t, "2025-03-10", s.Date)
	assert.Equal(t, "09:00", s.Time)

	// Re-selecting the same date keeps the time while it is still free.
	selectDate(t, s, "2025-03-10", true, "09:00", "10:00")
	assert.Equal(t, "09:00", s.Time)
	assert.True(t, s.CanConfirm())
	require.NoError(t, s.Back())

	require.NoError(t, s.Back())
	assert.Equal(t, StepSelectingService, s.Step)
	assert.Equal(t, "intro", s.ServiceID)

	// Same service again keeps the chosen time; a different one drops it.
	require.NoError(t, s.ChooseService(services, "intro"))
	assert.Equal(t, "09:00", s.Time)
	require.NoError(t, s.Back())
	require.NoError(t, s.ChooseService(services, "consultation"))
	assert.Empty(t, s.Time)
	assert.Equal(t, "2025-03-10", s.Date)
}

func TestLoseSlot(t *testing.T) {
	s := newState()
	require.NoError(t, s.ChooseService(services, "intro"))
	selectDate(t, s, "2025-03-10", true, "09:00", "10:00", "11:00")
	require.NoError(t, s.ChooseTime("10:00"))

	s.LoseSlot()
	assert.Equal(t, StepSelectingTime, s.Step)
	assert.Equal(t, []string{"09:00", "11:00"}, s.Slots)
	assert.Empty(t, s.Time)
	assert.False(t, s.CanConfirm())
}
