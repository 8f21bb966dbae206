// Package booking holds the step machine that drives a visitor from service
// selection to a confirmed booking. It performs no I/O; callers resolve slots
// and record bookings and feed the results back in.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/cirqle/cirqle-api/internal/models"
)

// Step is a stage of the booking flow.
type Step string

const (
	StepSelectingService Step = "SELECTING_SERVICE"
	StepSelectingDate    Step = "SELECTING_DATE"
	StepSelectingTime    Step = "SELECTING_TIME"
	StepConfirmed        Step = "CONFIRMED"
)

var (
	ErrInvalidStep     = errors.New("action not allowed at this step")
	ErrUnknownService  = errors.New("service is not offered by this host")
	ErrStaleSelection  = errors.New("date selection was superseded by a newer one")
	ErrSlotNotOffered  = errors.New("time is not offered on the selected date")
	ErrNothingSelected = errors.New("choose a time before confirming")
)

// Ticket identifies one date selection. Slot results are only applied when
// their ticket is still the latest one issued.
type Ticket struct {
	Generation int    `json:"generation"`
	Date       string `json:"date"`
}

// Customer holds the visitor's contact details collected at confirmation.
type Customer struct {
	Name  string `json:"customer_name"`
	Email string `json:"customer_email"`
	Notes string `json:"notes"`
}

// State is one visitor's progress through the flow.
type State struct {
	ID          string          `json:"id"`
	HostID      string          `json:"host_id"`
	Username    string          `json:"username"`
	Step        Step            `json:"step"`
	ServiceID   string          `json:"service_id,omitempty"`
	Date        string          `json:"date,omitempty"`
	Time        string          `json:"time,omitempty"`
	Slots       []string        `json:"slots"`
	DayEnabled  bool            `json:"day_enabled"`
	Generation  int             `json:"generation"`
	PendingDate string          `json:"pending_date,omitempty"`
	Booking     *models.Booking `json:"booking,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// New starts a flow at service selection, preselecting the host's default service.
func New(id, hostID, username string, services models.Services, now time.Time) *State {
	s := &State{
		ID:        id,
		HostID:    hostID,
		Username:  username,
		Step:      StepSelectingService,
		Slots:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if def, ok := services.Default(); ok {
		s.ServiceID = def.ID
	}
	return s
}

// CanConfirm reports whether a time has been chosen on an offered date.
func (s *State) CanConfirm() bool {
	return s.Step == StepSelectingTime && s.Time != ""
}

// ChooseService records the service and moves on to date selection.
// Choosing a different service than before keeps the date but drops the time.
func (s *State) ChooseService(services models.Services, serviceID string) error {
	if s.Step != StepSelectingService {
		return s.stepError("choose a service")
	}
	if _, ok := services.Find(serviceID); !ok {
		return ErrUnknownService
	}
	if s.ServiceID != serviceID {
		s.Time = ""
	}
	s.ServiceID = serviceID
	s.Step = StepSelectingDate
	return nil
}

// BeginDateSelection issues a ticket for date. Any ticket issued earlier becomes stale.
func (s *State) BeginDateSelection(date string) (Ticket, error) {
	if s.Step != StepSelectingDate && s.Step != StepSelectingTime {
		return Ticket{}, s.stepError("choose a date")
	}
	s.Generation++
	s.PendingDate = date
	return Ticket{Generation: s.Generation, Date: date}, nil
}

// ApplySlots completes a date selection. An enabled day moves to time
// selection with the offered slots; a disabled day returns to date selection
// with no slots. Re-selecting the same date keeps the chosen time while it is
// still offered.
func (s *State) ApplySlots(t Ticket, enabled bool, slots []string) error {
	if t.Generation != s.Generation || t.Date != s.PendingDate {
		return ErrStaleSelection
	}
	if s.Step != StepSelectingDate && s.Step != StepSelectingTime {
		return s.stepError("choose a date")
	}

	keep := ""
	if t.Date == s.Date && enabled && contains(slots, s.Time) {
		keep = s.Time
	}

	s.PendingDate = ""
	s.Date = t.Date
	s.Time = keep
	s.DayEnabled = enabled
	if !enabled {
		s.Slots = []string{}
		s.Step = StepSelectingDate
		return nil
	}
	s.Slots = append(make([]string, 0, len(slots)), slots...)
	s.Step = StepSelectingTime
	return nil
}

// ChooseTime selects one of the offered slots. The step does not change.
func (s *State) ChooseTime(slot string) error {
	if s.Step != StepSelectingTime {
		return s.stepError("choose a time")
	}
	if !contains(s.Slots, slot) {
		return ErrSlotNotOffered
	}
	s.Time = slot
	return nil
}

// Request builds the booking request for the current selection.
func (s *State) Request(c Customer) (models.BookingRequest, error) {
	if s.Step != StepSelectingTime {
		return models.BookingRequest{}, s.stepError("confirm")
	}
	if s.Time == "" {
		return models.BookingRequest{}, ErrNothingSelected
	}
	return models.BookingRequest{
		HostID:        s.HostID,
		ServiceID:     s.ServiceID,
		Date:          s.Date,
		TimeSlot:      s.Time,
		CustomerName:  c.Name,
		CustomerEmail: c.Email,
		Notes:         c.Notes,
	}, nil
}

// Confirm moves to the terminal step with the recorded booking.
func (s *State) Confirm(b *models.Booking) error {
	if !s.CanConfirm() {
		return s.stepError("confirm")
	}
	s.Booking = b
	s.Step = StepConfirmed
	return nil
}

// LoseSlot drops the chosen time after another visitor took it first.
// The flow stays on time selection so another slot can be picked.
func (s *State) LoseSlot() {
	if s.Step != StepSelectingTime || s.Time == "" {
		return
	}
	kept := s.Slots[:0]
	for _, slot := range s.Slots {
		if slot != s.Time {
			kept = append(kept, slot)
		}
	}
	s.Slots = kept
	s.Time = ""
}

// Back returns to the previous step. Earlier selections are kept so moving
// forward again shows them preselected.
func (s *State) Back() error {
	switch s.Step {
	case StepSelectingTime:
		s.Step = StepSelectingDate
	case StepSelectingDate:
		s.Step = StepSelectingService
	default:
		return s.stepError("go back")
	}
	s.PendingDate = ""
	return nil
}

func contains(slots []string, slot string) bool {
	if slot == "" {
		return false
	}
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

func (s *State) stepError(action string) error {
	return fmt.Errorf("cannot %s while %s: %w", action, s.Step, ErrInvalidStep)
}
