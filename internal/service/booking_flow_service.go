package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cirqle/cirqle-api/internal/booking"
	"github.com/cirqle/cirqle-api/internal/models"
	"github.com/cirqle/cirqle-api/internal/repository"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

type flowSessionStore interface {
	Save(ctx context.Context, state *booking.State) error
	Find(ctx context.Context, id string) (*booking.State, error)
}

type flowSlotResolver interface {
	SlotsForHost(ctx context.Context, host *Host, date string) (bool, []string, error)
}

type bookingRecorder interface {
	RecordBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
}

// FlowView is a booking session together with what the page needs to render it.
type FlowView struct {
	Session    *booking.State  `json:"session"`
	Services   models.Services `json:"services"`
	Timezone   string          `json:"timezone"`
	CanConfirm bool            `json:"can_confirm"`
}

// BookingFlowService drives visitor sessions through the booking steps.
// Sessions live in the key-value store between requests.
type BookingFlowService struct {
	sessions  flowSessionStore
	hosts     hostResolver
	slots     flowSlotResolver
	recorder  bookingRecorder
	metrics   *MetricsService
	logger    *zap.Logger
	ioTimeout time.Duration
	now       func() time.Time
}

// NewBookingFlowService constructs a BookingFlowService.
func NewBookingFlowService(sessions flowSessionStore, hosts hostResolver, slots flowSlotResolver, recorder bookingRecorder, metrics *MetricsService, logger *zap.Logger, ioTimeout time.Duration) *BookingFlowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingFlowService{
		sessions:  sessions,
		hosts:     hosts,
		slots:     slots,
		recorder:  recorder,
		metrics:   metrics,
		logger:    logger,
		ioTimeout: ioTimeout,
		now:       time.Now,
	}
}

// Start opens a session for the host's booking page.
func (s *BookingFlowService) Start(ctx context.Context, username string) (*FlowView, error) {
	host, err := s.hosts.ResolveHost(ctx, username)
	if err != nil {
		return nil, err
	}
	state := booking.New(uuid.NewString(), host.User.ID, host.User.UsernameValue(), host.Settings.Services, s.now().UTC())
	if err := s.save(ctx, state, ""); err != nil {
		return nil, err
	}
	return s.view(state, host), nil
}

// Get returns a session.
func (s *BookingFlowService) Get(ctx context.Context, id string) (*FlowView, error) {
	state, host, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(state, host), nil
}

// ChooseService picks the service and moves on to date selection.
func (s *BookingFlowService) ChooseService(ctx context.Context, id, serviceID string) (*FlowView, error) {
	return s.mutate(ctx, id, func(state *booking.State, host *Host) error {
		return state.ChooseService(host.Settings.Services, serviceID)
	})
}

// ChooseDate selects a date and loads its free slots. When a newer date
// selection finished first, this one is discarded with a conflict.
func (s *BookingFlowService) ChooseDate(ctx context.Context, id, date string) (*FlowView, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, appErrors.Validation("invalid date", map[string]string{"date": "must be a date in YYYY-MM-DD format"})
	}

	state, host, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ticket, err := state.BeginDateSelection(date)
	if err != nil {
		return nil, flowError(err)
	}
	if err := s.save(ctx, state, state.Step); err != nil {
		return nil, err
	}

	enabled, slots, err := s.slots.SlotsForHost(ctx, host, date)
	if err != nil {
		return nil, err
	}

	latest, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	before := latest.Step
	if err := latest.ApplySlots(ticket, enabled, slots); err != nil {
		if errors.Is(err, booking.ErrStaleSelection) {
			s.logger.Debug("discarding stale date selection", zap.String("session_id", id), zap.String("date", date))
		}
		return nil, flowError(err)
	}
	if err := s.save(ctx, latest, before); err != nil {
		return nil, err
	}
	return s.view(latest, host), nil
}

// ChooseTime picks one of the offered slots.
func (s *BookingFlowService) ChooseTime(ctx context.Context, id, slot string) (*FlowView, error) {
	return s.mutate(ctx, id, func(state *booking.State, _ *Host) error {
		return state.ChooseTime(slot)
	})
}

// Back returns to the previous step.
func (s *BookingFlowService) Back(ctx context.Context, id string) (*FlowView, error) {
	return s.mutate(ctx, id, func(state *booking.State, _ *Host) error {
		return state.Back()
	})
}

// Confirm records the booking for the current selection. When another
// visitor took the slot first the slot is withdrawn and the session stays on
// time selection; the SLOT_TAKEN error is still returned.
func (s *BookingFlowService) Confirm(ctx context.Context, id string, customer booking.Customer) (*FlowView, error) {
	state, host, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	req, err := state.Request(customer)
	if err != nil {
		return nil, flowError(err)
	}

	recorded, err := s.recorder.RecordBooking(ctx, req)
	if err != nil {
		if errors.Is(err, appErrors.ErrSlotTaken) {
			s.withdrawSlot(ctx, state)
		}
		return nil, err
	}

	before := state.Step
	if err := state.Confirm(recorded); err != nil {
		return nil, flowError(err)
	}
	if err := s.save(ctx, state, before); err != nil {
		s.logger.Warn("booking recorded but session not saved", zap.String("session_id", id), zap.String("booking_id", recorded.ID), zap.Error(err))
	}
	return s.view(state, host), nil
}

// withdrawSlot drops the lost slot from the stored session, but only while it
// still holds the selection that failed. A concurrent confirm of the same
// session may already have moved it on.
func (s *BookingFlowService) withdrawSlot(ctx context.Context, attempted *booking.State) {
	latest, err := s.find(ctx, attempted.ID)
	if err != nil {
		s.logger.Warn("failed to reload session after lost slot", zap.String("session_id", attempted.ID), zap.Error(err))
		return
	}
	if latest.Step != booking.StepSelectingTime || latest.Date != attempted.Date || latest.Time != attempted.Time {
		return
	}
	latest.LoseSlot()
	if err := s.save(ctx, latest, latest.Step); err != nil {
		s.logger.Warn("failed to save session after lost slot", zap.String("session_id", attempted.ID), zap.Error(err))
	}
}

func (s *BookingFlowService) mutate(ctx context.Context, id string, apply func(*booking.State, *Host) error) (*FlowView, error) {
	state, host, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before := state.Step
	if err := apply(state, host); err != nil {
		return nil, flowError(err)
	}
	if err := s.save(ctx, state, before); err != nil {
		return nil, err
	}
	return s.view(state, host), nil
}

func (s *BookingFlowService) load(ctx context.Context, id string) (*booking.State, *Host, error) {
	state, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	host, err := s.hosts.ResolveHost(ctx, state.Username)
	if err != nil {
		return nil, nil, err
	}
	return state, host, nil
}

func (s *BookingFlowService) find(ctx context.Context, id string) (*booking.State, error) {
	ctx, cancel := withTimeout(ctx, s.ioTimeout)
	defer cancel()
	state, err := s.sessions.Find(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking session not found or expired")
		}
		return nil, storeError(err, "failed to load booking session")
	}
	return state, nil
}

func (s *BookingFlowService) save(ctx context.Context, state *booking.State, before booking.Step) error {
	state.UpdatedAt = s.now().UTC()
	ctx, cancel := withTimeout(ctx, s.ioTimeout)
	defer cancel()
	if err := s.sessions.Save(ctx, state); err != nil {
		return storeError(err, "failed to save booking session")
	}
	if state.Step != before {
		s.metrics.ObserveFlowStep(string(state.Step))
	}
	return nil
}

func (s *BookingFlowService) view(state *booking.State, host *Host) *FlowView {
	return &FlowView{
		Session:    state,
		Services:   host.Settings.Services,
		Timezone:   host.Settings.Availability.Timezone,
		CanConfirm: state.CanConfirm(),
	}
}

func flowError(err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidStep):
		return appErrors.Wrap(err, appErrors.ErrInvalidStep.Code, appErrors.ErrInvalidStep.Status, err.Error())
	case errors.Is(err, booking.ErrUnknownService):
		return appErrors.Validation(err.Error(), map[string]string{"service_id": "is not offered by this host"})
	case errors.Is(err, booking.ErrSlotNotOffered):
		return appErrors.Validation(err.Error(), map[string]string{"time": "is not offered on the selected date"})
	case errors.Is(err, booking.ErrNothingSelected):
		return appErrors.Validation(err.Error(), map[string]string{"time": "is required"})
	case errors.Is(err, booking.ErrStaleSelection):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, err.Error())
	default:
		return appErrors.FromError(err)
	}
}
