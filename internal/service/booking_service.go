package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cirqle/cirqle-api/internal/availability"
	"github.com/cirqle/cirqle-api/internal/models"
	"github.com/cirqle/cirqle-api/internal/repository"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

const (
	defaultAgendaDays = 30
	maxAgendaDays     = 366
)

type bookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	ListByHost(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
}

type hostLoader interface {
	HostByID(ctx context.Context, hostID string) (*Host, error)
}

type preferencesReader interface {
	Find(ctx context.Context, userID string) (*models.Preferences, error)
}

type bookingNotifier interface {
	QueueBookingEmails(ctx context.Context, booking *models.Booking, host *models.User, alertHost bool)
}

// Agenda is a host's bookings over a date range in the host time zone.
type Agenda struct {
	From     string           `json:"from"`
	To       string           `json:"to"`
	Timezone string           `json:"timezone"`
	Bookings []models.Booking `json:"bookings"`
}

// BookingService records bookings and lists a host's agenda.
type BookingService struct {
	hosts     hostLoader
	bookings  bookingStore
	prefs     preferencesReader
	notifier  bookingNotifier
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	ioTimeout time.Duration
	now       func() time.Time
}

// NewBookingService constructs a BookingService.
func NewBookingService(hosts hostLoader, bookings bookingStore, prefs preferencesReader, notifier bookingNotifier, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, ioTimeout time.Duration) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &BookingService{
		hosts:     hosts,
		bookings:  bookings,
		prefs:     prefs,
		notifier:  notifier,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		ioTimeout: ioTimeout,
		now:       time.Now,
	}
}

// RecordBooking validates req against the host's calendar and stores it.
// Losing a race for the slot yields SLOT_TAKEN. Notification failures never
// undo a stored booking.
func (s *BookingService) RecordBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.Notes = strings.TrimSpace(req.Notes)
	req.TimeSlot = strings.TrimSpace(req.TimeSlot)
	if err := s.validator.Struct(req); err != nil {
		s.metrics.ObserveBooking(BookingOutcomeRejected)
		return nil, validationError(err, "invalid booking request")
	}
	slot, err := availability.NormalizeSlot(req.TimeSlot)
	if err != nil {
		s.metrics.ObserveBooking(BookingOutcomeRejected)
		return nil, appErrors.Validation("invalid booking request", map[string]string{"time_slot": "must be a time in H:MM format"})
	}

	host, err := s.hosts.HostByID(ctx, req.HostID)
	if err != nil {
		return nil, err
	}
	settings := host.Settings

	service, ok := settings.Services.Find(req.ServiceID)
	if !ok {
		s.metrics.ObserveBooking(BookingOutcomeRejected)
		return nil, appErrors.Validation("service is not offered", map[string]string{"service_id": "is not offered by this host"})
	}

	loc, err := hostLocation(settings.Availability)
	if err != nil {
		return nil, err
	}
	date, err := availability.ParseDate(req.Date, loc)
	if err != nil {
		s.metrics.ObserveBooking(BookingOutcomeRejected)
		return nil, appErrors.Validation("invalid booking request", map[string]string{"date": "must be a date in YYYY-MM-DD format"})
	}
	if !availability.Offers(settings.Availability, date, slot) {
		s.metrics.ObserveBooking(BookingOutcomeRejected)
		return nil, appErrors.Validation("selected day is unavailable", map[string]string{"time_slot": "is not offered on this date"})
	}
	startsAt, err := availability.SlotStart(date, slot, loc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute slot start")
	}

	booking := &models.Booking{
		ID:            uuid.NewString(),
		HostID:        host.User.ID,
		ServiceID:     service.ID,
		ServiceName:   service.Name,
		Date:          date.Format(models.DateLayout),
		TimeSlot:      slot,
		StartsAt:      startsAt.UTC(),
		Timezone:      settings.Availability.Timezone,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
		CreatedAt:     s.now().UTC(),
	}

	writeCtx, cancel := withTimeout(ctx, s.ioTimeout)
	defer cancel()
	start := time.Now()
	err = s.bookings.Create(writeCtx, booking)
	s.metrics.ObserveStoreCall("bookings.create", time.Since(start))
	if err != nil {
		if isUniqueViolation(err, repository.BookingSlotConstraint) {
			s.metrics.ObserveBooking(BookingOutcomeSlotTaken)
			s.logger.Info("booking lost slot race", zap.String("host_id", booking.HostID), zap.String("date", booking.Date), zap.String("slot", slot))
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "")
		}
		s.metrics.ObserveBooking(BookingOutcomeFailed)
		return nil, storeError(err, "failed to record booking")
	}
	s.metrics.ObserveBooking(BookingOutcomeRecorded)
	s.logger.Info("booking recorded", zap.String("booking_id", booking.ID), zap.String("host_id", booking.HostID))

	s.notifier.QueueBookingEmails(ctx, booking, &host.User, s.alertsEnabled(ctx, host.User.ID))
	return booking, nil
}

// Agenda lists the session host's bookings from from to to inclusive
// (YYYY-MM-DD in the host zone). Missing bounds default to the next 30 days.
func (s *BookingService) Agenda(ctx context.Context, session models.AuthSession, from, to string) (*Agenda, error) {
	host, err := s.hosts.HostByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	loc, err := hostLocation(host.Settings.Availability)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	today := s.now().In(loc)
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	if from != "" {
		if start, err = availability.ParseDate(from, loc); err != nil {
			fields["from"] = "must be a date in YYYY-MM-DD format"
		}
	}
	last := start.AddDate(0, 0, defaultAgendaDays-1)
	if to != "" {
		if last, err = availability.ParseDate(to, loc); err != nil {
			fields["to"] = "must be a date in YYYY-MM-DD format"
		}
	}
	if len(fields) == 0 {
		switch {
		case last.Before(start):
			fields["to"] = "must not be before from"
		case last.After(start.AddDate(0, 0, maxAgendaDays)):
			fields["to"] = "range may span at most one year"
		}
	}
	if len(fields) > 0 {
		return nil, appErrors.Validation("invalid agenda range", fields)
	}

	_, end := availability.DayBounds(last, loc)
	ctx, cancel := withTimeout(ctx, s.ioTimeout)
	defer cancel()
	bookings, err := s.bookings.ListByHost(ctx, models.BookingFilter{HostID: host.User.ID, From: start, To: end})
	if err != nil {
		return nil, storeError(err, "failed to load bookings")
	}
	return &Agenda{
		From:     start.Format(models.DateLayout),
		To:       last.Format(models.DateLayout),
		Timezone: host.Settings.Availability.Timezone,
		Bookings: bookings,
	}, nil
}

func (s *BookingService) alertsEnabled(ctx context.Context, hostID string) bool {
	if s.prefs == nil {
		return true
	}
	ctx, cancel := withTimeout(ctx, s.ioTimeout)
	defer cancel()
	prefs, err := s.prefs.Find(ctx, hostID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load host preferences", zap.String("host_id", hostID), zap.Error(err))
		}
		return models.DefaultPreferences(hostID).Notifications
	}
	return prefs.Notifications
}
