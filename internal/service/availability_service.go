package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cirqle/cirqle-api/internal/availability"
	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

type bookingLister interface {
	ListByHost(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
}

type hostResolver interface {
	ResolveHost(ctx context.Context, username string) (*Host, error)
}

// AvailabilityService answers "which days and times can I book" for a host.
type AvailabilityService struct {
	hosts     hostResolver
	bookings  bookingLister
	metrics   *MetricsService
	logger    *zap.Logger
	ioTimeout time.Duration
	now       func() time.Time
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(hosts hostResolver, bookings bookingLister, metrics *MetricsService, logger *zap.Logger, ioTimeout time.Duration) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{hosts: hosts, bookings: bookings, metrics: metrics, logger: logger, ioTimeout: ioTimeout, now: time.Now}
}

// MonthView builds the 42-cell calendar of month (YYYY-MM, default current
// month) in the host's time zone. Days are marked available when their weekday
// is enabled; booked-out days are only detected once a date is chosen.
func (s *AvailabilityService) MonthView(ctx context.Context, username, month, selected string) (*models.MonthView, error) {
	host, err := s.hosts.ResolveHost(ctx, username)
	if err != nil {
		return nil, err
	}
	cfg := host.Settings.Availability
	loc, err := hostLocation(cfg)
	if err != nil {
		return nil, err
	}

	today := s.now().In(loc)
	anchor := today
	if month != "" {
		anchor, err = time.ParseInLocation(models.MonthLayout, month, loc)
		if err != nil {
			return nil, appErrors.Validation("invalid month", map[string]string{"month": "must be a month in YYYY-MM format"})
		}
	}

	var selectedDate *time.Time
	if selected != "" {
		d, err := availability.ParseDate(selected, loc)
		if err != nil {
			return nil, appErrors.Validation("invalid selected date", map[string]string{"selected": "must be a date in YYYY-MM-DD format"})
		}
		selectedDate = &d
	}

	cells := availability.BuildMonthGrid(anchor, today, selectedDate)
	availability.MarkAvailable(&cells, cfg, today)

	first := time.Date(anchor.Year(), anchor.Month(), 1, 12, 0, 0, 0, time.UTC)
	return &models.MonthView{
		Month:    first.Format(models.MonthLayout),
		Timezone: cfg.Timezone,
		Weekdays: append([]models.Weekday(nil), models.Weekdays...),
		Cells:    cells,
		Previous: first.AddDate(0, -1, 0).Format(models.MonthLayout),
		Next:     first.AddDate(0, 1, 0).Format(models.MonthLayout),
	}, nil
}

// Slots lists the free slots of date for a host. Each slot carries its start
// instant and its wall-clock time in viewerTZ (the host zone when empty).
func (s *AvailabilityService) Slots(ctx context.Context, username, date, viewerTZ string) (*models.DaySlots, error) {
	host, err := s.hosts.ResolveHost(ctx, username)
	if err != nil {
		return nil, err
	}
	loc, err := hostLocation(host.Settings.Availability)
	if err != nil {
		return nil, err
	}
	viewer := loc
	if viewerTZ != "" {
		if viewer, err = time.LoadLocation(viewerTZ); err != nil {
			return nil, appErrors.Validation("invalid time zone", map[string]string{"tz": "must be a valid IANA time zone"})
		}
	}
	day, err := availability.ParseDate(date, loc)
	if err != nil {
		return nil, appErrors.Validation("invalid date", map[string]string{"date": "must be a date in YYYY-MM-DD format"})
	}

	enabled, free, err := s.resolve(ctx, host, day, loc)
	if err != nil {
		return nil, err
	}

	views := make([]models.SlotView, 0, len(free))
	for _, slot := range free {
		start, err := availability.SlotStart(day, slot, loc)
		if err != nil {
			s.logger.Warn("skipping malformed slot", zap.String("host_id", host.User.ID), zap.String("slot", slot))
			continue
		}
		local := start.In(viewer)
		views = append(views, models.SlotView{
			Time:           slot,
			StartsAt:       start.UTC(),
			ViewerTime:     local.Format("15:04"),
			ViewerDate:     local.Format(models.DateLayout),
			ViewerTimezone: viewer.String(),
		})
	}

	return &models.DaySlots{
		Date:      day.Format(models.DateLayout),
		Timezone:  host.Settings.Availability.Timezone,
		Available: enabled,
		Slots:     views,
	}, nil
}

// SlotsForHost resolves the free slots of date for an already loaded host.
// enabled reports whether the weekday is open at all.
func (s *AvailabilityService) SlotsForHost(ctx context.Context, host *Host, date string) (bool, []string, error) {
	loc, err := hostLocation(host.Settings.Availability)
	if err != nil {
		return false, nil, err
	}
	day, err := availability.ParseDate(date, loc)
	if err != nil {
		return false, nil, appErrors.Validation("invalid date", map[string]string{"date": "must be a date in YYYY-MM-DD format"})
	}
	return s.resolve(ctx, host, day, loc)
}

func (s *AvailabilityService) resolve(ctx context.Context, host *Host, day time.Time, loc *time.Location) (bool, []string, error) {
	cfg := host.Settings.Availability
	entry, ok := cfg.Weekdays[models.WeekdayFromDate(day)]
	if !ok || !entry.Enabled {
		return false, []string{}, nil
	}

	from, to := availability.DayBounds(day, loc)
	ctx, cancel := withTimeout(ctx, s.ioTimeout)
	defer cancel()

	start := time.Now()
	existing, err := s.bookings.ListByHost(ctx, models.BookingFilter{HostID: host.User.ID, From: from, To: to})
	s.metrics.ObserveStoreCall("bookings.list_day", time.Since(start))
	if err != nil {
		return false, nil, storeError(err, "failed to load bookings")
	}
	return true, availability.ResolveSlots(day, cfg, existing), nil
}

func hostLocation(cfg models.AvailabilityConfig) (*time.Location, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "host calendar has an invalid time zone")
	}
	return loc, nil
}
