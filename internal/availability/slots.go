package availability

import (
	"fmt"
	"time"

	"github.com/cirqle/cirqle-api/internal/models"
)

// ResolveSlots returns the configured slots of date's weekday that are not
// already booked on that civil day, in configured order. A disabled or missing
// day yields an empty slice. Bookings are assigned to a day by their start
// instant in the configured time zone; bookings without a start fall back to
// their civil date. Callers must handle an absent configuration themselves.
func ResolveSlots(date time.Time, cfg models.AvailabilityConfig, existing []models.Booking) []string {
	day, ok := cfg.Weekdays[models.WeekdayFromDate(date)]
	if !ok || !day.Enabled {
		return []string{}
	}

	candidates := make([]string, len(day.Slots))
	copy(candidates, day.Slots)

	loc, err := cfg.Location()
	if err != nil {
		loc = date.Location()
	}
	target := civilKey(date)

	booked := make(map[string]struct{}, len(existing))
	for _, b := range existing {
		if bookingDay(b, loc) == target {
			booked[b.TimeSlot] = struct{}{}
		}
	}

	free := candidates[:0]
	for _, slot := range candidates {
		if _, taken := booked[slot]; !taken {
			free = append(free, slot)
		}
	}
	return free
}

func bookingDay(b models.Booking, loc *time.Location) string {
	if b.StartsAt.IsZero() {
		return b.Date
	}
	return b.StartsAt.In(loc).Format(models.DateLayout)
}

// ParseDate reads a civil "YYYY-MM-DD" date as midnight in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(models.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

// DayBounds returns [local midnight, next local midnight) of date's civil day in loc.
// The range is 23 or 25 hours long on DST transition days.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end := time.Date(date.Year(), date.Month(), date.Day()+1, 0, 0, 0, 0, loc)
	return start, end
}

// SlotStart returns the instant a slot starts on date's civil day in loc.
func SlotStart(date time.Time, slot string, loc *time.Location) (time.Time, error) {
	minutes, err := ParseSlot(slot)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}
