// Package availability turns a host's weekly availability into calendar grids and bookable slots.
package availability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cirqle/cirqle-api/internal/models"
)

// ParseSlot parses "H:MM" or "HH:MM" on a 24h clock and returns the minutes since midnight.
func ParseSlot(raw string) (int, error) {
	hh, mm, ok := strings.Cut(raw, ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return h*60 + m, nil
}

// IsSlot reports whether raw is a syntactically valid time of day.
func IsSlot(raw string) bool {
	_, err := ParseSlot(raw)
	return err == nil
}

// NormalizeSlot rewrites a time of day in zero-padded "HH:MM" form.
func NormalizeSlot(raw string) (string, error) {
	minutes, err := ParseSlot(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// Normalize validates an availability document coming from the settings editor.
// Slots must be half-hour aligned; they are zero-padded, de-duplicated per day
// and sorted. Missing weekdays are added as disabled. Field errors are keyed
// like "weekdays.monday.slots[1]".
func Normalize(cfg models.AvailabilityConfig) (models.AvailabilityConfig, map[string]string) {
	fields := map[string]string{}
	out := models.AvailabilityConfig{
		Timezone: strings.TrimSpace(cfg.Timezone),
		Weekdays: make(map[models.Weekday]models.DayAvailability, len(models.Weekdays)),
	}

	if out.Timezone == "" {
		fields["timezone"] = "is required"
	} else if _, err := time.LoadLocation(out.Timezone); err != nil {
		fields["timezone"] = "must be a valid IANA time zone"
	}

	for key := range cfg.Weekdays {
		if _, err := models.ParseWeekday(string(key)); err != nil {
			fields["weekdays."+string(key)] = "unknown weekday"
		}
	}

	for _, day := range models.Weekdays {
		entry := cfg.Weekdays[day]
		seen := make(map[int]struct{}, len(entry.Slots))
		minutes := make([]int, 0, len(entry.Slots))
		for i, raw := range entry.Slots {
			field := fmt.Sprintf("weekdays.%s.slots[%d]", day, i)
			m, err := ParseSlot(strings.TrimSpace(raw))
			if err != nil {
				fields[field] = "must be a 24h time in HH:MM format"
				continue
			}
			if m%30 != 0 {
				fields[field] = "must be on the hour or half hour"
				continue
			}
			if _, dup := seen[m]; dup {
				fields[field] = "duplicate time"
				continue
			}
			seen[m] = struct{}{}
			minutes = append(minutes, m)
		}
		sort.Ints(minutes)

		slots := make([]string, len(minutes))
		for i, m := range minutes {
			slots[i] = fmt.Sprintf("%02d:%02d", m/60, m%60)
		}
		if entry.Enabled && len(slots) == 0 {
			fields[fmt.Sprintf("weekdays.%s.slots", day)] = "an enabled day needs at least one time"
		}
		out.Weekdays[day] = models.DayAvailability{Enabled: entry.Enabled, Slots: slots}
	}

	if len(fields) == 0 {
		return out, nil
	}
	return out, fields
}

// Offers reports whether the host offers slot on date's weekday. Slot comparison is exact.
func Offers(cfg models.AvailabilityConfig, date time.Time, slot string) bool {
	day, ok := cfg.Weekdays[models.WeekdayFromDate(date)]
	if !ok || !day.Enabled {
		return false
	}
	for _, s := range day.Slots {
		if s == slot {
			return true
		}
	}
	return false
}
