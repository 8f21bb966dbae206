package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Weekday names a day of the week as stored in availability documents.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the days in display order, Monday first.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayByStd = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayFromDate is the only mapping from a calendar date to a Weekday.
// The date's own location decides which civil day it falls on.
func WeekdayFromDate(date time.Time) Weekday {
	return weekdayByStd[date.Weekday()]
}

// ParseWeekday validates a weekday key.
func ParseWeekday(raw string) (Weekday, error) {
	w := Weekday(raw)
	for _, known := range Weekdays {
		if w == known {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", raw)
}

// DayAvailability holds the slots a host offers on one weekday.
type DayAvailability struct {
	Enabled bool     `json:"enabled"`
	Slots   []string `json:"slots"`
}

// AvailabilityConfig is the host's recurring weekly availability.
type AvailabilityConfig struct {
	Timezone string                      `json:"timezone"`
	Weekdays map[Weekday]DayAvailability `json:"weekdays"`
}

// DefaultSlots are offered on enabled days of a freshly created calendar.
var DefaultSlots = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00"}

// DefaultAvailability returns the configuration created when a host first opens settings.
func DefaultAvailability(timezone string) AvailabilityConfig {
	if timezone == "" {
		timezone = "Europe/Paris"
	}
	cfg := AvailabilityConfig{Timezone: timezone, Weekdays: make(map[Weekday]DayAvailability, len(Weekdays))}
	for _, day := range Weekdays {
		enabled := day != Saturday && day != Sunday
		slots := []string{}
		if enabled {
			slots = append(slots, DefaultSlots...)
		}
		cfg.Weekdays[day] = DayAvailability{Enabled: enabled, Slots: slots}
	}
	return cfg
}

// Location loads the configured IANA zone.
func (c AvailabilityConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Value marshals the configuration to JSON for persistence.
func (c AvailabilityConfig) Value() (driver.Value, error) {
	if c.Weekdays == nil {
		c.Weekdays = map[Weekday]DayAvailability{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal availability: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB document into the configuration.
func (c *AvailabilityConfig) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan availability: %w", err)
	}
	if data == nil {
		*c = AvailabilityConfig{}
		return nil
	}
	return json.Unmarshal(data, c)
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}
