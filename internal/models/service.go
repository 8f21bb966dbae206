package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ServiceIconKind is the closed set of icons a service can display.
type ServiceIconKind string

const (
	ServiceIconClock    ServiceIconKind = "clock"
	ServiceIconVideo    ServiceIconKind = "video"
	ServiceIconCalendar ServiceIconKind = "calendar"
)

// ParseServiceIconKind rejects icon names outside the known set.
func ParseServiceIconKind(raw string) (ServiceIconKind, error) {
	switch kind := ServiceIconKind(raw); kind {
	case ServiceIconClock, ServiceIconVideo, ServiceIconCalendar:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown service icon %q", raw)
	}
}

// Service is something a host offers for booking.
type Service struct {
	ID              string          `json:"id" validate:"required,max=64"`
	Name            string          `json:"name" validate:"required,max=120"`
	DurationMinutes int             `json:"duration_minutes" validate:"min=5,max=480"`
	Price           float64         `json:"price" validate:"min=0"`
	Description     string          `json:"description" validate:"max=500"`
	Icon            ServiceIconKind `json:"icon" validate:"iconkind"`
	IsDefault       bool            `json:"is_default"`
}

// Services is the host's offered list, stored as JSONB.
type Services []Service

// DefaultServices is the list created with a new calendar.
func DefaultServices() Services {
	return Services{{
		ID:              "consultation",
		Name:            "Consultation",
		DurationMinutes: 30,
		Price:           50,
		Description:     "Initial consultation",
		Icon:            ServiceIconClock,
		IsDefault:       true,
	}}
}

// Find returns the service with the given id.
func (s Services) Find(id string) (Service, bool) {
	for _, svc := range s {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

// Default returns the service flagged as default, if any.
func (s Services) Default() (Service, bool) {
	for _, svc := range s {
		if svc.IsDefault {
			return svc, true
		}
	}
	return Service{}, false
}

// Value marshals services to JSON for persistence.
func (s Services) Value() (driver.Value, error) {
	if s == nil {
		s = Services{}
	}
	data, err := json.Marshal([]Service(s))
	if err != nil {
		return nil, fmt.Errorf("marshal services: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB array into services.
func (s *Services) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan services: %w", err)
	}
	if data == nil {
		*s = Services{}
		return nil
	}
	return json.Unmarshal(data, (*[]Service)(s))
}
