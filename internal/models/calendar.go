package models

import "time"

// DateLayout is the civil date wire format.
const DateLayout = "2006-01-02"

// MonthLayout identifies a calendar month in query strings.
const MonthLayout = "2006-01"

// CalendarSettings is the host's booking page configuration.
type CalendarSettings struct {
	HostID         string             `db:"host_id" json:"host_id"`
	PageTitle      string             `db:"page_title" json:"page_title"`
	WelcomeMessage string             `db:"welcome_message" json:"welcome_message"`
	Services       Services           `db:"services" json:"services"`
	Availability   AvailabilityConfig `db:"availability" json:"availability"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at" json:"updated_at"`
}

// DefaultCalendarSettings builds the settings created on first open.
func DefaultCalendarSettings(hostID, displayName, timezone string) CalendarSettings {
	title := "Book a meeting"
	if displayName != "" {
		title = "Book a meeting with " + displayName
	}
	return CalendarSettings{
		HostID:         hostID,
		PageTitle:      title,
		WelcomeMessage: "Pick a service and a time that works for you.",
		Services:       DefaultServices(),
		Availability:   DefaultAvailability(timezone),
	}
}

// UpdateCalendarSettingsRequest replaces the editable parts of the settings.
type UpdateCalendarSettingsRequest struct {
	PageTitle      string             `json:"page_title" validate:"required,max=120"`
	WelcomeMessage string             `json:"welcome_message" validate:"max=1000"`
	Services       []Service          `json:"services" validate:"required,min=1,dive"`
	Availability   AvailabilityConfig `json:"availability"`
}

// CalendarCell is one day of the month grid.
type CalendarCell struct {
	Date           string `json:"date"`
	DayOfMonth     int    `json:"day_of_month"`
	IsCurrentMonth bool   `json:"is_current_month"`
	IsToday        bool   `json:"is_today"`
	IsSelected     bool   `json:"is_selected"`
	IsAvailable    bool   `json:"is_available"`
}

// MonthView is the public calendar for a month.
type MonthView struct {
	Month    string           `json:"month"`
	Timezone string           `json:"timezone"`
	Weekdays []Weekday        `json:"weekdays"`
	Cells    [42]CalendarCell `json:"cells"`
	Previous string           `json:"previous"`
	Next     string           `json:"next"`
}

// PublicProfile is what visitors see of a host.
type PublicProfile struct {
	Username       string   `json:"username"`
	DisplayName    string   `json:"display_name"`
	PageTitle      string   `json:"page_title"`
	WelcomeMessage string   `json:"welcome_message"`
	Timezone       string   `json:"timezone"`
	Services       Services `json:"services"`
	BookingURL     string   `json:"booking_url"`
}
