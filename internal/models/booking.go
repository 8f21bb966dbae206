package models

import "time"

// Booking is a confirmed reservation of one slot on one date.
type Booking struct {
	ID                 string     `db:"id" json:"id"`
	HostID             string     `db:"host_id" json:"host_id"`
	ServiceID          string     `db:"service_id" json:"service_id"`
	ServiceName        string     `db:"service_name" json:"service_name"`
	Date               string     `db:"booking_date" json:"date"`
	TimeSlot           string     `db:"time_slot" json:"time_slot"`
	StartsAt           time.Time  `db:"starts_at" json:"starts_at"`
	Timezone           string     `db:"timezone" json:"timezone"`
	CustomerName       string     `db:"customer_name" json:"customer_name"`
	CustomerEmail      string     `db:"customer_email" json:"customer_email"`
	Notes              string     `db:"notes" json:"notes"`
	ConfirmationSentAt *time.Time `db:"confirmation_sent_at" json:"confirmation_sent_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// BookingRequest bundles everything needed to record a booking.
type BookingRequest struct {
	HostID        string `json:"-" validate:"required"`
	ServiceID     string `json:"service_id" validate:"required"`
	Date          string `json:"date" validate:"required,civildate"`
	TimeSlot      string `json:"time_slot" validate:"required,hhmm"`
	CustomerName  string `json:"customer_name" validate:"required,max=120"`
	CustomerEmail string `json:"customer_email" validate:"required,emailshape,max=254"`
	Notes         string `json:"notes" validate:"max=2000"`
}

// BookingFilter narrows a host's agenda to a half-open time range.
type BookingFilter struct {
	HostID string
	From   time.Time
	To     time.Time
}

// SlotView presents one offerable slot.
type SlotView struct {
	Time           string    `json:"time"`
	StartsAt       time.Time `json:"starts_at"`
	ViewerTime     string    `json:"viewer_time"`
	ViewerDate     string    `json:"viewer_date"`
	ViewerTimezone string    `json:"viewer_timezone"`
}

// DaySlots is the answer to "what can I book on this date".
type DaySlots struct {
	Date      string     `json:"date"`
	Timezone  string     `json:"timezone"`
	Available bool       `json:"available"`
	Slots     []SlotView `json:"slots"`
}
