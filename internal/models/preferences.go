package models

import "time"

// Theme is the dashboard colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// AccentColor is the highlight colour of the booking page.
type AccentColor string

const (
	AccentPurple AccentColor = "purple"
	AccentBlue   AccentColor = "blue"
	AccentGreen  AccentColor = "green"
	AccentRed    AccentColor = "red"
	AccentOrange AccentColor = "orange"
)

// Preferences are per-host UI and notification settings.
type Preferences struct {
	UserID          string      `db:"user_id" json:"user_id"`
	Theme           Theme       `db:"theme" json:"theme"`
	AccentColor     AccentColor `db:"accent_color" json:"accent_color"`
	DashboardLayout string      `db:"dashboard_layout" json:"dashboard_layout"`
	Notifications   bool        `db:"notifications" json:"notifications"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// DefaultPreferences is used until a host saves their own.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:          userID,
		Theme:           ThemeLight,
		AccentColor:     AccentPurple,
		DashboardLayout: "default",
		Notifications:   true,
	}
}

// UpdatePreferencesRequest patches preferences; nil fields are left untouched.
type UpdatePreferencesRequest struct {
	Theme           *Theme       `json:"theme" validate:"omitempty,oneof=light dark"`
	AccentColor     *AccentColor `json:"accent_color" validate:"omitempty,oneof=purple blue green red orange"`
	DashboardLayout *string      `json:"dashboard_layout" validate:"omitempty,max=40"`
	Notifications   *bool        `json:"notifications"`
}
