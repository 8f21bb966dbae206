package models

import "time"

// User is a host account stored in the users table.
type User struct {
	ID            string     `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	Username      *string    `db:"username" json:"username,omitempty"`
	DisplayName   string     `db:"display_name" json:"display_name"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	EmailVerified bool       `db:"email_verified" json:"email_verified"`
	LastLoginAt   *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// UsernameValue returns the claimed username or an empty string.
func (u *User) UsernameValue() string {
	if u == nil || u.Username == nil {
		return ""
	}
	return *u.Username
}

// Info converts the user into its response shape.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.UsernameValue(),
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
	}
}

// Session derives the explicit auth session for the user.
func (u *User) Session() AuthSession {
	return AuthSession{UserID: u.ID, Email: u.Email, Username: u.UsernameValue(), Verified: u.EmailVerified}
}

// UsernameAvailability answers a personal-link claim check.
type UsernameAvailability struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// ClaimUsernameRequest claims the host's personal link.
type ClaimUsernameRequest struct {
	Username string `json:"username" validate:"required,username"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
