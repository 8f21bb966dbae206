package models

// EmailKind selects a transactional template.
type EmailKind string

const (
	EmailWelcome             EmailKind = "welcome"
	EmailContact             EmailKind = "contact"
	EmailBookingConfirmation EmailKind = "booking_confirmation"
	EmailBookingAlert        EmailKind = "booking_alert"
	EmailVerifyAddress       EmailKind = "verify_email"
	EmailPasswordReset       EmailKind = "password_reset"
)

// EmailResult is the notifier outcome; failures never surface as panics or raw errors.
type EmailResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// WelcomeEmailRequest is the body of POST /api/email/welcome.
type WelcomeEmailRequest struct {
	Email     string `json:"email"`
	Extension string `json:"extension"`
}

// ContactRequest is the body of POST /api/email/contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
