package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cirqle/cirqle-api/internal/models"
)

type fakeNotifier struct {
	result  models.EmailResult
	welcome []string
	contact []models.ContactRequest
}

func (f *fakeNotifier) SendWelcome(_ context.Context, email, extension string) models.EmailResult {
	f.welcome = append(f.welcome, email+"|"+extension)
	return f.result
}

func (f *fakeNotifier) SendContact(_ context.Context, req models.ContactRequest) models.EmailResult {
	f.contact = append(f.contact, req)
	return f.result
}

func TestEmailHandlerWelcome(t *testing.T) {
	cases := []struct {
		name    string
		body    interface{}
		result  models.EmailResult
		status  int
		message string
	}{
		{"sent", map[string]string{"email": "ada@example.com", "extension": "ada"}, models.EmailResult{Success: true}, http.StatusOK, "Welcome email sent successfully"},
		{"missing extension", map[string]string{"email": "ada@example.com"}, models.EmailResult{Success: true}, http.StatusBadRequest, "Missing required fields"},
		{"bad email", map[string]string{"email": "ada", "extension": "ada"}, models.EmailResult{Success: true}, http.StatusBadRequest, "Invalid email address"},
		{"malformed", "{", models.EmailResult{Success: true}, http.StatusBadRequest, "Missing required fields"},
		{"provider failure", map[string]string{"email": "ada@example.com", "extension": "ada"}, models.EmailResult{Error: "401 unauthorized"}, http.StatusInternalServerError, "Failed to send email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewEmailHandler(&fakeNotifier{result: tc.result}, nil)
			c, rec := newContext(http.MethodPost, "/api/email/welcome", tc.body)
			h.Welcome(c)

			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, `{"success":`+boolJSON(tc.status == http.StatusOK)+`,"message":"`+tc.message+`"}`, rec.Body.String())
		})
	}
}

func TestEmailHandlerContact(t *testing.T) {
	notifier := &fakeNotifier{result: models.EmailResult{Success: true}}
	h := NewEmailHandler(notifier, nil)

	c, rec := newContext(http.MethodPost, "/api/email/contact", map[string]string{"name": " Bob ", "email": "bob@example.com", "message": "Hello"})
	h.Contact(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bob", notifier.contact[0].Name)

	c, rec = newContext(http.MethodPost, "/api/email/contact", map[string]string{"name": "Bob", "email": "bob@example.com", "message": "   "})
	h.Contact(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, notifier.contact, 1)

	notifier.result = models.EmailResult{Error: "smtp: connection refused"}
	c, rec = newContext(http.MethodPost, "/api/email/contact", map[string]string{"name": "Bob", "email": "bob@example.com", "message": "Hello"})
	h.Contact(c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func boolJSON(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
