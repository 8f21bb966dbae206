package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

func TestIsEmailShape(t *testing.T) {
	valid := []string{"a@b.co", "first.last+tag@example.org"}
	invalid := []string{"", "plain", "a@b", "a b@c.de", "@example.com", "a@@b.com"}
	for _, v := range valid {
		assert.True(t, IsEmailShape(v), v)
	}
	for _, v := range invalid {
		assert.False(t, IsEmailShape(v), v)
	}
}

func TestPasswordProblem(t *testing.T) {
	assert.Equal(t, "must be at least 8 characters", passwordProblem("a1!"))
	assert.Equal(t, "must contain a number", passwordProblem("abcdefg!"))
	assert.Equal(t, "must contain a special character", passwordProblem("abcdefg1"))
	assert.Empty(t, passwordProblem("abcdef1!"))
}

func TestValidUsername(t *testing.T) {
	assert.True(t, validUsername("ada_lovelace-1"))
	assert.False(t, validUsername(""))
	assert.False(t, validUsername("ada lovelace"))
	assert.False(t, validUsername("ada.lovelace"))
	assert.False(t, validUsername("abcdefghijklmnopqrstuvwxyzabcdefghijklmno"))
}

func TestValidationErrorUsesJSONNames(t *testing.T) {
	v := NewValidator()
	err := v.Struct(models.BookingRequest{HostID: "h", ServiceID: "s", Date: "2030-01-07", TimeSlot: "9:5", CustomerName: "Bob", CustomerEmail: "bob@example.com"})
	require.Error(t, err)

	appErr := appErrors.FromError(validationError(err, "invalid booking request"))
	assert.Equal(t, "invalid booking request", appErr.Message)
	assert.Equal(t, map[string]string{"time_slot": "must be a time in H:MM format"}, appErr.Fields)
}

func TestValidationErrorPasswordMessage(t *testing.T) {
	v := NewValidator()
	err := v.Struct(models.SignupRequest{Email: "a@b.co", Password: "longenough"})
	require.Error(t, err)

	appErr := appErrors.FromError(validationError(err, "invalid"))
	assert.Equal(t, "must contain a number", appErr.Fields["password"])
}
