package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

type fakeAuthService struct {
	signup      models.SignupRequest
	loginErr    error
	verifyCalls int
	resetEmail  string
	confirmErr  error
}

func (f *fakeAuthService) Signup(_ context.Context, req models.SignupRequest) (*models.LoginResponse, error) {
	f.signup = req
	return &models.LoginResponse{AccessToken: "token", User: models.UserInfo{ID: "host-1", Email: req.Email}}, nil
}

func (f *fakeAuthService) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.LoginResponse{AccessToken: "token"}, nil
}

func (f *fakeAuthService) Me(_ context.Context, session models.AuthSession) (*models.UserInfo, error) {
	return &models.UserInfo{ID: session.UserID, Email: session.Email, Username: session.Username}, nil
}

func (f *fakeAuthService) SendVerificationEmail(context.Context, models.AuthSession) error {
	f.verifyCalls++
	return nil
}

func (f *fakeAuthService) VerifyEmail(context.Context, models.VerifyEmailRequest) error {
	return nil
}

func (f *fakeAuthService) ResetPassword(_ context.Context, req models.ResetPasswordRequest) error {
	f.resetEmail = req.Email
	return nil
}

func (f *fakeAuthService) ConfirmPasswordReset(context.Context, models.ConfirmResetPasswordRequest) error {
	return f.confirmErr
}

func TestAuthHandlerSignup(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newContext(http.MethodPost, "/auth/signup", map[string]string{"email": "ada@example.com", "password": "secret1!"})
	h.Signup(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ada@example.com", svc.signup.Email)
	var res models.LoginResponse
	decodeData(t, rec, &res)
	assert.Equal(t, "token", res.AccessToken)
}

func TestAuthHandlerRejectsMalformedJSON(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{})

	c, rec := newContext(http.MethodPost, "/auth/login", "{not json")
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestAuthHandlerLoginFailure(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{loginErr: appErrors.ErrInvalidCredentials})

	c, rec := newContext(http.MethodPost, "/auth/login", map[string]string{"email": "ada@example.com", "password": "nope"})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rec))
}

func TestAuthHandlerMeRequiresSession(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{})

	c, rec := newContext(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newContext(http.MethodGet, "/auth/me", nil)
	h.Me(withSession(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	var info models.UserInfo
	decodeData(t, rec, &info)
	assert.Equal(t, "ada", info.Username)
}

func TestAuthHandlerVerificationAndReset(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newContext(http.MethodPost, "/auth/verify-email", nil)
	h.SendVerification(withSession(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, svc.verifyCalls)

	c, rec = newContext(http.MethodPost, "/auth/verify-email/confirm", map[string]string{"token": "abc"})
	h.VerifyEmail(c)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newContext(http.MethodPost, "/auth/forgot-password", map[string]string{"email": "ghost@example.com"})
	h.ForgotPassword(c)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "ghost@example.com", svc.resetEmail)

	svc.confirmErr = appErrors.Clone(appErrors.ErrValidation, "reset link is invalid or has expired")
	c, rec = newContext(http.MethodPost, "/auth/reset-password", map[string]string{"token": "stale", "new_password": "secret1!"})
	h.ResetPassword(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
