package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
	"github.com/cirqle/cirqle-api/pkg/response"
)

type hostService interface {
	CheckUsername(ctx context.Context, session *models.AuthSession, username string) (*models.UsernameAvailability, error)
	ClaimUsername(ctx context.Context, session models.AuthSession, req models.ClaimUsernameRequest) (*models.UserInfo, error)
	CalendarSettings(ctx context.Context, session models.AuthSession) (*models.CalendarSettings, error)
	UpdateCalendarSettings(ctx context.Context, session models.AuthSession, req models.UpdateCalendarSettingsRequest) (*models.CalendarSettings, error)
	PublicProfile(ctx context.Context, username string) (*models.PublicProfile, error)
}

// HostHandler serves a host's own settings and their public profile.
type HostHandler struct {
	service hostService
}

// NewHostHandler constructs a host handler.
func NewHostHandler(svc hostService) *HostHandler {
	return &HostHandler{service: svc}
}

// CheckUsername godoc
// @Summary Check personal link availability
// @Description Reports whether the username can be claimed; a signed-in host sees their own link as available
// @Tags Hosts
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /usernames/{username}/availability [get]
func (h *HostHandler) CheckUsername(c *gin.Context) {
	var session *models.AuthSession
	if s, ok := sessionFromContext(c); ok {
		session = &s
	}

	res, err := h.service.CheckUsername(c.Request.Context(), session, c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// ClaimUsername godoc
// @Summary Claim personal link
// @Description Claims cirqle.me/{username} for the signed-in host and sends the welcome e-mail
// @Tags Hosts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ClaimUsernameRequest true "Username"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /me/username [put]
func (h *HostHandler) ClaimUsername(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ClaimUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid payload"))
		return
	}

	info, err := h.service.ClaimUsername(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, info, nil)
}

// CalendarSettings godoc
// @Summary Get calendar settings
// @Description Returns the host's settings, creating the defaults on first use
// @Tags Hosts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me/calendar-settings [get]
func (h *HostHandler) CalendarSettings(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	settings, err := h.service.CalendarSettings(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, settings, nil)
}

// UpdateCalendarSettings godoc
// @Summary Save calendar settings
// @Tags Hosts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.UpdateCalendarSettingsRequest true "Settings"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /me/calendar-settings [put]
func (h *HostHandler) UpdateCalendarSettings(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateCalendarSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid calendar settings payload"))
		return
	}

	settings, err := h.service.UpdateCalendarSettings(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, settings, nil)
}

// PublicProfile godoc
// @Summary Public booking page
// @Tags Booking
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hosts/{username} [get]
func (h *HostHandler) PublicProfile(c *gin.Context) {
	profile, err := h.service.PublicProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}
