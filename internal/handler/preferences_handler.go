package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
	"github.com/cirqle/cirqle-api/pkg/response"
)

type preferencesService interface {
	Get(ctx context.Context, session models.AuthSession) (*models.Preferences, error)
	Update(ctx context.Context, session models.AuthSession, req models.UpdatePreferencesRequest) (*models.Preferences, error)
}

// PreferencesHandler exposes dashboard preferences.
type PreferencesHandler struct {
	service preferencesService
}

// NewPreferencesHandler constructs the handler.
func NewPreferencesHandler(svc preferencesService) *PreferencesHandler {
	return &PreferencesHandler{service: svc}
}

// Get godoc
// @Summary Get dashboard preferences
// @Tags Preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /me/preferences [get]
func (h *PreferencesHandler) Get(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	prefs, err := h.service.Get(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, prefs, nil)
}

// Update godoc
// @Summary Update dashboard preferences
// @Description Only the fields present in the body change
// @Tags Preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.UpdatePreferencesRequest true "Preferences"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /me/preferences [put]
func (h *PreferencesHandler) Update(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid preferences payload"))
		return
	}

	prefs, err := h.service.Update(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, prefs, nil)
}
