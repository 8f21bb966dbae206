package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cirqle/cirqle-api/internal/models"
	"github.com/cirqle/cirqle-api/pkg/response"
)

type availabilityService interface {
	MonthView(ctx context.Context, username, month, selected string) (*models.MonthView, error)
	Slots(ctx context.Context, username, date, viewerTZ string) (*models.DaySlots, error)
}

// AvailabilityHandler serves the public calendar and slot lists.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(svc availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Calendar godoc
// @Summary Month grid
// @Description 42-cell Monday-first grid in the host time zone with availability flags
// @Tags Booking
// @Produce json
// @Param username path string true "Username"
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Param selected query string false "Selected day (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hosts/{username}/calendar [get]
func (h *AvailabilityHandler) Calendar(c *gin.Context) {
	view, err := h.service.MonthView(c.Request.Context(), c.Param("username"), c.Query("month"), c.Query("selected"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view, nil)
}

// Slots godoc
// @Summary Free slots for a date
// @Tags Booking
// @Produce json
// @Param username path string true "Username"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param tz query string false "Viewer IANA time zone"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hosts/{username}/slots [get]
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	slots, err := h.service.Slots(c.Request.Context(), c.Param("username"), c.Query("date"), c.Query("tz"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, slots, nil)
}
