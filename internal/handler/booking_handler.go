package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/cirqle/cirqle-api/internal/models"
	"github.com/cirqle/cirqle-api/internal/service"
	"github.com/cirqle/cirqle-api/pkg/response"
)

type hostResolver interface {
	ResolveHost(ctx context.Context, username string) (*service.Host, error)
}

type bookingRecorder interface {
	RecordBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
}

// BookingHandler records bookings submitted in one request.
type BookingHandler struct {
	hosts    hostResolver
	recorder bookingRecorder
}

// NewBookingHandler constructs the handler.
func NewBookingHandler(hosts hostResolver, recorder bookingRecorder) *BookingHandler {
	return &BookingHandler{hosts: hosts, recorder: recorder}
}

// Create godoc
// @Summary Book a slot
// @Description Records a booking; a slot that was taken in the meantime yields 409 SLOT_TAKEN
// @Tags Booking
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param payload body models.BookingRequest true "Booking"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /hosts/{username}/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid booking payload"))
		return
	}

	host, err := h.hosts.ResolveHost(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	req.HostID = host.User.ID

	booking, err := h.recorder.RecordBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, booking)
}
