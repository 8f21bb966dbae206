package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cirqle/cirqle-api/internal/booking"
	"github.com/cirqle/cirqle-api/internal/service"
	"github.com/cirqle/cirqle-api/pkg/response"
)

type bookingFlow interface {
	Start(ctx context.Context, username string) (*service.FlowView, error)
	Get(ctx context.Context, id string) (*service.FlowView, error)
	ChooseService(ctx context.Context, id, serviceID string) (*service.FlowView, error)
	ChooseDate(ctx context.Context, id, date string) (*service.FlowView, error)
	ChooseTime(ctx context.Context, id, slot string) (*service.FlowView, error)
	Back(ctx context.Context, id string) (*service.FlowView, error)
	Confirm(ctx context.Context, id string, customer booking.Customer) (*service.FlowView, error)
}

type chooseServiceRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
}

type chooseDateRequest struct {
	Date string `json:"date" binding:"required"`
}

type chooseTimeRequest struct {
	Time string `json:"time" binding:"required"`
}

// FlowHandler drives visitor booking sessions step by step.
type FlowHandler struct {
	flow bookingFlow
}

// NewFlowHandler constructs the handler.
func NewFlowHandler(flow bookingFlow) *FlowHandler {
	return &FlowHandler{flow: flow}
}

// Start godoc
// @Summary Start a booking session
// @Tags Booking flow
// @Produce json
// @Param username path string true "Username"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hosts/{username}/sessions [post]
func (h *FlowHandler) Start(c *gin.Context) {
	view, err := h.flow.Start(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, view)
}

// Get godoc
// @Summary Get a booking session
// @Tags Booking flow
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *FlowHandler) Get(c *gin.Context) {
	h.respond(c)(h.flow.Get(c.Request.Context(), c.Param("id")))
}

// ChooseService godoc
// @Summary Select a service
// @Tags Booking flow
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body chooseServiceRequest true "Service"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{id}/service [put]
func (h *FlowHandler) ChooseService(c *gin.Context) {
	var req chooseServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "service_id is required"))
		return
	}
	h.respond(c)(h.flow.ChooseService(c.Request.Context(), c.Param("id"), req.ServiceID))
}

// ChooseDate godoc
// @Summary Select a date
// @Description Loads the free slots of the date; a disabled day keeps the session on date selection
// @Tags Booking flow
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body chooseDateRequest true "Date"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{id}/date [put]
func (h *FlowHandler) ChooseDate(c *gin.Context) {
	var req chooseDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "date is required"))
		return
	}
	h.respond(c)(h.flow.ChooseDate(c.Request.Context(), c.Param("id"), req.Date))
}

// ChooseTime godoc
// @Summary Select a time slot
// @Tags Booking flow
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body chooseTimeRequest true "Slot"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{id}/time [put]
func (h *FlowHandler) ChooseTime(c *gin.Context) {
	var req chooseTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "time is required"))
		return
	}
	h.respond(c)(h.flow.ChooseTime(c.Request.Context(), c.Param("id"), req.Time))
}

// Back godoc
// @Summary Go back one step
// @Tags Booking flow
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{id}/back [post]
func (h *FlowHandler) Back(c *gin.Context) {
	h.respond(c)(h.flow.Back(c.Request.Context(), c.Param("id")))
}

// Confirm godoc
// @Summary Confirm the booking
// @Description Records the booking; when the slot was taken meanwhile the session stays on time selection and 409 SLOT_TAKEN is returned
// @Tags Booking flow
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body booking.Customer true "Customer"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /sessions/{id}/confirm [post]
func (h *FlowHandler) Confirm(c *gin.Context) {
	var customer booking.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		response.Error(c, bindError(err, "invalid customer details"))
		return
	}
	h.respond(c)(h.flow.Confirm(c.Request.Context(), c.Param("id"), customer))
}

func (h *FlowHandler) respond(c *gin.Context) func(*service.FlowView, error) {
	return func(view *service.FlowView, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, view, nil)
	}
}
