package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cirqle/cirqle-api/internal/models"
	"github.com/cirqle/cirqle-api/internal/service"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
	"github.com/cirqle/cirqle-api/pkg/response"
)

type agendaService interface {
	Agenda(ctx context.Context, session models.AuthSession, from, to string) (*service.Agenda, error)
}

type agendaExporter interface {
	ExportAgenda(ctx context.Context, session models.AuthSession, format, from, to string) (*service.ExportResult, error)
}

// AgendaHandler lists and exports a host's upcoming bookings.
type AgendaHandler struct {
	agenda   agendaService
	exporter agendaExporter
}

// NewAgendaHandler constructs the handler.
func NewAgendaHandler(agenda agendaService, exporter agendaExporter) *AgendaHandler {
	return &AgendaHandler{agenda: agenda, exporter: exporter}
}

// List godoc
// @Summary List bookings
// @Description Bookings between from and to inclusive, host time zone; defaults to the next 30 days
// @Tags Agenda
// @Produce json
// @Security BearerAuth
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /me/bookings [get]
func (h *AgendaHandler) List(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	agenda, err := h.agenda.Agenda(c.Request.Context(), session, c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, agenda, nil, map[string]interface{}{"count": len(agenda.Bookings)})
}

// Export godoc
// @Summary Export bookings
// @Tags Agenda
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /me/bookings/export [get]
func (h *AgendaHandler) Export(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.exporter.ExportAgenda(c.Request.Context(), session, c.Query("format"), c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
