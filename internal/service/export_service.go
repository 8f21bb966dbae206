package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
	"github.com/cirqle/cirqle-api/pkg/export"
)

var agendaHeaders = []string{"Date", "Time", "Service", "Customer", "Email", "Notes", "Confirmation sent"}

type agendaSource interface {
	Agenda(ctx context.Context, session models.AuthSession, from, to string) (*Agenda, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportResult is a rendered agenda document.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a host's agenda as CSV or PDF.
type ExportService struct {
	agenda agendaSource
	csv    datasetRenderer
	pdf    datasetRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to pkg/export.
func NewExportService(agenda agendaSource, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{agenda: agenda, csv: csv, pdf: pdf, logger: logger}
}

// ExportAgenda renders the session host's bookings between from and to.
func (s *ExportService) ExportAgenda(ctx context.Context, session models.AuthSession, format, from, to string) (*ExportResult, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Validation("invalid export format", map[string]string{"format": "must be one of csv pdf"})
	}

	agenda, err := s.agenda.Agenda(ctx, session, from, to)
	if err != nil {
		return nil, err
	}
	dataset := buildAgendaDataset(agenda)

	renderer := s.csv
	if f == export.FormatPDF {
		renderer = s.pdf
	}
	payload, err := renderer.Render(dataset)
	if err != nil {
		s.logger.Error("agenda render failed", zap.String("format", string(f)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render agenda")
	}

	return &ExportResult{
		Filename:    fmt.Sprintf("agenda_%s_%s.%s", agenda.From, agenda.To, f),
		ContentType: f.ContentType(),
		Data:        payload,
	}, nil
}

func buildAgendaDataset(agenda *Agenda) export.Dataset {
	rows := make([]map[string]string, 0, len(agenda.Bookings))
	for _, b := range agenda.Bookings {
		sent := "no"
		if b.ConfirmationSentAt != nil {
			sent = "yes"
		}
		rows = append(rows, map[string]string{
			"Date":              b.Date,
			"Time":              b.TimeSlot,
			"Service":           b.ServiceName,
			"Customer":          b.CustomerName,
			"Email":             b.CustomerEmail,
			"Notes":             b.Notes,
			"Confirmation sent": sent,
		})
	}
	return export.Dataset{
		Title:    "Agenda",
		Subtitle: fmt.Sprintf("%s to %s (%s)", agenda.From, agenda.To, agenda.Timezone),
		Headers:  agendaHeaders,
		Rows:     rows,
	}
}
