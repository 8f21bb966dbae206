package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
	"github.com/cirqle/cirqle-api/pkg/export"
)

type stubAgenda struct {
	agenda *Agenda
	err    error
}

func (s stubAgenda) Agenda(ctx context.Context, session models.AuthSession, from, to string) (*Agenda, error) {
	return s.agenda, s.err
}

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) {
	return nil, errors.New("font missing")
}

func sampleAgenda() *Agenda {
	sent := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	return &Agenda{
		From:     "2030-01-01",
		To:       "2030-01-31",
		Timezone: "Europe/Paris",
		Bookings: []models.Booking{
			{Date: openMonday, TimeSlot: "09:00", ServiceName: "Consultation", CustomerName: "Bob", CustomerEmail: "bob@example.com", Notes: "first, visit", ConfirmationSentAt: &sent},
			{Date: "2030-01-14", TimeSlot: "10:00", ServiceName: "Intro call", CustomerName: "Carol", CustomerEmail: "carol@example.com"},
		},
	}
}

func TestExportServiceCSV(t *testing.T) {
	svc := NewExportService(stubAgenda{agenda: sampleAgenda()}, nil, nil, nil)

	result, err := svc.ExportAgenda(context.Background(), testHost().Session(), "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "agenda_2030-01-01_2030-01-31.csv", result.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", result.ContentType)

	lines := strings.Split(strings.TrimSpace(string(result.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Time,Service,Customer,Email,Notes,Confirmation sent", lines[0])
	assert.Equal(t, `2030-01-07,09:00,Consultation,Bob,bob@example.com,"first, visit",yes`, lines[1])
	assert.True(t, strings.HasSuffix(lines[2], ",no"))
}

func TestExportServicePDF(t *testing.T) {
	svc := NewExportService(stubAgenda{agenda: sampleAgenda()}, nil, nil, nil)

	result, err := svc.ExportAgenda(context.Background(), testHost().Session(), "pdf", "", "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF")))
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
}

func TestExportServiceErrors(t *testing.T) {
	svc := NewExportService(stubAgenda{agenda: sampleAgenda()}, nil, nil, nil)
	_, err := svc.ExportAgenda(context.Background(), testHost().Session(), "xlsx", "", "")
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "format")

	rangeErr := appErrors.Validation("invalid agenda range", map[string]string{"to": "must not be before from"})
	svc = NewExportService(stubAgenda{err: rangeErr}, nil, nil, nil)
	_, err = svc.ExportAgenda(context.Background(), testHost().Session(), "csv", "2030-02-01", "2030-01-01")
	assert.Equal(t, rangeErr, err)

	svc = NewExportService(stubAgenda{agenda: sampleAgenda()}, nil, nil, failingRenderer{})
	_, err = svc.ExportAgenda(context.Background(), testHost().Session(), "pdf", "", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
