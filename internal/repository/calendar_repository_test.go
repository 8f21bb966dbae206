package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirqle/cirqle-api/internal/models"
)

var calendarRowColumns = []string{"host_id", "page_title", "welcome_message", "services", "availability", "created_at", "updated_at"}

func TestFindCalendarSettings(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	now := time.Now()
	services := []byte(`[{"id":"consultation","name":"Consultation","duration_minutes":30,"price":50,"icon":"clock","is_default":true}]`)
	availability := []byte(`{"timezone":"Europe/Paris","weekdays":{"monday":{"enabled":true,"slots":["09:00","10:00"]}}}`)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + calendarColumns + " FROM calendar_settings WHERE host_id = $1")).
		WithArgs("host-1").
		WillReturnRows(sqlmock.NewRows(calendarRowColumns).AddRow("host-1", "Book Ada", "Hi", services, availability, now, now))

	settings, err := repo.FindByHostID(context.Background(), "host-1")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", settings.Availability.Timezone)
	assert.Equal(t, []string{"09:00", "10:00"}, settings.Availability.Weekdays[models.Monday].Slots)
	require.Len(t, settings.Services, 1)
	assert.Equal(t, models.ServiceIconClock, settings.Services[0].Icon)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCalendarSettingsIfAbsent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	defaults := models.DefaultCalendarSettings("host-1", "Ada", "Europe/Paris")
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (host_id) DO NOTHING")).WillReturnResult(sqlmock.NewResult(0, 1))
	now := time.Now()
	mock.ExpectQuery("FROM calendar_settings WHERE host_id").
		WithArgs("host-1").
		WillReturnRows(sqlmock.NewRows(calendarRowColumns).AddRow("host-1", defaults.PageTitle, "", []byte(`[]`), []byte(`{"timezone":"Europe/Paris","weekdays":{}}`), now, now))

	stored, err := repo.CreateIfAbsent(context.Background(), &defaults)
	require.NoError(t, err)
	assert.Equal(t, "Book a meeting with Ada", stored.PageTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertCalendarSettings(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (host_id) DO UPDATE")).WillReturnResult(sqlmock.NewResult(0, 1))

	settings := models.DefaultCalendarSettings("host-1", "", "Europe/Paris")
	require.NoError(t, repo.Upsert(context.Background(), &settings))
	assert.False(t, settings.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
