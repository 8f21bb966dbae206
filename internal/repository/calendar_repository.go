package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cirqle/cirqle-api/internal/models"
)

const calendarColumns = `host_id, page_title, welcome_message, services, availability, created_at, updated_at`

// CalendarRepository stores each host's booking page settings.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs a calendar settings repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// FindByHostID returns the settings of a host or sql.ErrNoRows.
func (r *CalendarRepository) FindByHostID(ctx context.Context, hostID string) (*models.CalendarSettings, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendar_settings WHERE host_id = $1`
	var settings models.CalendarSettings
	if err := r.db.GetContext(ctx, &settings, query, hostID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find calendar settings: %w", err)
	}
	return &settings, nil
}

// CreateIfAbsent inserts settings unless the host already has some, and
// returns whichever row is stored afterwards.
func (r *CalendarRepository) CreateIfAbsent(ctx context.Context, settings *models.CalendarSettings) (*models.CalendarSettings, error) {
	now := time.Now().UTC()
	settings.CreatedAt = now
	settings.UpdatedAt = now

	const query = `INSERT INTO calendar_settings (host_id, page_title, welcome_message, services, availability, created_at, updated_at)
VALUES (:host_id, :page_title, :welcome_message, :services, :availability, :created_at, :updated_at)
ON CONFLICT (host_id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return nil, fmt.Errorf("create calendar settings: %w", err)
	}
	return r.FindByHostID(ctx, settings.HostID)
}

// Upsert replaces the host's settings.
func (r *CalendarRepository) Upsert(ctx context.Context, settings *models.CalendarSettings) error {
	now := time.Now().UTC()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now

	const query = `INSERT INTO calendar_settings (host_id, page_title, welcome_message, services, availability, created_at, updated_at)
VALUES (:host_id, :page_title, :welcome_message, :services, :availability, :created_at, :updated_at)
ON CONFLICT (host_id) DO UPDATE SET page_title = EXCLUDED.page_title, welcome_message = EXCLUDED.welcome_message,
services = EXCLUDED.services, availability = EXCLUDED.availability, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert calendar settings: %w", err)
	}
	return nil
}
