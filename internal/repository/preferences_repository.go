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

// PreferencesRepository persists per-host preferences.
type PreferencesRepository struct {
	db *sqlx.DB
}

// NewPreferencesRepository constructs a preferences repository.
func NewPreferencesRepository(db *sqlx.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Find returns stored preferences or sql.ErrNoRows.
func (r *PreferencesRepository) Find(ctx context.Context, userID string) (*models.Preferences, error) {
	const query = `SELECT user_id, theme, accent_color, dashboard_layout, notifications, updated_at FROM user_preferences WHERE user_id = $1`
	var prefs models.Preferences
	if err := r.db.GetContext(ctx, &prefs, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find preferences: %w", err)
	}
	return &prefs, nil
}

// Upsert stores preferences, replacing any previous row.
func (r *PreferencesRepository) Upsert(ctx context.Context, prefs *models.Preferences) error {
	prefs.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO user_preferences (user_id, theme, accent_color, dashboard_layout, notifications, updated_at)
VALUES (:user_id, :theme, :accent_color, :dashboard_layout, :notifications, :updated_at)
ON CONFLICT (user_id) DO UPDATE SET theme = EXCLUDED.theme, accent_color = EXCLUDED.accent_color,
dashboard_layout = EXCLUDED.dashboard_layout, notifications = EXCLUDED.notifications, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, prefs); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}
