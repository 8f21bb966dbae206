package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirqle/cirqle-api/internal/models"
)

func TestFindPreferences(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPreferencesRepository(db)

	mock.ExpectQuery("FROM user_preferences WHERE user_id = \\$1").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "theme", "accent_color", "dashboard_layout", "notifications", "updated_at"}).
			AddRow("u1", "dark", "green", "compact", false, time.Now()))

	prefs, err := repo.Find(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, prefs.Theme)
	assert.Equal(t, models.AccentGreen, prefs.AccentColor)
	assert.False(t, prefs.Notifications)

	mock.ExpectQuery("FROM user_preferences").WithArgs("u2").WillReturnError(sql.ErrNoRows)
	_, err = repo.Find(context.Background(), "u2")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPreferences(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPreferencesRepository(db)

	mock.ExpectExec("INSERT INTO user_preferences").WillReturnResult(sqlmock.NewResult(0, 1))

	prefs := models.DefaultPreferences("u1")
	require.NoError(t, repo.Upsert(context.Background(), &prefs))
	assert.NoError(t, mock.ExpectationsWereMet())
}
