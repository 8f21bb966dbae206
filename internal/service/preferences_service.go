package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cirqle/cirqle-api/internal/models"
)

type preferencesRepository interface {
	Find(ctx context.Context, userID string) (*models.Preferences, error)
	Upsert(ctx context.Context, prefs *models.Preferences) error
}

// PreferencesService reads and patches per-host UI preferences.
type PreferencesService struct {
	repo      preferencesRepository
	validator *validator.Validate
	ioTimeout time.Duration
}

// NewPreferencesService constructs a PreferencesService.
func NewPreferencesService(repo preferencesRepository, validate *validator.Validate, ioTimeout time.Duration) *PreferencesService {
	if validate == nil {
		validate = NewValidator()
	}
	return &PreferencesService{repo: repo, validator: validate, ioTimeout: ioTimeout}
}

// Get returns stored preferences, or the defaults when none were saved.
func (s *PreferencesService) Get(ctx context.Context, session models.AuthSession) (*models.Preferences, error) {
	ctx, cancel := withTimeout(ctx, s.ioTimeout)
	defer cancel()
	return s.load(ctx, session.UserID)
}

// Update applies the non-nil fields of req.
func (s *PreferencesService) Update(ctx context.Context, session models.AuthSession, req models.UpdatePreferencesRequest) (*models.Preferences, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid preferences")
	}

	ctx, cancel := withTimeout(ctx, s.ioTimeout)
	defer cancel()

	prefs, err := s.load(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if req.Theme != nil {
		prefs.Theme = *req.Theme
	}
	if req.AccentColor != nil {
		prefs.AccentColor = *req.AccentColor
	}
	if req.DashboardLayout != nil {
		prefs.DashboardLayout = *req.DashboardLayout
	}
	if req.Notifications != nil {
		prefs.Notifications = *req.Notifications
	}

	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return nil, storeError(err, "failed to save preferences")
	}
	return prefs, nil
}

func (s *PreferencesService) load(ctx context.Context, userID string) (*models.Preferences, error) {
	prefs, err := s.repo.Find(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		defaults := models.DefaultPreferences(userID)
		return &defaults, nil
	}
	return nil, storeError(err, "failed to load preferences")
}
