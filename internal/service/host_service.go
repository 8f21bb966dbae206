package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cirqle/cirqle-api/internal/availability"
	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

type hostUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameTaken(ctx context.Context, username, exceptUserID string) (bool, error)
	UpdateUsername(ctx context.Context, id, username string, updatedAt time.Time) error
}

type calendarSettingsRepository interface {
	FindByHostID(ctx context.Context, hostID string) (*models.CalendarSettings, error)
	CreateIfAbsent(ctx context.Context, settings *models.CalendarSettings) (*models.CalendarSettings, error)
	Upsert(ctx context.Context, settings *models.CalendarSettings) error
}

type welcomeNotifier interface {
	QueueWelcome(ctx context.Context, email, extension string)
}

// reservedUsernames collide with routes of the web app.
var reservedUsernames = map[string]struct{}{
	"admin": {}, "api": {}, "dashboard": {}, "docs": {}, "login": {}, "signup": {},
	"settings": {}, "reset-password": {}, "verify-email": {}, "health": {}, "metrics": {},
}

// HostConfig tunes host lookups.
type HostConfig struct {
	PublicBaseURL   string
	DefaultTimezone string
	IOTimeout       time.Duration
	ProfileCacheTTL time.Duration
}

// Host is a host account together with its calendar settings.
type Host struct {
	User     models.User             `json:"user"`
	Settings models.CalendarSettings `json:"settings"`
}

// HostService manages host calendar settings and personal links, and
// resolves hosts for the public booking pages.
type HostService struct {
	users     hostUserRepository
	calendars calendarSettingsRepository
	notifier  welcomeNotifier
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	config    HostConfig
	now       func() time.Time
}

// NewHostService constructs a HostService.
func NewHostService(users hostUserRepository, calendars calendarSettingsRepository, notifier welcomeNotifier, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cfg HostConfig) *HostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "Europe/Paris"
	}
	return &HostService{
		users:     users,
		calendars: calendars,
		notifier:  notifier,
		cache:     cache,
		validator: validate,
		logger:    logger,
		config:    cfg,
		now:       time.Now,
	}
}

// CheckUsername reports whether username can be claimed by the session user.
func (s *HostService) CheckUsername(ctx context.Context, session *models.AuthSession, username string) (*models.UsernameAvailability, error) {
	result := &models.UsernameAvailability{Username: username}
	if reason := usernameProblem(username); reason != "" {
		result.Reason = reason
		return result, nil
	}

	except := ""
	if session != nil {
		except = session.UserID
	}

	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	taken, err := s.users.UsernameTaken(ctx, username, except)
	if err != nil {
		return nil, storeError(err, "failed to check username")
	}
	if taken {
		result.Reason = "already taken"
		return result, nil
	}
	result.Available = true
	return result, nil
}

// ClaimUsername sets the session user's personal link and sends the welcome e-mail.
func (s *HostService) ClaimUsername(ctx context.Context, session models.AuthSession, req models.ClaimUsernameRequest) (*models.UserInfo, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid username")
	}
	if reason := usernameProblem(req.Username); reason != "" {
		return nil, appErrors.Validation("invalid username", map[string]string{"username": reason})
	}

	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, storeError(err, "failed to load user")
	}

	previous := user.UsernameValue()
	if previous == req.Username {
		info := user.Info()
		return &info, nil
	}

	taken, err := s.users.UsernameTaken(ctx, req.Username, user.ID)
	if err != nil {
		return nil, storeError(err, "failed to check username")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
	}

	if err := s.users.UpdateUsername(ctx, user.ID, req.Username, s.now().UTC()); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
		}
		return nil, storeError(err, "failed to claim username")
	}

	keys := []string{HostKey(req.Username)}
	if previous != "" {
		keys = append(keys, HostKey(previous))
	}
	s.cache.Forget(ctx, keys...)

	user.Username = &req.Username
	if previous == "" {
		s.notifier.QueueWelcome(ctx, user.Email, req.Username)
	}
	s.logger.Info("username claimed", zap.String("user_id", user.ID), zap.String("username", req.Username))

	info := user.Info()
	return &info, nil
}

// CalendarSettings returns the session user's settings, creating the
// defaults on first open.
func (s *HostService) CalendarSettings(ctx context.Context, session models.AuthSession) (*models.CalendarSettings, error) {
	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	settings, err := s.calendars.FindByHostID(ctx, session.UserID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeError(err, "failed to load calendar settings")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, storeError(err, "failed to load user")
	}

	defaults := models.DefaultCalendarSettings(user.ID, user.DisplayName, s.config.DefaultTimezone)
	settings, err = s.calendars.CreateIfAbsent(ctx, &defaults)
	if err != nil {
		return nil, storeError(err, "failed to create calendar settings")
	}
	return settings, nil
}

// UpdateCalendarSettings validates and stores the settings editor payload.
func (s *HostService) UpdateCalendarSettings(ctx context.Context, session models.AuthSession, req models.UpdateCalendarSettingsRequest) (*models.CalendarSettings, error) {
	fields := map[string]string{}
	if err := s.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, validationError(err, "invalid calendar settings")
		}
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fieldMessage(fe)
		}
	}

	cfg, availabilityFields := availability.Normalize(req.Availability)
	for key, msg := range availabilityFields {
		fields["availability."+key] = msg
	}

	services, serviceFields := normalizeServices(req.Services)
	for key, msg := range serviceFields {
		fields[key] = msg
	}

	if len(fields) > 0 {
		return nil, appErrors.Validation("invalid calendar settings", fields)
	}

	settings := &models.CalendarSettings{
		HostID:         session.UserID,
		PageTitle:      strings.TrimSpace(req.PageTitle),
		WelcomeMessage: strings.TrimSpace(req.WelcomeMessage),
		Services:       services,
		Availability:   cfg,
	}

	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	if existing, err := s.calendars.FindByHostID(ctx, session.UserID); err == nil {
		settings.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeError(err, "failed to load calendar settings")
	}

	if err := s.calendars.Upsert(ctx, settings); err != nil {
		return nil, storeError(err, "failed to save calendar settings")
	}
	s.forgetHost(ctx, session.UserID)
	return settings, nil
}

// ResolveHost loads a host and its settings by username. Both must exist.
func (s *HostService) ResolveHost(ctx context.Context, username string) (*Host, error) {
	if !validUsername(username) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "host not found")
	}

	key := HostKey(username)
	var cached Host
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "host not found")
		}
		return nil, storeError(err, "failed to load host")
	}
	host, err := s.withSettings(ctx, user)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, host, s.config.ProfileCacheTTL)
	return host, nil
}

// HostByID loads a host and its settings by account id. Both must exist.
func (s *HostService) HostByID(ctx context.Context, hostID string) (*Host, error) {
	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	user, err := s.users.FindByID(ctx, hostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "host not found")
		}
		return nil, storeError(err, "failed to load host")
	}
	return s.withSettings(ctx, user)
}

// PublicProfile is the visitor-facing view of a host.
func (s *HostService) PublicProfile(ctx context.Context, username string) (*models.PublicProfile, error) {
	host, err := s.ResolveHost(ctx, username)
	if err != nil {
		return nil, err
	}
	return &models.PublicProfile{
		Username:       host.User.UsernameValue(),
		DisplayName:    host.User.DisplayName,
		PageTitle:      host.Settings.PageTitle,
		WelcomeMessage: host.Settings.WelcomeMessage,
		Timezone:       host.Settings.Availability.Timezone,
		Services:       host.Settings.Services,
		BookingURL:     ProfileURL(s.config.PublicBaseURL, host.User.UsernameValue()),
	}, nil
}

// forgetHost drops the cached lookup of the host. The username is read from
// the store because the one in the access token may predate a claim.
func (s *HostService) forgetHost(ctx context.Context, hostID string) {
	if !s.cache.Enabled() {
		return
	}
	user, err := s.users.FindByID(ctx, hostID)
	if err != nil {
		s.logger.Warn("cache refresh skipped", zap.String("host_id", hostID), zap.Error(err))
		return
	}
	if username := user.UsernameValue(); username != "" {
		s.cache.Forget(ctx, HostKey(username))
	}
}

func (s *HostService) withSettings(ctx context.Context, user *models.User) (*Host, error) {
	settings, err := s.calendars.FindByHostID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "host has no booking calendar")
		}
		return nil, storeError(err, "failed to load calendar settings")
	}
	return &Host{User: *user, Settings: *settings}, nil
}

// normalizeServices trims names, rejects duplicate ids and makes sure exactly
// one service is flagged as the default.
func normalizeServices(in []models.Service) (models.Services, map[string]string) {
	fields := map[string]string{}
	out := make(models.Services, 0, len(in))
	seen := make(map[string]int, len(in))
	defaultIdx := -1
	for i, svc := range in {
		svc.ID = strings.TrimSpace(svc.ID)
		svc.Name = strings.TrimSpace(svc.Name)
		if first, dup := seen[svc.ID]; dup && svc.ID != "" {
			fields[fmt.Sprintf("services[%d].id", i)] = fmt.Sprintf("duplicates services[%d]", first)
		}
		seen[svc.ID] = i
		if svc.IsDefault {
			if defaultIdx >= 0 {
				fields[fmt.Sprintf("services[%d].is_default", i)] = "only one service can be the default"
			}
			defaultIdx = i
		}
		out = append(out, svc)
	}
	if defaultIdx < 0 && len(out) > 0 {
		out[0].IsDefault = true
	}
	return out, fields
}

func usernameProblem(username string) string {
	if !validUsername(username) {
		return "may only contain letters, numbers, underscores and hyphens"
	}
	if _, reserved := reservedUsernames[strings.ToLower(username)]; reserved {
		return "is reserved"
	}
	return ""
}
