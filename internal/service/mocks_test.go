package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/cirqle/cirqle-api/internal/models"
	"github.com/cirqle/cirqle-api/internal/repository"
	"github.com/cirqle/cirqle-api/pkg/mail"
)

type mockUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	findErr   error
	createErr error
	created   []*models.User
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	m := &mockUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if strings.EqualFold(u.UsernameValue(), username) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UsernameTaken(ctx context.Context, username, exceptUserID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID != exceptUserID && strings.EqualFold(u.UsernameValue(), username) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	clone := *user
	m.users[user.ID] = &clone
	m.created = append(m.created, &clone)
	return nil
}

func (m *mockUserRepo) update(id string, fn func(u *models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	fn(u)
	return nil
}

func (m *mockUserRepo) UpdateUsername(ctx context.Context, id, username string, updatedAt time.Time) error {
	return m.update(id, func(u *models.User) { u.Username = &username })
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return m.update(id, func(u *models.User) { u.LastLoginAt = &ts })
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	return m.update(id, func(u *models.User) { u.PasswordHash = passwordHash })
}

func (m *mockUserRepo) MarkEmailVerified(ctx context.Context, id string, updatedAt time.Time) error {
	return m.update(id, func(u *models.User) { u.EmailVerified = true })
}

type mockCalendarRepo struct {
	settings map[string]*models.CalendarSettings
	findErr  error
	upserts  int
}

func newMockCalendarRepo(settings ...models.CalendarSettings) *mockCalendarRepo {
	m := &mockCalendarRepo{settings: map[string]*models.CalendarSettings{}}
	for i := range settings {
		s := settings[i]
		m.settings[s.HostID] = &s
	}
	return m
}

func (m *mockCalendarRepo) FindByHostID(ctx context.Context, hostID string) (*models.CalendarSettings, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	s, ok := m.settings[hostID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

func (m *mockCalendarRepo) CreateIfAbsent(ctx context.Context, settings *models.CalendarSettings) (*models.CalendarSettings, error) {
	if _, ok := m.settings[settings.HostID]; !ok {
		clone := *settings
		m.settings[settings.HostID] = &clone
	}
	return m.FindByHostID(ctx, settings.HostID)
}

func (m *mockCalendarRepo) Upsert(ctx context.Context, settings *models.CalendarSettings) error {
	clone := *settings
	m.settings[settings.HostID] = &clone
	m.upserts++
	return nil
}

// mockBookingStore enforces the (host, date, slot) uniqueness of the bookings table.
type mockBookingStore struct {
	mu        sync.Mutex
	bookings  []models.Booking
	createErr error
	listErr   error
	listCalls int
	marked    map[string]time.Time
}

func (m *mockBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, b := range m.bookings {
		if b.HostID == booking.HostID && b.Date == booking.Date && b.TimeSlot == booking.TimeSlot {
			return &pq.Error{Code: "23505", Constraint: repository.BookingSlotConstraint}
		}
	}
	m.bookings = append(m.bookings, *booking)
	return nil
}

func (m *mockBookingStore) ListByHost(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []models.Booking{}
	for _, b := range m.bookings {
		if b.HostID == filter.HostID && !b.StartsAt.Before(filter.From) && b.StartsAt.Before(filter.To) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBookingStore) MarkConfirmationSent(ctx context.Context, id string, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.marked == nil {
		m.marked = map[string]time.Time{}
	}
	m.marked[id] = sentAt
	return nil
}

type mockPrefsRepo struct {
	prefs   map[string]*models.Preferences
	findErr error
}

func (m *mockPrefsRepo) Find(ctx context.Context, userID string) (*models.Preferences, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.prefs[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (m *mockPrefsRepo) Upsert(ctx context.Context, prefs *models.Preferences) error {
	if m.prefs == nil {
		m.prefs = map[string]*models.Preferences{}
	}
	clone := *prefs
	m.prefs[prefs.UserID] = &clone
	return nil
}

type recordedEmail struct {
	Kind      models.EmailKind
	To        string
	Token     string
	AlertHost bool
	Booking   *models.Booking
}

// recordingNotifier captures queued e-mail instead of sending it.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []recordedEmail
}

func (n *recordingNotifier) add(e recordedEmail) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, e)
}

func (n *recordingNotifier) QueueWelcome(ctx context.Context, email, extension string) {
	n.add(recordedEmail{Kind: models.EmailWelcome, To: email, Token: extension})
}

func (n *recordingNotifier) QueueVerification(ctx context.Context, user *models.User, token string, ttl time.Duration) {
	n.add(recordedEmail{Kind: models.EmailVerifyAddress, To: user.Email, Token: token})
}

func (n *recordingNotifier) QueuePasswordReset(ctx context.Context, user *models.User, token string, ttl time.Duration) {
	n.add(recordedEmail{Kind: models.EmailPasswordReset, To: user.Email, Token: token})
}

func (n *recordingNotifier) QueueBookingEmails(ctx context.Context, booking *models.Booking, host *models.User, alertHost bool) {
	n.add(recordedEmail{Kind: models.EmailBookingConfirmation, To: booking.CustomerEmail, AlertHost: alertHost, Booking: booking})
}

func (n *recordingNotifier) last() recordedEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return recordedEmail{}
	}
	return n.sent[len(n.sent)-1]
}

type mockSender struct {
	mu       sync.Mutex
	err      error
	messages []mail.Message
}

func (m *mockSender) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

// fixtures

const testHostID = "host-1"

func testHost() *models.User {
	username := "ada"
	return &models.User{
		ID:            testHostID,
		Email:         "ada@example.com",
		Username:      &username,
		DisplayName:   "Ada Lovelace",
		FirstName:     "Ada",
		EmailVerified: true,
	}
}

// testSettings offers Monday 09:00/10:00/11:00 in Paris; every other day is closed.
func testSettings() models.CalendarSettings {
	cfg := models.AvailabilityConfig{Timezone: "Europe/Paris", Weekdays: map[models.Weekday]models.DayAvailability{}}
	for _, day := range models.Weekdays {
		cfg.Weekdays[day] = models.DayAvailability{Enabled: false, Slots: []string{}}
	}
	cfg.Weekdays[models.Monday] = models.DayAvailability{Enabled: true, Slots: []string{"09:00", "10:00", "11:00"}}
	return models.CalendarSettings{
		HostID:    testHostID,
		PageTitle: "Book Ada",
		Services: models.Services{
			{ID: "intro", Name: "Intro call", DurationMinutes: 15, Icon: models.ServiceIconVideo},
			{ID: "consultation", Name: "Consultation", DurationMinutes: 30, Price: 50, Icon: models.ServiceIconClock, IsDefault: true},
		},
		Availability: cfg,
	}
}

func parisTime(value string) time.Time {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		panic(err)
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		panic(err)
	}
	return t
}
