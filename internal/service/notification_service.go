package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cirqle/cirqle-api/internal/models"
	"github.com/cirqle/cirqle-api/pkg/jobs"
	"github.com/cirqle/cirqle-api/pkg/mail"
)

// EmailJobType tags notification jobs on the worker queue.
const EmailJobType = "email"

type mailSender interface {
	Send(ctx context.Context, msg mail.Message) error
}

type jobDispatcher interface {
	TryEnqueue(job jobs.Job) error
}

type confirmationMarker interface {
	MarkConfirmationSent(ctx context.Context, id string, sentAt time.Time) error
}

// NotificationConfig holds addresses and timeouts used when sending e-mail.
type NotificationConfig struct {
	AdminAddress  string
	PublicBaseURL string
	SendTimeout   time.Duration
}

// EmailJob is the payload of a queued e-mail.
type EmailJob struct {
	To        string
	ToName    string
	ReplyTo   string
	Kind      models.EmailKind
	Data      interface{}
	BookingID string
}

// NotificationService renders transactional e-mail and hands it to the
// configured transport, either inline or through the worker queue.
type NotificationService struct {
	sender     mailSender
	dispatcher jobDispatcher
	bookings   confirmationMarker
	metrics    *MetricsService
	cfg        NotificationConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewNotificationService constructs the notifier.
func NewNotificationService(sender mailSender, bookings confirmationMarker, metrics *MetricsService, cfg NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &NotificationService{
		sender:   sender,
		bookings: bookings,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// SetDispatcher routes queued e-mail through d. Without a dispatcher queued
// e-mail is delivered inline.
func (s *NotificationService) SetDispatcher(d jobDispatcher) {
	s.dispatcher = d
}

// SendTemplatedEmail renders kind with data and delivers it synchronously.
func (s *NotificationService) SendTemplatedEmail(ctx context.Context, to string, kind models.EmailKind, data interface{}) models.EmailResult {
	return s.deliver(ctx, EmailJob{To: to, Kind: kind, Data: data})
}

// SendWelcome sends the personal-link welcome e-mail.
func (s *NotificationService) SendWelcome(ctx context.Context, email, extension string) models.EmailResult {
	return s.SendTemplatedEmail(ctx, email, models.EmailWelcome, s.welcomeData(extension))
}

// SendContact forwards a contact-form submission to the admin inbox.
func (s *NotificationService) SendContact(ctx context.Context, req models.ContactRequest) models.EmailResult {
	return s.deliver(ctx, EmailJob{
		To:      s.cfg.AdminAddress,
		ReplyTo: req.Email,
		Kind:    models.EmailContact,
		Data:    ContactEmailData{Name: req.Name, Email: req.Email, Message: req.Message},
	})
}

// QueueWelcome schedules the welcome e-mail after a username claim.
func (s *NotificationService) QueueWelcome(ctx context.Context, email, extension string) {
	s.Dispatch(ctx, EmailJob{To: email, Kind: models.EmailWelcome, Data: s.welcomeData(extension)})
}

// QueueBookingEmails schedules the customer confirmation and, when alertHost
// is set, the new-booking alert to the host.
func (s *NotificationService) QueueBookingEmails(ctx context.Context, booking *models.Booking, host *models.User, alertHost bool) {
	data := BookingEmailData{
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		ServiceName:   booking.ServiceName,
		DateLabel:     dateLabel(booking.Date),
		Time:          booking.TimeSlot,
		Timezone:      booking.Timezone,
		Notes:         booking.Notes,
	}
	if host != nil {
		data.HostName = host.DisplayName
	}
	s.Dispatch(ctx, EmailJob{
		To:        booking.CustomerEmail,
		ToName:    booking.CustomerName,
		Kind:      models.EmailBookingConfirmation,
		Data:      data,
		BookingID: booking.ID,
	})
	if alertHost && host != nil && host.Email != "" {
		s.Dispatch(ctx, EmailJob{
			To:      host.Email,
			ToName:  host.DisplayName,
			ReplyTo: booking.CustomerEmail,
			Kind:    models.EmailBookingAlert,
			Data:    data,
		})
	}
}

// QueueVerification schedules the address verification link.
func (s *NotificationService) QueueVerification(ctx context.Context, user *models.User, token string, ttl time.Duration) {
	s.Dispatch(ctx, EmailJob{
		To:     user.Email,
		ToName: user.DisplayName,
		Kind:   models.EmailVerifyAddress,
		Data:   LinkEmailData{Name: greetingName(user), Link: s.link("/verify-email", token), ExpiresIn: humanDuration(ttl)},
	})
}

// QueuePasswordReset schedules the password reset link.
func (s *NotificationService) QueuePasswordReset(ctx context.Context, user *models.User, token string, ttl time.Duration) {
	s.Dispatch(ctx, EmailJob{
		To:     user.Email,
		ToName: user.DisplayName,
		Kind:   models.EmailPasswordReset,
		Data:   LinkEmailData{Name: greetingName(user), Link: s.link("/reset-password", token), ExpiresIn: humanDuration(ttl)},
	})
}

// Dispatch hands job to the worker queue. A full queue drops the e-mail.
func (s *NotificationService) Dispatch(ctx context.Context, job EmailJob) {
	if s.dispatcher == nil {
		s.deliver(ctx, job)
		return
	}
	err := s.dispatcher.TryEnqueue(jobs.Job{Type: EmailJobType, Payload: job})
	if err == nil {
		return
	}
	s.metrics.ObserveEmail(job.Kind, false)
	if errors.Is(err, jobs.ErrQueueFull) {
		s.logger.Warn("email dropped, queue full", zap.String("kind", string(job.Kind)), zap.String("to", job.To))
		return
	}
	s.logger.Error("enqueue email failed", zap.String("kind", string(job.Kind)), zap.Error(err))
}

// HandleJob is the worker queue handler for EmailJobType jobs.
func (s *NotificationService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(EmailJob)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	if result := s.deliver(ctx, payload); !result.Success {
		return errors.New(result.Error)
	}
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, job EmailJob) models.EmailResult {
	logger := s.logger.With(zap.String("kind", string(job.Kind)), zap.String("to", job.To))
	if s.sender == nil {
		return s.fail(logger, job.Kind, errors.New("no mail transport configured"))
	}
	if strings.TrimSpace(job.To) == "" {
		return s.fail(logger, job.Kind, errors.New("missing recipient"))
	}
	rendered, err := renderEmail(job.Kind, job.Data)
	if err != nil {
		return s.fail(logger, job.Kind, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()
	err = s.sender.Send(sendCtx, mail.Message{
		To:       job.To,
		ToName:   job.ToName,
		ReplyTo:  job.ReplyTo,
		Subject:  rendered.Subject,
		Text:     rendered.Text,
		HTML:     rendered.HTML,
		Category: string(job.Kind),
	})
	if err != nil {
		return s.fail(logger, job.Kind, err)
	}
	s.metrics.ObserveEmail(job.Kind, true)
	logger.Info("email sent")

	if job.BookingID != "" && s.bookings != nil {
		markCtx, cancelMark := context.WithTimeout(ctx, s.cfg.SendTimeout)
		defer cancelMark()
		if err := s.bookings.MarkConfirmationSent(markCtx, job.BookingID, s.now().UTC()); err != nil {
			logger.Warn("mark confirmation sent failed", zap.String("booking_id", job.BookingID), zap.Error(err))
		}
	}
	return models.EmailResult{Success: true}
}

func (s *NotificationService) fail(logger *zap.Logger, kind models.EmailKind, err error) models.EmailResult {
	s.metrics.ObserveEmail(kind, false)
	logger.Error("email delivery failed", zap.Error(err))
	return models.EmailResult{Success: false, Error: err.Error()}
}

func (s *NotificationService) welcomeData(extension string) WelcomeEmailData {
	return WelcomeEmailData{Extension: extension, Link: ProfileURL(s.cfg.PublicBaseURL, extension)}
}

func (s *NotificationService) link(path, token string) string {
	return s.cfg.PublicBaseURL + path + "?token=" + url.QueryEscape(token)
}

// ProfileURL is the public booking page of username.
func ProfileURL(baseURL, username string) string {
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(username)
}

func dateLabel(date string) string {
	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return parsed.Format("Monday, January 2, 2006")
}

func greetingName(user *models.User) string {
	switch {
	case user.FirstName != "":
		return user.FirstName
	case user.DisplayName != "":
		return user.DisplayName
	default:
		return "there"
	}
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= 48*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%d days", int(d/(24*time.Hour)))
	case d >= 2*time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d == time.Hour:
		return "1 hour"
	default:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
}
