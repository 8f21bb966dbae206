package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridEndpoint = "/v3/mail/send"

// SendGridSender delivers messages through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   Address
}

// NewSendGridSender builds a SendGrid transport.
func NewSendGridSender(apiKey string, from Address) *SendGridSender {
	return newSendGridSender(apiKey, "", from)
}

func newSendGridSender(apiKey, host string, from Address) *SendGridSender {
	req := sendgrid.GetRequest(apiKey, sendGridEndpoint, host)
	req.Method = "POST"
	return &SendGridSender{client: &sendgrid.Client{Request: req}, from: from}
}

// Send posts msg to SendGrid. Non-2xx responses are returned as errors.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	email := sgmail.NewV3Mail()
	email.SetFrom(sgmail.NewEmail(s.from.Name, s.from.Email))
	email.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))
	email.AddPersonalizations(p)

	// SendGrid rejects empty content parts.
	if msg.Text != "" {
		email.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		email.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	if msg.ReplyTo != "" {
		email.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}
	if msg.Category != "" {
		email.AddCategories(msg.Category)
	}

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
