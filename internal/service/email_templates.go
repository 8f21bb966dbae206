package service

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/cirqle/cirqle-api/internal/models"
)

// WelcomeEmailData fills the welcome template.
type WelcomeEmailData struct {
	Extension string
	Link      string
}

// ContactEmailData fills the contact-form template sent to the admin inbox.
type ContactEmailData struct {
	Name    string
	Email   string
	Message string
}

// BookingEmailData fills the customer confirmation and the host alert.
type BookingEmailData struct {
	CustomerName  string
	CustomerEmail string
	HostName      string
	ServiceName   string
	DateLabel     string
	Time          string
	Timezone      string
	Notes         string
}

// LinkEmailData fills the verification and password reset templates.
type LinkEmailData struct {
	Name      string
	Link      string
	ExpiresIn string
}

type emailTemplate struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

type renderedEmail struct {
	Subject string
	Text    string
	HTML    string
}

const emailLayoutOpen = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`

var emailTemplates = map[models.EmailKind]emailTemplate{
	models.EmailWelcome: newEmailTemplate(
		`Welcome to Cirqle.me!`,
		`Hi {{.Extension}}, welcome to Cirqle! Your personal link is ready: {{.Link}}`,
		emailLayoutOpen+`
  <h1 style="color: #6d28d9;">Welcome to Cirqle!</h1>
  <p>Hi {{.Extension}},</p>
  <p>Thank you for joining Cirqle. Your personal link has been created:</p>
  <p><a href="{{.Link}}" style="color: #6d28d9; font-weight: bold;">{{.Link}}</a></p>
</div>`),
	models.EmailContact: newEmailTemplate(
		`New Contact Form Submission from {{.Name}}`,
		"Name: {{.Name}}\nEmail: {{.Email}}\nMessage: {{.Message}}",
		`<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Message:</strong> {{.Message}}</p>`),
	models.EmailBookingConfirmation: newEmailTemplate(
		`Booking Confirmation - {{.ServiceName}}`,
		"Hello {{.CustomerName}},\n\nYour booking has been confirmed.\n\nService: {{.ServiceName}}\nDate: {{.DateLabel}}\nTime: {{.Time}} ({{.Timezone}})\n{{if .HostName}}With: {{.HostName}}\n{{end}}\nThank you for your booking!",
		emailLayoutOpen+`
  <h2>Your booking has been confirmed!</h2>
  <p>Hello {{.CustomerName}},</p>
  <div style="background-color: #f5f7fb; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>Service:</strong> {{.ServiceName}}</p>
    <p><strong>Date:</strong> {{.DateLabel}}</p>
    <p><strong>Time:</strong> {{.Time}} ({{.Timezone}})</p>
    {{if .HostName}}<p><strong>With:</strong> {{.HostName}}</p>{{end}}
  </div>
  <p>Thank you for your booking!</p>
</div>`),
	models.EmailBookingAlert: newEmailTemplate(
		`New booking: {{.ServiceName}} on {{.DateLabel}} at {{.Time}}`,
		"{{.CustomerName}} <{{.CustomerEmail}}> booked {{.ServiceName}}.\n\nDate: {{.DateLabel}}\nTime: {{.Time}} ({{.Timezone}})\n{{if .Notes}}Notes: {{.Notes}}\n{{end}}",
		emailLayoutOpen+`
  <h2>You have a new booking</h2>
  <p><strong>{{.CustomerName}}</strong> ({{.CustomerEmail}}) booked {{.ServiceName}}.</p>
  <p><strong>Date:</strong> {{.DateLabel}}<br><strong>Time:</strong> {{.Time}} ({{.Timezone}})</p>
  {{if .Notes}}<p><strong>Notes:</strong> {{.Notes}}</p>{{end}}
</div>`),
	models.EmailVerifyAddress: newEmailTemplate(
		`Verify your Cirqle e-mail address`,
		"Hi {{.Name}},\n\nConfirm your e-mail address by opening this link within {{.ExpiresIn}}:\n{{.Link}}",
		emailLayoutOpen+`
  <p>Hi {{.Name}},</p>
  <p>Confirm your e-mail address by opening this link within {{.ExpiresIn}}:</p>
  <p><a href="{{.Link}}" style="color: #6d28d9; font-weight: bold;">Verify e-mail</a></p>
</div>`),
	models.EmailPasswordReset: newEmailTemplate(
		`Reset your Cirqle password`,
		"Hi {{.Name}},\n\nSomeone asked to reset your password. The link is valid for {{.ExpiresIn}}:\n{{.Link}}\n\nIf this was not you, ignore this e-mail.",
		emailLayoutOpen+`
  <p>Hi {{.Name}},</p>
  <p>Someone asked to reset your password. The link is valid for {{.ExpiresIn}}:</p>
  <p><a href="{{.Link}}" style="color: #6d28d9; font-weight: bold;">Choose a new password</a></p>
  <p>If this was not you, ignore this e-mail.</p>
</div>`),
}

func newEmailTemplate(subject, text, html string) emailTemplate {
	return emailTemplate{
		subject: texttemplate.Must(texttemplate.New("subject").Option("missingkey=error").Parse(subject)),
		text:    texttemplate.Must(texttemplate.New("text").Option("missingkey=error").Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New("html").Option("missingkey=error").Parse(html)),
	}
}

func renderEmail(kind models.EmailKind, data interface{}) (renderedEmail, error) {
	tmpl, ok := emailTemplates[kind]
	if !ok {
		return renderedEmail{}, fmt.Errorf("unknown email kind %q", kind)
	}
	var subject, text, html bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return renderedEmail{}, fmt.Errorf("render %s subject: %w", kind, err)
	}
	if err := tmpl.text.Execute(&text, data); err != nil {
		return renderedEmail{}, fmt.Errorf("render %s text: %w", kind, err)
	}
	if err := tmpl.html.Execute(&html, data); err != nil {
		return renderedEmail{}, fmt.Errorf("render %s html: %w", kind, err)
	}
	return renderedEmail{Subject: subject.String(), Text: text.String(), HTML: html.String()}, nil
}
