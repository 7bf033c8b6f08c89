// Package mailer renders HTML email bodies from embedded templates and hands
// them to an SMTP provider. Dispatch failures are surfaced to callers so the
// account lifecycle can run its compensating actions.
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mailer delivers account lifecycle emails.
type Mailer interface {
	SendVerificationOTP(to, username, code string) error
	SendPasswordResetOTP(to, username, code string) error
}

// Sender is a gomail-backed Mailer.
type Sender struct {
	dialer    *gomail.Dialer
	from      string
	templates *template.Template
}

// NewSender builds an SMTP sender. Templates are parsed eagerly so a broken
// template fails at startup, not mid-request.
func NewSender(host string, port int, username, password, from string) (*Sender, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Sender{
		dialer:    gomail.NewDialer(host, port, username, password),
		from:      from,
		templates: tpl,
	}, nil
}

// SendVerificationOTP emails the account-verification passcode.
func (s *Sender) SendVerificationOTP(to, username, code string) error {
	body, err := s.render("otp_email.html", map[string]string{
		"Title":    "Account verification",
		"Username": username,
		"Message":  "Your one-time passcode for account verification is:",
		"Code":     code,
	})
	if err != nil {
		return err
	}
	return s.send(to, "Verify your account", body)
}

// SendPasswordResetOTP emails the password-reset passcode.
func (s *Sender) SendPasswordResetOTP(to, username, code string) error {
	body, err := s.render("otp_email.html", map[string]string{
		"Title":    "Password reset",
		"Username": username,
		"Message":  "Your password reset passcode is:",
		"Code":     code,
	})
	if err != nil {
		return err
	}
	return s.send(to, "Password reset (valid 5 minutes)", body)
}

func (s *Sender) render(name string, data any) (string, error) {
	buf := new(bytes.Buffer)
	if err := s.templates.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *Sender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}
