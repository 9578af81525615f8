package mailer

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"authcore/internal/config"
)

// Mailer is the notification capability the session flows depend on. Both
// sends are dispatched fire-and-forget by the caller; failures are logged,
// never propagated to the HTTP response.
type Mailer interface {
	SendVerificationEmail(to, token string) error
	SendPasswordResetEmail(to, token string) error
}

// SMTPMailer sends transactional email over SMTP.
type SMTPMailer struct {
	cfg *config.Config
}

// NewSMTPMailer creates a mailer from SMTP configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.FromEmail)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	return d.DialAndSend(msg)
}

// SendVerificationEmail mails the single-use email verification link.
func (m *SMTPMailer) SendVerificationEmail(to, token string) error {
	url := fmt.Sprintf("%s/verify-email?token=%s", m.cfg.AppURL, token)
	body := fmt.Sprintf(`<h1>Email Verification</h1>
<p>Please click the link below to verify your email address:</p>
<p><a href="%s">Verify Email</a></p>
<p>If you did not request this, please ignore this email.</p>`, url)
	return m.send(to, "Verify Your Email", body)
}

// SendPasswordResetEmail mails the password reset link. The reset token
// expires one hour after issuance.
func (m *SMTPMailer) SendPasswordResetEmail(to, token string) error {
	url := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.AppURL, token)
	body := fmt.Sprintf(`<h1>Password Reset</h1>
<p>You requested a password reset. Please click the link below to reset your password:</p>
<p><a href="%s">Reset Password</a></p>
<p>If you did not request this, please ignore this email.</p>
<p>This link will expire in 1 hour.</p>`, url)
	return m.send(to, "Reset Your Password", body)
}

// LogMailer logs instead of sending. Used when SMTP credentials are not
// configured, so local development never needs a mail server.
type LogMailer struct{}

// SendVerificationEmail logs the verification token.
func (LogMailer) SendVerificationEmail(to, token string) error {
	log.Printf("mailer disabled: verification token for %s: %s", to, token)
	return nil
}

// SendPasswordResetEmail logs the reset token.
func (LogMailer) SendPasswordResetEmail(to, token string) error {
	log.Printf("mailer disabled: password reset token for %s: %s", to, token)
	return nil
}
