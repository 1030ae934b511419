package email

import (
	"context"
	"fmt"
	"net/url"
)

// MailerConfig holds the frontend URLs embedded into outbound mail.
type MailerConfig struct {
	FrontURL          string `env:"FRONT_URL,required"`
	VerifyEmailPath   string `env:"FRONT_VERIFY_EMAIL_PATH" envDefault:"/verification/email"`
	ResetPasswordPath string `env:"FRONT_RESET_PASSWORD_PATH" envDefault:"/verification/password"`
}

// Mailer composes the identity service's transactional messages on top
// of an EmailSender. Bodies are small inline HTML snippets; full
// template rendering is intentionally out of scope.
type Mailer struct {
	sender EmailSender
	cfg    MailerConfig
}

// NewMailer creates a Mailer delivering through the given sender.
func NewMailer(sender EmailSender, cfg MailerConfig) *Mailer {
	return &Mailer{sender: sender, cfg: cfg}
}

// SendWelcomeEmail sends the post-registration welcome message with an
// email verification link carrying the raw verification token.
func (m *Mailer) SendWelcomeEmail(ctx context.Context, to, rawToken string) error {
	link := m.link(m.cfg.VerifyEmailPath, rawToken)
	body := fmt.Sprintf(
		`<p>Welcome to vabase!</p><p>Please confirm your email address: <a href="%s">verify email</a></p>`,
		link,
	)

	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   to,
		Subject:  "Welcome to vabase!",
		BodyHTML: body,
		Tag:      "welcome",
	})
}

// SendPasswordResetEmail sends the password reset message with a link
// carrying the raw reset token.
func (m *Mailer) SendPasswordResetEmail(ctx context.Context, to, rawToken string) error {
	link := m.link(m.cfg.ResetPasswordPath, rawToken)
	body := fmt.Sprintf(
		`<p>A password reset was requested for your account.</p><p><a href="%s">Reset password</a></p><p>If this wasn't you, ignore this message.</p>`,
		link,
	)

	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   to,
		Subject:  "Reset your vabase password",
		BodyHTML: body,
		Tag:      "password-reset",
	})
}

func (m *Mailer) link(path, rawToken string) string {
	return m.cfg.FrontURL + path + "?token=" + url.QueryEscape(rawToken)
}
