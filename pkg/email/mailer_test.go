package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	params SendEmailParams
	err    error
}

func (c *captureSender) SendEmail(_ context.Context, params SendEmailParams) error {
	c.params = params
	return c.err
}

func testMailerConfig() MailerConfig {
	return MailerConfig{
		FrontURL:          "https://app.example.com",
		VerifyEmailPath:   "/verification/email",
		ResetPasswordPath: "/verification/password",
	}
}

func TestMailer_SendWelcomeEmail(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	m := NewMailer(sender, testMailerConfig())

	err := m.SendWelcomeEmail(context.Background(), "dev@example.com", "raw+token/value")
	require.NoError(t, err)

	assert.Equal(t, "dev@example.com", sender.params.SendTo)
	assert.Equal(t, "welcome", sender.params.Tag)
	assert.NotEmpty(t, sender.params.Subject)
	// The token must be query-escaped inside the link.
	assert.Contains(t, sender.params.BodyHTML,
		"https://app.example.com/verification/email?token=raw%2Btoken%2Fvalue")
}

func TestMailer_SendPasswordResetEmail(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	m := NewMailer(sender, testMailerConfig())

	err := m.SendPasswordResetEmail(context.Background(), "dev@example.com", "tok123")
	require.NoError(t, err)

	assert.Equal(t, "dev@example.com", sender.params.SendTo)
	assert.Equal(t, "password-reset", sender.params.Tag)
	assert.Contains(t, sender.params.BodyHTML,
		"https://app.example.com/verification/password?token=tok123")
}

func TestMailer_SenderFailurePropagates(t *testing.T) {
	t.Parallel()

	sender := &captureSender{err: errors.New("smtp down")}
	m := NewMailer(sender, testMailerConfig())

	err := m.SendWelcomeEmail(context.Background(), "dev@example.com", "tok")
	assert.Error(t, err)
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	valid := SendEmailParams{
		SendTo:   "dev@example.com",
		Subject:  "Hello",
		BodyHTML: "<p>hi</p>",
	}
	assert.NoError(t, valid.Validate())

	t.Run("bad recipient", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.SendTo = "not-an-email"
		assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.Subject = ""
		assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
	})

	t.Run("missing body", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.BodyHTML = ""
		assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
	})
}
