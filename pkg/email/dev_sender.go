package email

import (
	"context"
	"log/slog"
)

type devSender struct {
	logger *slog.Logger
}

// NewDevSender returns a sender that logs messages instead of
// delivering them. Used in development where no Postmark tokens exist.
func NewDevSender(logger *slog.Logger) EmailSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &devSender{logger: logger}
}

func (s *devSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "dev email sender: message not delivered",
		slog.String("to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("body_html", params.BodyHTML),
	)
	return nil
}
