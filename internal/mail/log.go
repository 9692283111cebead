package mail

import (
	"context"
	"log/slog"
)

// LogSender writes outbound mail to the application log instead of a
// relay. Used in development where no SMTP credentials exist.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("outbound email (not delivered, log sender active)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
