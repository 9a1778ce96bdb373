package mail

import (
	"context"

	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

var _ model.Mailer = (*LogSender)(nil)

// LogSender records that a message would have been sent. Used when no SMTP
// relay is configured. Bodies are not logged since they carry tokens.
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender creates a new LogSender.
func NewLogSender(logger *logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the recipient and subject of msg.
func (s *LogSender) Send(_ context.Context, msg model.Message) error {
	s.logger.Warn("Mail: smtp is not configured, message dropped",
		"to", msg.To,
		"subject", msg.Subject)
	return nil
}
