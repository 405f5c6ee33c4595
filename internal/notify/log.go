package notify

import (
	"context"
	"log/slog"
)

// LogSender writes the composed email to the log instead of delivering it.
// It is the default backend and always reports success.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) (Outcome, error) {
	s.logger.InfoContext(ctx, "Simulated alert email",
		"to", msg.RecipientName+" <"+msg.RecipientEmail+">",
		"subject", msg.Subject,
		"body", msg.Body)
	return Outcome{Success: true, Detail: "Email logged to console (simulated send)."}, nil
}
