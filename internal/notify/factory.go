package notify

import (
	"fmt"
	"log/slog"
)

// Config holds configuration for sender creation.
type Config struct {
	Backend Backend

	// SMTP specific
	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPPassword string
}

// NewSender creates a sender for the configured backend. The publisher is
// only consulted for the amqp backend and may be nil otherwise.
func NewSender(cfg Config, logger *slog.Logger, pub Publisher) (Sender, error) {
	if !cfg.Backend.IsValid() {
		return nil, fmt.Errorf("invalid notify backend: %s", cfg.Backend)
	}

	switch cfg.Backend {
	case LogBackend:
		return NewLogSender(logger), nil
	case SMTPBackend:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword), nil
	case AMQPBackend:
		if pub == nil {
			return nil, fmt.Errorf("amqp notify backend requires a publisher")
		}
		return NewQueueSender(pub), nil
	default:
		return nil, fmt.Errorf("unsupported notify backend: %s", cfg.Backend)
	}
}
