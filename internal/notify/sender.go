// Package notify delivers budget alert emails through a pluggable sender.
package notify

import "context"

// Message is a fully composed alert email.
type Message struct {
	RecipientEmail string `json:"recipientEmail"`
	RecipientName  string `json:"recipientName"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

// Outcome reports how a send resolved. Success must only be true once the
// message has been handed off for delivery; dedup keys are committed on
// Success alone.
type Outcome struct {
	Success bool   `json:"success"`
	Detail  string `json:"message"`
}

// Sender delivers one alert email.
type Sender interface {
	Send(ctx context.Context, msg Message) (Outcome, error)
}

// Backend selects the sender implementation.
type Backend string

const (
	LogBackend  Backend = "log"
	SMTPBackend Backend = "smtp"
	AMQPBackend Backend = "amqp"
)

// String implements fmt.Stringer
func (b Backend) String() string {
	return string(b)
}

// IsValid returns true if the backend type is valid
func (b Backend) IsValid() bool {
	switch b {
	case LogBackend, SMTPBackend, AMQPBackend:
		return true
	default:
		return false
	}
}
