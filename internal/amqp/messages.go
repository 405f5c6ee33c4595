package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/notify"
)

// AlertEmailMessage carries a fully composed alert email through the
// queue. The worker delivers it as-is, so the payload is the complete
// message rather than a reference to ledger state.
type AlertEmailMessage struct {
	RecipientEmail string    `json:"recipientEmail"`
	RecipientName  string    `json:"recipientName"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewAlertEmailMessage wraps a composed email for publishing.
func NewAlertEmailMessage(msg notify.Message) *AlertEmailMessage {
	return &AlertEmailMessage{
		RecipientEmail: msg.RecipientEmail,
		RecipientName:  msg.RecipientName,
		Subject:        msg.Subject,
		Body:           msg.Body,
		Timestamp:      time.Now(),
	}
}

// Email converts the queued payload back into a deliverable message.
func (m *AlertEmailMessage) Email() notify.Message {
	return notify.Message{
		RecipientEmail: m.RecipientEmail,
		RecipientName:  m.RecipientName,
		Subject:        m.Subject,
		Body:           m.Body,
	}
}

// ToJSON converts the message to JSON bytes
func (m *AlertEmailMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertEmailMessageFromJSON creates a message from JSON bytes
func AlertEmailMessageFromJSON(data []byte) (*AlertEmailMessage, error) {
	var msg AlertEmailMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
