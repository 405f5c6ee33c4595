package amqp

import (
	"testing"
	"time"

	"fintrack/internal/notify"
)

func TestNewAlertEmailMessage(t *testing.T) {
	email := notify.Message{
		RecipientEmail: "user@example.com",
		RecipientName:  "Ada",
		Subject:        "Budget Alert: Approaching limit for Food & Drinks",
		Body:           "Hi Ada,\n\nYou are approaching the limit of your budget.",
	}

	msg := NewAlertEmailMessage(email)

	if msg.RecipientEmail != email.RecipientEmail {
		t.Errorf("NewAlertEmailMessage() RecipientEmail = %v, want %v", msg.RecipientEmail, email.RecipientEmail)
	}
	if msg.Subject != email.Subject {
		t.Errorf("NewAlertEmailMessage() Subject = %v, want %v", msg.Subject, email.Subject)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewAlertEmailMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewAlertEmailMessage() Timestamp should be recent")
	}
	if got := msg.Email(); got != email {
		t.Errorf("Email() = %+v, want %+v", got, email)
	}
}

func TestAlertEmailMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	msg := &AlertEmailMessage{
		RecipientEmail: "user@example.com",
		RecipientName:  "Ada",
		Subject:        "Budget Alert: Exceeded limit for Housing",
		Body:           "Hi Ada,\n\nYou have exceeded your budget.",
		Timestamp:      timestamp,
	}

	// Test JSON marshaling
	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	// Test JSON unmarshaling
	parsedMsg, err := AlertEmailMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("AlertEmailMessageFromJSON() error = %v", err)
	}

	if parsedMsg.RecipientEmail != msg.RecipientEmail {
		t.Errorf("Parsed RecipientEmail = %v, want %v", parsedMsg.RecipientEmail, msg.RecipientEmail)
	}
	if parsedMsg.Subject != msg.Subject {
		t.Errorf("Parsed Subject = %v, want %v", parsedMsg.Subject, msg.Subject)
	}
	if parsedMsg.Body != msg.Body {
		t.Errorf("Parsed Body = %v, want %v", parsedMsg.Body, msg.Body)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestAlertEmailMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"recipientEmail": 42}`)

	_, err := AlertEmailMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("AlertEmailMessageFromJSON() should fail with invalid JSON")
	}
}
