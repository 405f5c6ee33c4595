package notify

import (
	"context"
	"fmt"
)

// Publisher pushes a composed alert email onto a durable queue for
// asynchronous delivery by the notification worker.
type Publisher interface {
	PublishAlertEmail(ctx context.Context, msg Message) error
}

// QueueSender hands emails to a Publisher. Broker acceptance counts as a
// successful send: the worker owns delivery from there, so the dedup key
// is committed as soon as the message is queued.
type QueueSender struct {
	pub Publisher
}

func NewQueueSender(pub Publisher) *QueueSender {
	return &QueueSender{pub: pub}
}

func (s *QueueSender) Send(ctx context.Context, msg Message) (Outcome, error) {
	if err := s.pub.PublishAlertEmail(ctx, msg); err != nil {
		return Outcome{Success: false, Detail: err.Error()}, fmt.Errorf("queue alert email: %w", err)
	}
	return Outcome{Success: true, Detail: "Email queued for delivery."}, nil
}
