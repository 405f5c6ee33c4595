// Package worker delivers queued alert emails. It consumes the durable
// alert queue and hands each message to a sender, acknowledging only
// after delivery succeeds so failed deliveries are retried.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/notify"
)

// EmailConsumer is the queue surface the worker drains.
type EmailConsumer interface {
	ConsumeAlertEmails(ctx context.Context, handler func(*amqp.AlertEmailMessage) error) error
}

// NotifyWorker drains queued alert emails and delivers them.
type NotifyWorker struct {
	consumer EmailConsumer
	sender   notify.Sender

	delivered atomic.Int64
	failed    atomic.Int64
}

func NewNotifyWorker(consumer EmailConsumer, sender notify.Sender) *NotifyWorker {
	return &NotifyWorker{
		consumer: consumer,
		sender:   sender,
	}
}

// HandleAlertEmail delivers a single queued email. A returned error means
// the delivery must be requeued and retried.
func (w *NotifyWorker) HandleAlertEmail(ctx context.Context, msg *amqp.AlertEmailMessage) error {
	outcome, err := w.sender.Send(ctx, msg.Email())
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("deliver alert email: %w", err)
	}
	if !outcome.Success {
		w.failed.Add(1)
		return fmt.Errorf("deliver alert email: %s", outcome.Detail)
	}

	w.delivered.Add(1)
	slog.InfoContext(ctx, "Alert email delivered",
		"recipient", msg.RecipientEmail,
		"subject", msg.Subject)
	return nil
}

// Run consumes the alert queue until the context is cancelled. A periodic
// heartbeat logs delivery counters while the worker is idle or busy.
func (w *NotifyWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.consumer.ConsumeAlertEmails(ctx, func(msg *amqp.AlertEmailMessage) error {
			return w.HandleAlertEmail(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				slog.InfoContext(ctx, "Worker heartbeat",
					"delivered", w.delivered.Load(),
					"failed", w.failed.Load())
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Delivered returns the number of emails delivered since startup.
func (w *NotifyWorker) Delivered() int64 {
	return w.delivered.Load()
}

// Failed returns the number of delivery attempts that failed since startup.
func (w *NotifyWorker) Failed() int64 {
	return w.failed.Load()
}
