package notify

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/alert"
	"fintrack/internal/core"
)

// Recipient identifies who receives the alert emails of an evaluation pass.
type Recipient struct {
	Email string
	Name  string
}

// Result is the settled outcome of one alert candidate: either the email
// was sent and Key is ready to commit, or Err carries the wrapped
// core.ErrNotificationSend and the key stays uncommitted.
type Result struct {
	Candidate alert.Candidate
	Key       string
	Sent      bool
	Detail    string
	Err       error
}

// Dispatcher composes and sends one email per alert candidate.
type Dispatcher struct {
	sender Sender
	logger *slog.Logger
}

func NewDispatcher(sender Sender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sender: sender, logger: logger}
}

// Dispatch sends an email for every candidate. A failed send is recorded
// on its result and never aborts the batch: the remaining candidates are
// still attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, to Recipient, candidates []alert.Candidate) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		key := alert.DedupKey(c.Budget.ID, c.Budget.MonthYear, c.Kind)
		outcome, err := d.sender.Send(ctx, Compose(to, c))
		if err != nil || !outcome.Success {
			if err == nil {
				err = fmt.Errorf("sender reported failure: %s", outcome.Detail)
			}
			wrapped := fmt.Errorf("%w: %v", core.ErrNotificationSend, err)
			d.logger.WarnContext(ctx, "Alert email not sent",
				"key", key,
				"category", c.Budget.Category,
				"error", err)
			results = append(results, Result{Candidate: c, Key: key, Detail: outcome.Detail, Err: wrapped})
			continue
		}
		d.logger.InfoContext(ctx, "Alert email sent",
			"key", key,
			"kind", string(c.Kind),
			"category", c.Budget.Category,
			"ratio", c.Ratio)
		results = append(results, Result{Candidate: c, Key: key, Sent: true, Detail: outcome.Detail})
	}
	return results
}

// Compose builds the alert email for a candidate. The text depends only on
// the recipient and the candidate, so retries after a failed send produce
// the identical message.
func Compose(to Recipient, c alert.Candidate) Message {
	name := to.Name
	if name == "" {
		name = "there"
	}
	label := core.MonthLabel(c.Budget.MonthYear)

	var subject, status string
	switch c.Kind {
	case alert.KindExceeded:
		subject = fmt.Sprintf("Budget Alert: Exceeded limit for %s", c.Budget.Category)
		status = fmt.Sprintf("You have exceeded your %s budget for %s.", c.Budget.Category, label)
	default:
		subject = fmt.Sprintf("Budget Alert: Approaching limit for %s", c.Budget.Category)
		status = fmt.Sprintf("You are approaching the limit of your %s budget for %s.", c.Budget.Category, label)
	}

	body := fmt.Sprintf("Hi %s,\n\n%s\nYou have spent %s of your %s budget (%.0f%%).\n\nFinTrack",
		name, status, c.Spend.String(), c.Budget.Amount.String(), c.Ratio)

	return Message{
		RecipientEmail: to.Email,
		RecipientName:  name,
		Subject:        subject,
		Body:           body,
	}
}
