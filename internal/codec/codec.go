// Package codec serializes ledger snapshots to and from their durable
// JSON representation.
//
// Decoding is strict: a document missing any of the three entity arrays
// is rejected. Only the notificationsSent set may be absent (older
// snapshots predate it) and defaults to empty.
package codec

import (
	"encoding/json"
	"fmt"

	"fintrack/internal/core"
)

// Encode renders the snapshot as JSON with dates in their stable
// "YYYY-MM-DD" form and amounts as integer cents.
func Encode(snap core.LedgerSnapshot) ([]byte, error) {
	doc := snap
	if doc.Expenses == nil {
		doc.Expenses = []core.Expense{}
	}
	if doc.Incomes == nil {
		doc.Incomes = []core.Income{}
	}
	if doc.Budgets == nil {
		doc.Budgets = []core.Budget{}
	}
	if doc.NotificationsSent == nil {
		doc.NotificationsSent = map[string]bool{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, nil
}

// Decode parses a persisted snapshot, failing with core.ErrCorruptData on
// any malformed or incomplete document.
func Decode(raw []byte) (core.LedgerSnapshot, error) {
	return decode(raw, core.ErrCorruptData)
}

// DecodeImport parses a caller-supplied export document. The shape checks
// are the same as Decode's, but failures carry core.ErrInvalidImport so
// the boundary can report them as a rejected import rather than corrupted
// storage.
func DecodeImport(raw []byte) (core.LedgerSnapshot, error) {
	return decode(raw, core.ErrInvalidImport)
}

func decode(raw []byte, sentinel error) (core.LedgerSnapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return core.LedgerSnapshot{}, fmt.Errorf("%w: not a JSON object: %v", sentinel, err)
	}

	snap := core.LedgerSnapshot{NotificationsSent: map[string]bool{}}

	for _, required := range []struct {
		key  string
		dest any
	}{
		{"expenses", &snap.Expenses},
		{"incomes", &snap.Incomes},
		{"budgets", &snap.Budgets},
	} {
		body, ok := fields[required.key]
		if !ok {
			return core.LedgerSnapshot{}, fmt.Errorf("%w: missing %q array", sentinel, required.key)
		}
		if err := json.Unmarshal(body, required.dest); err != nil {
			return core.LedgerSnapshot{}, fmt.Errorf("%w: malformed %q: %v", sentinel, required.key, err)
		}
	}
	if snap.Expenses == nil {
		snap.Expenses = []core.Expense{}
	}
	if snap.Incomes == nil {
		snap.Incomes = []core.Income{}
	}
	if snap.Budgets == nil {
		snap.Budgets = []core.Budget{}
	}

	if body, ok := fields["notificationsSent"]; ok {
		if err := json.Unmarshal(body, &snap.NotificationsSent); err != nil {
			return core.LedgerSnapshot{}, fmt.Errorf("%w: malformed \"notificationsSent\": %v", sentinel, err)
		}
		if snap.NotificationsSent == nil {
			snap.NotificationsSent = map[string]bool{}
		}
	}

	return snap, nil
}
