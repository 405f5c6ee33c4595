package codec

import (
	"errors"
	"reflect"
	"testing"

	"fintrack/internal/core"
)

func sampleSnapshot() core.LedgerSnapshot {
	return core.LedgerSnapshot{
		Expenses: []core.Expense{{
			ID:          "e1",
			OwnerID:     "u1",
			Description: "Groceries",
			Amount:      core.Money{Cents: 7550},
			Date:        core.NewDate(2024, 7, 1),
			Category:    "Food & Drinks",
		}},
		Incomes: []core.Income{{
			ID:      "i1",
			OwnerID: "u1",
			Source:  "Salary",
			Amount:  core.Money{Cents: 250000},
			Date:    core.NewDate(2024, 7, 1),
		}},
		Budgets: []core.Budget{{
			ID:        "b1",
			OwnerID:   "u1",
			Category:  "Food & Drinks",
			Amount:    core.Money{Cents: 30000},
			MonthYear: "2024-07",
		}},
		NotificationsSent: map[string]bool{
			"budget_b1_2024-07_approaching": true,
		},
	}
}

func TestRoundTrip(t *testing.T) {
	orig := sampleSnapshot()
	raw, err := Encode(orig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(orig, back) {
		t.Fatalf("round trip mismatch:\norig: %+v\nback: %+v", orig, back)
	}
}

func TestEncodeEmptySnapshot(t *testing.T) {
	raw, err := Encode(core.LedgerSnapshot{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Expenses == nil || back.Incomes == nil || back.Budgets == nil || back.NotificationsSent == nil {
		t.Fatalf("empty snapshot must decode with all collections present: %+v", back)
	}
}

func TestDecodeDefaultsMissingNotifications(t *testing.T) {
	raw := []byte(`{"expenses":[],"incomes":[],"budgets":[]}`)
	snap, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.NotificationsSent == nil || len(snap.NotificationsSent) != 0 {
		t.Fatalf("missing notificationsSent must default to empty map, got %+v", snap.NotificationsSent)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `}{`},
		{"not an object", `[1,2,3]`},
		{"missing expenses", `{"incomes":[],"budgets":[]}`},
		{"missing incomes", `{"expenses":[],"budgets":[]}`},
		{"missing budgets", `{"expenses":[],"incomes":[]}`},
		{"expenses not array", `{"expenses":42,"incomes":[],"budgets":[]}`},
		{"bad date", `{"expenses":[{"id":"e","date":"yesterday"}],"incomes":[],"budgets":[]}`},
		{"bad dedup set", `{"expenses":[],"incomes":[],"budgets":[],"notificationsSent":[1]}`},
	}
	for _, tc := range cases {
		if _, err := Decode([]byte(tc.raw)); !errors.Is(err, core.ErrCorruptData) {
			t.Fatalf("%s: expected ErrCorruptData, got %v", tc.name, err)
		}
	}
}

func TestDecodeImportSentinel(t *testing.T) {
	_, err := DecodeImport([]byte(`{"expenses":[]}`))
	if !errors.Is(err, core.ErrInvalidImport) {
		t.Fatalf("expected ErrInvalidImport, got %v", err)
	}
	if errors.Is(err, core.ErrCorruptData) {
		t.Fatalf("import failures must not be reported as corrupt storage")
	}
}

func TestDecodeAcceptsLegacyTimestamps(t *testing.T) {
	raw := []byte(`{"expenses":[{"id":"e1","ownerId":"u1","description":"x","amount":100,"date":"2024-07-05T10:00:00Z","category":"Other"}],"incomes":[],"budgets":[]}`)
	snap, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Expenses[0].Date.MonthKey() != "2024-07" {
		t.Fatalf("expected 2024-07, got %q", snap.Expenses[0].Date.MonthKey())
	}
}
