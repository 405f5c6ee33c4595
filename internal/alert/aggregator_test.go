package alert

import (
	"testing"

	"fintrack/internal/core"
)

func expense(owner, category string, cents int64, year, month, day int) core.Expense {
	return core.Expense{
		ID:       "e-" + category,
		OwnerID:  owner,
		Amount:   core.Money{Cents: cents},
		Date:     core.NewDate(year, month, day),
		Category: category,
	}
}

func TestSpendFor(t *testing.T) {
	snap := core.LedgerSnapshot{
		Expenses: []core.Expense{
			expense("u1", "Food & Drinks", 5000, 2024, 7, 1),
			expense("u1", "Food & Drinks", 2500, 2024, 7, 31),
			expense("u1", "Food & Drinks", 9999, 2024, 8, 1), // other month
			expense("u1", "Housing", 4000, 2024, 7, 10),      // other category
			expense("u2", "Food & Drinks", 7777, 2024, 7, 5), // other owner
		},
	}
	got := SpendFor(snap, "u1", "Food & Drinks", "2024-07")
	if got.Cents != 7500 {
		t.Fatalf("expected 7500, got %d", got.Cents)
	}
	if got := SpendFor(snap, "u1", "Vehicle", "2024-07"); got.Cents != 0 {
		t.Fatalf("expected 0 for unused category, got %d", got.Cents)
	}
}

func TestRatio(t *testing.T) {
	cases := []struct {
		spend, budget int64
		want          float64
	}{
		{8000, 10000, 80},
		{10000, 10000, 100},
		{15000, 10000, 150},
		{1, 0, 0}, // zero budget never produces a ratio
		{0, 10000, 0},
	}
	for i, tc := range cases {
		got := Ratio(core.Money{Cents: tc.spend}, core.Money{Cents: tc.budget})
		if got != tc.want {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, got)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		ratio   float64
		kind    Kind
		crossed bool
	}{
		{79.99, "", false},
		{80, KindApproaching, true},
		{99.9, KindApproaching, true},
		{100, KindApproaching, true}, // inclusive upper bound
		{100.01, KindExceeded, true},
		{150, KindExceeded, true},
		{0, "", false},
	}
	for _, tc := range cases {
		kind, crossed := Classify(tc.ratio)
		if kind != tc.kind || crossed != tc.crossed {
			t.Fatalf("ratio %v: expected (%q,%v), got (%q,%v)", tc.ratio, tc.kind, tc.crossed, kind, crossed)
		}
	}
}

func TestDedupKey(t *testing.T) {
	got := DedupKey("b1", "2024-07", KindApproaching)
	if got != "budget_b1_2024-07_approaching" {
		t.Fatalf("unexpected key %q", got)
	}
}
