package alert

import (
	"testing"

	"fintrack/internal/core"
)

func budget(id, owner, category string, cents int64, monthYear string) core.Budget {
	return core.Budget{ID: id, OwnerID: owner, Category: category, Amount: core.Money{Cents: cents}, MonthYear: monthYear}
}

func TestEvaluateApproaching(t *testing.T) {
	added := expense("u1", "Food & Drinks", 8000, 2024, 7, 5)
	snap := core.LedgerSnapshot{
		Expenses:          []core.Expense{added},
		Budgets:           []core.Budget{budget("b1", "u1", "Food & Drinks", 10000, "2024-07")},
		NotificationsSent: map[string]bool{},
	}
	got := Evaluate(snap, added)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	c := got[0]
	if c.Kind != KindApproaching || c.Ratio != 80 || c.Spend.Cents != 8000 {
		t.Fatalf("unexpected candidate %+v", c)
	}
}

func TestEvaluateSkipsCommittedKeys(t *testing.T) {
	added := expense("u1", "Food & Drinks", 500, 2024, 7, 6)
	snap := core.LedgerSnapshot{
		Expenses: []core.Expense{
			expense("u1", "Food & Drinks", 8000, 2024, 7, 5),
			added,
		},
		Budgets: []core.Budget{budget("b1", "u1", "Food & Drinks", 10000, "2024-07")},
		NotificationsSent: map[string]bool{
			"budget_b1_2024-07_approaching": true,
		},
	}
	if got := Evaluate(snap, added); len(got) != 0 {
		t.Fatalf("committed key must be skipped, got %d candidates", len(got))
	}
}

func TestEvaluateExceededSkipsApproaching(t *testing.T) {
	// A single expense blasting past 100% fires only exceeded: evaluation
	// sees just the final ratio after the mutation.
	added := expense("u1", "Food & Drinks", 15000, 2024, 7, 5)
	snap := core.LedgerSnapshot{
		Expenses:          []core.Expense{added},
		Budgets:           []core.Budget{budget("b1", "u1", "Food & Drinks", 10000, "2024-07")},
		NotificationsSent: map[string]bool{},
	}
	got := Evaluate(snap, added)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Kind != KindExceeded {
		t.Fatalf("expected exceeded, got %q", got[0].Kind)
	}
}

func TestEvaluateExactly100IsApproaching(t *testing.T) {
	added := expense("u1", "Food & Drinks", 10000, 2024, 7, 5)
	snap := core.LedgerSnapshot{
		Expenses:          []core.Expense{added},
		Budgets:           []core.Budget{budget("b1", "u1", "Food & Drinks", 10000, "2024-07")},
		NotificationsSent: map[string]bool{},
	}
	got := Evaluate(snap, added)
	if len(got) != 1 || got[0].Kind != KindApproaching {
		t.Fatalf("ratio 100 must classify as approaching, got %+v", got)
	}
}

func TestEvaluateZeroBudgetNeverFires(t *testing.T) {
	added := expense("u1", "Food & Drinks", 99999, 2024, 7, 5)
	snap := core.LedgerSnapshot{
		Expenses:          []core.Expense{added},
		Budgets:           []core.Budget{budget("b1", "u1", "Food & Drinks", 0, "2024-07")},
		NotificationsSent: map[string]bool{},
	}
	if got := Evaluate(snap, added); len(got) != 0 {
		t.Fatalf("zero-amount budget must never alert, got %+v", got)
	}
}

func TestEvaluateIgnoresOtherOwnersAndMonths(t *testing.T) {
	added := expense("u1", "Food & Drinks", 9000, 2024, 7, 5)
	snap := core.LedgerSnapshot{
		Expenses: []core.Expense{
			added,
			expense("u2", "Food & Drinks", 9000, 2024, 7, 5),
		},
		Budgets: []core.Budget{
			budget("b-other-owner", "u2", "Food & Drinks", 10000, "2024-07"),
			budget("b-other-month", "u1", "Food & Drinks", 10000, "2024-08"),
			budget("b-mine", "u1", "Food & Drinks", 10000, "2024-07"),
		},
		NotificationsSent: map[string]bool{},
	}
	got := Evaluate(snap, added)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Budget.ID != "b-mine" {
		t.Fatalf("expected b-mine, got %q", got[0].Budget.ID)
	}
}

func TestEvaluateBothKindsFireAcrossLifetime(t *testing.T) {
	// approaching already committed; a later expense pushes past 100 and
	// the exceeded key is distinct, so it still fires.
	added := expense("u1", "Food & Drinks", 3000, 2024, 7, 20)
	snap := core.LedgerSnapshot{
		Expenses: []core.Expense{
			expense("u1", "Food & Drinks", 8000, 2024, 7, 5),
			added,
		},
		Budgets: []core.Budget{budget("b1", "u1", "Food & Drinks", 10000, "2024-07")},
		NotificationsSent: map[string]bool{
			"budget_b1_2024-07_approaching": true,
		},
	}
	got := Evaluate(snap, added)
	if len(got) != 1 || got[0].Kind != KindExceeded {
		t.Fatalf("expected exceeded candidate, got %+v", got)
	}
}
