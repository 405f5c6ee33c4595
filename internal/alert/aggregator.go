// Package alert computes budget utilization from ledger snapshots and
// decides which threshold crossings still need a notification.
package alert

import (
	"fmt"

	"fintrack/internal/core"
)

// Kind classifies a budget-utilization alert.
type Kind string

const (
	// KindApproaching covers ratios from 80 up to and including 100.
	KindApproaching Kind = "approaching"
	// KindExceeded covers ratios strictly above 100.
	KindExceeded Kind = "exceeded"

	approachingThreshold = 80.0
	exceededThreshold    = 100.0
)

// SpendFor sums all expenses of the given owner and category whose date
// falls in the given calendar month. Months are matched by truncating the
// expense date to a "YYYY-MM" key, never by range containment.
func SpendFor(snap core.LedgerSnapshot, ownerID, category, monthYear string) core.Money {
	var total int64
	for _, e := range snap.Expenses {
		if e.OwnerID != ownerID || e.Category != category {
			continue
		}
		if e.Date.MonthKey() != monthYear {
			continue
		}
		total += e.Amount.Cents
	}
	return core.Money{Cents: total}
}

// Ratio returns spend as a percentage of the budget amount. A budget of
// zero (or less) yields 0, so it can never trigger a threshold.
func Ratio(spend, budget core.Money) float64 {
	if budget.Cents <= 0 {
		return 0
	}
	return float64(spend.Cents) / float64(budget.Cents) * 100
}

// Classify maps a ratio to a threshold kind. Exactly 100 counts as
// approaching; only ratios above 100 are exceeded.
func Classify(ratio float64) (Kind, bool) {
	switch {
	case ratio > exceededThreshold:
		return KindExceeded, true
	case ratio >= approachingThreshold:
		return KindApproaching, true
	default:
		return "", false
	}
}

// DedupKey builds the composite identity of one notification occurrence.
// Keys are stable across reloads and imports; committing one guarantees
// at-most-once dispatch for that (budget, month, kind).
func DedupKey(budgetID, monthYear string, kind Kind) string {
	return fmt.Sprintf("budget_%s_%s_%s", budgetID, monthYear, kind)
}
