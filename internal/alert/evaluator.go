package alert

import "fintrack/internal/core"

// Candidate is a budget whose threshold was newly crossed by an expense
// addition and whose dedup key has not been committed yet.
type Candidate struct {
	Budget core.Budget
	Kind   Kind
	Spend  core.Money
	Ratio  float64
}

// Evaluate inspects the post-mutation snapshot after a successful expense
// addition and returns the alert candidates it produced.
//
// Only budgets of the same owner and the expense's calendar month are
// considered. Each budget's ratio is classified against the thresholds and
// skipped when its dedup key is already present in the snapshot's
// NotificationsSent set as it stood before this pass. Deletions and
// budget or income mutations never produce candidates.
func Evaluate(snap core.LedgerSnapshot, added core.Expense) []Candidate {
	month := added.Date.MonthKey()
	var out []Candidate
	for _, b := range snap.Budgets {
		if b.OwnerID != added.OwnerID || b.MonthYear != month {
			continue
		}
		spend := SpendFor(snap, b.OwnerID, b.Category, b.MonthYear)
		ratio := Ratio(spend, b.Amount)
		kind, crossed := Classify(ratio)
		if !crossed {
			continue
		}
		if snap.NotificationsSent[DedupKey(b.ID, b.MonthYear, kind)] {
			continue
		}
		out = append(out, Candidate{Budget: b, Kind: kind, Spend: spend, Ratio: ratio})
	}
	return out
}
