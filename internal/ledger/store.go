// Package ledger implements the owner-scoped in-memory ledger store: the
// single mutable collection of expenses, incomes, budgets and the
// notification dedup set.
package ledger

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Store holds one owner's ledger state. All mutations are guarded by a
// mutex; there is exactly one logical writer per owner (multi-device
// editing is unsupported).
type Store struct {
	mu      sync.Mutex
	ownerID string
	snap    core.LedgerSnapshot
}

// ExpenseDraft is the caller-supplied part of a new expense; id and owner
// are assigned by the store.
type ExpenseDraft struct {
	Description string
	Amount      core.Money
	Date        core.Date
	Category    string
}

type IncomeDraft struct {
	Source string
	Amount core.Money
	Date   core.Date
}

// BudgetDraft describes a new budget. Replace allows overwriting the
// existing budget for the same (category, monthYear) instead of failing
// with core.ErrDuplicateBudget.
type BudgetDraft struct {
	Category  string
	Amount    core.Money
	MonthYear string
	Replace   bool
}

// NewStore creates an empty ledger for the given owner.
func NewStore(ownerID string) *Store {
	return &Store{
		ownerID: ownerID,
		snap: core.LedgerSnapshot{
			NotificationsSent: make(map[string]bool),
		},
	}
}

func (s *Store) OwnerID() string {
	return s.ownerID
}

// AddExpense validates the draft, assigns a fresh id and the store's
// owner, and appends the expense. The stored entity is returned.
func (s *Store) AddExpense(draft ExpenseDraft) (core.Expense, error) {
	e := core.Expense{
		ID:          uuid.NewString(),
		OwnerID:     s.ownerID,
		Description: strings.TrimSpace(draft.Description),
		Amount:      draft.Amount,
		Date:        draft.Date,
		Category:    draft.Category,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Expenses = append(s.snap.Expenses, e)
	return e, nil
}

// DeleteExpense removes the expense with the given id. An absent id is a
// no-op, not an error. Deletion never re-evaluates thresholds and never
// un-fires a committed notification.
func (s *Store) DeleteExpense(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.snap.Expenses {
		if e.ID == id {
			s.snap.Expenses = append(s.snap.Expenses[:i], s.snap.Expenses[i+1:]...)
			return
		}
	}
}

// AddIncome validates the draft and appends the income. Incomes carry no
// threshold side effects.
func (s *Store) AddIncome(draft IncomeDraft) (core.Income, error) {
	in := core.Income{
		ID:      uuid.NewString(),
		OwnerID: s.ownerID,
		Source:  draft.Source,
		Amount:  draft.Amount,
		Date:    draft.Date,
	}
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Incomes = append(s.snap.Incomes, in)
	return in, nil
}

// AddBudget validates the draft and appends the budget, rejecting a second
// budget for the same (category, monthYear) unless draft.Replace is set,
// in which case the existing entry keeps its id and takes the new amount.
func (s *Store) AddBudget(draft BudgetDraft) (core.Budget, error) {
	b := core.Budget{
		ID:        uuid.NewString(),
		OwnerID:   s.ownerID,
		Category:  draft.Category,
		Amount:    draft.Amount,
		MonthYear: draft.MonthYear,
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.snap.Budgets {
		if existing.Category == draft.Category && existing.MonthYear == draft.MonthYear {
			if !draft.Replace {
				return core.Budget{}, core.ErrDuplicateBudget
			}
			b.ID = existing.ID
			s.snap.Budgets[i] = b
			return b, nil
		}
	}
	s.snap.Budgets = append(s.snap.Budgets, b)
	return b, nil
}

// UpdateBudget replaces the budget with a matching id. Returns
// core.ErrNotFound when no such budget exists.
func (s *Store) UpdateBudget(b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	b.OwnerID = s.ownerID
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.snap.Budgets {
		if existing.ID == b.ID {
			s.snap.Budgets[i] = b
			return b, nil
		}
	}
	return core.Budget{}, core.ErrNotFound
}

// BudgetsForMonth returns the budgets whose monthYear equals the given key.
func (s *Store) BudgetsForMonth(monthYear string) []core.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Budget
	for _, b := range s.snap.Budgets {
		if b.MonthYear == monthYear {
			out = append(out, b)
		}
	}
	return out
}

// Snapshot returns a deep copy of the full current state.
func (s *Store) Snapshot() core.LedgerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Replace atomically swaps the entire state with the given snapshot,
// re-stamping every entity with the store's owner so imported data never
// leaks another owner into derived computations. A nil dedup map defaults
// to empty.
func (s *Store) Replace(snap core.LedgerSnapshot) {
	next := snap.Clone()
	for i := range next.Expenses {
		next.Expenses[i].OwnerID = s.ownerID
	}
	for i := range next.Incomes {
		next.Incomes[i].OwnerID = s.ownerID
	}
	for i := range next.Budgets {
		next.Budgets[i].OwnerID = s.ownerID
	}
	if next.NotificationsSent == nil {
		next.NotificationsSent = make(map[string]bool)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = next
}

// MarkNotified records a dedup key as sent. The set is monotonic: entries
// are only removed by Reset or Replace.
func (s *Store) MarkNotified(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.NotificationsSent[key] = true
}

// AlreadyNotified reports whether a dedup key has been committed.
func (s *Store) AlreadyNotified(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.NotificationsSent[key]
}

// Reset clears the ledger back to the empty state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = core.LedgerSnapshot{NotificationsSent: make(map[string]bool)}
}
