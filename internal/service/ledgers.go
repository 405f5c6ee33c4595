// Package service orchestrates the ledger engine: it owns the per-owner
// sessions and runs the mutate, evaluate, dispatch, commit, persist
// pipeline for every accepted mutation.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/alert"
	"fintrack/internal/cache"
	"fintrack/internal/codec"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/notify"
	"fintrack/internal/storage"
)

// Repository is the durable snapshot store behind the sessions.
type Repository interface {
	SaveSnapshot(ctx context.Context, ownerID string, snapshot []byte) error
	LoadSnapshot(ctx context.Context, ownerID string) ([]byte, error)
	DeleteSnapshot(ctx context.Context, ownerID string) error
}

// AddExpenseResult is the settled outcome of an expense addition: the
// stored entity plus the alert sends it triggered. A failed send appears
// here as a warning and never fails the addition itself.
type AddExpenseResult struct {
	Expense core.Expense
	Alerts  []notify.Result
}

// session serializes all work on one owner's ledger. The store has its
// own lock for single mutations, but the evaluate and commit steps span
// several calls and must not interleave with another mutation.
type session struct {
	mu    sync.Mutex
	store *ledger.Store
}

// Ledgers manages the resident owner sessions and their persistence.
type Ledgers struct {
	repo       Repository
	dispatcher *notify.Dispatcher
	logger     *slog.Logger

	mu       sync.Mutex
	sessions *cache.LRUCache[*session]
}

func NewLedgers(repo Repository, dispatcher *notify.Dispatcher, logger *slog.Logger, maxSessions int, ttl time.Duration) *Ledgers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledgers{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
		sessions:   cache.NewLRUCache[*session](maxSessions, ttl),
	}
}

// Sessions exposes the session cache for periodic expiry cleanup.
func (l *Ledgers) Sessions() cache.Cleaner {
	return l.sessions
}

// session returns the resident session for an owner, loading its snapshot
// from the repository on a miss. A missing snapshot starts an empty
// ledger; a corrupt one is logged and also starts empty, leaving the
// stored row untouched until the next persist.
func (l *Ledgers) session(ctx context.Context, ownerID string) *session {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.sessions.Get(ownerID); ok {
		return s
	}

	store := ledger.NewStore(ownerID)
	raw, err := l.repo.LoadSnapshot(ctx, ownerID)
	switch {
	case errors.Is(err, storage.ErrNoSnapshot):
		// first visit, nothing stored yet
	case err != nil:
		l.logger.ErrorContext(ctx, "Failed to load snapshot, starting empty",
			"owner_id", ownerID,
			"error", err)
	default:
		snap, decodeErr := codec.Decode(raw)
		if decodeErr != nil {
			l.logger.WarnContext(ctx, "Stored snapshot is corrupt, starting empty",
				"owner_id", ownerID,
				"error", decodeErr)
		} else {
			store.Replace(snap)
		}
	}

	s := &session{store: store}
	l.sessions.Set(ownerID, s)
	return s
}

// persist encodes the session's state and saves it. Mutations are already
// applied in memory when this runs, so a failure is surfaced to the
// caller but does not roll anything back.
func (l *Ledgers) persist(ctx context.Context, s *session) error {
	raw, err := codec.Encode(s.store.Snapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := l.repo.SaveSnapshot(ctx, s.store.OwnerID(), raw); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// AddExpense runs the full pipeline: validate and append the expense,
// evaluate the owner's budgets for newly crossed thresholds, dispatch one
// email per crossing, commit the dedup key of every confirmed send, then
// persist the snapshot.
func (l *Ledgers) AddExpense(ctx context.Context, ownerID string, to notify.Recipient, draft ledger.ExpenseDraft) (AddExpenseResult, error) {
	s := l.session(ctx, ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()

	expense, err := s.store.AddExpense(draft)
	if err != nil {
		return AddExpenseResult{}, err
	}

	candidates := alert.Evaluate(s.store.Snapshot(), expense)
	results := l.dispatcher.Dispatch(ctx, to, candidates)
	for _, r := range results {
		if r.Sent {
			s.store.MarkNotified(r.Key)
		}
	}

	if err := l.persist(ctx, s); err != nil {
		return AddExpenseResult{Expense: expense, Alerts: results}, err
	}
	return AddExpenseResult{Expense: expense, Alerts: results}, nil
}

// DeleteExpense removes an expense if present. It never re-evaluates
// thresholds: a committed notification stays committed even when the
// spend that triggered it is deleted.
func (l *Ledgers) DeleteExpense(ctx context.Context, ownerID, id string) error {
	s := l.session(ctx, ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.DeleteExpense(id)
	return l.persist(ctx, s)
}

func (l *Ledgers) AddIncome(ctx context.Context, ownerID string, draft ledger.IncomeDraft) (core.Income, error) {
	s := l.session(ctx, ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()

	income, err := s.store.AddIncome(draft)
	if err != nil {
		return core.Income{}, err
	}
	if err := l.persist(ctx, s); err != nil {
		return income, err
	}
	return income, nil
}

func (l *Ledgers) AddBudget(ctx context.Context, ownerID string, draft ledger.BudgetDraft) (core.Budget, error) {
	s := l.session(ctx, ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()

	budget, err := s.store.AddBudget(draft)
	if err != nil {
		return core.Budget{}, err
	}
	if err := l.persist(ctx, s); err != nil {
		return budget, err
	}
	return budget, nil
}

func (l *Ledgers) UpdateBudget(ctx context.Context, ownerID string, b core.Budget) (core.Budget, error) {
	s := l.session(ctx, ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.store.UpdateBudget(b)
	if err != nil {
		return core.Budget{}, err
	}
	if err := l.persist(ctx, s); err != nil {
		return updated, err
	}
	return updated, nil
}

// Snapshot returns a deep copy of the owner's current ledger state.
func (l *Ledgers) Snapshot(ctx context.Context, ownerID string) core.LedgerSnapshot {
	s := l.session(ctx, ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// BudgetsForMonth returns the owner's budgets for one calendar month.
func (l *Ledgers) BudgetsForMonth(ctx context.Context, ownerID, monthYear string) ([]core.Budget, error) {
	if !core.ValidMonthKey(monthYear) {
		return nil, fmt.Errorf("invalid month key %q", monthYear)
	}
	s := l.session(ctx, ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.BudgetsForMonth(monthYear), nil
}

// Export returns the owner's ledger as a portable JSON document.
func (l *Ledgers) Export(ctx context.Context, ownerID string) ([]byte, error) {
	s := l.session(ctx, ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return codec.Encode(s.store.Snapshot())
}

// Import replaces the owner's entire ledger with the given export
// document. Every imported entity is re-stamped with this owner, so a
// document exported by someone else cannot leak foreign entries.
func (l *Ledgers) Import(ctx context.Context, ownerID string, raw []byte) error {
	snap, err := codec.DecodeImport(raw)
	if err != nil {
		return err
	}

	s := l.session(ctx, ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Replace(snap)
	if err := l.persist(ctx, s); err != nil {
		return err
	}

	l.logger.InfoContext(ctx, "Ledger imported",
		"owner_id", ownerID,
		"expenses", len(snap.Expenses),
		"incomes", len(snap.Incomes),
		"budgets", len(snap.Budgets))
	return nil
}

// Reset clears the owner's ledger and removes the stored snapshot.
func (l *Ledgers) Reset(ctx context.Context, ownerID string) error {
	s := l.session(ctx, ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Reset()
	if err := l.repo.DeleteSnapshot(ctx, ownerID); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	return nil
}
