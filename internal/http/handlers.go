package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/notify"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// alertNotice is the per-alert outcome reported in a 201 body. A failed
// send shows up as a warning; the expense itself is already stored.
type alertNotice struct {
	Kind      string     `json:"kind"`
	Category  string     `json:"category"`
	MonthYear string     `json:"monthYear"`
	Spent     core.Money `json:"spent"`
	Budget    core.Money `json:"budget"`
	Ratio     float64    `json:"ratio"`
	Sent      bool       `json:"sent"`
	Detail    string     `json:"detail,omitempty"`
	Warning   string     `json:"warning,omitempty"`
}

func notices(results []notify.Result) []alertNotice {
	out := make([]alertNotice, 0, len(results))
	for _, r := range results {
		n := alertNotice{
			Kind:      string(r.Candidate.Kind),
			Category:  r.Candidate.Budget.Category,
			MonthYear: r.Candidate.Budget.MonthYear,
			Spent:     r.Candidate.Spend,
			Budget:    r.Candidate.Budget.Amount,
			Ratio:     r.Candidate.Ratio,
			Sent:      r.Sent,
			Detail:    r.Detail,
		}
		if r.Err != nil {
			n.Warning = r.Err.Error()
		}
		out = append(out, n)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ve.Reason, Field: ve.Field})
	case errors.Is(err, core.ErrDuplicateBudget):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrInvalidImport):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dest); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body"})
		return false
	}
	return true
}

// owner resolves the request's owner identity from headers.
func owner(w http.ResponseWriter, r *http.Request) (string, notify.Recipient, bool) {
	ownerID := strings.TrimSpace(r.Header.Get("X-Owner-ID"))
	if ownerID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing X-Owner-ID header"})
		return "", notify.Recipient{}, false
	}
	to := notify.Recipient{
		Email: strings.TrimSpace(r.Header.Get("X-Owner-Email")),
		Name:  strings.TrimSpace(r.Header.Get("X-Owner-Name")),
	}
	if to.Email == "" {
		to.Email = ownerID + "@fintrack.local"
	}
	return ownerID, to, true
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

type expenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	ownerID, to, ok := owner(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		snap := s.ledgers.Snapshot(r.Context(), ownerID)
		expenses := snap.Expenses
		if month := strings.TrimSpace(r.URL.Query().Get("month")); month != "" {
			filtered := make([]core.Expense, 0, len(expenses))
			for _, e := range expenses {
				if e.Date.MonthKey() == month {
					filtered = append(filtered, e)
				}
			}
			expenses = filtered
		}
		writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})

	case http.MethodPost:
		var req expenseRequest
		if !decodeBody(w, r, &req) {
			return
		}
		draft, err := expenseDraftFromRequest(req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		result, err := s.ledgers.AddExpense(r.Context(), ownerID, to, draft)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"expense": result.Expense,
			"alerts":  notices(result.Alerts),
		})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func expenseDraftFromRequest(req expenseRequest) (ledger.ExpenseDraft, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return ledger.ExpenseDraft{}, err
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return ledger.ExpenseDraft{}, err
	}
	return ledger.ExpenseDraft{
		Description: req.Description,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Category:    req.Category,
	}, nil
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	ownerID, _, ok := owner(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/expenses/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing expense id"})
		return
	}

	if err := s.ledgers.DeleteExpense(r.Context(), ownerID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type incomeRequest struct {
	Source string `json:"source"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

func (s *Server) handleIncomes(w http.ResponseWriter, r *http.Request) {
	ownerID, _, ok := owner(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		snap := s.ledgers.Snapshot(r.Context(), ownerID)
		writeJSON(w, http.StatusOK, map[string]any{"incomes": snap.Incomes})

	case http.MethodPost:
		var req incomeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		cents, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		date, err := core.ParseDate(req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		income, err := s.ledgers.AddIncome(r.Context(), ownerID, ledger.IncomeDraft{
			Source: req.Source,
			Amount: core.Money{Cents: cents},
			Date:   date,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"income": income})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

type budgetRequest struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	MonthYear string `json:"monthYear"`
	Replace   bool   `json:"replace"`
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	ownerID, _, ok := owner(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		if month := strings.TrimSpace(r.URL.Query().Get("month")); month != "" {
			budgets, err := s.ledgers.BudgetsForMonth(r.Context(), ownerID, month)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"budgets": budgets})
			return
		}
		snap := s.ledgers.Snapshot(r.Context(), ownerID)
		writeJSON(w, http.StatusOK, map[string]any{"budgets": snap.Budgets})

	case http.MethodPost:
		var req budgetRequest
		if !decodeBody(w, r, &req) {
			return
		}
		cents, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		budget, err := s.ledgers.AddBudget(r.Context(), ownerID, ledger.BudgetDraft{
			Category:  req.Category,
			Amount:    core.Money{Cents: cents},
			MonthYear: req.MonthYear,
			Replace:   req.Replace,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"budget": budget})

	case http.MethodPut:
		var req budgetRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.ID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing budget id"})
			return
		}
		cents, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		budget, err := s.ledgers.UpdateBudget(r.Context(), ownerID, core.Budget{
			ID:        req.ID,
			Category:  req.Category,
			Amount:    core.Money{Cents: cents},
			MonthYear: req.MonthYear,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"budget": budget})

	default:
		methodNotAllowed(w, "GET, POST, PUT")
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"expenseCategories": core.ExpenseCategories,
		"incomeSources":     core.IncomeSources,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ownerID, _, ok := owner(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	doc, err := s.ledgers.Export(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="fintrack-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ownerID, _, ok := owner(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cannot read request body"})
		return
	}
	if err := s.ledgers.Import(r.Context(), ownerID, raw); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ownerID, _, ok := owner(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	if err := s.ledgers.Reset(r.Context(), ownerID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
