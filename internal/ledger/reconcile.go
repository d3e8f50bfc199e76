package ledger

import (
	"context"
	"log/slog"

	"kharchbook/internal/core"

	"github.com/google/uuid"
)

// RowError reports one proposed row the reconciler refused to persist.
type RowError struct {
	Index int
	Err   error
}

// ReconcileResult summarizes one grid reconciliation. The grid hands over
// whole replacement tables with no operation-level granularity, so the
// result speaks in rows: how many were accepted, which were rejected and
// why, and whether anything changed at all.
type ReconcileResult struct {
	Changed  bool
	Accepted int
	Rejected []RowError
}

// ReconcileExpenses accepts a full replacement of the expense table from
// free-form grid editing. Unchanged tables are a no-op. Otherwise every
// proposed row is revalidated: valid rows replace the table in the given
// order and are persisted, invalid rows are rejected and reported
// per-row instead of being silently written to disk.
func (s *Session) ReconcileExpenses(ctx context.Context, proposed []core.ExpenseRecord) (ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expenseTablesEqual(s.expenses, proposed) {
		return ReconcileResult{}, nil
	}

	var res ReconcileResult
	accepted := make([]core.ExpenseRecord, 0, len(proposed))
	for i, rec := range proposed {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New() // row added in the grid
		}
		rec.Category = core.NormalizeCategory(rec.Category)
		if err := rec.Validate(); err != nil {
			res.Rejected = append(res.Rejected, RowError{Index: i, Err: err})
			continue
		}
		accepted = append(accepted, rec)
	}

	old := s.expenses
	s.expenses = accepted
	if err := s.persistExpenses(); err != nil {
		s.expenses = old
		return res, err
	}

	res.Changed = true
	res.Accepted = len(accepted)
	slog.InfoContext(ctx, "Expense table reconciled",
		"proposed", len(proposed),
		"accepted", res.Accepted,
		"rejected", len(res.Rejected))
	return res, nil
}

// ReconcileFunds is the funds-table counterpart of ReconcileExpenses.
// Negative amounts survive revalidation (transfer legs live in this grid);
// only zero amounts, zero dates and unknown modes are rejected.
func (s *Session) ReconcileFunds(ctx context.Context, proposed []core.FundRecord) (ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fundTablesEqual(s.funds, proposed) {
		return ReconcileResult{}, nil
	}

	var res ReconcileResult
	accepted := make([]core.FundRecord, 0, len(proposed))
	for i, rec := range proposed {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		if rec.Source == "" {
			rec.Source = defaultFundSource
		}
		if err := rec.Validate(); err != nil {
			res.Rejected = append(res.Rejected, RowError{Index: i, Err: err})
			continue
		}
		accepted = append(accepted, rec)
	}

	old := s.funds
	s.funds = accepted
	if err := s.persistFunds(); err != nil {
		s.funds = old
		return res, err
	}

	res.Changed = true
	res.Accepted = len(accepted)
	slog.InfoContext(ctx, "Fund table reconciled",
		"proposed", len(proposed),
		"accepted", res.Accepted,
		"rejected", len(res.Rejected))
	return res, nil
}

// ReconcileTodos is the checklist counterpart of ReconcileExpenses.
func (s *Session) ReconcileTodos(ctx context.Context, proposed []core.TodoRecord) (ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if todoTablesEqual(s.todos, proposed) {
		return ReconcileResult{}, nil
	}

	var res ReconcileResult
	accepted := make([]core.TodoRecord, 0, len(proposed))
	for i, rec := range proposed {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		if err := rec.Validate(); err != nil {
			res.Rejected = append(res.Rejected, RowError{Index: i, Err: err})
			continue
		}
		accepted = append(accepted, rec)
	}

	old := s.todos
	s.todos = accepted
	if err := s.persistTodos(); err != nil {
		s.todos = old
		return res, err
	}

	res.Changed = true
	res.Accepted = len(accepted)
	slog.InfoContext(ctx, "Todo table reconciled",
		"proposed", len(proposed),
		"accepted", res.Accepted,
		"rejected", len(res.Rejected))
	return res, nil
}

// Structural equality: any cell, row count or row order difference counts
// as a change.

func expenseTablesEqual(a, b []core.ExpenseRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID ||
			!a[i].Date.Equal(b[i].Date) ||
			a[i].Item != b[i].Item ||
			a[i].Category != b[i].Category ||
			!a[i].Amount.Equal(b[i].Amount) ||
			a[i].Mode != b[i].Mode {
			return false
		}
	}
	return true
}

func fundTablesEqual(a, b []core.FundRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID ||
			!a[i].Date.Equal(b[i].Date) ||
			a[i].Source != b[i].Source ||
			a[i].Mode != b[i].Mode ||
			!a[i].Amount.Equal(b[i].Amount) {
			return false
		}
	}
	return true
}

func todoTablesEqual(a, b []core.TodoRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID ||
			a[i].Item != b[i].Item ||
			a[i].Notes != b[i].Notes ||
			a[i].Done != b[i].Done {
			return false
		}
	}
	return true
}
