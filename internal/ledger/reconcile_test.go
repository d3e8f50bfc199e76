package ledger

import (
	"context"
	"errors"
	"testing"

	"kharchbook/internal/core"

	"github.com/google/uuid"
)

func TestReconcileExpensesNoChange(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	s.AddExpense(ctx, core.NewDate(2025, 1, 15), "Coffee", "Food", money("50"), core.Cash)

	res, err := s.ReconcileExpenses(ctx, s.Expenses())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Changed {
		t.Fatalf("identical table must be a no-op")
	}
}

func TestReconcileExpensesPersistsCellEdit(t *testing.T) {
	s, dir := newTestSession(t)
	ctx := context.Background()
	s.AddExpense(ctx, core.NewDate(2025, 1, 15), "Coffee", "Food", money("50"), core.Cash)

	proposed := s.Expenses()
	proposed[0].Amount = money("75")
	proposed[0].Item = "Coffee beans"

	res, err := s.ReconcileExpenses(ctx, proposed)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !res.Changed || res.Accepted != 1 || len(res.Rejected) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	reopened, err := NewSession(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.Expenses()
	if len(got) != 1 || got[0].Item != "Coffee beans" || !got[0].Amount.Equal(money("75")) {
		t.Fatalf("edit not persisted: %+v", got)
	}
}

func TestReconcileExpensesDeletesAndReorders(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	s.AddExpense(ctx, core.NewDate(2025, 1, 1), "A", "Food", money("1"), core.Cash)
	s.AddExpense(ctx, core.NewDate(2025, 1, 2), "B", "Food", money("2"), core.Cash)
	s.AddExpense(ctx, core.NewDate(2025, 1, 3), "C", "Food", money("4"), core.Cash)

	current := s.Expenses() // C, B, A
	proposed := []core.ExpenseRecord{current[2], current[0]}

	res, err := s.ReconcileExpenses(ctx, proposed)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !res.Changed || res.Accepted != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	got := s.Expenses()
	if len(got) != 2 || got[0].Item != "A" || got[1].Item != "C" {
		t.Fatalf("proposed order must win: %+v", got)
	}
}

func TestReconcileExpensesRejectsInvalidRowsPerRow(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	s.AddExpense(ctx, core.NewDate(2025, 1, 15), "Coffee", "Food", money("50"), core.Cash)

	proposed := s.Expenses()
	proposed[0].Amount = money("-50") // grid edit gone wrong
	proposed = append(proposed, core.ExpenseRecord{
		// grid-added row, valid
		Date: core.NewDate(2025, 1, 16), Item: "Tea", Category: "Food",
		Amount: money("20"), Mode: core.Online,
	}, core.ExpenseRecord{
		// grid-added row, blank item
		Date: core.NewDate(2025, 1, 16), Amount: money("5"), Mode: core.Cash,
	})

	res, err := s.ReconcileExpenses(ctx, proposed)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Accepted != 1 || len(res.Rejected) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Rejected[0].Index != 0 || !errors.Is(res.Rejected[0].Err, core.ErrNonPositiveAmount) {
		t.Fatalf("row 0 should be rejected for amount: %+v", res.Rejected[0])
	}
	if res.Rejected[1].Index != 2 || !errors.Is(res.Rejected[1].Err, core.ErrEmptyItem) {
		t.Fatalf("row 2 should be rejected for item: %+v", res.Rejected[1])
	}

	got := s.Expenses()
	if len(got) != 1 || got[0].Item != "Tea" {
		t.Fatalf("only the valid row should survive: %+v", got)
	}
	if got[0].ID == uuid.Nil {
		t.Fatalf("grid-added row must get an ID")
	}
}

func TestReconcileFundsKeepsTransferLegs(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	day := core.NewDate(2025, 1, 15)
	s.AddFund(ctx, day, "Salary", core.Online, money("1000"))
	s.Transfer(ctx, core.Online, core.Cash, money("100"), day)

	proposed := s.Funds()
	proposed[2].Source = "Paycheck" // edit the deposit, keep the legs

	res, err := s.ReconcileFunds(ctx, proposed)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Accepted != 3 || len(res.Rejected) != 0 {
		t.Fatalf("negative transfer legs must survive reconciliation: %+v", res)
	}

	b := s.Balances()
	want := core.ComputeBalances(s.Expenses(), s.Funds())
	if !b.Cash.Equal(want.Cash) || !b.Online.Equal(want.Online) {
		t.Fatalf("balances drifted after reconcile: %+v vs %+v", b, want)
	}
}

func TestReconcileTodosTogglesDone(t *testing.T) {
	s, dir := newTestSession(t)
	ctx := context.Background()
	s.AddTodo(ctx, "Milk", "")
	s.AddTodo(ctx, "Bread", "")

	proposed := s.Todos()
	proposed[0].Done = true

	res, err := s.ReconcileTodos(ctx, proposed)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !res.Changed || res.Accepted != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}

	reopened, err := NewSession(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	todos := reopened.Todos()
	if !todos[0].Done || todos[1].Done {
		t.Fatalf("done edit not persisted: %+v", todos)
	}
}
