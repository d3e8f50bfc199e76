package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"kharchbook/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func money(s string) core.Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return core.NewMoney(d)
}

func newTestSession(t *testing.T) (*Session, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSession(dir)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, dir
}

func TestAddExpenseRejectsNonPositiveAmount(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	day := core.NewDate(2025, 1, 15)

	_, err := s.AddExpense(ctx, day, "Coffee", "Food", money("0"), core.Cash)
	if !errors.Is(err, core.ErrNonPositiveAmount) {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
	if got := len(s.Expenses()); got != 0 {
		t.Fatalf("rejected add must leave the table unchanged, got %d rows", got)
	}

	rec, err := s.AddExpense(ctx, day, "Coffee", "Food", money("50"), core.Cash)
	if err != nil {
		t.Fatalf("valid add: %v", err)
	}
	expenses := s.Expenses()
	if len(expenses) != 1 || expenses[0].ID != rec.ID {
		t.Fatalf("new row must appear first, got %+v", expenses)
	}
}

func TestAddExpensePrependsNewestFirst(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	first, _ := s.AddExpense(ctx, core.NewDate(2025, 1, 1), "Older", "Food", money("10"), core.Cash)
	second, _ := s.AddExpense(ctx, core.NewDate(2025, 1, 2), "Newer", "Food", money("20"), core.Cash)

	expenses := s.Expenses()
	if expenses[0].ID != second.ID || expenses[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", expenses)
	}
}

func TestAddExpenseBlankCategoryFallsBackToOther(t *testing.T) {
	s, _ := newTestSession(t)
	rec, err := s.AddExpense(context.Background(), core.NewDate(2025, 1, 15), "Misc", "  ", money("5"), core.Online)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.Category != core.CategoryOther {
		t.Fatalf("expected Other, got %q", rec.Category)
	}
}

func TestAddExpensePersistsAcrossSessions(t *testing.T) {
	s, dir := newTestSession(t)
	_, err := s.AddExpense(context.Background(), core.NewDate(2025, 1, 15), "Coffee", "Food", money("50"), core.Cash)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	reopened, err := NewSession(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	expenses := reopened.Expenses()
	if len(expenses) != 1 || expenses[0].Item != "Coffee" || !expenses[0].Amount.Equal(money("50")) {
		t.Fatalf("expense did not survive reload: %+v", expenses)
	}
}

func TestAddFundDefaultsSource(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	rec, err := s.AddFund(ctx, core.NewDate(2025, 1, 15), "  ", core.Online, money("100"))
	if err != nil {
		t.Fatalf("add fund: %v", err)
	}
	if rec.Source != "Manual Add" {
		t.Fatalf("expected Manual Add, got %q", rec.Source)
	}

	if _, err := s.AddFund(ctx, core.NewDate(2025, 1, 15), "x", core.Online, money("-5")); !errors.Is(err, core.ErrNonPositiveAmount) {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
}

func TestTransferConservesTotalAndPersists(t *testing.T) {
	s, dir := newTestSession(t)
	ctx := context.Background()
	day := core.NewDate(2025, 1, 15)

	if _, err := s.AddFund(ctx, day, "Salary", core.Online, money("1000")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	before := s.Balances()

	if err := s.Transfer(ctx, core.Online, core.Cash, money("250"), day); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	after := s.Balances()
	if !after.Total().Equal(before.Total()) {
		t.Fatalf("total not conserved: %s vs %s", before.Total(), after.Total())
	}
	if !after.Cash.Equal(money("250")) || !after.Online.Equal(money("750")) {
		t.Fatalf("unexpected balances: %+v", after)
	}

	reopened, err := NewSession(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := len(reopened.Funds()); got != 3 {
		t.Fatalf("expected both legs persisted with the deposit, got %d rows", got)
	}
	reloaded := reopened.Balances()
	if !reloaded.Cash.Equal(after.Cash) || !reloaded.Online.Equal(after.Online) {
		t.Fatalf("persisted balances differ: %+v vs %+v", reloaded, after)
	}
}

func TestTransferRejectsSameMode(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.Transfer(context.Background(), core.Cash, core.Cash, money("10"), core.NewDate(2025, 1, 15))
	if !errors.Is(err, core.ErrSameMode) {
		t.Fatalf("expected ErrSameMode, got %v", err)
	}
}

func TestTransferRollsBackBothLegsOnSaveFailure(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSession(dir)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	ctx := context.Background()
	day := core.NewDate(2025, 1, 15)

	if _, err := s.AddFund(ctx, day, "Salary", core.Online, money("1000")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Make the funds file unwritable by replacing it with a directory.
	path := filepath.Join(dir, "funds.csv")
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := s.Transfer(ctx, core.Online, core.Cash, money("250"), day); err == nil {
		t.Fatalf("expected save failure")
	}
	if got := len(s.Funds()); got != 1 {
		t.Fatalf("failed transfer must leave neither leg behind, got %d rows", got)
	}
	b := s.Balances()
	if !b.Online.Equal(money("1000")) || !b.Cash.IsZero() {
		t.Fatalf("balances must be untouched after rollback: %+v", b)
	}
}

func TestDeleteExpenseByID(t *testing.T) {
	s, dir := newTestSession(t)
	ctx := context.Background()
	day := core.NewDate(2025, 1, 15)

	keep, _ := s.AddExpense(ctx, day, "Keep", "Food", money("10"), core.Cash)
	drop, _ := s.AddExpense(ctx, day, "Drop", "Food", money("20"), core.Cash)

	if err := s.DeleteExpense(ctx, drop.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	expenses := s.Expenses()
	if len(expenses) != 1 || expenses[0].ID != keep.ID {
		t.Fatalf("wrong row deleted: %+v", expenses)
	}

	if err := s.DeleteExpense(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	reopened, err := NewSession(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := len(reopened.Expenses()); got != 1 {
		t.Fatalf("delete not persisted, got %d rows", got)
	}
}

func TestCleanTodoRemovesExactlyDoneItems(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	milk, _ := s.AddTodo(ctx, "Milk", "")
	if _, err := s.AddTodo(ctx, "Bread", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.ToggleTodo(ctx, milk.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	removed, err := s.CleanTodo(ctx)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	todos := s.Todos()
	if len(todos) != 1 || todos[0].Item != "Bread" || todos[0].Done {
		t.Fatalf("expected only undone Bread, got %+v", todos)
	}
}

func TestBalancesMatchDefiningFormula(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	day := core.NewDate(2025, 1, 15)

	s.AddFund(ctx, day, "Salary", core.Online, money("1000"))
	s.AddFund(ctx, day, "ATM", core.Cash, money("200"))
	s.AddExpense(ctx, day, "Groceries", "Food", money("120.50"), core.Online)
	s.AddExpense(ctx, day, "Auto", "Travel", money("40"), core.Cash)
	s.Transfer(ctx, core.Online, core.Cash, money("100"), day)

	got := s.Balances()
	want := core.ComputeBalances(s.Expenses(), s.Funds())
	if !got.Cash.Equal(want.Cash) || !got.Online.Equal(want.Online) {
		t.Fatalf("session balances drifted from formula: %+v vs %+v", got, want)
	}
	if !got.Cash.Equal(money("260")) || !got.Online.Equal(money("779.5")) {
		t.Fatalf("unexpected balances: %+v", got)
	}
}

func TestCorruptFileSurfacesWarning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expenses.csv")
	if err := os.WriteFile(path, []byte("Date,Item\n\"broken"), 0644); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	s, err := NewSession(dir)
	if err != nil {
		t.Fatalf("a corrupt file must never fail startup: %v", err)
	}
	if len(s.Expenses()) != 0 {
		t.Fatalf("expected empty expenses")
	}
	if len(s.Warnings()) != 1 {
		t.Fatalf("expected one load warning, got %v", s.Warnings())
	}
}
