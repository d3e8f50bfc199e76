package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"kharchbook/internal/core"
	"kharchbook/internal/storage"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record ID does not address any row.
var ErrNotFound = errors.New("record not found")

// defaultFundSource is used when the add-funds form leaves the source blank.
const defaultFundSource = "Manual Add"

// Session owns the three in-memory tables and their stores. The store is
// the single source of truth: every accepted mutation persists before it
// returns, and a failed persist rolls the in-memory table back, so the
// working copy never drifts ahead of disk.
//
// One session serves one ledger directory; mutations are serialized by the
// session mutex (the model is single-user, one action at a time).
type Session struct {
	mu sync.Mutex

	expenses []core.ExpenseRecord
	funds    []core.FundRecord
	todos    []core.TodoRecord

	expenseStore *storage.Store
	fundStore    *storage.Store
	todoStore    *storage.Store

	warnings []string
}

// NewSession loads the three tables from dataDir. Unparsable files degrade
// to empty tables and are reported via Warnings; a fresh directory is not
// an error.
func NewSession(dataDir string) (*Session, error) {
	s := &Session{
		expenseStore: storage.NewStore(filepath.Join(dataDir, "expenses.csv"), storage.ExpensesSchema),
		fundStore:    storage.NewStore(filepath.Join(dataDir, "funds.csv"), storage.FundsSchema),
		todoStore:    storage.NewStore(filepath.Join(dataDir, "todo.csv"), storage.TodoSchema),
	}

	expenseTable, err := s.expenseStore.Load()
	s.noteLoadError(err)
	s.expenses = storage.DecodeExpenses(expenseTable)

	fundTable, err := s.fundStore.Load()
	s.noteLoadError(err)
	s.funds = storage.DecodeFunds(fundTable)

	todoTable, err := s.todoStore.Load()
	s.noteLoadError(err)
	s.todos = storage.DecodeTodos(todoTable)

	slog.Info("Ledger session opened",
		"data_dir", dataDir,
		"expenses", len(s.expenses),
		"funds", len(s.funds),
		"todos", len(s.todos),
		"load_warnings", len(s.warnings))

	return s, nil
}

func (s *Session) noteLoadError(err error) {
	if err == nil {
		return
	}
	var loadErr *storage.LoadError
	if errors.As(err, &loadErr) {
		slog.Warn("Persisted table unreadable, starting empty", "path", loadErr.Path, "error", loadErr.Err)
		s.warnings = append(s.warnings, loadErr.Error())
		return
	}
	slog.Warn("Load failed", "error", err)
	s.warnings = append(s.warnings, err.Error())
}

// Warnings reports load-time degradations (a table that existed on disk
// but could not be parsed).
func (s *Session) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// AddExpense validates and records a new expense at the top of the table
// (newest first), persisting immediately.
func (s *Session) AddExpense(ctx context.Context, date core.Date, item, category string, amount core.Money, mode core.Mode) (core.ExpenseRecord, error) {
	rec := core.ExpenseRecord{
		ID:       uuid.New(),
		Date:     date,
		Item:     strings.TrimSpace(item),
		Category: core.NormalizeCategory(category),
		Amount:   amount,
		Mode:     mode,
	}
	if err := rec.Validate(); err != nil {
		return core.ExpenseRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.expenses
	s.expenses = append([]core.ExpenseRecord{rec}, s.expenses...)
	if err := s.persistExpenses(); err != nil {
		s.expenses = old
		return core.ExpenseRecord{}, err
	}

	slog.InfoContext(ctx, "Expense added",
		"id", rec.ID,
		"item", rec.Item,
		"category", rec.Category,
		"amount", rec.Amount.String(),
		"mode", rec.Mode)
	return rec, nil
}

// AddFund validates and records a deposit. A blank source defaults to
// "Manual Add"; explicit deposits must be positive (transfer legs are the
// only negative fund rows and are synthesized by Transfer).
func (s *Session) AddFund(ctx context.Context, date core.Date, source string, mode core.Mode, amount core.Money) (core.FundRecord, error) {
	if !amount.IsPositive() {
		return core.FundRecord{}, core.ErrNonPositiveAmount
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = defaultFundSource
	}
	rec := core.FundRecord{
		ID:     uuid.New(),
		Date:   date,
		Source: source,
		Mode:   mode,
		Amount: amount,
	}
	if err := rec.Validate(); err != nil {
		return core.FundRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.funds
	s.funds = append([]core.FundRecord{rec}, s.funds...)
	if err := s.persistFunds(); err != nil {
		s.funds = old
		return core.FundRecord{}, err
	}

	slog.InfoContext(ctx, "Funds added",
		"id", rec.ID,
		"source", rec.Source,
		"amount", rec.Amount.String(),
		"mode", rec.Mode)
	return rec, nil
}

// Transfer moves amount between channels as a synthetic fund pair. The two
// legs are appended and persisted together: on a failed save neither
// survives, which keeps the cross-channel total conserved exactly.
func (s *Session) Transfer(ctx context.Context, from, to core.Mode, amount core.Money, date core.Date) error {
	if err := from.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}
	if from == to {
		return core.ErrSameMode
	}
	if !amount.IsPositive() {
		return core.ErrNonPositiveAmount
	}
	if err := date.Validate(); err != nil {
		return err
	}

	out, in := core.TransferLegs(from, to, amount, date)

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.funds
	s.funds = append([]core.FundRecord{out, in}, s.funds...)
	if err := s.persistFunds(); err != nil {
		s.funds = old
		return err
	}

	slog.InfoContext(ctx, "Channel transfer recorded",
		"from", from,
		"to", to,
		"amount", amount.String(),
		"date", date.String())
	return nil
}

// DeleteExpense removes the expense addressed by id.
func (s *Session) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.expenses {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}

	old := s.expenses
	next := make([]core.ExpenseRecord, 0, len(old)-1)
	next = append(next, old[:idx]...)
	next = append(next, old[idx+1:]...)
	s.expenses = next
	if err := s.persistExpenses(); err != nil {
		s.expenses = old
		return err
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// DeleteFund removes the fund row addressed by id.
func (s *Session) DeleteFund(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, f := range s.funds {
		if f.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("fund %s: %w", id, ErrNotFound)
	}

	old := s.funds
	next := make([]core.FundRecord, 0, len(old)-1)
	next = append(next, old[:idx]...)
	next = append(next, old[idx+1:]...)
	s.funds = next
	if err := s.persistFunds(); err != nil {
		s.funds = old
		return err
	}

	slog.InfoContext(ctx, "Fund deleted", "id", id)
	return nil
}

// AddTodo appends a checklist item.
func (s *Session) AddTodo(ctx context.Context, item, notes string) (core.TodoRecord, error) {
	rec := core.TodoRecord{
		ID:    uuid.New(),
		Item:  strings.TrimSpace(item),
		Notes: strings.TrimSpace(notes),
	}
	if err := rec.Validate(); err != nil {
		return core.TodoRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.todos
	s.todos = append(append([]core.TodoRecord(nil), old...), rec)
	if err := s.persistTodos(); err != nil {
		s.todos = old
		return core.TodoRecord{}, err
	}

	slog.InfoContext(ctx, "Todo added", "id", rec.ID, "item", rec.Item)
	return rec, nil
}

// ToggleTodo flips the done flag of the item addressed by id.
func (s *Session) ToggleTodo(ctx context.Context, id uuid.UUID) (core.TodoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, td := range s.todos {
		if td.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.TodoRecord{}, fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}

	old := s.todos
	next := append([]core.TodoRecord(nil), old...)
	next[idx].Done = !next[idx].Done
	s.todos = next
	if err := s.persistTodos(); err != nil {
		s.todos = old
		return core.TodoRecord{}, err
	}

	slog.InfoContext(ctx, "Todo toggled", "id", id, "done", next[idx].Done)
	return next[idx], nil
}

// DeleteTodo removes the checklist item addressed by id.
func (s *Session) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, td := range s.todos {
		if td.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}

	old := s.todos
	next := make([]core.TodoRecord, 0, len(old)-1)
	next = append(next, old[:idx]...)
	next = append(next, old[idx+1:]...)
	s.todos = next
	if err := s.persistTodos(); err != nil {
		s.todos = old
		return err
	}

	slog.InfoContext(ctx, "Todo deleted", "id", id)
	return nil
}

// CleanTodo removes every checklist row marked done and reports how many
// were dropped.
func (s *Session) CleanTodo(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.todos
	next := make([]core.TodoRecord, 0, len(old))
	for _, td := range old {
		if !td.Done {
			next = append(next, td)
		}
	}
	removed := len(old) - len(next)
	if removed == 0 {
		return 0, nil
	}

	s.todos = next
	if err := s.persistTodos(); err != nil {
		s.todos = old
		return 0, err
	}

	slog.InfoContext(ctx, "Todo list cleaned", "removed", removed, "remaining", len(next))
	return removed, nil
}

// Expenses returns a copy of the expense table, newest first.
func (s *Session) Expenses() []core.ExpenseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ExpenseRecord(nil), s.expenses...)
}

// Funds returns a copy of the funds table, newest first.
func (s *Session) Funds() []core.FundRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.FundRecord(nil), s.funds...)
}

// Todos returns a copy of the checklist.
func (s *Session) Todos() []core.TodoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.TodoRecord(nil), s.todos...)
}

// Balances recomputes the per-channel balances from scratch.
func (s *Session) Balances() core.Balances {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.ComputeBalances(s.expenses, s.funds)
}

// Categories derives the category options from the current expenses.
func (s *Session) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.DeriveCategories(s.expenses)
}

// DailySpend sums spending on the given date.
func (s *Session) DailySpend(date core.Date) core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.DailySpend(s.expenses, date)
}

// TotalSpend sums all recorded spending.
func (s *Session) TotalSpend() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.TotalSpend(s.expenses)
}

// CategoryBreakdown groups spending totals by category.
func (s *Session) CategoryBreakdown() map[string]core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CategoryBreakdown(s.expenses)
}

// DailyTrend returns spending grouped by date, ascending.
func (s *Session) DailyTrend() []core.DailyTotal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.DailyTrend(s.expenses)
}

// ExportExpenses writes the expense table in the persisted file format.
func (s *Session) ExportExpenses(w io.Writer) error {
	s.mu.Lock()
	table := storage.EncodeExpenses(s.expenses)
	s.mu.Unlock()
	return storage.WriteTable(w, table)
}

// BackupDue reports whether the month-end backup reminder should show
// (late in the month, time to download a copy).
func BackupDue(now time.Time) bool {
	return now.Day() > 25
}

func (s *Session) persistExpenses() error {
	if err := s.expenseStore.Save(storage.EncodeExpenses(s.expenses)); err != nil {
		return fmt.Errorf("persist expenses: %w", err)
	}
	return nil
}

func (s *Session) persistFunds() error {
	if err := s.fundStore.Save(storage.EncodeFunds(s.funds)); err != nil {
		return fmt.Errorf("persist funds: %w", err)
	}
	return nil
}

func (s *Session) persistTodos() error {
	if err := s.todoStore.Save(storage.EncodeTodos(s.todos)); err != nil {
		return fmt.Errorf("persist todos: %w", err)
	}
	return nil
}
