package core

import (
	"testing"

	"github.com/google/uuid"
)

func expense(date Date, item, category, amount string, mode Mode) ExpenseRecord {
	return ExpenseRecord{
		ID:       uuid.New(),
		Date:     date,
		Item:     item,
		Category: category,
		Amount:   money(amount),
		Mode:     mode,
	}
}

func fund(date Date, source, amount string, mode Mode) FundRecord {
	return FundRecord{
		ID:     uuid.New(),
		Date:   date,
		Source: source,
		Mode:   mode,
		Amount: money(amount),
	}
}

func TestComputeBalances(t *testing.T) {
	day := NewDate(2025, 2, 1)
	funds := []FundRecord{
		fund(day, "Salary", "1000", Online),
		fund(day, "Manual Add", "300", Cash),
	}
	expenses := []ExpenseRecord{
		expense(day, "Groceries", "Food", "120.50", Online),
		expense(day, "Auto", "Travel", "40", Cash),
		expense(day, "Recharge", "Bills", "10", Mode("UPI")), // legacy mode counts as Online
	}

	b := ComputeBalances(expenses, funds)
	if got := b.Online.String(); got != "869.5" {
		t.Fatalf("online: expected 869.5, got %s", got)
	}
	if got := b.Cash.String(); got != "260" {
		t.Fatalf("cash: expected 260, got %s", got)
	}
}

func TestTransferConservesTotal(t *testing.T) {
	day := NewDate(2025, 2, 1)
	funds := []FundRecord{
		fund(day, "Salary", "1000", Online),
		fund(day, "Manual Add", "300", Cash),
	}
	var expenses []ExpenseRecord

	before := ComputeBalances(expenses, funds)

	out, in := TransferLegs(Online, Cash, money("250"), day)
	funds = append(funds, out, in)
	after := ComputeBalances(expenses, funds)

	if !after.Total().Equal(before.Total()) {
		t.Fatalf("total not conserved: before %s, after %s", before.Total(), after.Total())
	}
	if !after.Cash.Equal(before.Cash.Add(money("250"))) {
		t.Fatalf("cash: expected %s, got %s", before.Cash.Add(money("250")), after.Cash)
	}
	if !after.Online.Equal(before.Online.Sub(money("250"))) {
		t.Fatalf("online: expected %s, got %s", before.Online.Sub(money("250")), after.Online)
	}
}

func TestTransferLegSources(t *testing.T) {
	out, in := TransferLegs(Cash, Online, money("75"), NewDate(2025, 2, 1))
	if out.Source != "Transfer to Online" || out.Mode != Cash || !out.Amount.Equal(money("-75")) {
		t.Fatalf("bad outgoing leg: %+v", out)
	}
	if in.Source != "Transfer from Cash" || in.Mode != Online || !in.Amount.Equal(money("75")) {
		t.Fatalf("bad incoming leg: %+v", in)
	}
	if out.Validate() != nil || in.Validate() != nil {
		t.Fatalf("transfer legs must validate")
	}
}

func TestDailySpend(t *testing.T) {
	d1 := NewDate(2025, 2, 1)
	d2 := NewDate(2025, 2, 2)
	expenses := []ExpenseRecord{
		expense(d1, "a", "Food", "10", Cash),
		expense(d1, "b", "Food", "15.5", Online),
		expense(d2, "c", "Food", "99", Cash),
	}
	if got := DailySpend(expenses, d1).String(); got != "25.5" {
		t.Fatalf("expected 25.5, got %s", got)
	}
	if got := DailySpend(expenses, NewDate(2025, 3, 1)); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	d := NewDate(2025, 2, 1)
	expenses := []ExpenseRecord{
		expense(d, "a", "Food", "10", Cash),
		expense(d, "b", "Food", "5", Online),
		expense(d, "c", "Travel", "30", Cash),
	}
	got := CategoryBreakdown(expenses)
	if !got["Food"].Equal(money("15")) {
		t.Fatalf("Food: expected 15, got %s", got["Food"])
	}
	if !got["Travel"].Equal(money("30")) {
		t.Fatalf("Travel: expected 30, got %s", got["Travel"])
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
}

func TestDailyTrendSortedAscending(t *testing.T) {
	expenses := []ExpenseRecord{
		expense(NewDate(2025, 2, 3), "a", "Food", "1", Cash),
		expense(NewDate(2025, 2, 1), "b", "Food", "2", Cash),
		expense(NewDate(2025, 2, 3), "c", "Food", "4", Cash),
		expense(NewDate(2025, 2, 2), "d", "Food", "8", Cash),
	}
	trend := DailyTrend(expenses)
	if len(trend) != 3 {
		t.Fatalf("expected 3 points, got %d", len(trend))
	}
	for i := 1; i < len(trend); i++ {
		if !trend[i-1].Date.Before(trend[i].Date.Time) {
			t.Fatalf("trend not ascending at %d: %s >= %s", i, trend[i-1].Date, trend[i].Date)
		}
	}
	if !trend[2].Total.Equal(money("5")) {
		t.Fatalf("2025-02-03 total: expected 5, got %s", trend[2].Total)
	}
}
