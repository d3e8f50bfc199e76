package core

import (
	"sort"

	"github.com/google/uuid"
)

// Balances holds the two derived channel balances. They are never stored:
// every read recomputes them from the source tables, so they cannot drift.
type Balances struct {
	Cash   Money
	Online Money
}

// Total is the sum of money across both channels.
func (b Balances) Total() Money {
	return b.Cash.Add(b.Online)
}

// DailyTotal is one point of the spend-over-time projection.
type DailyTotal struct {
	Date  Date
	Total Money
}

// ComputeBalances derives the per-channel balances:
// funds in minus expenses out, per channel.
func ComputeBalances(expenses []ExpenseRecord, funds []FundRecord) Balances {
	var b Balances
	for _, f := range funds {
		if f.Mode.Channel() == Cash {
			b.Cash = b.Cash.Add(f.Amount)
		} else {
			b.Online = b.Online.Add(f.Amount)
		}
	}
	for _, e := range expenses {
		if e.Mode.Channel() == Cash {
			b.Cash = b.Cash.Sub(e.Amount)
		} else {
			b.Online = b.Online.Sub(e.Amount)
		}
	}
	return b
}

// DailySpend sums expense amounts on the given calendar date.
func DailySpend(expenses []ExpenseRecord, date Date) Money {
	var total Money
	for _, e := range expenses {
		if e.Date.Equal(date) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalSpend sums all expense amounts.
func TotalSpend(expenses []ExpenseRecord) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// CategoryBreakdown groups expense totals by category.
func CategoryBreakdown(expenses []ExpenseRecord) map[string]Money {
	out := make(map[string]Money)
	for _, e := range expenses {
		out[e.Category] = out[e.Category].Add(e.Amount)
	}
	return out
}

// DailyTrend groups expense totals by date, ascending.
func DailyTrend(expenses []ExpenseRecord) []DailyTotal {
	byDay := make(map[string]DailyTotal)
	for _, e := range expenses {
		key := e.Date.String()
		dt := byDay[key]
		dt.Date = e.Date
		dt.Total = dt.Total.Add(e.Amount)
		byDay[key] = dt
	}

	out := make([]DailyTotal, 0, len(byDay))
	for _, dt := range byDay {
		out = append(out, dt)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

// TransferLegs synthesizes the balance-neutral fund pair moving amount from
// one channel to the other. The two legs cancel exactly, so the total across
// channels is conserved; callers must append and persist them together.
func TransferLegs(from, to Mode, amount Money, date Date) (out, in FundRecord) {
	out = FundRecord{
		ID:     uuid.New(),
		Date:   date,
		Source: "Transfer to " + string(to),
		Mode:   from,
		Amount: amount.Neg(),
	}
	in = FundRecord{
		ID:     uuid.New(),
		Date:   date,
		Source: "Transfer from " + string(from),
		Mode:   to,
		Amount: amount,
	}
	return out, in
}
