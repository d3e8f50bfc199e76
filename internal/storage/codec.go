package storage

import (
	"kharchbook/internal/core"

	"github.com/google/uuid"
)

// The codecs translate between typed records and table rows. Decoding
// assigns each row a fresh session-scoped ID; the files themselves carry
// no identity column, so IDs never round-trip through disk.

func DecodeExpenses(t Table) []core.ExpenseRecord {
	out := make([]core.ExpenseRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		date, _ := core.ParseDate(row[0])
		amount, _ := core.MoneyFromString(row[3])
		out = append(out, core.ExpenseRecord{
			ID:       uuid.New(),
			Date:     date,
			Item:     row[1],
			Category: row[2],
			Amount:   amount,
			Mode:     core.Mode(row[4]),
		})
	}
	return out
}

func EncodeExpenses(records []core.ExpenseRecord) Table {
	t := NewTable(ExpensesSchema)
	for _, e := range records {
		t.Rows = append(t.Rows, []string{
			e.Date.String(),
			e.Item,
			e.Category,
			e.Amount.String(),
			string(e.Mode),
		})
	}
	return t
}

func DecodeFunds(t Table) []core.FundRecord {
	out := make([]core.FundRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		date, _ := core.ParseDate(row[0])
		amount, _ := core.MoneyFromString(row[3])
		out = append(out, core.FundRecord{
			ID:     uuid.New(),
			Date:   date,
			Source: row[1],
			Mode:   core.Mode(row[2]),
			Amount: amount,
		})
	}
	return out
}

func EncodeFunds(records []core.FundRecord) Table {
	t := NewTable(FundsSchema)
	for _, f := range records {
		t.Rows = append(t.Rows, []string{
			f.Date.String(),
			f.Source,
			string(f.Mode),
			f.Amount.String(),
		})
	}
	return t
}

func DecodeTodos(t Table) []core.TodoRecord {
	out := make([]core.TodoRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, core.TodoRecord{
			ID:    uuid.New(),
			Item:  row[0],
			Notes: row[1],
			Done:  row[2] == "true",
		})
	}
	return out
}

func EncodeTodos(records []core.TodoRecord) Table {
	t := NewTable(TodoSchema)
	for _, td := range records {
		done := "false"
		if td.Done {
			done = "true"
		}
		t.Rows = append(t.Rows, []string{td.Item, td.Notes, done})
	}
	return t
}
