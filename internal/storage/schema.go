package storage

// Kind is the value type of a table column. Cells are held as canonical
// strings; the kind drives normalization on load and the backfill default
// when an older file is missing the column.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindDecimal
	KindMode
	KindBool
)

type Column struct {
	Name string
	Kind Kind
}

// Schema names a table and fixes its column order. The column names are the
// file's header row, exactly.
type Schema struct {
	Name    string
	Columns []Column
}

var (
	ExpensesSchema = Schema{
		Name: "expenses",
		Columns: []Column{
			{Name: "Date", Kind: KindDate},
			{Name: "Item", Kind: KindText},
			{Name: "Category", Kind: KindText},
			{Name: "Amount", Kind: KindDecimal},
			{Name: "Mode", Kind: KindMode},
		},
	}

	FundsSchema = Schema{
		Name: "funds",
		Columns: []Column{
			{Name: "Date", Kind: KindDate},
			{Name: "Source", Kind: KindText},
			{Name: "Mode", Kind: KindMode},
			{Name: "Amount", Kind: KindDecimal},
		},
	}

	TodoSchema = Schema{
		Name: "todo",
		Columns: []Column{
			{Name: "Item", Kind: KindText},
			{Name: "Notes", Kind: KindText},
			{Name: "Done", Kind: KindBool},
		},
	}
)

// Default is the backfill value used when a column is absent from a
// persisted file: older files gain new columns without data loss.
func (c Column) Default() string {
	switch c.Kind {
	case KindMode:
		return "Online"
	case KindBool:
		return "false"
	default:
		return ""
	}
}

// Header returns the column names in order.
func (s Schema) Header() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}
