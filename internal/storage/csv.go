package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Table is the loaded form of one persisted file: rows of canonical string
// cells aligned with the schema's column order.
type Table struct {
	Schema Schema
	Rows   [][]string
}

// NewTable returns an empty table with the expected shape.
func NewTable(schema Schema) Table {
	return Table{Schema: schema}
}

// LoadError marks a persisted file that existed but could not be parsed.
// The load still yields a usable empty table; callers decide whether to
// warn the user. Starting from scratch silently is treated as a bug in the
// original design, not behavior to keep.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Store persists one table as a flat comma-delimited file with a header row.
type Store struct {
	path   string
	schema Schema
}

func NewStore(path string, schema Schema) *Store {
	return &Store{path: path, schema: schema}
}

func (s *Store) Path() string { return s.path }

// Load reads the file into a typed table.
//
// A missing file is a fresh ledger: empty table, no error. A file that
// cannot be parsed also yields the empty table, but with a *LoadError so
// startup can degrade loudly instead of silently. Columns the schema
// expects but the file lacks are backfilled with their defaults, which is
// the migration path for files written by older revisions.
func (s *Store) Load() (Table, error) {
	table := NewTable(s.schema)

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return table, nil
		}
		return table, &LoadError{Path: s.path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return table, &LoadError{Path: s.path, Err: err}
	}
	if len(records) == 0 {
		return table, nil
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	for _, rec := range records[1:] {
		row := make([]string, len(s.schema.Columns))
		for i, col := range s.schema.Columns {
			pos, ok := index[col.Name]
			if !ok || pos >= len(rec) {
				row[i] = col.Default()
				continue
			}
			row[i] = normalizeCell(col.Kind, rec[pos])
		}
		table.Rows = append(table.Rows, row)
	}

	slog.Debug("Table loaded", "table", s.schema.Name, "path", s.path, "rows", len(table.Rows))
	return table, nil
}

// Save serializes the full table, overwriting the file in place. Write
// failures propagate so the caller can roll back its in-memory mutation.
func (s *Store) Save(t Table) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}

	if err := WriteTable(f, t); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}

	slog.Debug("Table saved", "table", s.schema.Name, "path", s.path, "rows", len(t.Rows))
	return nil
}

// WriteTable encodes a table as delimited text with its header row. Save
// and the user-facing export share this, so the download is byte-identical
// in shape to the persisted file.
func WriteTable(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Schema.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// truthy is the fixed token set for boolean columns; anything else is false.
var truthy = map[string]bool{"true": true, "1": true, "yes": true, "t": true}

// dateInputLayouts are accepted on load; output is always YYYY-MM-DD with
// any time-of-day discarded.
var dateInputLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

func normalizeCell(kind Kind, cell string) string {
	cell = strings.TrimSpace(cell)
	switch kind {
	case KindDate:
		for _, layout := range dateInputLayouts {
			if t, err := time.Parse(layout, cell); err == nil {
				return t.Format("2006-01-02")
			}
		}
		return ""
	case KindDecimal:
		d, err := decimal.NewFromString(cell)
		if err != nil {
			return "0"
		}
		return d.String()
	case KindBool:
		if truthy[strings.ToLower(cell)] {
			return "true"
		}
		return "false"
	default:
		return cell
	}
}
