package table

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

var (
	// ErrDuplicateColumn is returned when adding a column whose name is taken.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrLengthMismatch is returned when a column's length differs from the
	// table's row count.
	ErrLengthMismatch = errors.New("column length does not match row count")

	// ErrUnknownColumn is returned when a named column does not exist.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrRowOutOfRange is returned for row indices outside [0, Len()).
	ErrRowOutOfRange = errors.New("row index out of range")
)

// Table is a rectangular dataset of named columns holding arbitrary values.
// A nil cell is the missing value. Column order is insertion order.
//
// The zero value is not usable - use New or FromRows.
// Table is not safe for concurrent use without external synchronization.
type Table struct {
	cols []string
	data map[string][]any
	rows int
}

// New creates an empty table with the given columns and no rows.
// Duplicate names are ignored after their first occurrence.
func New(columns ...string) *Table {
	t := &Table{data: make(map[string][]any, len(columns))}
	for _, c := range columns {
		if _, ok := t.data[c]; ok {
			continue
		}
		t.cols = append(t.cols, c)
		t.data[c] = nil
	}
	return t
}

// FromRows builds a table from a header and positional rows. Every row must
// have exactly len(columns) cells.
func FromRows(columns []string, rows [][]any) (*Table, error) {
	t := New(columns...)
	if len(t.cols) != len(columns) {
		return nil, ErrDuplicateColumn
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d: %w", i, ErrLengthMismatch)
		}
		for j, c := range columns {
			t.data[c] = append(t.data[c], r[j])
		}
		t.rows++
	}
	return t, nil
}

// Columns returns a copy of the column names in table order.
func (t *Table) Columns() []string { return slices.Clone(t.cols) }

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.data[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Column returns the cells of the named column. The returned slice is shared
// with the table and must be treated as read-only.
func (t *Table) Column(name string) ([]any, bool) {
	v, ok := t.data[name]
	return v, ok
}

// Value returns the cell at (name, row), or nil if either is out of range.
func (t *Table) Value(name string, row int) any {
	col, ok := t.data[name]
	if !ok || row < 0 || row >= len(col) {
		return nil
	}
	return col[row]
}

// Set overwrites the cell at (name, row).
func (t *Table) Set(name string, row int, v any) error {
	col, ok := t.data[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if row < 0 || row >= t.rows {
		return ErrRowOutOfRange
	}
	col[row] = v
	return nil
}

// Row returns the cells of row i keyed by column name, including missing cells.
func (t *Table) Row(i int) map[string]any {
	out := make(map[string]any, len(t.cols))
	for _, c := range t.cols {
		out[c] = t.data[c][i]
	}
	return out
}

// AppendRow appends one row. Keys naming unknown columns add that column,
// back-filled with missing values; columns absent from row get a missing cell.
func (t *Table) AppendRow(row map[string]any) {
	for _, k := range sortedNewKeys(t, row) {
		t.cols = append(t.cols, k)
		t.data[k] = make([]any, t.rows)
	}
	for _, c := range t.cols {
		t.data[c] = append(t.data[c], row[c])
	}
	t.rows++
}

// sortedNewKeys returns keys of row that are not yet columns, sorted so that
// column creation order is deterministic.
func sortedNewKeys(t *Table, row map[string]any) []string {
	var keys []string
	for k := range row {
		if _, ok := t.data[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// AddColumn appends a column. A nil values slice creates an all-missing column;
// otherwise len(values) must equal Len().
func (t *Table) AddColumn(name string, values []any) error {
	if _, ok := t.data[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if values == nil {
		values = make([]any, t.rows)
	} else if len(values) != t.rows {
		return fmt.Errorf("column %q: %w", name, ErrLengthMismatch)
	}
	if len(t.cols) == 0 && t.rows == 0 {
		t.rows = len(values)
	}
	t.cols = append(t.cols, name)
	t.data[name] = slices.Clone(values)
	return nil
}

// DropColumn removes the named column and reports whether it existed.
// Row count is unaffected, even when the last column is dropped.
func (t *Table) DropColumn(name string) bool {
	if _, ok := t.data[name]; !ok {
		return false
	}
	delete(t.data, name)
	t.cols = slices.DeleteFunc(t.cols, func(c string) bool { return c == name })
	return true
}

// Keep drops every column whose name is not in keep.
func (t *Table) Keep(keep map[string]bool) {
	for _, c := range t.Columns() {
		if !keep[c] {
			t.DropColumn(c)
		}
	}
}

// RenameColumn renames a column in place, keeping its position.
func (t *Table) RenameColumn(oldName, newName string) error {
	col, ok := t.data[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, ok := t.data[newName]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, newName)
	}
	delete(t.data, oldName)
	t.data[newName] = col
	t.cols[slices.Index(t.cols, oldName)] = newName
	return nil
}

// FillMissing replaces every missing cell of the named column with v.
// Unknown columns are ignored.
func (t *Table) FillMissing(name string, v any) {
	for i, c := range t.data[name] {
		if c == nil {
			t.data[name][i] = v
		}
	}
}

// Clone returns a deep copy of the table structure. Cell values themselves
// are copied by assignment.
func (t *Table) Clone() *Table {
	out := &Table{
		cols: slices.Clone(t.cols),
		data: make(map[string][]any, len(t.data)),
		rows: t.rows,
	}
	for k, v := range t.data {
		out.data[k] = slices.Clone(v)
	}
	return out
}

// Equal reports whether both tables have the same columns in the same order
// and deeply equal cells.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.rows != o.rows || !slices.Equal(t.cols, o.cols) {
		return false
	}
	for _, c := range t.cols {
		a, b := t.data[c], o.data[c]
		for i := range a {
			if !reflect.DeepEqual(a[i], b[i]) {
				return false
			}
		}
	}
	return true
}

// IsComparable reports whether v can be used as a map key (node identifier)
// without panicking. The check looks at the value, so [1]any{[]int{1}} is
// rejected while [1]any{1} is accepted.
func IsComparable(v any) bool {
	if v == nil {
		return false
	}
	return reflect.ValueOf(v).Comparable()
}
