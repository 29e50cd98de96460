package table

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicateIndex is returned when a node table index repeats an identifier.
	ErrDuplicateIndex = errors.New("duplicate node index")

	// ErrNonComparableIndex is returned when an index value cannot be used as
	// a map key.
	ErrNonComparableIndex = errors.New("node index must be comparable")
)

// NodeTable is a side table keyed by node identifier. Row order is the order
// of the index; attribute columns live in an ordinary Table with one row per
// index entry.
type NodeTable struct {
	index []any
	pos   map[any]int
	attrs *Table
}

// NewNodeTable creates an index-only node table (no attribute columns).
// Index values must be comparable and unique.
func NewNodeTable(index []any) (*NodeTable, error) {
	nt := &NodeTable{
		index: make([]any, 0, len(index)),
		pos:   make(map[any]int, len(index)),
		attrs: New(),
	}
	for _, id := range index {
		if err := nt.appendIndex(id); err != nil {
			return nil, err
		}
	}
	nt.attrs.rows = len(nt.index)
	return nt, nil
}

func (nt *NodeTable) appendIndex(id any) error {
	if !IsComparable(id) {
		return fmt.Errorf("%w: %v (%T)", ErrNonComparableIndex, id, id)
	}
	if _, ok := nt.pos[id]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateIndex, id)
	}
	nt.pos[id] = len(nt.index)
	nt.index = append(nt.index, id)
	return nil
}

// Append adds a row for id with the given attributes. Unknown attribute names
// add columns back-filled with missing values.
func (nt *NodeTable) Append(id any, attrs map[string]any) error {
	if err := nt.appendIndex(id); err != nil {
		return err
	}
	nt.attrs.AppendRow(attrs)
	return nil
}

// Index returns a copy of the node identifiers in row order.
func (nt *NodeTable) Index() []any { return slices.Clone(nt.index) }

// Len returns the number of rows.
func (nt *NodeTable) Len() int { return len(nt.index) }

// Columns returns the attribute column names.
func (nt *NodeTable) Columns() []string { return nt.attrs.Columns() }

// Attributes returns the attribute table. It shares storage with nt.
func (nt *NodeTable) Attributes() *Table { return nt.attrs }

// Lookup returns the row of id.
func (nt *NodeTable) Lookup(id any) (int, bool) {
	if !IsComparable(id) {
		return 0, false
	}
	i, ok := nt.pos[id]
	return i, ok
}

// Attrs returns the non-missing attributes of row i.
func (nt *NodeTable) Attrs(i int) map[string]any {
	out := make(map[string]any)
	for _, c := range nt.attrs.cols {
		if v := nt.attrs.data[c][i]; v != nil {
			out[c] = v
		}
	}
	return out
}

// Reindex returns a node table whose rows follow ids. Identifiers absent from
// nt get all-missing rows; rows of nt whose identifier is not in ids are dropped.
func (nt *NodeTable) Reindex(ids []any) (*NodeTable, error) {
	out, err := NewNodeTable(ids)
	if err != nil {
		return nil, err
	}
	for _, c := range nt.attrs.cols {
		src := nt.attrs.data[c]
		col := make([]any, len(out.index))
		for i, id := range out.index {
			if j, ok := nt.pos[id]; ok {
				col[i] = src[j]
			}
		}
		out.attrs.cols = append(out.attrs.cols, c)
		out.attrs.data[c] = col
	}
	return out, nil
}

// Clone returns a deep copy of the node table.
func (nt *NodeTable) Clone() *NodeTable {
	out := &NodeTable{
		index: slices.Clone(nt.index),
		pos:   make(map[any]int, len(nt.pos)),
		attrs: nt.attrs.Clone(),
	}
	for k, v := range nt.pos {
		out.pos[k] = v
	}
	return out
}

// Equal reports whether both node tables have the same index order and
// equal attribute tables.
func (nt *NodeTable) Equal(o *NodeTable) bool {
	if nt == nil || o == nil {
		return nt == o
	}
	if len(nt.index) != len(o.index) {
		return false
	}
	for i := range nt.index {
		if nt.index[i] != o.index[i] {
			return false
		}
	}
	return nt.attrs.Equal(o.attrs)
}
