package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// DefaultIndexColumn is the header used for the index column of node tables
// written by [WriteNodeCSV] when no name is given.
const DefaultIndexColumn = "id"

// ReadCSV decodes a table from CSV. The first record is the header.
//
// Cells are typed by inference, in order: empty string is missing (nil),
// then int, float64, bool ("true"/"false" only), else string.
// ReadCSV does not close r.
func ReadCSV(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(records) == 0 {
		return New(), nil
	}
	header := records[0]
	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]any, len(rec))
		for i, s := range rec {
			row[i] = ParseCell(s)
		}
		rows = append(rows, row)
	}
	return FromRows(header, rows)
}

// WriteCSV encodes t as CSV with a header record.
func WriteCSV(t *Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.cols); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	rec := make([]string, len(t.cols))
	for i := 0; i < t.rows; i++ {
		for j, c := range t.cols {
			rec[j] = FormatCell(t.data[c][i])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadNodeCSV decodes a node table. The first column is the index.
func ReadNodeCSV(r io.Reader) (*NodeTable, error) {
	t, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	if len(t.cols) == 0 {
		return NewNodeTable(nil)
	}
	indexCol := t.cols[0]
	index, _ := t.Column(indexCol)
	nt, err := NewNodeTable(index)
	if err != nil {
		return nil, err
	}
	for _, c := range t.cols[1:] {
		col, _ := t.Column(c)
		if err := nt.attrs.AddColumn(c, col); err != nil {
			return nil, err
		}
	}
	return nt, nil
}

// WriteNodeCSV encodes a node table with its index as the first column,
// headed by indexName (or [DefaultIndexColumn] when empty).
func WriteNodeCSV(nt *NodeTable, indexName string, w io.Writer) error {
	if indexName == "" {
		indexName = DefaultIndexColumn
	}
	out := New(indexName)
	out.data[indexName] = nt.Index()
	out.rows = nt.Len()
	for _, c := range nt.attrs.cols {
		col, _ := nt.attrs.Column(c)
		if err := out.AddColumn(c, col); err != nil {
			return err
		}
	}
	return WriteCSV(out, w)
}

// ImportCSV reads the CSV file at path.
func ImportCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ExportCSV writes t to a CSV file at path.
func ExportCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(t, f)
}

// ParseCell infers a typed value from a CSV cell.
func ParseCell(s string) any {
	if s == "" {
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// FormatCell renders a value as a CSV cell. Missing values become "".
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}
