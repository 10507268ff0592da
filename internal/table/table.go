package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	LoadErr    = errors.New("could not load")
	ReshapeErr = errors.New("could not reshape")
	MergeErr   = errors.New("could not merge")
	ColumnErr  = errors.New("unknown column")
	NumericErr = errors.New("non-numeric value")
)

// Kind is the inferred type of a column.
type Kind int

const (
	Text Kind = iota
	Integer
	Number
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Number:
		return "number"
	default:
		return "text"
	}
}

// Table is an in-memory table of named columns.
// Cells are kept in their textual form and converted on access.
type Table struct {
	name   string
	header []string
	index  map[string]int
	kinds  []Kind
	rows   [][]string
}

// New creates a new table with the given header and rows.
// All rows must have the same width as the header.
func New(name string, header []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(header))
	h := make([]string, len(header))
	for i, c := range header {
		c = strings.TrimSpace(c)
		if _, ok := index[c]; ok {
			return nil, fmt.Errorf("duplicate column '%s' in '%s'", c, name)
		}
		index[c] = i
		h[i] = c
	}
	rr := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) != len(h) {
			return nil, fmt.Errorf("row %d has %d cells instead of %d", i+1, len(row), len(h))
		}
		r := make([]string, len(row))
		for j, cell := range row {
			r[j] = strings.TrimSpace(cell)
		}
		rr[i] = r
	}
	t := &Table{
		name:   name,
		header: h,
		index:  index,
		rows:   rr,
	}
	t.infer()
	return t, nil
}

func (t *Table) infer() {
	t.kinds = make([]Kind, len(t.header))
	for j := range t.header {
		t.kinds[j] = inferKind(t.rows, j)
	}
}

func inferKind(rows [][]string, j int) Kind {
	kind := Integer
	seen := false
	for _, row := range rows {
		cell := row[j]
		if cell == "" {
			continue
		}
		seen = true
		if kind == Integer {
			if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
				continue
			}
			kind = Number
		}
		if _, ok := ParseNumber(cell); !ok {
			return Text
		}
	}
	if !seen {
		return Text
	}
	return kind
}

// ParseNumber parses a finite float out of the given cell.
func ParseNumber(cell string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Name returns the table name, usually the source file.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns a copy of the header.
func (t *Table) Columns() []string {
	return append([]string{}, t.header...)
}

// Has checks if the table contains the given column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Kind returns the inferred kind of the column.
func (t *Table) Kind(column string) (Kind, error) {
	j, err := t.col(column)
	if err != nil {
		return Text, err
	}
	return t.kinds[j], nil
}

// Cell returns the raw value at the given row and column.
func (t *Table) Cell(i int, column string) (string, error) {
	j, err := t.col(column)
	if err != nil {
		return "", err
	}
	return t.rows[i][j], nil
}

// Row returns a copy of the row at the given index.
func (t *Table) Row(i int) []string {
	return append([]string{}, t.rows[i]...)
}

// Strings returns the raw values of the column.
func (t *Table) Strings(column string) ([]string, error) {
	j, err := t.col(column)
	if err != nil {
		return nil, err
	}
	ss := make([]string, len(t.rows))
	for i, row := range t.rows {
		ss[i] = row[j]
	}
	return ss, nil
}

// Floats returns the values of the column as floats.
// It fails on the first cell that is not a finite number.
func (t *Table) Floats(column string) ([]float64, error) {
	j, err := t.col(column)
	if err != nil {
		return nil, err
	}
	ff := make([]float64, len(t.rows))
	for i, row := range t.rows {
		f, ok := ParseNumber(row[j])
		if !ok {
			return nil, fmt.Errorf("column '%s' row %d value '%s': %w", column, i+1, row[j], NumericErr)
		}
		ff[i] = f
	}
	return ff, nil
}

// Ints returns the values of the column as integers.
// Integral floats such as '2015.0' are accepted.
func (t *Table) Ints(column string) ([]int, error) {
	ff, err := t.Floats(column)
	if err != nil {
		return nil, err
	}
	ii := make([]int, len(ff))
	for i, f := range ff {
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("column '%s' row %d value '%v' is not integral: %w", column, i+1, f, NumericErr)
		}
		ii[i] = int(f)
	}
	return ii, nil
}

// WithColumn returns a new table with the given column appended.
func (t *Table) WithColumn(column string, values []string) (*Table, error) {
	if t.Has(column) {
		return nil, fmt.Errorf("column '%s' already exists in '%s'", column, t.name)
	}
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column '%s' has %d values for %d rows", column, len(values), len(t.rows))
	}
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = append(append([]string{}, row...), values[i])
	}
	return New(t.name, append(t.Columns(), column), rows)
}

// Filter returns a new table with the rows that match the predicate.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	rows := make([][]string, 0, len(t.rows))
	for _, row := range t.rows {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	// header and widths are unchanged, so this cannot fail
	nt, _ := New(t.name, t.header, rows)
	return nt
}

// Rename returns a new table with the column renamed.
func (t *Table) Rename(from, to string) (*Table, error) {
	j, err := t.col(from)
	if err != nil {
		return nil, err
	}
	header := t.Columns()
	header[j] = to
	return New(t.name, header, t.rows)
}

// Index returns the position of the column in the header.
func (t *Table) Index(column string) (int, error) {
	return t.col(column)
}

func (t *Table) col(column string) (int, error) {
	j, ok := t.index[column]
	if !ok {
		return 0, fmt.Errorf("'%s' in '%s': %w", column, t.name, ColumnErr)
	}
	return j, nil
}
