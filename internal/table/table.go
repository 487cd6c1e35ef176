package table

import (
	"fmt"
	"math"
	"strconv"
)

// Type classifies a single cell.
type Type int

const (
	Missing Type = iota
	Number
	Text
)

// Cell is one value of a column. The zero Cell is missing.
type Cell struct {
	Type Type
	Num  float64
	Str  string
}

// NA returns a missing cell.
func NA() Cell { return Cell{} }

// Num returns a numeric cell. NaN is stored as missing.
func Num(f float64) Cell {
	if math.IsNaN(f) {
		return Cell{}
	}
	return Cell{Type: Number, Num: f}
}

// Str returns a categorical cell.
func Str(s string) Cell { return Cell{Type: Text, Str: s} }

func (c Cell) IsMissing() bool { return c.Type == Missing }

// String renders the cell for display; missing cells render as "NaN".
func (c Cell) String() string {
	switch c.Type {
	case Number:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case Text:
		return c.Str
	default:
		return "NaN"
	}
}

// Column is a named sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// NewNumeric builds a numeric column; NaN entries become missing cells.
func NewNumeric(name string, vals ...float64) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = Num(v)
	}
	return Column{Name: name, Cells: cells}
}

// NewText builds a categorical column; empty strings become missing cells.
func NewText(name string, vals ...string) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		if v == "" {
			continue
		}
		cells[i] = Str(v)
	}
	return Column{Name: name, Cells: cells}
}

// Numeric reports whether the column holds no categorical cells.
// A column with only missing cells counts as numeric.
func (c Column) Numeric() bool {
	for _, cell := range c.Cells {
		if cell.Type == Text {
			return false
		}
	}
	return true
}

// Floats returns the non-missing numeric values in row order.
func (c Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Type == Number {
			out = append(out, cell.Num)
		}
	}
	return out
}

// Missing counts missing cells.
func (c Column) Missing() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.IsMissing() {
			n++
		}
	}
	return n
}

func (c Column) clone() Column {
	cells := make([]Cell, len(c.Cells))
	copy(cells, c.Cells)
	return Column{Name: c.Name, Cells: cells}
}

// Table is an immutable, ordered set of equal-length columns.
// Every derivation returns a new Table; the receiver is never modified.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New builds a table from columns. Column cells are copied.
func New(cols ...Column) (*Table, error) {
	t := &Table{cols: make([]Column, 0, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		if i == 0 {
			t.rows = len(c.Cells)
		} else if len(c.Cells) != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrRaggedColumns, c.Name, len(c.Cells), t.rows)
		}
		t.index[c.Name] = i
		t.cols = append(t.cols, c.clone())
	}
	return t, nil
}

// MustNew is New for literals in tests and fixed schemas.
func MustNew(cols ...Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Rows() int { return t.rows }
func (t *Table) Cols() int { return len(t.cols) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i].clone(), true
}

// Cell returns the cell at row for the named column; unknown columns yield a missing cell.
func (t *Table) Cell(row int, name string) Cell {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.rows {
		return NA()
	}
	return t.cols[i].Cells[row]
}

// Row returns the cells of one row in column order.
func (t *Table) Row(row int) []Cell {
	out := make([]Cell, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.Cells[row]
	}
	return out
}

// Missing reports the names of the given columns that the table lacks.
func (t *Table) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if !t.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// Select returns a table holding the named columns in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	if miss := t.Missing(names...); len(miss) > 0 {
		return nil, &ColumnNotFoundError{Names: miss}
	}
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		cols = append(cols, t.cols[t.index[n]])
	}
	return New(cols...)
}

// FilterRows returns a table holding the rows for which keep returns true.
func (t *Table) FilterRows(keep func(row int) bool) *Table {
	var rows []int
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	out := &Table{cols: make([]Column, len(t.cols)), index: make(map[string]int, len(t.cols)), rows: len(rows)}
	for j, c := range t.cols {
		cells := make([]Cell, len(rows))
		for k, r := range rows {
			cells[k] = c.Cells[r]
		}
		out.cols[j] = Column{Name: c.Name, Cells: cells}
		out.index[c.Name] = j
	}
	return out
}

// WithColumn returns a table where col replaces the column of the same name,
// or is appended when no such column exists.
func (t *Table) WithColumn(col Column) (*Table, error) {
	if len(t.cols) > 0 && len(col.Cells) != t.rows {
		return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrRaggedColumns, col.Name, len(col.Cells), t.rows)
	}
	cols := make([]Column, len(t.cols), len(t.cols)+1)
	copy(cols, t.cols)
	if i, ok := t.index[col.Name]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return New(cols...)
}

// Head returns a table with at most n rows.
func (t *Table) Head(n int) *Table {
	return t.FilterRows(func(row int) bool { return row < n })
}
