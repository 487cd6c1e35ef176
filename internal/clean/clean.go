package clean

import (
	"errors"
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/findex-cli/internal/table"
)

var (
	// ErrMissingRequiredColumn indicates a required column was excluded before cleaning.
	ErrMissingRequiredColumn = errors.New("required column missing")
	// ErrIncompatibleRule indicates a numeric strategy was assigned to a categorical column.
	ErrIncompatibleRule = errors.New("imputation rule does not fit column")
	// ErrUnknownStrategy is returned by ParseStrategy.
	ErrUnknownStrategy = errors.New("unknown imputation strategy")
)

// Strategy selects how missing cells of a column are filled.
type Strategy int

const (
	// Mean fills with the mean of the column's observed values.
	Mean Strategy = iota + 1
	// Median fills with the median of the column's observed values.
	Median
	// ForwardFill carries the nearest preceding observed value down; a missing first row stays missing.
	ForwardFill
	// Zero fills with the constant 0.
	Zero
)

func (s Strategy) String() string {
	switch s {
	case Mean:
		return "mean"
	case Median:
		return "median"
	case ForwardFill:
		return "ffill"
	case Zero:
		return "zero"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts the canonical names and a few common aliases.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mean", "average":
		return Mean, nil
	case "median":
		return Median, nil
	case "ffill", "forward-fill", "forward_fill", "mode", "mode-via-forward-fill":
		return ForwardFill, nil
	case "zero", "constant-zero", "0":
		return Zero, nil
	default:
		return 0, fmt.Errorf("%w: %q (use mean|median|ffill|zero)", ErrUnknownStrategy, s)
	}
}

// Rules maps column names to their imputation strategy.
type Rules map[string]Strategy

// Merge returns a copy of r with every entry of over applied on top.
func (r Rules) Merge(over Rules) Rules {
	out := make(Rules, len(r)+len(over))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// DropIncomplete removes every row that is missing a value in any required column.
// Row order is preserved.
func DropIncomplete(t *table.Table, required []string) (*table.Table, error) {
	if miss := t.Missing(required...); len(miss) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequiredColumn, strings.Join(miss, ", "))
	}
	return t.FilterRows(func(row int) bool {
		for _, name := range required {
			if t.Cell(row, name).IsMissing() {
				return false
			}
		}
		return true
	}), nil
}

// Impute fills missing cells of every column that has a rule. Fill values are
// computed from the column as given, before any of its cells are replaced.
// Rules for columns absent from t are ignored; columns without a rule are left as is.
func Impute(t *table.Table, rules Rules) (*table.Table, error) {
	out := t
	for _, name := range t.Names() {
		strategy, ok := rules[name]
		if !ok {
			continue
		}
		col, _ := t.Column(name)
		filled, err := fill(col, strategy)
		if err != nil {
			return nil, err
		}
		if out, err = out.WithColumn(filled); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clean runs DropIncomplete followed by Impute.
func Clean(t *table.Table, required []string, rules Rules) (*table.Table, error) {
	dropped, err := DropIncomplete(t, required)
	if err != nil {
		return nil, err
	}
	return Impute(dropped, rules)
}

func fill(col table.Column, s Strategy) (table.Column, error) {
	switch s {
	case Mean, Median:
		if !col.Numeric() {
			return col, fmt.Errorf("%w: %s on categorical column %q", ErrIncompatibleRule, s, col.Name)
		}
		vals := col.Floats()
		if len(vals) == 0 {
			return col, nil
		}
		var v float64
		var err error
		if s == Mean {
			v, err = stats.Mean(vals)
		} else {
			v, err = stats.Median(vals)
		}
		if err != nil {
			return col, fmt.Errorf("%s of %q: %w", s, col.Name, err)
		}
		return constant(col, table.Num(v)), nil
	case Zero:
		return constant(col, table.Num(0)), nil
	case ForwardFill:
		last := table.NA()
		for i, c := range col.Cells {
			if c.IsMissing() {
				col.Cells[i] = last
				continue
			}
			last = c
		}
		return col, nil
	default:
		return col, fmt.Errorf("%w: %s", ErrUnknownStrategy, s)
	}
}

func constant(col table.Column, v table.Cell) table.Column {
	for i, c := range col.Cells {
		if c.IsMissing() {
			col.Cells[i] = v
		}
	}
	return col
}
