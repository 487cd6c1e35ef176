package analysis

import (
	"fmt"

	"github.com/KaramelBytes/findex-cli/internal/table"
)

// Box is the five-number summary of one category, drawn as a box plot by the caller.
// Whiskers reach the most extreme observations within 1.5 IQR of the box.
type Box struct {
	Group        string    `json:"group"`
	N            int       `json:"n"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// BoxSummary groups the numeric column value by the distinct values of category,
// in first-seen order. Rows missing either field are skipped.
func BoxSummary(t *table.Table, category, value string) ([]Box, error) {
	if miss := t.Missing(category, value); len(miss) > 0 {
		return nil, &table.ColumnNotFoundError{Names: miss}
	}
	valCol, _ := t.Column(value)
	if !valCol.Numeric() {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, value)
	}
	catCol, _ := t.Column(category)

	var order []string
	groups := map[string][]float64{}
	for i, c := range catCol.Cells {
		v := valCol.Cells[i]
		if c.IsMissing() || v.IsMissing() {
			continue
		}
		g := c.String()
		if _, ok := groups[g]; !ok {
			order = append(order, g)
		}
		groups[g] = append(groups[g], v.Num)
	}

	out := make([]Box, 0, len(order))
	for _, g := range order {
		out = append(out, boxOf(g, groups[g]))
	}
	return out, nil
}

func boxOf(group string, vals []float64) Box {
	s := sortedCopy(vals)
	b := Box{Group: group, N: len(s), Q1: quantile(s, 0.25), Median: quantile(s, 0.5), Q3: quantile(s, 0.75)}
	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerWhisker, b.UpperWhisker = b.Q1, b.Q3
	for _, v := range s {
		if v >= lo {
			b.LowerWhisker = v
			break
		}
	}
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] <= hi {
			b.UpperWhisker = s[i]
			break
		}
	}
	for _, v := range s {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b
}
