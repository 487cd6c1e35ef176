package analysis

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/KaramelBytes/findex-cli/internal/table"
)

// NumericSummary is one row of the descriptive-statistics table.
type NumericSummary struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

func (s NumericSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string   `json:"name"`
		Count int      `json:"count"`
		Mean  *float64 `json:"mean"`
		Std   *float64 `json:"std"`
		Min   *float64 `json:"min"`
		Q25   *float64 `json:"q25"`
		Q50   *float64 `json:"q50"`
		Q75   *float64 `json:"q75"`
		Max   *float64 `json:"max"`
	}{s.Name, s.Count, finite(s.Mean), finite(s.Std), finite(s.Min), finite(s.Q25), finite(s.Q50), finite(s.Q75), finite(s.Max)})
}

// finite maps NaN and infinities to a JSON null.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// CategoricalSummary describes a text column by its most frequent value.
type CategoricalSummary struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top"`
	Freq   int    `json:"freq"`
}

// Description is the static summary of a whole table.
type Description struct {
	Rows        int                  `json:"rows"`
	Numeric     []NumericSummary     `json:"numeric"`
	Categorical []CategoricalSummary `json:"categorical,omitempty"`
}

// Describe summarizes every column of t in column order.
func Describe(t *table.Table) *Description {
	d := &Description{Rows: t.Rows()}
	for _, name := range t.Names() {
		col, _ := t.Column(name)
		if col.Numeric() {
			d.Numeric = append(d.Numeric, describeNumeric(name, col.Floats()))
			continue
		}
		d.Categorical = append(d.Categorical, describeCategorical(col))
	}
	return d
}

func describeNumeric(name string, vals []float64) NumericSummary {
	q := quartilesOf(vals)
	return NumericSummary{
		Name:  name,
		Count: len(vals),
		Mean:  meanOf(vals),
		Std:   stdOf(vals),
		Min:   minOf(vals),
		Q25:   q[0],
		Q50:   q[1],
		Q75:   q[2],
		Max:   maxOf(vals),
	}
}

func describeCategorical(col table.Column) CategoricalSummary {
	counts := map[string]int{}
	s := CategoricalSummary{Name: col.Name}
	for _, c := range col.Cells {
		if c.IsMissing() {
			continue
		}
		s.Count++
		counts[c.String()]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] == counts[keys[j]] {
			return keys[i] < keys[j]
		}
		return counts[keys[i]] > counts[keys[j]]
	})
	s.Unique = len(keys)
	if len(keys) > 0 {
		s.Top = keys[0]
		s.Freq = counts[keys[0]]
	}
	return s
}
