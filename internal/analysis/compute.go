package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/findex-cli/internal/table"
)

var (
	// ErrEmptySelection is a warning: no columns were chosen, so nothing is computed.
	ErrEmptySelection = table.ErrEmptySelection
	// ErrUnknownColumn matches requests naming columns absent from the table.
	ErrUnknownColumn = table.ErrColumnNotFound
	// ErrNotNumeric indicates a statistic was requested for a categorical column.
	ErrNotNumeric = errors.New("column is not numeric")
	// ErrUnknownKind is returned by ParseKind.
	ErrUnknownKind = errors.New("unknown statistic")
)

// Request is one on-demand statistics computation.
type Request struct {
	ID      string
	Columns []string
	Kinds   []Kind
}

// NewRequest stamps a request with a fresh ID.
func NewRequest(columns []string, kinds []Kind) Request {
	return Request{ID: uuid.NewString(), Columns: columns, Kinds: kinds}
}

type key struct {
	col  string
	kind Kind
}

// Report maps (column, kind) pairs to results. Quartiles yield three values
// (25th, 50th, 75th percentile); every other kind yields one.
type Report struct {
	ID      string
	Columns []string
	Kinds   []Kind
	values  map[key][]float64
}

// Entry is one (column, kind) result.
type Entry struct {
	Column string
	Kind   Kind
	Values []float64
}

func (e Entry) MarshalJSON() ([]byte, error) {
	vals := make([]*float64, len(e.Values))
	for i, v := range e.Values {
		vals[i] = finite(v)
	}
	return json.Marshal(struct {
		Column string     `json:"column"`
		Kind   Kind       `json:"kind"`
		Values []*float64 `json:"values"`
	}{e.Column, e.Kind, vals})
}

// Get returns the values for a pair.
func (r *Report) Get(col string, k Kind) ([]float64, bool) {
	v, ok := r.values[key{col, k}]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), v...), true
}

// Value returns the first value for a pair, or NaN if absent.
func (r *Report) Value(col string, k Kind) float64 {
	v, ok := r.values[key{col, k}]
	if !ok || len(v) == 0 {
		return math.NaN()
	}
	return v[0]
}

func (r *Report) Len() int { return len(r.values) }

// Entries lists results by requested column order, then kind order.
func (r *Report) Entries() []Entry {
	out := make([]Entry, 0, len(r.values))
	for _, c := range r.Columns {
		for _, k := range r.Kinds {
			if v, ok := r.values[key{c, k}]; ok {
				out = append(out, Entry{Column: c, Kind: k, Values: append([]float64(nil), v...)})
			}
		}
	}
	return out
}

func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID      string  `json:"id,omitempty"`
		Entries []Entry `json:"entries"`
	}{r.ID, r.Entries()})
}

// Compute evaluates every requested kind over every requested column.
// Missing cells are skipped. An empty column list yields ErrEmptySelection and no report.
func Compute(t *table.Table, columns []string, kinds []Kind) (*Report, error) {
	return ComputeRequest(t, Request{Columns: columns, Kinds: kinds})
}

// ComputeRequest is Compute carrying the request ID into the report.
func ComputeRequest(t *table.Table, req Request) (*Report, error) {
	if len(req.Columns) == 0 {
		return nil, ErrEmptySelection
	}
	cols := dedupe(req.Columns)
	if miss := t.Missing(cols...); len(miss) > 0 {
		return nil, &table.ColumnNotFoundError{Names: miss}
	}
	kinds := make([]Kind, 0, len(req.Kinds))
	seen := map[Kind]bool{}
	for _, k := range req.Kinds {
		if !k.valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	rep := &Report{ID: req.ID, Columns: cols, Kinds: kinds, values: make(map[key][]float64, len(cols)*len(kinds))}
	for _, name := range cols {
		vals, err := numericValues(t, name)
		if err != nil {
			return nil, err
		}
		for _, k := range kinds {
			rep.values[key{name, k}] = kindFuncs[k](vals)
		}
	}
	return rep, nil
}

func numericValues(t *table.Table, name string) ([]float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, &table.ColumnNotFoundError{Names: []string{name}}
	}
	if !col.Numeric() {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	return col.Floats(), nil
}

var kindFuncs = [numKinds]func([]float64) []float64{
	Mean:      one(meanOf),
	Median:    one(medianOf),
	Std:       one(stdOf),
	Variance:  one(varianceOf),
	Min:       one(minOf),
	Max:       one(maxOf),
	Range:     one(rangeOf),
	Quartiles: quartilesOf,
	Skewness:  one(skewnessOf),
	Kurtosis:  one(kurtosisOf),
}

func one(f func([]float64) float64) func([]float64) []float64 {
	return func(v []float64) []float64 { return []float64{f(v)} }
}

// orNaN maps the library's empty-input errors to "no result".
func orNaN(v float64, err error) float64 {
	if err != nil {
		return math.NaN()
	}
	return v
}

func meanOf(v []float64) float64   { return orNaN(stats.Mean(v)) }
func medianOf(v []float64) float64 { return orNaN(stats.Median(v)) }
func minOf(v []float64) float64    { return orNaN(stats.Min(v)) }
func maxOf(v []float64) float64    { return orNaN(stats.Max(v)) }

func varianceOf(v []float64) float64 {
	if len(v) < 2 {
		return math.NaN()
	}
	return orNaN(stats.SampleVariance(v))
}

func stdOf(v []float64) float64 {
	if len(v) < 2 {
		return math.NaN()
	}
	return orNaN(stats.StandardDeviationSample(v))
}

func rangeOf(v []float64) float64 { return maxOf(v) - minOf(v) }

func quartilesOf(v []float64) []float64 {
	if len(v) == 0 {
		return []float64{math.NaN(), math.NaN(), math.NaN()}
	}
	s := sortedCopy(v)
	return []float64{quantile(s, 0.25), quantile(s, 0.5), quantile(s, 0.75)}
}

// skewnessOf is the adjusted Fisher-Pearson coefficient G1.
func skewnessOf(v []float64) float64 {
	if len(v) < 3 {
		return math.NaN()
	}
	if constantValues(v) {
		return 0
	}
	return stat.Skew(v, nil)
}

// kurtosisOf is the bias-corrected excess kurtosis G2.
func kurtosisOf(v []float64) float64 {
	if len(v) < 4 {
		return math.NaN()
	}
	if constantValues(v) {
		return 0
	}
	return stat.ExKurtosis(v, nil)
}

func constantValues(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

func sortedCopy(v []float64) []float64 {
	cp := make([]float64, len(v))
	copy(cp, v)
	sort.Float64s(cp)
	return cp
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
