package analysis

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/findex-cli/internal/table"
)

// DefaultZThreshold flags values more than three population standard deviations from the mean.
const DefaultZThreshold = 3.0

// Outlier is one flagged observation; Row indexes the analyzed table.
type Outlier struct {
	Row   int     `json:"row"`
	Value float64 `json:"value"`
	Z     float64 `json:"z"`
}

// Summary is a small location/spread snapshot used to compare samples.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		N      int      `json:"n"`
		Mean   *float64 `json:"mean"`
		Median *float64 `json:"median"`
		Std    *float64 `json:"std"`
	}{s.N, finite(s.Mean), finite(s.Median), finite(s.Std)})
}

// OutlierReport shows the effect of removing z-score outliers from a column.
type OutlierReport struct {
	Column    string    `json:"column"`
	Threshold float64   `json:"threshold"`
	Outliers  []Outlier `json:"outliers"`
	With      Summary   `json:"with_outliers"`
	Without   Summary   `json:"without_outliers"`
}

// Outliers flags observations of a numeric column whose |z| exceeds threshold.
// z uses the population standard deviation; missing cells are skipped.
// A threshold <= 0 selects DefaultZThreshold.
func Outliers(t *table.Table, column string, threshold float64) (*OutlierReport, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, &table.ColumnNotFoundError{Names: []string{column}}
	}
	if !col.Numeric() {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, column)
	}
	if threshold <= 0 {
		threshold = DefaultZThreshold
	}
	rep := &OutlierReport{Column: column, Threshold: threshold}

	var all, kept []float64
	var rows []int
	for i, c := range col.Cells {
		if c.Type == table.Number {
			all = append(all, c.Num)
			rows = append(rows, i)
		}
	}
	rep.With = summarize(all)
	if len(all) == 0 {
		rep.Without = rep.With
		return rep, nil
	}

	mean, std := stat.PopMeanStdDev(all, nil)
	for i, v := range all {
		if std == 0 || math.IsNaN(std) {
			kept = append(kept, v)
			continue
		}
		z := (v - mean) / std
		if math.Abs(z) > threshold {
			rep.Outliers = append(rep.Outliers, Outlier{Row: rows[i], Value: v, Z: z})
			continue
		}
		kept = append(kept, v)
	}
	rep.Without = summarize(kept)
	return rep, nil
}

func summarize(v []float64) Summary {
	return Summary{N: len(v), Mean: meanOf(v), Median: medianOf(v), Std: stdOf(v)}
}
