package analysis

import (
	"fmt"
	"strings"
)

// Kind enumerates the statistics a Report can hold.
type Kind int

const (
	Mean Kind = iota
	Median
	Std
	Variance
	Min
	Max
	Range
	Quartiles
	Skewness
	Kurtosis
	numKinds
)

var kindNames = [numKinds]string{
	Mean:      "mean",
	Median:    "median",
	Std:       "std",
	Variance:  "variance",
	Min:       "min",
	Max:       "max",
	Range:     "range",
	Quartiles: "quartiles",
	Skewness:  "skewness",
	Kurtosis:  "kurtosis",
}

var kindLabels = [numKinds]string{
	Mean:      "Mean",
	Median:    "Median",
	Std:       "Standard Deviation",
	Variance:  "Variance",
	Min:       "Minimum",
	Max:       "Maximum",
	Range:     "Range",
	Quartiles: "Quartiles",
	Skewness:  "Skewness",
	Kurtosis:  "Kurtosis",
}

// BasicKinds are the summary statistics offered first on the dashboard.
func BasicKinds() []Kind { return []Kind{Mean, Median, Std, Min, Max, Quartiles} }

// PropertyKinds are the distribution properties offered second on the dashboard.
func PropertyKinds() []Kind { return []Kind{Variance, Range, Kurtosis, Skewness} }

// AllKinds lists every kind in enumeration order.
func AllKinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) valid() bool { return k >= 0 && k < numKinds }

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Label is the human-readable name used in rendered reports.
func (k Kind) Label() string {
	if !k.valid() {
		return k.String()
	}
	return kindLabels[k]
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

var kindAliases = map[string]Kind{
	"average":                  Mean,
	"standard deviation":       Std,
	"standard deviation (std)": Std,
	"stddev":                   Std,
	"sd":                       Std,
	"var":                      Variance,
	"minimum":                  Min,
	"minimum (min)":            Min,
	"maximum":                  Max,
	"maximum (max)":            Max,
	"quartile":                 Quartiles,
	"skew":                     Skewness,
	"kurt":                     Kurtosis,
}

// ParseKind accepts short names ("std") and dashboard labels ("Standard Deviation (std)").
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == key || strings.ToLower(kindLabels[i]) == key {
			return Kind(i), nil
		}
	}
	if k, ok := kindAliases[key]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ParseKinds parses each name, de-duplicating while keeping first-seen order.
func ParseKinds(names []string) ([]Kind, error) {
	seen := map[Kind]bool{}
	var out []Kind
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, err
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out, nil
}
