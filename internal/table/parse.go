package table

import (
	"regexp"
	"strconv"
	"strings"
)

var missingTokens = map[string]bool{
	"":     true,
	"..":   true,
	"na":   true,
	"n/a":  true,
	"#n/a": true,
	"nan":  true,
	"null": true,
	"none": true,
}

var thousandsOnly = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+$`)

// ParseCell classifies a raw spreadsheet/CSV value as missing, numeric or categorical.
func ParseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if missingTokens[strings.ToLower(s)] {
		return NA()
	}
	if f, ok := parseNumeric(s); ok {
		return Num(f)
	}
	return Str(s)
}

// ParseColumn converts raw strings into a column, one cell per value.
func ParseColumn(name string, raw []string) Column {
	cells := make([]Cell, len(raw))
	for i, v := range raw {
		cells[i] = ParseCell(v)
	}
	return Column{Name: name, Cells: cells}
}

func parseNumeric(s string) (float64, bool) {
	raw := strings.ReplaceAll(s, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := '.'
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			dec = ','
		}
	case cpos >= 0 && !thousandsOnly.MatchString(raw):
		dec = ','
	}
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
