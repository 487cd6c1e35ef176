package selector

import (
	"github.com/KaramelBytes/findex-cli/internal/table"
)

var (
	// ErrUnknownColumn matches errors naming columns absent from the table.
	ErrUnknownColumn = table.ErrColumnNotFound
	// ErrEmptySelection is returned when the user explicitly chose zero columns.
	ErrEmptySelection = table.ErrEmptySelection
)

// UnknownColumnError lists the offending names.
type UnknownColumnError = table.ColumnNotFoundError

// RestrictToAllowList narrows t to the allow-listed columns, in allow-list order.
// Every allow-listed name must exist in t.
func RestrictToAllowList(t *table.Table, allow []string) (*table.Table, error) {
	return t.Select(allow...)
}

// SelectSubset narrows t to the chosen columns in the chosen order.
// An empty choice returns t unmodified.
func SelectSubset(t *table.Table, chosen []string) (*table.Table, error) {
	if len(chosen) == 0 {
		return t, nil
	}
	return t.Select(dedupe(chosen)...)
}

// Selection records whether the user made a column choice at all.
// The zero value means no choice was made and everything is shown.
type Selection struct {
	names    []string
	explicit bool
}

// All is the "nothing chosen yet" selection.
func All() Selection { return Selection{} }

// Of is an explicit choice; Of() with no names selects zero columns.
func Of(names ...string) Selection {
	return Selection{names: append([]string(nil), names...), explicit: true}
}

func (s Selection) Explicit() bool  { return s.explicit }
func (s Selection) Names() []string { return append([]string(nil), s.names...) }

// Resolve applies the selection to t.
func (s Selection) Resolve(t *table.Table) (*table.Table, error) {
	if s.explicit && len(s.names) == 0 {
		return nil, ErrEmptySelection
	}
	return SelectSubset(t, s.names)
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
