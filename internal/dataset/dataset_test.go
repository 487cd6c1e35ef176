package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowListShape(t *testing.T) {
	allow := AllowList()
	assert.Len(t, allow, 25)
	seen := map[string]bool{}
	for _, n := range allow {
		assert.False(t, seen[n], "duplicate %q", n)
		seen[n] = true
	}
	// The workbook header is misspelled; the allow-list must follow it.
	assert.Contains(t, allow, "Adult populaiton")
	assert.NotContains(t, allow, "Adult population")
}

func TestRequiredAndRulesStayInsideAllowList(t *testing.T) {
	for _, n := range Required() {
		_, ok := Lookup(n)
		assert.True(t, ok, n)
	}
	rules := DefaultRules()
	assert.Len(t, rules, 11)
	for n := range rules {
		_, ok := Lookup(n)
		assert.True(t, ok, n)
	}
}

func TestLookup(t *testing.T) {
	got, ok := Lookup("  owns a credit card (% AGE 15+) ")
	assert.True(t, ok)
	assert.Equal(t, OwnsCreditCard, got)

	_, ok = Lookup("Adult population")
	assert.False(t, ok, "only the workbook spelling is allowed")
}
