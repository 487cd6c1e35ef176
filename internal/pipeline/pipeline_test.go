package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/findex-cli/internal/analysis"
	"github.com/KaramelBytes/findex-cli/internal/clean"
	"github.com/KaramelBytes/findex-cli/internal/dataset"
	"github.com/KaramelBytes/findex-cli/internal/selector"
	"github.com/KaramelBytes/findex-cli/internal/table"
)

var nan = math.NaN()

type staticSource struct {
	t     *table.Table
	err   error
	loads int
}

func (s *staticSource) Load(context.Context) (*table.Table, error) {
	s.loads++
	return s.t, s.err
}

// findexTable builds a four-row table carrying every allow-listed column plus one extra.
func findexTable(t *testing.T) *table.Table {
	t.Helper()
	text := map[string][]string{
		dataset.CountryName: {"Aland", "Borduria", "Carpania", "Dorvik"},
		dataset.CountryCode: {"ALA", "BOR", "CAR", "DOR"},
		dataset.Region:      {"Europe", "", "Africa", "Asia"},
		dataset.IncomeGroup: {"High", "Low", "", "Low"},
	}
	nums := map[string][]float64{
		dataset.AdultPopulation: {100, 200, nan, 300},
		dataset.OwnsCreditCard:  {nan, 0.1, 0.2, 0.4},
		dataset.Account:         {0.5, 0.6, 0.7, nan},
		dataset.FinInstAccount:  {0.2, nan, nan, nan},
	}
	var cols []table.Column
	for _, name := range dataset.AllowList() {
		switch {
		case text[name] != nil:
			cols = append(cols, table.NewText(name, text[name]...))
		case nums[name] != nil:
			cols = append(cols, table.NewNumeric(name, nums[name]...))
		default:
			cols = append(cols, table.NewNumeric(name, 1, 2, 3, 4))
		}
	}
	cols = append(cols, table.NewText("Notes", "a", "b", "c", "d"))
	tb, err := table.New(cols...)
	require.NoError(t, err)
	return tb
}

func TestCleanWithDefaults(t *testing.T) {
	src := &staticSource{t: findexTable(t)}
	p := New(src)

	out, err := p.Clean(context.Background(), selector.All())
	require.NoError(t, err)
	assert.Equal(t, dataset.AllowList(), out.Names())
	require.Equal(t, 2, out.Rows(), "rows missing region or income group are dropped")
	assert.Equal(t, "Aland", out.Cell(0, dataset.CountryName).Str)
	assert.Equal(t, "Dorvik", out.Cell(1, dataset.CountryName).Str)

	assert.Equal(t, 0.0, out.Cell(0, dataset.OwnsCreditCard).Num, "zero fill")
	assert.Equal(t, 0.2, out.Cell(1, dataset.FinInstAccount).Num, "median fill")
	assert.True(t, out.Cell(1, dataset.Account).IsMissing(), "no rule, value stays missing")

	raw, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, raw.Cell(0, dataset.OwnsCreditCard).IsMissing(), "raw table untouched")
}

func TestCleanSelection(t *testing.T) {
	p := New(&staticSource{t: findexTable(t)})
	ctx := context.Background()

	out, err := p.Clean(ctx, selector.Of(dataset.Region, dataset.IncomeGroup, dataset.AdultPopulation, dataset.Year))
	require.NoError(t, err)
	assert.Equal(t, []string{dataset.Region, dataset.IncomeGroup, dataset.AdultPopulation, dataset.Year}, out.Names())

	_, err = p.Clean(ctx, selector.Of())
	assert.ErrorIs(t, err, selector.ErrEmptySelection)

	_, err = p.Clean(ctx, selector.Of(dataset.Year))
	assert.ErrorIs(t, err, clean.ErrMissingRequiredColumn)

	_, err = p.Clean(ctx, selector.Of("Notes", dataset.Region))
	assert.ErrorIs(t, err, selector.ErrUnknownColumn, "columns outside the allow-list are not selectable")
}

func TestRestrictFailsWhenSourceLacksAllowedColumn(t *testing.T) {
	tb := table.MustNew(table.NewText(dataset.Region, "EU"))
	_, err := New(&staticSource{t: tb}).Clean(context.Background(), selector.All())
	assert.ErrorIs(t, err, selector.ErrUnknownColumn)

	avail, err := New(&staticSource{t: tb}).Available(context.Background())
	require.NoError(t, err)
	assert.True(t, avail[dataset.Region])
	assert.False(t, avail[dataset.Year])
}

func TestSourceErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(&staticSource{err: boom}).Clean(context.Background(), selector.All())
	assert.ErrorIs(t, err, boom)
}

func TestStatsOnImputedTableIsIdempotent(t *testing.T) {
	src := &staticSource{t: findexTable(t)}
	p := New(src)
	req := analysis.Request{ID: "req-1", Columns: []string{dataset.OwnsCreditCard}, Kinds: []analysis.Kind{analysis.Mean, analysis.Min}}

	first, err := p.Stats(context.Background(), selector.All(), req)
	require.NoError(t, err)
	second, err := p.Stats(context.Background(), selector.All(), req)
	require.NoError(t, err)

	assert.Equal(t, "req-1", first.ID)
	assert.InDelta(t, 0.2, first.Value(dataset.OwnsCreditCard, analysis.Mean), 1e-12, "mean of imputed [0, 0.4]")
	assert.Equal(t, 0.0, first.Value(dataset.OwnsCreditCard, analysis.Min))
	assert.Equal(t, first.Entries(), second.Entries())
	assert.Equal(t, 2, src.loads)

	_, err = p.Stats(context.Background(), selector.All(), analysis.Request{Kinds: analysis.BasicKinds()})
	assert.ErrorIs(t, err, analysis.ErrEmptySelection)
}

func TestStatsAssignsRequestID(t *testing.T) {
	p := New(&staticSource{t: findexTable(t)})
	rep, err := p.Stats(context.Background(), selector.All(), analysis.Request{Columns: []string{dataset.Year}, Kinds: []analysis.Kind{analysis.Max}})
	require.NoError(t, err)
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, 4.0, rep.Value(dataset.Year, analysis.Max))
}

func TestOptions(t *testing.T) {
	tb := table.MustNew(
		table.NewText("g", "a", "a", "b", ""),
		table.NewNumeric("v", 1, nan, 3, 4),
	)
	p := New(&staticSource{t: tb},
		WithAllowList([]string{"g", "v"}),
		WithRequired([]string{"g"}),
		WithRules(clean.Rules{"v": clean.Zero}),
		WithLogger(nil),
	)
	assert.Equal(t, clean.Zero, p.Rules()["v"])
	assert.Equal(t, clean.Mean, p.Rules()[dataset.AdultPopulation], "defaults survive a merge")

	out, err := p.Clean(context.Background(), selector.All())
	require.NoError(t, err)
	assert.Equal(t, 3, out.Rows())
	assert.Equal(t, 0.0, out.Cell(1, "v").Num)

	boxes, err := p.Box(context.Background(), selector.All(), "g", "v")
	require.NoError(t, err)
	require.Len(t, boxes, 2)
	assert.Equal(t, "a", boxes[0].Group)

	d, err := p.Describe(context.Background(), selector.All())
	require.NoError(t, err)
	assert.Equal(t, 3, d.Rows)

	rep, err := p.Outliers(context.Background(), selector.All(), "v", 0)
	require.NoError(t, err)
	assert.Empty(t, rep.Outliers)
}
