// Package pipeline composes loading, column selection, cleaning and analysis
// into the operations the CLI exposes.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/KaramelBytes/findex-cli/internal/analysis"
	"github.com/KaramelBytes/findex-cli/internal/clean"
	"github.com/KaramelBytes/findex-cli/internal/dataset"
	"github.com/KaramelBytes/findex-cli/internal/selector"
	"github.com/KaramelBytes/findex-cli/internal/table"
)

// Source yields the raw dataset. *source.Loader satisfies it.
type Source interface {
	Load(ctx context.Context) (*table.Table, error)
}

// Pipeline runs every request against the same raw table. The raw table is never
// modified, so repeated runs with equal inputs produce equal outputs.
type Pipeline struct {
	src      Source
	allow    []string
	required []string
	rules    clean.Rules
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAllowList replaces the columns the pipeline exposes.
func WithAllowList(names []string) Option {
	return func(p *Pipeline) { p.allow = append([]string(nil), names...) }
}

// WithRequired replaces the columns a row must have to survive cleaning.
func WithRequired(names []string) Option {
	return func(p *Pipeline) { p.required = append([]string(nil), names...) }
}

// WithRules merges rules over the dataset defaults.
func WithRules(r clean.Rules) Option {
	return func(p *Pipeline) { p.rules = p.rules.Merge(r) }
}

func WithLogger(lg *slog.Logger) Option {
	return func(p *Pipeline) {
		if lg != nil {
			p.logger = lg
		}
	}
}

// New returns a pipeline over src configured for the Findex dataset.
func New(src Source, opts ...Option) *Pipeline {
	p := &Pipeline{
		src:      src,
		allow:    dataset.AllowList(),
		required: dataset.Required(),
		rules:    dataset.DefaultRules(),
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// AllowList reports the exposed columns in display order.
func (p *Pipeline) AllowList() []string { return append([]string(nil), p.allow...) }

// Rules reports the effective imputation rules.
func (p *Pipeline) Rules() clean.Rules { return p.rules.Merge(nil) }

// Raw returns the source table restricted to the allow-list, before cleaning.
func (p *Pipeline) Raw(ctx context.Context) (*table.Table, error) {
	raw, err := p.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	t, err := selector.RestrictToAllowList(raw, p.allow)
	if err != nil {
		return nil, fmt.Errorf("restrict to allow-list: %w", err)
	}
	return t, nil
}

// Available lists which allow-listed columns the source actually carries.
func (p *Pipeline) Available(ctx context.Context) (map[string]bool, error) {
	raw, err := p.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(p.allow))
	for _, name := range p.allow {
		out[name] = raw.Has(name)
	}
	return out, nil
}

// Clean restricts the source to the allow-list, applies sel, drops rows missing a
// required field and imputes the rest.
func (p *Pipeline) Clean(ctx context.Context, sel selector.Selection) (*table.Table, error) {
	return p.clean(ctx, uuid.NewString(), sel)
}

func (p *Pipeline) clean(ctx context.Context, id string, sel selector.Selection) (*table.Table, error) {
	lg := p.logger.With(slog.String("request_id", id))
	t, err := p.Raw(ctx)
	if err != nil {
		return nil, err
	}
	lg.Debug("restricted", slog.Int("rows", t.Rows()), slog.Int("columns", t.Cols()))

	if t, err = sel.Resolve(t); err != nil {
		return nil, err
	}
	lg.Debug("selected", slog.Int("columns", t.Cols()), slog.Bool("explicit", sel.Explicit()))

	before := t.Rows()
	if t, err = clean.DropIncomplete(t, p.required); err != nil {
		return nil, err
	}
	lg.Debug("dropped incomplete", slog.Int("rows", t.Rows()), slog.Int("removed", before-t.Rows()))

	if t, err = clean.Impute(t, p.rules); err != nil {
		return nil, err
	}
	lg.Debug("imputed", slog.Int("rows", t.Rows()), slog.Int("columns", t.Cols()))
	return t, nil
}

// Stats cleans with sel and computes req over the imputed table.
func (p *Pipeline) Stats(ctx context.Context, sel selector.Selection, req analysis.Request) (*analysis.Report, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	t, err := p.clean(ctx, req.ID, sel)
	if err != nil {
		return nil, err
	}
	rep, err := analysis.ComputeRequest(t, req)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("computed statistics",
		slog.String("request_id", req.ID),
		slog.Int("columns", len(rep.Columns)),
		slog.Int("kinds", len(rep.Kinds)))
	return rep, nil
}

// Describe summarizes every column of the cleaned table.
func (p *Pipeline) Describe(ctx context.Context, sel selector.Selection) (*analysis.Description, error) {
	t, err := p.Clean(ctx, sel)
	if err != nil {
		return nil, err
	}
	return analysis.Describe(t), nil
}

// Box groups the numeric column y by the categorical column x.
func (p *Pipeline) Box(ctx context.Context, sel selector.Selection, x, y string) ([]analysis.Box, error) {
	t, err := p.Clean(ctx, sel)
	if err != nil {
		return nil, err
	}
	return analysis.BoxSummary(t, x, y)
}

// Outliers flags rows of column whose |z| exceeds threshold.
func (p *Pipeline) Outliers(ctx context.Context, sel selector.Selection, column string, threshold float64) (*analysis.OutlierReport, error) {
	t, err := p.Clean(ctx, sel)
	if err != nil {
		return nil, err
	}
	return analysis.Outliers(t, column, threshold)
}
