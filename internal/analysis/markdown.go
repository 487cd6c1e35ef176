package analysis

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/findex-cli/internal/table"
)

// Markdown renders the report one column at a time, in request order.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[STATISTICS]\n")
	for _, c := range r.Columns {
		b.WriteString(fmt.Sprintf("\n## Statistics for %s\n", safeName(c)))
		for _, k := range r.Kinds {
			v, ok := r.values[key{c, k}]
			if !ok {
				continue
			}
			if k == Quartiles {
				b.WriteString(fmt.Sprintf("- **%s**: 25%%=%s, 50%%=%s, 75%%=%s\n", k.Label(), num(v[0]), num(v[1]), num(v[2])))
				continue
			}
			b.WriteString(fmt.Sprintf("- **%s**: %s\n", k.Label(), num(v[0])))
		}
		b.WriteString("\n---\n")
	}
	return b.String()
}

// Markdown renders the describe table with one row per numeric column.
func (d *Description) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\n", d.Rows))
	if len(d.Numeric) > 0 {
		b.WriteString("\n| column | count | mean | std | min | 25% | 50% | 75% | max |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
		for _, s := range d.Numeric {
			b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				safeVal(s.Name), s.Count, num(s.Mean), num(s.Std), num(s.Min), num(s.Q25), num(s.Q50), num(s.Q75), num(s.Max)))
		}
	}
	if len(d.Categorical) > 0 {
		b.WriteString("\n[CATEGORICAL]\n")
		for _, s := range d.Categorical {
			b.WriteString(fmt.Sprintf("- %s: count %d, unique %d, top %s (%d)\n", safeName(s.Name), s.Count, s.Unique, safeVal(s.Top), s.Freq))
		}
	}
	return b.String()
}

// BoxMarkdown renders box summaries of value grouped by category.
func BoxMarkdown(category, value string, boxes []Box) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[BOX PLOT] %s by %s\n", safeName(value), safeName(category)))
	if len(boxes) == 0 {
		b.WriteString("(no rows with both values)\n")
		return b.String()
	}
	b.WriteString("\n| group | n | lower | Q1 | median | Q3 | upper | outliers |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, x := range boxes {
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %d |\n",
			safeVal(x.Group), x.N, num(x.LowerWhisker), num(x.Q1), num(x.Median), num(x.Q3), num(x.UpperWhisker), len(x.Outliers)))
	}
	return b.String()
}

// Markdown renders the with/without comparison and the flagged rows.
func (o *OutlierReport) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[OUTLIERS] %s (|z| > %.4g)\n", safeName(o.Column), o.Threshold))
	b.WriteString("\n| sample | n | mean | median | std |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, row := range []struct {
		label string
		s     Summary
	}{{"with outliers", o.With}, {"without outliers", o.Without}} {
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s |\n", row.label, row.s.N, num(row.s.Mean), num(row.s.Median), num(row.s.Std)))
	}
	if len(o.Outliers) == 0 {
		b.WriteString("\nNo outliers.\n")
		return b.String()
	}
	b.WriteString("\n[FLAGGED ROWS]\n")
	for _, x := range o.Outliers {
		b.WriteString(fmt.Sprintf("- row %d: %s (z=%.3f)\n", x.Row, num(x.Value), x.Z))
	}
	return b.String()
}

// TableMarkdown renders the first rows of t as a markdown table.
func TableMarkdown(t *table.Table, maxRows int) string {
	var b strings.Builder
	names := t.Names()
	b.WriteString(fmt.Sprintf("[DATA] %d rows x %d columns\n\n", t.Rows(), t.Cols()))
	if len(names) == 0 {
		return b.String()
	}
	b.WriteString("| ")
	b.WriteString(strings.Join(mapStrings(names, safeVal), " | "))
	b.WriteString(" |\n|")
	b.WriteString(strings.Repeat(" --- |", len(names)))
	b.WriteString("\n")
	shown := t
	if maxRows > 0 {
		shown = t.Head(maxRows)
	}
	for i := 0; i < shown.Rows(); i++ {
		row := shown.Row(i)
		vals := make([]string, len(row))
		for j, c := range row {
			vals[j] = safeVal(truncate(c.String(), 80))
		}
		b.WriteString("| " + strings.Join(vals, " | ") + " |\n")
	}
	if rest := t.Rows() - shown.Rows(); rest > 0 {
		b.WriteString(fmt.Sprintf("\n(%d more rows)\n", rest))
	}
	return b.String()
}

// truncate shortens s to at most n runes, ending in "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", v)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

func mapStrings(in []string, f func(string) string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = f(s)
	}
	return out
}
