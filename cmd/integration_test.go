package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/findex-cli/internal/dataset"
	"github.com/KaramelBytes/findex-cli/internal/source"
)

// resetFlags restores every flag to its default so state does not leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// runCmd is a helper that fails the test when the command fails.
func runCmd(t *testing.T, args ...string) (string, string) {
	t.Helper()
	out, errOut, err := run(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out, errOut
}

// writeFixture writes a four-row workbook carrying every exposed column.
// Rows 2 and 3 lack a region or income group and are dropped by cleaning.
func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	text := map[string][]any{
		dataset.CountryName: {"Aland", "Borduria", "Carpania", "Dorvik"},
		dataset.CountryCode: {"ALA", "BOR", "CAR", "DOR"},
		dataset.Region:      {"Europe", nil, "Africa", "Asia"},
		dataset.IncomeGroup: {"High", "Low", nil, "Low"},
		dataset.Year:        {2021, 2021, 2021, 2022},
	}
	nums := map[string][]any{
		dataset.AdultPopulation: {100, 200, nil, 300},
		dataset.OwnsCreditCard:  {nil, 0.1, 0.2, 0.4},
	}
	allow := dataset.AllowList()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Data"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		t.Fatalf("sheet name: %v", err)
	}
	header := make([]any, len(allow))
	for j, n := range allow {
		header[j] = n
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("header: %v", err)
	}
	for i := 0; i < 4; i++ {
		row := make([]any, len(allow))
		for j, n := range allow {
			switch {
			case text[n] != nil:
				row[j] = text[n][i]
			case nums[n] != nil:
				row[j] = nums[n][i]
			default:
				row[j] = float64(i + 1)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("row %d: %v", i, err)
		}
	}
	p := filepath.Join(dir, "DatabankWide.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	return p
}

func isolate(t *testing.T) (home, fixture string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	return home, writeFixture(t, home)
}

func TestCLI_CleanPreviewAndExport(t *testing.T) {
	home, src := isolate(t)

	out, _ := runCmd(t, "clean", "--source", src, "--rows", "5")
	if !strings.Contains(out, "[DATA] 2 rows x 25 columns") {
		t.Fatalf("unexpected preview:\n%s", out)
	}
	if !strings.Contains(out, "| Aland |") || strings.Contains(out, "Borduria") {
		t.Fatalf("expected only complete rows:\n%s", out)
	}

	dest := filepath.Join(home, "out", "clean.csv")
	out, _ = runCmd(t, "clean", "--source", src, "--columns", "Region,Income group,Adult populaiton,Owns a credit card (% age 15+)", "-o", dest)
	if !strings.Contains(out, "✓ Wrote 2 rows x 4 columns") {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want := "Region,Income group,Adult populaiton,Owns a credit card (% age 15+)\nEurope,High,100,0\nAsia,Low,300,0.4\n"
	if string(b) != want {
		t.Fatalf("export = %q, want %q", b, want)
	}
}

func TestCLI_EmptySelectionWarns(t *testing.T) {
	_, src := isolate(t)

	out, errOut, err := run(t, "clean", "--source", src, "--columns", "")
	if err != nil {
		t.Fatalf("empty selection must not fail: %v", err)
	}
	if !strings.Contains(errOut, "⚠ Please select at least one column.") || out != "" {
		t.Fatalf("stdout=%q stderr=%q", out, errOut)
	}

	_, errOut, err = run(t, "stats", "--source", src)
	if err != nil {
		t.Fatalf("stats without columns must not fail: %v", err)
	}
	if !strings.Contains(errOut, "⚠ Please select at least one column.") {
		t.Fatalf("stderr=%q", errOut)
	}
}

func TestCLI_StatsMarkdownAndJSON(t *testing.T) {
	_, src := isolate(t)

	out, _ := runCmd(t, "stats", "--source", src, "--columns", dataset.OwnsCreditCard, "--stats", "mean,min,quartiles")
	for _, want := range []string{
		"## Statistics for Owns a credit card (% age 15+)",
		"- **Mean**: 0.2",
		"- **Minimum**: 0",
		"- **Quartiles**: 25%=0.1, 50%=0.2, 75%=0.3",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	out, _ = runCmd(t, "stats", "--source", src, "--columns", dataset.Year, "--stats", "variance,skewness", "--json")
	if !strings.Contains(out, `"kind": "skewness"`) || !strings.Contains(out, "null") {
		t.Fatalf("expected null skewness for two values:\n%s", out)
	}

	if _, _, err := run(t, "stats", "--source", src, "--columns", dataset.Region, "--stats", "mean"); err == nil {
		t.Fatalf("expected error for categorical column")
	}
	if _, _, err := run(t, "stats", "--source", src, "--columns", dataset.Year, "--stats", "mode"); err == nil {
		t.Fatalf("expected error for unknown statistic")
	}
}

func TestCLI_DescribeBoxOutliersColumns(t *testing.T) {
	_, src := isolate(t)

	out, _ := runCmd(t, "describe", "--source", src, "--columns", "Region,Income group,Adult populaiton")
	if !strings.Contains(out, "| Adult populaiton | 2 | 200 |") {
		t.Fatalf("unexpected describe:\n%s", out)
	}

	out, _ = runCmd(t, "box", "--source", src, "--y", dataset.AdultPopulation)
	if !strings.Contains(out, "[BOX PLOT] Adult populaiton by Income group") || !strings.Contains(out, "| High | 1 |") {
		t.Fatalf("unexpected box:\n%s", out)
	}

	out, _ = runCmd(t, "outliers", "--source", src, "--column", dataset.Year)
	if !strings.Contains(out, "No outliers.") {
		t.Fatalf("unexpected outliers:\n%s", out)
	}

	out, _ = runCmd(t, "columns", "--source", src)
	if !strings.Contains(out, "✓ Owns a credit card (% age 15+) [zero]") || !strings.Contains(out, "✓ Income group [ffill]") {
		t.Fatalf("unexpected columns:\n%s", out)
	}
}

func TestCLI_SourceUnavailable(t *testing.T) {
	home, _ := isolate(t)
	_, _, err := run(t, "clean", "--source", filepath.Join(home, "absent.xlsx"))
	if !errors.Is(err, source.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
	_, _, err = run(t, "clean", "--source", filepath.Join(home, "DatabankWide.xlsx"), "--sheet", "Nope")
	if !errors.Is(err, source.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable for missing sheet, got %v", err)
	}
}

func TestCLI_ConfigSetShowAndImputationOverride(t *testing.T) {
	home, src := isolate(t)

	runCmd(t, "config", "set", "source", src)
	runCmd(t, "config", "set", "preview_rows", "1")
	runCmd(t, "config", "set", "imputation.owns a credit card (% age 15+)", "median")
	if _, err := os.Stat(filepath.Join(home, ".findex", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	if _, _, err := run(t, "config", "set", "imputation.Nope", "mean"); err == nil {
		t.Fatalf("expected error for unknown column")
	}
	if _, _, err := run(t, "config", "set", "colour", "blue"); err == nil {
		t.Fatalf("expected error for unknown key")
	}

	out, _ := runCmd(t, "config", "show")
	if !strings.Contains(out, "source: "+src) || !strings.Contains(out, "preview_rows: 1") {
		t.Fatalf("unexpected config:\n%s", out)
	}

	// Median of the observed [0.4] replaces the zero fill.
	out, _ = runCmd(t, "stats", "--columns", dataset.OwnsCreditCard, "--stats", "min")
	if !strings.Contains(out, "- **Minimum**: 0.4") {
		t.Fatalf("override not applied:\n%s", out)
	}

	out, _ = runCmd(t, "clean")
	if !strings.Contains(out, "(1 more rows)") {
		t.Fatalf("preview_rows not applied:\n%s", out)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Region , Used a debit or credit card: in-store (% who use a credit or debit card, age 15+),,Year")
	want := []string{"Region", "Used a debit or credit card: in-store (% who use a credit or debit card, age 15+)", "Year"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("splitList = %q, want %q", got, want)
	}
}
