package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/findex-cli/internal/config"
	"github.com/KaramelBytes/findex-cli/internal/dataset"
	"github.com/KaramelBytes/findex-cli/internal/logging"
	"github.com/KaramelBytes/findex-cli/internal/pipeline"
	"github.com/KaramelBytes/findex-cli/internal/selector"
	"github.com/KaramelBytes/findex-cli/internal/source"
	"github.com/KaramelBytes/findex-cli/internal/utils"
)

var (
	// Global flags
	cfgFile            string
	debug              bool
	flagSource         string
	flagSheet          string
	flagLogLevel       string
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
	// Built per invocation from cfg; nothing is read until a command needs data.
	pipe   *pipeline.Pipeline
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "findex",
	Short: "Findex CLI: clean and summarize the Global Findex card-usage dataset",
	Long: `Findex loads the World Bank Global Findex databank (card ownership and usage per
country), keeps a fixed set of columns, drops rows without region, income group or
adult population, fills remaining gaps per column and reports statistics on demand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.findex/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "dataset path or http(s) URL: .xlsx, .csv or .tsv (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "XLSX: sheet name (default first sheet)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
}

func loadConfig() {
	pipe = nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so read-only commands still work
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{Source: dataset.DefaultSource, HTTPTimeoutSec: 60, LogLevel: "warn", PreviewRows: 20, ZScoreThreshold: 3}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("source") && flagSource != "" {
		cfg.Source = flagSource
	}
	if f.Changed("sheet") {
		cfg.Sheet = flagSheet
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("log-level") && flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	lg, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using defaults\n", err)
		lg, _ = logging.Setup(logging.Options{})
	}
	logger = lg
}

// getPipeline builds the pipeline for the effective configuration on first use.
func getPipeline() (*pipeline.Pipeline, error) {
	if pipe != nil {
		return pipe, nil
	}
	if cfg == nil {
		loadConfig()
	}
	rules, err := cfg.Rules(dataset.AllowList())
	if err != nil {
		return nil, err
	}
	loader := source.NewLoader(cfg.Source,
		source.WithSheet(cfg.Sheet),
		source.WithTimeout(time.Duration(cfg.HTTPTimeoutSec)*time.Second),
		source.WithLogger(logger),
	)
	logger.Debug("pipeline configured",
		slog.String("source", cfg.Source),
		slog.Int("rules", len(rules)))
	pipe = pipeline.New(loader, pipeline.WithRules(rules), pipeline.WithLogger(logger))
	return pipe, nil
}

// selectionFrom treats an unset --columns flag as "no choice made" and a set one,
// even when blank, as an explicit choice.
func selectionFrom(cmd *cobra.Command, flag, raw string) selector.Selection {
	if !cmd.Flags().Changed(flag) {
		return selector.All()
	}
	return selector.Of(splitList(raw)...)
}

// splitList splits on commas and trims blanks. Column names themselves contain
// commas only inside parentheses, so a comma there does not split.
func splitList(raw string) []string {
	var out []string
	depth := 0
	start := 0
	flush := func(end int) {
		if s := strings.TrimSpace(raw[start:end]); s != "" {
			out = append(out, s)
		}
	}
	for i, r := range raw {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(raw))
	return out
}

// recoverable turns an empty selection into a warning instead of a failure.
func recoverable(cmd *cobra.Command, err error) error {
	if errors.Is(err, selector.ErrEmptySelection) {
		fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Please select at least one column.")
		return nil
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
