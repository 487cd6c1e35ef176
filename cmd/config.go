package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/findex-cli/internal/clean"
	cfgpkg "github.com/KaramelBytes/findex-cli/internal/config"
	"github.com/KaramelBytes/findex-cli/internal/dataset"
	"github.com/KaramelBytes/findex-cli/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Findex configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "source: %s\n", cfg.Source)
		if cfg.Sheet != "" {
			fmt.Fprintf(out, "sheet: %s\n", cfg.Sheet)
		}
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		fmt.Fprintf(out, "preview_rows: %d\n", cfg.PreviewRows)
		fmt.Fprintf(out, "zscore_threshold: %.3f\n", cfg.ZScoreThreshold)
		if len(cfg.Imputation) > 0 {
			fmt.Fprintln(out, "imputation:")
			keys := make([]string, 0, len(cfg.Imputation))
			for k := range cfg.Imputation {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "  %s: %s\n", k, cfg.Imputation[k])
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Keys: source, sheet, http_timeout_sec, log_level, log_format, preview_rows,
zscore_threshold, imputation.<column> (mean|median|ffill|zero, or "none" to drop the override).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Persist the file's values, not flag overrides applied for this run.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch {
		case key == "source":
			c.Source = val
		case key == "sheet":
			c.Sheet = val
		case key == "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			c.HTTPTimeoutSec = i
		case key == "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
			c.LogLevel = strings.ToLower(val)
		case key == "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				c.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		case key == "preview_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for preview_rows: %v", val)
			}
			c.PreviewRows = i
		case key == "zscore_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for zscore_threshold: %v", val)
			}
			c.ZScoreThreshold = f
		case strings.HasPrefix(key, "imputation."):
			if err := setImputation(c, strings.TrimPrefix(key, "imputation."), val); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		pipe = nil
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setImputation(c *cfgpkg.Global, column, val string) error {
	name, ok := dataset.Lookup(column)
	if !ok {
		return fmt.Errorf("unknown column: %s", column)
	}
	if c.Imputation == nil {
		c.Imputation = map[string]string{}
	}
	// Viper lower-cases map keys on load; drop any folded duplicate first.
	for k := range c.Imputation {
		if strings.EqualFold(k, name) {
			delete(c.Imputation, k)
		}
	}
	if strings.EqualFold(val, "none") {
		return nil
	}
	s, err := clean.ParseStrategy(val)
	if err != nil {
		return err
	}
	c.Imputation[name] = s.String()
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
