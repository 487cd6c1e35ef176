package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/findex-cli/internal/selector"
)

var (
	outColumn    string
	outThreshold float64
	outJSON      bool
)

var outliersCmd = &cobra.Command{
	Use:   "outliers",
	Short: "Flag z-score outliers and compare summaries with and without them",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := getPipeline()
		if err != nil {
			return err
		}
		thr := outThreshold
		if !cmd.Flags().Changed("threshold") {
			thr = cfg.ZScoreThreshold
		}
		if thr < 0 {
			return fmt.Errorf("invalid --threshold: %v (must be positive)", thr)
		}
		rep, err := p.Outliers(cmd.Context(), selector.All(), outColumn, thr)
		if err != nil {
			return err
		}
		if outJSON {
			return writeJSON(cmd.OutOrStdout(), rep)
		}
		fmt.Fprintln(cmd.OutOrStdout(), rep.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outliersCmd)
	outliersCmd.Flags().StringVar(&outColumn, "column", "", "numeric column to check")
	outliersCmd.Flags().Float64Var(&outThreshold, "threshold", 3, "|z| above which a row is flagged (default from config)")
	outliersCmd.Flags().BoolVar(&outJSON, "json", false, "print JSON instead of Markdown")
	_ = outliersCmd.MarkFlagRequired("column")
}
