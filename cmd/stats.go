package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/findex-cli/internal/analysis"
	"github.com/KaramelBytes/findex-cli/internal/selector"
)

var (
	statsColumns string
	statsKinds   string
	statsJSON    bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute chosen statistics for chosen columns of the cleaned table",
	Long: `Computes statistics over the cleaned, imputed table. Missing cells are skipped.

Statistics: mean, median, std, variance, min, max, range, quartiles, skewness,
kurtosis. Use "basic" for mean,median,std,min,max,quartiles, "properties" for
variance,range,kurtosis,skewness or "all".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cols := splitList(statsColumns)
		if len(cols) == 0 {
			return recoverable(cmd, analysis.ErrEmptySelection)
		}
		kinds, err := parseKindList(statsKinds)
		if err != nil {
			return err
		}
		if len(kinds) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Please select at least one statistic.")
			return nil
		}
		p, err := getPipeline()
		if err != nil {
			return err
		}
		rep, err := p.Stats(cmd.Context(), selector.All(), analysis.NewRequest(cols, kinds))
		if err != nil {
			return recoverable(cmd, err)
		}
		if statsJSON {
			return writeJSON(cmd.OutOrStdout(), rep)
		}
		fmt.Fprintln(cmd.OutOrStdout(), rep.Markdown())
		return nil
	},
}

func parseKindList(raw string) ([]analysis.Kind, error) {
	var names []string
	for _, s := range strings.Split(raw, ",") {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "":
		case "basic":
			for _, k := range analysis.BasicKinds() {
				names = append(names, k.String())
			}
		case "properties":
			for _, k := range analysis.PropertyKinds() {
				names = append(names, k.String())
			}
		case "all":
			for _, k := range analysis.AllKinds() {
				names = append(names, k.String())
			}
		default:
			names = append(names, s)
		}
	}
	return analysis.ParseKinds(names)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsColumns, "columns", "", "comma-separated numeric columns")
	statsCmd.Flags().StringVar(&statsKinds, "stats", "basic", "comma-separated statistics, or basic|properties|all")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON instead of Markdown")
}
