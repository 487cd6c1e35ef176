package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/findex-cli/internal/analysis"
	"github.com/KaramelBytes/findex-cli/internal/dataset"
	"github.com/KaramelBytes/findex-cli/internal/selector"
)

var (
	boxX    string
	boxY    string
	boxJSON bool
)

var boxCmd = &cobra.Command{
	Use:   "box",
	Short: "Five-number summary of a numeric column per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := getPipeline()
		if err != nil {
			return err
		}
		boxes, err := p.Box(cmd.Context(), selector.All(), boxX, boxY)
		if err != nil {
			return err
		}
		if boxJSON {
			return writeJSON(cmd.OutOrStdout(), boxes)
		}
		fmt.Fprintln(cmd.OutOrStdout(), analysis.BoxMarkdown(boxX, boxY, boxes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boxCmd)
	boxCmd.Flags().StringVar(&boxX, "x", dataset.IncomeGroup, "categorical column to group by")
	boxCmd.Flags().StringVar(&boxY, "y", "", "numeric column to summarize")
	boxCmd.Flags().BoolVar(&boxJSON, "json", false, "print JSON instead of Markdown")
	_ = boxCmd.MarkFlagRequired("y")
}
