package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/findex-cli/internal/analysis"
	"github.com/KaramelBytes/findex-cli/internal/export"
)

var (
	cleanColumns string
	cleanOutput  string
	cleanRows    int
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Show or export the cleaned table",
	Long: `Restricts the source to the exposed columns, keeps the chosen subset (all when
--columns is omitted), drops rows missing region, income group or adult population
and fills the remaining gaps per column.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := getPipeline()
		if err != nil {
			return err
		}
		t, err := p.Clean(cmd.Context(), selectionFrom(cmd, "columns", cleanColumns))
		if err != nil {
			return recoverable(cmd, err)
		}
		if cleanOutput != "" {
			if err := export.Write(t, cleanOutput); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows x %d columns to %s\n", t.Rows(), t.Cols(), cleanOutput)
			return nil
		}
		rows := cleanRows
		if !cmd.Flags().Changed("rows") {
			rows = cfg.PreviewRows
		}
		fmt.Fprintln(cmd.OutOrStdout(), analysis.TableMarkdown(t, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVar(&cleanColumns, "columns", "", "comma-separated columns to keep (default all)")
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "write the cleaned table to .xlsx, .csv or .tsv")
	cleanCmd.Flags().IntVar(&cleanRows, "rows", 20, "rows to preview (0 = all; default from config)")
}
