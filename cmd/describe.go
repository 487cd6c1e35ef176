package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	descColumns string
	descJSON    bool
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize every column of the cleaned table",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := getPipeline()
		if err != nil {
			return err
		}
		d, err := p.Describe(cmd.Context(), selectionFrom(cmd, "columns", descColumns))
		if err != nil {
			return recoverable(cmd, err)
		}
		if descJSON {
			return writeJSON(cmd.OutOrStdout(), d)
		}
		fmt.Fprintln(cmd.OutOrStdout(), d.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVar(&descColumns, "columns", "", "comma-separated columns to describe (default all)")
	describeCmd.Flags().BoolVar(&descJSON, "json", false, "print JSON instead of Markdown")
}
