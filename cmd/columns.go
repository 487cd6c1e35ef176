package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List the exposed columns and whether the source carries them",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := getPipeline()
		if err != nil {
			return err
		}
		avail, err := p.Available(cmd.Context())
		if err != nil {
			return err
		}
		rules := p.Rules()
		out := cmd.OutOrStdout()
		missing := 0
		for _, name := range p.AllowList() {
			mark := "✓"
			if !avail[name] {
				mark = "✗"
				missing++
			}
			if s, ok := rules[name]; ok {
				fmt.Fprintf(out, "%s %s [%s]\n", mark, name, s)
			} else {
				fmt.Fprintf(out, "%s %s\n", mark, name)
			}
		}
		if missing > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %d column(s) absent from the source; cleaning will fail\n", missing)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}
