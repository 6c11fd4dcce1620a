package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"MooMetrics/internal/impact"
)

var legendCmd = &cobra.Command{
	Use:   "legend",
	Short: "Print the market impact scale and sentiment thresholds",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LABEL\tSCORE\tCOLOR\tDESCRIPTION")
		for _, e := range impact.Legend() {
			fmt.Fprintf(w, "%s\t%+d\t%s\t%s\n", e.Badge, e.Score, e.Color, e.Description)
		}
		w.Flush()

		fmt.Fprintln(cmd.OutOrStdout())
		for _, r := range impact.SentimentRules() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", r.Class, r.Rule)
		}
	},
}
