package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"MooMetrics/internal/collector"
	"MooMetrics/internal/dashboard"
	"MooMetrics/internal/impact"
	"MooMetrics/internal/logger"
	"MooMetrics/internal/recorder"
)

var (
	historyCoin   string
	historyDays   int
	historyStored bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print a coin's per-day market impact history",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyCoin, "coin", "BTC", "coin symbol from the configured coin list")
	historyCmd.Flags().IntVar(&historyDays, "days", 14, "most recent days to print, 0 for all")
	historyCmd.Flags().BoolVar(&historyStored, "stored", false, "print the daily news tallies recorded in the database")
}

func runHistory(cmd *cobra.Command, args []string) error {
	coin, err := dashboard.ResolveCoin(cfg.Dashboard.Coins, historyCoin)
	if err != nil {
		return err
	}
	if historyStored {
		return printStored(cmd, coin.Symbol)
	}
	ctx := cmd.Context()

	col := collector.NewCollector(newFetcher(), logger.Get())
	points, err := col.CoinHistory(ctx, coin.Symbol)
	if err != nil {
		return err
	}
	if historyDays > 0 && len(points) > historyDays {
		points = points[len(points)-historyDays:]
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\tCALLS\tAVG\tSENTIMENT")
	for _, l := range impact.Labels {
		fmt.Fprintf(w, "\t%s", impact.Badge(l))
	}
	fmt.Fprintln(w)
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%d\t%+.2f\t%s", p.Date, p.Observations, p.AverageScore, p.Sentiment)
		for _, l := range impact.Labels {
			fmt.Fprintf(w, "\t%d", p.Counts[l])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// printStored reads the per-day news tallies the serve command recorded.
func printStored(cmd *cobra.Command, symbol string) error {
	if cfg.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is not set")
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		return err
	}
	defer rec.Close()

	rows, err := rec.DailyFor(symbol, historyDays)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DAY\tCALLS\tAVG\tSENTIMENT")
	for _, l := range impact.Labels {
		fmt.Fprintf(w, "\t%s", impact.Badge(l))
	}
	fmt.Fprintln(w)
	for i := len(rows) - 1; i >= 0; i-- {
		a := rows[i]
		fmt.Fprintf(w, "%s\t%d\t%+.2f\t%s", a.Day, a.Observations, a.AverageScore, a.Sentiment)
		for _, l := range impact.Labels {
			fmt.Fprintf(w, "\t%d", a.Counts[l])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
