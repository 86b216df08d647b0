package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-tracker/internal/analytics"
	"github.com/frahmantamala/expense-tracker/internal/query"
)

var analyticsPeriod string

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Summarize spending for a period",
	Args:  cobra.NoArgs,
	RunE: withDependencies(func(_ context.Context, cmd *cobra.Command, deps *Dependencies, _ []string) error {
		period, err := query.ParsePeriod(firstNonEmpty(analyticsPeriod, deps.Config.Tracker.DefaultPeriod))
		if err != nil {
			return describeError(err)
		}

		report := deps.Analytics.Report(period)
		printReport(cmd.OutOrStdout(), report)
		return nil
	}),
}

func printReport(w io.Writer, report analytics.Report) {
	if !report.HasData {
		fmt.Fprintln(w, "No expenses recorded yet.")
		return
	}

	fmt.Fprintf(w, "Period:           %s\n", report.Period)
	fmt.Fprintf(w, "Total:            %s\n", report.Formatted.Total)
	fmt.Fprintf(w, "Average per day:  %s\n", report.Formatted.AveragePerDay)
	fmt.Fprintf(w, "Highest category: %s\n", report.Summary.HighestCategory)
	fmt.Fprintf(w, "Highest expense:  %s\n", report.Formatted.HighestExpense)

	if len(report.Categories.Labels) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tSHARE")
	for i, label := range report.Categories.Labels {
		fmt.Fprintf(tw, "%s\t%.2f\t%d%%\n", label, report.Categories.Values[i], report.Categories.Percentages[i])
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tAMOUNT")
	for i, label := range report.Monthly.Labels {
		fmt.Fprintf(tw, "%s\t%.2f\n", label, report.Monthly.Values[i])
	}
	_ = tw.Flush()
}

func init() {
	analyticsCmd.Flags().StringVarP(&analyticsPeriod, "period", "p", "", "all, month, quarter or year")
}
