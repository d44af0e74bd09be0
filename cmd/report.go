package cmd

import (
	"context"
	"os"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/cli"
	"github.com/frahmantamala/expense-tracker/internal/core/common/dates"
	"github.com/spf13/cobra"
)

var (
	reportMonth string
	trendMonths int
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"reports", "r"},
	Short:   "Spending analytics",
}

var summaryReportCmd = &cobra.Command{
	Use:   "summary",
	Short: "Total, count, average and breakdown for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			month, err := reportAnchor(deps)
			if err != nil {
				return err
			}
			summary, err := deps.Analytics.MonthlySummary(month)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(summary)
			}
			return cli.Summary(os.Stdout, summary)
		})
	},
}

var breakdownReportCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Spending per category for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			month, err := reportAnchor(deps)
			if err != nil {
				return err
			}
			entries, err := deps.Analytics.CategoryBreakdown(month)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(entries)
			}
			return cli.Breakdown(os.Stdout, entries)
		})
	},
}

var trendReportCmd = &cobra.Command{
	Use:   "trend",
	Short: "Monthly totals up to the current month",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			points, err := deps.Analytics.MonthlyTrend(trendMonths)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(points)
			}
			return cli.Trend(os.Stdout, points)
		})
	},
}

var dashboardReportCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Headline numbers for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			month, err := reportAnchor(deps)
			if err != nil {
				return err
			}
			stats, err := deps.Analytics.DashboardStats(month)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(stats)
			}
			return cli.Dashboard(os.Stdout, dates.FormatMonth(month), stats)
		})
	},
}

// reportAnchor is the --month flag, or the current month when unset.
func reportAnchor(deps *Dependencies) (time.Time, error) {
	if reportMonth == "" {
		return dates.StartOfMonth(deps.Clock()), nil
	}
	month, err := dates.ParseMonth(reportMonth)
	if err != nil {
		return time.Time{}, internal.NewValidationFieldError("month", "month must use YYYY-MM", internal.ErrCodeInvalidDate)
	}
	return month, nil
}

func init() {
	for _, c := range []*cobra.Command{summaryReportCmd, breakdownReportCmd, dashboardReportCmd} {
		c.Flags().StringVarP(&reportMonth, "month", "m", "", "month as YYYY-MM (default current month)")
	}
	trendReportCmd.Flags().IntVarP(&trendMonths, "months", "n", 6, "number of months to show")

	for _, c := range []*cobra.Command{summaryReportCmd, breakdownReportCmd, trendReportCmd, dashboardReportCmd} {
		c.Flags().BoolVar(&outputJSON, "json", false, "print JSON instead of a table")
	}

	reportCmd.AddCommand(summaryReportCmd, breakdownReportCmd, trendReportCmd, dashboardReportCmd)
}
