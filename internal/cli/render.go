package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/frahmantamala/expense-tracker/internal/analytics"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/core/common/currency"
	"github.com/frahmantamala/expense-tracker/internal/core/common/dates"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/shopspring/decimal"
)

const barWidth = 30

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func ExpenseTable(w io.Writer, result *expense.ListResult) error {
	if len(result.Expenses) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No expenses found."))
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, e := range result.Expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			shortID(e.ID),
			e.Date.Format(dates.DateLayout),
			e.Category,
			currency.Display(e.Amount),
			e.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, SubtleStyle.Render(fmt.Sprintf("\nPage %d of %d, %d expenses total",
		result.Page, max(result.TotalPages, 1), result.Total)))
	return err
}

func ExpenseDetail(w io.Writer, e *expense.Expense) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID\t%s\n", e.ID)
	fmt.Fprintf(tw, "Date\t%s\n", e.Date.Format(dates.DateLayout))
	fmt.Fprintf(tw, "Category\t%s\n", e.Category)
	fmt.Fprintf(tw, "Amount\t%s\n", currency.Display(e.Amount))
	fmt.Fprintf(tw, "Description\t%s\n", e.Description)
	fmt.Fprintf(tw, "Created\t%s\n", e.CreatedAt.Local().Format(dates.DateTimeLayout))
	fmt.Fprintf(tw, "Updated\t%s\n", e.UpdatedAt.Local().Format(dates.DateTimeLayout))
	return tw.Flush()
}

func CategoryTable(w io.Writer, categories []*category.Category) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tICON")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\n", shortID(c.ID), ColorSwatch(c.Color), c.Name, c.Color, c.Icon)
	}
	return tw.Flush()
}

func CategoryStatsTable(w io.Writer, stats []*category.Stats) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tTRANSACTIONS\tTOTAL SPENT")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s %s\t%d\t%s\n", ColorSwatch(s.Color), s.Name, s.TransactionCount, currency.Display(s.TotalSpent))
	}
	return tw.Flush()
}

func Breakdown(w io.Writer, entries []*analytics.BreakdownEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No expenses this month."))
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT\tAMOUNT\tSHARE\t")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s %s\t%d\t%s\t%s%%\t%s\n",
			ColorSwatch(e.Color), e.Category,
			e.Count,
			currency.Display(e.Amount),
			e.Percentage.StringFixed(1),
			bar(e.Percentage, decimal.NewFromInt(100), e.Color))
	}
	return tw.Flush()
}

func Trend(w io.Writer, points []*analytics.TrendPoint) error {
	peak := decimal.Zero
	for _, p := range points {
		peak = decimal.Max(peak, p.Amount)
	}

	tw := newTable(w)
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Label, currency.Display(p.Amount), bar(p.Amount, peak, string(PrimaryColor)))
	}
	return tw.Flush()
}

func Dashboard(w io.Writer, title string, stats *analytics.DashboardStats) error {
	top := stats.TopCategory
	if top == "" {
		top = "-"
	}
	lines := []string{
		fmt.Sprintf("%s %s", BoldStyle.Render("Total spend:"), currency.Display(stats.TotalSpend)),
		fmt.Sprintf("%s %d", BoldStyle.Render("Transactions:"), stats.TransactionCount),
		fmt.Sprintf("%s %s", BoldStyle.Render("Top category:"), top),
		fmt.Sprintf("%s %s", BoldStyle.Render("Avg per day:"), currency.Display(stats.AvgDailySpend)),
	}
	_, err := fmt.Fprintln(w, RenderBox(title, strings.Join(lines, "\n")))
	return err
}

func Summary(w io.Writer, summary *analytics.MonthlySummary) error {
	lines := []string{
		fmt.Sprintf("%s %s", BoldStyle.Render("Total:"), currency.Display(summary.Total)),
		fmt.Sprintf("%s %d", BoldStyle.Render("Transactions:"), summary.Count),
		fmt.Sprintf("%s %s", BoldStyle.Render("Average:"), currency.Display(summary.Average)),
	}
	if _, err := fmt.Fprintln(w, RenderBox(dates.FormatMonth(summary.Month), strings.Join(lines, "\n"))); err != nil {
		return err
	}
	return Breakdown(w, summary.ByCategory)
}

func bar(value, scale decimal.Decimal, color string) string {
	if !scale.IsPositive() {
		return ""
	}
	n := int(value.Div(scale).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	if n == 0 && value.IsPositive() {
		n = 1
	}
	return ColorSwatchText(strings.Repeat(BarGlyph, n), color)
}

// ColorSwatchText renders text in a hex color.
func ColorSwatchText(text, hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(text)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
