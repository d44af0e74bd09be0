package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/cli"
	"github.com/frahmantamala/expense-tracker/internal/core/common/dates"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with sample data",
	Long:  `Seed the store with default categories and sample expenses for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, runSeed)
	},
}

type sampleExpense struct {
	daysAgo     int
	amount      string
	description string
	category    string
}

var sampleExpenses = []sampleExpense{
	{0, "12.50", "Lunch at the corner cafe", "Food"},
	{1, "45.00", "Weekly groceries", "Food"},
	{2, "3.20", "Bus ticket", "Transportation"},
	{3, "60.00", "Fuel top-up", "Transportation"},
	{5, "15.99", "Streaming subscription", "Entertainment"},
	{8, "120.00", "Electricity bill", "Utilities"},
	{12, "35.00", "Pharmacy", "Healthcare"},
	{20, "28.75", "Cinema with friends", "Entertainment"},
	{34, "89.90", "Internet bill", "Utilities"},
	{40, "22.40", "Dinner takeaway", "Food"},
	{65, "18.00", "Taxi home", "Transportation"},
	{70, "9.99", "Phone case", "Other"},
}

func runSeed(_ context.Context, deps *Dependencies) error {
	if clearData {
		if err := deps.Bootstrap.Reset(); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
		fmt.Println(cli.FormatWarning("Existing data cleared"))
	}

	categories, err := deps.Categories.List()
	if err != nil {
		return err
	}
	fmt.Printf("Categories available: %d\n", len(categories))

	today := dates.Today(deps.Clock())
	for _, s := range sampleExpenses {
		created, err := deps.Expenses.Create(expense.CreateExpenseDTO{
			Amount:      decimal.RequireFromString(s.amount),
			Description: s.description,
			Category:    s.category,
			Date:        today.AddDate(0, 0, -s.daysAgo),
		})
		if err != nil {
			return fmt.Errorf("failed to seed expense %q: %w", s.description, err)
		}
		fmt.Printf("Seeded expense: %s %s\n", created.Date.Format(time.DateOnly), created.Description)
	}

	fmt.Println(cli.FormatSuccess("Sample data seeded successfully"))
	return nil
}
