package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/frahmantamala/expense-tracker/internal/cli"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write expenses to a CSV file",
	Long:  `Export expenses, newest first, as CSV. Filters match those of "expense list".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			filters, err := buildFilters()
			if err != nil {
				return err
			}
			result, err := deps.Expenses.Query(filters, expense.SortOptions{}, expense.Pagination{})
			if err != nil {
				return err
			}
			content := export.ToCSV(result.Expenses)

			if exportStdout {
				_, err := fmt.Fprint(os.Stdout, content)
				return err
			}

			path := exportOutput
			if path == "" {
				path = export.Filename(deps.Clock())
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", len(result.Expenses), path)))
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "file to write (default expenses-export-YYYY-MM-DD.csv)")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "write CSV to stdout")
	exportCmd.Flags().StringVar(&listFrom, "from", "", "earliest date, YYYY-MM-DD")
	exportCmd.Flags().StringVar(&listTo, "to", "", "latest date, YYYY-MM-DD")
	exportCmd.Flags().StringVar(&listCategory, "category", "", "exact category name")
	exportCmd.Flags().StringVarP(&listSearch, "search", "s", "", "text to find in descriptions")
}
