package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/cli"
	"github.com/frahmantamala/expense-tracker/internal/core/common/dates"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var expenseCmd = &cobra.Command{
	Use:     "expense",
	Aliases: []string{"expenses", "e"},
	Short:   "Manage expenses",
}

var (
	expenseAmount      string
	expenseDescription string
	expenseCategory    string
	expenseDate        string

	listFrom     string
	listTo       string
	listCategory string
	listMin      string
	listMax      string
	listSearch   string
	listSort     string
	listOrder    string
	listPage     int
	listLimit    int
	outputJSON   bool
)

var addExpenseCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new expense",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			amount, err := parseAmount(expenseAmount)
			if err != nil {
				return err
			}
			date := dates.Today(deps.Clock())
			if expenseDate != "" {
				if date, err = parseDateFlag("date", expenseDate); err != nil {
					return err
				}
			}
			name, err := canonicalCategory(deps, expenseCategory)
			if err != nil {
				return err
			}

			created, err := deps.Expenses.Create(expense.CreateExpenseDTO{
				Amount:      amount,
				Description: strings.TrimSpace(expenseDescription),
				Category:    name,
				Date:        date,
			})
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Expense added: " + created.ID))
			return nil
		})
	},
}

var listExpenseCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses with optional filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			filters, err := buildFilters()
			if err != nil {
				return err
			}
			field, err := expense.ParseSortField(listSort)
			if err != nil {
				return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
			}
			order, err := expense.ParseSortOrder(listOrder)
			if err != nil {
				return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
			}

			result, err := deps.Expenses.Query(filters,
				expense.SortOptions{Field: field, Order: order},
				expense.Pagination{Page: listPage, Limit: listLimit})
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(result)
			}
			return cli.ExpenseTable(os.Stdout, result)
		})
	},
}

var showExpenseCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			e, err := findExpense(deps, args[0])
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(e)
			}
			return cli.ExpenseDetail(os.Stdout, e)
		})
	},
}

var editExpenseCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			e, err := findExpense(deps, args[0])
			if err != nil {
				return err
			}

			var dto expense.UpdateExpenseDTO
			flags := cmd.Flags()
			if flags.Changed("amount") {
				amount, err := parseAmount(expenseAmount)
				if err != nil {
					return err
				}
				dto.Amount = &amount
			}
			if flags.Changed("description") {
				description := strings.TrimSpace(expenseDescription)
				dto.Description = &description
			}
			if flags.Changed("category") {
				name, err := canonicalCategory(deps, expenseCategory)
				if err != nil {
					return err
				}
				dto.Category = &name
			}
			if flags.Changed("date") {
				date, err := parseDateFlag("date", expenseDate)
				if err != nil {
					return err
				}
				dto.Date = &date
			}
			if dto.IsEmpty() {
				fmt.Println(cli.FormatWarning("Nothing to change"))
				return nil
			}

			updated, err := deps.Expenses.Update(e.ID, dto)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Expense updated: " + updated.ID))
			return nil
		})
	},
}

var deleteExpenseCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			e, err := findExpense(deps, args[0])
			if err != nil {
				return err
			}
			if err := deps.Expenses.Delete(e.ID); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Expense deleted: " + e.ID))
			return nil
		})
	},
}

// findExpense accepts a full id or an unambiguous prefix of one, as printed
// by `expense list`.
func findExpense(deps *Dependencies, ref string) (*expense.Expense, error) {
	e, err := deps.Expenses.GetByID(ref)
	if err != nil || e != nil {
		return e, err
	}

	all, err := deps.Expenses.List(nil)
	if err != nil {
		return nil, err
	}
	var match *expense.Expense
	for _, candidate := range all {
		if !strings.HasPrefix(candidate.ID, ref) {
			continue
		}
		if match != nil {
			return nil, internal.NewValidationError(fmt.Sprintf("id prefix %q matches more than one expense", ref), internal.ErrCodeValidationFailed)
		}
		match = candidate
	}
	if match == nil {
		return nil, internal.NewNotFoundError(fmt.Sprintf("Expense with id %s not found", ref), internal.ErrCodeExpenseNotFound)
	}
	return match, nil
}

// canonicalCategory resolves name case-insensitively to a stored category.
func canonicalCategory(deps *Dependencies, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", internal.NewValidationFieldError("category", "category is required", internal.ErrCodeInvalidCategory)
	}
	c, err := deps.Categories.GetByName(name)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", internal.NewValidationFieldError("category", fmt.Sprintf("unknown category %q", name), internal.ErrCodeInvalidCategory)
	}
	return c.Name, nil
}

func buildFilters() (*expense.Filters, error) {
	filters := &expense.Filters{
		Category: strings.TrimSpace(listCategory),
		Search:   listSearch,
	}
	if listFrom != "" {
		from, err := parseDateFlag("from", listFrom)
		if err != nil {
			return nil, err
		}
		filters.DateFrom = &from
	}
	if listTo != "" {
		to, err := parseDateFlag("to", listTo)
		if err != nil {
			return nil, err
		}
		filters.DateTo = &to
	}
	if listMin != "" {
		minAmount, err := parseAmount(listMin)
		if err != nil {
			return nil, err
		}
		filters.MinAmount = &minAmount
	}
	if listMax != "" {
		maxAmount, err := parseAmount(listMax)
		if err != nil {
			return nil, err
		}
		filters.MaxAmount = &maxAmount
	}
	return filters, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return decimal.Zero, internal.NewValidationFieldError("amount", fmt.Sprintf("invalid amount %q", s), internal.ErrCodeInvalidAmount)
	}
	return amount, nil
}

func parseDateFlag(field, s string) (time.Time, error) {
	t, err := dates.ParseDate(s)
	if err != nil {
		return time.Time{}, internal.NewValidationFieldError(field, fmt.Sprintf("%s must use YYYY-MM-DD, got %q", field, s), internal.ErrCodeInvalidDate)
	}
	return t, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, c := range []*cobra.Command{addExpenseCmd, editExpenseCmd} {
		c.Flags().StringVarP(&expenseAmount, "amount", "a", "", "amount in dollars, e.g. 12.50")
		c.Flags().StringVarP(&expenseDescription, "description", "d", "", "what the money was spent on")
		c.Flags().StringVarP(&expenseCategory, "category", "c", "", "category name")
		c.Flags().StringVar(&expenseDate, "date", "", "date as YYYY-MM-DD (default today)")
	}
	_ = addExpenseCmd.MarkFlagRequired("amount")
	_ = addExpenseCmd.MarkFlagRequired("description")
	_ = addExpenseCmd.MarkFlagRequired("category")

	listExpenseCmd.Flags().StringVar(&listFrom, "from", "", "earliest date, YYYY-MM-DD")
	listExpenseCmd.Flags().StringVar(&listTo, "to", "", "latest date, YYYY-MM-DD")
	listExpenseCmd.Flags().StringVar(&listCategory, "category", "", "exact category name")
	listExpenseCmd.Flags().StringVar(&listMin, "min", "", "minimum amount")
	listExpenseCmd.Flags().StringVar(&listMax, "max", "", "maximum amount")
	listExpenseCmd.Flags().StringVarP(&listSearch, "search", "s", "", "text to find in descriptions")
	listExpenseCmd.Flags().StringVar(&listSort, "sort", "date", "sort by date, amount, category or description")
	listExpenseCmd.Flags().StringVar(&listOrder, "order", "desc", "asc or desc")
	listExpenseCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number")
	listExpenseCmd.Flags().IntVarP(&listLimit, "limit", "l", 20, "page size, 0 for everything")

	for _, c := range []*cobra.Command{listExpenseCmd, showExpenseCmd} {
		c.Flags().BoolVar(&outputJSON, "json", false, "print JSON instead of a table")
	}

	expenseCmd.AddCommand(addExpenseCmd, listExpenseCmd, showExpenseCmd, editExpenseCmd, deleteExpenseCmd)
}
