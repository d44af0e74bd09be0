package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/cli"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories", "c"},
	Short:   "Manage expense categories",
}

var (
	categoryName  string
	categoryColor string
	categoryIcon  string
)

var listCategoryCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			categories, err := deps.Categories.List()
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(categories)
			}
			return cli.CategoryTable(os.Stdout, categories)
		})
	},
}

var addCategoryCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			created, err := deps.Categories.Create(category.CreateCategoryDTO{
				Name:  args[0],
				Color: categoryColor,
				Icon:  categoryIcon,
			})
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Category added: %s %s", cli.ColorSwatch(created.Color), created.Name)))
			return nil
		})
	},
}

var editCategoryCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Rename or restyle a category; a rename carries its expenses along",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			c, err := findCategory(deps, args[0])
			if err != nil {
				return err
			}

			var dto category.UpdateCategoryDTO
			flags := cmd.Flags()
			if flags.Changed("name") {
				dto.Name = &categoryName
			}
			if flags.Changed("color") {
				dto.Color = &categoryColor
			}
			if flags.Changed("icon") {
				dto.Icon = &categoryIcon
			}

			updated, err := deps.Categories.Update(c.ID, dto)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Category updated: " + updated.Name))
			return nil
		})
	},
}

var deleteCategoryCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a category that no expense uses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			c, err := findCategory(deps, args[0])
			if err != nil {
				return err
			}
			if err := deps.Categories.Delete(c.ID); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Category deleted: " + c.Name))
			return nil
		})
	},
}

var statsCategoryCmd = &cobra.Command{
	Use:   "stats",
	Short: "All-time spending per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(cmd, func(_ context.Context, deps *Dependencies) error {
			stats, err := deps.Categories.Stats()
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(stats)
			}
			return cli.CategoryStatsTable(os.Stdout, stats)
		})
	},
}

// findCategory looks a category up by name first, then by id.
func findCategory(deps *Dependencies, ref string) (*category.Category, error) {
	c, err := deps.Categories.GetByName(ref)
	if err != nil || c != nil {
		return c, err
	}
	c, err = deps.Categories.GetByID(strings.TrimSpace(ref))
	if err != nil || c != nil {
		return c, err
	}
	return nil, internal.NewNotFoundError(fmt.Sprintf("Category %q not found", ref), internal.ErrCodeCategoryNotFound)
}

func init() {
	addCategoryCmd.Flags().StringVar(&categoryColor, "color", "#6b7280", "hex color such as #10b981")
	addCategoryCmd.Flags().StringVar(&categoryIcon, "icon", "", "icon name")

	editCategoryCmd.Flags().StringVar(&categoryName, "name", "", "new name")
	editCategoryCmd.Flags().StringVar(&categoryColor, "color", "", "new hex color")
	editCategoryCmd.Flags().StringVar(&categoryIcon, "icon", "", "new icon name")

	for _, c := range []*cobra.Command{listCategoryCmd, statsCategoryCmd} {
		c.Flags().BoolVar(&outputJSON, "json", false, "print JSON instead of a table")
	}

	categoryCmd.AddCommand(listCategoryCmd, addCategoryCmd, editCategoryCmd, deleteCategoryCmd, statsCategoryCmd)
}
