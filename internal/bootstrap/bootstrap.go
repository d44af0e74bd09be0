// Package bootstrap prepares an empty store on first run.
package bootstrap

import (
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/storage"
)

type RepositoryAPI interface {
	Has(key string) (bool, error)
	IsInitialized() (bool, error)
	MarkInitialized() error
	Clear() error
	SaveCategories(categories []*categoryDatamodel.Category) error
	SaveExpenses(expenses []*expenseDatamodel.Expense) error
	LockCategories() func()
	LockExpenses() func()
}

// DefaultCategories is the category set written on first run.
var DefaultCategories = []category.CreateCategoryDTO{
	{Name: "Food", Color: "#10b981", Icon: "restaurant"},
	{Name: "Transportation", Color: "#3b82f6", Icon: "directions_car"},
	{Name: "Entertainment", Color: "#8b5cf6", Icon: "movie"},
	{Name: "Utilities", Color: "#f59e0b", Icon: "bolt"},
	{Name: "Healthcare", Color: "#ef4444", Icon: "favorite"},
	{Name: "Other", Color: "#6b7280", Icon: "more_horiz"},
}

type Bootstrapper struct {
	repo   RepositoryAPI
	clock  internal.Clock
	logger *slog.Logger
}

func New(repo RepositoryAPI, clock internal.Clock, logger *slog.Logger) *Bootstrapper {
	if clock == nil {
		clock = internal.SystemClock
	}
	return &Bootstrapper{repo: repo, clock: clock, logger: logger}
}

// Initialize seeds whichever collections are missing and sets the
// initialized marker. Existing data is never overwritten, so calling it
// again is harmless.
func (b *Bootstrapper) Initialize() error {
	unlockCategories := b.repo.LockCategories()
	defer unlockCategories()
	unlockExpenses := b.repo.LockExpenses()
	defer unlockExpenses()

	initialized, err := b.repo.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		b.logger.Debug("storage already initialized")
		return nil
	}

	hasCategories, err := b.repo.Has(storage.CategoriesKey)
	if err != nil {
		return err
	}
	if !hasCategories {
		if err := b.repo.SaveCategories(category.ToDataModelSlice(Defaults(b.clock))); err != nil {
			b.logger.Error("failed to seed default categories", "error", err)
			return err
		}
		b.logger.Info("seeded default categories", "count", len(DefaultCategories))
	}

	hasExpenses, err := b.repo.Has(storage.ExpensesKey)
	if err != nil {
		return err
	}
	if !hasExpenses {
		if err := b.repo.SaveExpenses([]*expenseDatamodel.Expense{}); err != nil {
			b.logger.Error("failed to create expense collection", "error", err)
			return err
		}
	}

	if err := b.repo.MarkInitialized(); err != nil {
		b.logger.Error("failed to mark storage initialized", "error", err)
		return err
	}
	b.logger.Info("storage initialized")
	return nil
}

// Reset wipes every collection and initializes from scratch.
func (b *Bootstrapper) Reset() error {
	if err := b.clear(); err != nil {
		return err
	}
	b.logger.Warn("all data cleared")
	return b.Initialize()
}

func (b *Bootstrapper) clear() error {
	unlockCategories := b.repo.LockCategories()
	defer unlockCategories()
	unlockExpenses := b.repo.LockExpenses()
	defer unlockExpenses()

	return b.repo.Clear()
}

// Defaults builds fresh default categories with new ids.
func Defaults(clock internal.Clock) []*category.Category {
	now := clock()
	result := make([]*category.Category, len(DefaultCategories))
	for i, dto := range DefaultCategories {
		result[i] = category.NewCategory(dto, now)
	}
	return result
}
