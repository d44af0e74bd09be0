package main_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/analytics"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/storage"
	"github.com/frahmantamala/expense-tracker/internal/storage/database"
	"github.com/frahmantamala/expense-tracker/internal/storage/memory"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

func TestExpenseTracker(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ExpenseTracker Suite")
}

type backend struct {
	name string
	open func() (storage.KeyValue, func())
}

var backends = []backend{
	{
		name: "memory",
		open: func() (storage.KeyValue, func()) {
			return memory.NewStore(internal.DefaultQuotaBytes), func() {}
		},
	},
	{
		name: "sqlite",
		open: func() (storage.KeyValue, func()) {
			cfg := internal.StorageConfig{Driver: internal.StorageDriverSQLite, Source: ":memory:"}
			db, err := database.Open(cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(database.Migrate(context.Background(), db, cfg.Driver)).To(Succeed())
			return database.NewStore(db, internal.DefaultQuotaBytes), func() { _ = database.Close(db) }
		},
	},
}

var _ = Describe("Expense tracker", func() {
	for _, b := range backends {
		b := b

		Context("on the "+b.name+" backend", func() {
			var (
				expenses   *expense.Service
				categories *category.Service
				reports    *analytics.Service
				closeFn    func()
			)

			clock := func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC) }
			march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

			BeforeEach(func() {
				var kv storage.KeyValue
				kv, closeFn = b.open()
				store := storage.NewStore(kv, logger.Discard())

				expenses = expense.NewService(store, clock, nil, logger.Discard())
				categories = category.NewService(store, clock, nil, logger.Discard())
				reports = analytics.NewService(store, clock, logger.Discard())

				for _, dto := range []category.CreateCategoryDTO{
					{Name: "Food", Color: "#10b981"},
					{Name: "Transportation", Color: "#3b82f6"},
				} {
					_, err := categories.Create(dto)
					Expect(err).ToNot(HaveOccurred())
				}
			})

			AfterEach(func() {
				closeFn()
			})

			lunch := func() *expense.Expense {
				e, err := expenses.Create(expense.CreateExpenseDTO{
					Amount:      decimal.RequireFromString("12.50"),
					Description: "Lunch",
					Category:    "Food",
					Date:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
				})
				Expect(err).ToNot(HaveOccurred())
				return e
			}

			It("should total and break down a single lunch", func() {
				lunch()

				total, err := reports.MonthlyTotal(march)
				Expect(err).ToNot(HaveOccurred())
				Expect(total.Equal(decimal.RequireFromString("12.50"))).To(BeTrue())

				entries, err := reports.CategoryBreakdown(march)
				Expect(err).ToNot(HaveOccurred())
				Expect(entries).To(HaveLen(1))
				Expect(entries[0].Category).To(Equal("Food"))
				Expect(entries[0].Amount.Equal(decimal.RequireFromString("12.50"))).To(BeTrue())
				Expect(entries[0].Count).To(Equal(1))
				Expect(entries[0].Percentage.Equal(decimal.NewFromInt(100))).To(BeTrue())
			})

			It("should guard a used category until its expense is gone", func() {
				e := lunch()
				food, err := categories.GetByName("Food")
				Expect(err).ToNot(HaveOccurred())

				err = categories.Delete(food.ID)
				Expect(errors.Is(err, internal.ErrCategoryInUse)).To(BeTrue())

				Expect(expenses.Delete(e.ID)).To(Succeed())
				Expect(categories.Delete(food.ID)).To(Succeed())

				remaining, _ := categories.List()
				Expect(remaining).To(HaveLen(1))
			})

			It("should round trip an expense through storage", func() {
				created := lunch()

				found, err := expenses.GetByID(created.ID)
				Expect(err).ToNot(HaveOccurred())
				Expect(found.Amount.Equal(created.Amount)).To(BeTrue())
				Expect(found.Description).To(Equal(created.Description))
				Expect(found.Category).To(Equal(created.Category))
				Expect(found.Date).To(BeTemporally("==", created.Date))
				Expect(found.CreatedAt).To(BeTemporally("==", created.CreatedAt))
			})

			It("should carry expenses along on rename", func() {
				lunch()
				food, _ := categories.GetByName("Food")

				name := "Meals"
				_, err := categories.Update(food.ID, category.UpdateCategoryDTO{Name: &name})
				Expect(err).ToNot(HaveOccurred())

				meals, _ := expenses.ByCategory("Meals")
				Expect(meals).To(HaveLen(1))
			})
		})
	}
})
