package storage_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal"
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/storage"
	"github.com/frahmantamala/expense-tracker/internal/storage/memory"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

// failingKeyValue wraps a memory store and fails writes or reads on demand.
type failingKeyValue struct {
	*memory.Store
	writeErr error
	readErr  error
	writes   int
}

func (f *failingKeyValue) Get(key string) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	return f.Store.Get(key)
}

func (f *failingKeyValue) Set(key, value string) error {
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.Store.Set(key, value)
}

func (f *failingKeyValue) SetMany(entries map[string]string) error {
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.Store.SetMany(entries)
}

var _ = Describe("Store", func() {
	var (
		kv    *failingKeyValue
		store *storage.Store
		now   time.Time
	)

	BeforeEach(func() {
		kv = &failingKeyValue{Store: memory.NewStore(0)}
		store = storage.NewStore(kv, logger.Discard())
		now = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	})

	Describe("LoadExpenses", func() {
		It("should return an empty collection when nothing is stored", func() {
			expenses, err := store.LoadExpenses()
			Expect(err).ToNot(HaveOccurred())
			Expect(expenses).ToNot(BeNil())
			Expect(expenses).To(BeEmpty())
		})

		It("should treat an unparseable payload as empty", func() {
			Expect(kv.Set(storage.ExpensesKey, "{not json")).To(Succeed())

			expenses, err := store.LoadExpenses()
			Expect(err).ToNot(HaveOccurred())
			Expect(expenses).To(BeEmpty())
		})

		It("should drop the whole collection when one element is malformed", func() {
			Expect(kv.Set(storage.ExpensesKey, `[{"id":"a","amount":"1","date":"2024-03-10T00:00:00Z"},{"id":"b","amount":"x"}]`)).To(Succeed())

			expenses, err := store.LoadExpenses()
			Expect(err).ToNot(HaveOccurred())
			Expect(expenses).ToNot(BeNil())
			Expect(expenses).To(BeEmpty())
		})

		It("should skip null entries", func() {
			Expect(kv.Set(storage.ExpensesKey, `[null,{"id":"a","amount":"1","date":"2024-03-10T00:00:00Z"}]`)).To(Succeed())

			expenses, err := store.LoadExpenses()
			Expect(err).ToNot(HaveOccurred())
			Expect(expenses).To(HaveLen(1))
			Expect(expenses[0].ID).To(Equal("a"))
		})

		It("should accept amounts written as JSON numbers", func() {
			Expect(kv.Set(storage.ExpensesKey, `[{"id":"e-1","amount":12.5,"description":"Lunch","category":"Food","date":"2024-03-14T00:00:00.000Z"}]`)).To(Succeed())

			expenses, err := store.LoadExpenses()
			Expect(err).ToNot(HaveOccurred())
			Expect(expenses).To(HaveLen(1))
			Expect(expenses[0].Amount.Equal(decimal.RequireFromString("12.50"))).To(BeTrue())
		})

		It("should surface backend read failures as internal errors", func() {
			kv.readErr = errors.New("disk gone")

			_, err := store.LoadExpenses()
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInternal))
		})
	})

	Describe("SaveExpenses", func() {
		It("should round trip every field", func() {
			in := []*expenseDatamodel.Expense{{
				ID:          "e-1",
				Amount:      decimal.RequireFromString("12.50"),
				Description: "Lunch",
				Category:    "Food",
				Date:        time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
				CreatedAt:   now,
				UpdatedAt:   now,
			}}
			Expect(store.SaveExpenses(in)).To(Succeed())

			out, err := store.LoadExpenses()
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(HaveLen(1))
			Expect(out[0].ID).To(Equal("e-1"))
			Expect(out[0].Amount.Equal(decimal.RequireFromString("12.5"))).To(BeTrue())
			Expect(out[0].Description).To(Equal("Lunch"))
			Expect(out[0].Category).To(Equal("Food"))
			Expect(out[0].Date.Equal(in[0].Date)).To(BeTrue())
			Expect(out[0].CreatedAt.Equal(now)).To(BeTrue())
			Expect(out[0].UpdatedAt).To(BeTemporally("==", now))
		})

		It("should map a quota failure to a storage error", func() {
			kv.writeErr = storage.ErrQuotaExceeded

			err := store.SaveExpenses([]*expenseDatamodel.Expense{})
			Expect(errors.Is(err, internal.ErrStorageQuotaExceeded)).To(BeTrue())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Type).To(Equal(internal.ErrorTypeStorage))
			Expect(appErr.Message).To(ContainSubstring("delete old expenses"))
		})

		It("should map any other backend failure to an internal error", func() {
			kv.writeErr = errors.New("boom")

			err := store.SaveExpenses([]*expenseDatamodel.Expense{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInternal))
			Expect(errors.Unwrap(err)).To(MatchError("boom"))
		})
	})

	Describe("LoadCategories", func() {
		It("should drop the whole collection when one element is malformed", func() {
			Expect(kv.Set(storage.CategoriesKey, `[{"id":"c","name":"Food"},{"id":5}]`)).To(Succeed())

			categories, err := store.LoadCategories()
			Expect(err).ToNot(HaveOccurred())
			Expect(categories).ToNot(BeNil())
			Expect(categories).To(BeEmpty())
		})
	})

	Describe("SaveCategories", func() {
		It("should round trip every field", func() {
			in := []*categoryDatamodel.Category{{
				ID:        "c-1",
				Name:      "Food & Dining",
				Color:     "#10b981",
				Icon:      "utensils",
				CreatedAt: now,
			}}
			Expect(store.SaveCategories(in)).To(Succeed())

			out, err := store.LoadCategories()
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(HaveLen(1))
			Expect(out[0].ID).To(Equal("c-1"))
			Expect(out[0].Name).To(Equal("Food & Dining"))
			Expect(out[0].Color).To(Equal("#10b981"))
			Expect(out[0].Icon).To(Equal("utensils"))
			Expect(out[0].CreatedAt).To(BeTemporally("==", now))
		})
	})

	Describe("SaveAll", func() {
		It("should write both collections in one backend call", func() {
			categories := []*categoryDatamodel.Category{{ID: "c-1", Name: "Food", Color: "#10b981", CreatedAt: now}}
			expenses := []*expenseDatamodel.Expense{{ID: "e-1", Amount: decimal.NewFromInt(5), Category: "Food", Date: now}}

			Expect(store.SaveAll(categories, expenses)).To(Succeed())
			Expect(kv.writes).To(Equal(1))

			loadedCategories, _ := store.LoadCategories()
			loadedExpenses, _ := store.LoadExpenses()
			Expect(loadedCategories).To(HaveLen(1))
			Expect(loadedExpenses).To(HaveLen(1))
		})

		It("should leave both collections untouched when the quota is hit", func() {
			kv.Store = memory.NewStore(64)
			Expect(store.SaveCategories([]*categoryDatamodel.Category{})).To(Succeed())

			big := make([]*expenseDatamodel.Expense, 5)
			for i := range big {
				big[i] = &expenseDatamodel.Expense{ID: "e", Description: "a fairly long description", Date: now}
			}
			err := store.SaveAll([]*categoryDatamodel.Category{{ID: "c-1", Name: "Food"}}, big)
			Expect(errors.Is(err, internal.ErrStorageQuotaExceeded)).To(BeTrue())

			categories, _ := store.LoadCategories()
			Expect(categories).To(BeEmpty())
			has, _ := store.Has(storage.ExpensesKey)
			Expect(has).To(BeFalse())
		})
	})

	Describe("initialization marker", func() {
		It("should only report initialized for the exact value true", func() {
			initialized, err := store.IsInitialized()
			Expect(err).ToNot(HaveOccurred())
			Expect(initialized).To(BeFalse())

			Expect(kv.Set(storage.InitializedKey, "yes")).To(Succeed())
			initialized, _ = store.IsInitialized()
			Expect(initialized).To(BeFalse())

			Expect(store.MarkInitialized()).To(Succeed())
			initialized, _ = store.IsInitialized()
			Expect(initialized).To(BeTrue())
		})

		It("should be removed by Clear along with both collections", func() {
			Expect(store.MarkInitialized()).To(Succeed())
			Expect(store.SaveExpenses([]*expenseDatamodel.Expense{})).To(Succeed())
			Expect(store.SaveCategories([]*categoryDatamodel.Category{})).To(Succeed())

			Expect(store.Clear()).To(Succeed())

			for _, key := range []string{storage.ExpensesKey, storage.CategoriesKey, storage.InitializedKey} {
				has, err := store.Has(key)
				Expect(err).ToNot(HaveOccurred())
				Expect(has).To(BeFalse(), key)
			}
		})
	})
})
