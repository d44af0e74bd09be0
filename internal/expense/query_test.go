package expense_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal/expense"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newExpense(id, amount, description, category string, date time.Time) *expense.Expense {
	return &expense.Expense{
		ID:          id,
		Amount:      decimal.RequireFromString(amount),
		Description: description,
		Category:    category,
		Date:        date,
	}
}

func ids(expenses []*expense.Expense) []string {
	result := make([]string, len(expenses))
	for i, e := range expenses {
		result[i] = e.ID
	}
	return result
}

var _ = Describe("Query", func() {
	var expenses []*expense.Expense

	BeforeEach(func() {
		expenses = []*expense.Expense{
			newExpense("1", "12.50", "Lunch at cafe", "Food", day(2024, 3, 1)),
			newExpense("2", "40.00", "Train pass", "Transportation", day(2024, 3, 5)),
			newExpense("3", "7.25", "Coffee beans", "Food", day(2024, 3, 5)),
			newExpense("4", "99.99", "Concert", "Entertainment", day(2024, 2, 20)),
			newExpense("5", "40.00", "Taxi", "Transportation", day(2024, 3, 10)),
		}
	})

	Describe("Filter", func() {
		It("should return everything for nil filters", func() {
			Expect(expense.Filter(expenses, nil)).To(HaveLen(5))
		})

		It("should include both ends of the date range", func() {
			from, to := day(2024, 3, 1), day(2024, 3, 5)
			result := expense.Filter(expenses, &expense.Filters{DateFrom: &from, DateTo: &to})
			Expect(ids(result)).To(Equal([]string{"1", "2", "3"}))
		})

		It("should match category exactly", func() {
			result := expense.Filter(expenses, &expense.Filters{Category: "Food"})
			Expect(ids(result)).To(Equal([]string{"1", "3"}))
			Expect(expense.Filter(expenses, &expense.Filters{Category: "food"})).To(BeEmpty())
		})

		It("should keep only amounts inside the bounds", func() {
			minAmount := decimal.RequireFromString("10")
			maxAmount := decimal.RequireFromString("40")
			result := expense.Filter(expenses, &expense.Filters{MinAmount: &minAmount, MaxAmount: &maxAmount})
			Expect(ids(result)).To(Equal([]string{"1", "2", "5"}))
			for _, e := range result {
				Expect(e.Amount.GreaterThanOrEqual(minAmount)).To(BeTrue())
				Expect(e.Amount.LessThanOrEqual(maxAmount)).To(BeTrue())
			}
		})

		It("should search descriptions case-insensitively", func() {
			result := expense.Filter(expenses, &expense.Filters{Search: "COFFEE"})
			Expect(ids(result)).To(Equal([]string{"3"}))
		})

		It("should not search category names", func() {
			Expect(expense.Filter(expenses, &expense.Filters{Search: "Transportation"})).To(BeEmpty())
		})
	})

	Describe("Sort", func() {
		It("should default to newest first", func() {
			Expect(ids(expense.Sort(expenses, expense.SortOptions{}))).To(Equal([]string{"5", "2", "3", "1", "4"}))
		})

		It("should keep insertion order for equal keys", func() {
			asc := expense.Sort(expenses, expense.SortOptions{Field: expense.SortByAmount, Order: expense.SortAsc})
			Expect(ids(asc)).To(Equal([]string{"3", "1", "2", "5", "4"}))

			desc := expense.Sort(expenses, expense.SortOptions{Field: expense.SortByAmount, Order: expense.SortDesc})
			Expect(ids(desc)).To(Equal([]string{"4", "2", "5", "1", "3"}))
		})

		It("should order text case-insensitively", func() {
			mixed := []*expense.Expense{
				newExpense("a", "1", "banana", "Food", day(2024, 1, 1)),
				newExpense("b", "1", "Apple", "Food", day(2024, 1, 1)),
				newExpense("c", "1", "cherry", "Food", day(2024, 1, 1)),
			}
			sorted := expense.Sort(mixed, expense.SortOptions{Field: expense.SortByDescription, Order: expense.SortAsc})
			Expect(ids(sorted)).To(Equal([]string{"b", "a", "c"}))
		})

		It("should not modify its input", func() {
			expense.Sort(expenses, expense.SortOptions{Field: expense.SortByCategory, Order: expense.SortAsc})
			Expect(ids(expenses)).To(Equal([]string{"1", "2", "3", "4", "5"}))
		})
	})

	Describe("ParseSortField", func() {
		It("should accept known fields in any case and default to date", func() {
			field, err := expense.ParseSortField("Amount")
			Expect(err).ToNot(HaveOccurred())
			Expect(field).To(Equal(expense.SortByAmount))

			field, _ = expense.ParseSortField("")
			Expect(field).To(Equal(expense.SortByDate))

			_, err = expense.ParseSortField("price")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Paginate", func() {
		It("should slice pages and report totals", func() {
			result := expense.Paginate(expenses, expense.Pagination{Page: 2, Limit: 2})
			Expect(ids(result.Expenses)).To(Equal([]string{"3", "4"}))
			Expect(result.Total).To(Equal(5))
			Expect(result.TotalPages).To(Equal(3))
			Expect(result.HasNext).To(BeTrue())
			Expect(result.HasPrevious).To(BeTrue())
		})

		It("should return an empty last-plus-one page", func() {
			result := expense.Paginate(expenses, expense.Pagination{Page: 4, Limit: 2})
			Expect(result.Expenses).To(BeEmpty())
			Expect(result.HasNext).To(BeFalse())
			Expect(result.Total).To(Equal(5))
		})

		It("should return an empty page for a huge page number", func() {
			var result *expense.ListResult
			Expect(func() {
				result = expense.Paginate(expenses, expense.Pagination{Page: math.MaxInt, Limit: 2})
			}).ToNot(Panic())
			Expect(result.Expenses).To(BeEmpty())
			Expect(result.HasNext).To(BeFalse())
			Expect(result.HasPrevious).To(BeTrue())
			Expect(result.TotalPages).To(Equal(3))
		})

		It("should report no next page on the last page", func() {
			result := expense.Paginate(expenses, expense.Pagination{Page: 3, Limit: 2})
			Expect(ids(result.Expenses)).To(Equal([]string{"5"}))
			Expect(result.HasNext).To(BeFalse())
		})

		It("should treat a page below one as the first page", func() {
			result := expense.Paginate(expenses, expense.Pagination{Page: 0, Limit: 2})
			Expect(result.Page).To(Equal(1))
			Expect(result.HasPrevious).To(BeFalse())
		})

		It("should return everything when no limit is set", func() {
			result := expense.Paginate(expenses, expense.Pagination{})
			Expect(result.Expenses).To(HaveLen(5))
			Expect(result.TotalPages).To(Equal(1))
			Expect(result.HasNext).To(BeFalse())
		})

		It("should cover every expense exactly once across pages", func() {
			var seen []string
			for page := 1; page <= 3; page++ {
				seen = append(seen, ids(expense.Paginate(expenses, expense.Pagination{Page: page, Limit: 2}).Expenses)...)
			}
			Expect(seen).To(Equal(ids(expenses)))
		})
	})
})
