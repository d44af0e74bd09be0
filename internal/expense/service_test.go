package expense_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/storage"
	"github.com/frahmantamala/expense-tracker/internal/storage/memory"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

// recordingPublisher keeps every published event type.
type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) PublishSync(_ context.Context, event events.Event) error {
	p.types = append(p.types, event.EventType())
	return nil
}

var _ = Describe("ExpenseService", func() {
	var (
		service   *expense.Service
		kv        *memory.Store
		publisher *recordingPublisher
		now       time.Time
	)

	clock := func() time.Time { return now }

	validDTO := func() expense.CreateExpenseDTO {
		return expense.CreateExpenseDTO{
			Amount:      decimal.RequireFromString("12.50"),
			Description: "Lunch at cafe",
			Category:    "Food",
			Date:        day(2024, 3, 14),
		}
	}

	BeforeEach(func() {
		now = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
		kv = memory.NewStore(0)
		publisher = &recordingPublisher{}
		service = expense.NewService(storage.NewStore(kv, logger.Discard()), clock, publisher, logger.Discard())
	})

	Describe("Create", func() {
		It("should assign an id and timestamps and persist the expense", func() {
			created, err := service.Create(validDTO())
			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID).ToNot(BeEmpty())
			Expect(created.CreatedAt).To(BeTemporally("==", now))
			Expect(created.UpdatedAt).To(BeTemporally("==", now))

			found, err := service.GetByID(created.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(found).ToNot(BeNil())
			Expect(found.Amount.Equal(created.Amount)).To(BeTrue())
			Expect(publisher.types).To(Equal([]string{events.EventTypeExpenseCreated}))
		})

		It("should give every expense a distinct id", func() {
			a, _ := service.Create(validDTO())
			b, _ := service.Create(validDTO())
			Expect(a.ID).ToNot(Equal(b.ID))
		})

		It("should accept an expense dated today", func() {
			dto := validDTO()
			dto.Date = day(2024, 3, 15)
			_, err := service.Create(dto)
			Expect(err).ToNot(HaveOccurred())
		})

		Context("when validation fails", func() {
			It("should reject a future date and store nothing", func() {
				dto := validDTO()
				dto.Date = day(2024, 3, 16)

				_, err := service.Create(dto)
				Expect(errors.Is(err, internal.ErrValidation)).To(BeTrue())

				all, _ := service.List(nil)
				Expect(all).To(BeEmpty())
				Expect(publisher.types).To(BeEmpty())
			})

			It("should reject a short description", func() {
				dto := validDTO()
				dto.Description = "ab"
				_, err := service.Create(dto)
				Expect(errors.Is(err, internal.ErrValidation)).To(BeTrue())
			})
		})

		Context("when storage is full", func() {
			It("should return a quota error", func() {
				kv = memory.NewStore(10)
				service = expense.NewService(storage.NewStore(kv, logger.Discard()), clock, nil, logger.Discard())

				_, err := service.Create(validDTO())
				Expect(errors.Is(err, internal.ErrStorageQuotaExceeded)).To(BeTrue())
			})
		})
	})

	Describe("Update", func() {
		It("should change only the given fields and advance updatedAt", func() {
			created, _ := service.Create(validDTO())
			now = now.Add(time.Minute)

			amount := decimal.RequireFromString("20")
			updated, err := service.Update(created.ID, expense.UpdateExpenseDTO{Amount: &amount})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Amount.Equal(amount)).To(BeTrue())
			Expect(updated.Description).To(Equal(created.Description))
			Expect(updated.CreatedAt).To(BeTemporally("==", created.CreatedAt))
			Expect(updated.UpdatedAt.After(created.UpdatedAt)).To(BeTrue())
		})

		It("should still advance updatedAt when the clock has not moved", func() {
			created, _ := service.Create(validDTO())
			description := "Dinner at cafe"
			updated, err := service.Update(created.ID, expense.UpdateExpenseDTO{Description: &description})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.UpdatedAt.After(created.UpdatedAt)).To(BeTrue())
		})

		It("should return not found for an unknown id", func() {
			_, err := service.Update("missing", expense.UpdateExpenseDTO{})
			Expect(errors.Is(err, internal.ErrExpenseNotFound)).To(BeTrue())
			Expect(err.Error()).To(Equal("Expense with id missing not found"))
		})
	})

	Describe("Delete", func() {
		It("should remove the expense", func() {
			created, _ := service.Create(validDTO())
			Expect(service.Delete(created.ID)).To(Succeed())

			found, err := service.GetByID(created.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(BeNil())
			Expect(publisher.types).To(ContainElement(events.EventTypeExpenseDeleted))
		})

		It("should ignore an unknown id", func() {
			_, _ = service.Create(validDTO())
			Expect(service.Delete("missing")).To(Succeed())

			all, _ := service.List(nil)
			Expect(all).To(HaveLen(1))
		})
	})

	Describe("listing", func() {
		BeforeEach(func() {
			for _, d := range []struct {
				amount, category string
				date             time.Time
			}{
				{"10", "Food", day(2024, 3, 1)},
				{"25", "Transportation", day(2024, 3, 2)},
				{"5", "Food", day(2024, 2, 28)},
			} {
				dto := validDTO()
				dto.Amount = decimal.RequireFromString(d.amount)
				dto.Category = d.category
				dto.Date = d.date
				_, err := service.Create(dto)
				Expect(err).ToNot(HaveOccurred())
			}
		})

		It("should sum every expense", func() {
			total, err := service.Total()
			Expect(err).ToNot(HaveOccurred())
			Expect(total.Equal(decimal.NewFromInt(40))).To(BeTrue())
		})

		It("should filter by category and date range", func() {
			food, _ := service.ByCategory("Food")
			Expect(food).To(HaveLen(2))

			march, _ := service.ByDateRange(day(2024, 3, 1), day(2024, 3, 31))
			Expect(march).To(HaveLen(2))
		})

		It("should combine filter, sort and pagination", func() {
			result, err := service.Query(nil,
				expense.SortOptions{Field: expense.SortByAmount, Order: expense.SortDesc},
				expense.Pagination{Page: 1, Limit: 2})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Total).To(Equal(3))
			Expect(result.Expenses).To(HaveLen(2))
			Expect(result.Expenses[0].Amount.Equal(decimal.NewFromInt(25))).To(BeTrue())
			Expect(result.HasNext).To(BeTrue())
		})
	})
})
