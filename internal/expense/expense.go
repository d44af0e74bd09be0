package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/common/dates"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func NewExpense(dto CreateExpenseDTO, now time.Time) *Expense {
	now = now.UTC()
	return &Expense{
		ID:          uuid.NewString(),
		Amount:      dto.Amount,
		Description: dto.Description,
		Category:    dto.Category,
		Date:        dates.Day(dto.Date),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply merges the non-nil fields of dto onto e.
func (e *Expense) Apply(dto UpdateExpenseDTO) {
	if dto.Amount != nil {
		e.Amount = *dto.Amount
	}
	if dto.Description != nil {
		e.Description = *dto.Description
	}
	if dto.Category != nil {
		e.Category = *dto.Category
	}
	if dto.Date != nil {
		e.Date = dates.Day(*dto.Date)
	}
}

// Touch moves UpdatedAt to now, nudging forward if the clock has not
// advanced so every edit is observable.
func (e *Expense) Touch(now time.Time) {
	now = now.UTC()
	if !now.After(e.UpdatedAt) {
		now = e.UpdatedAt.Add(time.Nanosecond)
	}
	e.UpdatedAt = now
}

func (e *Expense) Clone() *Expense {
	c := *e
	return &c
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.Category,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.Category,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}

func ToDataModelSlice(expenses []*Expense) []*expenseDatamodel.Expense {
	result := make([]*expenseDatamodel.Expense, len(expenses))
	for i, e := range expenses {
		result[i] = ToDataModel(e)
	}
	return result
}
