package expense

import (
	"time"

	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

// CreateExpenseDTO represents the input for creating an expense
type CreateExpenseDTO struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
}

// Validate checks the DTO against the clock's current date.
func (dto CreateExpenseDTO) Validate(now time.Time) error {
	if err := validation.NewValidator().
		ExpenseAmount(dto.Amount).
		ExpenseDescription(dto.Description).
		ExpenseCategory(dto.Category).
		ExpenseDate(dto.Date, now).
		Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateExpenseDTO carries a partial update; nil fields are left unchanged.
type UpdateExpenseDTO struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
}

func (dto UpdateExpenseDTO) IsEmpty() bool {
	return dto.Amount == nil && dto.Description == nil && dto.Category == nil && dto.Date == nil
}

func (dto UpdateExpenseDTO) Validate(now time.Time) error {
	v := validation.NewValidator()
	if dto.Amount != nil {
		v.ExpenseAmount(*dto.Amount)
	}
	if dto.Description != nil {
		v.ExpenseDescription(*dto.Description)
	}
	if dto.Category != nil {
		v.ExpenseCategory(*dto.Category)
	}
	if dto.Date != nil {
		v.ExpenseDate(*dto.Date, now)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
