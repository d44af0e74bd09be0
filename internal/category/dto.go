package category

import (
	"strings"

	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateCategoryDTO struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

func (dto *CreateCategoryDTO) Normalize() {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Color = strings.TrimSpace(dto.Color)
	dto.Icon = strings.TrimSpace(dto.Icon)
}

func (dto CreateCategoryDTO) Validate() error {
	if err := validation.NewValidator().
		CategoryName(dto.Name).
		CategoryColor(dto.Color).
		Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateCategoryDTO carries a partial update; nil fields are left unchanged.
type UpdateCategoryDTO struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

func (dto *UpdateCategoryDTO) Normalize() {
	for _, p := range []*string{dto.Name, dto.Color, dto.Icon} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

func (dto UpdateCategoryDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.CategoryName(*dto.Name)
	}
	if dto.Color != nil {
		v.CategoryColor(*dto.Color)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Stats is a category with its all-time spending.
type Stats struct {
	Category
	TotalSpent       decimal.Decimal `json:"totalSpent"`
	TransactionCount int             `json:"transactionCount"`
}
