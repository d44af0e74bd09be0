package category

import (
	"strings"
	"time"

	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	"github.com/google/uuid"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
}

// SameName compares category names the way uniqueness is enforced.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (c *Category) HasName(name string) bool {
	return SameName(c.Name, name)
}

func (c *Category) Clone() *Category {
	cp := *c
	return &cp
}

func NewCategory(dto CreateCategoryDTO, now time.Time) *Category {
	return &Category{
		ID:        uuid.NewString(),
		Name:      dto.Name,
		Color:     dto.Color,
		Icon:      dto.Icon,
		CreatedAt: now.UTC(),
	}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
	}
}

func FromDataModelSlice(categories []*categoryDatamodel.Category) []*Category {
	result := make([]*Category, len(categories))
	for i, c := range categories {
		result[i] = FromDataModel(c)
	}
	return result
}

func ToDataModelSlice(categories []*Category) []*categoryDatamodel.Category {
	result := make([]*categoryDatamodel.Category, len(categories))
	for i, c := range categories {
		result[i] = ToDataModel(c)
	}
	return result
}
