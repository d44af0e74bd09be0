package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the persisted form of an expense inside the "expenses"
// collection. Field names match the layout written by earlier versions of the
// application so existing data keeps loading.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
