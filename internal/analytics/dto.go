package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultColor is used for expenses whose category no longer exists.
const DefaultColor = "#6b7280"

type BreakdownEntry struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
	Color      string          `json:"color"`
	Icon       string          `json:"icon,omitempty"`
}

type TrendPoint struct {
	Month  time.Time       `json:"month"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type DashboardStats struct {
	TotalSpend       decimal.Decimal `json:"totalSpend"`
	TransactionCount int             `json:"transactionCount"`
	TopCategory      string          `json:"topCategory"`
	AvgDailySpend    decimal.Decimal `json:"avgDailySpend"`
}

type MonthlySummary struct {
	Month      time.Time         `json:"month"`
	Total      decimal.Decimal   `json:"total"`
	Count      int               `json:"count"`
	Average    decimal.Decimal   `json:"average"`
	ByCategory []*BreakdownEntry `json:"byCategory"`
}
