// Package analytics derives spending summaries from the stored collections.
// Nothing is cached; every call rescans the current data.
package analytics

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/common/dates"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type RepositoryAPI interface {
	LoadExpenses() ([]*expenseDatamodel.Expense, error)
	LoadCategories() ([]*categoryDatamodel.Category, error)
}

type Service struct {
	repo   RepositoryAPI
	clock  internal.Clock
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, clock internal.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = internal.SystemClock
	}
	return &Service{repo: repo, clock: clock, logger: logger}
}

func (s *Service) loadExpenses() ([]*expense.Expense, error) {
	data, err := s.repo.LoadExpenses()
	if err != nil {
		s.logger.Error("failed to load expenses for analytics", "error", err)
		return nil, err
	}
	return expense.FromDataModelSlice(data), nil
}

func (s *Service) loadCategories() (map[string]*category.Category, error) {
	data, err := s.repo.LoadCategories()
	if err != nil {
		s.logger.Error("failed to load categories for analytics", "error", err)
		return nil, err
	}
	byName := make(map[string]*category.Category, len(data))
	for _, c := range category.FromDataModelSlice(data) {
		byName[c.Name] = c
	}
	return byName, nil
}

// MonthlyTotal sums expenses dated in the calendar month containing anchor.
func (s *Service) MonthlyTotal(anchor time.Time) (decimal.Decimal, error) {
	expenses, err := s.loadExpenses()
	if err != nil {
		return decimal.Zero, err
	}
	return sum(inMonth(expenses, anchor)), nil
}

// CategoryBreakdown groups the month's expenses by category name, in the
// order each category first appears in the collection.
func (s *Service) CategoryBreakdown(anchor time.Time) ([]*BreakdownEntry, error) {
	expenses, err := s.loadExpenses()
	if err != nil {
		return nil, err
	}
	categories, err := s.loadCategories()
	if err != nil {
		return nil, err
	}
	return breakdown(inMonth(expenses, anchor), categories), nil
}

// MonthlyTrend returns n monthly totals, oldest first, ending with the
// clock's current month.
func (s *Service) MonthlyTrend(n int) ([]*TrendPoint, error) {
	if n <= 0 {
		return []*TrendPoint{}, nil
	}
	expenses, err := s.loadExpenses()
	if err != nil {
		return nil, err
	}

	current := dates.StartOfMonth(s.clock())
	points := make([]*TrendPoint, n)
	index := make(map[time.Time]*TrendPoint, n)
	for i := 0; i < n; i++ {
		month := dates.AddMonths(current, i-(n-1))
		points[i] = &TrendPoint{Month: month, Label: dates.FormatMonth(month), Amount: decimal.Zero}
		index[month] = points[i]
	}
	for _, e := range expenses {
		if p, ok := index[dates.StartOfMonth(e.Date)]; ok {
			p.Amount = p.Amount.Add(e.Amount)
		}
	}
	return points, nil
}

// DashboardStats summarizes anchor's month. TopCategory is empty for a month
// with no expenses; ties go to the entry listed first in the breakdown.
func (s *Service) DashboardStats(anchor time.Time) (*DashboardStats, error) {
	expenses, err := s.loadExpenses()
	if err != nil {
		return nil, err
	}
	categories, err := s.loadCategories()
	if err != nil {
		return nil, err
	}

	month := inMonth(expenses, anchor)
	total := sum(month)

	stats := &DashboardStats{
		TotalSpend:       total,
		TransactionCount: len(month),
		AvgDailySpend:    total.Div(decimal.NewFromInt(int64(dates.DaysInMonth(anchor)))),
	}

	var top *BreakdownEntry
	for _, entry := range breakdown(month, categories) {
		if top == nil || entry.Amount.GreaterThan(top.Amount) {
			top = entry
		}
	}
	if top != nil {
		stats.TopCategory = top.Category
	}
	return stats, nil
}

// MonthlySummary is total, count, per-transaction average and breakdown for
// anchor's month.
func (s *Service) MonthlySummary(anchor time.Time) (*MonthlySummary, error) {
	expenses, err := s.loadExpenses()
	if err != nil {
		return nil, err
	}
	categories, err := s.loadCategories()
	if err != nil {
		return nil, err
	}

	month := inMonth(expenses, anchor)
	total := sum(month)
	average := decimal.Zero
	if len(month) > 0 {
		average = total.Div(decimal.NewFromInt(int64(len(month))))
	}

	return &MonthlySummary{
		Month:      dates.StartOfMonth(anchor),
		Total:      total,
		Count:      len(month),
		Average:    average,
		ByCategory: breakdown(month, categories),
	}, nil
}

func inMonth(expenses []*expense.Expense, anchor time.Time) []*expense.Expense {
	result := make([]*expense.Expense, 0, len(expenses))
	for _, e := range expenses {
		if dates.InMonth(e.Date, anchor) {
			result = append(result, e)
		}
	}
	return result
}

func sum(expenses []*expense.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

func breakdown(expenses []*expense.Expense, categories map[string]*category.Category) []*BreakdownEntry {
	total := sum(expenses)
	entries := make([]*BreakdownEntry, 0)
	byName := make(map[string]*BreakdownEntry)

	for _, e := range expenses {
		entry, ok := byName[e.Category]
		if !ok {
			entry = &BreakdownEntry{Category: e.Category, Amount: decimal.Zero, Color: DefaultColor}
			if c, found := categories[e.Category]; found {
				entry.Color = c.Color
				entry.Icon = c.Icon
			}
			byName[e.Category] = entry
			entries = append(entries, entry)
		}
		entry.Amount = entry.Amount.Add(e.Amount)
		entry.Count++
	}

	for _, entry := range entries {
		entry.Percentage = decimal.Zero
		if !total.IsZero() {
			entry.Percentage = entry.Amount.Div(total).Mul(hundred)
		}
	}
	return entries
}
