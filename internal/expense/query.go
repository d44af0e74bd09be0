package expense

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/core/common/dates"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filters narrows a listing. Every set clause must match. Search is a
// case-insensitive substring match on the description only.
type Filters struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	Category  string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Search    string
}

func (f *Filters) Match(e *Expense) bool {
	if f == nil {
		return true
	}
	day := dates.Day(e.Date)
	if f.DateFrom != nil && day.Before(dates.Day(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && day.After(dates.Day(*f.DateTo)) {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.MinAmount != nil && e.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && e.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		if !strings.Contains(strings.ToLower(e.Description), strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// Filter returns the expenses matching f, keeping their order.
func Filter(expenses []*Expense, f *Filters) []*Expense {
	result := make([]*Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Match(e) {
			result = append(result, e)
		}
	}
	return result
}

type SortField string

const (
	SortByDate        SortField = "date"
	SortByAmount      SortField = "amount"
	SortByCategory    SortField = "category"
	SortByDescription SortField = "description"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions zero value sorts by date, newest first.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(s)); f {
	case SortByDate, SortByAmount, SortByCategory, SortByDescription:
		return f, nil
	case "":
		return SortByDate, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(s)); o {
	case SortAsc, SortDesc:
		return o, nil
	case "":
		return SortDesc, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

func (o SortOptions) normalized() SortOptions {
	if o.Field == "" {
		o.Field = SortByDate
	}
	if o.Order == "" {
		o.Order = SortDesc
	}
	return o
}

// Sort returns a sorted copy. The sort is stable, so equal keys keep
// insertion order in both directions.
func Sort(expenses []*Expense, opts SortOptions) []*Expense {
	opts = opts.normalized()
	sorted := slices.Clone(expenses)
	col := collate.New(language.English)

	compare := func(a, b *Expense) int {
		switch opts.Field {
		case SortByAmount:
			return a.Amount.Cmp(b.Amount)
		case SortByCategory:
			return col.CompareString(a.Category, b.Category)
		case SortByDescription:
			return col.CompareString(a.Description, b.Description)
		default:
			return a.Date.Compare(b.Date)
		}
	}

	slices.SortStableFunc(sorted, func(a, b *Expense) int {
		if opts.Order == SortAsc {
			return compare(a, b)
		}
		return -compare(a, b)
	})
	return sorted
}

// Pagination is 1-based. Limit <= 0 disables paging.
type Pagination struct {
	Page  int
	Limit int
}

type ListResult struct {
	Expenses    []*Expense `json:"expenses"`
	Total       int        `json:"total"`
	Page        int        `json:"page"`
	Limit       int        `json:"limit"`
	TotalPages  int        `json:"totalPages"`
	HasNext     bool       `json:"hasNext"`
	HasPrevious bool       `json:"hasPrevious"`
}

// Paginate slices [(page-1)*limit, page*limit). Pages past the end are
// empty, not an error.
func Paginate(expenses []*Expense, p Pagination) *ListResult {
	total := len(expenses)
	if p.Limit <= 0 {
		return &ListResult{
			Expenses:   expenses,
			Total:      total,
			Page:       1,
			Limit:      total,
			TotalPages: 1,
		}
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	totalPages := (total + p.Limit - 1) / p.Limit

	result := &ListResult{
		Expenses:    []*Expense{},
		Total:       total,
		Page:        page,
		Limit:       p.Limit,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
	// compare in pages before multiplying so huge page numbers cannot overflow
	if page > totalPages {
		return result
	}

	start := (page - 1) * p.Limit
	end := min(start+p.Limit, total)
	result.Expenses = expenses[start:end]
	return result
}
