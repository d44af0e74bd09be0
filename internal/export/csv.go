// Package export renders expenses for spreadsheet tools.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/core/common/currency"
	"github.com/frahmantamala/expense-tracker/internal/core/common/dates"
	"github.com/frahmantamala/expense-tracker/internal/expense"
)

const (
	bom       = "\ufeff"
	lineBreak = "\r\n"
)

var header = []string{"Date", "Description", "Category", "Amount", "Created At"}

// ToCSV renders expenses in the given order. The leading byte order mark
// makes spreadsheet tools read the file as UTF-8.
func ToCSV(expenses []*expense.Expense) string {
	var b strings.Builder
	b.WriteString(bom)
	b.WriteString(strings.Join(header, ","))
	b.WriteString(lineBreak)

	for _, e := range expenses {
		fields := []string{
			e.Date.Format(dates.DateLayout),
			quote(e.Description),
			quoteIfNeeded(e.Category),
			currency.Format(e.Amount),
			e.CreatedAt.Format(dates.DateTimeLayout),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString(lineBreak)
	}
	return b.String()
}

// Filename is the suggested download name for an export made at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("expenses-export-%s.csv", now.Format(dates.DateLayout))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
