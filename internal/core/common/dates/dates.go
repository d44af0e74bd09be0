// Package dates holds calendar arithmetic shared by queries and analytics.
// A calendar date is represented as midnight UTC of that day.
package dates

import "time"

const (
	DateLayout     = "2006-01-02"
	MonthLayout    = "2006-01"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Day returns the calendar date of t, read in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the calendar date of now.
func Today(now time.Time) time.Time {
	return Day(now)
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last calendar date of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

func DaysInMonth(t time.Time) int {
	return EndOfMonth(t).Day()
}

// AddMonths shifts a month start by n months without day overflow.
func AddMonths(t time.Time, n int) time.Time {
	return StartOfMonth(t).AddDate(0, n, 0)
}

// InMonth reports whether the calendar date of t lies in anchor's month.
func InMonth(t, anchor time.Time) bool {
	ty, tm, _ := t.Date()
	ay, am, _ := anchor.Date()
	return ty == ay && tm == am
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func ParseMonth(s string) (time.Time, error) {
	return time.ParseInLocation(MonthLayout, s, time.UTC)
}

func FormatMonth(t time.Time) string {
	return t.Format("Jan 2006")
}
