package ratsinfo

import (
	"time"

	"terminplaner-backend/lib/timezone"
)

// Period is one calendar month, the upstream's unit of query granularity.
type Period struct {
	Year  int
	Month time.Month
}

// Bounds returns the first and last calendar day of the month.
func (p Period) Bounds() (time.Time, time.Time) {
	first := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, timezone.Location)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// MonthsInRange lists every (year, month) pair whose calendar month is
// touched by [start, end], ascending. The degenerate single-month range
// yields exactly one period.
func MonthsInRange(start, end time.Time) []Period {
	var periods []Period

	current := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, timezone.Location)
	for !current.After(end) {
		periods = append(periods, Period{
			Year:  current.Year(),
			Month: current.Month(),
		})
		current = current.AddDate(0, 1, 0)
	}

	return periods
}
