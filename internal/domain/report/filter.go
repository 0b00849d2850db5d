package report

import (
	"time"

	"github.com/agency/backend/internal/domain/shared"
)

// Filter narrows a report. Every non-empty predicate is AND-ed with the others.
type Filter struct {
	From     *time.Time // inclusive date
	To       *time.Time // inclusive date
	Month    int        // 1..12, 0 = any
	Year     int        // 0 = any, or the current year when Month is set
	Status   string     // order status
	Method   string     // payment method
	Category string     // expense category
}

// Window is a half-open time range [Start, End). Nil bounds are open.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && !t.Before(*w.End) {
		return false
	}
	return true
}

// IsEmpty reports whether no instant can satisfy the window
func (w Window) IsEmpty() bool {
	return w.Start != nil && w.End != nil && !w.Start.Before(*w.End)
}

// Validate checks the filter's fields
func (f Filter) Validate() error {
	if f.Month < 0 || f.Month > 12 {
		return shared.NewDomainError("INVALID_MONTH", "Month must be between 1 and 12")
	}
	if f.Year != 0 && (f.Year < 2000 || f.Year > 2100) {
		return shared.NewDomainError("INVALID_YEAR", "Year is out of range")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "From date must not be after to date")
	}
	return nil
}

// Window resolves the date predicates into a single range, intersecting
// from/to with the month/year selection. now supplies the default year.
func (f Filter) Window(now time.Time) Window {
	loc := now.Location()
	var w Window

	if f.From != nil {
		start := startOfDay(*f.From, loc)
		w.Start = &start
	}
	if f.To != nil {
		end := startOfDay(*f.To, loc).AddDate(0, 0, 1)
		w.End = &end
	}

	year := f.Year
	if f.Month != 0 && year == 0 {
		year = now.Year()
	}
	if year != 0 {
		var start, end time.Time
		if f.Month != 0 {
			start = time.Date(year, time.Month(f.Month), 1, 0, 0, 0, 0, loc)
			end = start.AddDate(0, 1, 0)
		} else {
			start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
			end = start.AddDate(1, 0, 0)
		}
		if w.Start == nil || start.After(*w.Start) {
			w.Start = &start
		}
		if w.End == nil || end.Before(*w.End) {
			w.End = &end
		}
	}
	return w
}

// startOfDay keeps the calendar date as bound, whatever zone it was parsed in
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
