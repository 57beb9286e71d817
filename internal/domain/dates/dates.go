package dates

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("period end date before start date")

// Period is an inclusive date range, e.g. a payroll month.
type Period struct {
	Start time.Time
	End   time.Time
}

func NewPeriod(start, end time.Time) (Period, error) {
	start = Truncate(start)
	end = Truncate(end)
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// MonthlyPeriod returns the calendar-month period for year/month.
func MonthlyPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Period{Start: start, End: end}
}

func (p Period) Days() int {
	return daysBetween(p.Start, p.End)
}

// BusinessDays counts Monday-Friday days in the period.
func (p Period) BusinessDays() int {
	count := 0
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

func (p Period) Contains(d time.Time) bool {
	d = Truncate(d)
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) Overlaps(other Period) bool {
	return !other.End.Before(p.Start) && !other.Start.After(p.End)
}

// OverlapDays returns the number of days (inclusive) shared with other,
// zero when the ranges are disjoint.
func (p Period) OverlapDays(other Period) int {
	start := maxDate(p.Start, other.Start)
	end := minDate(p.End, other.End)
	if end.Before(start) {
		return 0
	}
	return daysBetween(start, end)
}

func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

// Window is a validity range [ValidFrom, ValidTo]; ValidTo nil means open-ended.
type Window struct {
	ValidFrom time.Time
	ValidTo   *time.Time
}

func NewWindow(from time.Time, to *time.Time) (Window, error) {
	from = Truncate(from)
	if to != nil {
		t := Truncate(*to)
		if t.Before(from) {
			return Window{}, ErrInvalidPeriod
		}
		to = &t
	}
	return Window{ValidFrom: from, ValidTo: to}, nil
}

func (w Window) ActiveAt(d time.Time) bool {
	d = Truncate(d)
	if d.Before(w.ValidFrom) {
		return false
	}
	if w.ValidTo != nil && d.After(*w.ValidTo) {
		return false
	}
	return true
}

func (w Window) Overlaps(p Period) bool {
	if p.End.Before(w.ValidFrom) {
		return false
	}
	if w.ValidTo != nil && p.Start.After(*w.ValidTo) {
		return false
	}
	return true
}

// OverlapDays clips the window (open ends clipped to the period) and returns
// the inclusive day count shared with p.
func (w Window) OverlapDays(p Period) int {
	start := maxDate(w.ValidFrom, p.Start)
	end := p.End
	if w.ValidTo != nil {
		end = minDate(*w.ValidTo, p.End)
	}
	if end.Before(start) {
		return 0
	}
	return daysBetween(start, end)
}

// Truncate normalizes a timestamp to a UTC calendar date.
func Truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
