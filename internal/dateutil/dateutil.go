// Package dateutil provides calendar-date parsing and half-open window helpers.
//
// All dates handled here are calendar days represented as midnight UTC.
package dateutil

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Layout is the wire and storage format for calendar dates.
const Layout = "2006-01-02"

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrEndDateBeforeStart = errors.New("end date must be after start date")
	ErrInvalidMonthFormat = errors.New("month must be in YYYY-MM format")
)

// Window is a half-open range of calendar days: Start is included, End is not.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow creates a Window from two dates in YYYY-MM-DD format.
// start can be empty (defaults to today). end must be after start.
func NewWindow(start, end string) (Window, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Window{}, err
	}
	if !e.After(s) {
		return Window{}, ErrEndDateBeforeStart
	}
	return Window{Start: s, End: e}, nil
}

// WindowFrom returns a window of n days starting at start.
func WindowFrom(start time.Time, n int) Window {
	s := Day(start)
	if n < 1 {
		n = 1
	}
	return Window{Start: s, End: s.AddDate(0, 0, n)}
}

// MonthWindow returns the window covering the calendar month containing anchor.
func MonthWindow(anchor time.Time) Window {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: first, End: first.AddDate(0, 1, 0)}
}

// Days returns the number of days in the window.
func (w Window) Days() int {
	return DaysBetween(w.Start, w.End)
}

// Dates enumerates every day in the window.
func (w Window) Dates() []time.Time {
	n := w.Days()
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(w.Start) && d.Before(w.End)
}

// Prev returns the previous calendar month window.
func (w Window) Prev() Window {
	return MonthWindow(w.Start.AddDate(0, -1, 0))
}

// Next returns the following calendar month window.
func (w Window) Next() Window {
	return MonthWindow(w.Start.AddDate(0, 1, 0))
}

// Label formats the window for headers, e.g. "March 2025".
func (w Window) Label() string {
	if w.Start.Day() == 1 && w.End.Equal(w.Start.AddDate(0, 1, 0)) {
		return w.Start.Format("January 2006")
	}
	return FormatDate(w.Start) + " .. " + FormatDate(w.End.AddDate(0, 0, -1))
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Today(), nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ParseMonth parses a month in YYYY-MM format and returns its window.
// An empty string selects the current month.
func ParseMonth(s string) (Window, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MonthWindow(Today()), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Window{}, ErrInvalidMonthFormat
	}
	return MonthWindow(t), nil
}

// FormatDate renders a day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the current calendar day.
func Today() time.Time {
	return Day(time.Now())
}

// Day strips the clock from t, keeping the calendar date t shows in its own zone.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of days from a to b, rounded to the nearest day.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// Overlaps reports whether the half-open ranges [aStart,aEnd) and [bStart,bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// InRange reports whether d lies in [start, end).
func InRange(d, start, end time.Time) bool {
	return !d.Before(start) && d.Before(end)
}

// IsWeekend reports whether d is a Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// MaxTime returns the later of a and b.
func MaxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// MinTime returns the earlier of a and b.
func MinTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
