package dateutil

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := date(2025, 1, 15)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(Today()) {
			t.Errorf("got %v, want %v", got, Today())
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestNewWindow(t *testing.T) {
	t.Run("valid window", func(t *testing.T) {
		w, err := NewWindow("2025-03-01", "2025-03-05")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.Days() != 4 {
			t.Errorf("expected 4 days, got %d", w.Days())
		}
	})

	t.Run("end equal to start", func(t *testing.T) {
		_, err := NewWindow("2025-03-01", "2025-03-01")
		if !errors.Is(err, ErrEndDateBeforeStart) {
			t.Errorf("got error %v, want %v", err, ErrEndDateBeforeStart)
		}
	})

	t.Run("bad end", func(t *testing.T) {
		_, err := NewWindow("2025-03-01", "tomorrow")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		anchor time.Time
		start  time.Time
		days   int
	}{
		{date(2025, 3, 17), date(2025, 3, 1), 31},
		{date(2024, 2, 29), date(2024, 2, 1), 29},
		{date(2025, 2, 1), date(2025, 2, 1), 28},
		{date(2025, 12, 31), date(2025, 12, 1), 31},
	}
	for _, tt := range tests {
		w := MonthWindow(tt.anchor)
		if !w.Start.Equal(tt.start) {
			t.Errorf("MonthWindow(%s).Start = %s, want %s", FormatDate(tt.anchor), FormatDate(w.Start), FormatDate(tt.start))
		}
		if w.Days() != tt.days {
			t.Errorf("MonthWindow(%s).Days() = %d, want %d", FormatDate(tt.anchor), w.Days(), tt.days)
		}
		if len(w.Dates()) != tt.days {
			t.Errorf("expected %d dates, got %d", tt.days, len(w.Dates()))
		}
	}
}

func TestWindowNavigation(t *testing.T) {
	w := MonthWindow(date(2025, 1, 10))

	prev := w.Prev()
	if !prev.Start.Equal(date(2024, 12, 1)) {
		t.Errorf("expected December 2024, got %s", prev.Label())
	}
	next := w.Next()
	if !next.Start.Equal(date(2025, 2, 1)) {
		t.Errorf("expected February 2025, got %s", next.Label())
	}
	if w.Label() != "January 2025" {
		t.Errorf("expected label January 2025, got %q", w.Label())
	}
}

func TestParseMonth(t *testing.T) {
	w, err := ParseMonth("2025-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Start.Equal(date(2025, 3, 1)) || !w.End.Equal(date(2025, 4, 1)) {
		t.Errorf("unexpected window %v", w)
	}

	if _, err := ParseMonth("March"); !errors.Is(err, ErrInvalidMonthFormat) {
		t.Errorf("got error %v, want %v", err, ErrInvalidMonthFormat)
	}
}

func TestContains(t *testing.T) {
	w := WindowFrom(date(2025, 3, 1), 3)

	if !w.Contains(date(2025, 3, 1)) {
		t.Error("start should be contained")
	}
	if !w.Contains(date(2025, 3, 3)) {
		t.Error("last day should be contained")
	}
	if w.Contains(date(2025, 3, 4)) {
		t.Error("end is exclusive")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		a1, a2 time.Time
		b1, b2 time.Time
		want   bool
	}{
		{"back to back", date(2025, 3, 1), date(2025, 3, 3), date(2025, 3, 3), date(2025, 3, 5), false},
		{"one night shared", date(2025, 3, 1), date(2025, 3, 3), date(2025, 3, 2), date(2025, 3, 4), true},
		{"contained", date(2025, 3, 1), date(2025, 3, 10), date(2025, 3, 4), date(2025, 3, 5), true},
		{"disjoint", date(2025, 3, 1), date(2025, 3, 2), date(2025, 3, 5), date(2025, 3, 6), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a1, tt.a2, tt.b1, tt.b2); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skip("timezone data not available")
	}
	a := time.Date(2025, 3, 29, 0, 0, 0, 0, loc)
	b := time.Date(2025, 3, 31, 0, 0, 0, 0, loc)
	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("expected 2 days across DST change, got %d", got)
	}
}

func TestIsWeekend(t *testing.T) {
	if !IsWeekend(date(2025, 3, 1)) {
		t.Error("2025-03-01 is a Saturday")
	}
	if !IsWeekend(date(2025, 3, 2)) {
		t.Error("2025-03-02 is a Sunday")
	}
	if IsWeekend(date(2025, 3, 3)) {
		t.Error("2025-03-03 is a Monday")
	}
}

func TestDay(t *testing.T) {
	in := time.Date(2025, 3, 5, 23, 30, 0, 0, time.FixedZone("X", -5*3600))
	got := Day(in)
	if !got.Equal(date(2025, 3, 5)) {
		t.Errorf("expected calendar date to be preserved, got %v", got)
	}
}
