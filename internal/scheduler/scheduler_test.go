package scheduler

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDefaultStay(t *testing.T) {
	s := New("22:00", 2)

	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	stay := s.DefaultStay(now)

	if !stay.CheckIn.Equal(date(2025, 3, 11)) {
		t.Errorf("expected check-in tomorrow, got %v", stay.CheckIn)
	}
	if !stay.CheckOut.Equal(date(2025, 3, 13)) {
		t.Errorf("expected check-out three days from today, got %v", stay.CheckOut)
	}
	if stay.Nights() != 2 {
		t.Errorf("expected 2 nights, got %d", stay.Nights())
	}
}

func TestDefaultStay_MonthEnd(t *testing.T) {
	s := New("22:00", 2)

	stay := s.DefaultStay(time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC))
	if !stay.CheckIn.Equal(date(2025, 3, 1)) || !stay.CheckOut.Equal(date(2025, 3, 3)) {
		t.Errorf("unexpected stay %v - %v", stay.CheckIn, stay.CheckOut)
	}
}

func TestEarliestCheckIn(t *testing.T) {
	s := New("22:00", 2)

	before := time.Date(2025, 3, 10, 21, 59, 0, 0, time.UTC)
	if got := s.EarliestCheckIn(before); !got.Equal(date(2025, 3, 10)) {
		t.Errorf("expected today, got %v", got)
	}

	after := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	if got := s.EarliestCheckIn(after); !got.Equal(date(2025, 3, 11)) {
		t.Errorf("expected tomorrow, got %v", got)
	}

	noCutoff := New("", 1)
	if got := noCutoff.EarliestCheckIn(after); !got.Equal(date(2025, 3, 10)) {
		t.Errorf("expected today without cutoff, got %v", got)
	}
}

func TestClampCheckOut(t *testing.T) {
	in := date(2025, 3, 10)

	if got := ClampCheckOut(in, in); !got.Equal(date(2025, 3, 11)) {
		t.Errorf("same-day check-out should move to next day, got %v", got)
	}
	if got := ClampCheckOut(in, date(2025, 3, 8)); !got.Equal(date(2025, 3, 11)) {
		t.Errorf("earlier check-out should move to next day, got %v", got)
	}
	if got := ClampCheckOut(in, date(2025, 3, 15)); !got.Equal(date(2025, 3, 15)) {
		t.Errorf("valid check-out should be kept, got %v", got)
	}
}

func TestComplete(t *testing.T) {
	s := New("22:00", 3)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("both missing", func(t *testing.T) {
		stay := s.Complete(now, time.Time{}, time.Time{})
		if !stay.CheckIn.Equal(date(2025, 3, 11)) || stay.Nights() != 3 {
			t.Errorf("unexpected stay %v - %v", stay.CheckIn, stay.CheckOut)
		}
	})

	t.Run("checkout missing", func(t *testing.T) {
		stay := s.Complete(now, date(2025, 4, 1), time.Time{})
		if !stay.CheckOut.Equal(date(2025, 4, 4)) {
			t.Errorf("unexpected check-out %v", stay.CheckOut)
		}
	})

	t.Run("checkout before checkin", func(t *testing.T) {
		stay := s.Complete(now, date(2025, 4, 1), date(2025, 3, 30))
		if !stay.CheckOut.Equal(date(2025, 4, 2)) {
			t.Errorf("unexpected check-out %v", stay.CheckOut)
		}
	})
}

func TestValidateStay(t *testing.T) {
	s := New("22:00", 2)
	now := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		stay Stay
		want string
	}{
		{"valid", Stay{date(2025, 3, 11), date(2025, 3, 12)}, ""},
		{"past cutoff", Stay{date(2025, 3, 10), date(2025, 3, 12)}, "check-in is too early"},
		{"reversed", Stay{date(2025, 3, 12), date(2025, 3, 12)}, "check-out must be after check-in"},
		{"missing", Stay{CheckIn: date(2025, 3, 12)}, "check-in and check-out are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ValidateStay(now, tt.stay); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
