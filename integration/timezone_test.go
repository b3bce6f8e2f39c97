package integration

import (
	"context"
	"testing"
	"time"

	"github.com/dhillsview/frontdesk/internal/board"
	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
	"github.com/dhillsview/frontdesk/internal/dateutil"
)

// A late evening clock west of UTC is already the next day in UTC; the chart
// must follow the local calendar.
func TestMonthWindowFollowsLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2025, 3, 31, 23, 30, 0, 0, loc)

	repo := openRepo(t)
	b := createBooking(t, repo, "DHV-000030", booking.Single, "2025-03-31", "2025-04-02")

	s := board.New(repo, board.Options{
		Strategy: chart.StrategyRoundRobin,
		Now:      func() time.Time { return now },
	})
	w := dateutil.MonthWindow(s.Now())
	if w.Start.Month() != time.March || w.Days() != 31 {
		t.Fatalf("window = %v, want March", w)
	}

	view, err := s.Render(context.Background(), w)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	last := view.Grid.Days[len(view.Grid.Days)-1]
	if !last.Today {
		t.Error("March 31 should be today")
	}
	_, bar, ok := view.Grid.FindBar(b.ID)
	if !ok {
		t.Fatal("booking missing from chart")
	}
	if bar.Col != 30 || bar.Span != 1 || !bar.ClippedEnd || bar.ClippedStart {
		t.Errorf("bar = %+v", bar)
	}
}
