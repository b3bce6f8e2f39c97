package view

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
)

func TestRenderModalButtons_UsesModalBodySeparator(t *testing.T) {
	styles := ModalStyles{
		ModalBodyStyle:         lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		ModalButtonStyle:       lipgloss.NewStyle(),
		ModalButtonActiveStyle: lipgloss.NewStyle(),
	}

	view := RenderModalButtons(styles, "[Enter] Move", "[Esc] Close")
	sep := styles.ModalBodyStyle.Render(" ")
	if !strings.Contains(view, sep) {
		t.Fatalf("expected modal button separator to use modal body style")
	}
}

func TestBookingDetailLines(t *testing.T) {
	b := &booking.Booking{
		Reference:  "DHV-00A1B2",
		RoomType:   booking.Deluxe,
		CheckIn:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Status:     booking.StatusConfirmed,
		GuestName:  "Ana Cruz",
		GuestEmail: "ana@example.com",
		Amount:     560,
	}

	lines := BookingDetailLines(chart.Bar{Booking: b, Slot: 3}, "deluxe-203", ModalStyles{})
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"DHV-00A1B2", "Ana Cruz", "deluxe-203", "Mar 01 → Mar 03 (2 nights)", "560.00", "Phone    -"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in detail:\n%s", want, joined)
		}
	}
	if strings.Contains(joined, "Overlaps") {
		t.Error("unexpected conflict warning")
	}

	lines = BookingDetailLines(chart.Bar{Booking: b, Slot: 3, Conflict: true}, "deluxe-203", ModalStyles{})
	if !strings.Contains(strings.Join(lines, "\n"), "Overlaps another stay") {
		t.Error("expected conflict warning")
	}
}

func TestStayLabel_SingleNight(t *testing.T) {
	b := &booking.Booking{
		CheckIn:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	if got := StayLabel(b); got != "Mar 01 → Mar 02 (1 night)" {
		t.Errorf("got %q", got)
	}
}
