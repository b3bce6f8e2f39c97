package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
)

const ruleWidth = 74

// PrintOpts configures booking row printing.
type PrintOpts struct {
	Verbose      bool // Show email and phone
	MaxNameWidth int  // Maximum guest name width (0 = auto)
}

// CalcMaxNameWidth calculates the guest name column width.
func (o PrintOpts) CalcMaxNameWidth(defaultWidth int) int {
	if o.MaxNameWidth > 0 {
		return o.MaxNameWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "  ● DHV-000001  deluxe-203  Mar 01 → Mar 03  2n  " plus amount and status
	available := termWidth() - 64
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// statusSymbol returns the status indicator for a booking.
func statusSymbol(s booking.Status) string {
	switch s {
	case booking.StatusPending:
		return "○"
	case booking.StatusConfirmed:
		return "●"
	case booking.StatusCheckedIn:
		return "◆"
	case booking.StatusCancelled:
		return "✗"
	default:
		return "?"
	}
}

// roomOf returns the physical room of a booking, or its room type while unassigned.
func roomOf(b *booking.Booking) string {
	if b.Room != "" {
		return b.Room
	}
	return string(b.RoomType)
}

// FormatStay formats a stay as "Mar 01 → Mar 03".
func FormatStay(b *booking.Booking) string {
	return fmt.Sprintf("%s → %s", b.CheckIn.Format("Jan 02"), b.CheckOut.Format("Jan 02"))
}

// truncate shortens s to width display columns.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// PrintBookingRow prints a single booking row with consistent formatting.
func PrintBookingRow(w io.Writer, b *booking.Booking, opts PrintOpts, maxNameWidth int) {
	symbol := statusColor(b.Status).Sprint(statusSymbol(b.Status))
	name := runewidth.FillRight(truncate(b.GuestName, maxNameWidth), maxNameWidth)

	fmt.Fprintf(w, "  %s %s  %-11s  %s  %3dn  %s  %s  %s\n",
		symbol, b.Reference, roomOf(b), FormatStay(b), b.Nights(),
		name, colorMoney.Sprintf("%10.2f", b.Amount), formatStatus(b.Status))

	if opts.Verbose {
		phone := b.GuestPhone
		if phone == "" {
			phone = "-"
		}
		fmt.Fprintf(w, "      %s\n", formatMuted(b.GuestEmail+" · "+phone))
	}
}

// PrintBookingDetail prints every field of a booking.
func PrintBookingDetail(w io.Writer, b *booking.Booking) {
	fmt.Fprintf(w, "\n  %s  %s\n", formatHeader(b.Reference), formatStatus(b.Status))
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
	phone := b.GuestPhone
	if phone == "" {
		phone = "-"
	}
	rows := [][2]string{
		{"Guest", b.GuestName},
		{"Email", b.GuestEmail},
		{"Phone", phone},
		{"Room", roomOf(b)},
		{"Stay", fmt.Sprintf("%s (%d nights)", FormatStay(b), b.Nights())},
		{"Amount", formatMoney(b.Amount)},
		{"Created", b.CreatedAt.Format("2006-01-02 15:04")},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-8s %s\n", formatMuted(r[0]), r[1])
	}
	fmt.Fprintln(w)
}

// OccupancyBar creates an ASCII bar of booked rooms out of inventory.
func OccupancyBar(booked, inventory, width int) string {
	if inventory <= 0 {
		return "[" + strings.Repeat("░", width) + "] (no rooms)"
	}
	pct := chart.Percent(booked, inventory)
	filled := min(booked*width/inventory, width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatTier(chart.TierFor(pct), bar), fmt.Sprintf("%d%% (%d/%d)", pct, booked, inventory))
}
