package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
)

// Color definitions for consistent styling across the UI.
var (
	colorHeader = color.New(color.Bold)
	colorMuted  = color.New(color.FgWhite, color.Faint)
	colorToday  = color.New(color.FgYellow, color.Bold)

	// Occupancy tiers: green has rooms to sell, red is nearly full
	colorLow    = color.New(color.FgGreen)
	colorMedium = color.New(color.FgYellow)
	colorHigh   = color.New(color.FgRed, color.Bold)

	// Booking bars by status
	colorPending   = color.New(color.FgYellow)
	colorConfirmed = color.New(color.FgCyan)
	colorCheckedIn = color.New(color.FgGreen)
	colorCancelled = color.New(color.FgWhite, color.Faint, color.CrossedOut)
	colorConflict  = color.New(color.FgRed, color.Bold)

	// Housekeeping
	colorClean       = color.New(color.FgGreen)
	colorDirty       = color.New(color.FgYellow)
	colorMaintenance = color.New(color.FgRed)

	colorMoney = color.New(color.FgGreen)
	colorWarn  = color.New(color.FgRed)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatMoney(v float64) string {
	return colorMoney.Sprintf("%.2f", v)
}

// formatTier colors text by occupancy tier.
func formatTier(t chart.Tier, s string) string {
	switch t {
	case chart.TierHigh:
		return colorHigh.Sprint(s)
	case chart.TierMedium:
		return colorMedium.Sprint(s)
	default:
		return colorLow.Sprint(s)
	}
}

func statusColor(s booking.Status) *color.Color {
	switch s {
	case booking.StatusPending:
		return colorPending
	case booking.StatusCheckedIn:
		return colorCheckedIn
	case booking.StatusCancelled:
		return colorCancelled
	default:
		return colorConfirmed
	}
}

func formatStatus(s booking.Status) string {
	return statusColor(s).Sprint(string(s))
}

func roomStatusColor(s booking.RoomStatus) *color.Color {
	switch s {
	case booking.RoomDirty:
		return colorDirty
	case booking.RoomMaintenance:
		return colorMaintenance
	default:
		return colorClean
	}
}

func formatRoomStatus(s booking.RoomStatus) string {
	return roomStatusColor(s).Sprint(string(s))
}
