// Package tui provides the terminal tape chart for frontdesk.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
	"github.com/dhillsview/frontdesk/internal/tui/theme"
	"github.com/dhillsview/frontdesk/internal/tui/view"
)

// Width of the room label column.
const labelWidth = 14

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Title and headers
	TitleStyle            lipgloss.Style
	DayHeaderStyle        lipgloss.Style
	DayHeaderTodayStyle   lipgloss.Style
	DayHeaderWeekendStyle lipgloss.Style
	SectionStyle          lipgloss.Style

	// Room label column
	RoomLabelStyle       lipgloss.Style
	RoomLabelActiveStyle lipgloss.Style
	RoomCleanStyle       lipgloss.Style
	RoomDirtyStyle       lipgloss.Style
	RoomMaintenanceStyle lipgloss.Style

	// Day cells
	EmptyCellStyle   lipgloss.Style
	WeekendCellStyle lipgloss.Style
	TodayCellStyle   lipgloss.Style
	CursorStyle      lipgloss.Style

	// Booking bars
	BarConfirmedStyle lipgloss.Style
	BarPendingStyle   lipgloss.Style
	BarCheckedInStyle lipgloss.Style
	BarConflictStyle  lipgloss.Style
	BarCursorStyle    lipgloss.Style
	DragGhostStyle    lipgloss.Style
	DragInvalidStyle  lipgloss.Style

	// Occupancy row
	OccLabelStyle  lipgloss.Style
	OccLowStyle    lipgloss.Style
	OccMediumStyle lipgloss.Style
	OccHighStyle   lipgloss.Style

	NoticeStyle lipgloss.Style

	// Footer
	LegendStyle        lipgloss.Style
	PromptStyle        lipgloss.Style
	PromptFocusedStyle lipgloss.Style
	StatusStyle        lipgloss.Style
	HelpStyle          lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalBgColor           lipgloss.Color
	ModalHeaderStyle       lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalWarningStyle      lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style

	ViewportStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	s.TitleStyle = base.Bold(true).Foreground(p.Accent)
	s.DayHeaderStyle = base.Foreground(p.FgMuted)
	s.DayHeaderTodayStyle = base.Bold(true).Foreground(p.Accent)
	s.DayHeaderWeekendStyle = s.DayHeaderStyle.Background(p.BgHighlight)
	s.SectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.BgHighlight)

	s.RoomLabelStyle = base
	s.RoomLabelActiveStyle = base.Bold(true).Foreground(p.Accent)
	s.RoomCleanStyle = base.Foreground(p.RoomClean)
	s.RoomDirtyStyle = base.Foreground(p.RoomDirty)
	s.RoomMaintenanceStyle = base.Foreground(p.RoomMaintenance)

	s.EmptyCellStyle = base.Foreground(p.FgMuted)
	s.WeekendCellStyle = s.EmptyCellStyle.Background(p.BgHighlight)
	s.TodayCellStyle = s.EmptyCellStyle.Foreground(p.Accent)
	s.CursorStyle = lipgloss.NewStyle().
		Background(p.BgSelection).
		Foreground(p.Fg)

	s.BarConfirmedStyle = barStyle(p, p.ConfirmedBg)
	s.BarPendingStyle = barStyle(p, p.PendingBg)
	s.BarCheckedInStyle = barStyle(p, p.CheckedInBg)
	s.BarConflictStyle = barStyle(p, p.ConflictBg)
	s.BarCursorStyle = lipgloss.NewStyle().
		Bold(true).
		Background(p.Accent).
		Foreground(p.TextOnAccent)
	s.DragGhostStyle = lipgloss.NewStyle().
		Bold(true).
		Background(p.Warning).
		Foreground(p.TextOnWarning)
	s.DragInvalidStyle = lipgloss.NewStyle().
		Strikethrough(true).
		Background(p.ConflictBg).
		Foreground(p.TextOn(p.ConflictBg))

	s.OccLabelStyle = base.Foreground(p.FgMuted)
	s.OccLowStyle = base.Foreground(p.OccLow)
	s.OccMediumStyle = base.Foreground(p.OccMedium)
	s.OccHighStyle = base.Bold(true).Foreground(p.OccHigh)

	s.NoticeStyle = lipgloss.NewStyle().
		Bold(true).
		Background(p.Warning).
		Foreground(p.TextOnWarning)

	s.LegendStyle = base.Foreground(p.FgMuted)
	s.PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.FgMuted).
		BorderBackground(p.Bg).
		Background(p.Bg).
		Foreground(p.FgMuted)
	s.PromptFocusedStyle = s.PromptStyle.
		BorderForeground(p.Accent).
		Foreground(p.Fg)
	s.StatusStyle = base.Foreground(p.Warning)
	s.HelpStyle = base.Foreground(p.FgMuted)

	m := p.Modal
	s.ModalBgColor = m.Bg
	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.Border).
		BorderBackground(m.Bg).
		Background(m.Bg).
		Padding(1, 2)
	s.ModalHeaderStyle = lipgloss.NewStyle().Background(m.Bg)
	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(m.Border).
		Background(m.Bg)
	s.ModalBodyStyle = lipgloss.NewStyle().Foreground(m.Text).Background(m.Bg)
	s.ModalLabelStyle = lipgloss.NewStyle().Foreground(m.Muted).Background(m.Bg)
	s.ModalWarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Warning).
		Background(m.Bg)
	s.ModalFooterStyle = lipgloss.NewStyle().Foreground(m.Muted).Background(m.Bg)
	s.ModalButtonStyle = lipgloss.NewStyle().
		Foreground(m.Text).
		Background(m.Bg).
		Padding(0, 1)
	s.ModalButtonActiveStyle = s.ModalButtonStyle.
		Bold(true).
		Foreground(m.ReverseText).
		Background(m.Highlight)

	s.ViewportStyle = base

	return s
}

func barStyle(p *theme.Palette, bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Background(bg).Foreground(p.TextOn(bg))
}

// Bg returns the base background color.
func (s *Styles) Bg() lipgloss.Color {
	return s.palette.Bg
}

// BarStyle picks the style of a booking bar. Conflicts win over status.
func (s *Styles) BarStyle(bar chart.Bar) lipgloss.Style {
	if bar.Conflict {
		return s.BarConflictStyle
	}
	switch bar.Booking.Status {
	case booking.StatusPending:
		return s.BarPendingStyle
	case booking.StatusCheckedIn:
		return s.BarCheckedInStyle
	default:
		return s.BarConfirmedStyle
	}
}

// OccupancyStyle returns the style of an occupancy tier.
func (s *Styles) OccupancyStyle(tier chart.Tier) lipgloss.Style {
	switch tier {
	case chart.TierHigh:
		return s.OccHighStyle
	case chart.TierMedium:
		return s.OccMediumStyle
	default:
		return s.OccLowStyle
	}
}

// RoomStatusStyle returns the style of a housekeeping status marker.
func (s *Styles) RoomStatusStyle(st booking.RoomStatus) lipgloss.Style {
	switch st {
	case booking.RoomDirty:
		return s.RoomDirtyStyle
	case booking.RoomMaintenance:
		return s.RoomMaintenanceStyle
	default:
		return s.RoomCleanStyle
	}
}

// ModalStyles returns the styles used by view modal helpers.
func (s *Styles) ModalStyles() view.ModalStyles {
	return view.ModalStyles{
		ModalHeaderStyle:       s.ModalHeaderStyle,
		ModalTitleStyle:        s.ModalTitleStyle,
		ModalFooterStyle:       s.ModalFooterStyle,
		ModalStyle:             s.ModalStyle,
		ModalButtonStyle:       s.ModalButtonStyle,
		ModalButtonActiveStyle: s.ModalButtonActiveStyle,
		ModalBodyStyle:         s.ModalBodyStyle,
		ModalLabelStyle:        s.ModalLabelStyle,
		ModalWarningStyle:      s.ModalWarningStyle,
	}
}
