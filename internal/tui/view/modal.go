// Package view provides rendering helpers for the TUI.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
)

// ModalStyles groups the styles needed to render modal frames and buttons.
type ModalStyles struct {
	ModalHeaderStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalStyle             lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalWarningStyle      lipgloss.Style
}

// RenderModalFrame renders a modal with the provided title, body, and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	var b strings.Builder

	b.WriteString(styles.ModalHeaderStyle.Render(styles.ModalTitleStyle.Render(title)))
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ModalFooterStyle.Render(footer))
	}

	return styles.ModalStyle.Render(b.String())
}

// RenderModalButtons renders a row of modal buttons with the first one active.
func RenderModalButtons(styles ModalStyles, labels ...string) string {
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := styles.ModalButtonStyle
		if i == 0 {
			style = styles.ModalButtonActiveStyle
		}
		parts = append(parts, style.Render(label))
	}
	sep := styles.ModalBodyStyle.Render(" ")
	return strings.Join(parts, sep)
}

// BookingDetailLines builds the body of the booking detail modal.
func BookingDetailLines(bar chart.Bar, room string, styles ModalStyles) []string {
	b := bar.Booking
	row := func(label, value string) string {
		return styles.ModalLabelStyle.Render(fmt.Sprintf("%-9s", label)) + styles.ModalBodyStyle.Render(value)
	}

	phone := b.GuestPhone
	if phone == "" {
		phone = "-"
	}
	lines := []string{
		row("Ref", b.Reference),
		row("Guest", b.GuestName),
		row("Email", b.GuestEmail),
		row("Phone", phone),
		row("Room", room),
		row("Stay", StayLabel(b)),
		row("Status", string(b.Status)),
		row("Amount", fmt.Sprintf("%.2f", b.Amount)),
	}
	if bar.Conflict {
		lines = append(lines, "", styles.ModalWarningStyle.Render("Overlaps another stay on this room"))
	}
	return lines
}

// StayLabel formats the dates of a booking, e.g. "Mar 01 → Mar 03 (2 nights)".
func StayLabel(b *booking.Booking) string {
	nights := b.Nights()
	unit := "nights"
	if nights == 1 {
		unit = "night"
	}
	return fmt.Sprintf("%s → %s (%d %s)", b.CheckIn.Format("Jan 02"), b.CheckOut.Format("Jan 02"), nights, unit)
}
