package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/dhillsview/frontdesk/internal/tui/view"
)

// OverlayModel splices a centered opaque box over the chart.
type OverlayModel struct {
	active  bool
	bgColor lipgloss.Color
}

// NewOverlayModel initializes an overlay model.
func NewOverlayModel() OverlayModel {
	return OverlayModel{bgColor: lipgloss.Color("")}
}

// Show makes the overlay visible.
func (o *OverlayModel) Show() {
	o.active = true
}

// Hide removes the overlay.
func (o *OverlayModel) Hide() {
	o.active = false
}

// Active reports whether the overlay is visible.
func (o OverlayModel) Active() bool {
	return o.active
}

// SetBackground updates the overlay background color.
func (o *OverlayModel) SetBackground(color lipgloss.Color) {
	o.bgColor = color
}

// Render draws content in a box centered on base. The box is as large as the
// content, cut to the screen.
func (o OverlayModel) Render(base string, width, height int, content string) string {
	if !o.active || width <= 0 || height <= 0 {
		return base
	}

	contentLines := splitContent(content)
	boxW, boxH := contentSize(contentLines)
	boxW, boxH = min(boxW, width), min(boxH, height)
	if boxW <= 0 || boxH <= 0 {
		return base
	}

	top := (height - boxH) / 2
	left := (width - boxW) / 2
	baseLines := normalizeBase(base, width, height)
	box := o.boxLines(contentLines, boxW, boxH)

	for row := top; row < top+boxH; row++ {
		line := baseLines[row]
		baseLines[row] = ansi.Cut(line, 0, left) + box[row-top] + ansi.Cut(line, left+boxW, width)
	}
	return strings.Join(baseLines, "\n")
}

// boxLines pads every content line to the box width on the overlay background.
func (o OverlayModel) boxLines(content []string, width, height int) []string {
	bgSeq := view.ModalBackgroundSeq(o.bgColor)
	lines := make([]string, height)
	for i := range lines {
		line := ""
		if i < len(content) {
			line = content[i]
		}
		w := lipgloss.Width(line)
		if w > width {
			line = ansi.Cut(line, 0, width)
			w = width
		}
		line = view.ApplyModalBackgroundResets(line, o.bgColor)
		lines[i] = bgSeq + line + bgSeq + strings.Repeat(" ", width-w) + ansi.ResetStyle
	}
	return lines
}

func splitContent(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func contentSize(lines []string) (int, int) {
	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, lipgloss.Width(line))
	}
	return maxWidth, len(lines)
}

func normalizeBase(base string, width, height int) []string {
	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]

	for i, line := range lines {
		w := lipgloss.Width(line)
		switch {
		case w > width:
			lines[i] = ansi.Cut(line, 0, width)
		case w < width:
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return lines
}
