package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
	"github.com/dhillsview/frontdesk/internal/tui/input"
	"github.com/dhillsview/frontdesk/internal/tui/view"
)

// Lines above the chart body: title and the two day header rows.
const headerLines = 3

type lineKind int

const (
	lineSection lineKind = iota
	lineRoom
	lineOccupancy
)

// bodyLine is one line of the scrollable chart body.
type bodyLine struct {
	kind    lineKind
	section int
	slot    int
}

// View renders the TUI.
func (m Model) View() string {
	showModal := m.mode == ModeModal && m.modalBar.Booking != nil
	modal := ""
	if showModal {
		modal = m.renderModal()
	}
	return view.Render(view.ViewState{
		Width:        m.width,
		Height:       m.height,
		BaseContent:  m.renderBase(),
		ModalContent: modal,
		ShowModal:    showModal,
		Overlay:      m.overlay,
		Placeholder:  "Loading...",
	})
}

func (m Model) bodyLines() []bodyLine {
	g := m.grid()
	if g == nil {
		return nil
	}
	var lines []bodyLine
	for i, sec := range g.Sections {
		lines = append(lines, bodyLine{kind: lineSection, section: i})
		for _, r := range sec.Rows {
			lines = append(lines, bodyLine{kind: lineRoom, section: i, slot: r.Slot})
		}
		lines = append(lines, bodyLine{kind: lineOccupancy, section: i})
	}
	return lines
}

func (m Model) cursorLine(lines []bodyLine) int {
	g := m.grid()
	for i, l := range lines {
		if l.kind == lineRoom && g.Sections[l.section].RoomType == m.cursor.RoomType && l.slot == m.cursor.Slot {
			return i
		}
	}
	return 0
}

func (m Model) footerHeight() int {
	if m.mode == ModePrompt {
		return view.FooterHeight(true) - 1 + len(m.promptLines())
	}
	return view.FooterHeight(m.fullFooter)
}

func (m Model) bodyHeight() int {
	return max(m.height-headerLines-m.footerHeight(), 1)
}

func (m Model) visibleCols() int {
	return max((m.width-labelWidth)/m.dayWidth(), 1)
}

// ensureCursorVisible scrolls the body so the cursor cell is on screen.
func (m *Model) ensureCursorVisible() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	lines := m.bodyLines()
	if len(lines) > 0 {
		h := m.bodyHeight()
		line := m.cursorLine(lines)
		if line-1 < m.scrollRow {
			// keep the section heading in view
			m.scrollRow = max(line-1, 0)
		}
		if line >= m.scrollRow+h {
			m.scrollRow = line - h + 1
		}
		m.scrollRow = min(m.scrollRow, max(len(lines)-h, 0))
	}

	cols := m.visibleCols()
	if m.cursor.Col < m.scrollCol {
		m.scrollCol = m.cursor.Col
	}
	if m.cursor.Col >= m.scrollCol+cols {
		m.scrollCol = m.cursor.Col - cols + 1
	}
	m.scrollCol = max(m.scrollCol, 0)
}

// hitTest maps a screen cell to a chart position. Only room rows count.
func (m Model) hitTest(x, y int) (Position, bool) {
	g := m.grid()
	if g == nil || y < headerLines || y >= headerLines+m.bodyHeight() || x < labelWidth {
		return Position{}, false
	}
	lines := m.bodyLines()
	idx := m.scrollRow + y - headerLines
	if idx >= len(lines) || lines[idx].kind != lineRoom {
		return Position{}, false
	}
	col := m.scrollCol + (x-labelWidth)/m.dayWidth()
	if col >= len(g.Days) {
		return Position{}, false
	}
	l := lines[idx]
	return Position{RoomType: g.Sections[l.section].RoomType, Slot: l.slot, Col: col}, true
}

func (m Model) renderBase() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTitle())
	lines = append(lines, m.renderDayHeaders()...)
	lines = append(lines, m.renderBody()...)
	content := strings.Join(lines, "\n")
	content = view.PadLinesWithBackground(content, m.width, m.height-m.footerHeight(), m.styles.Bg())

	return content + "\n" + m.renderFooter()
}

func (m Model) renderTitle() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.TitleStyle.Render(" frontdesk "))
	b.WriteString(s.DayHeaderStyle.Render(" " + m.window.Label() + " "))

	if m.loading {
		b.WriteString(s.DayHeaderStyle.Render(" loading..."))
	}
	if m.view != nil && m.view.Snapshot != nil && m.view.Snapshot.Notice != nil {
		b.WriteString(" " + s.NoticeStyle.Render(" store unavailable, showing defaults "))
	}
	if g := m.grid(); g != nil && len(g.Skipped) > 0 {
		b.WriteString(" " + s.StatusStyle.Render(fmt.Sprintf("%d bookings skipped", len(g.Skipped))))
	}
	return ansi.Truncate(b.String(), m.width, "")
}

func (m Model) visibleRange() (int, int) {
	g := m.grid()
	if g == nil {
		return 0, 0
	}
	from := min(m.scrollCol, len(g.Days))
	return from, min(from+m.visibleCols(), len(g.Days))
}

func (m Model) renderDayHeaders() []string {
	s := m.styles
	g := m.grid()
	if g == nil {
		return []string{"", ""}
	}

	dw := m.dayWidth()
	names, numbers := view.DayHeaders(g.Days, dw)
	var top, bottom strings.Builder
	top.WriteString(s.DayHeaderStyle.Render(view.Fit(" "+view.MonthLabel(g), labelWidth)))
	bottom.WriteString(s.DayHeaderStyle.Render(strings.Repeat(" ", labelWidth)))

	from, to := m.visibleRange()
	for c := from; c < to; c++ {
		style := s.DayHeaderStyle
		switch {
		case g.Days[c].Today:
			style = s.DayHeaderTodayStyle
		case g.Days[c].Weekend:
			style = s.DayHeaderWeekendStyle
		}
		top.WriteString(style.Render(names[c]))
		bottom.WriteString(style.Render(numbers[c]))
	}
	return []string{top.String(), bottom.String()}
}

func (m Model) renderBody() []string {
	g := m.grid()
	h := m.bodyHeight()
	if g == nil {
		if m.renderErr != nil {
			return []string{
				m.styles.NoticeStyle.Render(" Chart unavailable "),
				m.styles.HelpStyle.Render(ansi.Truncate(m.renderErr.Error(), m.width, "...")),
				m.styles.HelpStyle.Render("Press r to retry."),
			}
		}
		return []string{m.styles.HelpStyle.Render("Loading...")}
	}

	lines := m.bodyLines()
	out := make([]string, 0, h)
	for i := m.scrollRow; i < len(lines) && len(out) < h; i++ {
		l := lines[i]
		sec := &g.Sections[l.section]
		switch l.kind {
		case lineSection:
			out = append(out, m.renderSectionLine(sec))
		case lineRoom:
			out = append(out, m.renderRoomLine(sec, &sec.Rows[l.slot-1]))
		case lineOccupancy:
			out = append(out, m.renderOccupancyLine(sec))
		}
	}
	return out
}

func (m Model) renderSectionLine(sec *chart.Section) string {
	text := fmt.Sprintf(" %s · %.0f/night · %d rooms", sec.Name, sec.Price, sec.Inventory)
	if n := len(sec.Unplaced); n > 0 {
		text += fmt.Sprintf(" · %d unplaced", n)
	}
	return m.styles.SectionStyle.Render(view.Fit(text, m.width))
}

func (m Model) renderRoomLine(sec *chart.Section, row *chart.SlotRow) string {
	s := m.styles
	labelStyle := s.RoomLabelStyle
	onRow := m.cursor.RoomType == sec.RoomType && m.cursor.Slot == row.Slot
	if onRow {
		labelStyle = s.RoomLabelActiveStyle
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(view.Fit(" "+row.Label, labelWidth-2)))
	b.WriteString(s.RoomStatusStyle(row.Status).Render("●"))
	b.WriteString(labelStyle.Render(" "))

	from, to := m.visibleRange()
	for c := from; c < to; c++ {
		b.WriteString(m.renderCell(row, c, onRow))
	}
	return b.String()
}

func (m Model) renderCell(row *chart.SlotRow, col int, onRow bool) string {
	s := m.styles
	dw := m.dayWidth()

	if onRow {
		if text, style, ok := m.ghostCell(col); ok {
			return style.Render(text)
		}
	}

	if bar, ok := row.BarAt(col); ok {
		seg := ansi.Cut(barText(bar), (col-bar.Col)*dw, (col-bar.Col+1)*dw)
		style := s.BarStyle(bar)
		if onRow && m.mode == ModeNormal && bar.Covers(m.cursor.Col) {
			style = s.BarCursorStyle
		}
		return style.Render(seg)
	}

	style := s.EmptyCellStyle
	day := m.grid().Days[col]
	switch {
	case onRow && col == m.cursor.Col:
		style = s.CursorStyle
	case day.Today:
		style = s.TodayCellStyle
	case day.Weekend:
		style = s.WeekendCellStyle
	}
	text := strings.Repeat(" ", dw)
	if day.Today {
		text = view.Center("·", dw)
	}
	return style.Render(text)
}

// barText is the full label of a bar, Width cells wide. Arrows mark stays
// that continue past the window.
func barText(bar chart.Bar) string {
	lead := " "
	if bar.ClippedStart {
		lead = "◂"
	}
	text := view.Fit(lead+bar.Booking.GuestName, bar.Width)
	if bar.ClippedEnd && bar.Width > 1 {
		text = ansi.Cut(text, 0, bar.Width-1) + "▸"
	}
	return text
}

// ghostCell draws the dragged booking from the cursor onwards while dragging.
func (m Model) ghostCell(col int) (string, lipgloss.Style, bool) {
	if m.mode != ModeDrag {
		return "", lipgloss.Style{}, false
	}
	d, ok := m.session.Controller().Current()
	if !ok {
		return "", lipgloss.Style{}, false
	}

	start := m.cursor.Col
	span := max(d.Nights, 1)
	if col < start || col >= start+span {
		return "", lipgloss.Style{}, false
	}

	dw := m.dayWidth()
	text := view.Fit(" "+d.Reference, span*dw)
	seg := ansi.Cut(text, (col-start)*dw, (col-start+1)*dw)
	style := m.styles.DragGhostStyle
	if d.RoomType != m.cursor.RoomType {
		style = m.styles.DragInvalidStyle
	}
	return seg, style, true
}

func (m Model) renderOccupancyLine(sec *chart.Section) string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.OccLabelStyle.Render(view.Fit("   occupancy", labelWidth)))

	dw := m.dayWidth()
	from, to := m.visibleRange()
	for c := from; c < to && c < len(sec.Occupancy); c++ {
		cell := sec.Occupancy[c]
		b.WriteString(s.OccupancyStyle(cell.Tier).Render(view.Center(fmt.Sprintf("%d%%", cell.Pct), dw)))
	}
	return b.String()
}

func (m Model) promptLines() []string {
	width := max(m.width-1, 1)
	lines := view.PromptLines(view.PromptState{
		Value:  m.prompt.Value(),
		Cursor: "_",
		Active: true,
	}, width, input.Commands)
	return view.ClampPromptLines(lines, 1+len(input.Commands), width)
}

func (m Model) renderFooter() string {
	s := m.styles
	state := view.FooterViewState{
		InnerW:     m.width,
		FooterH:    m.footerHeight(),
		FullFooter: m.fullFooter || m.mode == ModePrompt,
		DetailLine: ansi.Truncate(m.detailLine(), m.width, "..."),
		LegendLine: m.legendLine(),
		StatusLine: s.StatusStyle.Render(m.statusLine()),
		HelpLine:   s.HelpStyle.Render(ansi.Truncate(m.helpLine(), m.width, "...")),
		VAlign:     lipgloss.Top,
		Bg:         s.Bg(),
	}
	if m.mode == ModePrompt {
		state.PromptLine = view.RenderPrompt(m.width, s.PromptFocusedStyle, m.promptLines())
	} else {
		state.PromptLine = view.RenderPrompt(m.width, s.PromptStyle, []string{"/ search, jump to a month, reset rooms"})
	}
	return view.RenderFooter(state)
}

func (m Model) detailLine() string {
	g := m.grid()
	if g == nil || m.cursor.Col >= len(g.Days) {
		return ""
	}
	date := g.Days[m.cursor.Col].Date.Format("Mon Jan 02")

	if m.mode == ModeDrag {
		d, ok := m.session.Controller().Current()
		if !ok {
			return ""
		}
		if d.RoomType != m.cursor.RoomType {
			return fmt.Sprintf(" %s can only move to %s rooms", d.Reference, d.RoomType)
		}
		t := m.dropTarget()
		return fmt.Sprintf(" Move %s to %s from %s (%d nights)", d.Reference,
			booking.RoomLabel(t.RoomType, t.Slot), t.Date.Format("Jan 02"), d.Nights)
	}

	if bar, ok := m.barAtCursor(); ok {
		b := bar.Booking
		line := fmt.Sprintf(" %s · %s · %s · %s", b.Reference, b.GuestName, view.StayLabel(b), b.Status)
		if bar.Conflict {
			line += " · overlaps"
		}
		return line
	}

	r, ok := m.row(m.cursor)
	if !ok {
		return ""
	}
	return fmt.Sprintf(" %s · %s · %s", r.Label, r.Status, date)
}

func (m Model) legendLine() string {
	s := m.styles
	sep := s.LegendStyle.Render(" ")
	parts := []string{
		s.LegendStyle.Render(" "),
		s.BarConfirmedStyle.Render(" confirmed "),
		s.BarPendingStyle.Render(" pending "),
		s.BarCheckedInStyle.Render(" in house "),
		s.BarConflictStyle.Render(" overlap "),
		s.LegendStyle.Render("  occupancy"),
		s.OccLowStyle.Render("low"),
		s.OccMediumStyle.Render(fmt.Sprintf("≥%d%%", chart.MediumOccupancyPct)),
		s.OccHighStyle.Render(fmt.Sprintf("≥%d%%", chart.HighOccupancyPct)),
	}
	return strings.Join(parts, sep)
}

func (m Model) statusLine() string {
	if m.statusMsg != "" {
		return " " + m.statusMsg
	}
	if m.mode == ModeDrag {
		return " -- MOVE --"
	}
	return ""
}

func (m Model) helpLine() string {
	switch m.mode {
	case ModeDrag:
		return " hjkl move · enter drop · esc cancel"
	case ModePrompt:
		return " tab complete · enter run · esc cancel"
	case ModeModal:
		return " m move · y copy ref · esc close"
	default:
		return " hjkl move · [ ] month · t today · enter details · m move · s room status · y copy · r refresh · ? footer · q quit"
	}
}

func (m Model) renderModal() string {
	ms := m.styles.ModalStyles()
	body := strings.Join(view.BookingDetailLines(m.modalBar, m.modalRoom, ms), "\n")
	buttons := view.RenderModalButtons(ms, "[m] Move", "[y] Copy ref", "[Esc] Close")
	return view.RenderModalFrame("Booking "+m.modalBar.Booking.Reference, body, buttons, ms)
}
