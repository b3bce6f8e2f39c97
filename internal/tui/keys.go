package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
	"github.com/dhillsview/frontdesk/internal/dateutil"
	"github.com/dhillsview/frontdesk/internal/debuglog"
	"github.com/dhillsview/frontdesk/internal/reassign"
	"github.com/dhillsview/frontdesk/internal/tui/commands"
	"github.com/dhillsview/frontdesk/internal/tui/input"
)

func logModeChange(from, to Mode, reason string) {
	debuglog.ModeChange(from.String(), to.String(), reason)
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	debuglog.KeyPress(msg.String())

	if msg.String() == "ctrl+c" {
		if m.mode == ModeDrag {
			_ = m.session.Controller().Cancel()
		}
		return m, tea.Quit
	}

	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeDrag:
		return m.handleDragKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// moveCursor handles the navigation keys shared by normal and drag mode.
func (m *Model) moveCursor(key string) bool {
	switch key {
	case "h", "left":
		m.cursor.Col--
	case "l", "right":
		m.cursor.Col++
	case "H", "shift+left":
		m.cursor.Col -= 7
	case "L", "shift+right":
		m.cursor.Col += 7
	case "0", "home":
		m.cursor.Col = 0
	case "$", "end":
		m.cursor.Col = len(m.window.Dates()) - 1
	case "j", "down":
		m.stepRoom(1)
	case "k", "up":
		m.stepRoom(-1)
	case "J", "ctrl+d":
		m.stepSection(1)
	case "K", "ctrl+u":
		m.stepSection(-1)
	default:
		return false
	}
	m.clampCursor()
	m.ensureCursorVisible()
	return true
}

func (m *Model) stepRoom(delta int) {
	rooms := m.rooms()
	for i, r := range rooms {
		if r.RoomType == m.cursor.RoomType && r.Slot == m.cursor.Slot {
			j := min(max(i+delta, 0), len(rooms)-1)
			m.cursor.RoomType, m.cursor.Slot = rooms[j].RoomType, rooms[j].Slot
			return
		}
	}
}

func (m *Model) stepSection(delta int) {
	g := m.grid()
	if g == nil {
		return
	}
	for i, sec := range g.Sections {
		if sec.RoomType != m.cursor.RoomType {
			continue
		}
		for j := i + delta; j >= 0 && j < len(g.Sections); j += delta {
			if len(g.Sections[j].Rows) > 0 {
				m.cursor.RoomType, m.cursor.Slot = g.Sections[j].RoomType, 1
				return
			}
		}
		return
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.moveCursor(key) {
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit

	case "[", "p":
		return m, m.loadWindow(dateutil.MonthWindow(m.window.Start.AddDate(0, -1, 0)))
	case "]", "n":
		return m, m.loadWindow(dateutil.MonthWindow(m.window.Start.AddDate(0, 1, 0)))
	case "t":
		return m, m.jumpToday()

	case "enter":
		bar, ok := m.barAtCursor()
		if !ok {
			return m, nil
		}
		m.openDetail(bar)
		return m, nil

	case "m", " ":
		return m.beginDrag()

	case "s":
		return m, commands.CycleRoom(m.session, booking.RoomNumber(m.cursor.RoomType, m.cursor.Slot))

	case "y":
		bar, ok := m.barAtCursor()
		if !ok {
			return m, nil
		}
		return m, commands.CopyToClipboard(bar.Booking.Reference, bar.Booking.Reference)

	case "r":
		return m, commands.Refresh(m.session)

	case "?":
		m.fullFooter = !m.fullFooter
		m.ensureCursorVisible()
		return m, nil

	case "/", "g":
		m.setMode(ModePrompt, "prompt opened")
		m.prompt.SetValue("/")
		m.prompt.CursorEnd()
		return m, m.prompt.Focus()
	}

	return m, nil
}

func (m *Model) jumpToday() tea.Cmd {
	today := dateutil.Day(m.session.Now())
	w := dateutil.MonthWindow(today)
	m.cursor.Col = dateutil.DaysBetween(w.Start, today)
	if m.window.Start.Equal(w.Start) && m.window.End.Equal(w.End) {
		m.ensureCursorVisible()
		return nil
	}
	return m.loadWindow(w)
}

func (m *Model) openDetail(bar chart.Bar) {
	m.modalBar = bar
	m.modalRoom = booking.RoomLabel(bar.Booking.RoomType, bar.Slot)
	m.overlay.Show()
	m.setMode(ModeModal, "booking detail")
}

func (m *Model) closeModal(reason string) {
	m.overlay.Hide()
	m.setMode(ModeNormal, reason)
}

// beginDrag picks up the booking under the cursor.
func (m Model) beginDrag() (tea.Model, tea.Cmd) {
	bar, ok := m.barAtCursor()
	if !ok {
		return m, m.setStatus("No booking here", statusDuration)
	}
	if err := m.session.Controller().BeginDrag(bar.Booking, bar.Slot); err != nil {
		return m, m.setStatus(dragErrorText(err), errorDuration)
	}
	m.setMode(ModeDrag, "picked up "+bar.Booking.Reference)
	return m, nil
}

// handleDragKeys handles keys while a booking is picked up.
func (m Model) handleDragKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.moveCursor(key) {
		return m, nil
	}

	switch key {
	case "esc", "q":
		_ = m.session.Controller().Cancel()
		m.setMode(ModeNormal, "drag cancelled")
		return m, m.setStatus("Move cancelled", statusDuration)
	case "enter", "m", " ":
		return m.drop()
	}
	return m, nil
}

func (m Model) dropTarget() reassign.Target {
	return reassign.Target{
		RoomType: m.cursor.RoomType,
		Slot:     m.cursor.Slot,
		Date:     m.dateAt(m.cursor.Col),
	}
}

// drop releases the dragged booking on the cursor cell, which becomes its
// check-in. The chart is not touched until the write is confirmed.
func (m Model) drop() (tea.Model, tea.Cmd) {
	target := m.dropTarget()
	m.setMode(ModeNormal, "dropped")
	m.statusMsg = "Saving..."
	return m, commands.Drop(m.session.Controller(), target)
}

// handleModalKeys handles keys in the booking detail modal.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.closeModal("modal closed")
		return m, nil
	case "y":
		ref := m.modalBar.Booking.Reference
		m.closeModal("copied")
		return m, commands.CopyToClipboard(ref, ref)
	case "m":
		m.closeModal("move from detail")
		if !m.focusBooking(m.modalBar.Booking.ID) {
			return m, nil
		}
		return m.beginDrag()
	}
	return m, nil
}

// handlePromptKeys handles keys in prompt mode.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt("prompt cancelled")
		return m, nil
	case "tab":
		if value, ok := input.PromptAutocomplete(m.prompt.Value(), input.Commands); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	case "enter":
		line := m.prompt.Value()
		m.closePrompt("prompt submitted")
		return m.runPrompt(line)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt(reason string) {
	m.prompt.Reset()
	m.prompt.Blur()
	m.setMode(ModeNormal, reason)
}

func (m Model) runPrompt(line string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(line) == "" || strings.TrimSpace(line) == "/" {
		return m, nil
	}
	action, err := input.Parse(line)
	if err != nil {
		return m, m.setStatus(err.Error(), errorDuration)
	}

	switch action.Name {
	case "/month":
		w, err := dateutil.ParseMonth(action.Arg)
		if err != nil {
			return m, m.setStatus(err.Error(), errorDuration)
		}
		return m, m.loadWindow(w)
	case "/today":
		return m, m.jumpToday()
	case "/find":
		return m, commands.Find(m.session, action.Arg)
	case "/reset":
		return m, commands.ClearOverrides(m.session)
	}
	return m, nil
}

// dragErrorText turns controller errors into short status text.
func dragErrorText(err error) string {
	var werr *reassign.WriteError
	switch {
	case errors.Is(err, reassign.ErrInvalidDrop):
		return "Bookings can only move within their room type"
	case errors.Is(err, reassign.ErrSlotOutOfRange):
		return "No such room"
	case errors.Is(err, reassign.ErrWriteInFlight):
		return "Still saving this booking"
	case errors.As(err, &werr) && werr.Retriable():
		return "Save timed out, booking left in place"
	case errors.As(err, &werr):
		return fmt.Sprintf("Save failed: %v", werr.Err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
