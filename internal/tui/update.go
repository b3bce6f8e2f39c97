package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhillsview/frontdesk/internal/board"
	"github.com/dhillsview/frontdesk/internal/dateutil"
	"github.com/dhillsview/frontdesk/internal/debuglog"
	"github.com/dhillsview/frontdesk/internal/tui/commands"
)

// How long status messages stay in the footer.
var (
	statusDuration = 3 * time.Second
	errorDuration  = 5 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case commands.ChartLoadedMsg:
		if msg.Window != m.window {
			return m, nil
		}
		m.view = msg.View
		m.renderErr = nil
		m.loading = false
		m.generation = msg.View.Generation
		if m.focusID != 0 {
			m.focusBooking(m.focusID)
			m.focusID = 0
		}
		m.clampCursor()
		m.ensureCursorVisible()
		return m, nil

	case commands.RenderFailedMsg:
		if msg.Window != m.window {
			return m, nil
		}
		m.view = nil
		m.renderErr = msg.Err
		m.loading = false
		return m, nil

	case commands.RedrawMsg:
		if msg.Generation <= m.generation {
			return m, nil
		}
		m.generation = msg.Generation
		return m, commands.LoadChart(m.session, m.window)

	case commands.DropDoneMsg:
		text := fmt.Sprintf("Moved to %s, %s → %s", msg.Result.Room,
			msg.Result.CheckIn.Format("Jan 02"), msg.Result.CheckOut.Format("Jan 02"))
		return m, m.setStatus(text, statusDuration)

	case commands.DropFailedMsg:
		m.err = msg.Err
		return m, m.setStatus(dragErrorText(msg.Err), errorDuration)

	case commands.RoomCycledMsg:
		return m, m.setStatus(fmt.Sprintf("Room %d is now %s", msg.Room, msg.Status), statusDuration)

	case commands.FoundMsg:
		b := msg.Booking
		m.focusID = b.ID
		w := dateutil.MonthWindow(b.CheckIn)
		status := m.setStatus(b.Summary(), statusDuration)
		if w == m.window && m.view != nil {
			if m.focusBooking(b.ID) {
				m.focusID = 0
				m.ensureCursorVisible()
			}
			return m, status
		}
		return m, tea.Batch(status, m.loadWindow(w))

	case commands.CopiedMsg:
		return m, m.setStatus("Copied "+msg.What, statusDuration)

	case commands.ErrMsg:
		m.err = msg.Err
		debuglog.Error("tui", msg.Err)
		return m, m.setStatus(errorText(msg.Err), errorDuration)

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg, statusDuration)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleMouseMsg lets the left button pick up a booking, carry it and drop
// it on the cell where the button is released.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeModal || m.mode == ModePrompt {
		return m, nil
	}
	pos, ok := m.hitTest(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !ok || m.mode != ModeNormal {
			return m, nil
		}
		m.cursor = pos
		if _, onBar := m.barAtCursor(); onBar {
			return m.beginDrag()
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.mode == ModeDrag && ok {
			m.cursor = pos
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.mode != ModeDrag {
			return m, nil
		}
		if !ok {
			_ = m.session.Controller().Cancel()
			m.setMode(ModeNormal, "released outside chart")
			return m, m.setStatus("Move cancelled", statusDuration)
		}
		m.cursor = pos
		return m.drop()
	}
	return m, nil
}

func errorText(err error) string {
	var ferr *board.FetchError
	if errors.As(err, &ferr) {
		return "Store unavailable, try again"
	}
	return fmt.Sprintf("Error: %v", err)
}
