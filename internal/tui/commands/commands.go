// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhillsview/frontdesk/internal/board"
	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/dateutil"
	"github.com/dhillsview/frontdesk/internal/reassign"
)

// ChartLoadedMsg is sent when a chart has been laid out.
type ChartLoadedMsg struct {
	Window dateutil.Window
	View   *board.View
}

// RenderFailedMsg is sent when layout failed; the chart shows a placeholder.
type RenderFailedMsg struct {
	Window dateutil.Window
	Err    error
}

// RedrawMsg is sent after the session confirmed a write.
type RedrawMsg struct {
	Generation uint64
}

// DropDoneMsg is sent when a dragged booking was saved.
type DropDoneMsg struct {
	Result reassign.Result
}

// DropFailedMsg is sent when a drop was rejected or its write failed.
type DropFailedMsg struct {
	Err error
}

// RoomCycledMsg is sent after a room's housekeeping status changed.
type RoomCycledMsg struct {
	Room   int
	Status booking.RoomStatus
}

// FoundMsg is sent when a prompt search matched a booking.
type FoundMsg struct {
	Query   string
	Booking *booking.Booking
}

// CopiedMsg is sent after text was copied to the clipboard.
type CopiedMsg struct {
	What string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadChart renders the chart for w.
func LoadChart(s *board.Session, w dateutil.Window) tea.Cmd {
	return func() tea.Msg {
		view, err := s.Render(context.Background(), w)
		if err != nil {
			return RenderFailedMsg{Window: w, Err: err}
		}
		return ChartLoadedMsg{Window: w, View: view}
	}
}

// Refresh drops cached reads. The session's redraw listener reloads the chart.
func Refresh(s *board.Session) tea.Cmd {
	return func() tea.Msg {
		s.Invalidate()
		return StatusMsgCmd{Msg: "Refreshed"}
	}
}

// Drop releases the dragged booking on target.
func Drop(ctrl *reassign.Controller, target reassign.Target) tea.Cmd {
	return func() tea.Msg {
		res, err := ctrl.Drop(context.Background(), target)
		if err != nil {
			return DropFailedMsg{Err: err}
		}
		return DropDoneMsg{Result: res}
	}
}

// CycleRoom advances a room's housekeeping status.
func CycleRoom(s *board.Session, room int) tea.Cmd {
	return func() tea.Msg {
		status, err := s.CycleRoomStatus(context.Background(), room)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return RoomCycledMsg{Room: room, Status: status}
	}
}

// ClearOverrides drops every manual slot choice of the session.
func ClearOverrides(s *board.Session) tea.Cmd {
	return func() tea.Msg {
		s.ClearOverrides()
		return StatusMsgCmd{Msg: "Room choices reset"}
	}
}

// Find looks up the newest booking matching query that is still on the chart.
func Find(s *board.Session, query string) tea.Cmd {
	return func() tea.Msg {
		matches, err := s.Bookings(context.Background(), query, "")
		if err != nil {
			return ErrMsg{Err: err}
		}
		for _, b := range matches {
			if !b.IsCancelled() {
				return FoundMsg{Query: query, Booking: b}
			}
		}
		return StatusMsgCmd{Msg: fmt.Sprintf("No booking matches %q", query)}
	}
}

// CopyToClipboard copies text and reports what was copied.
func CopyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return CopiedMsg{What: what}
	}
}
