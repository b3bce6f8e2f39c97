package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhillsview/frontdesk/internal/board"
	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
	"github.com/dhillsview/frontdesk/internal/config"
	"github.com/dhillsview/frontdesk/internal/dateutil"
	"github.com/dhillsview/frontdesk/internal/tui/commands"
	"github.com/dhillsview/frontdesk/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeDrag        // A booking is picked up and follows the cursor
	ModePrompt
	ModeModal
)

func (m Mode) String() string {
	switch m {
	case ModeDrag:
		return "DRAG"
	case ModePrompt:
		return "PROMPT"
	case ModeModal:
		return "MODAL"
	default:
		return "NORMAL"
	}
}

// Position is a cell of the chart: a room and a day column.
type Position struct {
	RoomType booking.RoomType
	Slot     int
	Col      int
}

// Model is the main TUI model.
type Model struct {
	session *board.Session
	config  *config.Config

	theme  *theme.Theme
	styles *Styles

	// Chart state
	window     dateutil.Window
	view       *board.View
	renderErr  error
	loading    bool
	generation uint64
	focusID    int64 // booking to put the cursor on after the next load

	cursor    Position
	scrollRow int // first visible chart body line
	scrollCol int // first visible day column
	mode      Mode

	// Modal state
	modalBar  chart.Bar
	modalRoom string
	overlay   OverlayModel

	prompt     textinput.Model
	fullFooter bool

	width  int
	height int

	statusMsg  string
	statusTime time.Time

	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithWindow opens the chart on w instead of the current month.
func WithWindow(w dateutil.Window) ModelOption {
	return func(m *Model) {
		m.window = w
	}
}

// New creates a new TUI model.
func New(s *board.Session, cfg *config.Config, opts ...ModelOption) *Model {
	ti := textinput.New()
	ti.Placeholder = "/month 2025-03"
	ti.Prompt = ""

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	overlay := NewOverlayModel()
	overlay.SetBackground(styles.ModalBgColor)

	now := s.Now()
	m := &Model{
		session:    s,
		config:     cfg,
		theme:      t,
		styles:     styles,
		window:     dateutil.MonthWindow(now),
		loading:    true,
		mode:       ModeNormal,
		prompt:     ti,
		overlay:    overlay,
		fullFooter: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cursor = Position{
		RoomType: booking.RoomTypes[0],
		Slot:     1,
		Col:      max(dateutil.DaysBetween(m.window.Start, dateutil.Day(now)), 0),
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadChart(m.session, m.window)
}

// Run starts the TUI. Confirmed writes made through the session, from this
// program or any other holder of it, trigger a reload of the chart.
func Run(s *board.Session, cfg *config.Config) error {
	p := tea.NewProgram(New(s, cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	s.OnRedraw(func(gen uint64) {
		go p.Send(commands.RedrawMsg{Generation: gen})
	})
	_, err := p.Run()
	return err
}

func (m *Model) grid() *chart.Grid {
	if m.view == nil {
		return nil
	}
	return m.view.Grid
}

func (m *Model) dayWidth() int {
	if g := m.grid(); g != nil && g.DayWidth > 0 {
		return g.DayWidth
	}
	return chart.DefaultDayWidth
}

// dateAt returns the date of a day column; columns outside the window
// extrapolate from its start.
func (m *Model) dateAt(col int) time.Time {
	return m.window.Start.AddDate(0, 0, col)
}

// rooms lists every room row of the loaded grid in display order.
func (m *Model) rooms() []Position {
	g := m.grid()
	if g == nil {
		return nil
	}
	var out []Position
	for _, sec := range g.Sections {
		for _, r := range sec.Rows {
			out = append(out, Position{RoomType: sec.RoomType, Slot: r.Slot})
		}
	}
	return out
}

// row returns the slot row under the cursor.
func (m *Model) row(p Position) (*chart.SlotRow, bool) {
	g := m.grid()
	if g == nil {
		return nil, false
	}
	sec, ok := g.Section(p.RoomType)
	if !ok || p.Slot < 1 || p.Slot > len(sec.Rows) {
		return nil, false
	}
	return &sec.Rows[p.Slot-1], true
}

// barAtCursor returns the booking bar under the cursor.
func (m *Model) barAtCursor() (chart.Bar, bool) {
	r, ok := m.row(m.cursor)
	if !ok {
		return chart.Bar{}, false
	}
	return r.BarAt(m.cursor.Col)
}

// clampCursor keeps the cursor on an existing room and day.
func (m *Model) clampCursor() {
	g := m.grid()
	if g == nil {
		return
	}
	m.cursor.Col = min(max(m.cursor.Col, 0), max(len(g.Days)-1, 0))

	if _, ok := m.row(m.cursor); ok {
		return
	}
	rooms := m.rooms()
	if len(rooms) == 0 {
		return
	}
	// Inventory may have shrunk: stay in the same section if it still has rooms.
	for i := len(rooms) - 1; i >= 0; i-- {
		if rooms[i].RoomType == m.cursor.RoomType && rooms[i].Slot <= m.cursor.Slot {
			m.cursor.Slot = rooms[i].Slot
			return
		}
	}
	m.cursor.RoomType, m.cursor.Slot = rooms[0].RoomType, rooms[0].Slot
}

// focusBooking moves the cursor onto a booking's bar if it is on the chart.
func (m *Model) focusBooking(id int64) bool {
	g := m.grid()
	if g == nil {
		return false
	}
	rt, bar, ok := g.FindBar(id)
	if !ok {
		return false
	}
	m.cursor = Position{RoomType: rt, Slot: bar.Slot, Col: bar.Col}
	return true
}

func (m *Model) setMode(mode Mode, reason string) {
	if m.mode == mode {
		return
	}
	logModeChange(m.mode, mode, reason)
	m.mode = mode
}

func (m *Model) setStatus(msg string, d time.Duration) tea.Cmd {
	m.statusMsg = msg
	m.statusTime = time.Now().Add(d)
	return tea.Tick(d, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

func (m *Model) loadWindow(w dateutil.Window) tea.Cmd {
	m.window = w
	m.loading = true
	m.scrollCol = 0
	return commands.LoadChart(m.session, w)
}
