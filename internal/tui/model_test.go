package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/dhillsview/frontdesk/internal/board"
	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/config"
	"github.com/dhillsview/frontdesk/internal/db"
	"github.com/dhillsview/frontdesk/internal/tui/commands"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	statusDuration, errorDuration = time.Millisecond, time.Millisecond
	os.Exit(m.Run())
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	session *board.Session
	repo    *db.SQLite
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "tui.db"))
	if err != nil {
		t.Fatalf("opening repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	s := board.New(repo, board.Options{
		CacheTTL: time.Minute,
		Now:      func() time.Time { return day(2025, 3, 2) },
	})
	return &fixture{session: s, repo: repo}
}

func (f *fixture) seed(t *testing.T, ref, guest string, rt booking.RoomType, in, out time.Time) *booking.Booking {
	t.Helper()
	b := &booking.Booking{
		Reference:  ref,
		RoomType:   rt,
		CheckIn:    in,
		CheckOut:   out,
		Status:     booking.StatusConfirmed,
		GuestName:  guest,
		GuestEmail: strings.ToLower(ref) + "@example.com",
	}
	if err := f.repo.CreateBooking(context.Background(), b); err != nil {
		t.Fatalf("seeding booking: %v", err)
	}
	return b
}

// model returns a sized model with the current month loaded.
func (f *fixture) model(t *testing.T) Model {
	t.Helper()
	m := *New(f.session, config.Default())
	m = send(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	return run(t, m, m.Init())
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}
	return out
}

// run executes cmd and feeds its message back, like the bubbletea loop would.
// Status expiry is dropped so tests can read the last status.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil, commands.ClearStatusMsg:
		return m
	case tea.BatchMsg:
		for _, c := range msg {
			m = run(t, m, c)
		}
		return m
	default:
		updated, next := m.Update(msg)
		return run(t, updated.(Model), next)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(key(k))
		m = updated.(Model)
	}
	return m, cmd
}

func TestNew_StartsOnTodayInCurrentMonth(t *testing.T) {
	f := newFixture(t)
	m := New(f.session, config.Default())

	if !m.window.Start.Equal(day(2025, 3, 1)) {
		t.Errorf("window start = %v", m.window.Start)
	}
	if m.cursor.Col != 1 || m.cursor.RoomType != booking.Single || m.cursor.Slot != 1 {
		t.Errorf("unexpected cursor %+v", m.cursor)
	}
	if m.mode != ModeNormal {
		t.Errorf("mode = %v", m.mode)
	}
}

func TestNew_UnknownThemeFallsBack(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	cfg.UI.Theme = "nope"
	if m := New(f.session, cfg); m.theme == nil || m.theme.Name == "" {
		t.Fatal("expected fallback theme")
	}
}

func TestChartLoaded(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "DHV-000001", "Ana Cruz", booking.Single, day(2025, 3, 1), day(2025, 3, 3))
	m := f.model(t)

	if m.loading || m.view == nil || m.grid() == nil {
		t.Fatal("expected chart to be loaded")
	}
	if len(m.rooms()) != 5+3+2 {
		t.Errorf("rooms = %d, want 10", len(m.rooms()))
	}
	bar, ok := m.barAtCursor()
	if !ok || bar.Booking.Reference != "DHV-000001" {
		t.Fatalf("expected cursor on the seeded booking, got %+v", bar)
	}
}

func TestChartLoaded_IgnoresStaleWindow(t *testing.T) {
	f := newFixture(t)
	m := f.model(t)
	before := m.view

	stale := commands.LoadChart(f.session, m.window.Next())()
	m = send(t, m, stale)
	if m.view != before {
		t.Error("a chart for another window must be ignored")
	}
}

func TestNavigation(t *testing.T) {
	f := newFixture(t)
	m := f.model(t)

	m, _ = press(t, m, "j", "j", "j", "j", "j")
	if m.cursor.RoomType != booking.Deluxe || m.cursor.Slot != 1 {
		t.Errorf("expected first deluxe room, got %+v", m.cursor)
	}
	m, _ = press(t, m, "J")
	if m.cursor.RoomType != booking.Family || m.cursor.Slot != 1 {
		t.Errorf("expected first family room, got %+v", m.cursor)
	}
	m, _ = press(t, m, "j", "j", "j")
	if m.cursor.Slot != 2 {
		t.Errorf("cursor should stop at the last room, got %+v", m.cursor)
	}

	m, _ = press(t, m, "h", "h", "h")
	if m.cursor.Col != 0 {
		t.Errorf("cursor should stop at the first day, got %d", m.cursor.Col)
	}
	m, _ = press(t, m, "$")
	if m.cursor.Col != 30 {
		t.Errorf("expected last day of March, got %d", m.cursor.Col)
	}
}

func TestMonthNavigation(t *testing.T) {
	f := newFixture(t)
	m := f.model(t)

	m, cmd := press(t, m, "]")
	if !m.loading {
		t.Error("expected loading state")
	}
	m = run(t, m, cmd)
	if !m.window.Start.Equal(day(2025, 4, 1)) || len(m.grid().Days) != 30 {
		t.Errorf("expected April, got %v", m.window)
	}

	m, cmd = press(t, m, "t")
	m = run(t, m, cmd)
	if !m.window.Start.Equal(day(2025, 3, 1)) || m.cursor.Col != 1 {
		t.Errorf("expected today in March, got %v col %d", m.window, m.cursor.Col)
	}
}

func TestDragAndDrop(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, "DHV-000002", "Ben Ong", booking.Deluxe, day(2025, 3, 1), day(2025, 3, 3))
	m := f.model(t)

	if !m.focusBooking(b.ID) {
		t.Fatal("booking not on chart")
	}
	m, _ = press(t, m, "m")
	if m.mode != ModeDrag {
		t.Fatalf("mode = %v, want drag", m.mode)
	}

	m, _ = press(t, m, "j", "j", "l", "l", "l")
	target := m.dropTarget()
	if target.Slot != 3 || !target.Date.Equal(day(2025, 3, 4)) {
		t.Fatalf("unexpected target %+v", target)
	}
	if !strings.Contains(ansi.Strip(m.View()), "Move DHV-000002 to deluxe-203 from Mar 04 (2 nights)") {
		t.Error("expected the drop preview in the footer")
	}

	var redraws []uint64
	f.session.OnRedraw(func(gen uint64) { redraws = append(redraws, gen) })

	m, cmd := press(t, m, "enter")
	if m.mode != ModeNormal {
		t.Errorf("mode = %v after drop", m.mode)
	}
	if _, _, ok := m.grid().FindBar(b.ID); !ok {
		t.Fatal("bar must stay until the write is confirmed")
	}
	if _, bar, _ := m.grid().FindBar(b.ID); bar.Slot != 1 {
		t.Error("chart changed before the write was confirmed")
	}

	m = run(t, m, cmd)
	if !strings.Contains(m.statusMsg, "deluxe-203") {
		t.Errorf("status = %q", m.statusMsg)
	}
	if len(redraws) != 1 {
		t.Fatalf("expected one redraw, got %v", redraws)
	}

	m = run(t, m, func() tea.Msg { return commands.RedrawMsg{Generation: redraws[0]} })
	_, bar, ok := m.grid().FindBar(b.ID)
	if !ok || bar.Slot != 3 || bar.Col != 3 || bar.Span != 2 {
		t.Errorf("unexpected bar after redraw %+v", bar)
	}

	stored, err := f.repo.GetBooking(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if stored.Room != "deluxe-203" || !stored.CheckIn.Equal(day(2025, 3, 4)) {
		t.Errorf("unexpected stored booking %+v", stored)
	}
}

func TestDrop_OnOtherRoomTypeIsRejected(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, "DHV-000003", "Cy Lim", booking.Single, day(2025, 3, 2), day(2025, 3, 4))
	m := f.model(t)

	m.focusBooking(b.ID)
	m, _ = press(t, m, "m", "J")
	if m.cursor.RoomType != booking.Deluxe {
		t.Fatalf("expected deluxe row, got %+v", m.cursor)
	}
	if !strings.Contains(m.detailLine(), "can only move to single rooms") {
		t.Errorf("detail = %q", m.detailLine())
	}

	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)
	if !strings.Contains(m.statusMsg, "within their room type") {
		t.Errorf("status = %q", m.statusMsg)
	}
	if f.session.Generation() != 0 {
		t.Error("rejected drop must not redraw")
	}
	if len(f.session.Overrides()) != 0 {
		t.Error("rejected drop must not leave an override")
	}
}

func TestDrag_EscCancels(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, "DHV-000004", "Di Tan", booking.Family, day(2025, 3, 5), day(2025, 3, 6))
	m := f.model(t)

	m.focusBooking(b.ID)
	m, _ = press(t, m, "m", "l", "esc")
	if m.mode != ModeNormal {
		t.Errorf("mode = %v", m.mode)
	}
	if _, dragging := f.session.Controller().Current(); dragging {
		t.Error("controller should be idle")
	}
}

func TestMouseDrag(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, "DHV-000005", "Eve Sy", booking.Single, day(2025, 3, 1), day(2025, 3, 3))
	m := f.model(t)

	// Row 0 of the body is the single heading, row 1 is single-101.
	y := headerLines + 1
	x := labelWidth + 1*m.dayWidth() // second night of the stay
	m = send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.mode != ModeDrag {
		t.Fatalf("expected drag, got %v", m.mode)
	}

	m = send(t, m, tea.MouseMsg{X: x + 5*m.dayWidth(), Y: y + 1, Action: tea.MouseActionMotion})
	if m.cursor.Slot != 2 || m.cursor.Col != 6 {
		t.Fatalf("unexpected cursor %+v", m.cursor)
	}

	updated, cmd := m.Update(tea.MouseMsg{X: x + 5*m.dayWidth(), Y: y + 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = run(t, updated.(Model), cmd)

	stored, err := f.repo.GetBooking(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	// The released cell is the new check-in, wherever the bar was grabbed.
	if stored.Room != "single-102" || !stored.CheckIn.Equal(day(2025, 3, 7)) || !stored.CheckOut.Equal(day(2025, 3, 9)) {
		t.Errorf("unexpected stored booking %+v", stored)
	}
}

func TestDetailModal(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, "DHV-000006", "Fe Go", booking.Deluxe, day(2025, 3, 1), day(2025, 3, 4))
	m := f.model(t)

	m, _ = press(t, m, "enter")
	if m.mode != ModeNormal {
		t.Fatal("enter on an empty cell should not open a modal")
	}

	m.focusBooking(b.ID)
	m, _ = press(t, m, "enter")
	if m.mode != ModeModal || !m.overlay.Active() {
		t.Fatalf("expected modal, got %v", m.mode)
	}
	out := ansi.Strip(m.View())
	for _, want := range []string{"Booking DHV-000006", "deluxe-201", "Mar 01 → Mar 04 (3 nights)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in modal", want)
		}
	}

	m, _ = press(t, m, "m")
	if m.mode != ModeDrag || m.overlay.Active() {
		t.Errorf("expected drag from modal, got %v", m.mode)
	}
}

func TestCycleRoomKey(t *testing.T) {
	f := newFixture(t)
	m := f.model(t)

	m, cmd := press(t, m, "j", "s")
	m = run(t, m, cmd)
	if m.statusMsg != "Room 102 is now dirty" {
		t.Errorf("status = %q", m.statusMsg)
	}

	m = run(t, m, func() tea.Msg { return commands.RedrawMsg{Generation: f.session.Generation()} })
	r, _ := m.row(m.cursor)
	if r.Status != booking.RoomDirty {
		t.Errorf("row status = %q", r.Status)
	}
}

func TestPrompt(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, "DHV-000007", "Gil Uy", booking.Family, day(2025, 5, 10), day(2025, 5, 12))
	m := f.model(t)

	m, _ = press(t, m, "/")
	if m.mode != ModePrompt {
		t.Fatalf("mode = %v", m.mode)
	}
	m, _ = press(t, m, "m", "tab")
	if m.prompt.Value() != "/month " {
		t.Fatalf("autocomplete = %q", m.prompt.Value())
	}
	m, _ = press(t, m, "esc")
	if m.mode != ModeNormal || m.prompt.Value() != "" {
		t.Fatal("esc should close and clear the prompt")
	}

	m, _ = press(t, m, "/")
	m.prompt.SetValue("/find gil")
	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)
	if !m.window.Start.Equal(day(2025, 5, 1)) {
		t.Fatalf("expected May, got %v", m.window)
	}
	bar, ok := m.barAtCursor()
	if !ok || bar.Booking.ID != b.ID {
		t.Errorf("expected cursor on found booking, got %+v", m.cursor)
	}
	if want := "#DHV-000007 Gil Uy · Family Room · 2 nights (2025-05-10 → 2025-05-12)"; m.statusMsg != want {
		t.Errorf("status = %q, want %q", m.statusMsg, want)
	}

	m, _ = press(t, m, "/")
	m.prompt.SetValue("/month nope")
	m, _ = press(t, m, "enter")
	if !strings.Contains(m.statusMsg, "YYYY-MM") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestRenderFailed(t *testing.T) {
	f := newFixture(t)
	m := f.model(t)

	m = send(t, m, commands.RenderFailedMsg{Window: m.window, Err: &board.RenderError{Panic: "boom"}})
	out := ansi.Strip(m.View())
	if !strings.Contains(out, "Chart unavailable") || !strings.Contains(out, "boom") {
		t.Errorf("expected placeholder, got:\n%s", out)
	}
}
