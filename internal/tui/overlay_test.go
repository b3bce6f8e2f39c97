package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestOverlayShowHide(t *testing.T) {
	overlay := NewOverlayModel()
	if overlay.Active() {
		t.Fatalf("expected overlay to start inactive")
	}

	overlay.Show()
	if !overlay.Active() {
		t.Fatalf("expected overlay to be active after Show")
	}

	overlay.Hide()
	if overlay.Active() {
		t.Fatalf("expected overlay to be inactive after Hide")
	}
}

func TestOverlayRenderInactiveReturnsBase(t *testing.T) {
	overlay := NewOverlayModel()
	base := "alpha\nbeta"
	got := overlay.Render(base, 10, 2, "content")
	if got != base {
		t.Fatalf("expected base content unchanged when inactive")
	}
}

func TestOverlayRenderCentersBox(t *testing.T) {
	overlay := NewOverlayModel()
	overlay.SetBackground(lipgloss.Color("#0c0c0c"))
	overlay.Show()

	width := 30
	height := 12
	row := strings.Repeat(".", width)
	base := strings.Repeat(row+"\n", height-1) + row
	content := "BOOKING\nDHV-00A1B2"
	got := overlay.Render(base, width, height, content)

	lines := strings.Split(got, "\n")
	if len(lines) != height {
		t.Fatalf("expected %d lines, got %d", height, len(lines))
	}

	bgSeq := ansi.Style{}.BackgroundColor(ansi.HexColor("#0c0c0c")).String()
	top := (height - 2) / 2
	for i, line := range lines {
		if w := lipgloss.Width(line); w != width {
			t.Fatalf("line %d width = %d, want %d", i, w, width)
		}
		hasBg := strings.Contains(line, bgSeq)
		if i >= top && i < top+2 {
			if !hasBg {
				t.Fatalf("expected overlay background on line %d", i)
			}
		} else if hasBg {
			t.Fatalf("expected no overlay background on line %d", i)
		}
	}

	stripped := ansi.Strip(lines[top+1])
	if stripped != "..........DHV-00A1B2.........." {
		t.Fatalf("unexpected centered line %q", stripped)
	}
}

func TestOverlayRenderCutsWideContent(t *testing.T) {
	overlay := NewOverlayModel()
	overlay.SetBackground(lipgloss.Color("#123456"))
	overlay.Show()

	got := overlay.Render("", 8, 3, strings.Repeat("x", 20))
	for _, line := range strings.Split(got, "\n") {
		if w := lipgloss.Width(line); w != 8 {
			t.Fatalf("line width = %d, want 8", w)
		}
	}
}
