package debuglog

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDisabledIsNoop(t *testing.T) {
	SetOutput(nil)
	if Enabled() {
		t.Fatal("expected logging to be off")
	}
	Event("ANYTHING", map[string]any{"x": 1})
	Error("ctx", errors.New("boom"))
	Close()
}

func TestEventsAreJSONLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	SkippedBooking(7, "DHV-AAAAAA", errors.New("check-out must be after check-in"))
	Drop(7, "single-102", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), nil)
	Error("loading", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first["event"] != "BOOKING_SKIPPED" || first["ref"] != "DHV-AAAAAA" {
		t.Errorf("unexpected entry %v", first)
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if second["checkin"] != "2025-03-02" || second["ok"] != true {
		t.Errorf("unexpected entry %v", second)
	}
	if second["seq"].(float64) != 2 {
		t.Errorf("expected seq 2, got %v", second["seq"])
	}
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := Init(true, path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	ModeChange("Normal", "Dragging", "m")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	for _, want := range []string{"DEBUG_START", "MODE_CHANGE", "DEBUG_END"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected %s in log", want)
		}
	}
}
