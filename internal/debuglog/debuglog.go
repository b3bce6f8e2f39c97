// Package debuglog writes structured JSON-lines events to a debug log file.
//
// Logging is off until Init is called with enabled set. All helpers are
// safe to call when logging is off.
package debuglog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultPath is the fixed path for debug logs.
const DefaultPath = "frontdesk-debug.log"

// Logger logs application events as JSON lines.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	seq    int
}

var (
	mu  sync.RWMutex
	std *Logger
)

// Init opens the debug log at path when enabled. An empty path uses DefaultPath.
func Init(enabled bool, path string) error {
	if !enabled {
		setDefault(nil)
		return nil
	}
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	l := &Logger{out: f, closer: f}
	setDefault(l)
	l.Log("DEBUG_START", map[string]any{
		"log_file": path,
		"time":     time.Now().Format(time.RFC3339),
	})
	return nil
}

// SetOutput routes events to w. A nil writer turns logging off.
func SetOutput(w io.Writer) {
	if w == nil {
		setDefault(nil)
		return
	}
	setDefault(&Logger{out: w})
}

// Close flushes the end marker and closes the log file.
func Close() {
	l := current()
	if l == nil {
		return
	}
	l.Log("DEBUG_END", map[string]any{
		"time": time.Now().Format(time.RFC3339),
	})
	if l.closer != nil {
		_ = l.closer.Close()
	}
	setDefault(nil)
}

// Enabled reports whether events are being written.
func Enabled() bool {
	return current() != nil
}

func setDefault(l *Logger) {
	mu.Lock()
	std = l
	mu.Unlock()
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// Log writes a structured log entry.
func (l *Logger) Log(event string, data map[string]any) {
	if l == nil || l.out == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := map[string]any{
		"seq":   l.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(l.out, "%s\n", b)
}

// Event logs an arbitrary event on the default logger.
func Event(event string, data map[string]any) {
	current().Log(event, data)
}

// Error logs an error.
func Error(context string, err error) {
	if err == nil {
		return
	}
	current().Log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// SkippedBooking logs a booking left off the chart.
func SkippedBooking(id int64, ref string, reason error) {
	current().Log("BOOKING_SKIPPED", map[string]any{
		"id":     id,
		"ref":    ref,
		"reason": reason.Error(),
	})
}

// Drop logs the outcome of a drag-and-drop reassignment.
func Drop(id int64, room string, checkIn, checkOut time.Time, err error) {
	data := map[string]any{
		"id":       id,
		"room":     room,
		"checkin":  checkIn.Format("2006-01-02"),
		"checkout": checkOut.Format("2006-01-02"),
		"ok":       err == nil,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	current().Log("DROP", data)
}

// KeyPress logs a key press in the terminal UI.
func KeyPress(key string) {
	current().Log("KEY_PRESS", map[string]any{"key": key})
}

// ModeChange logs a terminal UI mode change.
func ModeChange(from, to, reason string) {
	current().Log("MODE_CHANGE", map[string]any{
		"from":   from,
		"to":     to,
		"reason": reason,
	})
}
