package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/config"
	"github.com/dhillsview/frontdesk/internal/db"
)

func TestMain(m *testing.M) {
	DisableColor()
	os.Exit(m.Run())
}

// execute runs one command line against the database at dbPath with a fresh App.
func execute(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DBPath = dbPath

	a := NewApp(cfg)
	var out bytes.Buffer
	a.out = &out
	a.root.SetOut(&out)
	a.root.SetErr(&out)
	a.root.SetArgs(args)

	err := a.Execute()
	if cerr := a.Close(); cerr != nil {
		t.Fatalf("closing app: %v", cerr)
	}
	return out.String(), err
}

func mustExecute(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := execute(t, dbPath, args...)
	if err != nil {
		t.Fatalf("frontdesk %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

var refPattern = regexp.MustCompile(`DHV-[0-9A-F]{6}`)

// addBooking creates a booking from the command line and returns its reference.
func addBooking(t *testing.T, dbPath, roomType, in, out string, extra ...string) string {
	t.Helper()
	args := append([]string{"bookings", "add",
		"--type=" + roomType, "--checkin=" + in, "--checkout=" + out,
		"--first=Ana", "--last=Cruz", "--email=ana@example.com", "--phone=5550100",
	}, extra...)
	ref := refPattern.FindString(mustExecute(t, dbPath, args...))
	if ref == "" {
		t.Fatal("no reference in add output")
	}
	return ref
}

func TestVersion(t *testing.T) {
	out := mustExecute(t, filepath.Join(t.TempDir(), "fd.db"), "version")
	if !strings.HasPrefix(out, "frontdesk dev") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestBookingsAddListShow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fd.db")
	ref := addBooking(t, dbPath, "deluxe", "2030-03-01", "2030-03-03")

	list := mustExecute(t, dbPath, "bookings", "list", "--query=ana")
	if !strings.Contains(list, ref) || !strings.Contains(list, "pending") || !strings.Contains(list, "1 bookings") {
		t.Errorf("unexpected list output:\n%s", list)
	}
	if out := mustExecute(t, dbPath, "bookings", "list", "--status=cancelled"); !strings.Contains(out, "No bookings found.") {
		t.Errorf("expected empty listing, got:\n%s", out)
	}

	show := mustExecute(t, dbPath, "bookings", "show", strings.ToLower(ref))
	for _, want := range []string{"Ana Cruz", "ana@example.com", "Mar 01 → Mar 03 (2 nights)", "640.00"} {
		if !strings.Contains(show, want) {
			t.Errorf("show output missing %q:\n%s", want, show)
		}
	}
}

func TestBookingsAdd_Rejected(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fd.db")
	mustExecute(t, dbPath, "settings", "inventory", "single", "1")
	addBooking(t, dbPath, "single", "2030-03-01", "2030-03-03")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no room left", []string{"--type=single", "--checkin=2030-03-02", "--checkout=2030-03-04"}, "no rooms available"},
		{"checkout before checkin", []string{"--type=single", "--checkin=2030-03-05", "--checkout=2030-03-04"}, "check-out must be after check-in"},
		{"bad room type", []string{"--type=suite", "--checkin=2030-03-05", "--checkout=2030-03-06"}, "room type"},
		{"past stay", []string{"--type=single", "--checkin=2001-03-05", "--checkout=2001-03-06"}, "too early"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"bookings", "add",
				"--first=Ben", "--last=Ong", "--email=ben@example.com", "--phone=5550101"}, tt.args...)
			_, err := execute(t, dbPath, args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestBookingsTransitions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fd.db")
	ref := addBooking(t, dbPath, "single", "2030-03-01", "2030-03-02")

	if out := mustExecute(t, dbPath, "bookings", "confirm", ref); !strings.Contains(out, "Confirmed "+ref) {
		t.Errorf("confirm output %q", out)
	}
	mustExecute(t, dbPath, "bookings", "checkin", ref)
	mustExecute(t, dbPath, "bookings", "cancel", ref)
	if _, err := execute(t, dbPath, "bookings", "cancel", ref); err == nil {
		t.Error("cancelling twice should fail")
	}

	mustExecute(t, dbPath, "bookings", "delete", "--yes", ref)
	if _, err := execute(t, dbPath, "bookings", "show", ref); err == nil {
		t.Error("deleted booking is still found")
	}
}

func TestBookingsAssign(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fd.db")
	ref := addBooking(t, dbPath, "deluxe", "2030-03-01", "2030-03-03")

	out := mustExecute(t, dbPath, "bookings", "assign", ref, "--room=deluxe-203", "--date=2030-03-04")
	if !strings.Contains(out, "deluxe-203, Mar 04 → Mar 06") {
		t.Errorf("assign output %q", out)
	}

	repo, err := db.New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = repo.Close() }()
	b, err := repo.GetBookingByReference(context.Background(), ref)
	if err != nil {
		t.Fatal(err)
	}
	if b.Room != "deluxe-203" || b.Nights() != 2 {
		t.Errorf("stored booking = %+v", b)
	}

	if _, err := execute(t, dbPath, "bookings", "assign", ref, "--room=101"); err == nil ||
		!strings.Contains(err.Error(), "own room type") {
		t.Errorf("cross-type assign err = %v", err)
	}
	if _, err := execute(t, dbPath, "bookings", "assign", ref, "--room=209"); err == nil {
		t.Error("expected error for a room beyond inventory")
	}
}

func TestChartCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fd.db")
	ref := addBooking(t, dbPath, "deluxe", "2030-03-01", "2030-03-03")

	out := mustExecute(t, dbPath, "chart", "--month=2030-03")
	for _, want := range []string{"MARCH 2030", "Deluxe Room · 320/night · 3 rooms", "deluxe-201", "family-302", "[" + ref[:6] + "]"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, dbPath, "chart", "--month=March"); err == nil {
		t.Error("expected error for a bad month")
	}
}

func TestOccupancyCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fd.db")
	mustExecute(t, dbPath, "settings", "inventory", "single", "2")
	addBooking(t, dbPath, "single", "2030-03-01", "2030-03-03")
	addBooking(t, dbPath, "single", "2030-03-02", "2030-03-04")

	out := mustExecute(t, dbPath, "occupancy", "--from=2030-03-01", "--days=4", "--type=single")
	lines := strings.Split(out, "\n")
	want := map[string]string{
		"Fri Mar 01": "50% (1/2)",
		"Sat Mar 02": "100% (2/2)",
		"Sun Mar 03": "50% (1/2)",
		"Mon Mar 04": "0% (0/2)",
	}
	for day, pct := range want {
		found := false
		for _, l := range lines {
			if strings.Contains(l, day) && strings.Contains(l, pct) {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %s at %s:\n%s", pct, day, out)
		}
	}
}

func TestRoomsCycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fd.db")

	if out := mustExecute(t, dbPath, "rooms", "cycle", "deluxe-203"); !strings.Contains(out, "deluxe-203 is now dirty") {
		t.Errorf("cycle output %q", out)
	}
	mustExecute(t, dbPath, "rooms", "cycle", "203")

	status := mustExecute(t, dbPath, "rooms", "status")
	if !regexp.MustCompile(`deluxe-203\s+maintenance`).MatchString(status) {
		t.Errorf("status output:\n%s", status)
	}
	if _, err := execute(t, dbPath, "rooms", "cycle", "single-301"); err == nil {
		t.Error("expected error for mismatched label")
	}
	if _, err := execute(t, dbPath, "rooms", "cycle", "109"); err == nil {
		t.Error("expected error for a room beyond inventory")
	}
}

func TestSettingsAndQuote(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fd.db")
	mustExecute(t, dbPath, "settings", "prices", "family=400")
	mustExecute(t, dbPath, "settings", "rateplan", "set", "weekly", "--discount=10", "--min-nights=3")

	show := mustExecute(t, dbPath, "settings", "show")
	if !strings.Contains(show, "400.00/night") || !strings.Contains(show, "WEEKLY") {
		t.Errorf("settings output:\n%s", show)
	}

	quote := mustExecute(t, dbPath, "quote", "--type=family", "--checkin=2030-03-01", "--checkout=2030-03-04", "--rate-plan=WEEKLY", "--addon=25")
	for _, want := range []string{"3 nights × 400.00", "-120.00", "1105.00", "Available"} {
		if !strings.Contains(quote, want) {
			t.Errorf("quote missing %q:\n%s", want, quote)
		}
	}

	if _, err := execute(t, dbPath, "quote", "--type=family", "--checkin=2030-03-01", "--checkout=2030-03-02", "--rate-plan=WEEKLY"); err == nil {
		t.Error("rate plan should require three nights")
	}

	mustExecute(t, dbPath, "settings", "rateplan", "remove", "WEEKLY")
	if _, err := execute(t, dbPath, "settings", "rateplan", "remove", "WEEKLY"); err == nil {
		t.Error("removing a missing plan should fail")
	}
	if _, err := execute(t, dbPath, "settings", "inventory", "--", "single", "-1"); err == nil {
		t.Error("negative inventory should fail")
	}
}

func TestGuestsAndStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fd.db")
	addBooking(t, dbPath, "single", "2030-03-01", "2030-03-02", "--status=confirmed")
	addBooking(t, dbPath, "single", "2030-04-01", "2030-04-02")

	guests := mustExecute(t, dbPath, "guests")
	if !strings.Contains(guests, "ana@example.com") || !strings.Contains(guests, "2 stays") {
		t.Errorf("guests output:\n%s", guests)
	}

	stats := mustExecute(t, dbPath, "stats")
	if !strings.Contains(stats, "Bookings: 2") || !strings.Contains(stats, "Pending: 1") || !strings.Contains(stats, "Guests: 1") {
		t.Errorf("stats output:\n%s", stats)
	}
}

func TestParseRoom(t *testing.T) {
	tests := []struct {
		in      string
		rt      booking.RoomType
		slot    int
		wantErr bool
	}{
		{in: "203", rt: booking.Deluxe, slot: 3},
		{in: "deluxe-203", rt: booking.Deluxe, slot: 3},
		{in: "Family-302", rt: booking.Family, slot: 2},
		{in: "single-203", wantErr: true},
		{in: "403", wantErr: true},
		{in: "200", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rt, slot, err := parseRoom(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRoom(%q) err = %v", tt.in, err)
			}
			if !tt.wantErr && (rt != tt.rt || slot != tt.slot) {
				t.Errorf("parseRoom(%q) = %s %d", tt.in, rt, slot)
			}
		})
	}
}

func TestParsePrices(t *testing.T) {
	prices, err := parsePrices([]string{"single=110", "Family= 450.5"})
	if err != nil {
		t.Fatal(err)
	}
	if prices[booking.Single] != 110 || prices[booking.Family] != 450.5 {
		t.Errorf("prices = %v", prices)
	}
	for _, bad := range [][]string{{"single"}, {"suite=10"}, {"single=x"}} {
		if _, err := parsePrices(bad); err == nil {
			t.Errorf("parsePrices(%v) should fail", bad)
		}
	}
}

func TestOccupancyBar(t *testing.T) {
	tests := []struct {
		booked, inventory int
		want              string
	}{
		{1, 2, "[█████░░░░░] 50% (1/2)"},
		{3, 2, "[██████████] 100% (3/2)"},
		{0, 0, "[░░░░░░░░░░] (no rooms)"},
	}
	for _, tt := range tests {
		if got := OccupancyBar(tt.booked, tt.inventory, 10); got != tt.want {
			t.Errorf("OccupancyBar(%d, %d) = %q, want %q", tt.booked, tt.inventory, got, tt.want)
		}
	}
}
