package chart

import (
	"fmt"
	"time"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/dateutil"
)

// DefaultDayWidth is the width of one day column in layout units.
const DefaultDayWidth = 4

// MalformedBookingError describes a booking that cannot be placed on the chart.
type MalformedBookingError struct {
	ID        int64
	Reference string
	Err       error
}

func (e *MalformedBookingError) Error() string {
	return fmt.Sprintf("booking %d (%s) skipped: %v", e.ID, e.Reference, e.Err)
}

func (e *MalformedBookingError) Unwrap() error { return e.Err }

// Day is one column header of the chart.
type Day struct {
	Date    time.Time
	Today   bool
	Weekend bool
}

// Bar is a booking drawn on a slot row.
type Bar struct {
	Booking *booking.Booking
	Slot    int
	// Col is the index of the first visible day.
	Col int
	// Span is the number of visible nights, at least one.
	Span  int
	Width int
	// ClippedStart and ClippedEnd mark stays that continue past the window.
	ClippedStart bool
	ClippedEnd   bool
	// Conflict marks a stay overlapping another one on the same slot.
	Conflict bool
}

// Covers reports whether the bar is drawn over day column col.
func (b Bar) Covers(col int) bool {
	return col >= b.Col && col < b.Col+b.Span
}

// SlotRow is one physical room of a room type.
type SlotRow struct {
	Slot       int
	RoomNumber int
	Label      string
	Status     booking.RoomStatus
	Bars       []Bar
}

// BarAt returns the bar drawn over day column col, preferring the one that starts latest.
func (r SlotRow) BarAt(col int) (Bar, bool) {
	var (
		found Bar
		ok    bool
	)
	for _, b := range r.Bars {
		if b.Covers(col) && (!ok || b.Col >= found.Col) {
			found, ok = b, true
		}
	}
	return found, ok
}

// Section groups the rows of one room type.
type Section struct {
	RoomType  booking.RoomType
	Name      string
	Price     float64
	Inventory int
	Rows      []SlotRow
	Occupancy []OccupancyCell
	// Unplaced lists bookings whose slot has no row, e.g. after inventory shrank.
	Unplaced []*booking.Booking
}

// Grid is the laid-out tape chart for one window.
type Grid struct {
	Window   dateutil.Window
	DayWidth int
	Days     []Day
	Sections []Section
	Skipped  []*MalformedBookingError
}

// Section returns the section for rt.
func (g *Grid) Section(rt booking.RoomType) (*Section, bool) {
	for i := range g.Sections {
		if g.Sections[i].RoomType == rt {
			return &g.Sections[i], true
		}
	}
	return nil, false
}

// Col returns the column index of d, or -1 outside the window.
func (g *Grid) Col(d time.Time) int {
	if !g.Window.Contains(d) {
		return -1
	}
	return dateutil.DaysBetween(g.Window.Start, dateutil.Day(d))
}

// FindBar locates the bar of a booking.
func (g *Grid) FindBar(id int64) (booking.RoomType, Bar, bool) {
	for _, s := range g.Sections {
		for _, r := range s.Rows {
			for _, b := range r.Bars {
				if b.Booking.ID == id {
					return s.RoomType, b, true
				}
			}
		}
	}
	return "", Bar{}, false
}

// LayoutInput is everything Layout needs.
type LayoutInput struct {
	Window    dateutil.Window
	Bookings  []*booking.Booking
	Settings  *booking.Settings
	Overrides Overrides
	Strategy  Strategy
	DayWidth  int
	// Now marks today's column. Zero means no column is marked.
	Now time.Time
	// RoomTypes limits the sections. Empty means every room type.
	RoomTypes []booking.RoomType
}

// PlaceBar computes where a booking is drawn in the window. The bar starts at
// max(check-in, window start) and spans the nights up to min(check-out,
// window end), at least one. Returns false if the stay misses the window.
func PlaceBar(b *booking.Booking, w dateutil.Window, dayWidth int) (Bar, bool) {
	if !b.CheckOut.After(w.Start) || !b.CheckIn.Before(w.End) {
		return Bar{}, false
	}
	if dayWidth <= 0 {
		dayWidth = DefaultDayWidth
	}

	start := dateutil.MaxTime(b.CheckIn, w.Start)
	end := dateutil.MinTime(b.CheckOut, w.End)
	span := max(dateutil.DaysBetween(start, end), 1)

	return Bar{
		Booking:      b,
		Col:          dateutil.DaysBetween(w.Start, start),
		Span:         span,
		Width:        span * dayWidth,
		ClippedStart: b.CheckIn.Before(w.Start),
		ClippedEnd:   b.CheckOut.After(w.End),
	}, true
}

// Layout builds the chart grid. Malformed bookings are left out and listed in
// Grid.Skipped; cancelled bookings are ignored.
func Layout(in LayoutInput) *Grid {
	settings := in.Settings
	if settings == nil {
		settings = booking.DefaultSettings()
	}
	dayWidth := in.DayWidth
	if dayWidth <= 0 {
		dayWidth = DefaultDayWidth
	}
	roomTypes := in.RoomTypes
	if len(roomTypes) == 0 {
		roomTypes = booking.RoomTypes
	}

	g := &Grid{Window: in.Window, DayWidth: dayWidth}

	today := time.Time{}
	if !in.Now.IsZero() {
		today = dateutil.Day(in.Now)
	}
	for _, d := range in.Window.Dates() {
		g.Days = append(g.Days, Day{
			Date:    d,
			Today:   d.Equal(today),
			Weekend: dateutil.IsWeekend(d),
		})
	}

	valid := make([]*booking.Booking, 0, len(in.Bookings))
	for _, b := range in.Bookings {
		if b == nil {
			continue
		}
		if err := b.Validate(); err != nil {
			g.Skipped = append(g.Skipped, &MalformedBookingError{ID: b.ID, Reference: b.Reference, Err: err})
			continue
		}
		valid = append(valid, b)
	}

	assignment := AssignSlots(valid, settings.Inventory, in.Overrides, in.Strategy)

	for _, rt := range roomTypes {
		inv := settings.InventoryOf(rt)
		sec := Section{
			RoomType:  rt,
			Name:      rt.DisplayName(),
			Price:     settings.PriceOf(rt),
			Inventory: inv,
			Rows:      make([]SlotRow, inv),
			Occupancy: OccupancyRow(valid, rt, inv, in.Window),
		}
		for i := range sec.Rows {
			slot := i + 1
			num := booking.RoomNumber(rt, slot)
			sec.Rows[i] = SlotRow{
				Slot:       slot,
				RoomNumber: num,
				Label:      booking.RoomLabel(rt, slot),
				Status:     settings.StatusOf(num),
			}
		}

		for _, b := range StableOrder(valid, rt) {
			bar, visible := PlaceBar(b, in.Window, dayWidth)
			if !visible {
				continue
			}
			slot := assignment.Slot(b.ID)
			if slot < 1 || slot > inv {
				sec.Unplaced = append(sec.Unplaced, b)
				continue
			}
			bar.Slot = slot
			bar.Conflict = assignment.Conflicts[b.ID]
			sec.Rows[slot-1].Bars = append(sec.Rows[slot-1].Bars, bar)
		}
		g.Sections = append(g.Sections, sec)
	}

	return g
}
