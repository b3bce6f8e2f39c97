// Package chart computes the availability tape chart: per-day occupancy,
// room slot assignment and the layout of booking bars over a date window.
//
// Everything here is pure. Callers pass in the bookings, settings and
// manual overrides they own and get back values to render.
package chart

import (
	"math"
	"time"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/dateutil"
)

// Occupancy tier thresholds, in percent.
const (
	HighOccupancyPct   = 80
	MediumOccupancyPct = 40
)

// Tier classifies an occupancy percentage for display.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// TierFor returns the tier of an occupancy percentage.
func TierFor(pct int) Tier {
	switch {
	case pct >= HighOccupancyPct:
		return TierHigh
	case pct >= MediumOccupancyPct:
		return TierMedium
	default:
		return TierLow
	}
}

// OccupancyCell summarizes one room type on one night.
type OccupancyCell struct {
	Date      time.Time `json:"date"`
	Booked    int       `json:"booked"`
	Available int       `json:"available"`
	Pct       int       `json:"pct"`
	Tier      Tier      `json:"tier"`
}

// Occupancy holds one row of cells per room type.
type Occupancy map[booking.RoomType][]OccupancyCell

// Percent returns round(booked/inventory*100) clamped to [0,100].
// A zero inventory is 0%.
func Percent(booked, inventory int) int {
	if inventory <= 0 {
		return 0
	}
	pct := int(math.Round(float64(booked) / float64(inventory) * 100))
	return min(max(pct, 0), 100)
}

// Countable reports whether a booking takes part in occupancy and slotting:
// it must be active and well formed.
func Countable(b *booking.Booking) bool {
	return b != nil && b.IsActive() && b.Validate() == nil
}

// BookedOn counts the countable bookings of rt holding a room on the night of d.
func BookedOn(bookings []*booking.Booking, rt booking.RoomType, d time.Time) int {
	n := 0
	for _, b := range bookings {
		if b.RoomType == rt && Countable(b) && b.OccupiesNight(d) {
			n++
		}
	}
	return n
}

// Cell computes the occupancy of rt on the night of d.
func Cell(bookings []*booking.Booking, rt booking.RoomType, inventory int, d time.Time) OccupancyCell {
	booked := BookedOn(bookings, rt, d)
	pct := Percent(booked, inventory)
	return OccupancyCell{
		Date:      d,
		Booked:    booked,
		Available: max(inventory-booked, 0),
		Pct:       pct,
		Tier:      TierFor(pct),
	}
}

// OccupancyRow computes one cell per day of the window for rt.
func OccupancyRow(bookings []*booking.Booking, rt booking.RoomType, inventory int, w dateutil.Window) []OccupancyCell {
	dates := w.Dates()
	row := make([]OccupancyCell, len(dates))
	for i, d := range dates {
		row[i] = Cell(bookings, rt, inventory, d)
	}
	return row
}

// ComputeOccupancy computes the occupancy rows of every room type over the window.
func ComputeOccupancy(bookings []*booking.Booking, inventory map[booking.RoomType]int, w dateutil.Window) Occupancy {
	occ := make(Occupancy, len(booking.RoomTypes))
	for _, rt := range booking.RoomTypes {
		occ[rt] = OccupancyRow(bookings, rt, max(inventory[rt], 0), w)
	}
	return occ
}

// CanAccommodate reports whether every night of [checkIn, checkOut) has a free room of rt.
func CanAccommodate(bookings []*booking.Booking, rt booking.RoomType, inventory int, checkIn, checkOut time.Time) bool {
	if inventory <= 0 || !checkOut.After(checkIn) {
		return false
	}
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		if BookedOn(bookings, rt, d) >= inventory {
			return false
		}
	}
	return true
}
