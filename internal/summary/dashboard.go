// Package summary aggregates bookings into dashboard figures and a guest directory.
package summary

import (
	"sort"
	"strings"
	"time"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
	"github.com/dhillsview/frontdesk/internal/dateutil"
)

// Dashboard holds the headline figures of the property.
type Dashboard struct {
	TotalBookings int                                      `json:"total_bookings"`
	Pending       int                                      `json:"pending"`
	UniqueGuests  int                                      `json:"unique_guests"`
	Revenue       float64                                  `json:"revenue"`
	Tonight       map[booking.RoomType]chart.OccupancyCell `json:"tonight"`
	TonightPct    int                                      `json:"tonight_pct"`
}

// Guest is one entry of the guest directory.
type Guest struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Stays     int       `json:"stays"`
	Spent     float64   `json:"spent"`
	LastVisit time.Time `json:"last_visit"`
}

// NoPhone is shown for guests without a phone number.
const NoPhone = "N/A"

// Compute builds the dashboard as of now. Cancelled bookings count toward the
// total but not toward revenue.
func Compute(bookings []*booking.Booking, settings *booking.Settings, now time.Time) Dashboard {
	d := Dashboard{
		TotalBookings: len(bookings),
		Tonight:       make(map[booking.RoomType]chart.OccupancyCell, len(booking.RoomTypes)),
	}

	emails := make(map[string]struct{})
	for _, b := range bookings {
		if b.IsPending() {
			d.Pending++
		}
		if !b.IsCancelled() {
			d.Revenue += b.Amount
		}
		if key := guestKey(b); key != "" {
			emails[key] = struct{}{}
		}
	}
	d.UniqueGuests = len(emails)

	tonight := dateutil.Day(now)
	booked, inventory := 0, 0
	for _, rt := range booking.RoomTypes {
		inv := settings.InventoryOf(rt)
		cell := chart.Cell(bookings, rt, inv, tonight)
		d.Tonight[rt] = cell
		booked += cell.Booked
		inventory += inv
	}
	d.TonightPct = chart.Percent(booked, inventory)
	return d
}

// Guests groups bookings by email, most recent visitor first.
func Guests(bookings []*booking.Booking) []Guest {
	byEmail := make(map[string]*Guest)
	for _, b := range bookings {
		key := guestKey(b)
		if key == "" {
			continue
		}
		g, ok := byEmail[key]
		if !ok {
			g = &Guest{Email: strings.TrimSpace(b.GuestEmail)}
			byEmail[key] = g
		}
		g.Stays++
		if !b.IsCancelled() {
			g.Spent += b.Amount
		}
		if !b.CheckIn.Before(g.LastVisit) {
			g.LastVisit = b.CheckIn
			g.Name = b.GuestName
			if b.GuestPhone != "" {
				g.Phone = b.GuestPhone
			}
		}
		if g.Phone == "" && b.GuestPhone != "" {
			g.Phone = b.GuestPhone
		}
	}

	out := make([]Guest, 0, len(byEmail))
	for _, g := range byEmail {
		if g.Phone == "" {
			g.Phone = NoPhone
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastVisit.Equal(out[j].LastVisit) {
			return out[i].LastVisit.After(out[j].LastVisit)
		}
		return out[i].Email < out[j].Email
	})
	return out
}

func guestKey(b *booking.Booking) string {
	return strings.ToLower(strings.TrimSpace(b.GuestEmail))
}
