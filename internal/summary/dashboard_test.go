package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func stay(id int64, rt booking.RoomType, in, out int, status booking.Status, email string, amount float64) *booking.Booking {
	return &booking.Booking{
		ID:         id,
		Reference:  "DHV-00000" + string(rune('0'+id)),
		RoomType:   rt,
		CheckIn:    day(in),
		CheckOut:   day(out),
		Status:     status,
		GuestName:  "Guest " + email,
		GuestEmail: email,
		Amount:     amount,
	}
}

func TestCompute(t *testing.T) {
	bookings := []*booking.Booking{
		stay(1, booking.Single, 1, 4, booking.StatusConfirmed, "ana@example.com", 540),
		stay(2, booking.Single, 2, 3, booking.StatusPending, "ANA@example.com", 180),
		stay(3, booking.Deluxe, 2, 5, booking.StatusCancelled, "ben@example.com", 960),
		stay(4, booking.Family, 3, 4, booking.StatusCheckedIn, "cy@example.com", 420),
	}
	s := booking.DefaultSettings()

	d := Compute(bookings, s, time.Date(2025, 3, 2, 20, 0, 0, 0, time.UTC))

	assert.Equal(t, 4, d.TotalBookings)
	assert.Equal(t, 1, d.Pending)
	assert.Equal(t, 3, d.UniqueGuests)
	assert.InDelta(t, 1140.0, d.Revenue, 0.001, "cancelled bookings are not revenue")

	require.Contains(t, d.Tonight, booking.Single)
	assert.Equal(t, 2, d.Tonight[booking.Single].Booked)
	assert.Equal(t, 40, d.Tonight[booking.Single].Pct)
	assert.Equal(t, chart.TierMedium, d.Tonight[booking.Single].Tier)
	assert.Equal(t, 0, d.Tonight[booking.Deluxe].Booked)
	assert.Equal(t, 20, d.TonightPct)
}

func TestCompute_Empty(t *testing.T) {
	d := Compute(nil, booking.DefaultSettings(), day(1))
	assert.Zero(t, d.TotalBookings)
	assert.Zero(t, d.Revenue)
	assert.Len(t, d.Tonight, len(booking.RoomTypes))
	assert.Zero(t, d.TonightPct)
}

func TestGuests(t *testing.T) {
	first := stay(1, booking.Single, 1, 2, booking.StatusConfirmed, "ana@example.com", 180)
	first.GuestPhone = "0917555"
	second := stay(2, booking.Deluxe, 10, 12, booking.StatusConfirmed, "Ana@Example.com", 640)
	second.GuestName = "Ana Cruz"
	cancelled := stay(3, booking.Family, 5, 6, booking.StatusCancelled, "ana@example.com", 420)
	other := stay(4, booking.Single, 3, 4, booking.StatusPending, "ben@example.com", 180)

	guests := Guests([]*booking.Booking{first, second, cancelled, other})
	require.Len(t, guests, 2)

	ana := guests[0]
	assert.Equal(t, "Ana Cruz", ana.Name)
	assert.Equal(t, 3, ana.Stays)
	assert.InDelta(t, 820.0, ana.Spent, 0.001)
	assert.Equal(t, "0917555", ana.Phone)
	assert.True(t, ana.LastVisit.Equal(day(10)))

	assert.Equal(t, "ben@example.com", guests[1].Email)
	assert.Equal(t, NoPhone, guests[1].Phone)
}
