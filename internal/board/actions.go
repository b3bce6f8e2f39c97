package board

import (
	"context"
	"fmt"
	"time"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
)

// Bookings lists bookings matching a free-text query and status, newest first.
func (s *Session) Bookings(ctx context.Context, query string, status booking.Status) ([]*booking.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	all, err := s.cache.ListBookings(ctx, booking.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	matched := booking.Filter(all, query, status)

	out := make([]*booking.Booking, len(matched))
	for i, b := range matched {
		out[len(matched)-1-i] = b
	}
	return out, nil
}

// Booking looks up a booking by reference.
func (s *Session) Booking(ctx context.Context, ref string) (*booking.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()
	return s.store.GetBookingByReference(ctx, ref)
}

// Settings returns the current settings.
func (s *Session) Settings(ctx context.Context) (*booking.Settings, *FetchError) {
	snap := s.Load(ctx)
	return snap.Settings, snap.Notice
}

// CreateBooking validates a booking request, checks that every night has a
// free room of the requested type and stores it.
func (s *Session) CreateBooking(ctx context.Context, req booking.Request) (*booking.Booking, error) {
	snap := s.Load(ctx)
	if snap.Notice != nil {
		return nil, snap.Notice
	}

	b, err := booking.New(req, snap.Settings)
	if err != nil {
		return nil, err
	}
	if !chart.CanAccommodate(snap.Bookings, b.RoomType, snap.Settings.InventoryOf(b.RoomType), b.CheckIn, b.CheckOut) {
		return nil, ErrNoAvailability
	}

	err = s.write(ctx, func(ctx context.Context) error {
		return s.store.CreateBooking(ctx, b)
	})
	if err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}
	return b, nil
}

// Quote prices a prospective stay with the current settings.
func (s *Session) Quote(ctx context.Context, rt booking.RoomType, checkIn, checkOut time.Time, addon float64, ratePlan string) (booking.Quote, error) {
	snap := s.Load(ctx)
	return booking.NewQuote(snap.Settings, rt, checkIn, checkOut, addon, ratePlan)
}

// Available reports whether a stay fits the room type's inventory.
func (s *Session) Available(ctx context.Context, rt booking.RoomType, checkIn, checkOut time.Time) (bool, error) {
	snap := s.Load(ctx)
	if snap.Notice != nil {
		return false, snap.Notice
	}
	return chart.CanAccommodate(snap.Bookings, rt, snap.Settings.InventoryOf(rt), checkIn, checkOut), nil
}

// Confirm moves a pending booking to confirmed.
func (s *Session) Confirm(ctx context.Context, ref string) error {
	return s.setStatus(ctx, ref, booking.StatusConfirmed)
}

// Cancel cancels a booking. Cancelled bookings stay in the store but leave the chart.
func (s *Session) Cancel(ctx context.Context, ref string) error {
	return s.setStatus(ctx, ref, booking.StatusCancelled)
}

// CheckIn marks a confirmed booking as checked in.
func (s *Session) CheckIn(ctx context.Context, ref string) error {
	return s.setStatus(ctx, ref, booking.StatusCheckedIn)
}

func (s *Session) setStatus(ctx context.Context, ref string, status booking.Status) error {
	return s.write(ctx, func(ctx context.Context) error {
		return s.store.SetStatus(ctx, ref, status)
	})
}

// Delete permanently removes a booking.
func (s *Session) Delete(ctx context.Context, ref string) error {
	return s.write(ctx, func(ctx context.Context) error {
		return s.store.DeleteBooking(ctx, ref)
	})
}

// UpdateInventory sets the room count of a room type.
func (s *Session) UpdateInventory(ctx context.Context, rt booking.RoomType, n int) error {
	if err := booking.ValidateInventory(rt, n); err != nil {
		return err
	}
	return s.write(ctx, func(ctx context.Context) error {
		return s.store.UpdateInventory(ctx, rt, n)
	})
}

// UpdatePrices sets nightly prices.
func (s *Session) UpdatePrices(ctx context.Context, prices map[booking.RoomType]float64) error {
	if err := booking.ValidatePrices(prices); err != nil {
		return err
	}
	return s.write(ctx, func(ctx context.Context) error {
		return s.store.UpdatePrices(ctx, prices)
	})
}

// UpdateRatePlans replaces the rate plans.
func (s *Session) UpdateRatePlans(ctx context.Context, plans []booking.RatePlan) error {
	for _, p := range plans {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return s.write(ctx, func(ctx context.Context) error {
		return s.store.UpdateRatePlans(ctx, plans)
	})
}
