package booking

import (
	"context"
	"time"
)

// ListOptions narrows a booking listing.
type ListOptions struct {
	// ActiveOnly excludes cancelled bookings.
	ActiveOnly bool
	// Status restricts the listing to a single status when set.
	Status Status
}

// Assignment is the result of moving a booking on the chart.
type Assignment struct {
	CheckIn  time.Time
	CheckOut time.Time
	Room     string
}

// Reader is the read side of the booking store.
type Reader interface {
	// ListBookings returns bookings ordered by ID.
	ListBookings(ctx context.Context, opts ListOptions) ([]*Booking, error)

	// GetSettings returns the settings record, or DefaultSettings if none is stored.
	GetSettings(ctx context.Context) (*Settings, error)
}

// Writer is the write side used by the chart.
type Writer interface {
	// AssignBooking moves a booking to new dates and a physical room.
	AssignBooking(ctx context.Context, id int64, a Assignment) error

	// UpdateInventory sets the room count of one room type.
	UpdateInventory(ctx context.Context, rt RoomType, n int) error

	// UpdatePrices replaces the nightly prices of the given room types.
	UpdatePrices(ctx context.Context, prices map[RoomType]float64) error

	// UpdateRatePlans replaces the full list of rate plans.
	UpdateRatePlans(ctx context.Context, plans []RatePlan) error

	// UpdateRoomStatuses replaces the housekeeping status map.
	UpdateRoomStatuses(ctx context.Context, statuses map[int]RoomStatus) error
}

// Repository defines the storage interface for bookings and settings.
type Repository interface {
	Reader
	Writer

	// CreateBooking adds a new booking and sets its ID.
	CreateBooking(ctx context.Context, b *Booking) error

	// GetBooking retrieves a booking by ID.
	GetBooking(ctx context.Context, id int64) (*Booking, error)

	// GetBookingByReference retrieves a booking by its reference code.
	GetBookingByReference(ctx context.Context, ref string) (*Booking, error)

	// SetStatus changes a booking's status.
	SetStatus(ctx context.Context, ref string, status Status) error

	// DeleteBooking permanently removes a booking.
	DeleteBooking(ctx context.Context, ref string) error

	// Close releases any resources held by the repository.
	Close() error
}
