// Package booking defines the core domain types for frontdesk.
package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dhillsview/frontdesk/internal/dateutil"
)

// Validation errors.
var (
	ErrInvalidBooking   = errors.New("invalid booking")
	ErrInvalidRoomType  = errors.New("room type must be 'single', 'deluxe' or 'family'")
	ErrInvalidStatus    = errors.New("status must be 'pending', 'confirmed', 'checked-in' or 'cancelled'")
	ErrMissingDates     = errors.New("check-in and check-out dates are required")
	ErrCheckOutNotAfter = errors.New("check-out must be after check-in")
	ErrNegativeValue    = errors.New("value cannot be negative")
)

// Domain errors.
var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ReferencePrefix starts every booking reference.
const ReferencePrefix = "DHV-"

// Status represents the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked-in"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every booking status.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusCheckedIn, StatusCancelled}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCancelled:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Predecessors lists the statuses a booking may move to s from.
func (s Status) Predecessors() []Status {
	var out []Status
	for _, from := range Statuses {
		if from.CanTransition(s) {
			out = append(out, from)
		}
	}
	return out
}

// CanTransition reports whether a booking in status s may move to next.
func (s Status) CanTransition(next Status) bool {
	switch next {
	case StatusConfirmed:
		return s == StatusPending
	case StatusCheckedIn:
		return s == StatusConfirmed
	case StatusCancelled:
		return s != StatusCancelled
	default:
		return false
	}
}

// Booking is a guest reservation for one room type over a run of nights.
type Booking struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"ref"`
	RoomType   RoomType  `json:"room_type"`
	Room       string    `json:"room,omitempty"` // physical room label, e.g. "deluxe-203"; empty until assigned
	CheckIn    time.Time `json:"checkin"`
	CheckOut   time.Time `json:"checkout"`
	Status     Status    `json:"status"`
	GuestName  string    `json:"guest"`
	GuestEmail string    `json:"email"`
	GuestPhone string    `json:"phone,omitempty"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// Request is the input of the public booking form.
type Request struct {
	FirstName string  `json:"first_name" validate:"required,min=2"`
	LastName  string  `json:"last_name" validate:"required,min=2"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone" validate:"required,min=6"`
	Room      string  `json:"room" validate:"required"`
	CheckIn   string  `json:"checkin" validate:"required"`
	CheckOut  string  `json:"checkout" validate:"required"`
	Addon     float64 `json:"addon" validate:"gte=0"`
	RatePlan  string  `json:"rate_plan"`
	Status    string  `json:"status"`
}

// ValidationError lists the form fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range []string{"FirstName", "LastName", "Email", "Phone", "Room", "CheckIn", "CheckOut", "Addon"} {
		if tag, ok := e.Fields[f]; ok {
			parts = append(parts, f+" ("+tag+")")
		}
	}
	return "invalid booking: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidBooking }

var validate = validator.New()

// New creates a pending Booking from a form request.
// The amount is priced from settings: nights times the nightly price, less any
// rate plan discount, plus the add-on.
func New(req Request, settings *Settings) (*Booking, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make(map[string]string, len(ve))
			for _, fe := range ve {
				fields[fe.Field()] = fe.Tag()
			}
			return nil, &ValidationError{Fields: fields}
		}
		return nil, fmt.Errorf("validating booking: %w", err)
	}

	rt, err := ParseRoomType(req.Room)
	if err != nil {
		return nil, err
	}

	checkIn, err := dateutil.ParseDate(req.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("check-in: %w", err)
	}
	checkOut, err := dateutil.ParseDate(req.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("check-out: %w", err)
	}
	if !checkOut.After(checkIn) {
		return nil, ErrCheckOutNotAfter
	}

	status := StatusPending
	if req.Status != "" {
		if status, err = ParseStatus(req.Status); err != nil {
			return nil, err
		}
	}

	if settings == nil {
		settings = DefaultSettings()
	}
	q, err := NewQuote(settings, rt, checkIn, checkOut, req.Addon, req.RatePlan)
	if err != nil {
		return nil, err
	}

	return &Booking{
		Reference:  NewReference(),
		RoomType:   rt,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     status,
		GuestName:  strings.TrimSpace(req.FirstName + " " + req.LastName),
		GuestEmail: req.Email,
		GuestPhone: req.Phone,
		Amount:     q.Total,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// NewReference returns a fresh booking reference such as "DHV-3FA91C".
func NewReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return ReferencePrefix + strings.ToUpper(id[:6])
}

// Validate reports why a booking cannot be placed on the chart, or nil.
func (b *Booking) Validate() error {
	if !b.RoomType.Valid() {
		return ErrInvalidRoomType
	}
	if b.CheckIn.IsZero() || b.CheckOut.IsZero() {
		return ErrMissingDates
	}
	if !b.CheckOut.After(b.CheckIn) {
		return ErrCheckOutNotAfter
	}
	return nil
}

// Nights returns the number of nights in the stay.
func (b *Booking) Nights() int {
	return dateutil.DaysBetween(b.CheckIn, b.CheckOut)
}

// OccupiesNight reports whether the booking holds a room on the night of d.
// Check-in night counts; check-out night does not.
func (b *Booking) OccupiesNight(d time.Time) bool {
	return dateutil.InRange(d, b.CheckIn, b.CheckOut)
}

// IsActive returns true unless the booking is cancelled.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has cancelled status.
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsPending returns true if the booking awaits staff confirmation.
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// Summary is a one-line description of the stay, shown when a booking is found.
func (b *Booking) Summary() string {
	nights := b.Nights()
	plural := "s"
	if nights == 1 {
		plural = ""
	}
	return fmt.Sprintf("#%s %s · %s · %d night%s (%s → %s)",
		b.Reference, b.GuestName, b.RoomType.DisplayName(), nights, plural,
		dateutil.FormatDate(b.CheckIn), dateutil.FormatDate(b.CheckOut))
}
