// Package reassign implements drag-and-drop room reassignment on the chart.
//
// A Controller tracks one interactive drag at a time:
//
//	Idle -> Dragging -> DroppedValid | DroppedInvalid -> Idle
//
// A valid drop keeps the stay's length, pins the booking to the target slot
// and writes the new dates and room to the store. Writes for the same
// booking are serialised.
package reassign

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/dateutil"
	"github.com/dhillsview/frontdesk/internal/debuglog"
)

// DefaultWriteTimeout bounds a reassignment write.
const DefaultWriteTimeout = 10 * time.Second

// Controller errors.
var (
	ErrInvalidDrop     = errors.New("booking can only be dropped on its own room type")
	ErrSlotOutOfRange  = errors.New("slot is outside the room type's inventory")
	ErrNotDragging     = errors.New("no booking is being dragged")
	ErrAlreadyDragging = errors.New("a booking is already being dragged")
	ErrWriteInFlight   = errors.New("booking has a pending write")
	ErrWriteTimeout    = errors.New("write timed out")
)

// State is the controller's drag state.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateDroppedValid
	StateDroppedInvalid
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateDragging:
		return "Dragging"
	case StateDroppedValid:
		return "DroppedValid"
	case StateDroppedInvalid:
		return "DroppedInvalid"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Target is a chart cell a booking is dropped on.
type Target struct {
	RoomType booking.RoomType
	Slot     int
	Date     time.Time
}

// Drag describes the booking being dragged.
type Drag struct {
	BookingID int64
	Reference string
	RoomType  booking.RoomType
	Slot      int
	CheckIn   time.Time
	CheckOut  time.Time
	Nights    int
}

// Result is a committed reassignment.
type Result struct {
	BookingID int64
	Slot      int
	Room      string
	CheckIn   time.Time
	CheckOut  time.Time
}

// WriteError reports a store write that failed after a valid drop.
type WriteError struct {
	BookingID int64
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("saving booking %d: %v", e.BookingID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Retriable reports whether the same write may succeed if tried again.
func (e *WriteError) Retriable() bool {
	return errors.Is(e.Err, ErrWriteTimeout) || errors.Is(e.Err, context.Canceled)
}

// Overrides is the session's manual slot map.
type Overrides interface {
	Get(id int64) (int, bool)
	Set(id int64, slot int)
	Delete(id int64)
}

// Config holds the controller's collaborators.
type Config struct {
	// WriteTimeout bounds each store write. Zero uses DefaultWriteTimeout.
	WriteTimeout time.Duration
	// Inventory returns the current room count of a type. Nil skips the range check.
	Inventory func(booking.RoomType) int
	// Invalidate runs after every successful write, while the booking is still
	// locked; before Drop returns unless the write outlived the timeout.
	Invalidate func()
}

// Controller runs drag-and-drop reassignments.
type Controller struct {
	store     booking.Writer
	overrides Overrides
	cfg       Config

	mu    sync.Mutex
	state State
	drag  *Drag

	locksMu sync.Mutex
	locks   map[int64]*semaphore.Weighted
	pending map[int64]int
}

// New creates a Controller.
func New(store booking.Writer, overrides Overrides, cfg Config) *Controller {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	return &Controller{
		store:     store,
		overrides: overrides,
		cfg:       cfg,
		locks:     make(map[int64]*semaphore.Weighted),
		pending:   make(map[int64]int),
	}
}

// State returns the current drag state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the booking being dragged, if any.
func (c *Controller) Current() (Drag, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag == nil {
		return Drag{}, false
	}
	return *c.drag, true
}

// Pending reports whether a write for the booking is in flight.
func (c *Controller) Pending(id int64) bool {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	return c.pending[id] > 0
}

// BeginDrag picks up a booking currently shown on slot.
func (c *Controller) BeginDrag(b *booking.Booking, slot int) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("cannot drag booking %d: %w", b.ID, err)
	}
	if c.Pending(b.ID) {
		return ErrWriteInFlight
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return ErrAlreadyDragging
	}
	c.state = StateDragging
	c.drag = &Drag{
		BookingID: b.ID,
		Reference: b.Reference,
		RoomType:  b.RoomType,
		Slot:      slot,
		CheckIn:   b.CheckIn,
		CheckOut:  b.CheckOut,
		Nights:    b.Nights(),
	}
	return nil
}

// Cancel abandons the current drag without side effects.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDragging {
		return ErrNotDragging
	}
	c.reset()
	return nil
}

// Drop releases the dragged booking on target. An invalid target returns an
// error wrapping ErrInvalidDrop and changes nothing. A failed write rolls the
// override back and returns a *WriteError; after a timeout the override
// follows whatever the store eventually answers. The controller is Idle
// afterwards in every case.
func (c *Controller) Drop(ctx context.Context, target Target) (Result, error) {
	c.mu.Lock()
	if c.state != StateDragging {
		c.mu.Unlock()
		return Result{}, ErrNotDragging
	}
	d := *c.drag
	if err := c.check(d.RoomType, target); err != nil {
		c.state = StateDroppedInvalid
		c.reset()
		c.mu.Unlock()
		return Result{}, err
	}
	c.state = StateDroppedValid
	c.mu.Unlock()

	res, err := c.commit(ctx, d.BookingID, d.RoomType, d.Nights, target)

	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
	return res, err
}

// Move reassigns b to target in one step, without touching the interactive
// drag state. Used by callers that have no pointer gesture.
func (c *Controller) Move(ctx context.Context, b *booking.Booking, target Target) (Result, error) {
	if err := b.Validate(); err != nil {
		return Result{}, fmt.Errorf("cannot move booking %d: %w", b.ID, err)
	}
	if err := c.check(b.RoomType, target); err != nil {
		return Result{}, err
	}
	return c.commit(ctx, b.ID, b.RoomType, b.Nights(), target)
}

func (c *Controller) check(rt booking.RoomType, target Target) error {
	if target.RoomType != rt {
		return fmt.Errorf("%w: %s booking on %s row", ErrInvalidDrop, rt, target.RoomType)
	}
	if target.Slot < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidDrop, ErrSlotOutOfRange)
	}
	if c.cfg.Inventory != nil && target.Slot > c.cfg.Inventory(rt) {
		return fmt.Errorf("%w: %w", ErrInvalidDrop, ErrSlotOutOfRange)
	}
	if target.Date.IsZero() {
		return fmt.Errorf("%w: no target date", ErrInvalidDrop)
	}
	return nil
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.drag = nil
}

// commit pins the booking to the target slot and writes the new stay. The
// override is changed and, if the write fails, restored while the booking's
// lock is held, so concurrent moves of one booking never undo each other.
func (c *Controller) commit(ctx context.Context, id int64, rt booking.RoomType, nights int, target Target) (Result, error) {
	checkIn := dateutil.Day(target.Date)
	res := Result{
		BookingID: id,
		Slot:      target.Slot,
		Room:      booking.RoomLabel(rt, target.Slot),
		CheckIn:   checkIn,
		CheckOut:  checkIn.AddDate(0, 0, max(nights, 1)),
	}

	err := c.write(ctx, id, target.Slot, booking.Assignment{CheckIn: res.CheckIn, CheckOut: res.CheckOut, Room: res.Room})
	debuglog.Drop(id, res.Room, res.CheckIn, res.CheckOut, err)
	if err != nil {
		return Result{}, &WriteError{BookingID: id, Err: err}
	}
	return res, nil
}

// write runs the store update under the booking's lock and the write timeout.
// The lock is held until the store call returns, even if the caller gave up;
// the override is settled from the store's answer before it is released.
func (c *Controller) write(ctx context.Context, id int64, slot int, a booking.Assignment) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.WriteTimeout)
	defer cancel()

	sem := c.lockFor(id)
	if err := sem.Acquire(ctx, 1); err != nil {
		return timeoutErr(err)
	}
	c.markPending(id, 1)

	prev, hadPrev := c.overrides.Get(id)
	c.overrides.Set(id, slot)

	done := make(chan error, 1)
	go func() {
		defer sem.Release(1)
		defer c.markPending(id, -1)

		err := c.store.AssignBooking(ctx, id, a)
		switch {
		case err != nil && hadPrev:
			c.overrides.Set(id, prev)
		case err != nil:
			c.overrides.Delete(id)
		case c.cfg.Invalidate != nil:
			c.cfg.Invalidate()
		}
		done <- err
	}()

	select {
	case err := <-done:
		return timeoutErr(err)
	case <-ctx.Done():
		return timeoutErr(ctx.Err())
	}
}

func timeoutErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrWriteTimeout, err)
	}
	return err
}

func (c *Controller) lockFor(id int64) *semaphore.Weighted {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	sem, ok := c.locks[id]
	if !ok {
		sem = semaphore.NewWeighted(1)
		c.locks[id] = sem
	}
	return sem
}

func (c *Controller) markPending(id int64, delta int) {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	c.pending[id] += delta
	if c.pending[id] <= 0 {
		delete(c.pending, id)
	}
}
