package chart

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/dateutil"
)

// ErrInvalidStrategy is returned for an unknown assignment strategy name.
var ErrInvalidStrategy = errors.New("assignment must be 'round_robin' or 'packed'")

// Strategy selects how bookings without an override are given a slot.
type Strategy string

const (
	// StrategyRoundRobin slots the i-th booking of a type (by ID) into i mod inventory.
	// Overlapping stays can end up on the same slot.
	StrategyRoundRobin Strategy = "round_robin"
	// StrategyPacked gives each booking, in check-in order, the lowest free slot.
	StrategyPacked Strategy = "packed"
)

// ParseStrategy validates a strategy name. Empty selects round robin.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyRoundRobin:
		return StrategyRoundRobin, nil
	case StrategyPacked:
		return StrategyPacked, nil
	default:
		return "", ErrInvalidStrategy
	}
}

// Overrides maps booking IDs to manually chosen 1-based slots.
// An Overrides value belongs to one chart session and is never persisted.
type Overrides map[int64]int

// Get returns the override for id, if any.
func (o Overrides) Get(id int64) (int, bool) {
	slot, ok := o[id]
	return slot, ok
}

// Set pins a booking to a slot.
func (o Overrides) Set(id int64, slot int) {
	o[id] = slot
}

// Delete removes a booking's override.
func (o Overrides) Delete(id int64) {
	delete(o, id)
}

// Clone returns a copy that can be handed to a renderer.
func (o Overrides) Clone() Overrides {
	c := make(Overrides, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// StableOrder returns the countable bookings of rt sorted by ID ascending.
func StableOrder(bookings []*booking.Booking, rt booking.RoomType) []*booking.Booking {
	var out []*booking.Booking
	for _, b := range bookings {
		if b.RoomType == rt && Countable(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ResolveSlot returns the slot of b: its override if one exists, otherwise
// (index of b in ordered) mod inventory + 1. Returns 0 when b has no slot,
// either because inventory is zero or b is not in ordered.
func ResolveSlot(b *booking.Booking, ordered []*booking.Booking, inventory int, overrides Overrides) int {
	if slot, ok := overrides.Get(b.ID); ok {
		return slot
	}
	if inventory <= 0 {
		return 0
	}
	idx := slices.IndexFunc(ordered, func(o *booking.Booking) bool { return o.ID == b.ID })
	if idx < 0 {
		return 0
	}
	return idx%inventory + 1
}

// Assignment is the slot of every placed booking.
type Assignment struct {
	Slots map[int64]int
	// Conflicts lists bookings whose stay overlaps another booking on the same slot.
	Conflicts map[int64]bool
}

// Slot returns the slot of a booking, or 0 if it was not placed.
func (a Assignment) Slot(id int64) int {
	return a.Slots[id]
}

// AssignSlots resolves the slot of every countable booking of every room type.
func AssignSlots(bookings []*booking.Booking, inventory map[booking.RoomType]int, overrides Overrides, strategy Strategy) Assignment {
	a := Assignment{Slots: map[int64]int{}, Conflicts: map[int64]bool{}}
	for _, rt := range booking.RoomTypes {
		ordered := StableOrder(bookings, rt)
		inv := max(inventory[rt], 0)
		switch strategy {
		case StrategyPacked:
			assignPacked(a, ordered, inv, overrides)
		default:
			for _, b := range ordered {
				if slot := ResolveSlot(b, ordered, inv, overrides); slot > 0 {
					a.Slots[b.ID] = slot
				}
			}
		}
		markConflicts(a, ordered)
	}
	return a
}

type reservedStay struct{ in, out time.Time }

// assignPacked places overrides first, then gives every other booking in
// (check-in, ID) order the lowest slot with no overlapping stay. A booking
// that fits nowhere falls back to its round robin slot.
func assignPacked(a Assignment, ordered []*booking.Booking, inventory int, overrides Overrides) {
	taken := make(map[int][]reservedStay)

	var rest []*booking.Booking
	for _, b := range ordered {
		if slot, ok := overrides.Get(b.ID); ok {
			a.Slots[b.ID] = slot
			taken[slot] = append(taken[slot], reservedStay{b.CheckIn, b.CheckOut})
			continue
		}
		rest = append(rest, b)
	}
	if inventory <= 0 {
		return
	}

	sort.SliceStable(rest, func(i, j int) bool {
		if !rest[i].CheckIn.Equal(rest[j].CheckIn) {
			return rest[i].CheckIn.Before(rest[j].CheckIn)
		}
		return rest[i].ID < rest[j].ID
	})

	for _, b := range rest {
		slot := 0
		for s := 1; s <= inventory; s++ {
			if !overlapsAny(taken[s], b.CheckIn, b.CheckOut) {
				slot = s
				break
			}
		}
		if slot == 0 {
			slot = ResolveSlot(b, ordered, inventory, nil)
		}
		a.Slots[b.ID] = slot
		taken[slot] = append(taken[slot], reservedStay{b.CheckIn, b.CheckOut})
	}
}

func overlapsAny(stays []reservedStay, in, out time.Time) bool {
	for _, s := range stays {
		if dateutil.Overlaps(s.in, s.out, in, out) {
			return true
		}
	}
	return false
}

func markConflicts(a Assignment, ordered []*booking.Booking) {
	for i, x := range ordered {
		sx := a.Slots[x.ID]
		if sx == 0 {
			continue
		}
		for _, y := range ordered[i+1:] {
			if a.Slots[y.ID] == sx && dateutil.Overlaps(x.CheckIn, x.CheckOut, y.CheckIn, y.CheckOut) {
				a.Conflicts[x.ID] = true
				a.Conflicts[y.ID] = true
			}
		}
	}
}
