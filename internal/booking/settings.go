package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRatePlanNotFound is returned when a quote names an unknown or inactive plan.
	ErrRatePlanNotFound = errors.New("rate plan not found")
	// ErrInventoryTooLarge is returned for more rooms than room numbers can address.
	ErrInventoryTooLarge = fmt.Errorf("inventory cannot exceed %d rooms", MaxInventory)
)

// RoomStatus is the housekeeping state of a physical room.
type RoomStatus string

const (
	RoomClean       RoomStatus = "clean"
	RoomDirty       RoomStatus = "dirty"
	RoomMaintenance RoomStatus = "maintenance"
)

// Next returns the following status in the housekeeping cycle
// clean -> dirty -> maintenance -> clean. Unknown values restart the cycle.
func (s RoomStatus) Next() RoomStatus {
	switch s {
	case RoomClean, "":
		return RoomDirty
	case RoomDirty:
		return RoomMaintenance
	default:
		return RoomClean
	}
}

// RatePlan is a named discount applied when quoting a stay.
type RatePlan struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	RoomType    RoomType `json:"room_type,omitempty"` // empty applies to every type
	DiscountPct float64  `json:"discount_pct"`
	MinNights   int      `json:"min_nights,omitempty"`
	Active      bool     `json:"active"`
}

// Validate checks the plan's fields.
func (p RatePlan) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return fmt.Errorf("%w: rate plan code is required", ErrInvalidBooking)
	}
	if p.DiscountPct < 0 || p.DiscountPct > 100 {
		return fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidBooking)
	}
	if p.MinNights < 0 {
		return fmt.Errorf("min nights: %w", ErrNegativeValue)
	}
	if p.RoomType != "" && !p.RoomType.Valid() {
		return ErrInvalidRoomType
	}
	return nil
}

// Settings is the hotel-wide configuration record.
type Settings struct {
	Prices       map[RoomType]float64 `json:"prices"`
	Inventory    map[RoomType]int     `json:"inventory"`
	RatePlans    []RatePlan           `json:"rate_plans"`
	RoomStatuses map[int]RoomStatus   `json:"room_statuses"`
}

// Default settings used when none are stored or they cannot be fetched.
var (
	DefaultPrices = map[RoomType]float64{
		Single: 180,
		Deluxe: 320,
		Family: 420,
	}
	DefaultInventory = map[RoomType]int{
		Single: 5,
		Deluxe: 3,
		Family: 2,
	}
)

// DefaultSettings returns a fresh copy of the default settings.
func DefaultSettings() *Settings {
	s := &Settings{
		Prices:       make(map[RoomType]float64, len(DefaultPrices)),
		Inventory:    make(map[RoomType]int, len(DefaultInventory)),
		RoomStatuses: map[int]RoomStatus{},
	}
	for rt, p := range DefaultPrices {
		s.Prices[rt] = p
	}
	for rt, n := range DefaultInventory {
		s.Inventory[rt] = n
	}
	return s
}

// Normalize makes every map non-nil.
func (s *Settings) Normalize() {
	if s.Prices == nil {
		s.Prices = map[RoomType]float64{}
	}
	if s.Inventory == nil {
		s.Inventory = map[RoomType]int{}
	}
	if s.RoomStatuses == nil {
		s.RoomStatuses = map[int]RoomStatus{}
	}
}

// InventoryOf returns the room count for rt, never negative.
func (s *Settings) InventoryOf(rt RoomType) int {
	return min(max(s.Inventory[rt], 0), MaxInventory)
}

// PriceOf returns the nightly price for rt.
func (s *Settings) PriceOf(rt RoomType) float64 {
	return s.Prices[rt]
}

// StatusOf returns the housekeeping status of a room number. Missing means clean.
func (s *Settings) StatusOf(roomNumber int) RoomStatus {
	if st, ok := s.RoomStatuses[roomNumber]; ok && st != "" {
		return st
	}
	return RoomClean
}

// RatePlan returns the active plan with the given code valid for rt.
func (s *Settings) RatePlan(code string, rt RoomType) (RatePlan, error) {
	for _, p := range s.RatePlans {
		if !strings.EqualFold(p.Code, code) || !p.Active {
			continue
		}
		if p.RoomType != "" && p.RoomType != rt {
			continue
		}
		return p, nil
	}
	return RatePlan{}, fmt.Errorf("%w: %s", ErrRatePlanNotFound, code)
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	c := &Settings{
		Prices:       make(map[RoomType]float64, len(s.Prices)),
		Inventory:    make(map[RoomType]int, len(s.Inventory)),
		RatePlans:    append([]RatePlan(nil), s.RatePlans...),
		RoomStatuses: make(map[int]RoomStatus, len(s.RoomStatuses)),
	}
	for k, v := range s.Prices {
		c.Prices[k] = v
	}
	for k, v := range s.Inventory {
		c.Inventory[k] = v
	}
	for k, v := range s.RoomStatuses {
		c.RoomStatuses[k] = v
	}
	return c
}

// ValidateInventory checks an inventory count entered by staff.
func ValidateInventory(rt RoomType, n int) error {
	if !rt.Valid() {
		return ErrInvalidRoomType
	}
	if n < 0 {
		return fmt.Errorf("inventory: %w", ErrNegativeValue)
	}
	if n > MaxInventory {
		return fmt.Errorf("%w: %d", ErrInventoryTooLarge, n)
	}
	return nil
}

// ValidatePrices checks a price table entered by staff.
func ValidatePrices(prices map[RoomType]float64) error {
	for rt, p := range prices {
		if !rt.Valid() {
			return ErrInvalidRoomType
		}
		if p < 0 {
			return fmt.Errorf("price for %s: %w", rt, ErrNegativeValue)
		}
	}
	return nil
}
