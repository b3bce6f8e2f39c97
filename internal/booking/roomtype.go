package booking

import (
	"fmt"
	"strings"
)

// RoomType is the closed set of room categories the hotel sells.
type RoomType string

const (
	Single RoomType = "single"
	Deluxe RoomType = "deluxe"
	Family RoomType = "family"
)

// RoomTypes lists every room type in display order.
var RoomTypes = []RoomType{Single, Deluxe, Family}

// Valid returns true if rt is one of the known room types.
func (rt RoomType) Valid() bool {
	switch rt {
	case Single, Deluxe, Family:
		return true
	default:
		return false
	}
}

// Prefix returns the floor digit used to build room numbers.
func (rt RoomType) Prefix() int {
	switch rt {
	case Single:
		return 1
	case Deluxe:
		return 2
	case Family:
		return 3
	default:
		return 0
	}
}

// DisplayName returns the customer-facing name, e.g. "Deluxe Room".
func (rt RoomType) DisplayName() string {
	if !rt.Valid() {
		return "Unknown Room"
	}
	return strings.ToUpper(string(rt[:1])) + string(rt[1:]) + " Room"
}

// ParseRoomType resolves free-form room text to a RoomType.
// It accepts type keys ("deluxe"), display names ("Deluxe Room") and
// room labels ("deluxe-203").
func ParseRoomType(s string) (RoomType, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return "", ErrInvalidRoomType
	}
	for _, rt := range RoomTypes {
		if strings.Contains(lower, string(rt)) {
			return rt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRoomType, s)
}

// RoomNumber returns the physical room number for a slot, e.g. deluxe slot 3 is 203.
func RoomNumber(rt RoomType, slot int) int {
	return rt.Prefix()*100 + slot
}

// RoomLabel returns the label persisted on a booking's room field, e.g. "deluxe-203".
func RoomLabel(rt RoomType, slot int) string {
	return fmt.Sprintf("%s-%d", rt, RoomNumber(rt, slot))
}

// MaxInventory is the most rooms a type can have: slots are the last two
// digits of the room number.
const MaxInventory = 99

// ParseRoomNumber splits a room number into its room type and slot.
func ParseRoomNumber(n int) (RoomType, int, bool) {
	prefix, slot := n/100, n%100
	if slot < 1 {
		return "", 0, false
	}
	for _, rt := range RoomTypes {
		if rt.Prefix() == prefix {
			return rt, slot, true
		}
	}
	return "", 0, false
}
