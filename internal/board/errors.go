package board

import (
	"errors"
	"fmt"
)

// ErrNoAvailability is returned when a stay cannot fit the room type's inventory.
var ErrNoAvailability = errors.New("no rooms available for the selected dates")

// ErrUnknownRoom is returned for a room number outside the current inventory.
var ErrUnknownRoom = errors.New("unknown room number")

// FetchError reports that bookings or settings could not be read. The board
// falls back to an empty booking list and the default settings.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("loading chart data: %v (showing defaults)", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RenderError reports a failure while laying out the chart.
type RenderError struct {
	Panic any
	Err   error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rendering chart: %v", e.Err)
	}
	return fmt.Sprintf("rendering chart: %v", e.Panic)
}

func (e *RenderError) Unwrap() error { return e.Err }
