// Package scheduler provides date-aware defaults and checks for new stays.
package scheduler

import (
	"time"

	"github.com/dhillsview/frontdesk/internal/dateutil"
)

// Scheduler suggests and validates stay dates.
type Scheduler struct {
	cutoff        string // "HH:MM", last same-day check-in
	defaultNights int
}

// Stay is a pair of check-in and check-out dates.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Nights returns the number of nights in the stay.
func (s Stay) Nights() int {
	return dateutil.DaysBetween(s.CheckIn, s.CheckOut)
}

// New creates a Scheduler. cutoff is the latest "HH:MM" at which a guest may
// still check in the same day; defaultNights is the length of suggested stays.
func New(cutoff string, defaultNights int) *Scheduler {
	if defaultNights < 1 {
		defaultNights = 1
	}
	return &Scheduler{cutoff: cutoff, defaultNights: defaultNights}
}

// DefaultStay suggests a stay starting tomorrow.
func (s *Scheduler) DefaultStay(now time.Time) Stay {
	in := dateutil.Day(now).AddDate(0, 0, 1)
	return Stay{CheckIn: in, CheckOut: in.AddDate(0, 0, s.defaultNights)}
}

// EarliestCheckIn returns today if now is before the cutoff, otherwise tomorrow.
func (s *Scheduler) EarliestCheckIn(now time.Time) time.Time {
	today := dateutil.Day(now)
	if s.cutoff == "" || now.Format("15:04") < s.cutoff {
		return today
	}
	return today.AddDate(0, 0, 1)
}

// MinCheckOut returns the earliest valid check-out for a check-in.
func MinCheckOut(checkIn time.Time) time.Time {
	return dateutil.Day(checkIn).AddDate(0, 0, 1)
}

// ClampCheckOut moves a check-out that is not after check-in to the next day.
func ClampCheckOut(checkIn, checkOut time.Time) time.Time {
	if !checkOut.After(checkIn) {
		return MinCheckOut(checkIn)
	}
	return checkOut
}

// Complete fills missing dates from the defaults and clamps the check-out.
func (s *Scheduler) Complete(now, checkIn, checkOut time.Time) Stay {
	def := s.DefaultStay(now)
	if checkIn.IsZero() {
		checkIn = def.CheckIn
	}
	if checkOut.IsZero() {
		checkOut = checkIn.AddDate(0, 0, s.defaultNights)
	}
	return Stay{CheckIn: checkIn, CheckOut: ClampCheckOut(checkIn, checkOut)}
}

// ValidateStay checks a stay requested at now.
// Returns an error message if invalid, empty string if valid.
func (s *Scheduler) ValidateStay(now time.Time, stay Stay) string {
	if stay.CheckIn.IsZero() || stay.CheckOut.IsZero() {
		return "check-in and check-out are required"
	}
	if !stay.CheckOut.After(stay.CheckIn) {
		return "check-out must be after check-in"
	}
	if stay.CheckIn.Before(s.EarliestCheckIn(now)) {
		return "check-in is too early"
	}
	return ""
}

// Cutoff returns the configured same-day check-in cutoff.
func (s *Scheduler) Cutoff() string {
	return s.cutoff
}

// DefaultNights returns the length of suggested stays.
func (s *Scheduler) DefaultNights() int {
	return s.defaultNights
}
