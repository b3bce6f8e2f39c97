package booking

import (
	"fmt"
	"math"
	"time"

	"github.com/dhillsview/frontdesk/internal/dateutil"
)

// Quote is the price breakdown of a prospective stay.
type Quote struct {
	RoomType     RoomType `json:"room_type"`
	Nights       int      `json:"nights"`
	NightlyPrice float64  `json:"nightly_price"`
	RoomTotal    float64  `json:"room_total"`
	RatePlan     string   `json:"rate_plan,omitempty"`
	Discount     float64  `json:"discount"`
	Addon        float64  `json:"addon"`
	Total        float64  `json:"total"`
}

// NewQuote prices a stay: nights (at least one) times the nightly price,
// less the rate plan discount, plus the add-on cost.
func NewQuote(s *Settings, rt RoomType, checkIn, checkOut time.Time, addon float64, ratePlan string) (Quote, error) {
	if !rt.Valid() {
		return Quote{}, ErrInvalidRoomType
	}
	if addon < 0 {
		return Quote{}, fmt.Errorf("addon: %w", ErrNegativeValue)
	}

	nights := dateutil.DaysBetween(checkIn, checkOut)
	if nights < 1 {
		nights = 1
	}

	q := Quote{
		RoomType:     rt,
		Nights:       nights,
		NightlyPrice: s.PriceOf(rt),
		Addon:        addon,
	}
	q.RoomTotal = q.NightlyPrice * float64(nights)

	if ratePlan != "" {
		plan, err := s.RatePlan(ratePlan, rt)
		if err != nil {
			return Quote{}, err
		}
		if plan.MinNights > 0 && nights < plan.MinNights {
			return Quote{}, fmt.Errorf("rate plan %s requires at least %d nights: %w", plan.Code, plan.MinNights, ErrRatePlanNotFound)
		}
		q.RatePlan = plan.Code
		q.Discount = roundCents(q.RoomTotal * plan.DiscountPct / 100)
	}

	q.Total = roundCents(q.RoomTotal - q.Discount + q.Addon)
	return q, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
