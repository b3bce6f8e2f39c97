package api

import (
	"github.com/dhillsview/frontdesk/internal/board"
	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
	"github.com/dhillsview/frontdesk/internal/dateutil"
)

type chartResponse struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	DayWidth   int               `json:"day_width"`
	Days       []dayResponse     `json:"days"`
	Sections   []sectionResponse `json:"sections"`
	Skipped    []skippedResponse `json:"skipped,omitempty"`
	Notice     string            `json:"notice,omitempty"`
	Generation uint64            `json:"generation"`
}

type dayResponse struct {
	Date    string `json:"date"`
	Today   bool   `json:"today,omitempty"`
	Weekend bool   `json:"weekend,omitempty"`
}

type sectionResponse struct {
	RoomType  booking.RoomType      `json:"room_type"`
	Name      string                `json:"name"`
	Price     float64               `json:"price"`
	Inventory int                   `json:"inventory"`
	Rows      []rowResponse         `json:"rows"`
	Occupancy []chart.OccupancyCell `json:"occupancy"`
	Unplaced  []string              `json:"unplaced,omitempty"`
}

type rowResponse struct {
	Slot       int                `json:"slot"`
	RoomNumber int                `json:"room_number"`
	Label      string             `json:"label"`
	Status     booking.RoomStatus `json:"status"`
	Bars       []barResponse      `json:"bars"`
}

type barResponse struct {
	BookingID    int64          `json:"booking_id"`
	Ref          string         `json:"ref"`
	Guest        string         `json:"guest"`
	Status       booking.Status `json:"status"`
	CheckIn      string         `json:"checkin"`
	CheckOut     string         `json:"checkout"`
	Col          int            `json:"col"`
	Span         int            `json:"span"`
	Width        int            `json:"width"`
	ClippedStart bool           `json:"clipped_start,omitempty"`
	ClippedEnd   bool           `json:"clipped_end,omitempty"`
	Conflict     bool           `json:"conflict,omitempty"`
}

type skippedResponse struct {
	ID     int64  `json:"id"`
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

func newChartResponse(v *board.View) chartResponse {
	g := v.Grid
	resp := chartResponse{
		From:       dateutil.FormatDate(g.Window.Start),
		To:         dateutil.FormatDate(g.Window.End),
		DayWidth:   g.DayWidth,
		Days:       make([]dayResponse, len(g.Days)),
		Sections:   make([]sectionResponse, 0, len(g.Sections)),
		Notice:     notice(v.Snapshot.Notice),
		Generation: v.Generation,
	}
	for i, d := range g.Days {
		resp.Days[i] = dayResponse{Date: dateutil.FormatDate(d.Date), Today: d.Today, Weekend: d.Weekend}
	}
	for _, s := range g.Sections {
		sec := sectionResponse{
			RoomType:  s.RoomType,
			Name:      s.Name,
			Price:     s.Price,
			Inventory: s.Inventory,
			Rows:      make([]rowResponse, 0, len(s.Rows)),
			Occupancy: s.Occupancy,
		}
		for _, r := range s.Rows {
			row := rowResponse{
				Slot:       r.Slot,
				RoomNumber: r.RoomNumber,
				Label:      r.Label,
				Status:     r.Status,
				Bars:       make([]barResponse, 0, len(r.Bars)),
			}
			for _, b := range r.Bars {
				row.Bars = append(row.Bars, barResponse{
					BookingID:    b.Booking.ID,
					Ref:          b.Booking.Reference,
					Guest:        b.Booking.GuestName,
					Status:       b.Booking.Status,
					CheckIn:      dateutil.FormatDate(b.Booking.CheckIn),
					CheckOut:     dateutil.FormatDate(b.Booking.CheckOut),
					Col:          b.Col,
					Span:         b.Span,
					Width:        b.Width,
					ClippedStart: b.ClippedStart,
					ClippedEnd:   b.ClippedEnd,
					Conflict:     b.Conflict,
				})
			}
			sec.Rows = append(sec.Rows, row)
		}
		for _, b := range s.Unplaced {
			sec.Unplaced = append(sec.Unplaced, b.Reference)
		}
		resp.Sections = append(resp.Sections, sec)
	}
	for _, sk := range g.Skipped {
		resp.Skipped = append(resp.Skipped, skippedResponse{ID: sk.ID, Ref: sk.Reference, Reason: sk.Err.Error()})
	}
	return resp
}
