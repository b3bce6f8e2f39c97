// Package api serves the chart and the staff actions over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dhillsview/frontdesk/internal/board"
	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/dateutil"
	"github.com/dhillsview/frontdesk/internal/reassign"
	"github.com/dhillsview/frontdesk/internal/scheduler"
	"github.com/dhillsview/frontdesk/internal/summary"
)

// Handler exposes a board session over HTTP.
type Handler struct {
	session *board.Session
	sched   *scheduler.Scheduler
}

// NewHandler creates a Handler.
func NewHandler(session *board.Session, sched *scheduler.Scheduler) *Handler {
	return &Handler{session: session, sched: sched}
}

// NewRouter builds a gin engine with every route mounted under /api/v1.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

// RegisterRoutes registers the chart and booking routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/chart", h.GetChart)
	rg.GET("/occupancy", h.GetOccupancy)

	rg.GET("/bookings", h.ListBookings)
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:ref", h.GetBooking)
	rg.DELETE("/bookings/:ref", h.DeleteBooking)
	rg.POST("/bookings/:ref/confirm", h.ConfirmBooking)
	rg.POST("/bookings/:ref/cancel", h.CancelBooking)
	rg.POST("/bookings/:ref/checkin", h.CheckInBooking)
	rg.POST("/bookings/:ref/assign", h.AssignBooking)

	rg.POST("/rooms/:number/cycle", h.CycleRoom)

	rg.GET("/settings", h.GetSettings)
	rg.PUT("/settings/prices", h.UpdatePrices)
	rg.PUT("/settings/inventory/:type", h.UpdateInventory)
	rg.PUT("/settings/rate-plans", h.UpdateRatePlans)

	rg.GET("/quote", h.GetQuote)
	rg.GET("/dashboard", h.GetDashboard)
	rg.GET("/guests", h.ListGuests)
}

// window reads ?month=YYYY-MM or ?from=YYYY-MM-DD&days=N, defaulting to the current month.
func (h *Handler) window(c *gin.Context) (dateutil.Window, error) {
	if m := c.Query("month"); m != "" {
		return dateutil.ParseMonth(m)
	}
	from := c.Query("from")
	if from == "" {
		return dateutil.MonthWindow(h.session.Now()), nil
	}
	start, err := dateutil.ParseDate(from)
	if err != nil {
		return dateutil.Window{}, err
	}
	days := 30
	if v := c.Query("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil || days < 1 || days > 366 {
			return dateutil.Window{}, fmt.Errorf("%w: days must be between 1 and 366", dateutil.ErrInvalidDateFormat)
		}
	}
	return dateutil.WindowFrom(start, days), nil
}

func notice(n *board.FetchError) string {
	if n == nil {
		return ""
	}
	return n.Error()
}

// GetChart returns the laid-out tape chart.
func (h *Handler) GetChart(c *gin.Context) {
	w, err := h.window(c)
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := h.session.Render(c.Request.Context(), w)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, newChartResponse(view))
}

// GetOccupancy returns per-day occupancy for every room type.
func (h *Handler) GetOccupancy(c *gin.Context) {
	w, err := h.window(c)
	if err != nil {
		writeError(c, err)
		return
	}
	occ, n := h.session.Occupancy(c.Request.Context(), w)
	success(c, http.StatusOK, gin.H{
		"from":      dateutil.FormatDate(w.Start),
		"to":        dateutil.FormatDate(w.End),
		"occupancy": occ,
		"notice":    notice(n),
	})
}

// ListBookings lists bookings filtered by ?q= and ?status=.
func (h *Handler) ListBookings(c *gin.Context) {
	var status booking.Status
	if v := c.Query("status"); v != "" && v != "all" {
		s, err := booking.ParseStatus(v)
		if err != nil {
			writeError(c, err)
			return
		}
		status = s
	}
	list, err := h.session.Bookings(c.Request.Context(), c.Query("q"), status)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, list)
}

// CreateBooking stores a booking from the booking form.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req booking.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	b, err := h.session.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusCreated, b)
}

// GetBooking returns one booking by reference.
func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.session.Booking(c.Request.Context(), c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, b)
}

// DeleteBooking permanently removes a booking.
func (h *Handler) DeleteBooking(c *gin.Context) {
	if err := h.session.Delete(c.Request.Context(), c.Param("ref")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmBooking confirms a pending booking.
func (h *Handler) ConfirmBooking(c *gin.Context) {
	h.transition(c, h.session.Confirm)
}

// CancelBooking cancels a booking.
func (h *Handler) CancelBooking(c *gin.Context) {
	h.transition(c, h.session.Cancel)
}

// CheckInBooking checks in a confirmed booking.
func (h *Handler) CheckInBooking(c *gin.Context) {
	h.transition(c, h.session.CheckIn)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, ref string) error) {
	ref := c.Param("ref")
	if err := fn(c.Request.Context(), ref); err != nil {
		writeError(c, err)
		return
	}
	b, err := h.session.Booking(c.Request.Context(), ref)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, b)
}

type assignRequest struct {
	RoomType string `json:"room_type" binding:"required"`
	Slot     int    `json:"slot" binding:"required"`
	Date     string `json:"date" binding:"required"`
}

type assignResponse struct {
	BookingID int64  `json:"booking_id"`
	Slot      int    `json:"slot"`
	Room      string `json:"room"`
	CheckIn   string `json:"checkin"`
	CheckOut  string `json:"checkout"`
}

// AssignBooking moves a booking to a slot and check-in date, keeping its length.
func (h *Handler) AssignBooking(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "room_type, slot and date are required")
		return
	}
	rt, err := booking.ParseRoomType(req.RoomType)
	if err != nil {
		writeError(c, err)
		return
	}
	date, err := dateutil.ParseDate(req.Date)
	if err != nil {
		writeError(c, err)
		return
	}

	b, err := h.session.Booking(c.Request.Context(), c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.session.Move(c.Request.Context(), b.ID, reassign.Target{RoomType: rt, Slot: req.Slot, Date: date})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, assignResponse{
		BookingID: res.BookingID,
		Slot:      res.Slot,
		Room:      res.Room,
		CheckIn:   dateutil.FormatDate(res.CheckIn),
		CheckOut:  dateutil.FormatDate(res.CheckOut),
	})
}

// CycleRoom advances a room's housekeeping status.
func (h *Handler) CycleRoom(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		badRequest(c, "invalid room number")
		return
	}
	status, err := h.session.CycleRoomStatus(c.Request.Context(), n)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"room": n, "status": status})
}

// GetSettings returns prices, inventory, rate plans and room statuses.
func (h *Handler) GetSettings(c *gin.Context) {
	s, n := h.session.Settings(c.Request.Context())
	success(c, http.StatusOK, gin.H{"settings": s, "notice": notice(n)})
}

// UpdatePrices sets nightly prices from a {"single": 180, ...} body.
func (h *Handler) UpdatePrices(c *gin.Context) {
	var body map[string]float64
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "expected an object of room type to price")
		return
	}
	prices := make(map[booking.RoomType]float64, len(body))
	for k, v := range body {
		rt, err := booking.ParseRoomType(k)
		if err != nil {
			writeError(c, err)
			return
		}
		prices[rt] = v
	}
	if err := h.session.UpdatePrices(c.Request.Context(), prices); err != nil {
		writeError(c, err)
		return
	}
	h.GetSettings(c)
}

type inventoryRequest struct {
	Count *int `json:"count" binding:"required"`
}

// UpdateInventory sets the room count of one room type.
func (h *Handler) UpdateInventory(c *gin.Context) {
	rt, err := booking.ParseRoomType(c.Param("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "count is required")
		return
	}
	if err := h.session.UpdateInventory(c.Request.Context(), rt, *req.Count); err != nil {
		writeError(c, err)
		return
	}
	h.GetSettings(c)
}

// UpdateRatePlans replaces every rate plan.
func (h *Handler) UpdateRatePlans(c *gin.Context) {
	var plans []booking.RatePlan
	if err := c.ShouldBindJSON(&plans); err != nil {
		badRequest(c, "expected a list of rate plans")
		return
	}
	if err := h.session.UpdateRatePlans(c.Request.Context(), plans); err != nil {
		writeError(c, err)
		return
	}
	h.GetSettings(c)
}

// GetQuote prices a stay. Missing dates fall back to the default stay.
func (h *Handler) GetQuote(c *gin.Context) {
	rt, err := booking.ParseRoomType(c.Query("room"))
	if err != nil {
		writeError(c, err)
		return
	}
	var in, out time.Time
	if v := c.Query("checkin"); v != "" {
		if in, err = dateutil.ParseDate(v); err != nil {
			writeError(c, err)
			return
		}
	}
	if v := c.Query("checkout"); v != "" {
		if out, err = dateutil.ParseDate(v); err != nil {
			writeError(c, err)
			return
		}
	}
	var addon float64
	if v := c.Query("addon"); v != "" {
		addon, err = strconv.ParseFloat(v, 64)
		if err != nil || addon < 0 {
			writeError(c, fmt.Errorf("addon: %w", booking.ErrNegativeValue))
			return
		}
	}

	stay := h.sched.Complete(h.session.Now(), in, out)
	q, err := h.session.Quote(c.Request.Context(), rt, stay.CheckIn, stay.CheckOut, addon, strings.TrimSpace(c.Query("rate_plan")))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{
		"checkin":  dateutil.FormatDate(stay.CheckIn),
		"checkout": dateutil.FormatDate(stay.CheckOut),
		"quote":    q,
	})
}

// GetDashboard returns the headline figures.
func (h *Handler) GetDashboard(c *gin.Context) {
	snap := h.session.Load(c.Request.Context())
	if snap.Notice != nil {
		writeError(c, snap.Notice)
		return
	}
	success(c, http.StatusOK, summary.Compute(snap.Bookings, snap.Settings, h.session.Now()))
}

// ListGuests returns the guest directory.
func (h *Handler) ListGuests(c *gin.Context) {
	snap := h.session.Load(c.Request.Context())
	if snap.Notice != nil {
		writeError(c, snap.Notice)
		return
	}
	success(c, http.StatusOK, summary.Guests(snap.Bookings))
}
