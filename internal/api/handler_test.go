package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhillsview/frontdesk/internal/board"
	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/db"
	"github.com/dhillsview/frontdesk/internal/scheduler"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

var now = time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T) (*gin.Engine, *db.SQLite) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := db.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	session := board.New(repo, board.Options{Now: func() time.Time { return now }})
	return NewRouter(NewHandler(session, scheduler.New("22:00", 2))), repo
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	if data != nil && env.Success {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func seed(t *testing.T, repo *db.SQLite, ref string, rt booking.RoomType, in, out string, status booking.Status) *booking.Booking {
	t.Helper()
	ci, _ := time.Parse("2006-01-02", in)
	co, _ := time.Parse("2006-01-02", out)
	b := &booking.Booking{
		Reference:  ref,
		RoomType:   rt,
		CheckIn:    ci,
		CheckOut:   co,
		Status:     status,
		GuestName:  "Guest " + ref,
		GuestEmail: ref + "@example.com",
		Amount:     100,
	}
	require.NoError(t, repo.CreateBooking(context.Background(), b))
	return b
}

func validRequest() booking.Request {
	return booking.Request{
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria@example.com",
		Phone:     "09171234567",
		Room:      "deluxe",
		CheckIn:   "2025-03-10",
		CheckOut:  "2025-03-12",
	}
}

func TestCreateAndGetBooking(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodPost, "/api/v1/bookings", validRequest())
	require.Equal(t, http.StatusCreated, resp.Code)

	var created booking.Booking
	decode(t, resp, &created)
	assert.Equal(t, booking.Deluxe, created.RoomType)
	assert.Equal(t, booking.StatusPending, created.Status)
	assert.InDelta(t, 640.0, created.Amount, 0.001)
	require.NotEmpty(t, created.Reference)

	resp = performRequest(router, http.MethodGet, "/api/v1/bookings/"+created.Reference, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var got booking.Booking
	decode(t, resp, &got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Maria Santos", got.GuestName)
}

func TestCreateBooking_ValidationError(t *testing.T) {
	router, _ := setupRouter(t)

	req := validRequest()
	req.Email = "not-an-email"
	req.FirstName = "M"

	resp := performRequest(router, http.MethodPost, "/api/v1/bookings", req)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	env := decode(t, resp, nil)
	assert.False(t, env.Success)
	assert.Equal(t, CodeValidation, env.Error.Code)
	assert.Contains(t, env.Error.Details, "Email")
	assert.Contains(t, env.Error.Details, "FirstName")
}

func TestCreateBooking_NoAvailability(t *testing.T) {
	router, repo := setupRouter(t)
	seed(t, repo, "DHV-FULL01", booking.Family, "2025-03-10", "2025-03-12", booking.StatusConfirmed)
	seed(t, repo, "DHV-FULL02", booking.Family, "2025-03-11", "2025-03-13", booking.StatusConfirmed)

	req := validRequest()
	req.Room = "family"
	resp := performRequest(router, http.MethodPost, "/api/v1/bookings", req)
	require.Equal(t, http.StatusConflict, resp.Code)
}

func TestBookingLifecycle(t *testing.T) {
	router, repo := setupRouter(t)
	seed(t, repo, "DHV-LIFE01", booking.Single, "2025-03-10", "2025-03-12", booking.StatusPending)

	resp := performRequest(router, http.MethodPost, "/api/v1/bookings/DHV-LIFE01/checkin", nil)
	require.Equal(t, http.StatusConflict, resp.Code, "pending bookings cannot check in")

	resp = performRequest(router, http.MethodPost, "/api/v1/bookings/DHV-LIFE01/confirm", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var b booking.Booking
	decode(t, resp, &b)
	assert.Equal(t, booking.StatusConfirmed, b.Status)

	resp = performRequest(router, http.MethodPost, "/api/v1/bookings/DHV-LIFE01/cancel", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = performRequest(router, http.MethodDelete, "/api/v1/bookings/DHV-LIFE01", nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = performRequest(router, http.MethodGet, "/api/v1/bookings/DHV-LIFE01", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListBookings_Filter(t *testing.T) {
	router, repo := setupRouter(t)
	seed(t, repo, "DHV-AAA001", booking.Single, "2025-03-10", "2025-03-12", booking.StatusPending)
	seed(t, repo, "DHV-BBB002", booking.Single, "2025-03-10", "2025-03-12", booking.StatusConfirmed)

	resp := performRequest(router, http.MethodGet, "/api/v1/bookings?status=pending", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var list []booking.Booking
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "DHV-AAA001", list[0].Reference)

	resp = performRequest(router, http.MethodGet, "/api/v1/bookings?status=lost", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetChart(t *testing.T) {
	router, repo := setupRouter(t)
	seed(t, repo, "DHV-CHRT01", booking.Single, "2025-02-27", "2025-03-03", booking.StatusConfirmed)

	resp := performRequest(router, http.MethodGet, "/api/v1/chart?month=2025-03", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var chart chartResponse
	decode(t, resp, &chart)
	assert.Equal(t, "2025-03-01", chart.From)
	assert.Len(t, chart.Days, 31)
	assert.True(t, chart.Days[1].Today)
	require.Len(t, chart.Sections, 3)

	single := chart.Sections[0]
	assert.Equal(t, booking.Single, single.RoomType)
	require.Len(t, single.Rows, 5)
	require.Len(t, single.Rows[0].Bars, 1)
	bar := single.Rows[0].Bars[0]
	assert.Equal(t, 0, bar.Col)
	assert.Equal(t, 2, bar.Span)
	assert.True(t, bar.ClippedStart)
	assert.Equal(t, 20, single.Occupancy[0].Pct)

	resp = performRequest(router, http.MethodGet, "/api/v1/chart?month=March", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAssignBooking(t *testing.T) {
	router, repo := setupRouter(t)
	b := seed(t, repo, "DHV-MOVE01", booking.Deluxe, "2025-03-01", "2025-03-04", booking.StatusConfirmed)

	resp := performRequest(router, http.MethodPost, "/api/v1/bookings/DHV-MOVE01/assign", gin.H{
		"room_type": "deluxe", "slot": 2, "date": "2025-03-15",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var res assignResponse
	decode(t, resp, &res)
	assert.Equal(t, b.ID, res.BookingID)
	assert.Equal(t, "deluxe-202", res.Room)
	assert.Equal(t, "2025-03-15", res.CheckIn)
	assert.Equal(t, "2025-03-18", res.CheckOut)

	resp = performRequest(router, http.MethodPost, "/api/v1/bookings/DHV-MOVE01/assign", gin.H{
		"room_type": "family", "slot": 1, "date": "2025-03-15",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = performRequest(router, http.MethodPost, "/api/v1/bookings/DHV-MOVE01/assign", gin.H{
		"room_type": "deluxe", "slot": 9, "date": "2025-03-15",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestCycleRoom(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodPost, "/api/v1/rooms/101/cycle", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var out struct {
		Room   int                `json:"room"`
		Status booking.RoomStatus `json:"status"`
	}
	decode(t, resp, &out)
	assert.Equal(t, booking.RoomDirty, out.Status)

	resp = performRequest(router, http.MethodPost, "/api/v1/rooms/999/cycle", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSettingsUpdates(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodPut, "/api/v1/settings/inventory/family", gin.H{"count": 4})
	require.Equal(t, http.StatusOK, resp.Code)
	var out struct {
		Settings booking.Settings `json:"settings"`
	}
	decode(t, resp, &out)
	assert.Equal(t, 4, out.Settings.Inventory[booking.Family])

	resp = performRequest(router, http.MethodPut, "/api/v1/settings/inventory/family", gin.H{"count": -1})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = performRequest(router, http.MethodPut, "/api/v1/settings/prices", gin.H{"single": 200})
	require.Equal(t, http.StatusOK, resp.Code)
	decode(t, resp, &out)
	assert.InDelta(t, 200.0, out.Settings.Prices[booking.Single], 0.001)

	resp = performRequest(router, http.MethodPut, "/api/v1/settings/prices", gin.H{"penthouse": 900})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetQuote(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodGet, "/api/v1/quote?room=family&checkin=2025-03-10&checkout=2025-03-13&addon=50", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var out struct {
		Quote booking.Quote `json:"quote"`
	}
	decode(t, resp, &out)
	assert.Equal(t, 3, out.Quote.Nights)
	assert.InDelta(t, 1310.0, out.Quote.Total, 0.001)

	resp = performRequest(router, http.MethodGet, "/api/v1/quote?room=single", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var def struct {
		CheckIn  string `json:"checkin"`
		CheckOut string `json:"checkout"`
	}
	decode(t, resp, &def)
	assert.Equal(t, "2025-03-03", def.CheckIn)
	assert.Equal(t, "2025-03-05", def.CheckOut)
}

func TestDashboardAndGuests(t *testing.T) {
	router, repo := setupRouter(t)
	seed(t, repo, "DHV-DASH01", booking.Single, "2025-03-01", "2025-03-04", booking.StatusConfirmed)
	seed(t, repo, "DHV-DASH02", booking.Single, "2025-03-05", "2025-03-06", booking.StatusCancelled)

	resp := performRequest(router, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var dash struct {
		TotalBookings int     `json:"total_bookings"`
		Revenue       float64 `json:"revenue"`
		TonightPct    int     `json:"tonight_pct"`
	}
	decode(t, resp, &dash)
	assert.Equal(t, 2, dash.TotalBookings)
	assert.InDelta(t, 100.0, dash.Revenue, 0.001)
	assert.Equal(t, 10, dash.TonightPct)

	resp = performRequest(router, http.MethodGet, "/api/v1/guests", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var guests []map[string]any
	decode(t, resp, &guests)
	assert.Len(t, guests, 2)
}

func TestWriteError_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{booking.ErrBookingNotFound, http.StatusNotFound},
		{booking.ErrInvalidTransition, http.StatusConflict},
		{&board.FetchError{Err: errors.New("down")}, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			writeError(c, tc.err)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
