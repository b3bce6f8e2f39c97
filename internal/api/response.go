package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dhillsview/frontdesk/internal/board"
	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
	"github.com/dhillsview/frontdesk/internal/dateutil"
	"github.com/dhillsview/frontdesk/internal/debuglog"
	"github.com/dhillsview/frontdesk/internal/reassign"
)

// Error codes returned in the error envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidDrop  = "INVALID_DROP"
	CodeUnavailable  = "STORE_UNAVAILABLE"
	CodeWriteFailed  = "WRITE_FAILED"
	CodeWriteTimeout = "WRITE_TIMEOUT"
	CodeInternal     = "INTERNAL_ERROR"
)

func success(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, status int, code, message string, details any) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

func badRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, CodeBadRequest, message, nil)
}

// writeError maps domain errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	var (
		verr   *booking.ValidationError
		werr   *reassign.WriteError
		ferr   *board.FetchError
		rerr   *board.RenderError
		status int
		code   string
	)

	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, CodeValidation, err.Error(), verr.Fields)
		return
	case errors.As(err, &werr):
		status, code = http.StatusBadGateway, CodeWriteFailed
		if werr.Retriable() {
			status, code = http.StatusGatewayTimeout, CodeWriteTimeout
		}
	case errors.As(err, &ferr):
		status, code = http.StatusServiceUnavailable, CodeUnavailable
	case errors.As(err, &rerr):
		status, code = http.StatusInternalServerError, CodeInternal
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, board.ErrUnknownRoom):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, board.ErrNoAvailability),
		errors.Is(err, reassign.ErrWriteInFlight):
		status, code = http.StatusConflict, CodeConflict
	case errors.Is(err, reassign.ErrInvalidDrop),
		errors.Is(err, reassign.ErrSlotOutOfRange):
		status, code = http.StatusUnprocessableEntity, CodeInvalidDrop
	case errors.Is(err, booking.ErrInvalidBooking),
		errors.Is(err, booking.ErrInvalidRoomType),
		errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, booking.ErrMissingDates),
		errors.Is(err, booking.ErrCheckOutNotAfter),
		errors.Is(err, booking.ErrNegativeValue),
		errors.Is(err, booking.ErrInventoryTooLarge),
		errors.Is(err, booking.ErrRatePlanNotFound),
		errors.Is(err, chart.ErrInvalidStrategy),
		errors.Is(err, dateutil.ErrInvalidDateFormat),
		errors.Is(err, dateutil.ErrInvalidMonthFormat),
		errors.Is(err, dateutil.ErrEndDateBeforeStart):
		status, code = http.StatusBadRequest, CodeBadRequest
	default:
		status, code = http.StatusInternalServerError, CodeInternal
	}

	if status >= http.StatusInternalServerError {
		debuglog.Error("api "+c.FullPath(), err)
	}
	fail(c, status, code, err.Error(), nil)
}
