package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "meetslot/internal/handler/dto/request"
	resdto "meetslot/internal/handler/dto/response"
	"meetslot/internal/handler/middleware"
	"meetslot/internal/pkg/clock"
	"meetslot/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingsUseCase usecase.BookingsUseCase
	clock           clock.Clock
}

func NewBookingHandler(bookingsUseCase usecase.BookingsUseCase, clk clock.Clock) *BookingHandler {
	return &BookingHandler{
		bookingsUseCase: bookingsUseCase,
		clock:           clk,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.bookingsUseCase.Create(c.Request.Context(), usecase.CreateBookingInput{
		Username:     c.Param("username"),
		Slug:         c.Param("slug"),
		Date:         req.VisitorDate,
		Timezone:     req.Timezone,
		StartAtUTC:   req.StartAtUTC,
		SlotToken:    req.SlotToken,
		InviteeName:  req.Name,
		InviteeEmail: req.Email,
		Notes:        req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date, expected YYYY-MM-DD",
			})
		case errors.Is(err, usecase.ErrInvalidTimezone):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid timezone identifier",
			})
		case errors.Is(err, usecase.ErrDomainValidationFailed):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid invitee details",
			})
		case errors.Is(err, usecase.ErrInvalidSlotToken):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Invalid slot token",
			})
		case errors.Is(err, usecase.ErrEventTypeNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Event type not found",
			})
		case errors.Is(err, usecase.ErrSlotUnavailable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "This slot is no longer available, please pick another time",
			})
		case errors.Is(err, usecase.ErrDailyLimitReached):
			c.JSON(http.StatusConflict, gin.H{
				"error": "No more bookings can be made on this day, please pick another date",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingResult(result))
}

func (h *BookingHandler) GetHostBookings(c *gin.Context) {
	hostID, ok := middleware.GetHostID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	from, to, err := parseBookingRange(h.clock.Now(), c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid from/to, expected YYYY-MM-DD",
		})
		return
	}

	list, err := h.bookingsUseCase.ListForHost(c.Request.Context(), hostID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingList(list))
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	hostID, ok := middleware.GetHostID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	// Body is optional; cancel with no reason is fine.
	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	canceled, err := h.bookingsUseCase.Cancel(c.Request.Context(), bookingID, hostID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, usecase.ErrBookingAlreadyCanceled):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking is already canceled",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBooking(canceled))
}

// parseBookingRange defaults to the 30 days starting today when from/to are
// omitted.
func parseBookingRange(now time.Time, fromStr, toStr string) (time.Time, time.Time, error) {
	from := now.UTC().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 30)

	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}
