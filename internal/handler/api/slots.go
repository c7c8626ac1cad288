package api

import (
	"errors"
	"net/http"

	resdto "meetslot/internal/handler/dto/response"
	"meetslot/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SlotsHandler struct {
	slotsUseCase usecase.SlotsUseCase
}

func NewSlotsHandler(slotsUseCase usecase.SlotsUseCase) *SlotsHandler {
	return &SlotsHandler{
		slotsUseCase: slotsUseCase,
	}
}

func (h *SlotsHandler) GetSlots(c *gin.Context) {
	username := c.Param("username")
	slug := c.Param("slug")
	date := c.Query("date")
	timezone := c.Query("timezone")

	if date == "" || timezone == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "date and timezone query parameters are required",
		})
		return
	}

	list, err := h.slotsUseCase.ListSlots(c.Request.Context(), username, slug, date, timezone)
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
		case errors.Is(err, usecase.ErrEventTypeNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Event type not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotList(list))
}
