package api

import (
	"errors"
	"net/http"

	reqdto "meetslot/internal/handler/dto/request"
	resdto "meetslot/internal/handler/dto/response"
	"meetslot/internal/handler/middleware"
	"meetslot/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityUseCase usecase.AvailabilityUseCase
}

func NewAvailabilityHandler(availabilityUseCase usecase.AvailabilityUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUseCase: availabilityUseCase,
	}
}

func (h *AvailabilityHandler) GetWeeklyRules(c *gin.Context) {
	hostID, ok := middleware.GetHostID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	rules, err := h.availabilityUseCase.GetWeeklyRules(c.Request.Context(), hostID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromWeeklyRules(rules))
}

func (h *AvailabilityHandler) ReplaceWeeklyRules(c *gin.Context) {
	hostID, ok := middleware.GetHostID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ReplaceWeeklyRulesRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	inputs := make([]usecase.WeeklyRuleInput, len(req.Rules))
	for i, r := range req.Rules {
		inputs[i] = usecase.WeeklyRuleInput{
			Weekday:   r.Weekday,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Available: r.Available,
		}
	}

	if err := h.availabilityUseCase.ReplaceWeeklyRules(c.Request.Context(), hostID, inputs); err != nil {
		switch {
		case errors.Is(err, usecase.ErrDomainValidationFailed):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid availability rule",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AvailabilityHandler) GetOverrides(c *gin.Context) {
	hostID, ok := middleware.GetHostID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "from and to query parameters are required",
		})
		return
	}

	overrides, err := h.availabilityUseCase.GetOverrides(c.Request.Context(), hostID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date range, expected YYYY-MM-DD",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromOverrides(overrides))
}

func (h *AvailabilityHandler) ReplaceOverrides(c *gin.Context) {
	hostID, ok := middleware.GetHostID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ReplaceOverridesRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	inputs := make([]usecase.OverrideInput, len(req.Overrides))
	for i, o := range req.Overrides {
		inputs[i] = usecase.OverrideInput{
			StartTime: o.StartTime,
			EndTime:   o.EndTime,
			Available: o.Available,
		}
	}

	if err := h.availabilityUseCase.ReplaceOverridesForDate(c.Request.Context(), hostID, req.Date, inputs); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date, expected YYYY-MM-DD",
			})
		case errors.Is(err, usecase.ErrDomainValidationFailed):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid override entry",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
