package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meetslot/internal/handler/api"
	"meetslot/internal/handler/middleware"
	"meetslot/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	slotsHandler *api.SlotsHandler,
	bookingHandler *api.BookingHandler,
	availabilityHandler *api.AvailabilityHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, slotsHandler, bookingHandler, availabilityHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	slotsHandler *api.SlotsHandler,
	bookingHandler *api.BookingHandler,
	availabilityHandler *api.AvailabilityHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		// Public visitor endpoints: view slots, book one.
		hosts := apiGroup.Group("/hosts/:username/events/:slug")
		{
			addRoutes(hosts, []route{
				{Method: http.MethodGet, Path: "/slots", Handler: slotsHandler.GetSlots},
				{Method: http.MethodPost, Path: "/bookings", Handler: bookingHandler.CreateBooking},
			})
		}

		// Host management endpoints.
		me := apiGroup.Group("/me")
		me.Use(authMiddleware.RequireHost())
		{
			addRoutes(me, []route{
				{Method: http.MethodGet, Path: "/availability/weekly", Handler: availabilityHandler.GetWeeklyRules},
				{Method: http.MethodPut, Path: "/availability/weekly", Handler: availabilityHandler.ReplaceWeeklyRules},
				{Method: http.MethodGet, Path: "/availability/overrides", Handler: availabilityHandler.GetOverrides},
				{Method: http.MethodPut, Path: "/availability/overrides", Handler: availabilityHandler.ReplaceOverrides},
				{Method: http.MethodGet, Path: "/bookings", Handler: bookingHandler.GetHostBookings},
				{Method: http.MethodPost, Path: "/bookings/:id/cancel", Handler: bookingHandler.CancelBooking},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
