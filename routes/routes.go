package routes

import (
	"net/http"
	"time"

	"slotwise/handlers"
	"slotwise/middleware"
	"slotwise/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterProviderRoutes registers slot queries and availability management.
func RegisterProviderRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	providers := api.Group("/providers/:providerId")
	{
		providers.GET("/slots", hb.Booking.ListSlotsHandler)
		providers.GET("/availability", hb.Provider.GetAvailabilityHandler)
		providers.PUT("/availability", hb.Provider.SetAvailabilityHandler)
		providers.DELETE("/availability", hb.Provider.DeactivateAvailabilityHandler)
		providers.GET("/blackouts", hb.Provider.ListBlackoutsHandler)
		providers.POST("/blackouts", hb.Provider.CreateBlackoutHandler)
	}
	api.DELETE("/blackouts/:blackoutId", hb.Provider.RemoveBlackoutHandler)
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings")
	{
		bookings.POST("", hb.Booking.CreateBookingHandler)
		bookings.GET("", hb.Booking.ListBookingsHandler)
		bookings.GET("/:id", hb.Booking.GetBookingHandler)
		bookings.POST("/:id/cancel", hb.Booking.CancelBookingHandler)
		bookings.POST("/:id/complete", hb.Booking.CompleteBookingHandler)
		bookings.POST("/:id/reschedule", hb.Booking.RescheduleBookingHandler)
		bookings.GET("/:id/history", hb.Booking.GetHistoryHandler)
	}
}

// RegisterHealthRoute reports the last dependency health check.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	origins := hb.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))
	api.Use(middleware.JWTAuthMiddleware(hb.JWTSecret))
	RegisterProviderRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
