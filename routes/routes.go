package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spotly/handlers"
	"spotly/middleware"
	"spotly/utils"
)

// RegisterSlotRoutes sets up the space-management flow. Listings are public;
// mutations require the space owner's token.
func RegisterSlotRoutes(r *gin.Engine, slots *handlers.SlotHandler) {
	api := r.Group("/api/spaces/:spaceID/slots")
	{
		api.GET("", slots.ListSlotsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthOwner())
		protected.POST("", slots.CreateSlotHandler)
		protected.PUT("/:slotID", slots.UpdateSlotHandler)
		protected.DELETE("/:slotID", slots.DeleteSlotHandler)
	}
}

// RegisterReservationRoutes sets up the reservation flow endpoints.
func RegisterReservationRoutes(r *gin.Engine, reservations *handlers.ReservationHandler) {
	api := r.Group("/api/reservations")
	{
		api.Use(middleware.JWTAuthUser())
		api.POST("", reservations.ReserveHandler)
		api.GET("", reservations.ListMineHandler)
		api.DELETE("/:reservationID", reservations.CancelHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterMetricsRoute exposes Prometheus metrics.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, slots *handlers.SlotHandler, reservations *handlers.ReservationHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSlotRoutes(r, slots)
	RegisterReservationRoutes(r, reservations)
	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
}
