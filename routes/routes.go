package routes

import (
	"net/http"
	"time"

	"beautybook/handlers"
	"beautybook/middleware"
	"beautybook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the endpoints for the booking wizard.
// Sessions may be started anonymously; a valid token attaches the customer.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	bookingGroup.Use(middleware.JWTAuthMiddleware(true))
	{
		bookingGroup.POST("/session", hb.StartSession)

		session := bookingGroup.Group("/session/:sessionID")
		session.GET("", hb.GetSession)
		session.DELETE("", hb.DiscardSession)
		session.GET("/slots", hb.GetSlots)
		session.PUT("/datetime", hb.SetDateTime)
		session.PUT("/notes", hb.SetNotes)
		session.POST("/advance", hb.Advance)
		session.POST("/retreat", hb.Retreat)
		session.POST("/back", hb.Back)
		session.PUT("/payment/method", hb.SetPaymentMethod)
		session.PUT("/payment/field", hb.UpdatePaymentField)
		session.POST("/payment", hb.SubmitPayment)
	}
}

// RegisterProfessionalRoutes registers the public profile endpoints.
func RegisterProfessionalRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/professionals/:id")
	{
		api.GET("/reviews", hb.ListReviews)
		api.GET("/reviews/summary", hb.ReviewSummary)
		api.GET("/share", middleware.JWTAuthMiddleware(true), hb.ShareProfile)

		// Writing a review requires a signed-in customer.
		api.POST("/reviews", middleware.JWTAuthMiddleware(false), hb.SubmitReview)
	}
}

// RegisterDashboardRoutes registers the professional's business dashboard.
func RegisterDashboardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/dashboard")
	{
		api.Use(middleware.JWTAuthMiddleware(false))
		api.GET("", hb.Dashboard)
	}
}

// RegisterHealthRoute registers a health-check endpoint backed by the
// background health monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		state := "ok"
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(code, gin.H{"status": state, "message": "Hi, I'm BeautyBook", "dependencies": status})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterProfessionalRoutes(r, hb)
	RegisterDashboardRoutes(r, hb)
}
