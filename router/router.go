// Package router wires middleware and routes into the gin engine.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xpress-inn/feedback-api/config"
	"github.com/xpress-inn/feedback-api/handlers"
	"github.com/xpress-inn/feedback-api/middleware"
	"github.com/xpress-inn/feedback-api/services"
	"github.com/xpress-inn/feedback-api/types"
)

// Dependencies holds everything needed to set up routes.
type Dependencies struct {
	Config          *config.Config
	FeedbackHandler *handlers.FeedbackHandler
	HealthHandler   *handlers.HealthHandler
	RateLimiter     services.RateLimiterInterface
}

// SetupRouter configures and returns the gin engine with all routes.
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Root banner, health, and metrics sit outside /api.
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, types.APIResponse{
			Success: true,
			Message: "Feedback API is running",
		})
	})
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/feedback",
			middleware.RateLimiter(
				deps.RateLimiter,
				deps.Config.RateLimit.SubmitRequestsPerMinute,
				time.Minute,
			),
			deps.FeedbackHandler.SubmitFeedback,
		)
		api.GET("/feedbacks", deps.FeedbackHandler.ListFeedbacks)
		api.GET("/feedback/:id", deps.FeedbackHandler.GetFeedback)
		api.PUT("/feedback/:id/status", deps.FeedbackHandler.UpdateFeedbackStatus)
		api.DELETE("/feedback/:id", deps.FeedbackHandler.DeleteFeedback)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.APIResponse{
			Success: false,
			Message: "Route not found",
		})
	})

	return r
}
