package routes

import (
	"net/http"

	"chime/handlers"
	"chime/middleware"
	"chime/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRuleRoutes registers reminder-rule management endpoints.
func RegisterRuleRoutes(r *gin.Engine, rh *handlers.ReminderHandler) {
	api := r.Group("/api/rules")
	{
		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", rh.CreateRule)
		api.GET("", rh.ListRules)
		api.PATCH("/:id", rh.UpdateRule)
		api.DELETE("/:id", rh.DeleteRule)
	}
}

// RegisterExecutionRoutes registers scheduled-reminder and feedback endpoints.
func RegisterExecutionRoutes(r *gin.Engine, rh *handlers.ReminderHandler) {
	api := r.Group("/api/executions")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", rh.ListExecutions)
		api.POST("/:key/ack", rh.RecordAck)
	}
}

// RegisterMetricsRoutes registers the metrics snapshot endpoint.
func RegisterMetricsRoutes(r *gin.Engine, mh *handlers.MetricsHandler) {
	api := r.Group("/api/metrics")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", mh.GetMetrics)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}
