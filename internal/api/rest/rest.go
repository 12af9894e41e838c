package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/healthz", handler.HealthCheck)

	v1 := router.Group("/v1")
	{
		v1.GET("/workspaces", handler.ListWorkspaces)
		v1.GET("/workspaces/:id", handler.GetWorkspace)
		v1.GET("/balances", handler.ListBalances)
		v1.GET("/transfers", handler.ListTransfers)
		v1.GET("/thanks-tokens/:address/balances", handler.ListThanksTokenBalances)
	}
}
