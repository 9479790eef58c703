package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health answers GET /health on the API server itself. The deeper
// store-reachability check lives on the metrics server (/readyz).
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "API server is running",
	})
}

// Index answers GET / with a map of the API surface.
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "EA Client API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"health": "/health",
			"users":  "/api/users",
			"auth": gin.H{
				"register": "POST /api/auth/register",
				"login":    "POST /api/auth/login",
				"me":       "GET /api/auth/me",
			},
		},
	})
}
