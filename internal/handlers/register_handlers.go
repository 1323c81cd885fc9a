// Package handlers wires the HTTP API onto the application services.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/middleware"
	"github.com/quollbooks/quollbooks/pkg/config"
)

// RegisterRoutes sets up all application routes. Everything except the health
// check and the auth routes sits behind JWT authentication, and entity routes
// are nested under their organization.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	registerAuthRoutes(r, services.Auth)

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	{
		registerUserRoutes(v1, services.User)
		registerOrganizationRoutes(v1, services)
	}
}
