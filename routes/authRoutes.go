package routes

import (
	"civic-jharkhand-be/middlewares"
	"civic-jharkhand-be/models"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.RouterGroup, d *Dependencies) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", d.Auth.RegisterUser)
		auth.POST("/login", d.Auth.LoginUser)
		auth.GET("/me", d.Authenticate, d.Auth.GetMe)
		auth.POST("/worker", d.Authenticate, middlewares.RequireRole(models.RoleAdmin), d.Auth.CreateWorker)
	}
}
