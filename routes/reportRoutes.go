package routes

import (
	"civic-jharkhand-be/middlewares"
	"civic-jharkhand-be/models"

	"github.com/gin-gonic/gin"
)

// ReportRoutes sets up the report and leaderboard routes
func ReportRoutes(r *gin.RouterGroup, d *Dependencies) {
	reports := r.Group("/reports")
	{
		reports.GET("/leaderboard", d.Reports.GetLeaderboard)

		reports.POST("",
			d.Authenticate,
			middlewares.RequireRole(models.RoleCitizen),
			d.RateLimit,
			d.Reports.CreateReport,
		)
		reports.GET("", d.Authenticate, d.Reports.GetReports)
		reports.GET("/nearby", d.Authenticate, d.Reports.GetNearbyReports)
		reports.GET("/:id", d.Authenticate, d.Reports.GetReport)
		reports.PUT("/:id",
			d.Authenticate,
			middlewares.RequireRole(models.RoleAdmin, models.RoleWorker),
			d.Reports.UpdateReportStatus,
		)
	}
}
