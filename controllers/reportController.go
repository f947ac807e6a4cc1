package controllers

import (
	"net/http"

	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/middlewares"
	"civic-jharkhand-be/models"
	"civic-jharkhand-be/services"
	"civic-jharkhand-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ReportController struct {
	reports     *services.ReportService
	leaderboard *services.LeaderboardService
	logger      *zap.Logger
}

func NewReportController(reports *services.ReportService, leaderboard *services.LeaderboardService, logger *zap.Logger) *ReportController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportController{reports: reports, leaderboard: leaderboard, logger: logger}
}

type locationInput struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates" binding:"required,len=2"`
}

// CreateReport handles a citizen submitting a new report
func (rc *ReportController) CreateReport(c *gin.Context) {
	user, ok := rc.currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Title       string          `json:"title" binding:"required,max=200"`
		Description string          `json:"description" binding:"required,max=2000"`
		Category    models.Category `json:"category" binding:"category"`
		Location    *locationInput  `json:"location" binding:"required"`
		Photo       *string         `json:"photo,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, rc.logger, bindError(err))
		return
	}
	if input.Location.Type != "" && input.Location.Type != "Point" {
		utils.RespondError(c, rc.logger, apperrors.Validation("location type must be Point"))
		return
	}

	location := models.NewGeoPoint(input.Location.Coordinates[0], input.Location.Coordinates[1])
	report, err := rc.reports.Create(c.Request.Context(), user, services.CreateReportInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    &location,
		Photo:       input.Photo,
	})
	if err != nil {
		utils.RespondError(c, rc.logger, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// GetReports lists reports scoped to the caller's role
func (rc *ReportController) GetReports(c *gin.Context) {
	user, ok := rc.currentUser(c)
	if !ok {
		return
	}

	reports, err := rc.reports.ListFor(c.Request.Context(), user)
	if err != nil {
		utils.RespondError(c, rc.logger, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetReport retrieves one report the caller is allowed to see
func (rc *ReportController) GetReport(c *gin.Context) {
	user, ok := rc.currentUser(c)
	if !ok {
		return
	}
	reportID, ok := rc.reportID(c)
	if !ok {
		return
	}

	report, err := rc.reports.Get(c.Request.Context(), user, reportID)
	if err != nil {
		utils.RespondError(c, rc.logger, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetNearbyReports returns reports nearest to ?lng=&lat=
func (rc *ReportController) GetNearbyReports(c *gin.Context) {
	user, ok := rc.currentUser(c)
	if !ok {
		return
	}

	var query struct {
		Longitude   *float64 `form:"lng" binding:"required"`
		Latitude    *float64 `form:"lat" binding:"required"`
		MaxDistance float64  `form:"maxDistance" binding:"gte=0"`
		Limit       int      `form:"limit" binding:"gte=0"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, rc.logger, bindError(err))
		return
	}

	reports, err := rc.reports.Nearby(c.Request.Context(), user, services.NearbyInput{
		Longitude:   *query.Longitude,
		Latitude:    *query.Latitude,
		MaxDistance: query.MaxDistance,
		Limit:       query.Limit,
	})
	if err != nil {
		utils.RespondError(c, rc.logger, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// UpdateReportStatus lets an admin, or a worker of the report's category, set its status
func (rc *ReportController) UpdateReportStatus(c *gin.Context) {
	user, ok := rc.currentUser(c)
	if !ok {
		return
	}
	reportID, ok := rc.reportID(c)
	if !ok {
		return
	}

	var input struct {
		Status models.ReportStatus `json:"status" binding:"required,status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, rc.logger, bindError(err))
		return
	}

	report, err := rc.reports.UpdateStatus(c.Request.Context(), user, reportID, input.Status)
	if err != nil {
		utils.RespondError(c, rc.logger, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetLeaderboard returns citizens ranked by number of reports
func (rc *ReportController) GetLeaderboard(c *gin.Context) {
	ranking, err := rc.leaderboard.ComputeRanking(c.Request.Context())
	if err != nil {
		utils.RespondError(c, rc.logger, err)
		return
	}

	c.JSON(http.StatusOK, ranking)
}

func (rc *ReportController) currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, rc.logger, apperrors.Unauthorized("user not authenticated", nil))
	}
	return user, ok
}

func (rc *ReportController) reportID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.RespondError(c, rc.logger, apperrors.Validation("invalid report id"))
		return primitive.NilObjectID, false
	}
	return id, true
}
