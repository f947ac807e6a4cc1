package services

import (
	"context"
	"math"
	"strings"

	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/metrics"
	"civic-jharkhand-be/models"
	"civic-jharkhand-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	DefaultNearbyDistance = 5000.0
	DefaultNearbyLimit    = 20
	MaxNearbyLimit        = 100
)

type ReportService struct {
	reports repository.ReportRepository
	logger  *zap.Logger
}

func NewReportService(reports repository.ReportRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{reports: reports, logger: logger}
}

type CreateReportInput struct {
	Title       string
	Description string
	Category    models.Category
	Location    *models.GeoPoint
	Photo       *string
}

// Create stores a new report in the Submitted state for submitter.
func (s *ReportService) Create(ctx context.Context, submitter *models.User, in CreateReportInput) (*models.Report, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	switch {
	case title == "":
		return nil, apperrors.Validation("title is required")
	case description == "":
		return nil, apperrors.Validation("description is required")
	case in.Location == nil:
		return nil, apperrors.Validation("location is required")
	}
	if err := ValidateLocation(*in.Location); err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = models.OtherCategory
	}
	if !category.Valid() {
		return nil, apperrors.Validation("invalid category")
	}

	var photo *string
	if in.Photo != nil && strings.TrimSpace(*in.Photo) != "" {
		p := strings.TrimSpace(*in.Photo)
		photo = &p
	}

	report := &models.Report{
		Title:       title,
		Description: description,
		Category:    category,
		Status:      models.Submitted,
		Location:    models.NewGeoPoint(in.Location.Longitude(), in.Location.Latitude()),
		Photo:       photo,
		SubmittedBy: models.Submitter{ID: submitter.ID, Name: submitter.Name},
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	metrics.ReportCreated(string(category))
	s.logger.Info("report created",
		zap.String("report_id", report.ID.Hex()),
		zap.String("category", string(category)),
		zap.String("submitted_by", submitter.ID.Hex()),
	)
	return report, nil
}

func (s *ReportService) ListForCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]models.Report, error) {
	return s.reports.Find(ctx, repository.ReportFilter{SubmittedBy: &citizenID})
}

func (s *ReportService) ListForWorker(ctx context.Context, category models.Category) ([]models.Report, error) {
	return s.reports.Find(ctx, repository.ReportFilter{Category: &category})
}

// ListAll is unrestricted. Only admins should reach it.
func (s *ReportService) ListAll(ctx context.Context) ([]models.Report, error) {
	return s.reports.Find(ctx, repository.ReportFilter{})
}

// ListFor dispatches to the listing the requester's role is allowed to see.
func (s *ReportService) ListFor(ctx context.Context, requester *models.User) ([]models.Report, error) {
	filter, err := ScopeFor(requester)
	if err != nil {
		return nil, err
	}
	return s.reports.Find(ctx, filter)
}

// Get returns a report the requester may see.
func (s *ReportService) Get(ctx context.Context, requester *models.User, id primitive.ObjectID) (*models.Report, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(requester, report) {
		return nil, apperrors.Forbidden("you are not allowed to view this report")
	}
	return report, nil
}

type NearbyInput struct {
	Longitude   float64
	Latitude    float64
	MaxDistance float64
	Limit       int
}

// Nearby returns the reports nearest to a point, scoped to the requester's role.
func (s *ReportService) Nearby(ctx context.Context, requester *models.User, in NearbyInput) ([]models.Report, error) {
	point := models.NewGeoPoint(in.Longitude, in.Latitude)
	if err := ValidateLocation(point); err != nil {
		return nil, err
	}
	filter, err := ScopeFor(requester)
	if err != nil {
		return nil, err
	}

	maxDistance := in.MaxDistance
	if maxDistance <= 0 {
		maxDistance = DefaultNearbyDistance
	}
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultNearbyLimit
	}
	if limit > MaxNearbyLimit {
		limit = MaxNearbyLimit
	}

	return s.reports.Nearby(ctx, repository.NearbyQuery{
		Point:       point,
		MaxDistance: maxDistance,
		Limit:       limit,
		Filter:      filter,
	})
}

// UpdateStatus overwrites the status of a report. Any of the three statuses
// may follow any other; concurrent updates resolve last write wins.
func (s *ReportService) UpdateStatus(ctx context.Context, requester *models.User, id primitive.ObjectID, status models.ReportStatus) (*models.Report, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("status must be one of Submitted, In Progress, Resolved")
	}
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeStatusUpdate(requester, report); err != nil {
		metrics.AuthFailure("category_mismatch")
		s.logger.Warn("status update denied",
			zap.String("user_id", requester.ID.Hex()),
			zap.String("role", string(requester.Role)),
			zap.String("report_id", id.Hex()),
			zap.String("report_category", string(report.Category)),
		)
		return nil, err
	}

	updated, err := s.reports.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	metrics.StatusUpdated(string(status), string(requester.Role))
	s.logger.Info("report status updated",
		zap.String("report_id", id.Hex()),
		zap.String("status", string(status)),
		zap.String("updated_by", requester.ID.Hex()),
	)
	return updated, nil
}

func ValidateLocation(p models.GeoPoint) error {
	lng, lat := p.Longitude(), p.Latitude()
	if !isFinite(lng) || !isFinite(lat) {
		return apperrors.Validation("location coordinates must be finite numbers")
	}
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return apperrors.Validation("location must be [longitude, latitude] within valid ranges")
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
