// Package repository persists users and reports. The mongo implementations
// back production; the memory implementations back tests and STORE=memory runs.
package repository

import (
	"context"

	"civic-jharkhand-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	// Create stores u with a fresh id. Returns a DuplicateEmail error when the
	// normalized email is taken.
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// ReportFilter narrows a report query. Nil fields do not filter.
type ReportFilter struct {
	SubmittedBy *primitive.ObjectID
	Category    *models.Category
}

type NearbyQuery struct {
	Point models.GeoPoint
	// MaxDistance in metres.
	MaxDistance float64
	Limit       int
	Filter      ReportFilter
}

type ReportRepository interface {
	Create(ctx context.Context, r *models.Report) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	// Find returns matching reports, newest first.
	Find(ctx context.Context, filter ReportFilter) ([]models.Report, error)
	// Nearby returns matching reports within q.MaxDistance, nearest first.
	Nearby(ctx context.Context, q NearbyQuery) ([]models.Report, error)
	// UpdateStatus overwrites the status and returns the updated report.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ReportStatus) (*models.Report, error)
	CountBySubmitter(ctx context.Context) ([]models.SubmitterCount, error)
}
