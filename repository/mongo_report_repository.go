package repository

import (
	"context"
	"errors"
	"time"

	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ReportsCollection = "reports"

type MongoReportRepository struct {
	collection *mongo.Collection
}

func NewMongoReportRepository(db *mongo.Database) *MongoReportRepository {
	return &MongoReportRepository{collection: db.Collection(ReportsCollection)}
}

// EnsureIndexes creates the 2dsphere index $near needs plus the indexes
// backing the role scoped listings.
func (r *MongoReportRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "submittedBy.id", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *MongoReportRepository) Create(ctx context.Context, report *models.Report) error {
	report.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, report); err != nil {
		return apperrors.Internal("failed to create report", err)
	}
	return nil
}

func (r *MongoReportRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var report models.Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("report not found")
		}
		return nil, apperrors.Internal("failed to retrieve report", err)
	}
	return &report, nil
}

func (r *MongoReportRepository) Find(ctx context.Context, filter ReportFilter) ([]models.Report, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	return r.find(ctx, toBSON(filter), findOptions)
}

func (r *MongoReportRepository) Nearby(ctx context.Context, q NearbyQuery) ([]models.Report, error) {
	// $near already orders by distance, so no sort is set.
	return r.find(ctx, nearbyFilter(q), options.Find().SetLimit(int64(q.Limit)))
}

func (r *MongoReportRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ReportStatus) (*models.Report, error) {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var report models.Report
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("report not found")
		}
		return nil, apperrors.Internal("failed to update report", err)
	}
	return &report, nil
}

func (r *MongoReportRepository) CountBySubmitter(ctx context.Context) ([]models.SubmitterCount, error) {
	cursor, err := r.collection.Aggregate(ctx, submitterCountPipeline())
	if err != nil {
		return nil, apperrors.Internal("failed to aggregate reports", err)
	}
	defer cursor.Close(ctx)

	counts := []models.SubmitterCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, apperrors.Internal("failed to decode report counts", err)
	}
	return counts, nil
}

func (r *MongoReportRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Report, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Internal("failed to retrieve reports", err)
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, apperrors.Internal("failed to decode reports", err)
	}
	return reports, nil
}

func toBSON(f ReportFilter) bson.M {
	filter := bson.M{}
	if f.SubmittedBy != nil {
		filter["submittedBy.id"] = *f.SubmittedBy
	}
	if f.Category != nil {
		filter["category"] = *f.Category
	}
	return filter
}

func nearbyFilter(q NearbyQuery) bson.M {
	filter := toBSON(q.Filter)
	filter["location"] = bson.M{
		"$near": bson.M{
			"$geometry":    q.Point,
			"$maxDistance": q.MaxDistance,
		},
	}
	return filter
}

// submitterCountPipeline groups reports per citizen; the output decodes into
// models.SubmitterCount.
func submitterCountPipeline() []bson.M {
	return []bson.M{
		{
			"$group": bson.M{
				"_id":   "$submittedBy.id",
				"name":  bson.M{"$first": "$submittedBy.name"},
				"count": bson.M{"$sum": 1},
			},
		},
	}
}
