package repository

import (
	"testing"

	"civic-jharkhand-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToBSON(t *testing.T) {
	assert.Equal(t, bson.M{}, toBSON(ReportFilter{}))

	id := primitive.NewObjectID()
	category := models.WaterLeakage
	assert.Equal(t, bson.M{"submittedBy.id": id}, toBSON(ReportFilter{SubmittedBy: &id}))
	assert.Equal(t, bson.M{"category": models.WaterLeakage}, toBSON(ReportFilter{Category: &category}))
}

func TestNearbyFilter(t *testing.T) {
	category := models.Pothole
	point := models.NewGeoPoint(85.30, 23.34)

	filter := nearbyFilter(NearbyQuery{
		Point:       point,
		MaxDistance: 2500,
		Limit:       5,
		Filter:      ReportFilter{Category: &category},
	})

	assert.Equal(t, bson.M{
		"category": models.Pothole,
		"location": bson.M{
			"$near": bson.M{
				"$geometry":    point,
				"$maxDistance": 2500.0,
			},
		},
	}, filter)
}

// Query field paths must match what a stored report marshals to.
func TestReportFieldPathsMatchStoredDocument(t *testing.T) {
	report := newReport(primitive.NewObjectID(), models.Trash, 85.30, 23.34)
	raw, err := bson.Marshal(report)
	require.NoError(t, err)
	doc := bson.Raw(raw)

	submitter, err := doc.LookupErr("submittedBy", "id")
	require.NoError(t, err)
	assert.Equal(t, report.SubmittedBy.ID, submitter.ObjectID())

	name, err := doc.LookupErr("submittedBy", "name")
	require.NoError(t, err)
	assert.Equal(t, report.SubmittedBy.Name, name.StringValue())

	category, err := doc.LookupErr("category")
	require.NoError(t, err)
	assert.Equal(t, string(models.Trash), category.StringValue())

	geoType, err := doc.LookupErr("location", "type")
	require.NoError(t, err)
	assert.Equal(t, "Point", geoType.StringValue())
}

func TestSubmitterCountPipeline(t *testing.T) {
	pipeline := submitterCountPipeline()
	require.Len(t, pipeline, 1)
	group, ok := pipeline[0]["$group"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "$submittedBy.id", group["_id"])
	assert.Equal(t, bson.M{"$first": "$submittedBy.name"}, group["name"])
	assert.Equal(t, bson.M{"$sum": 1}, group["count"])

	id := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.M{"_id": id, "name": "Asha", "count": int32(4)})
	require.NoError(t, err)
	var row models.SubmitterCount
	require.NoError(t, bson.Unmarshal(raw, &row))
	assert.Equal(t, models.SubmitterCount{ID: id, Name: "Asha", Count: 4}, row)
}
