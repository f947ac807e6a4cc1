package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category enum
type Category string

const (
	Pothole       Category = "Pothole"
	Streetlight   Category = "Streetlight"
	Trash         Category = "Trash"
	WaterLeakage  Category = "Water Leakage"
	OtherCategory Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{Pothole, Streetlight, Trash, WaterLeakage, OtherCategory}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ReportStatus enum
type ReportStatus string

const (
	Submitted  ReportStatus = "Submitted"
	InProgress ReportStatus = "In Progress"
	Resolved   ReportStatus = "Resolved"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case Submitted, InProgress, Resolved:
		return true
	}
	return false
}

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (p GeoPoint) Longitude() float64 { return p.Coordinates[0] }
func (p GeoPoint) Latitude() float64  { return p.Coordinates[1] }

// Submitter is the non-owning reference a report keeps to its citizen.
type Submitter struct {
	ID   primitive.ObjectID `bson:"id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// Report represents a civic issue submitted by a citizen
type Report struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    Category           `bson:"category" json:"category"`
	Status      ReportStatus       `bson:"status" json:"status"`
	Location    GeoPoint           `bson:"location" json:"location"`
	Photo       *string            `bson:"photo,omitempty" json:"photo,omitempty"`
	SubmittedBy Submitter          `bson:"submittedBy" json:"submittedBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
