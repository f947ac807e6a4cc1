package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PointsPerReport is the multiplier shown on the leaderboard.
const PointsPerReport = 100

// SubmitterCount is one group of the per-citizen report count.
type SubmitterCount struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Count int                `bson:"count" json:"count"`
}

type LeaderboardEntry struct {
	CitizenID   primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	ReportCount int                `json:"reportCount"`
	Points      int                `json:"points"`
	Rank        int                `json:"rank"`
}
