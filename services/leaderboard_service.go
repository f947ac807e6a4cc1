package services

import (
	"context"
	"sort"

	"civic-jharkhand-be/models"
	"civic-jharkhand-be/repository"
)

type LeaderboardService struct {
	reports repository.ReportRepository
}

func NewLeaderboardService(reports repository.ReportRepository) *LeaderboardService {
	return &LeaderboardService{reports: reports}
}

// ComputeRanking ranks citizens by report count, highest first. Equal counts
// are ordered by ascending citizen id so the ranking is stable across calls.
// Ranks run 1..N without gaps.
func (s *LeaderboardService) ComputeRanking(ctx context.Context) ([]models.LeaderboardEntry, error) {
	counts, err := s.reports.CountBySubmitter(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].ID.Hex() < counts[j].ID.Hex()
	})

	ranking := make([]models.LeaderboardEntry, len(counts))
	for i, c := range counts {
		ranking[i] = models.LeaderboardEntry{
			CitizenID:   c.ID,
			Name:        c.Name,
			ReportCount: c.Count,
			Points:      c.Count * models.PointsPerReport,
			Rank:        i + 1,
		}
	}
	return ranking, nil
}
