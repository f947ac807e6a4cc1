package services

import (
	"context"
	"testing"

	"civic-jharkhand-be/models"
	"civic-jharkhand-be/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRanking(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryReportRepository()
	reports := NewReportService(repo, nil)
	board := NewLeaderboardService(repo)

	a, b, c := citizen("A"), citizen("B"), citizen("C")
	for who, n := range map[*models.User]int{a: 5, b: 5, c: 2} {
		for i := 0; i < n; i++ {
			_, err := reports.Create(ctx, who, reportInput(models.Trash, 85.30, 23.34))
			require.NoError(t, err)
		}
	}

	ranking, err := board.ComputeRanking(ctx)
	require.NoError(t, err)
	require.Len(t, ranking, 3)

	for i, entry := range ranking {
		assert.Equal(t, i+1, entry.Rank)
		assert.Equal(t, entry.ReportCount*models.PointsPerReport, entry.Points)
	}
	assert.Equal(t, 5, ranking[0].ReportCount)
	assert.Equal(t, 5, ranking[1].ReportCount)
	assert.Equal(t, c.ID, ranking[2].CitizenID)
	assert.Equal(t, 2, ranking[2].ReportCount)
	assert.Equal(t, "C", ranking[2].Name)

	again, err := board.ComputeRanking(ctx)
	require.NoError(t, err)
	assert.Equal(t, ranking, again, "tie order must be stable")
	assert.Less(t, ranking[0].CitizenID.Hex(), ranking[1].CitizenID.Hex())
}

func TestComputeRankingEmpty(t *testing.T) {
	board := NewLeaderboardService(repository.NewMemoryReportRepository())

	ranking, err := board.ComputeRanking(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ranking)
}
