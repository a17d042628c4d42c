package matchservice

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
)

// importAlphaMatch seeds the store with one imported club match and returns
// its name.
func importAlphaMatch(t *testing.T, service *MatchService) string {
	t.Helper()
	content := buildContainer(t, map[string]any{
		"club": []matchdto.RawClub{
			{ClubID: 1, Name: "Alpha"},
		},
		"match": []matchdto.RawMatch{
			{MatchID: 400, Name: "Alpha Monthly", ClubID: 1},
		},
		"stage": []matchdto.RawStage{
			{StageID: 41, MatchID: 400, Number: 1, MaxPoints: 100},
		},
		"enrolled": []matchdto.RawEnrolled{
			{MemberID: 1, MatchID: 400, ClubID: 1},
		},
		"member": []matchdto.RawMember{
			{MemberID: 1, Alias: "3001", FirstName: "Kim", LastName: "Lee"},
		},
		"score": []matchdto.RawScore{
			{MemberID: 1, MatchID: 400, StageID: 41, Time: 15, FinalScore: 75, LastModified: "2026-04-01 12:00:00"},
		},
	})
	result, err := service.ImportContainer(context.Background(), content)
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	return result.Imported[0].Name
}

func TestRefreshClubRankingsBlankNameIsNoOp(t *testing.T) {
	service := newMemoryService(newMemoryStore(), nil)

	result, err := service.RefreshClubRankings(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, result.Club)
	assert.Empty(t, result.Refreshed)
}

func TestRefreshClubRankingsUnknownClubIsEmptyAck(t *testing.T) {
	service := newMemoryService(newMemoryStore(), nil)

	result, err := service.RefreshClubRankings(context.Background(), "No Such Club")
	require.NoError(t, err)
	assert.Empty(t, result.Refreshed)
}

func TestRefreshClubRankingsStalenessGate(t *testing.T) {
	store := newMemoryStore()
	service := newMemoryService(store, nil)
	matchName := importAlphaMatch(t, service)

	// Everything was refreshed by the import; nothing is stale.
	result, err := service.RefreshClubRankings(context.Background(), "Alpha")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", result.Club)
	assert.Empty(t, result.Refreshed, "fresh rankings must not be recomputed")

	var before time.Time
	for _, match := range store.matches {
		require.NotNil(t, match.RefreshedAt)
		before = *match.RefreshedAt
	}

	// A later edit makes the match stale again.
	for _, match := range store.matches {
		match.EditedAt = time.Now().Add(time.Hour)
	}

	result, err = service.RefreshClubRankings(context.Background(), "Alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{matchName}, result.Refreshed)
	for _, match := range store.matches {
		require.NotNil(t, match.RefreshedAt)
		assert.True(t, match.RefreshedAt.After(before) || match.RefreshedAt.Equal(before))
	}
}

func TestRefreshClubRankingsAcceptsAbbreviation(t *testing.T) {
	store := newMemoryStore()
	service := newMemoryService(store, nil)

	content := buildContainer(t, map[string]any{
		"club": []matchdto.RawClub{
			{ClubID: 1, Name: "Alpha", Abbreviation: "ALP"},
		},
		"match": []matchdto.RawMatch{
			{MatchID: 400, Name: "Alpha Monthly", ClubID: 1},
		},
	})
	_, err := service.ImportContainer(context.Background(), content)
	require.NoError(t, err)

	result, err := service.RefreshClubRankings(context.Background(), "ALP")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", result.Club)
}

func TestRefreshClubMatchRankings(t *testing.T) {
	store := newMemoryStore()
	service := newMemoryService(store, nil)
	matchName := importAlphaMatch(t, service)

	t.Run("blank match name is a no-op", func(t *testing.T) {
		result, err := service.RefreshClubMatchRankings(context.Background(), "Alpha", "")
		require.NoError(t, err)
		assert.Empty(t, result.Refreshed)
	})

	t.Run("unknown match is an empty ack", func(t *testing.T) {
		result, err := service.RefreshClubMatchRankings(context.Background(), "Alpha", "No Such Match")
		require.NoError(t, err)
		assert.Equal(t, "Alpha", result.Club)
		assert.Empty(t, result.Refreshed)
	})

	t.Run("stale match is recomputed", func(t *testing.T) {
		for _, match := range store.matches {
			match.EditedAt = time.Now().Add(time.Hour)
		}
		result, err := service.RefreshClubMatchRankings(context.Background(), "Alpha", matchName)
		require.NoError(t, err)
		assert.Equal(t, []string{matchName}, result.Refreshed)
	})
}

func TestRefreshClubMatchRankingsIgnoresOtherClubsMatch(t *testing.T) {
	store := newMemoryStore()
	service := newMemoryService(store, nil)
	importAlphaMatch(t, service)

	content := buildContainer(t, map[string]any{
		"club": []matchdto.RawClub{
			{ClubID: 2, Name: "Bravo"},
		},
		"match": []matchdto.RawMatch{
			{MatchID: 410, Name: "Bravo Monthly", ClubID: 2},
		},
	})
	_, err := service.ImportContainer(context.Background(), content)
	require.NoError(t, err)

	for _, match := range store.matches {
		match.EditedAt = time.Now().Add(time.Hour)
	}

	// Naming another club's match must not trigger a match-wide recompute.
	result, err := service.RefreshClubMatchRankings(context.Background(), "Alpha", "Bravo Monthly")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", result.Club)
	assert.Empty(t, result.Refreshed)
}

func TestRecomputeKeepsAggregationInvariant(t *testing.T) {
	store := newMemoryStore()
	service := newMemoryService(store, nil)

	// Two competitors over two stages; match points must equal the sum of
	// stage points per competitor and exactly one ranking must be 100.
	content := buildContainer(t, map[string]any{
		"match": []matchdto.RawMatch{
			{MatchID: 500, Name: "Two Stage Match"},
		},
		"stage": []matchdto.RawStage{
			{StageID: 51, MatchID: 500, Number: 1, MaxPoints: 100},
			{StageID: 52, MatchID: 500, Number: 2, MaxPoints: 60},
		},
		"member": []matchdto.RawMember{
			{MemberID: 1, Alias: "1", FirstName: "Ada", LastName: "Ng"},
			{MemberID: 2, Alias: "2", FirstName: "Ben", LastName: "Ito"},
		},
		"score": []matchdto.RawScore{
			{MemberID: 1, MatchID: 500, StageID: 51, Time: 10, FinalScore: 90},
			{MemberID: 1, MatchID: 500, StageID: 52, Time: 6, FinalScore: 50},
			{MemberID: 2, MatchID: 500, StageID: 51, Time: 12, FinalScore: 80},
			{MemberID: 2, MatchID: 500, StageID: 52, Time: 7, FinalScore: 40},
		},
	})
	_, err := service.ImportContainer(context.Background(), content)
	require.NoError(t, err)

	totals := map[int64]float64{}
	for _, link := range store.stageLinks {
		totals[link.CompetitorID] += link.StagePoints
	}

	hundreds := 0
	for _, link := range store.matchLinks {
		assert.Equal(t, totals[link.CompetitorID], link.MatchPoints)
		assert.GreaterOrEqual(t, link.MatchPercentage, 0.0)
		assert.LessOrEqual(t, link.MatchPercentage, 100.0)
		if link.MatchPercentage == 100.0 {
			hundreds++
		}
	}
	assert.Equal(t, 1, hundreds, "exactly the best competitor ranks 100")
}

func TestRecomputeScalesToLargerField(t *testing.T) {
	store := newMemoryStore()
	service := newMemoryService(store, nil)
	faker := gofakeit.New(42)

	const competitors = 25
	stages := []matchdto.RawStage{
		{StageID: 61, MatchID: 600, Number: 1, MaxPoints: 120},
		{StageID: 62, MatchID: 600, Number: 2, MaxPoints: 80},
		{StageID: 63, MatchID: 600, Number: 3, MaxPoints: 100},
	}

	members := make([]matchdto.RawMember, 0, competitors)
	scores := make([]matchdto.RawScore, 0, competitors*len(stages))
	for i := int64(1); i <= competitors; i++ {
		members = append(members, matchdto.RawMember{
			MemberID:  i,
			Alias:     fmt.Sprintf("%d", 4000+i),
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
		})
		for _, stage := range stages {
			scores = append(scores, matchdto.RawScore{
				MemberID:   i,
				MatchID:    600,
				StageID:    stage.StageID,
				Time:       faker.Float64Range(8, 40),
				FinalScore: faker.IntRange(0, stage.MaxPoints),
			})
		}
	}

	content := buildContainer(t, map[string]any{
		"match": []matchdto.RawMatch{
			{MatchID: 600, Name: "Area Qualifier"},
		},
		"stage":  stages,
		"member": members,
		"score":  scores,
	})
	result, err := service.ImportContainer(context.Background(), content)
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, competitors, result.Imported[0].Competitors)

	totals := map[int64]float64{}
	for _, link := range store.stageLinks {
		totals[link.CompetitorID] += link.StagePoints
	}

	hundreds := 0
	best := 0.0
	for _, link := range store.matchLinks {
		assert.InDelta(t, totals[link.CompetitorID], link.MatchPoints, 1e-9)
		assert.GreaterOrEqual(t, link.MatchPercentage, 0.0)
		assert.LessOrEqual(t, link.MatchPercentage, 100.0)
		if link.MatchPercentage == 100.0 {
			hundreds++
		}
		if link.MatchPoints > best {
			best = link.MatchPoints
		}
	}
	assert.Equal(t, 1, hundreds, "exactly the best competitor ranks 100")

	// Per-stage ranks form a contiguous ladder starting at 1.
	byStage := map[int64][]int{}
	for _, link := range store.stageLinks {
		byStage[link.StageID] = append(byStage[link.StageID], link.StageRank)
	}
	for stageID, ranks := range byStage {
		assert.Len(t, ranks, competitors)
		sort.Ints(ranks)
		assert.Equal(t, 1, ranks[0], "stage %d best rank", stageID)
	}
}
