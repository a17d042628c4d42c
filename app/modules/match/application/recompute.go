package matchservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	matchdb "github.com/High-Desert-Practical/match-sync/app/modules/match/infrastructure/repositories"
	"github.com/High-Desert-Practical/match-sync/internal/attr"
)

// recomputeMatch reruns the population-dependent ranking pass for one
// match: stage ranks, aggregate match points and percentage-of-best. Rows
// are written only when a value changed. On success the match's refreshed
// watermark is stamped, both in the store and on the in-memory row.
func (s *MatchService) recomputeMatch(ctx context.Context, db bun.IDB, match *matchdb.Match) error {
	links, err := s.repo.ListStageCompetitorsByMatch(ctx, db, match.ID)
	if err != nil {
		return fmt.Errorf("failed to list stage competitors: %w", err)
	}

	// Stage ranks, per stage.
	byStage := make(map[int64]map[int64]float64)
	for _, link := range links {
		if byStage[link.StageID] == nil {
			byStage[link.StageID] = make(map[int64]float64)
		}
		byStage[link.StageID][link.CompetitorID] = link.StagePoints
	}
	ranksByStage := make(map[int64]map[int64]int, len(byStage))
	for stageID, points := range byStage {
		ranksByStage[stageID] = StageRanks(points)
	}
	for i := range links {
		link := &links[i]
		rank := ranksByStage[link.StageID][link.CompetitorID]
		if link.StageRank == rank {
			continue
		}
		link.StageRank = rank
		if err := s.repo.UpdateStageCompetitor(ctx, db, link); err != nil {
			return fmt.Errorf("failed to update stage rank: %w", err)
		}
	}

	// Match aggregates: a competitor's match points are the sum of its
	// stage points across the match.
	totals := make(map[int64]float64)
	for _, link := range links {
		totals[link.CompetitorID] += link.StagePoints
	}
	rankings := PercentageOfBest(totals)

	matchLinks, err := s.repo.ListMatchCompetitors(ctx, db, match.ID)
	if err != nil {
		return fmt.Errorf("failed to list match competitors: %w", err)
	}
	for i := range matchLinks {
		link := &matchLinks[i]
		points := totals[link.CompetitorID]
		percentage := rankings[link.CompetitorID]
		if link.MatchPoints == points && link.MatchPercentage == percentage {
			continue
		}
		link.MatchPoints = points
		link.MatchPercentage = percentage
		if err := s.repo.UpdateMatchCompetitor(ctx, db, link); err != nil {
			return fmt.Errorf("failed to update match points: %w", err)
		}
	}

	now := time.Now()
	if err := s.repo.SetMatchRefreshedAt(ctx, db, match.ID, now); err != nil {
		return fmt.Errorf("failed to stamp match refresh: %w", err)
	}
	match.RefreshedAt = &now

	s.logger.InfoContext(ctx, "Recomputed match rankings",
		attr.Int64("match_id", match.ID),
		attr.Int("competitors", len(matchLinks)),
	)
	return nil
}

// reconcileClubScope ensures the club-scoped mirror of the match exists,
// seeds a ranking row for every competitor reconciled in this run, and
// recomputes the club-scoped rankings when stale.
func (s *MatchService) reconcileClubScope(ctx context.Context, db bun.IDB, clubID int64, match *matchdb.Match, competitorIDs []int64) error {
	clubMatch, err := s.repo.GetClubMatch(ctx, db, clubID, match.ID)
	if err != nil {
		if !errors.Is(err, matchdb.ErrNotFound) {
			return fmt.Errorf("failed to look up club match: %w", err)
		}
		clubMatch = &matchdb.ClubMatch{ClubID: clubID, MatchID: match.ID}
		if err := s.repo.CreateClubMatch(ctx, db, clubMatch); err != nil {
			return fmt.Errorf("failed to create club match: %w", err)
		}
	}

	for _, competitorID := range competitorIDs {
		_, err := s.repo.GetClubMatchCompetitor(ctx, db, clubMatch.ID, competitorID)
		if err == nil {
			continue
		}
		if !errors.Is(err, matchdb.ErrNotFound) {
			return fmt.Errorf("failed to look up club match competitor: %w", err)
		}
		row := &matchdb.ClubMatchCompetitor{ClubMatchID: clubMatch.ID, CompetitorID: competitorID}
		if err := s.repo.CreateClubMatchCompetitor(ctx, db, row); err != nil {
			return fmt.Errorf("failed to create club match competitor: %w", err)
		}
	}

	if clubMatchStale(clubMatch, match) {
		return s.recomputeClubMatch(ctx, db, clubMatch, match)
	}
	return nil
}

// clubMatchStale compares the club-scoped refresh watermark against the
// match's latest change.
func clubMatchStale(clubMatch *matchdb.ClubMatch, match *matchdb.Match) bool {
	return clubMatch.RefreshedAt == nil || clubMatch.RefreshedAt.Before(match.LatestChange())
}

// recomputeClubMatch reruns percentage-of-best over the club's competitor
// population only. The population is the set of existing club-scoped rows.
func (s *MatchService) recomputeClubMatch(ctx context.Context, db bun.IDB, clubMatch *matchdb.ClubMatch, match *matchdb.Match) error {
	rows, err := s.repo.ListClubMatchCompetitors(ctx, db, clubMatch.ID)
	if err != nil {
		return fmt.Errorf("failed to list club match competitors: %w", err)
	}
	links, err := s.repo.ListStageCompetitorsByMatch(ctx, db, match.ID)
	if err != nil {
		return fmt.Errorf("failed to list stage competitors: %w", err)
	}

	population := make(map[int64]float64, len(rows))
	for _, row := range rows {
		population[row.CompetitorID] = 0
	}
	for _, link := range links {
		if _, member := population[link.CompetitorID]; member {
			population[link.CompetitorID] += link.StagePoints
		}
	}
	rankings := PercentageOfBest(population)

	for i := range rows {
		row := &rows[i]
		points := population[row.CompetitorID]
		percentage := rankings[row.CompetitorID]
		if row.Points == points && row.Percentage == percentage {
			continue
		}
		row.Points = points
		row.Percentage = percentage
		if err := s.repo.UpdateClubMatchCompetitor(ctx, db, row); err != nil {
			return fmt.Errorf("failed to update club match competitor: %w", err)
		}
	}

	now := time.Now()
	if err := s.repo.SetClubMatchRefreshedAt(ctx, db, clubMatch.ID, now); err != nil {
		return fmt.Errorf("failed to stamp club match refresh: %w", err)
	}
	clubMatch.RefreshedAt = &now
	return nil
}
