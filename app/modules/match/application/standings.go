package matchservice

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/uptrace/bun"

	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
	"github.com/High-Desert-Practical/match-sync/internal/results"
)

// GetMatchStandings assembles the named match's standings, best-first. The
// lookup miss propagates as the repository's ErrNotFound so callers can
// distinguish an unknown match from a fault.
func (s *MatchService) GetMatchStandings(ctx context.Context, matchName string) (*matchdto.MatchStandings, error) {
	standingsTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*matchdto.MatchStandings, error], error) {
		return s.matchStandingsLogic(ctx, db, matchName)
	}

	result, err := withTelemetry(s, ctx, "GetMatchStandings", matchName, func(ctx context.Context) (results.OperationResult[*matchdto.MatchStandings, error], error) {
		return runInTx(s, ctx, standingsTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// matchStandingsLogic contains the core logic.
func (s *MatchService) matchStandingsLogic(ctx context.Context, db bun.IDB, matchName string) (results.OperationResult[*matchdto.MatchStandings, error], error) {
	match, err := s.repo.GetMatchByName(ctx, db, strings.TrimSpace(matchName))
	if err != nil {
		return results.FailureResult[*matchdto.MatchStandings, error](err), nil
	}

	links, err := s.repo.ListMatchCompetitors(ctx, db, match.ID)
	if err != nil {
		return results.OperationResult[*matchdto.MatchStandings, error]{}, fmt.Errorf("failed to list match competitors: %w", err)
	}

	standings := &matchdto.MatchStandings{Match: match.Name, Date: match.Date}
	for _, link := range links {
		competitor, err := s.competitorRepo.GetByID(ctx, db, link.CompetitorID)
		if err != nil {
			return results.OperationResult[*matchdto.MatchStandings, error]{}, fmt.Errorf("failed to load competitor %d: %w", link.CompetitorID, err)
		}
		name := strings.TrimSpace(competitor.FirstName + " " + competitor.LastName)
		standings.Rows = append(standings.Rows, matchdto.StandingRow{
			Competitor:  name,
			Division:    link.Division,
			PowerFactor: link.PowerFactor,
			Points:      link.MatchPoints,
			Percentage:  link.MatchPercentage,
		})
	}

	sort.SliceStable(standings.Rows, func(i, j int) bool {
		return standings.Rows[i].Points > standings.Rows[j].Points
	})
	for i := range standings.Rows {
		if i > 0 && standings.Rows[i].Points == standings.Rows[i-1].Points {
			standings.Rows[i].Rank = standings.Rows[i-1].Rank
			continue
		}
		standings.Rows[i].Rank = i + 1
	}

	return results.SuccessResult[*matchdto.MatchStandings, error](standings), nil
}
