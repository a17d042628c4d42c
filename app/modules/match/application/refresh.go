package matchservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	clubdb "github.com/High-Desert-Practical/match-sync/app/modules/club/infrastructure/repositories"
	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
	matchdb "github.com/High-Desert-Practical/match-sync/app/modules/match/infrastructure/repositories"
	"github.com/High-Desert-Practical/match-sync/internal/results"
)

// RefreshClubRankings re-evaluates staleness for every match of the named
// club and recomputes where needed. A blank name short-circuits to an empty
// acknowledgement; an unknown club is likewise an empty acknowledgement,
// not an error.
func (s *MatchService) RefreshClubRankings(ctx context.Context, clubName string) (*matchdto.RefreshResult, error) {
	clubName = strings.TrimSpace(clubName)
	if clubName == "" {
		return &matchdto.RefreshResult{}, nil
	}

	refreshTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*matchdto.RefreshResult, error], error) {
		return s.refreshLogic(ctx, db, clubName, "")
	}

	result, err := withTelemetry(s, ctx, "RefreshClubRankings", clubName, func(ctx context.Context) (results.OperationResult[*matchdto.RefreshResult, error], error) {
		return runInTx(s, ctx, refreshTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	s.publishRefresh(ctx, *result.Success)
	return *result.Success, nil
}

// RefreshClubMatchRankings is RefreshClubRankings scoped to one match.
// Blank arguments short-circuit to an empty acknowledgement.
func (s *MatchService) RefreshClubMatchRankings(ctx context.Context, clubName, matchName string) (*matchdto.RefreshResult, error) {
	clubName = strings.TrimSpace(clubName)
	matchName = strings.TrimSpace(matchName)
	if clubName == "" || matchName == "" {
		return &matchdto.RefreshResult{}, nil
	}

	refreshTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*matchdto.RefreshResult, error], error) {
		return s.refreshLogic(ctx, db, clubName, matchName)
	}

	result, err := withTelemetry(s, ctx, "RefreshClubMatchRankings", clubName+"/"+matchName, func(ctx context.Context) (results.OperationResult[*matchdto.RefreshResult, error], error) {
		return runInTx(s, ctx, refreshTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	s.publishRefresh(ctx, *result.Success)
	return *result.Success, nil
}

// refreshLogic contains the core logic. An empty matchName means every
// match of the club.
func (s *MatchService) refreshLogic(ctx context.Context, db bun.IDB, clubName, matchName string) (results.OperationResult[*matchdto.RefreshResult, error], error) {
	club, err := s.clubRepo.GetByNameOrAbbreviation(ctx, db, clubName)
	if err != nil {
		if errors.Is(err, clubdb.ErrNotFound) {
			return results.SuccessResult[*matchdto.RefreshResult, error](&matchdto.RefreshResult{}), nil
		}
		return results.OperationResult[*matchdto.RefreshResult, error]{}, fmt.Errorf("failed to look up club %q: %w", clubName, err)
	}

	var matches []matchdb.Match
	if matchName != "" {
		match, err := s.repo.GetMatchByName(ctx, db, matchName)
		if err != nil {
			if errors.Is(err, matchdb.ErrNotFound) {
				return results.SuccessResult[*matchdto.RefreshResult, error](&matchdto.RefreshResult{Club: club.Name}), nil
			}
			return results.OperationResult[*matchdto.RefreshResult, error]{}, fmt.Errorf("failed to look up match %q: %w", matchName, err)
		}
		owned, err := s.clubOwnsMatch(ctx, db, club.ID, match)
		if err != nil {
			return results.OperationResult[*matchdto.RefreshResult, error]{}, err
		}
		if !owned {
			// Another club's match: nothing of this club's is stale here.
			return results.SuccessResult[*matchdto.RefreshResult, error](&matchdto.RefreshResult{Club: club.Name}), nil
		}
		matches = []matchdb.Match{*match}
	} else {
		matches, err = s.repo.ListMatchesByClub(ctx, db, club.ID)
		if err != nil {
			return results.OperationResult[*matchdto.RefreshResult, error]{}, fmt.Errorf("failed to list matches for club %q: %w", clubName, err)
		}
	}

	out := &matchdto.RefreshResult{Club: club.Name}
	for i := range matches {
		refreshed, err := s.refreshMatchForClub(ctx, db, club.ID, &matches[i])
		if err != nil {
			return results.OperationResult[*matchdto.RefreshResult, error]{}, err
		}
		if refreshed {
			out.Refreshed = append(out.Refreshed, matches[i].Name)
		}
	}
	return results.SuccessResult[*matchdto.RefreshResult, error](out), nil
}

// clubOwnsMatch reports whether the match belongs to the club: either the
// match declares the club, or a club-scoped mirror exists for the pair.
func (s *MatchService) clubOwnsMatch(ctx context.Context, db bun.IDB, clubID int64, match *matchdb.Match) (bool, error) {
	if match.ClubID != nil && *match.ClubID == clubID {
		return true, nil
	}
	_, err := s.repo.GetClubMatch(ctx, db, clubID, match.ID)
	if err != nil {
		if errors.Is(err, matchdb.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up club match: %w", err)
	}
	return true, nil
}

// refreshMatchForClub recomputes the match-wide and club-scoped rankings
// for one match where their watermarks are stale. It reports whether
// anything was recomputed.
func (s *MatchService) refreshMatchForClub(ctx context.Context, db bun.IDB, clubID int64, match *matchdb.Match) (bool, error) {
	refreshed := false
	if match.IsStale() {
		if err := s.recomputeMatch(ctx, db, match); err != nil {
			return false, err
		}
		refreshed = true
	}

	clubMatch, err := s.repo.GetClubMatch(ctx, db, clubID, match.ID)
	if err != nil {
		if errors.Is(err, matchdb.ErrNotFound) {
			return refreshed, nil
		}
		return false, fmt.Errorf("failed to look up club match: %w", err)
	}
	if clubMatchStale(clubMatch, match) {
		if err := s.recomputeClubMatch(ctx, db, clubMatch, match); err != nil {
			return false, err
		}
		refreshed = true
	}
	return refreshed, nil
}

func (s *MatchService) publishRefresh(ctx context.Context, result *matchdto.RefreshResult) {
	if result == nil || len(result.Refreshed) == 0 {
		return
	}
	s.publishEvent(ctx, TopicRankingsRefreshed, result)
}
