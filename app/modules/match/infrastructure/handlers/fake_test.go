package matchhandlers

import (
	"context"
	"io"

	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
)

// ------------------------
// Fake Match Service
// ------------------------

type FakeMatchService struct {
	trace []string

	ImportContainerFunc          func(ctx context.Context, content []byte) (*matchdto.ImportResult, error)
	RefreshClubRankingsFunc      func(ctx context.Context, clubName string) (*matchdto.RefreshResult, error)
	RefreshClubMatchRankingsFunc func(ctx context.Context, clubName, matchName string) (*matchdto.RefreshResult, error)
	GetMatchStandingsFunc        func(ctx context.Context, matchName string) (*matchdto.MatchStandings, error)
}

func NewFakeMatchService() *FakeMatchService {
	return &FakeMatchService{
		trace: []string{},
	}
}

func (f *FakeMatchService) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeMatchService) ImportContainer(ctx context.Context, content []byte) (*matchdto.ImportResult, error) {
	f.record("ImportContainer")
	if f.ImportContainerFunc != nil {
		return f.ImportContainerFunc(ctx, content)
	}
	return &matchdto.ImportResult{}, nil
}

func (f *FakeMatchService) RefreshClubRankings(ctx context.Context, clubName string) (*matchdto.RefreshResult, error) {
	f.record("RefreshClubRankings")
	if f.RefreshClubRankingsFunc != nil {
		return f.RefreshClubRankingsFunc(ctx, clubName)
	}
	return &matchdto.RefreshResult{}, nil
}

func (f *FakeMatchService) RefreshClubMatchRankings(ctx context.Context, clubName, matchName string) (*matchdto.RefreshResult, error) {
	f.record("RefreshClubMatchRankings")
	if f.RefreshClubMatchRankingsFunc != nil {
		return f.RefreshClubMatchRankingsFunc(ctx, clubName, matchName)
	}
	return &matchdto.RefreshResult{}, nil
}

func (f *FakeMatchService) GetMatchStandings(ctx context.Context, matchName string) (*matchdto.MatchStandings, error) {
	f.record("GetMatchStandings")
	if f.GetMatchStandingsFunc != nil {
		return f.GetMatchStandingsFunc(ctx, matchName)
	}
	return &matchdto.MatchStandings{Match: matchName}, nil
}

// ------------------------
// Fake Standings Writer
// ------------------------

type FakeStandingsWriter struct {
	WriteFunc func(w io.Writer, standings *matchdto.MatchStandings) error
}

func (f *FakeStandingsWriter) Write(w io.Writer, standings *matchdto.MatchStandings) error {
	if f.WriteFunc != nil {
		return f.WriteFunc(w, standings)
	}
	_, err := w.Write([]byte("workbook"))
	return err
}
