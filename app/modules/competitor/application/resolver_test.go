package competitorservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	competitordb "github.com/High-Desert-Practical/match-sync/app/modules/competitor/infrastructure/repositories"
	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
	"github.com/High-Desert-Practical/match-sync/internal/observability"
)

func newTestResolver(repo *FakeCompetitorRepo, excluded []int64) *Resolver {
	return NewResolver(repo, slog.Default(), observability.NewNoop(), nil, excluded, false)
}

func int64Ptr(v int64) *int64 { return &v }

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestResolve_ByRegistration(t *testing.T) {
	existing := &competitordb.Competitor{
		ID:           42,
		FirstName:    "Jane",
		LastName:     "Doe",
		Registration: int64Ptr(5001),
	}

	repo := NewFakeCompetitorRepo()
	repo.GetByRegistrationFunc = func(ctx context.Context, db bun.IDB, registration int64) (*competitordb.Competitor, error) {
		require.Equal(t, int64(5001), registration)
		return existing, nil
	}

	resolver := newTestResolver(repo, []int64{0})
	res, err := resolver.Resolve(context.Background(), nil, matchdto.RawMember{
		Alias:     "5001",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.True(t, res.Existing)
	assert.Equal(t, int64(42), res.Competitor.ID)
	// Name lookup is never reached when registration matches.
	assert.NotContains(t, repo.trace, "ListByName")
}

func TestResolve_ExcludedAliasFallsThroughToName(t *testing.T) {
	// A competitor with registration 0 exists, but alias "0" is a
	// configured placeholder and must never match it.
	repo := NewFakeCompetitorRepo()
	repo.GetByRegistrationFunc = func(ctx context.Context, db bun.IDB, registration int64) (*competitordb.Competitor, error) {
		t.Fatal("registration lookup must not run for an excluded alias")
		return nil, nil
	}
	repo.ListByNameFunc = func(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error) {
		return []competitordb.Competitor{{ID: 7, FirstName: firstName, LastName: lastName}}, nil
	}

	resolver := newTestResolver(repo, []int64{0})
	res, err := resolver.Resolve(context.Background(), nil, matchdto.RawMember{
		Alias:     "0",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.True(t, res.Existing)
	assert.Equal(t, int64(7), res.Competitor.ID)
	// The placeholder alias must not be recorded as a registration either.
	assert.Nil(t, res.Competitor.Registration)
}

func TestResolve_NewCompetitorAssembled(t *testing.T) {
	repo := NewFakeCompetitorRepo()

	resolver := newTestResolver(repo, []int64{0})
	res, err := resolver.Resolve(context.Background(), nil, matchdto.RawMember{
		Alias:       "5001",
		FirstName:   " Jane ",
		LastName:    "Doe",
		DateOfBirth: "1990-06-15",
	})
	require.NoError(t, err)
	assert.False(t, res.Existing)
	assert.Zero(t, res.Competitor.ID)
	assert.Equal(t, "Jane", res.Competitor.FirstName)
	require.NotNil(t, res.Competitor.Registration)
	assert.Equal(t, int64(5001), *res.Competitor.Registration)
	assert.Equal(t, "5001", res.Competitor.CompetitorNumber)
	require.NotNil(t, res.Competitor.DateOfBirth)
	assert.Equal(t, 1990, res.Competitor.DateOfBirth.Year())
	assert.Equal(t, competitordb.CategoryNone, res.Competitor.Category)
}

func TestResolve_DateOfBirthNarrowing(t *testing.T) {
	candidates := []competitordb.Competitor{
		{ID: 1, FirstName: "Jane", LastName: "Doe", Registration: int64Ptr(100), DateOfBirth: datePtr(1980, time.January, 1)},
		{ID: 2, FirstName: "Jane", LastName: "Doe", Registration: int64Ptr(200), DateOfBirth: datePtr(1990, time.June, 15)},
	}

	repo := NewFakeCompetitorRepo()
	repo.ListByNameFunc = func(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error) {
		return candidates, nil
	}

	resolver := newTestResolver(repo, nil)
	res, err := resolver.Resolve(context.Background(), nil, matchdto.RawMember{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "1990-06-15",
	})
	require.NoError(t, err)
	assert.True(t, res.Existing)
	assert.Equal(t, int64(2), res.Competitor.ID)
}

func TestResolve_DifferingDateOfBirthCreatesNew(t *testing.T) {
	// The only same-name candidate carries a different stored DOB: this is
	// a different person, not a match.
	candidates := []competitordb.Competitor{
		{ID: 77, FirstName: "Jane", LastName: "Doe", Registration: int64Ptr(100), DateOfBirth: datePtr(1980, time.January, 1)},
	}

	repo := NewFakeCompetitorRepo()
	repo.ListByNameFunc = func(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error) {
		return candidates, nil
	}

	resolver := newTestResolver(repo, nil)
	res, err := resolver.Resolve(context.Background(), nil, matchdto.RawMember{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "1990-06-15",
	})
	require.NoError(t, err)
	assert.False(t, res.Existing)
	assert.Zero(t, res.Competitor.ID)
	require.NotNil(t, res.Competitor.DateOfBirth)
	assert.Equal(t, 1990, res.Competitor.DateOfBirth.Year())
}

func TestResolve_MissingStoredDateOfBirthStaysEligible(t *testing.T) {
	// A candidate without a stored DOB is a placeholder awaiting
	// enrichment; a supplied DOB must not rule it out.
	candidates := []competitordb.Competitor{
		{ID: 4, FirstName: "Jane", LastName: "Doe"},
	}

	repo := NewFakeCompetitorRepo()
	repo.ListByNameFunc = func(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error) {
		return candidates, nil
	}

	resolver := newTestResolver(repo, nil)
	res, err := resolver.Resolve(context.Background(), nil, matchdto.RawMember{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "1990-06-15",
	})
	require.NoError(t, err)
	assert.True(t, res.Existing)
	assert.Equal(t, int64(4), res.Competitor.ID)
	require.NotNil(t, res.Competitor.DateOfBirth)
}

func TestResolve_PrefersPlaceholderWithoutRegistration(t *testing.T) {
	candidates := []competitordb.Competitor{
		{ID: 1, FirstName: "Jane", LastName: "Doe", Registration: int64Ptr(100)},
		{ID: 2, FirstName: "Jane", LastName: "Doe"},
	}

	repo := NewFakeCompetitorRepo()
	repo.ListByNameFunc = func(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error) {
		return candidates, nil
	}

	resolver := newTestResolver(repo, nil)
	res, err := resolver.Resolve(context.Background(), nil, matchdto.RawMember{
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Competitor.ID)
}

func TestResolve_TieBreakLowestID(t *testing.T) {
	// Multiple candidates share name and DOB and all carry a registration:
	// the lowest id wins.
	candidates := []competitordb.Competitor{
		{ID: 3, FirstName: "Jane", LastName: "Doe", Registration: int64Ptr(100), DateOfBirth: datePtr(1990, time.June, 15)},
		{ID: 9, FirstName: "Jane", LastName: "Doe", Registration: int64Ptr(200), DateOfBirth: datePtr(1990, time.June, 15)},
	}

	repo := NewFakeCompetitorRepo()
	repo.ListByNameFunc = func(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error) {
		return candidates, nil
	}

	resolver := newTestResolver(repo, nil)
	res, err := resolver.Resolve(context.Background(), nil, matchdto.RawMember{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "1990-06-15",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Competitor.ID)
}

func TestResolve_Deterministic(t *testing.T) {
	candidates := []competitordb.Competitor{
		{ID: 5, FirstName: "Jane", LastName: "Doe", Registration: int64Ptr(100)},
		{ID: 6, FirstName: "Jane", LastName: "Doe", Registration: int64Ptr(200)},
	}

	repo := NewFakeCompetitorRepo()
	repo.ListByNameFunc = func(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error) {
		return candidates, nil
	}

	resolver := newTestResolver(repo, nil)
	member := matchdto.RawMember{FirstName: "Jane", LastName: "Doe"}

	first, err := resolver.Resolve(context.Background(), nil, member)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := resolver.Resolve(context.Background(), nil, member)
		require.NoError(t, err)
		assert.Equal(t, first.Competitor.ID, again.Competitor.ID)
		assert.Equal(t, first.Existing, again.Existing)
	}
}

func TestResolve_MergeEnrichesPlaceholder(t *testing.T) {
	existing := &competitordb.Competitor{
		ID:        11,
		FirstName: "Jane",
		LastName:  "Doe",
	}

	repo := NewFakeCompetitorRepo()
	repo.ListByNameFunc = func(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error) {
		return []competitordb.Competitor{*existing}, nil
	}

	resolver := newTestResolver(repo, []int64{0})
	res, err := resolver.Resolve(context.Background(), nil, matchdto.RawMember{
		Alias:       "7777",
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "1985-02-03",
	})
	require.NoError(t, err)

	// GetByRegistration found nothing, so the chain fell through to name
	// matching; the merged record is enriched but keeps its identity.
	assert.Equal(t, int64(11), res.Competitor.ID)
	require.NotNil(t, res.Competitor.Registration)
	assert.Equal(t, int64(7777), *res.Competitor.Registration)
	require.NotNil(t, res.Competitor.DateOfBirth)
	// The stored row itself is never mutated.
	assert.Nil(t, existing.Registration)
}

func TestResolve_RepositoryErrorPropagates(t *testing.T) {
	repo := NewFakeCompetitorRepo()
	repo.ListByNameFunc = func(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error) {
		return nil, errors.New("database connection failed")
	}

	resolver := newTestResolver(repo, nil)
	_, err := resolver.Resolve(context.Background(), nil, matchdto.RawMember{
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.Error(t, err)
}
