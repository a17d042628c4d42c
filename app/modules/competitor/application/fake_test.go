package competitorservice

import (
	"context"

	"github.com/uptrace/bun"

	competitordb "github.com/High-Desert-Practical/match-sync/app/modules/competitor/infrastructure/repositories"
)

// ------------------------
// Fake Competitor Repo
// ------------------------

type FakeCompetitorRepo struct {
	trace []string

	GetByIDFunc           func(ctx context.Context, db bun.IDB, id int64) (*competitordb.Competitor, error)
	GetByRegistrationFunc func(ctx context.Context, db bun.IDB, registration int64) (*competitordb.Competitor, error)
	ListByNameFunc        func(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error)
	CreateFunc            func(ctx context.Context, db bun.IDB, competitor *competitordb.Competitor) error
	UpdateFunc            func(ctx context.Context, db bun.IDB, competitor *competitordb.Competitor) error
}

func NewFakeCompetitorRepo() *FakeCompetitorRepo {
	return &FakeCompetitorRepo{
		trace: []string{},
	}
}

func (f *FakeCompetitorRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeCompetitorRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*competitordb.Competitor, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, competitordb.ErrNotFound
}

func (f *FakeCompetitorRepo) GetByRegistration(ctx context.Context, db bun.IDB, registration int64) (*competitordb.Competitor, error) {
	f.record("GetByRegistration")
	if f.GetByRegistrationFunc != nil {
		return f.GetByRegistrationFunc(ctx, db, registration)
	}
	return nil, competitordb.ErrNotFound
}

func (f *FakeCompetitorRepo) ListByName(ctx context.Context, db bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error) {
	f.record("ListByName")
	if f.ListByNameFunc != nil {
		return f.ListByNameFunc(ctx, db, firstName, lastName, caseSensitive)
	}
	return nil, nil
}

func (f *FakeCompetitorRepo) Create(ctx context.Context, db bun.IDB, competitor *competitordb.Competitor) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, competitor)
	}
	return nil
}

func (f *FakeCompetitorRepo) Update(ctx context.Context, db bun.IDB, competitor *competitordb.Competitor) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, competitor)
	}
	return nil
}
