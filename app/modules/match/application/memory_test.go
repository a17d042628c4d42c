package matchservice

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"

	clubdb "github.com/High-Desert-Practical/match-sync/app/modules/club/infrastructure/repositories"
	competitorservice "github.com/High-Desert-Practical/match-sync/app/modules/competitor/application"
	competitordb "github.com/High-Desert-Practical/match-sync/app/modules/competitor/infrastructure/repositories"
	matchdb "github.com/High-Desert-Practical/match-sync/app/modules/match/infrastructure/repositories"
	"github.com/High-Desert-Practical/match-sync/internal/observability"
)

// memoryStore is a stateful in-memory stand-in for the Postgres store. It
// backs the pipeline scenario tests, which exercise the full import and
// refresh flows without a database. The service runs with a nil *bun.DB,
// so every repository call receives a nil handle and the store ignores it.
type memoryStore struct {
	clubs       map[int64]*clubdb.Club
	competitors map[int64]*competitordb.Competitor
	matches     map[int64]*matchdb.Match
	stages      map[int64]*matchdb.Stage
	matchLinks  map[int64]*matchdb.MatchCompetitor
	stageLinks  map[int64]*matchdb.StageCompetitor
	clubMatches map[int64]*matchdb.ClubMatch
	clubLinks   map[int64]*matchdb.ClubMatchCompetitor
	nextID      int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		clubs:       map[int64]*clubdb.Club{},
		competitors: map[int64]*competitordb.Competitor{},
		matches:     map[int64]*matchdb.Match{},
		stages:      map[int64]*matchdb.Stage{},
		matchLinks:  map[int64]*matchdb.MatchCompetitor{},
		stageLinks:  map[int64]*matchdb.StageCompetitor{},
		clubMatches: map[int64]*matchdb.ClubMatch{},
		clubLinks:   map[int64]*matchdb.ClubMatchCompetitor{},
	}
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

// rowCounts summarizes store size for idempotence assertions.
func (m *memoryStore) rowCounts() map[string]int {
	return map[string]int{
		"clubs":       len(m.clubs),
		"competitors": len(m.competitors),
		"matches":     len(m.matches),
		"stages":      len(m.stages),
		"matchLinks":  len(m.matchLinks),
		"stageLinks":  len(m.stageLinks),
		"clubMatches": len(m.clubMatches),
		"clubLinks":   len(m.clubLinks),
	}
}

// --- club repository ---

type memoryClubRepo struct{ store *memoryStore }

func (r *memoryClubRepo) GetByID(_ context.Context, _ bun.IDB, id int64) (*clubdb.Club, error) {
	if club, ok := r.store.clubs[id]; ok {
		c := *club
		return &c, nil
	}
	return nil, clubdb.ErrNotFound
}

func (r *memoryClubRepo) GetByName(_ context.Context, _ bun.IDB, name string) (*clubdb.Club, error) {
	for _, club := range r.store.clubs {
		if club.Name == name {
			c := *club
			return &c, nil
		}
	}
	return nil, clubdb.ErrNotFound
}

func (r *memoryClubRepo) GetByAbbreviation(_ context.Context, _ bun.IDB, abbreviation string) (*clubdb.Club, error) {
	for _, club := range r.store.clubs {
		if club.Abbreviation == abbreviation {
			c := *club
			return &c, nil
		}
	}
	return nil, clubdb.ErrNotFound
}

func (r *memoryClubRepo) GetByNameOrAbbreviation(ctx context.Context, db bun.IDB, value string) (*clubdb.Club, error) {
	if club, err := r.GetByName(ctx, db, value); err == nil {
		return club, nil
	}
	return r.GetByAbbreviation(ctx, db, value)
}

func (r *memoryClubRepo) List(_ context.Context, _ bun.IDB) ([]clubdb.Club, error) {
	clubs := make([]clubdb.Club, 0, len(r.store.clubs))
	for _, club := range r.store.clubs {
		clubs = append(clubs, *club)
	}
	sort.Slice(clubs, func(i, j int) bool { return clubs[i].Name < clubs[j].Name })
	return clubs, nil
}

func (r *memoryClubRepo) Create(_ context.Context, _ bun.IDB, club *clubdb.Club) error {
	club.ID = r.store.id()
	c := *club
	r.store.clubs[club.ID] = &c
	return nil
}

func (r *memoryClubRepo) Update(_ context.Context, _ bun.IDB, club *clubdb.Club) error {
	if _, ok := r.store.clubs[club.ID]; !ok {
		return clubdb.ErrNotFound
	}
	c := *club
	r.store.clubs[club.ID] = &c
	return nil
}

// --- competitor repository ---

type memoryCompetitorRepo struct{ store *memoryStore }

func (r *memoryCompetitorRepo) GetByID(_ context.Context, _ bun.IDB, id int64) (*competitordb.Competitor, error) {
	if competitor, ok := r.store.competitors[id]; ok {
		c := *competitor
		return &c, nil
	}
	return nil, competitordb.ErrNotFound
}

func (r *memoryCompetitorRepo) GetByRegistration(_ context.Context, _ bun.IDB, registration int64) (*competitordb.Competitor, error) {
	for _, competitor := range r.store.competitors {
		if competitor.Registration != nil && *competitor.Registration == registration {
			c := *competitor
			return &c, nil
		}
	}
	return nil, competitordb.ErrNotFound
}

func (r *memoryCompetitorRepo) ListByName(_ context.Context, _ bun.IDB, firstName, lastName string, caseSensitive bool) ([]competitordb.Competitor, error) {
	equal := func(a, b string) bool {
		if caseSensitive {
			return a == b
		}
		return strings.EqualFold(a, b)
	}
	var out []competitordb.Competitor
	for _, competitor := range r.store.competitors {
		if equal(competitor.FirstName, firstName) && equal(competitor.LastName, lastName) {
			out = append(out, *competitor)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryCompetitorRepo) Create(_ context.Context, _ bun.IDB, competitor *competitordb.Competitor) error {
	competitor.ID = r.store.id()
	c := *competitor
	r.store.competitors[competitor.ID] = &c
	return nil
}

func (r *memoryCompetitorRepo) Update(_ context.Context, _ bun.IDB, competitor *competitordb.Competitor) error {
	if _, ok := r.store.competitors[competitor.ID]; !ok {
		return competitordb.ErrNotFound
	}
	c := *competitor
	r.store.competitors[competitor.ID] = &c
	return nil
}

// --- match repository ---

type memoryMatchRepo struct{ store *memoryStore }

func (r *memoryMatchRepo) GetMatchByID(_ context.Context, _ bun.IDB, id int64) (*matchdb.Match, error) {
	if match, ok := r.store.matches[id]; ok {
		m := *match
		return &m, nil
	}
	return nil, matchdb.ErrNotFound
}

func (r *memoryMatchRepo) GetMatchByName(_ context.Context, _ bun.IDB, name string) (*matchdb.Match, error) {
	for _, match := range r.store.matches {
		if match.Name == name {
			m := *match
			return &m, nil
		}
	}
	return nil, matchdb.ErrNotFound
}

func (r *memoryMatchRepo) ListMatchesByClub(_ context.Context, _ bun.IDB, clubID int64) ([]matchdb.Match, error) {
	var out []matchdb.Match
	for _, match := range r.store.matches {
		if match.ClubID != nil && *match.ClubID == clubID {
			out = append(out, *match)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryMatchRepo) CreateMatch(_ context.Context, _ bun.IDB, match *matchdb.Match) error {
	match.ID = r.store.id()
	now := time.Now()
	match.CreatedAt = now
	match.UpdatedAt = now
	m := *match
	r.store.matches[match.ID] = &m
	return nil
}

func (r *memoryMatchRepo) UpdateMatch(_ context.Context, _ bun.IDB, match *matchdb.Match) error {
	stored, ok := r.store.matches[match.ID]
	if !ok {
		return matchdb.ErrNotFound
	}
	match.CreatedAt = stored.CreatedAt
	match.RefreshedAt = stored.RefreshedAt
	match.UpdatedAt = time.Now()
	m := *match
	r.store.matches[match.ID] = &m
	return nil
}

func (r *memoryMatchRepo) SetMatchRefreshedAt(_ context.Context, _ bun.IDB, matchID int64, refreshedAt time.Time) error {
	match, ok := r.store.matches[matchID]
	if !ok {
		return matchdb.ErrNotFound
	}
	t := refreshedAt
	match.RefreshedAt = &t
	return nil
}

func (r *memoryMatchRepo) GetStageByNumber(_ context.Context, _ bun.IDB, matchID int64, number int) (*matchdb.Stage, error) {
	for _, stage := range r.store.stages {
		if stage.MatchID == matchID && stage.Number == number {
			s := *stage
			return &s, nil
		}
	}
	return nil, matchdb.ErrNotFound
}

func (r *memoryMatchRepo) ListStagesByMatch(_ context.Context, _ bun.IDB, matchID int64) ([]matchdb.Stage, error) {
	var out []matchdb.Stage
	for _, stage := range r.store.stages {
		if stage.MatchID == matchID {
			out = append(out, *stage)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *memoryMatchRepo) CreateStage(_ context.Context, _ bun.IDB, stage *matchdb.Stage) error {
	stage.ID = r.store.id()
	s := *stage
	r.store.stages[stage.ID] = &s
	return nil
}

func (r *memoryMatchRepo) UpdateStage(_ context.Context, _ bun.IDB, stage *matchdb.Stage) error {
	if _, ok := r.store.stages[stage.ID]; !ok {
		return matchdb.ErrNotFound
	}
	s := *stage
	r.store.stages[stage.ID] = &s
	return nil
}

func (r *memoryMatchRepo) GetMatchCompetitor(_ context.Context, _ bun.IDB, matchID, competitorID int64) (*matchdb.MatchCompetitor, error) {
	for _, link := range r.store.matchLinks {
		if link.MatchID == matchID && link.CompetitorID == competitorID {
			l := *link
			return &l, nil
		}
	}
	return nil, matchdb.ErrNotFound
}

func (r *memoryMatchRepo) ListMatchCompetitors(_ context.Context, _ bun.IDB, matchID int64) ([]matchdb.MatchCompetitor, error) {
	var out []matchdb.MatchCompetitor
	for _, link := range r.store.matchLinks {
		if link.MatchID == matchID {
			out = append(out, *link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryMatchRepo) CreateMatchCompetitor(_ context.Context, _ bun.IDB, link *matchdb.MatchCompetitor) error {
	link.ID = r.store.id()
	l := *link
	r.store.matchLinks[link.ID] = &l
	return nil
}

func (r *memoryMatchRepo) UpdateMatchCompetitor(_ context.Context, _ bun.IDB, link *matchdb.MatchCompetitor) error {
	if _, ok := r.store.matchLinks[link.ID]; !ok {
		return matchdb.ErrNotFound
	}
	l := *link
	r.store.matchLinks[link.ID] = &l
	return nil
}

func (r *memoryMatchRepo) GetStageCompetitor(_ context.Context, _ bun.IDB, stageID, competitorID int64) (*matchdb.StageCompetitor, error) {
	for _, link := range r.store.stageLinks {
		if link.StageID == stageID && link.CompetitorID == competitorID {
			l := *link
			return &l, nil
		}
	}
	return nil, matchdb.ErrNotFound
}

func (r *memoryMatchRepo) ListStageCompetitorsByStage(_ context.Context, _ bun.IDB, stageID int64) ([]matchdb.StageCompetitor, error) {
	var out []matchdb.StageCompetitor
	for _, link := range r.store.stageLinks {
		if link.StageID == stageID {
			out = append(out, *link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryMatchRepo) ListStageCompetitorsByMatch(_ context.Context, _ bun.IDB, matchID int64) ([]matchdb.StageCompetitor, error) {
	var out []matchdb.StageCompetitor
	for _, link := range r.store.stageLinks {
		stage, ok := r.store.stages[link.StageID]
		if ok && stage.MatchID == matchID {
			out = append(out, *link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryMatchRepo) CreateStageCompetitor(_ context.Context, _ bun.IDB, link *matchdb.StageCompetitor) error {
	link.ID = r.store.id()
	l := *link
	r.store.stageLinks[link.ID] = &l
	return nil
}

func (r *memoryMatchRepo) UpdateStageCompetitor(_ context.Context, _ bun.IDB, link *matchdb.StageCompetitor) error {
	if _, ok := r.store.stageLinks[link.ID]; !ok {
		return matchdb.ErrNotFound
	}
	l := *link
	r.store.stageLinks[link.ID] = &l
	return nil
}

func (r *memoryMatchRepo) GetClubMatch(_ context.Context, _ bun.IDB, clubID, matchID int64) (*matchdb.ClubMatch, error) {
	for _, clubMatch := range r.store.clubMatches {
		if clubMatch.ClubID == clubID && clubMatch.MatchID == matchID {
			c := *clubMatch
			return &c, nil
		}
	}
	return nil, matchdb.ErrNotFound
}

func (r *memoryMatchRepo) ListClubMatchesByClub(_ context.Context, _ bun.IDB, clubID int64) ([]matchdb.ClubMatch, error) {
	var out []matchdb.ClubMatch
	for _, clubMatch := range r.store.clubMatches {
		if clubMatch.ClubID == clubID {
			out = append(out, *clubMatch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryMatchRepo) CreateClubMatch(_ context.Context, _ bun.IDB, clubMatch *matchdb.ClubMatch) error {
	clubMatch.ID = r.store.id()
	c := *clubMatch
	r.store.clubMatches[clubMatch.ID] = &c
	return nil
}

func (r *memoryMatchRepo) SetClubMatchRefreshedAt(_ context.Context, _ bun.IDB, clubMatchID int64, refreshedAt time.Time) error {
	clubMatch, ok := r.store.clubMatches[clubMatchID]
	if !ok {
		return matchdb.ErrNotFound
	}
	t := refreshedAt
	clubMatch.RefreshedAt = &t
	return nil
}

func (r *memoryMatchRepo) GetClubMatchCompetitor(_ context.Context, _ bun.IDB, clubMatchID, competitorID int64) (*matchdb.ClubMatchCompetitor, error) {
	for _, link := range r.store.clubLinks {
		if link.ClubMatchID == clubMatchID && link.CompetitorID == competitorID {
			l := *link
			return &l, nil
		}
	}
	return nil, matchdb.ErrNotFound
}

func (r *memoryMatchRepo) ListClubMatchCompetitors(_ context.Context, _ bun.IDB, clubMatchID int64) ([]matchdb.ClubMatchCompetitor, error) {
	var out []matchdb.ClubMatchCompetitor
	for _, link := range r.store.clubLinks {
		if link.ClubMatchID == clubMatchID {
			out = append(out, *link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryMatchRepo) CreateClubMatchCompetitor(_ context.Context, _ bun.IDB, link *matchdb.ClubMatchCompetitor) error {
	link.ID = r.store.id()
	l := *link
	r.store.clubLinks[link.ID] = &l
	return nil
}

func (r *memoryMatchRepo) UpdateClubMatchCompetitor(_ context.Context, _ bun.IDB, link *matchdb.ClubMatchCompetitor) error {
	if _, ok := r.store.clubLinks[link.ID]; !ok {
		return matchdb.ErrNotFound
	}
	l := *link
	r.store.clubLinks[link.ID] = &l
	return nil
}

// newMemoryService wires a MatchService onto a memory store. The nil
// *bun.DB makes runInTx a pass-through.
func newMemoryService(store *memoryStore, excludedAliases []int64) *MatchService {
	logger := slog.Default()
	metrics := observability.NewNoop()
	competitorRepo := &memoryCompetitorRepo{store: store}
	resolver := competitorservice.NewResolver(competitorRepo, logger, metrics, nil, excludedAliases, false)
	return NewMatchService(
		&memoryMatchRepo{store: store},
		&memoryClubRepo{store: store},
		competitorRepo,
		resolver,
		nil,
		logger,
		metrics,
		nil,
		nil,
		nil,
	)
}
