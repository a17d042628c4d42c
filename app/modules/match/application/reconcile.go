package matchservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	clubdb "github.com/High-Desert-Practical/match-sync/app/modules/club/infrastructure/repositories"
	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
	matchdb "github.com/High-Desert-Practical/match-sync/app/modules/match/infrastructure/repositories"
	"github.com/High-Desert-Practical/match-sync/internal/attr"
	"github.com/High-Desert-Practical/match-sync/internal/faults"
)

// stampLayouts are the timestamp spellings legacy exports use.
var stampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseStamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range stampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// reconcileBundle merges one match bundle into the store. It runs inside
// the caller's transaction: any returned error rolls the whole bundle back.
// Raw external ids act only as run-local correlation keys; a dangling key
// makes the bundle unprocessable.
func (s *MatchService) reconcileBundle(ctx context.Context, db bun.IDB, bundle matchdto.MatchBundle) (*matchdto.MatchSummary, error) {
	if strings.TrimSpace(bundle.Match.Name) == "" {
		return nil, faults.Validation("match", "match name is blank")
	}

	clubID, err := s.reconcileClub(ctx, db, bundle.Club)
	if err != nil {
		return nil, err
	}

	match, err := s.reconcileMatch(ctx, db, bundle, clubID)
	if err != nil {
		return nil, err
	}

	stageByRaw, err := s.reconcileStages(ctx, db, match.ID, bundle.Stages)
	if err != nil {
		return nil, err
	}

	// Club-scope filtering: with a declared club on the match, enrolled
	// records pointing at a different club are skipped entirely, together
	// with their members and scores.
	outOfScope := make(map[int64]struct{})
	enrolledByMember := make(map[int64]matchdto.RawEnrolled, len(bundle.Enrolled))
	for _, enrolled := range bundle.Enrolled {
		enrolledByMember[enrolled.MemberID] = enrolled
		if bundle.Match.ClubID != 0 && enrolled.ClubID != 0 && enrolled.ClubID != bundle.Match.ClubID {
			outOfScope[enrolled.MemberID] = struct{}{}
		}
	}

	competitorByRaw, err := s.reconcileCompetitors(ctx, db, bundle.Members, outOfScope)
	if err != nil {
		return nil, err
	}

	if err := s.reconcileMatchLinks(ctx, db, match.ID, competitorByRaw, enrolledByMember); err != nil {
		return nil, err
	}

	if err := s.reconcileStageLinks(ctx, db, bundle, stageByRaw, competitorByRaw, enrolledByMember, outOfScope); err != nil {
		return nil, err
	}

	if match.IsStale() {
		if err := s.recomputeMatch(ctx, db, match); err != nil {
			return nil, err
		}
	}

	if clubID != nil {
		competitorIDs := make([]int64, 0, len(competitorByRaw))
		for _, id := range competitorByRaw {
			competitorIDs = append(competitorIDs, id)
		}
		if err := s.reconcileClubScope(ctx, db, *clubID, match, competitorIDs); err != nil {
			return nil, err
		}
	}

	return &matchdto.MatchSummary{
		MatchID:     match.ID,
		Name:        match.Name,
		Stages:      len(bundle.Stages),
		Competitors: len(competitorByRaw),
	}, nil
}

// placeholderClubName is the synthesized name for a club known only by its
// declared export id.
func placeholderClubName(clubID int64) string {
	return fmt.Sprintf("club-%d", clubID)
}

// reconcileClub upserts the bundle's club and returns its store id, or nil
// when the bundle declares no club at all. A placeholder club (declared id
// with no record in the container) is persisted under a synthesized name so
// later imports of the full record can enrich it.
func (s *MatchService) reconcileClub(ctx context.Context, db bun.IDB, raw matchdto.RawClub) (*int64, error) {
	name := strings.TrimSpace(raw.Name)
	abbreviation := strings.TrimSpace(raw.Abbreviation)
	synthesized := false
	if name == "" && abbreviation == "" {
		if raw.ClubID == 0 {
			return nil, nil
		}
		name = placeholderClubName(raw.ClubID)
		synthesized = true
	}

	lookup := name
	if lookup == "" {
		lookup = abbreviation
	}
	existing, err := s.clubRepo.GetByNameOrAbbreviation(ctx, db, lookup)
	if err != nil && !errors.Is(err, clubdb.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up club %q: %w", lookup, err)
	}
	if existing != nil {
		if existing.Abbreviation == "" && abbreviation != "" {
			existing.Abbreviation = abbreviation
			if err := s.clubRepo.Update(ctx, db, existing); err != nil {
				return nil, fmt.Errorf("failed to update club %q: %w", lookup, err)
			}
		}
		return &existing.ID, nil
	}

	// A full record may be the first to name a club that an earlier import
	// declared only by id: enrich that placeholder instead of duplicating it.
	if !synthesized && raw.ClubID != 0 {
		placeholder, err := s.clubRepo.GetByName(ctx, db, placeholderClubName(raw.ClubID))
		if err != nil && !errors.Is(err, clubdb.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up club placeholder: %w", err)
		}
		if placeholder != nil {
			placeholder.Name = name
			if placeholder.Name == "" {
				placeholder.Name = abbreviation
			}
			if abbreviation != "" {
				placeholder.Abbreviation = abbreviation
			}
			if err := s.clubRepo.Update(ctx, db, placeholder); err != nil {
				return nil, fmt.Errorf("failed to enrich club placeholder: %w", err)
			}
			s.logger.InfoContext(ctx, "Enriched placeholder club",
				attr.Int64("club_id", placeholder.ID),
				attr.String("name", placeholder.Name))
			return &placeholder.ID, nil
		}
	}

	club := &clubdb.Club{Name: name, Abbreviation: abbreviation}
	if club.Name == "" {
		club.Name = abbreviation
	}
	if err := s.clubRepo.Create(ctx, db, club); err != nil {
		return nil, fmt.Errorf("failed to create club %q: %w", club.Name, err)
	}
	s.logger.InfoContext(ctx, "Created club", attr.Int64("club_id", club.ID), attr.String("name", club.Name))
	return &club.ID, nil
}

// reconcileMatch upserts the bundle's match by its unique name. The row is
// only written when a field actually changed, so an unchanged re-import
// leaves the stored timestamps (and thus the staleness gate) untouched.
func (s *MatchService) reconcileMatch(ctx context.Context, db bun.IDB, bundle matchdto.MatchBundle, clubID *int64) (*matchdb.Match, error) {
	name := strings.TrimSpace(bundle.Match.Name)
	date, _ := parseStamp(bundle.Match.Date)

	// The newest score modification in the bundle is the match's edit
	// watermark.
	var editedAt time.Time
	for _, score := range bundle.Scores {
		if t, ok := parseStamp(score.LastModified); ok && t.After(editedAt) {
			editedAt = t
		}
	}

	existing, err := s.repo.GetMatchByName(ctx, db, name)
	if err != nil && !errors.Is(err, matchdb.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up match %q: %w", name, err)
	}
	if existing == nil {
		match := &matchdb.Match{
			Name:     name,
			Date:     date,
			ClubID:   clubID,
			Firearm:  strings.TrimSpace(bundle.Match.Firearm),
			Category: strings.TrimSpace(bundle.Match.Category),
			EditedAt: editedAt,
		}
		if err := s.repo.CreateMatch(ctx, db, match); err != nil {
			return nil, fmt.Errorf("failed to create match %q: %w", name, err)
		}
		s.logger.InfoContext(ctx, "Created match", attr.Int64("match_id", match.ID), attr.String("name", name))
		return match, nil
	}

	updated := *existing
	updated.Date = date
	if clubID != nil {
		updated.ClubID = clubID
	}
	if firearm := strings.TrimSpace(bundle.Match.Firearm); firearm != "" {
		updated.Firearm = firearm
	}
	if category := strings.TrimSpace(bundle.Match.Category); category != "" {
		updated.Category = category
	}
	if editedAt.After(updated.EditedAt) {
		updated.EditedAt = editedAt
	}
	if matchEqual(existing, &updated) {
		return existing, nil
	}
	if err := s.repo.UpdateMatch(ctx, db, &updated); err != nil {
		return nil, fmt.Errorf("failed to update match %q: %w", name, err)
	}
	return &updated, nil
}

func matchEqual(a, b *matchdb.Match) bool {
	return a.Date.Equal(b.Date) &&
		int64PtrEqual(a.ClubID, b.ClubID) &&
		a.Firearm == b.Firearm &&
		a.Category == b.Category &&
		a.EditedAt.Equal(b.EditedAt)
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// reconcileStages upserts the bundle's stages by (match, number) and maps
// each raw stage id to its store row.
func (s *MatchService) reconcileStages(ctx context.Context, db bun.IDB, matchID int64, stages []matchdto.RawStage) (map[int64]*matchdb.Stage, error) {
	stageByRaw := make(map[int64]*matchdb.Stage, len(stages))
	for _, raw := range stages {
		if raw.Number <= 0 {
			return nil, faults.Validationf("stage", "stage %d has invalid number %d", raw.StageID, raw.Number)
		}
		existing, err := s.repo.GetStageByNumber(ctx, db, matchID, raw.Number)
		if err != nil && !errors.Is(err, matchdb.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up stage %d: %w", raw.Number, err)
		}
		if existing == nil {
			stage := &matchdb.Stage{
				MatchID:   matchID,
				Number:    raw.Number,
				Paper:     raw.Paper,
				Poppers:   raw.Poppers,
				Plates:    raw.Plates,
				MinRounds: raw.MinRounds,
				MaxPoints: raw.MaxPoints,
			}
			if err := s.repo.CreateStage(ctx, db, stage); err != nil {
				return nil, fmt.Errorf("failed to create stage %d: %w", raw.Number, err)
			}
			stageByRaw[raw.StageID] = stage
			continue
		}

		updated := *existing
		updated.Paper = raw.Paper
		updated.Poppers = raw.Poppers
		updated.Plates = raw.Plates
		updated.MinRounds = raw.MinRounds
		updated.MaxPoints = raw.MaxPoints
		if updated != *existing {
			if err := s.repo.UpdateStage(ctx, db, &updated); err != nil {
				return nil, fmt.Errorf("failed to update stage %d: %w", raw.Number, err)
			}
		}
		stageByRaw[raw.StageID] = &updated
	}
	return stageByRaw, nil
}

// reconcileCompetitors resolves every in-scope member through the identity
// chain and upserts the merged record, mapping each raw member id to its
// competitor store id.
func (s *MatchService) reconcileCompetitors(ctx context.Context, db bun.IDB, members []matchdto.RawMember, outOfScope map[int64]struct{}) (map[int64]int64, error) {
	competitorByRaw := make(map[int64]int64, len(members))
	for _, member := range members {
		if _, skip := outOfScope[member.MemberID]; skip {
			continue
		}
		resolution, err := s.resolver.Resolve(ctx, db, member)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve member %d: %w", member.MemberID, err)
		}
		competitor := resolution.Competitor
		if resolution.Existing {
			if err := s.competitorRepo.Update(ctx, db, &competitor); err != nil {
				return nil, fmt.Errorf("failed to update competitor %d: %w", competitor.ID, err)
			}
		} else {
			if err := s.competitorRepo.Create(ctx, db, &competitor); err != nil {
				return nil, fmt.Errorf("failed to create competitor for member %d: %w", member.MemberID, err)
			}
		}
		competitorByRaw[member.MemberID] = competitor.ID
	}
	return competitorByRaw, nil
}

// reconcileMatchLinks upserts one match-competitor link per in-scope
// member, carrying the enrolled record's normalized tags. Points and
// percentages are filled by the recompute pass.
func (s *MatchService) reconcileMatchLinks(ctx context.Context, db bun.IDB, matchID int64, competitorByRaw map[int64]int64, enrolledByMember map[int64]matchdto.RawEnrolled) error {
	for memberID, competitorID := range competitorByRaw {
		enrolled := enrolledByMember[memberID]
		division := CanonicalDivision(enrolled.Division)
		discipline := CanonicalDiscipline(enrolled.Discipline)
		powerFactor := CanonicalPowerFactor(enrolled.PowerFactor)

		existing, err := s.repo.GetMatchCompetitor(ctx, db, matchID, competitorID)
		if err != nil && !errors.Is(err, matchdb.ErrNotFound) {
			return fmt.Errorf("failed to look up match competitor %d: %w", competitorID, err)
		}
		if existing == nil {
			link := &matchdb.MatchCompetitor{
				MatchID:      matchID,
				CompetitorID: competitorID,
				Division:     division,
				Discipline:   discipline,
				PowerFactor:  powerFactor,
			}
			if err := s.repo.CreateMatchCompetitor(ctx, db, link); err != nil {
				return fmt.Errorf("failed to create match competitor %d: %w", competitorID, err)
			}
			continue
		}
		if existing.Division == division && existing.Discipline == discipline && existing.PowerFactor == powerFactor {
			continue
		}
		existing.Division = division
		existing.Discipline = discipline
		existing.PowerFactor = powerFactor
		if err := s.repo.UpdateMatchCompetitor(ctx, db, existing); err != nil {
			return fmt.Errorf("failed to update match competitor %d: %w", competitorID, err)
		}
	}
	return nil
}

// reconcileStageLinks upserts one stage-competitor link per in-scope score,
// including the per-score derived fields (hit factor, stage percentage).
// A score referencing a stage or member absent from the bundle is a
// dangling correlation key and poisons the whole bundle.
func (s *MatchService) reconcileStageLinks(
	ctx context.Context,
	db bun.IDB,
	bundle matchdto.MatchBundle,
	stageByRaw map[int64]*matchdb.Stage,
	competitorByRaw map[int64]int64,
	enrolledByMember map[int64]matchdto.RawEnrolled,
	outOfScope map[int64]struct{},
) error {
	for _, score := range bundle.Scores {
		if _, skip := outOfScope[score.MemberID]; skip {
			continue
		}
		stage, ok := stageByRaw[score.StageID]
		if !ok {
			return faults.Validationf("score", "score references unknown stage %d", score.StageID)
		}
		competitorID, ok := competitorByRaw[score.MemberID]
		if !ok {
			return faults.Validationf("score", "score references unknown member %d", score.MemberID)
		}

		points := float64(score.FinalScore)
		enrolled := enrolledByMember[score.MemberID]
		desired := matchdb.StageCompetitor{
			StageID:         stage.ID,
			CompetitorID:    competitorID,
			A:               score.A,
			B:               score.B,
			C:               score.C,
			D:               score.D,
			Misses:          score.Misses,
			Penalties:       score.Penalties,
			Procedurals:     score.Procedurals,
			Time:            score.Time,
			HitFactor:       HitFactor(points, score.Time),
			StagePoints:     points,
			StagePercentage: StagePercentage(points, stage.MaxPoints),
			Disqualified:    enrolled.Disqualified,
		}

		existing, err := s.repo.GetStageCompetitor(ctx, db, stage.ID, competitorID)
		if err != nil && !errors.Is(err, matchdb.ErrNotFound) {
			return fmt.Errorf("failed to look up stage competitor %d: %w", competitorID, err)
		}
		if existing == nil {
			link := desired
			if err := s.repo.CreateStageCompetitor(ctx, db, &link); err != nil {
				return fmt.Errorf("failed to create stage competitor %d: %w", competitorID, err)
			}
			continue
		}
		if stageLinkEqual(existing, &desired) {
			continue
		}
		desired.ID = existing.ID
		desired.StageRank = existing.StageRank
		updated := desired
		if err := s.repo.UpdateStageCompetitor(ctx, db, &updated); err != nil {
			return fmt.Errorf("failed to update stage competitor %d: %w", competitorID, err)
		}
	}
	return nil
}

func stageLinkEqual(existing, desired *matchdb.StageCompetitor) bool {
	return existing.A == desired.A &&
		existing.B == desired.B &&
		existing.C == desired.C &&
		existing.D == desired.D &&
		existing.Misses == desired.Misses &&
		existing.Penalties == desired.Penalties &&
		existing.Procedurals == desired.Procedurals &&
		existing.Time == desired.Time &&
		existing.HitFactor == desired.HitFactor &&
		existing.StagePoints == desired.StagePoints &&
		existing.StagePercentage == desired.StagePercentage &&
		existing.Disqualified == desired.Disqualified
}
