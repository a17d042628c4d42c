package matchdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Match represents one match in the store. Name is unique store-wide.
// RefreshedAt is null (or older than the latest of CreatedAt/UpdatedAt/
// EditedAt) until a ranking refresh completes.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID          int64      `bun:"id,pk,autoincrement"`
	Name        string     `bun:"name,notnull"`
	Date        time.Time  `bun:"date,nullzero"`
	ClubID      *int64     `bun:"club_id,nullzero"`
	Firearm     string     `bun:"firearm,nullzero"`
	Category    string     `bun:"category,nullzero"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	EditedAt    time.Time  `bun:"edited_at,nullzero"`
	RefreshedAt *time.Time `bun:"refreshed_at,nullzero"`
}

// LatestChange returns the most recent of the match's created/updated/
// edited timestamps, the reference point for the staleness gate.
func (m *Match) LatestChange() time.Time {
	latest := m.CreatedAt
	if m.UpdatedAt.After(latest) {
		latest = m.UpdatedAt
	}
	if m.EditedAt.After(latest) {
		latest = m.EditedAt
	}
	return latest
}

// IsStale reports whether the match's rankings need recomputation.
func (m *Match) IsStale() bool {
	return m.RefreshedAt == nil || m.RefreshedAt.Before(m.LatestChange())
}

// Stage belongs to exactly one match; Number is 1-based and unique within
// the match.
type Stage struct {
	bun.BaseModel `bun:"table:stages,alias:st"`

	ID        int64     `bun:"id,pk,autoincrement"`
	MatchID   int64     `bun:"match_id,notnull"`
	Number    int       `bun:"number,notnull"`
	Paper     int       `bun:"paper,notnull,default:0"`
	Poppers   int       `bun:"poppers,notnull,default:0"`
	Plates    int       `bun:"plates,notnull,default:0"`
	MinRounds int       `bun:"min_rounds,notnull,default:0"`
	MaxPoints int       `bun:"max_points,notnull,default:0"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// MatchCompetitor links one competitor to one match and carries the
// aggregate match points and percentage-of-best ranking.
type MatchCompetitor struct {
	bun.BaseModel `bun:"table:match_competitors,alias:mc"`

	ID              int64     `bun:"id,pk,autoincrement"`
	MatchID         int64     `bun:"match_id,notnull"`
	CompetitorID    int64     `bun:"competitor_id,notnull"`
	Division        string    `bun:"division,nullzero"`
	Discipline      string    `bun:"discipline,nullzero"`
	PowerFactor     string    `bun:"power_factor,nullzero"`
	MatchPoints     float64   `bun:"match_points,notnull,default:0"`
	MatchPercentage float64   `bun:"match_percentage,notnull,default:0"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// StageCompetitor links one competitor to one stage and carries the raw
// scoring zones plus the derived hit factor, points, percentage and rank.
type StageCompetitor struct {
	bun.BaseModel `bun:"table:stage_competitors,alias:sc"`

	ID              int64     `bun:"id,pk,autoincrement"`
	StageID         int64     `bun:"stage_id,notnull"`
	CompetitorID    int64     `bun:"competitor_id,notnull"`
	A               int       `bun:"a,notnull,default:0"`
	B               int       `bun:"b,notnull,default:0"`
	C               int       `bun:"c,notnull,default:0"`
	D               int       `bun:"d,notnull,default:0"`
	Misses          int       `bun:"misses,notnull,default:0"`
	Penalties       int       `bun:"penalties,notnull,default:0"`
	Procedurals     int       `bun:"procedurals,notnull,default:0"`
	Time            float64   `bun:"time,notnull,default:0"`
	HitFactor       float64   `bun:"hit_factor,notnull,default:0"`
	StagePoints     float64   `bun:"stage_points,notnull,default:0"`
	StagePercentage float64   `bun:"stage_percentage,notnull,default:0"`
	StageRank       int       `bun:"stage_rank,notnull,default:0"`
	Disqualified    bool      `bun:"disqualified,notnull,default:false"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ClubMatch mirrors a match scoped to one club's competitors, with its own
// refresh timestamp.
type ClubMatch struct {
	bun.BaseModel `bun:"table:club_matches,alias:cm"`

	ID          int64      `bun:"id,pk,autoincrement"`
	ClubID      int64      `bun:"club_id,notnull"`
	MatchID     int64      `bun:"match_id,notnull"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	RefreshedAt *time.Time `bun:"refreshed_at,nullzero"`
}

// ClubMatchCompetitor carries one competitor's points and ranking within a
// club-scoped match.
type ClubMatchCompetitor struct {
	bun.BaseModel `bun:"table:club_match_competitors,alias:cmc"`

	ID           int64     `bun:"id,pk,autoincrement"`
	ClubMatchID  int64     `bun:"club_match_id,notnull"`
	CompetitorID int64     `bun:"competitor_id,notnull"`
	Points       float64   `bun:"points,notnull,default:0"`
	Percentage   float64   `bun:"percentage,notnull,default:0"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
