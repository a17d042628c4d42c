package matchqueue

// RankingSweepJob triggers a staleness sweep across every known club.
// The sweep fans out into one ClubRefreshJob per club.
type RankingSweepJob struct{}

// Kind returns the job type identifier for River
func (RankingSweepJob) Kind() string { return "ranking_sweep" }

// ClubRefreshJob refreshes the rankings of a single club, recomputing only
// matches whose scores changed since the last refresh.
type ClubRefreshJob struct {
	Club string `json:"club"`
}

// Kind returns the job type identifier for River
func (ClubRefreshJob) Kind() string { return "club_ranking_refresh" }

// JobInfo represents information about a scheduled job (for debugging/monitoring)
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Club        string `json:"club,omitempty"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
