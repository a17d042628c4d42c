package matchdto

// MatchBundle carries everything belonging to one match from the decoded
// container: the match record, its club (declared or synthesized), the
// stages, enrolled competitors and scores keyed to the match, the members
// appearing in at least one of those scores, and the shared tag list.
type MatchBundle struct {
	Match    RawMatch
	Club     RawClub
	Stages   []RawStage
	Enrolled []RawEnrolled
	Scores   []RawScore
	Members  []RawMember
	Tags     []RawTag
}

// MatchSummary acknowledges one persisted match bundle.
type MatchSummary struct {
	MatchID     int64  `json:"match_id"`
	Name        string `json:"name"`
	Stages      int    `json:"stages"`
	Competitors int    `json:"competitors"`
}

// BundleFailure reports one bundle that could not be reconciled. The rest
// of the run is unaffected.
type BundleFailure struct {
	Match  string `json:"match"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// ImportResult is the acknowledgement returned by the import entry point.
type ImportResult struct {
	Imported []MatchSummary  `json:"imported"`
	Failures []BundleFailure `json:"failures,omitempty"`
}

// RefreshResult acknowledges a ranking refresh request.
type RefreshResult struct {
	Club      string   `json:"club,omitempty"`
	Refreshed []string `json:"refreshed,omitempty"`
}
