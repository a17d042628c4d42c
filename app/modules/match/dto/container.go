package matchdto

// Raw record types mirror the flat record shapes inside the legacy export
// container. Field tags follow the source system's column names; every
// record keeps the source ids, which the pipeline uses only as run-local
// correlation keys.

// RawClub is a club record from the export.
type RawClub struct {
	ClubID       int64  `json:"ClubId"`
	Name         string `json:"ClubName"`
	Abbreviation string `json:"ClubCode"`
}

// RawMatch is a match record from the export.
type RawMatch struct {
	MatchID  int64  `json:"MatchId"`
	Name     string `json:"MatchName"`
	Date     string `json:"MatchDt"`
	ClubID   int64  `json:"ClubId"`
	Firearm  string `json:"Firearm"`
	Category string `json:"Category"`
}

// RawStage is a stage record from the export.
type RawStage struct {
	StageID   int64 `json:"StageId"`
	MatchID   int64 `json:"MatchId"`
	Number    int   `json:"StageNo"`
	Paper     int   `json:"TrgtPaper"`
	Poppers   int   `json:"TrgtPopper"`
	Plates    int   `json:"TrgtPlates"`
	MinRounds int   `json:"MinRounds"`
	MaxPoints int   `json:"MaxPoints"`
}

// RawEnrolled is an enrolled-competitor record from the export. It carries
// the member's per-match tags and club affiliation.
type RawEnrolled struct {
	MemberID     int64  `json:"MemberId"`
	MatchID      int64  `json:"MatchId"`
	ClubID       int64  `json:"ClubId"`
	Division     string `json:"Division"`
	Discipline   string `json:"Discipline"`
	PowerFactor  string `json:"PowerFactor"`
	Category     string `json:"Category"`
	SquadID      int64  `json:"SquadId"`
	Disqualified bool   `json:"IsDisq"`
}

// RawScore is a per-stage score record from the export.
type RawScore struct {
	MemberID     int64   `json:"MemberId"`
	MatchID      int64   `json:"MatchId"`
	StageID      int64   `json:"StageId"`
	A            int     `json:"ScoreA"`
	B            int     `json:"ScoreB"`
	C            int     `json:"ScoreC"`
	D            int     `json:"ScoreD"`
	Misses       int     `json:"Misses"`
	Penalties    int     `json:"Penalties"`
	Procedurals  int     `json:"ProcError"`
	Time         float64 `json:"ShootTime"`
	FinalScore   int     `json:"FinalScore"`
	LastModified string  `json:"LastModified"`
}

// RawMember is a member record from the export. Alias is the source
// system's registration alias; it doubles as the competitor number.
type RawMember struct {
	MemberID    int64  `json:"MemberId"`
	Alias       string `json:"Alias"`
	FirstName   string `json:"Firstname"`
	MiddleName  string `json:"Middlename"`
	LastName    string `json:"Lastname"`
	DateOfBirth string `json:"DOB"`
	Category    string `json:"Category"`
}

// RawTag is a division/discipline/power-factor tag record. Tags are shared
// across every match in the container.
type RawTag struct {
	TagID int64  `json:"TagId"`
	Name  string `json:"TagName"`
	Type  string `json:"TagType"`
}

// RawSquad is a squad record from the export.
type RawSquad struct {
	SquadID int64  `json:"SquadId"`
	MatchID int64  `json:"MatchId"`
	Name    string `json:"SquadName"`
}

// RawTeam is a team record from the export.
type RawTeam struct {
	TeamID  int64  `json:"TeamId"`
	MatchID int64  `json:"MatchId"`
	Name    string `json:"TeamName"`
}

// RawClassification is a member classification record from the export.
type RawClassification struct {
	MemberID int64  `json:"MemberId"`
	Division string `json:"Division"`
	Class    string `json:"Class"`
}

// Container holds one typed list per entity kind decoded from the import
// container. Absent or blank source fields yield empty lists.
type Container struct {
	Clubs           []RawClub
	Matches         []RawMatch
	Stages          []RawStage
	Enrolled        []RawEnrolled
	Scores          []RawScore
	Members         []RawMember
	Tags            []RawTag
	Squads          []RawSquad
	Teams           []RawTeam
	Classifications []RawClassification
}
