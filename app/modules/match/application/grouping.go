package matchservice

import (
	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
)

// GroupContainer partitions the decoded flat record lists into one bundle
// per distinct match id, in the order the matches appear. Each bundle gets
// the stages, enrolled records and scores keyed to its match, the members
// appearing in at least one of those scores, and the full (shared) tag
// list. The club is taken from the club list by the match's declared club
// id, else a placeholder carrying only that id. Pure function.
func GroupContainer(container *matchdto.Container) []matchdto.MatchBundle {
	if container == nil {
		return nil
	}

	clubsByID := make(map[int64]matchdto.RawClub, len(container.Clubs))
	for _, club := range container.Clubs {
		clubsByID[club.ClubID] = club
	}
	membersByID := make(map[int64]matchdto.RawMember, len(container.Members))
	for _, member := range container.Members {
		membersByID[member.MemberID] = member
	}

	bundles := make([]matchdto.MatchBundle, 0, len(container.Matches))
	seen := make(map[int64]struct{}, len(container.Matches))
	for _, match := range container.Matches {
		if _, dup := seen[match.MatchID]; dup {
			continue
		}
		seen[match.MatchID] = struct{}{}

		bundle := matchdto.MatchBundle{
			Match: match,
			Club:  clubsByID[match.ClubID],
			Tags:  container.Tags,
		}
		if bundle.Club.ClubID == 0 {
			// No declared club record; keep only the declared id.
			bundle.Club = matchdto.RawClub{ClubID: match.ClubID}
		}

		for _, stage := range container.Stages {
			if stage.MatchID == match.MatchID {
				bundle.Stages = append(bundle.Stages, stage)
			}
		}
		for _, enrolled := range container.Enrolled {
			if enrolled.MatchID == match.MatchID {
				bundle.Enrolled = append(bundle.Enrolled, enrolled)
			}
		}

		scored := make(map[int64]struct{})
		for _, score := range container.Scores {
			if score.MatchID == match.MatchID {
				bundle.Scores = append(bundle.Scores, score)
				scored[score.MemberID] = struct{}{}
			}
		}

		// Members with no score in this match are excluded from the bundle.
		for _, score := range bundle.Scores {
			member, known := membersByID[score.MemberID]
			if !known {
				continue
			}
			if _, taken := scored[score.MemberID]; !taken {
				continue
			}
			delete(scored, score.MemberID)
			bundle.Members = append(bundle.Members, member)
		}

		bundles = append(bundles, bundle)
	}
	return bundles
}
