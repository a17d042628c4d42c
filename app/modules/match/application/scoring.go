package matchservice

import "sort"

// HitFactor computes points scored per second. The points are supplied
// already net of penalties. A zero or negative time defines a zero hit
// factor rather than an error.
func HitFactor(points, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return points / seconds
}

// StagePercentage expresses stage points as a percentage of the stage's
// maximum achievable points. A zero or negative maximum defines a zero
// percentage rather than an error.
func StagePercentage(points float64, maxPoints int) float64 {
	if maxPoints <= 0 {
		return 0
	}
	return 100 * points / float64(maxPoints)
}

// PercentageOfBest maps every entry's points to a percentage of the best
// points in the population. When the best is zero or negative, or the
// population is empty, every ranking is zero. Exactly the best entries
// receive 100.
func PercentageOfBest(points map[int64]float64) map[int64]float64 {
	rankings := make(map[int64]float64, len(points))
	var best float64
	for _, p := range points {
		if p > best {
			best = p
		}
	}
	for id, p := range points {
		if best <= 0 {
			rankings[id] = 0
			continue
		}
		rankings[id] = 100 * p / best
	}
	return rankings
}

// StageRanks assigns 1-based ranks by descending points. Entries with
// equal points share the same rank; the next distinct score's rank counts
// every entry ahead of it.
func StageRanks(points map[int64]float64) map[int64]int {
	ids := make([]int64, 0, len(points))
	for id := range points {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if points[ids[i]] != points[ids[j]] {
			return points[ids[i]] > points[ids[j]]
		}
		return ids[i] < ids[j]
	})

	ranks := make(map[int64]int, len(ids))
	for pos, id := range ids {
		if pos > 0 && points[id] == points[ids[pos-1]] {
			ranks[id] = ranks[ids[pos-1]]
			continue
		}
		ranks[id] = pos + 1
	}
	return ranks
}
