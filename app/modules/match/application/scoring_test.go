package matchservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHitFactor(t *testing.T) {
	tests := []struct {
		name    string
		points  float64
		seconds float64
		want    float64
	}{
		{name: "normal", points: 96, seconds: 12, want: 8},
		{name: "zero time", points: 96, seconds: 0, want: 0},
		{name: "negative time", points: 96, seconds: -1, want: 0},
		{name: "zero points", points: 0, seconds: 12, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HitFactor(tt.points, tt.seconds))
		})
	}
}

func TestStagePercentage(t *testing.T) {
	tests := []struct {
		name      string
		points    float64
		maxPoints int
		want      float64
	}{
		{name: "partial", points: 96, maxPoints: 120, want: 80},
		{name: "full", points: 120, maxPoints: 120, want: 100},
		{name: "zero max", points: 96, maxPoints: 0, want: 0},
		{name: "negative max", points: 96, maxPoints: -5, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StagePercentage(tt.points, tt.maxPoints))
		})
	}
}

func TestPercentageOfBest(t *testing.T) {
	t.Run("best gets exactly 100", func(t *testing.T) {
		rankings := PercentageOfBest(map[int64]float64{1: 50, 2: 100, 3: 75})
		assert.Equal(t, map[int64]float64{1: 50, 2: 100, 3: 75}, rankings)
	})

	t.Run("all zero points rank zero", func(t *testing.T) {
		rankings := PercentageOfBest(map[int64]float64{1: 0, 2: 0})
		assert.Equal(t, map[int64]float64{1: 0, 2: 0}, rankings)
	})

	t.Run("empty population", func(t *testing.T) {
		assert.Empty(t, PercentageOfBest(map[int64]float64{}))
	})

	t.Run("bounds", func(t *testing.T) {
		rankings := PercentageOfBest(map[int64]float64{1: 13, 2: 77, 3: 42, 4: 91})
		hundreds := 0
		for _, r := range rankings {
			assert.GreaterOrEqual(t, r, 0.0)
			assert.LessOrEqual(t, r, 100.0)
			if r == 100.0 {
				hundreds++
			}
		}
		assert.Equal(t, 1, hundreds)
	})
}

func TestStageRanks(t *testing.T) {
	t.Run("descending points", func(t *testing.T) {
		ranks := StageRanks(map[int64]float64{1: 50, 2: 100, 3: 75})
		assert.Equal(t, map[int64]int{2: 1, 3: 2, 1: 3}, ranks)
	})

	t.Run("ties share a rank", func(t *testing.T) {
		ranks := StageRanks(map[int64]float64{1: 100, 2: 100, 3: 50})
		assert.Equal(t, 1, ranks[1])
		assert.Equal(t, 1, ranks[2])
		assert.Equal(t, 3, ranks[3])
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, StageRanks(nil))
	})
}

func TestCanonicalTags(t *testing.T) {
	assert.Equal(t, "Production", CanonicalDivision("production"))
	assert.Equal(t, "Open", CanonicalDivision("  OPEN "))
	assert.Equal(t, "Sport Pistol", CanonicalDivision("Sport Pistol"), "unknown tags pass through trimmed")
	assert.Equal(t, "Handgun", CanonicalDiscipline("HANDGUN"))
	assert.Equal(t, "Major", CanonicalPowerFactor("major"))
	assert.Equal(t, "", CanonicalPowerFactor("  "))
}
