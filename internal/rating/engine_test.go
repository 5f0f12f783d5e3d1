package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvenMatchClampsGainToMaximum(t *testing.T) {
	// Equal averages: expected = 0.5, raw delta = round(50/1.5) = 33,
	// clamped down to 30; each loser pays 20.
	s := DefaultSettings()
	result := s.Update([]int{1000, 1000, 1000}, []int{1000, 1000, 1000})

	assert.Equal(t, 30, result.Gain)
	assert.Equal(t, 20, result.Loss)
	assert.Equal(t, 1000, result.Winners.Average)
	assert.Equal(t, 1000, result.Losers.Average)
	for _, c := range result.Winners.Changes {
		assert.Equal(t, 1030, c.New)
	}
	for _, c := range result.Losers.Changes {
		assert.Equal(t, 980, c.New)
	}
}

func TestUnderdogUpsetNearClampMaximum(t *testing.T) {
	// Average 600 beats average 1400: the favourite expected ~0.99, so
	// the upset's raw delta is near the full pool, clamped to 30.
	s := DefaultSettings()
	result := s.Update([]int{600, 600}, []int{1400, 1400})

	assert.Equal(t, 30, result.Gain)
	assert.Equal(t, 20, result.Loss)
	assert.Equal(t, 600, result.Winners.Average)
	assert.Equal(t, 1400, result.Losers.Average)
}

func TestFavouriteWinClampsGainToMinimum(t *testing.T) {
	// Heavy favourite winning: expected near 1, raw delta
	// round(50*0.5/1.5) = 17, clamped up to 20; losers pay 30.
	s := DefaultSettings()
	result := s.Update([]int{1400, 1400}, []int{600, 600})

	assert.Equal(t, 20, result.Gain)
	assert.Equal(t, 30, result.Loss)
}

func TestPoolIsConserved(t *testing.T) {
	s := DefaultSettings()
	cases := [][2][]int{
		{{1000}, {1000}},
		{{2000, 1800}, {400, 500}},
		{{100}, {3000}},
		{{1234, 987, 1501}, {1100, 1099, 1098}},
	}
	for _, c := range cases {
		result := s.Update(c[0], c[1])
		assert.Equal(t, s.Pool, result.Gain+result.Loss)
		assert.GreaterOrEqual(t, result.Gain, s.ClampMin)
		assert.LessOrEqual(t, result.Gain, s.ClampMax)
	}
}

func TestWinnersNeverLoseAndLosersFloorAtZero(t *testing.T) {
	s := DefaultSettings()
	result := s.Update([]int{500}, []int{10, 0, 25})

	for _, c := range result.Winners.Changes {
		assert.GreaterOrEqual(t, c.New, c.Old)
	}
	for _, c := range result.Losers.Changes {
		assert.LessOrEqual(t, c.New, c.Old)
		assert.GreaterOrEqual(t, c.New, 0)
	}
	// The player at 10 cannot pay the full loss
	assert.Equal(t, 0, result.Losers.Changes[0].New)
	assert.Equal(t, -10, result.Losers.Changes[0].Change)
}

func TestEmptyTeamDefaultsToStartingRating(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, float64(s.StartingRating), s.TeamAverage(nil))
}

func TestExpectedScoreIsSymmetric(t *testing.T) {
	e1 := Expected(1400, 600)
	e2 := Expected(600, 1400)
	assert.InDelta(t, 1.0, e1+e2, 1e-9)
	assert.Greater(t, e1, 0.9)
}

func TestRankLookupIsTotal(t *testing.T) {
	for _, rating := range []int{-50, 0, 1, 799, 800, 1199, 2500} {
		rank := RankFor(rating)
		require.NotEmpty(t, rank.Name)
	}
	assert.Equal(t, "Bronze", RankFor(0).Name)
	assert.Equal(t, "Bronze", RankFor(-10).Name)
	assert.Equal(t, "Silver", RankFor(800).Name)
	assert.Equal(t, "Grandmaster", RankFor(9999).Name)
}

func TestRankLookupIsMonotonic(t *testing.T) {
	prevIdx := -1
	for rating := 0; rating <= 2000; rating += 25 {
		rank := RankFor(rating)
		idx := 0
		for i, r := range Ranks() {
			if r.Name == rank.Name {
				idx = i
			}
		}
		require.GreaterOrEqual(t, idx, prevIdx, "rank regressed at rating %d", rating)
		prevIdx = idx
	}
}
