// Package rating computes Elo-like rating updates for team-vs-team
// outcomes using the team-average clamped-pool policy. All functions are
// pure and deterministic given their inputs.
package rating

import "math"

// Settings holds the tunable constants of the rating policy
type Settings struct {
	// StartingRating is assigned to new players and substituted for a
	// team with no rating data
	StartingRating int

	// Pool is the total rating at stake per match: the winners' gain
	// and the losers' loss always sum to exactly Pool
	Pool int

	// ClampMin and ClampMax bound the winners' gain, limiting both the
	// reward for expected wins and the reward for upsets
	ClampMin int
	ClampMax int
}

// DefaultSettings returns the standard policy constants
func DefaultSettings() Settings {
	return Settings{
		StartingRating: 1000,
		Pool:           50,
		ClampMin:       20,
		ClampMax:       30,
	}
}

// Change is one player's rating movement
type Change struct {
	Old    int
	New    int
	Change int
}

// TeamResult holds one team's rating outcome
type TeamResult struct {
	Average int // rounded pre-match team average, for display/audit
	Changes []Change
}

// Result is the full outcome of a rating update
type Result struct {
	Winners TeamResult
	Losers  TeamResult

	// Gain is what each winner received; Loss is what each loser paid.
	// Gain + Loss == Pool.
	Gain int
	Loss int
}

// TeamAverage returns the arithmetic mean of the team's ratings. A team
// with no rating data defaults to the starting rating.
func (s Settings) TeamAverage(ratings []int) float64 {
	if len(ratings) == 0 {
		return float64(s.StartingRating)
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

// Expected returns the standard logistic expectation of the winning
// side's score given the two team averages
func Expected(winnerAvg, loserAvg float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (loserAvg-winnerAvg)/400.0))
}

// Update computes rating changes for a decisive match. Winners each gain
// exactly the clamped delta; losers each lose Pool minus that delta,
// floored at zero.
func (s Settings) Update(winners, losers []int) Result {
	winnerAvg := s.TeamAverage(winners)
	loserAvg := s.TeamAverage(losers)

	expected := Expected(winnerAvg, loserAvg)
	delta := int(math.Round(float64(s.Pool) * (1 - expected + 0.5) / 1.5))
	delta = clamp(delta, s.ClampMin, s.ClampMax)
	loss := s.Pool - delta

	result := Result{
		Winners: TeamResult{Average: roundAverage(winnerAvg)},
		Losers:  TeamResult{Average: roundAverage(loserAvg)},
		Gain:    delta,
		Loss:    loss,
	}

	for _, old := range winners {
		result.Winners.Changes = append(result.Winners.Changes, Change{
			Old:    old,
			New:    old + delta,
			Change: delta,
		})
	}
	for _, old := range losers {
		updated := old - loss
		if updated < 0 {
			updated = 0
		}
		result.Losers.Changes = append(result.Losers.Changes, Change{
			Old:    old,
			New:    updated,
			Change: updated - old,
		})
	}
	return result
}

func roundAverage(avg float64) int {
	return int(math.Round(avg))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
