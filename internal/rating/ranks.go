package rating

// Rank is a named tier derived from a rating threshold
type Rank struct {
	Name      string
	MinRating int
}

// rankTable is strictly ordered by MinRating ascending and total from 0,
// so every non-negative rating has a rank.
var rankTable = []Rank{
	{Name: "Bronze", MinRating: 0},
	{Name: "Silver", MinRating: 800},
	{Name: "Gold", MinRating: 1000},
	{Name: "Platinum", MinRating: 1200},
	{Name: "Diamond", MinRating: 1400},
	{Name: "Master", MinRating: 1600},
	{Name: "Grandmaster", MinRating: 1850},
}

// Ranks returns the full rank table, lowest tier first
func Ranks() []Rank {
	table := make([]Rank, len(rankTable))
	copy(table, rankTable)
	return table
}

// RankFor returns the highest rank whose threshold the rating meets or
// exceeds. Negative ratings map to the lowest tier.
func RankFor(rating int) Rank {
	best := rankTable[0]
	for _, r := range rankTable[1:] {
		if rating >= r.MinRating {
			best = r
		}
	}
	return best
}
