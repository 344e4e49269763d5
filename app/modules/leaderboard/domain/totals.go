package leaderboarddomain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// teamScalePlaces is the precision of equalized team scores.
const teamScalePlaces = 4

// UserTotals sums capped points per user.
func UserTotals(facts []Fact) []Entry[uuid.UUID] {
	return totals(facts, func(f Fact) (uuid.UUID, bool) { return f.UserID, true })
}

// TeamTotals sums capped points per team of the fact's user.
func TeamTotals(facts []Fact, teamOf map[uuid.UUID]uuid.UUID) []Entry[uuid.UUID] {
	return totals(facts, func(f Fact) (uuid.UUID, bool) {
		team, ok := teamOf[f.UserID]
		return team, ok
	})
}

func totals(facts []Fact, keyOf func(Fact) (uuid.UUID, bool)) []Entry[uuid.UUID] {
	index := map[uuid.UUID]int{}
	var out []Entry[uuid.UUID]
	for _, f := range facts {
		key, ok := keyOf(f)
		if !ok {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(out)
			index[key] = i
			out = append(out, Entry[uuid.UUID]{Key: key})
		}
		out[i].Score = out[i].Score.Add(f.Capped)
	}
	return out
}

// Equalize divides each team total by the team's current member count.
// Teams with no members are left out rather than divided by zero.
func Equalize(totals []Entry[uuid.UUID], memberCounts map[uuid.UUID]int) []Entry[uuid.UUID] {
	out := make([]Entry[uuid.UUID], 0, len(totals))
	for _, t := range totals {
		n := memberCounts[t.Key]
		if n <= 0 {
			continue
		}
		out = append(out, Entry[uuid.UUID]{
			Key:   t.Key,
			Score: t.Score.DivRound(decimal.NewFromInt(int64(n)), teamScalePlaces),
		})
	}
	return out
}
