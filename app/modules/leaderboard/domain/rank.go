package leaderboarddomain

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one scored entity. Keys are expected to be unique.
type Entry[K comparable] struct {
	Key   K
	Score decimal.Decimal
}

// Ranked is an entity with its competition rank. Score and Rank are nil for
// entities of the universe that had no entry.
type Ranked[K comparable] struct {
	Key   K
	Score *decimal.Decimal
	Rank  *int
}

// Options controls ordering.
type Options[K comparable] struct {
	// Ascending ranks the lowest score first.
	Ascending bool
	// CompareKeys orders tied entries. Ties keep their input order when nil.
	CompareKeys func(a, b K) int
}

// CompareUUID orders uuids bytewise.
func CompareUUID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

// Rank assigns competition ranks: equal scores share a rank and the next
// distinct score skips the tied positions, so [10 10 8] ranks [1 1 3].
// Members of universe without an entry follow in universe order, unranked.
func Rank[K comparable](entries []Entry[K], universe []K, opts Options[K]) []Ranked[K] {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry[K]) int {
		c := b.Score.Cmp(a.Score)
		if opts.Ascending {
			c = -c
		}
		if c == 0 && opts.CompareKeys != nil {
			c = opts.CompareKeys(a.Key, b.Key)
		}
		return c
	})

	out := make([]Ranked[K], 0, len(sorted)+len(universe))
	seen := make(map[K]struct{}, len(sorted))
	rank := 0
	for i, e := range sorted {
		if i == 0 || !e.Score.Equal(sorted[i-1].Score) {
			rank = i + 1
		}
		score, r := e.Score, rank
		out = append(out, Ranked[K]{Key: e.Key, Score: &score, Rank: &r})
		seen[e.Key] = struct{}{}
	}

	for _, k := range universe {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, Ranked[K]{Key: k})
	}
	return out
}
