package leaderboardservice

import (
	"maps"
	"slices"
	"sync"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/fitcomp/pkg/clock"
	"github.com/google/uuid"
)

type cacheEntry struct {
	stats   *CompetitionStats
	expires time.Time
}

// statsCache keeps computed stats per competition until they expire or are
// invalidated. A non-positive TTL disables caching. Each invalidation bumps
// the competition's generation so a computation that started before it is
// not stored. Entries are copied on the way in and out, so callers own what
// they get.
type statsCache struct {
	mu          sync.Mutex
	ttl         time.Duration
	clock       clock.Clock
	entries     map[uuid.UUID]cacheEntry
	generations map[uuid.UUID]uint64
}

func newStatsCache(ttl time.Duration, c clock.Clock) *statsCache {
	return &statsCache{
		ttl:         ttl,
		clock:       c,
		entries:     make(map[uuid.UUID]cacheEntry),
		generations: make(map[uuid.UUID]uint64),
	}
}

// get returns the cached stats, or the generation to pass to put on a miss.
func (c *statsCache) get(id uuid.UUID) (*CompetitionStats, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := c.generations[id]
	if c.ttl <= 0 {
		return nil, gen, false
	}
	e, ok := c.entries[id]
	if !ok {
		return nil, gen, false
	}
	if !c.clock.Now().Before(e.expires) {
		delete(c.entries, id)
		return nil, gen, false
	}
	return e.stats.clone(), gen, true
}

func (c *statsCache) put(id uuid.UUID, gen uint64, stats *CompetitionStats) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[id] != gen {
		return
	}
	c.entries[id] = cacheEntry{stats: stats.clone(), expires: c.clock.Now().Add(c.ttl)}
}

func (c *statsCache) invalidate(ids ...uuid.UUID) {
	c.mu.Lock()
	for _, id := range ids {
		delete(c.entries, id)
		c.generations[id]++
	}
	c.mu.Unlock()
}

// clone copies every slice and map of the stats. Pointed-to ranks and
// points are shared; they are never written after computation.
func (s *CompetitionStats) clone() *CompetitionStats {
	if s == nil {
		return nil
	}
	out := *s
	out.Timeseries = leaderboarddomain.Timeseries{
		All:  slices.Clone(s.Timeseries.All),
		User: cloneSeries(s.Timeseries.User),
		Team: cloneSeries(s.Timeseries.Team),
	}
	out.Teams = maps.Clone(s.Teams)
	out.Competition.Members = slices.Clone(s.Competition.Members)
	out.Competition.Goals = slices.Clone(s.Competition.Goals)
	for i := range out.Competition.Goals {
		out.Competition.Goals[i].SportTypes = slices.Clone(out.Competition.Goals[i].SportTypes)
	}
	out.Leaderboard.Individual = slices.Clone(s.Leaderboard.Individual)
	out.Leaderboard.Team = slices.Clone(s.Leaderboard.Team)
	for i := range out.Leaderboard.Team {
		out.Leaderboard.Team[i].Members = slices.Clone(out.Leaderboard.Team[i].Members)
	}
	return &out
}

func cloneSeries(in map[uuid.UUID][]leaderboarddomain.Bucket) map[uuid.UUID][]leaderboarddomain.Bucket {
	if in == nil {
		return nil
	}
	out := make(map[uuid.UUID][]leaderboarddomain.Bucket, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}
