package leaderboarddomain

import (
	"sort"
	"time"

	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fact is one capped point row of a competition with the workout it belongs to.
type Fact struct {
	WorkoutID uuid.UUID
	UserID    uuid.UUID
	StartedAt time.Time
	Capped    decimal.Decimal
}

// Bucket is the sum of capped points earned on one calendar day.
type Bucket struct {
	DaysAgo int             `json:"days_ago"`
	Total   decimal.Decimal `json:"total"`
}

// Timeseries holds sparse days-ago buckets, largest days-ago first.
type Timeseries struct {
	All  []Bucket               `json:"all"`
	User map[uuid.UUID][]Bucket `json:"user"`
	Team map[uuid.UUID][]Bucket `json:"team"`
}

// DaysAgo is the number of calendar days between start and now, both taken
// in loc. Workouts dated after today yield negative values.
func DaysAgo(start, now time.Time, loc *time.Location) int {
	today := workoutdomain.DateOf(now, loc)
	day := workoutdomain.DateOf(start, loc)
	return int(today.Sub(day) / (24 * time.Hour))
}

// BuildTimeseries buckets facts for the whole competition, per user and per
// team. teamOf maps users to their current team; users without a team only
// count towards All and User.
func BuildTimeseries(facts []Fact, teamOf map[uuid.UUID]uuid.UUID, now time.Time, loc *time.Location) Timeseries {
	all := map[int]decimal.Decimal{}
	users := map[uuid.UUID]map[int]decimal.Decimal{}
	teams := map[uuid.UUID]map[int]decimal.Decimal{}

	add := func(m map[uuid.UUID]map[int]decimal.Decimal, key uuid.UUID, day int, v decimal.Decimal) {
		if m[key] == nil {
			m[key] = map[int]decimal.Decimal{}
		}
		m[key][day] = m[key][day].Add(v)
	}

	for _, f := range facts {
		day := DaysAgo(f.StartedAt, now, loc)
		all[day] = all[day].Add(f.Capped)
		add(users, f.UserID, day, f.Capped)
		if team, ok := teamOf[f.UserID]; ok {
			add(teams, team, day, f.Capped)
		}
	}

	ts := Timeseries{
		All:  buckets(all),
		User: make(map[uuid.UUID][]Bucket, len(users)),
		Team: make(map[uuid.UUID][]Bucket, len(teams)),
	}
	for id, days := range users {
		ts.User[id] = buckets(days)
	}
	for id, days := range teams {
		ts.Team[id] = buckets(days)
	}
	return ts
}

func buckets(days map[int]decimal.Decimal) []Bucket {
	out := make([]Bucket, 0, len(days))
	for day, total := range days {
		out = append(out, Bucket{DaysAgo: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DaysAgo > out[j].DaysAgo })
	return out
}
