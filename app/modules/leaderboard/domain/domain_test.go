package leaderboarddomain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func ranks(out []Ranked[string]) []any {
	got := make([]any, len(out))
	for i, r := range out {
		if r.Rank == nil {
			got[i] = nil
			continue
		}
		got[i] = *r.Rank
	}
	return got
}

func TestRankCompetitionTies(t *testing.T) {
	entries := []Entry[string]{
		{"a", dec("80")}, {"b", dec("100")}, {"c", dec("10")},
		{"d", dec("80")}, {"e", dec("100")}, {"f", dec("80")},
	}
	out := Rank(entries, nil, Options[string]{CompareKeys: compareStrings})

	want := []any{1, 1, 3, 3, 3, 6}
	if diff := cmp.Diff(want, ranks(out)); diff != "" {
		t.Fatalf("ranks mismatch (-want +got):\n%s", diff)
	}
	keys := make([]string, len(out))
	for i, r := range out {
		keys[i] = r.Key
	}
	if diff := cmp.Diff([]string{"b", "e", "a", "d", "f", "c"}, keys); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRankUnscoredTail(t *testing.T) {
	entries := []Entry[string]{{"x", dec("10")}, {"y", dec("8")}}
	out := Rank(entries, []string{"z", "y", "w", "x"}, Options[string]{})

	if len(out) != 4 {
		t.Fatalf("expected 4 ranked entities, got %d", len(out))
	}
	if diff := cmp.Diff([]any{1, 2, nil, nil}, ranks(out)); diff != "" {
		t.Fatalf("ranks mismatch (-want +got):\n%s", diff)
	}
	if out[2].Key != "z" || out[3].Key != "w" {
		t.Fatalf("tail should keep universe order, got %s, %s", out[2].Key, out[3].Key)
	}
	if out[2].Score != nil {
		t.Fatalf("tail score should be nil, got %v", out[2].Score)
	}
}

func TestRankAscending(t *testing.T) {
	entries := []Entry[string]{{"slow", dec("42.5")}, {"fast", dec("30")}, {"mid", dec("30")}}
	out := Rank(entries, nil, Options[string]{Ascending: true, CompareKeys: compareStrings})

	if out[0].Key != "fast" || *out[0].Rank != 1 || *out[1].Rank != 1 || *out[2].Rank != 3 {
		t.Fatalf("unexpected ascending ranking: %+v", out)
	}
}

func TestEqualize(t *testing.T) {
	red, blue, empty := uuid.New(), uuid.New(), uuid.New()
	totals := []Entry[uuid.UUID]{
		{red, dec("300")},
		{blue, dec("100")},
		{empty, dec("50")},
	}

	got := Equalize(totals, map[uuid.UUID]int{red: 3, blue: 3})
	if len(got) != 2 {
		t.Fatalf("zero-member team should be excluded, got %d entries", len(got))
	}
	if !got[0].Score.Equal(dec("100")) {
		t.Fatalf("300 over 3 members: want 100, got %s", got[0].Score)
	}
	if !got[1].Score.Equal(dec("33.3333")) {
		t.Fatalf("100 over 3 members: want 33.3333, got %s", got[1].Score)
	}

	got = Equalize(totals[:1], map[uuid.UUID]int{red: 1})
	if !got[0].Score.Equal(dec("300")) {
		t.Fatalf("300 over 1 member: want 300, got %s", got[0].Score)
	}
}

func TestTimeseriesDaysAgo(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, loc)
	alice, bob, team := uuid.New(), uuid.New(), uuid.New()

	facts := []Fact{
		{WorkoutID: uuid.New(), UserID: alice, StartedAt: time.Date(2026, 3, 17, 23, 30, 0, 0, loc), Capped: dec("12.5")},
		{WorkoutID: uuid.New(), UserID: alice, StartedAt: time.Date(2026, 3, 17, 6, 0, 0, 0, loc), Capped: dec("2.5")},
		{WorkoutID: uuid.New(), UserID: bob, StartedAt: time.Date(2026, 3, 20, 0, 15, 0, 0, loc), Capped: dec("4")},
	}
	ts := BuildTimeseries(facts, map[uuid.UUID]uuid.UUID{alice: team}, now, loc)

	opt := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	want := []Bucket{{DaysAgo: 3, Total: dec("15")}, {DaysAgo: 0, Total: dec("4")}}
	if diff := cmp.Diff(want, ts.All, opt); diff != "" {
		t.Fatalf("all series mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Bucket{{DaysAgo: 3, Total: dec("15")}}, ts.User[alice], opt); diff != "" {
		t.Fatalf("user series mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Bucket{{DaysAgo: 3, Total: dec("15")}}, ts.Team[team], opt); diff != "" {
		t.Fatalf("team series mismatch (-want +got):\n%s", diff)
	}
	if _, ok := ts.Team[bob]; ok || len(ts.Team) != 1 {
		t.Fatalf("teamless user must not produce a team series: %v", ts.Team)
	}
}

func TestDaysAgoUsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	now := time.Date(2026, 3, 20, 0, 30, 0, 0, loc)
	start := time.Date(2026, 3, 19, 21, 0, 0, 0, time.UTC) // 23:00 on the 19th in loc

	if got := DaysAgo(start, now, loc); got != 1 {
		t.Fatalf("want 1 day ago, got %d", got)
	}
	if got := DaysAgo(start, now, time.UTC); got != 0 {
		t.Fatalf("want 0 days ago in UTC, got %d", got)
	}
}

func TestGroupFeed(t *testing.T) {
	w1, w2 := uuid.New(), uuid.New()
	ext := int64(777)
	goal := "Running"
	rows := []FeedRow{
		{PointID: uuid.New(), WorkoutID: w1, Username: "ana", ExternalID: &ext, GoalName: &goal, Raw: dec("60"), Capped: dec("50")},
		{PointID: uuid.New(), WorkoutID: w2, Username: "ben", ExternalID: &ext, StravaAllowFollow: true, Raw: dec("5"), Capped: dec("5")},
		{PointID: uuid.New(), WorkoutID: w1, Username: "ana", Raw: dec("10"), Capped: dec("10")},
	}

	items := GroupFeed(rows)
	if len(items) != 2 || items[0].WorkoutID != w1 || items[1].WorkoutID != w2 {
		t.Fatalf("unexpected grouping: %+v", items)
	}
	if !items[0].Raw.Equal(dec("70")) || !items[0].Capped.Equal(dec("60")) || len(items[0].Details) != 2 {
		t.Fatalf("unexpected sums for first workout: %+v", items[0])
	}
	if items[0].ExternalID != nil {
		t.Fatal("activity id must be hidden when following is not allowed")
	}
	if items[1].ExternalID == nil || *items[1].ExternalID != ext {
		t.Fatal("activity id should be exposed when following is allowed")
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
