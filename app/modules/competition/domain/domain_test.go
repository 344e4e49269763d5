package competitiondomain

import (
	"errors"
	"strings"
	"testing"
	"time"

	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestContainsDateIsInclusive(t *testing.T) {
	c := Competition{StartDate: date(2026, 3, 1), EndDate: date(2026, 3, 31)}

	cases := map[time.Time]bool{
		date(2026, 2, 28): false,
		date(2026, 3, 1):  true,
		date(2026, 3, 15): true,
		date(2026, 3, 31): true,
		date(2026, 4, 1):  false,
	}
	for d, want := range cases {
		if got := c.ContainsDate(d); got != want {
			t.Fatalf("ContainsDate(%s) = %v, want %v", d.Format(time.DateOnly), got, want)
		}
	}
}

func TestWindowCoversLastDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	c := Competition{StartDate: date(2026, 3, 1), EndDate: date(2026, 3, 31)}

	from, to := c.Window(berlin)
	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, berlin); !from.Equal(want) {
		t.Fatalf("from = %s, want %s", from, want)
	}
	if want := time.Date(2026, 4, 1, 0, 0, 0, 0, berlin); !to.Equal(want) {
		t.Fatalf("to = %s, want %s", to, want)
	}
}

func TestCompetitionValidate(t *testing.T) {
	ok := Competition{Name: "March", StartDate: date(2026, 3, 1), EndDate: date(2026, 3, 1)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("single-day competition rejected: %v", err)
	}

	reversed := ok
	reversed.EndDate = date(2026, 2, 1)
	if err := reversed.Validate(); !errors.Is(err, ErrInvalidCompetition) {
		t.Fatalf("reversed dates: got %v", err)
	}
}

func TestJoinCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := NewJoinCode()
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != JoinCodeLength {
			t.Fatalf("len(%q) = %d", code, len(code))
		}
		if strings.ContainsAny(code, "01IO") || code != strings.ToUpper(code) {
			t.Fatalf("unexpected characters in %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Fatalf("join codes repeat too often: %d distinct of 50", len(seen))
	}

	if got := NormalizeJoinCode("  ab3k9z "); got != "AB3K9Z" {
		t.Fatalf("NormalizeJoinCode = %q", got)
	}
}

func TestGoalValidate(t *testing.T) {
	base := Goal{
		ID:            uuid.New(),
		Name:          "Run kcal",
		SportGroup:    workoutdomain.GroupRunning,
		Metric:        MetricKcal,
		PointsPerUnit: decimal.NewFromFloat(0.1),
	}

	tests := []struct {
		name   string
		mutate func(*Goal)
		valid  bool
	}{
		{name: "valid", mutate: func(*Goal) {}, valid: true},
		{name: "explicit types only", mutate: func(g *Goal) {
			g.SportGroup = ""
			g.SportTypes = []workoutdomain.SportType{workoutdomain.SportSwim}
		}, valid: true},
		{name: "no sports", mutate: func(g *Goal) { g.SportGroup = "" }},
		{name: "unknown group", mutate: func(g *Goal) { g.SportGroup = "GROUP_CHESS" }},
		{name: "unknown sport", mutate: func(g *Goal) { g.SportTypes = []workoutdomain.SportType{"Chess"} }},
		{name: "unknown metric", mutate: func(g *Goal) { g.Metric = "steps" }},
		{name: "negative rate", mutate: func(g *Goal) { g.PointsPerUnit = decimal.NewFromInt(-1) }},
		{name: "negative cap", mutate: func(g *Goal) { g.Cap = decimal.NewNullDecimal(decimal.NewFromInt(-5)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := base
			tt.mutate(&g)
			err := g.Validate()
			if tt.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidGoalConfiguration) {
				t.Fatalf("expected ErrInvalidGoalConfiguration, got %v", err)
			}
		})
	}
}

func TestGoalAppliesTo(t *testing.T) {
	g := Goal{
		SportGroup: workoutdomain.GroupRunning,
		SportTypes: []workoutdomain.SportType{workoutdomain.SportSwim},
	}
	if !g.AppliesTo(workoutdomain.SportTrailRun) {
		t.Fatal("group member should apply")
	}
	if !g.AppliesTo(workoutdomain.SportSwim) {
		t.Fatal("explicit type should apply")
	}
	if g.AppliesTo(workoutdomain.SportRide) {
		t.Fatal("ride should not apply")
	}
}
