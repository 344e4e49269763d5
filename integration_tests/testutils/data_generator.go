//go:build integration

package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// TestDataGenerator creates seeded users and workouts.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewTestDataGenerator creates a new test data generator with optional seed.
func NewTestDataGenerator(seed ...uint64) *TestDataGenerator {
	s := uint64(time.Now().UnixNano())
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(s), seed: s}
}

// Seed returns the seed so failures can be reproduced.
func (g *TestDataGenerator) Seed() uint64 { return g.seed }

// GenerateUser returns a user with a unique username and neutral scaling.
func (g *TestDataGenerator) GenerateUser() userdb.User {
	return userdb.User{
		ID:          uuid.New(),
		Username:    fmt.Sprintf("%s_%s", g.faker.Username(), g.faker.LetterN(6)),
		ScalingKcal: decimal.NewFromInt(1),
	}
}

// InsertUsers stores n generated users.
func (g *TestDataGenerator) InsertUsers(t *testing.T, ctx context.Context, db bun.IDB, n int) []userdb.User {
	t.Helper()
	repo := userdb.NewRepository(db)
	users := make([]userdb.User, 0, n)
	for range n {
		u := g.GenerateUser()
		if err := repo.Upsert(ctx, db, &u); err != nil {
			t.Fatalf("failed to insert user: %v", err)
		}
		users = append(users, u)
	}
	return users
}

var runLike = []workoutdomain.SportType{
	workoutdomain.SportRun,
	workoutdomain.SportTrailRun,
	workoutdomain.SportVirtualRun,
}

// GenerateRun returns a running draft on day with an explicit kcal value so
// points do not depend on the MET table.
func (g *TestDataGenerator) GenerateRun(userID uuid.UUID, day time.Time) workoutdomain.Draft {
	hour := g.faker.IntRange(6, 20)
	minutes := g.faker.IntRange(20, 90)
	kcal := decimal.NewFromInt(int64(g.faker.IntRange(150, 900)))
	return workoutdomain.Draft{
		UserID:     userID,
		SportType:  runLike[g.faker.IntRange(0, len(runLike)-1)],
		StartedAt:  time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC),
		Duration:   time.Duration(minutes) * time.Minute,
		Kcal:       decimal.NewNullDecimal(kcal),
		DistanceKm: decimal.NewNullDecimal(decimal.NewFromFloat(g.faker.Float64Range(3, 21)).Round(2)),
	}
}

// KcalGoal awards one point per kcal of running, optionally capped.
func KcalGoal(competitionID uuid.UUID, cap *decimal.Decimal) competitiondomain.Goal {
	g := competitiondomain.Goal{
		CompetitionID: competitionID,
		Name:          "Running kcal",
		SportGroup:    workoutdomain.GroupRunning,
		Metric:        competitiondomain.MetricKcal,
		PointsPerUnit: decimal.NewFromInt(1),
	}
	if cap != nil {
		g.Cap = decimal.NewNullDecimal(*cap)
	}
	return g
}

// Day returns midnight UTC of the given date.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
