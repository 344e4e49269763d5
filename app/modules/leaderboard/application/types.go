package leaderboardservice

import (
	"time"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	leaderboarddomain "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompetitionStats is the stats payload of one competition.
type CompetitionStats struct {
	Timeseries  leaderboarddomain.Timeseries `json:"timeseries"`
	Teams       map[uuid.UUID]TeamSummary    `json:"teams"`
	Competition CompetitionSummary           `json:"competition"`
	Leaderboard Leaderboards                 `json:"leaderboard"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

type TeamSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"member_count"`
}

// CompetitionSummary describes the competition. The day counts are today
// minus the start and end dates, so they are negative before those dates.
type CompetitionSummary struct {
	Name           string        `json:"name"`
	OwnerID        uuid.UUID     `json:"owner"`
	Members        []uuid.UUID   `json:"members"`
	MemberCount    int           `json:"member_count"`
	StartDate      string        `json:"start_date"`
	StartDateCount int           `json:"start_date_count"`
	EndDate        string        `json:"end_date"`
	EndDateCount   int           `json:"end_date_count"`
	HasTeams       bool          `json:"has_teams"`
	Goals          []GoalSummary `json:"goals"`
}

type GoalSummary struct {
	ID                 uuid.UUID           `json:"id"`
	Name               string              `json:"name"`
	SportGroup         string              `json:"sport_group,omitempty"`
	SportTypes         []string            `json:"sport_types,omitempty"`
	Metric             string              `json:"metric"`
	PointsPerUnit      decimal.Decimal     `json:"points_per_unit"`
	MinDurationMinutes decimal.NullDecimal `json:"min_duration_minutes"`
	MinDistanceKm      decimal.NullDecimal `json:"min_distance_km"`
	MinKcal            decimal.NullDecimal `json:"min_kcal"`
	Cap                decimal.NullDecimal `json:"cap"`
}

type Leaderboards struct {
	Team       []TeamEntry       `json:"team"`
	Individual []IndividualEntry `json:"individual"`
}

// IndividualEntry is one member on the individual leaderboard. Rank and
// Points are null for members without points.
type IndividualEntry struct {
	UserID          uuid.UUID        `json:"id"`
	Username        string           `json:"username"`
	StravaAthleteID *int64           `json:"strava_athlete_id"`
	Rank            *int             `json:"rank"`
	Points          *decimal.Decimal `json:"points"`
}

// TeamEntry is one team on the team leaderboard, scored per member.
type TeamEntry struct {
	TeamID  uuid.UUID        `json:"id"`
	Name    string           `json:"name"`
	Members []MemberRef      `json:"members"`
	Rank    *int             `json:"rank"`
	Points  *decimal.Decimal `json:"points"`
}

type MemberRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

const dateLayout = "2006-01-02"

func summarizeGoal(g competitiondomain.Goal) GoalSummary {
	types := make([]string, len(g.SportTypes))
	for i, st := range g.SportTypes {
		types[i] = string(st)
	}
	return GoalSummary{
		ID:                 g.ID,
		Name:               g.Name,
		SportGroup:         string(g.SportGroup),
		SportTypes:         types,
		Metric:             string(g.Metric),
		PointsPerUnit:      g.PointsPerUnit,
		MinDurationMinutes: g.MinDurationMinutes,
		MinDistanceKm:      g.MinDistanceKm,
		MinKcal:            g.MinKcal,
		Cap:                g.Cap,
	}
}
