package competitiondb

import (
	"time"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Competition is the persisted competition row.
type Competition struct {
	bun.BaseModel `bun:"table:competitions,alias:c"`

	ID             uuid.UUID           `bun:"id,pk,type:uuid"`
	OwnerID        uuid.UUID           `bun:"owner_id,type:uuid,notnull"`
	Name           string              `bun:"name,notnull"`
	StartDate      time.Time           `bun:"start_date,type:date,notnull"`
	EndDate        time.Time           `bun:"end_date,type:date,notnull"`
	HasTeams       bool                `bun:"has_teams,notnull,default:false"`
	JoinCode       string              `bun:"join_code,notnull,unique"`
	DefaultGoalCap decimal.NullDecimal `bun:"default_goal_cap,type:numeric(9,2)"`
	CreatedAt      time.Time           `bun:"created_at,notnull,default:current_timestamp"`
}

func (c *Competition) ToDomain() competitiondomain.Competition {
	return competitiondomain.Competition{
		ID:             c.ID,
		OwnerID:        c.OwnerID,
		Name:           c.Name,
		StartDate:      asDate(c.StartDate),
		EndDate:        asDate(c.EndDate),
		HasTeams:       c.HasTeams,
		JoinCode:       c.JoinCode,
		DefaultGoalCap: c.DefaultGoalCap,
	}
}

func competitionFromDomain(c competitiondomain.Competition) *Competition {
	return &Competition{
		ID:             c.ID,
		OwnerID:        c.OwnerID,
		Name:           c.Name,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		HasTeams:       c.HasTeams,
		JoinCode:       c.JoinCode,
		DefaultGoalCap: c.DefaultGoalCap,
	}
}

// asDate normalizes a scanned DATE column to midnight UTC.
func asDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompetitionMember links a user to a competition.
type CompetitionMember struct {
	bun.BaseModel `bun:"table:competition_members,alias:cm"`

	CompetitionID uuid.UUID `bun:"competition_id,pk,type:uuid"`
	UserID        uuid.UUID `bun:"user_id,pk,type:uuid"`
	JoinedAt      time.Time `bun:"joined_at,notnull,default:current_timestamp"`
}

// Team is the persisted team row.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	CompetitionID uuid.UUID `bun:"competition_id,type:uuid,notnull"`
	Name          string    `bun:"name,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func (t *Team) ToDomain() competitiondomain.Team {
	return competitiondomain.Team{ID: t.ID, CompetitionID: t.CompetitionID, Name: t.Name}
}

// TeamMember links a user to a team. CompetitionID is denormalized so the
// one-team-per-competition rule is a plain unique constraint.
type TeamMember struct {
	bun.BaseModel `bun:"table:team_members,alias:tm"`

	TeamID        uuid.UUID `bun:"team_id,pk,type:uuid"`
	UserID        uuid.UUID `bun:"user_id,pk,type:uuid"`
	CompetitionID uuid.UUID `bun:"competition_id,type:uuid,notnull"`
}

// Goal is the persisted goal row.
type Goal struct {
	bun.BaseModel `bun:"table:goals,alias:g"`

	ID                 uuid.UUID           `bun:"id,pk,type:uuid"`
	CompetitionID      uuid.UUID           `bun:"competition_id,type:uuid,notnull"`
	Name               string              `bun:"name,notnull"`
	SportGroup         string              `bun:"sport_group,notnull,default:''"`
	SportTypes         []string            `bun:"sport_types,array"`
	Metric             string              `bun:"metric,notnull"`
	PointsPerUnit      decimal.Decimal     `bun:"points_per_unit,type:numeric(9,4),notnull"`
	MinDurationMinutes decimal.NullDecimal `bun:"min_duration_minutes,type:numeric(9,2)"`
	MinDistanceKm      decimal.NullDecimal `bun:"min_distance_km,type:numeric(9,2)"`
	MinKcal            decimal.NullDecimal `bun:"min_kcal,type:numeric(9,2)"`
	Cap                decimal.NullDecimal `bun:"cap,type:numeric(9,2)"`
	CreatedAt          time.Time           `bun:"created_at,notnull,default:current_timestamp"`
}

func (g *Goal) ToDomain() competitiondomain.Goal {
	types := make([]workoutdomain.SportType, len(g.SportTypes))
	for i, st := range g.SportTypes {
		types[i] = workoutdomain.SportType(st)
	}
	return competitiondomain.Goal{
		ID:                 g.ID,
		CompetitionID:      g.CompetitionID,
		Name:               g.Name,
		SportGroup:         workoutdomain.SportGroup(g.SportGroup),
		SportTypes:         types,
		Metric:             competitiondomain.Metric(g.Metric),
		PointsPerUnit:      g.PointsPerUnit,
		MinDurationMinutes: g.MinDurationMinutes,
		MinDistanceKm:      g.MinDistanceKm,
		MinKcal:            g.MinKcal,
		Cap:                g.Cap,
	}
}

func goalFromDomain(g competitiondomain.Goal) *Goal {
	types := make([]string, len(g.SportTypes))
	for i, st := range g.SportTypes {
		types[i] = string(st)
	}
	return &Goal{
		ID:                 g.ID,
		CompetitionID:      g.CompetitionID,
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

// Award is the persisted award row.
type Award struct {
	bun.BaseModel `bun:"table:awards,alias:a"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	CompetitionID uuid.UUID `bun:"competition_id,type:uuid,notnull"`
	Name          string    `bun:"name,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func (a *Award) ToDomain() competitiondomain.Award {
	return competitiondomain.Award{ID: a.ID, CompetitionID: a.CompetitionID, Name: a.Name}
}

// TeamMembership is one (team, user) pair of a competition.
type TeamMembership struct {
	TeamID uuid.UUID `bun:"team_id"`
	UserID uuid.UUID `bun:"user_id"`
}
