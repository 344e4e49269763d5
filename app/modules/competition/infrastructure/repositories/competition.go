package competitiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a competition is not found.
	ErrNotFound = errors.New("competition not found")
	// ErrTeamNotFound is returned when a team is not found.
	ErrTeamNotFound = errors.New("team not found")
	// ErrGoalNotFound is returned when a goal is not found.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrAwardNotFound is returned when an award is not found.
	ErrAwardNotFound = errors.New("award not found")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new competition repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// --- Competitions ---

func (r *Impl) GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Competition, error) {
	row := new(Competition)
	err := r.resolveDB(db).NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	c := row.ToDomain()
	return &c, nil
}

func (r *Impl) GetByJoinCode(ctx context.Context, db bun.IDB, code string) (*competitiondomain.Competition, error) {
	row := new(Competition)
	err := r.resolveDB(db).NewSelect().
		Model(row).
		Where("join_code = ?", competitiondomain.NormalizeJoinCode(code)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get competition by join code: %w", err)
	}
	c := row.ToDomain()
	return &c, nil
}

func (r *Impl) CreateCompetition(ctx context.Context, db bun.IDB, c competitiondomain.Competition) error {
	if _, err := r.resolveDB(db).NewInsert().Model(competitionFromDomain(c)).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create competition: %w", err)
	}
	return nil
}

func (r *Impl) ListCompetitionsForUser(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]competitiondomain.Competition, error) {
	var rows []Competition
	err := r.resolveDB(db).NewSelect().
		Model(&rows).
		Join("JOIN competition_members AS cm ON cm.competition_id = c.id").
		Where("cm.user_id = ?", userID).
		OrderExpr("c.start_date DESC, c.id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions for user: %w", err)
	}
	out := make([]competitiondomain.Competition, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// --- Membership ---

func (r *Impl) AddMember(ctx context.Context, db bun.IDB, competitionID, userID uuid.UUID) (bool, error) {
	res, err := r.resolveDB(db).NewInsert().
		Model(&CompetitionMember{CompetitionID: competitionID, UserID: userID}).
		On("CONFLICT (competition_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to add competition member: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Impl) IsMember(ctx context.Context, db bun.IDB, competitionID, userID uuid.UUID) (bool, error) {
	exists, err := r.resolveDB(db).NewSelect().
		Model((*CompetitionMember)(nil)).
		Where("competition_id = ?", competitionID).
		Where("user_id = ?", userID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check competition membership: %w", err)
	}
	return exists, nil
}

func (r *Impl) ListMemberIDs(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.resolveDB(db).NewSelect().
		Model((*CompetitionMember)(nil)).
		Column("user_id").
		Where("competition_id = ?", competitionID).
		OrderExpr("joined_at, user_id").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list competition members: %w", err)
	}
	return ids, nil
}

// --- Teams ---

func (r *Impl) CreateTeam(ctx context.Context, db bun.IDB, t competitiondomain.Team) error {
	row := &Team{ID: t.ID, CompetitionID: t.CompetitionID, Name: t.Name}
	if _, err := r.resolveDB(db).NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *Impl) GetTeam(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Team, error) {
	row := new(Team)
	err := r.resolveDB(db).NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	t := row.ToDomain()
	return &t, nil
}

func (r *Impl) ListTeams(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Team, error) {
	var rows []Team
	err := r.resolveDB(db).NewSelect().
		Model(&rows).
		Where("competition_id = ?", competitionID).
		OrderExpr("name, id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	out := make([]competitiondomain.Team, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *Impl) ListTeamMemberships(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]TeamMembership, error) {
	var out []TeamMembership
	err := r.resolveDB(db).NewSelect().
		Model((*TeamMember)(nil)).
		Column("team_id", "user_id").
		Where("competition_id = ?", competitionID).
		Scan(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list team memberships: %w", err)
	}
	return out, nil
}

func (r *Impl) JoinTeam(ctx context.Context, db bun.IDB, competitionID, teamID, userID uuid.UUID) error {
	db = r.resolveDB(db)
	_, err := db.NewDelete().
		Model((*TeamMember)(nil)).
		Where("competition_id = ?", competitionID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to leave previous team: %w", err)
	}
	_, err = db.NewInsert().
		Model(&TeamMember{TeamID: teamID, UserID: userID, CompetitionID: competitionID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to join team: %w", err)
	}
	return nil
}

// --- Goals ---

func (r *Impl) GetGoal(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Goal, error) {
	row := new(Goal)
	err := r.resolveDB(db).NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	g := row.ToDomain()
	return &g, nil
}

func (r *Impl) ListGoals(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Goal, error) {
	var rows []Goal
	err := r.resolveDB(db).NewSelect().
		Model(&rows).
		Where("competition_id = ?", competitionID).
		OrderExpr("created_at, id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	out := make([]competitiondomain.Goal, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *Impl) CreateGoal(ctx context.Context, db bun.IDB, g competitiondomain.Goal) error {
	if _, err := r.resolveDB(db).NewInsert().Model(goalFromDomain(g)).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// UpdateGoal rewrites the goal definition. The competition of a goal never changes.
func (r *Impl) UpdateGoal(ctx context.Context, db bun.IDB, g competitiondomain.Goal) error {
	res, err := r.resolveDB(db).NewUpdate().
		Model(goalFromDomain(g)).
		ExcludeColumn("id", "competition_id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Impl) DeleteGoal(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	res, err := r.resolveDB(db).NewDelete().Model((*Goal)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Impl) ListActiveGoalsForUser(ctx context.Context, db bun.IDB, userID uuid.UUID, date time.Time) ([]competitiondomain.CompetitionGoals, error) {
	db = r.resolveDB(db)

	var comps []Competition
	err := db.NewSelect().
		Model(&comps).
		Join("JOIN competition_members AS cm ON cm.competition_id = c.id").
		Where("cm.user_id = ?", userID).
		Where("c.start_date <= ?::date", date.Format(time.DateOnly)).
		Where("c.end_date >= ?::date", date.Format(time.DateOnly)).
		OrderExpr("c.start_date, c.id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active competitions: %w", err)
	}
	if len(comps) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(comps))
	for i := range comps {
		ids[i] = comps[i].ID
	}
	var goals []Goal
	err = db.NewSelect().
		Model(&goals).
		Where("competition_id IN (?)", bun.In(ids)).
		OrderExpr("created_at, id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active goals: %w", err)
	}

	byComp := make(map[uuid.UUID][]competitiondomain.Goal, len(comps))
	for i := range goals {
		byComp[goals[i].CompetitionID] = append(byComp[goals[i].CompetitionID], goals[i].ToDomain())
	}
	out := make([]competitiondomain.CompetitionGoals, len(comps))
	for i := range comps {
		out[i] = competitiondomain.CompetitionGoals{
			Competition: comps[i].ToDomain(),
			Goals:       byComp[comps[i].ID],
		}
	}
	return out, nil
}

// --- Awards ---

func (r *Impl) CreateAward(ctx context.Context, db bun.IDB, a competitiondomain.Award) error {
	row := &Award{ID: a.ID, CompetitionID: a.CompetitionID, Name: a.Name}
	if _, err := r.resolveDB(db).NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create award: %w", err)
	}
	return nil
}

func (r *Impl) GetAward(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Award, error) {
	row := new(Award)
	err := r.resolveDB(db).NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAwardNotFound
		}
		return nil, fmt.Errorf("failed to get award: %w", err)
	}
	a := row.ToDomain()
	return &a, nil
}
