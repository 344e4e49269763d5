package competitionservice

import (
	"context"
	"time"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Competition Repo
// ------------------------

type FakeCompetitionRepo struct {
	trace []string

	GetCompetitionFunc          func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Competition, error)
	GetByJoinCodeFunc           func(ctx context.Context, db bun.IDB, code string) (*competitiondomain.Competition, error)
	CreateCompetitionFunc       func(ctx context.Context, db bun.IDB, c competitiondomain.Competition) error
	ListCompetitionsForUserFunc func(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]competitiondomain.Competition, error)
	AddMemberFunc               func(ctx context.Context, db bun.IDB, competitionID, userID uuid.UUID) (bool, error)
	IsMemberFunc                func(ctx context.Context, db bun.IDB, competitionID, userID uuid.UUID) (bool, error)
	ListMemberIDsFunc           func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]uuid.UUID, error)
	CreateTeamFunc              func(ctx context.Context, db bun.IDB, t competitiondomain.Team) error
	GetTeamFunc                 func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Team, error)
	ListTeamsFunc               func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Team, error)
	ListTeamMembershipsFunc     func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondb.TeamMembership, error)
	JoinTeamFunc                func(ctx context.Context, db bun.IDB, competitionID, teamID, userID uuid.UUID) error
	GetGoalFunc                 func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Goal, error)
	ListGoalsFunc               func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Goal, error)
	CreateGoalFunc              func(ctx context.Context, db bun.IDB, g competitiondomain.Goal) error
	UpdateGoalFunc              func(ctx context.Context, db bun.IDB, g competitiondomain.Goal) error
	DeleteGoalFunc              func(ctx context.Context, db bun.IDB, id uuid.UUID) error
	ListActiveGoalsForUserFunc  func(ctx context.Context, db bun.IDB, userID uuid.UUID, date time.Time) ([]competitiondomain.CompetitionGoals, error)
	CreateAwardFunc             func(ctx context.Context, db bun.IDB, a competitiondomain.Award) error
	GetAwardFunc                func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Award, error)
}

func NewFakeCompetitionRepo() *FakeCompetitionRepo {
	return &FakeCompetitionRepo{trace: []string{}}
}

func (f *FakeCompetitionRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeCompetitionRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeCompetitionRepo) GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Competition, error) {
	f.record("GetCompetition")
	if f.GetCompetitionFunc != nil {
		return f.GetCompetitionFunc(ctx, db, id)
	}
	return nil, competitiondb.ErrNotFound
}

func (f *FakeCompetitionRepo) GetByJoinCode(ctx context.Context, db bun.IDB, code string) (*competitiondomain.Competition, error) {
	f.record("GetByJoinCode")
	if f.GetByJoinCodeFunc != nil {
		return f.GetByJoinCodeFunc(ctx, db, code)
	}
	return nil, competitiondb.ErrNotFound
}

func (f *FakeCompetitionRepo) CreateCompetition(ctx context.Context, db bun.IDB, c competitiondomain.Competition) error {
	f.record("CreateCompetition")
	if f.CreateCompetitionFunc != nil {
		return f.CreateCompetitionFunc(ctx, db, c)
	}
	return nil
}

func (f *FakeCompetitionRepo) ListCompetitionsForUser(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]competitiondomain.Competition, error) {
	f.record("ListCompetitionsForUser")
	if f.ListCompetitionsForUserFunc != nil {
		return f.ListCompetitionsForUserFunc(ctx, db, userID)
	}
	return nil, nil
}

func (f *FakeCompetitionRepo) AddMember(ctx context.Context, db bun.IDB, competitionID, userID uuid.UUID) (bool, error) {
	f.record("AddMember")
	if f.AddMemberFunc != nil {
		return f.AddMemberFunc(ctx, db, competitionID, userID)
	}
	return true, nil
}

func (f *FakeCompetitionRepo) IsMember(ctx context.Context, db bun.IDB, competitionID, userID uuid.UUID) (bool, error) {
	f.record("IsMember")
	if f.IsMemberFunc != nil {
		return f.IsMemberFunc(ctx, db, competitionID, userID)
	}
	return false, nil
}

func (f *FakeCompetitionRepo) ListMemberIDs(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]uuid.UUID, error) {
	f.record("ListMemberIDs")
	if f.ListMemberIDsFunc != nil {
		return f.ListMemberIDsFunc(ctx, db, competitionID)
	}
	return nil, nil
}

func (f *FakeCompetitionRepo) CreateTeam(ctx context.Context, db bun.IDB, t competitiondomain.Team) error {
	f.record("CreateTeam")
	if f.CreateTeamFunc != nil {
		return f.CreateTeamFunc(ctx, db, t)
	}
	return nil
}

func (f *FakeCompetitionRepo) GetTeam(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Team, error) {
	f.record("GetTeam")
	if f.GetTeamFunc != nil {
		return f.GetTeamFunc(ctx, db, id)
	}
	return nil, competitiondb.ErrTeamNotFound
}

func (f *FakeCompetitionRepo) ListTeams(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Team, error) {
	f.record("ListTeams")
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx, db, competitionID)
	}
	return nil, nil
}

func (f *FakeCompetitionRepo) ListTeamMemberships(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondb.TeamMembership, error) {
	f.record("ListTeamMemberships")
	if f.ListTeamMembershipsFunc != nil {
		return f.ListTeamMembershipsFunc(ctx, db, competitionID)
	}
	return nil, nil
}

func (f *FakeCompetitionRepo) JoinTeam(ctx context.Context, db bun.IDB, competitionID, teamID, userID uuid.UUID) error {
	f.record("JoinTeam")
	if f.JoinTeamFunc != nil {
		return f.JoinTeamFunc(ctx, db, competitionID, teamID, userID)
	}
	return nil
}

func (f *FakeCompetitionRepo) GetGoal(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Goal, error) {
	f.record("GetGoal")
	if f.GetGoalFunc != nil {
		return f.GetGoalFunc(ctx, db, id)
	}
	return nil, competitiondb.ErrGoalNotFound
}

func (f *FakeCompetitionRepo) ListGoals(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Goal, error) {
	f.record("ListGoals")
	if f.ListGoalsFunc != nil {
		return f.ListGoalsFunc(ctx, db, competitionID)
	}
	return nil, nil
}

func (f *FakeCompetitionRepo) CreateGoal(ctx context.Context, db bun.IDB, g competitiondomain.Goal) error {
	f.record("CreateGoal")
	if f.CreateGoalFunc != nil {
		return f.CreateGoalFunc(ctx, db, g)
	}
	return nil
}

func (f *FakeCompetitionRepo) UpdateGoal(ctx context.Context, db bun.IDB, g competitiondomain.Goal) error {
	f.record("UpdateGoal")
	if f.UpdateGoalFunc != nil {
		return f.UpdateGoalFunc(ctx, db, g)
	}
	return nil
}

func (f *FakeCompetitionRepo) DeleteGoal(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("DeleteGoal")
	if f.DeleteGoalFunc != nil {
		return f.DeleteGoalFunc(ctx, db, id)
	}
	return nil
}

func (f *FakeCompetitionRepo) ListActiveGoalsForUser(ctx context.Context, db bun.IDB, userID uuid.UUID, date time.Time) ([]competitiondomain.CompetitionGoals, error) {
	f.record("ListActiveGoalsForUser")
	if f.ListActiveGoalsForUserFunc != nil {
		return f.ListActiveGoalsForUserFunc(ctx, db, userID, date)
	}
	return nil, nil
}

func (f *FakeCompetitionRepo) CreateAward(ctx context.Context, db bun.IDB, a competitiondomain.Award) error {
	f.record("CreateAward")
	if f.CreateAwardFunc != nil {
		return f.CreateAwardFunc(ctx, db, a)
	}
	return nil
}

func (f *FakeCompetitionRepo) GetAward(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Award, error) {
	f.record("GetAward")
	if f.GetAwardFunc != nil {
		return f.GetAwardFunc(ctx, db, id)
	}
	return nil, competitiondb.ErrAwardNotFound
}

var _ competitiondb.Repository = (*FakeCompetitionRepo)(nil)

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	for range msgs {
		p.topics = append(p.topics, topic)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
