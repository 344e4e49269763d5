package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	leaderboarddomain "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/domain"
	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type statsResult = results.OperationResult[*CompetitionStats, error]

// GetCompetitionStats serves cached stats or computes them from the ledger.
func (s *LeaderboardService) GetCompetitionStats(ctx context.Context, competitionID uuid.UUID) (*CompetitionStats, error) {
	cached, gen, ok := s.cache.get(competitionID)
	if ok {
		s.metrics.RecordCacheHit(ctx)
		return cached, nil
	}
	s.metrics.RecordCacheMiss(ctx)

	result, err := withTelemetry(s, ctx, "GetCompetitionStats", competitionID.String(), func(ctx context.Context) (statsResult, error) {
		return s.computeStats(ctx, competitionID)
	})
	stats, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.cache.put(competitionID, gen, stats)
	return stats, nil
}

// statsInputs is everything stats are computed from, loaded in parallel.
type statsInputs struct {
	memberIDs   []uuid.UUID
	teams       []competitiondomain.Team
	memberships []competitiondb.TeamMembership
	goals       []competitiondomain.Goal
	facts       []leaderboarddomain.Fact
	users       []userdb.User
}

func (s *LeaderboardService) loadInputs(ctx context.Context, competitionID uuid.UUID) (*statsInputs, error) {
	in := &statsInputs{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.competitions.ListMemberIDs(gctx, nil, competitionID)
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}
		users, err := s.users.ListByIDs(gctx, nil, ids)
		if err != nil {
			return fmt.Errorf("failed to load members: %w", err)
		}
		in.memberIDs, in.users = ids, users
		return nil
	})
	g.Go(func() error {
		teams, err := s.competitions.ListTeams(gctx, nil, competitionID)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		in.teams = teams
		return nil
	})
	g.Go(func() error {
		memberships, err := s.competitions.ListTeamMemberships(gctx, nil, competitionID)
		if err != nil {
			return fmt.Errorf("failed to list team memberships: %w", err)
		}
		in.memberships = memberships
		return nil
	})
	g.Go(func() error {
		goals, err := s.competitions.ListGoals(gctx, nil, competitionID)
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}
		in.goals = goals
		return nil
	})
	g.Go(func() error {
		facts, err := s.repo.ListPointFacts(gctx, nil, competitionID)
		if err != nil {
			return err
		}
		in.facts = facts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *LeaderboardService) computeStats(ctx context.Context, competitionID uuid.UUID) (statsResult, error) {
	comp, err := s.competitions.GetCompetition(ctx, nil, competitionID)
	if err != nil {
		if errors.Is(err, competitiondb.ErrNotFound) {
			return results.FailureResult[*CompetitionStats, error](ErrCompetitionNotFound), nil
		}
		return statsResult{}, fmt.Errorf("failed to load competition: %w", err)
	}

	in, err := s.loadInputs(ctx, competitionID)
	if err != nil {
		return statsResult{}, err
	}

	now := s.clock.Now()
	today := workoutdomain.DateOf(now, s.loc)

	// users are ordered by username, which is also the order of the unranked tail.
	usernames := make(map[uuid.UUID]string, len(in.users))
	byUsername := make([]uuid.UUID, 0, len(in.users))
	athleteIDs := make(map[uuid.UUID]*int64, len(in.users))
	for i := range in.users {
		u := &in.users[i]
		usernames[u.ID] = u.Username
		byUsername = append(byUsername, u.ID)
		athleteIDs[u.ID] = u.PublicAthleteID()
	}

	teamOf := make(map[uuid.UUID]uuid.UUID, len(in.memberships))
	memberCounts := make(map[uuid.UUID]int, len(in.teams))
	teamMembers := make(map[uuid.UUID][]MemberRef, len(in.teams))
	for _, m := range in.memberships {
		teamOf[m.UserID] = m.TeamID
		memberCounts[m.TeamID]++
		teamMembers[m.TeamID] = append(teamMembers[m.TeamID], MemberRef{ID: m.UserID, Username: usernames[m.UserID]})
	}

	stats := &CompetitionStats{
		Timeseries:  leaderboarddomain.BuildTimeseries(in.facts, teamOf, now, s.loc),
		Teams:       make(map[uuid.UUID]TeamSummary, len(in.teams)),
		Competition: summarize(*comp, in.memberIDs, in.goals, today),
		GeneratedAt: now,
	}

	for _, r := range leaderboarddomain.Rank(leaderboarddomain.UserTotals(in.facts), byUsername, rankOptions) {
		stats.Leaderboard.Individual = append(stats.Leaderboard.Individual, IndividualEntry{
			UserID:          r.Key,
			Username:        usernames[r.Key],
			StravaAthleteID: athleteIDs[r.Key],
			Rank:            r.Rank,
			Points:          r.Score,
		})
	}

	teamNames := make(map[uuid.UUID]string, len(in.teams))
	teamIDs := make([]uuid.UUID, len(in.teams))
	for i, t := range in.teams {
		teamNames[t.ID] = t.Name
		teamIDs[i] = t.ID
		stats.Teams[t.ID] = TeamSummary{ID: t.ID, Name: t.Name, MemberCount: memberCounts[t.ID]}
	}
	equalized := leaderboarddomain.Equalize(leaderboarddomain.TeamTotals(in.facts, teamOf), memberCounts)
	for _, r := range leaderboarddomain.Rank(equalized, teamIDs, rankOptions) {
		members := teamMembers[r.Key]
		if members == nil {
			members = []MemberRef{}
		}
		stats.Leaderboard.Team = append(stats.Leaderboard.Team, TeamEntry{
			TeamID:  r.Key,
			Name:    teamNames[r.Key],
			Members: members,
			Rank:    r.Rank,
			Points:  r.Score,
		})
	}

	s.logger.DebugContext(ctx, "Computed competition stats",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("competition_id", competitionID),
		attr.Int("facts", len(in.facts)),
		attr.Int("members", len(in.memberIDs)),
	)
	return results.SuccessResult[*CompetitionStats, error](stats), nil
}

var rankOptions = leaderboarddomain.Options[uuid.UUID]{CompareKeys: leaderboarddomain.CompareUUID}

func summarize(c competitiondomain.Competition, memberIDs []uuid.UUID, goals []competitiondomain.Goal, today time.Time) CompetitionSummary {
	if memberIDs == nil {
		memberIDs = []uuid.UUID{}
	}
	summary := CompetitionSummary{
		Name:           c.Name,
		OwnerID:        c.OwnerID,
		Members:        memberIDs,
		MemberCount:    len(memberIDs),
		StartDate:      c.StartDate.Format(dateLayout),
		StartDateCount: daysBetween(c.StartDate, today),
		EndDate:        c.EndDate.Format(dateLayout),
		EndDateCount:   daysBetween(c.EndDate, today),
		HasTeams:       c.HasTeams,
		Goals:          make([]GoalSummary, len(goals)),
	}
	for i, g := range goals {
		summary.Goals[i] = summarizeGoal(g)
	}
	return summary
}

// daysBetween counts calendar days from a to b, both midnight UTC.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
