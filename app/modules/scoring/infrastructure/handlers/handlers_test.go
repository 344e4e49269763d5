package scoringhandlers

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	competitionevents "github.com/Black-And-White-Club/fitcomp/pkg/events/competition"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type enqueued struct {
	competitionID uuid.UUID
	userIDs       []uuid.UUID
	revision      string
}

type FakeEnqueuer struct {
	calls []enqueued
	err   error
}

func (f *FakeEnqueuer) EnqueueWorkoutRecompute(ctx context.Context, workoutID uuid.UUID) error {
	return f.err
}

func (f *FakeEnqueuer) EnqueueCompetitionRecompute(ctx context.Context, competitionID uuid.UUID, userIDs []uuid.UUID, revision string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, enqueued{competitionID, userIDs, revision})
	return nil
}

func newTestHandlers(q *FakeEnqueuer) Handlers {
	return NewScoringHandlers(q, slog.Default(), noop.NewTracerProvider().Tracer("test"))
}

func TestHandleGoalsChanged(t *testing.T) {
	q := &FakeEnqueuer{}
	h := newTestHandlers(q)
	competitionID := uuid.New()
	ctx := attr.WithCorrelationID(context.Background(), "corr-9")

	out, err := h.HandleGoalsChanged(ctx, &competitionevents.GoalsChangedPayloadV1{CompetitionID: competitionID})
	require.NoError(t, err)
	assert.Empty(t, out)
	require.Len(t, q.calls, 1)
	assert.Equal(t, enqueued{competitionID: competitionID, revision: "corr-9"}, q.calls[0])
}

func TestHandleMembershipChanged(t *testing.T) {
	competitionID, userID, teamID := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name      string
		payload   competitionevents.MembershipChangedPayloadV1
		queueErr  error
		wantCalls int
		wantErr   bool
	}{
		{
			name:      "new member is recomputed",
			payload:   competitionevents.MembershipChangedPayloadV1{CompetitionID: competitionID, UserID: userID},
			wantCalls: 1,
		},
		{
			name:    "team move is ignored",
			payload: competitionevents.MembershipChangedPayloadV1{CompetitionID: competitionID, UserID: userID, TeamID: &teamID},
		},
		{
			name:     "queue failure nacks",
			payload:  competitionevents.MembershipChangedPayloadV1{CompetitionID: competitionID, UserID: userID},
			queueErr: errors.New("queue down"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &FakeEnqueuer{err: tt.queueErr}
			_, err := newTestHandlers(q).HandleMembershipChanged(context.Background(), &tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, q.calls, tt.wantCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, []uuid.UUID{userID}, q.calls[0].userIDs)
			}
		})
	}
}
