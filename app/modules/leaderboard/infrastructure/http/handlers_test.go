package leaderboardhttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	leaderboardservice "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeService struct {
	GetCompetitionStatsFunc func(ctx context.Context, competitionID uuid.UUID) (*leaderboardservice.CompetitionStats, error)
	GetFeedFunc             func(ctx context.Context, competitionID uuid.UUID, limit int) ([]leaderboarddomain.FeedItem, error)
	RenderChartFunc         func(ctx context.Context, competitionID uuid.UUID) ([]byte, error)
	ExportLeaderboardFunc   func(ctx context.Context, competitionID uuid.UUID) ([]byte, error)
}

var _ leaderboardservice.Service = (*FakeService)(nil)

func (f *FakeService) GetCompetitionStats(ctx context.Context, competitionID uuid.UUID) (*leaderboardservice.CompetitionStats, error) {
	if f.GetCompetitionStatsFunc != nil {
		return f.GetCompetitionStatsFunc(ctx, competitionID)
	}
	return nil, leaderboardservice.ErrCompetitionNotFound
}

func (f *FakeService) GetFeed(ctx context.Context, competitionID uuid.UUID, limit int) ([]leaderboarddomain.FeedItem, error) {
	if f.GetFeedFunc != nil {
		return f.GetFeedFunc(ctx, competitionID, limit)
	}
	return nil, leaderboardservice.ErrCompetitionNotFound
}

func (f *FakeService) RenderChart(ctx context.Context, competitionID uuid.UUID) ([]byte, error) {
	if f.RenderChartFunc != nil {
		return f.RenderChartFunc(ctx, competitionID)
	}
	return nil, leaderboardservice.ErrCompetitionNotFound
}

func (f *FakeService) ExportLeaderboard(ctx context.Context, competitionID uuid.UUID) ([]byte, error) {
	if f.ExportLeaderboardFunc != nil {
		return f.ExportLeaderboardFunc(ctx, competitionID)
	}
	return nil, leaderboardservice.ErrCompetitionNotFound
}

func (f *FakeService) InvalidateCompetitions(competitionIDs ...uuid.UUID) {}

func (f *FakeService) InvalidateUser(ctx context.Context, userID uuid.UUID) error { return nil }

func serve(svc *FakeService, method, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Routes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandleStats(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		target     string
		stats      *leaderboardservice.CompetitionStats
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "ok",
			target:     "/api/competitions/" + id.String() + "/stats",
			stats:      &leaderboardservice.CompetitionStats{Competition: leaderboardservice.CompetitionSummary{Name: "March"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown competition",
			target:     "/api/competitions/" + id.String() + "/stats",
			err:        leaderboardservice.ErrCompetitionNotFound,
			wantStatus: http.StatusNotFound,
			wantDetail: "Competition not found.",
		},
		{
			name:       "internal failure is not leaked",
			target:     "/api/competitions/" + id.String() + "/stats",
			err:        errors.New("pq: password authentication failed"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Internal error.",
		},
		{
			name:       "malformed id",
			target:     "/api/competitions/not-a-uuid/stats",
			wantStatus: http.StatusBadRequest,
			wantDetail: "Invalid competition id.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{
				GetCompetitionStatsFunc: func(ctx context.Context, competitionID uuid.UUID) (*leaderboardservice.CompetitionStats, error) {
					assert.Equal(t, id, competitionID)
					return tt.stats, tt.err
				},
			}
			rec := serve(svc, http.MethodGet, tt.target)
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
				return
			}
			assert.Equal(t, "March", body["competition"].(map[string]any)["name"])
		})
	}
}

func TestHandleFeedLimit(t *testing.T) {
	id := uuid.New()
	var got int
	svc := &FakeService{
		GetFeedFunc: func(ctx context.Context, competitionID uuid.UUID, limit int) ([]leaderboarddomain.FeedItem, error) {
			got = limit
			return []leaderboarddomain.FeedItem{}, nil
		},
	}

	rec := serve(svc, http.MethodGet, "/api/competitions/"+id.String()+"/feed")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultFeedLimit, got)

	rec = serve(svc, http.MethodGet, "/api/competitions/"+id.String()+"/feed?limit=9999")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxFeedLimit, got)

	rec = serve(svc, http.MethodGet, "/api/competitions/"+id.String()+"/feed?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBinaryEndpoints(t *testing.T) {
	id := uuid.New()
	svc := &FakeService{
		RenderChartFunc: func(ctx context.Context, competitionID uuid.UUID) ([]byte, error) {
			return []byte("\x89PNG"), nil
		},
		ExportLeaderboardFunc: func(ctx context.Context, competitionID uuid.UUID) ([]byte, error) {
			return []byte("PK"), nil
		},
	}

	rec := serve(svc, http.MethodGet, "/api/competitions/"+id.String()+"/chart.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = serve(svc, http.MethodGet, "/api/competitions/"+id.String()+"/leaderboard.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), id.String())
	assert.Equal(t, "PK", rec.Body.String())

	rec = serve(&FakeService{}, http.MethodGet, "/api/competitions/"+id.String()+"/chart.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
