package workouthttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
)

// DefaultProvider is assumed when a request names no provider.
const DefaultProvider = "strava"

// BudgetHandlers expose the provider request budget to the sync collaborator.
// The collaborator reports each provider response and asks before bulk work.
type BudgetHandlers struct {
	trackers *ratelimit.Registry
	logger   *slog.Logger
}

func NewBudgetHandlers(trackers *ratelimit.Registry, logger *slog.Logger) *BudgetHandlers {
	return &BudgetHandlers{trackers: trackers, logger: logger}
}

// Routes mounts the budget endpoints on r.
func (h *BudgetHandlers) Routes(r chi.Router) {
	r.Route("/api/sync", func(r chi.Router) {
		r.Get("/budget", h.HandleBudget)
		r.Post("/requests", h.HandleLogRequest)
	})
}

type budgetResponse struct {
	Provider      string          `json:"provider"`
	Usage         ratelimit.Usage `json:"usage"`
	OKWorkouts    bool            `json:"ok_workout_requests"`
	OKLinkage     bool            `json:"ok_linkage_requests"`
	LimitExceeded bool            `json:"limit_exceeded,omitempty"`
}

type logRequestBody struct {
	Provider string `json:"provider"`
	Status   int    `json:"status"`
}

func (h *BudgetHandlers) budget(provider string, exceeded bool) budgetResponse {
	t := h.trackers.Tracker(provider)
	return budgetResponse{
		Provider:      provider,
		Usage:         t.Usage(),
		OKWorkouts:    t.OKWorkoutRequests(),
		OKLinkage:     t.OKLinkageRequests(),
		LimitExceeded: exceeded,
	}
}

func providerOrDefault(p string) string {
	if p == "" {
		return DefaultProvider
	}
	return p
}

func (h *BudgetHandlers) HandleBudget(w http.ResponseWriter, r *http.Request) {
	provider := providerOrDefault(r.URL.Query().Get("provider"))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.budget(provider, false))
}

func (h *BudgetHandlers) HandleLogRequest(w http.ResponseWriter, r *http.Request) {
	var body logRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status < 100 || body.Status > 599 {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	provider := providerOrDefault(body.Provider)

	err := h.trackers.Tracker(provider).LogRequest(body.Status)
	exceeded := errors.Is(err, ratelimit.ErrRateLimitExceeded)
	if exceeded {
		h.logger.WarnContext(r.Context(), "Provider rate limit exceeded",
			attr.String("provider", provider),
			attr.Int("status", body.Status),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.budget(provider, exceeded))
}
