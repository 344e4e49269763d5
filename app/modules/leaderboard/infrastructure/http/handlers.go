package leaderboardhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	leaderboardservice "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 500
)

// Handlers serves read-only competition stats over HTTP.
type Handlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
}

func NewHandlers(service leaderboardservice.Service, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// Routes mounts the stats endpoints on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Route("/api/competitions/{competitionID}", func(r chi.Router) {
		r.Get("/stats", h.HandleStats)
		r.Get("/feed", h.HandleFeed)
		r.Get("/chart.png", h.HandleChart)
		r.Get("/leaderboard.xlsx", h.HandleExport)
	})
}

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps service errors to responses. Unknown competitions are a
// structured 404, everything else a 500 without internals.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, leaderboardservice.ErrCompetitionNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Competition not found."})
		return
	}
	h.logger.ErrorContext(r.Context(), "Stats request failed",
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "Internal error."})
}

func competitionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Invalid competition id."})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionID(w, r)
	if !ok {
		return
	}
	stats, err := h.service.GetCompetitionStats(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) HandleFeed(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionID(w, r)
	if !ok {
		return
	}
	limit := defaultFeedLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Invalid limit."})
			return
		}
		limit = min(n, maxFeedLimit)
	}
	items, err := h.service.GetFeed(r.Context(), id, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionID(w, r)
	if !ok {
		return
	}
	png, err := h.service.RenderChart(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionID(w, r)
	if !ok {
		return
	}
	data, err := h.service.ExportLeaderboard(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leaderboard-%s.xlsx"`, id))
	_, _ = w.Write(data)
}
