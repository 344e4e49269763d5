package app

import (
	"log/slog"
	"net/http"
	"time"

	workouthttp "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/http"
	"github.com/Black-And-White-Club/fitcomp/config"
	"github.com/Black-And-White-Club/fitcomp/pkg/httpmiddleware"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability"
	"github.com/Black-And-White-Club/fitcomp/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// newHTTPRouter builds the read API router with CORS and per-IP throttling.
// Module routes are mounted onto it during initialization.
func newHTTPRouter(cfg config.HTTPConfig, obs observability.Observability) chi.Router {
	r := chi.NewRouter()
	r.Use(httpmiddleware.CORS(cfg.AllowedOrigins))
	r.Use(httpmiddleware.RateLimit(httpmiddleware.NewIPRateLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst)))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	obs.Provider.Logger.Info("HTTP router configured", "allowed_origins", len(cfg.AllowedOrigins))
	return r
}

func mountSyncBudget(r chi.Router, trackers *ratelimit.Registry, logger *slog.Logger) {
	workouthttp.NewBudgetHandlers(trackers, logger).Routes(r)
}

func newMetricsServer(addr string, obs observability.Observability) *http.Server {
	mux := chi.NewRouter()
	mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry.Prometheus, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
