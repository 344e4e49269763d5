package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config selects the log format and level.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
}

// Provider holds the logging side.
type Provider struct {
	Logger *slog.Logger
}

// Registry holds tracing and metrics handles shared by all modules.
type Registry struct {
	Tracer     trace.Tracer
	Prometheus *prometheus.Registry
}

// Observability bundles what every module receives at construction time.
type Observability struct {
	Provider Provider
	Registry Registry
}

// New builds the process-wide logger, tracer and Prometheus registry.
func New(cfg Config) Observability {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.Environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	name := cfg.ServiceName
	if name == "" {
		name = "fitcomp"
	}

	logger := slog.New(handler).With(slog.String("service", name), slog.String("env", cfg.Environment))
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Provider: Provider{Logger: logger},
		Registry: Registry{
			Tracer:     otel.Tracer(name),
			Prometheus: registry,
		},
	}
}

// NewNoop returns observability for tests and one-shot commands.
func NewNoop() Observability {
	return Observability{
		Provider: Provider{Logger: slog.Default()},
		Registry: Registry{Tracer: noop.NewTracerProvider().Tracer("")},
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Registerer returns the Prometheus registry as a Registerer, or nil when
// metrics are disabled.
func (r Registry) Registerer() prometheus.Registerer {
	if r.Prometheus == nil {
		return nil
	}
	return r.Prometheus
}
