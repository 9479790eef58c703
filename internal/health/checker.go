package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusUp   = "up"
	StatusDown = "down"
)

// Pinger is satisfied by every store backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckResult represents the health of a single dependency.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Result is the top-level health response.
type Result struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// Checker verifies the configured store backend is reachable.
type Checker struct {
	store   Pinger
	backend string
	logger  *slog.Logger
	gauge   *prometheus.GaugeVec
}

// NewChecker creates a health checker and registers its Prometheus gauge.
// backend names the configured store in the readiness report ("memory",
// "sqlite", "postgres").
func NewChecker(store Pinger, backend string, logger *slog.Logger, reg prometheus.Registerer) *Checker {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "userapi",
		Name:      "health_check_up",
		Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(gauge)

	return &Checker{
		store:   store,
		backend: backend,
		logger:  logger.With("component", "health"),
		gauge:   gauge,
	}
}

// Liveness returns a simple "up" response if the process is running.
func (c *Checker) Liveness(_ context.Context) Result {
	return Result{Status: StatusUp}
}

// Readiness pings the store and reports per-check status.
func (c *Checker) Readiness(ctx context.Context) Result {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	result := Result{
		Status: StatusUp,
		Checks: make(map[string]CheckResult),
	}

	if err := c.store.Ping(checkCtx); err != nil {
		c.logger.Warn("store health check failed", "backend", c.backend, "error", err)
		result.Status = StatusDown
		result.Checks[c.backend] = CheckResult{Status: StatusDown, Error: err.Error()}
		c.gauge.WithLabelValues(c.backend).Set(0)
	} else {
		result.Checks[c.backend] = CheckResult{Status: StatusUp}
		c.gauge.WithLabelValues(c.backend).Set(1)
	}

	return result
}
