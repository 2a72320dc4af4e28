package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ricirt/accounts-api/internal/domain"
)

// Prober is satisfied by *health.Checker.
type Prober interface {
	Check(ctx context.Context) domain.HealthStatus
}

// HealthProbe runs the database liveness check on a fixed interval so the
// database_up gauge stays current between scrapes of /metrics.
type HealthProbe struct {
	prober   Prober
	interval time.Duration
	logger   *zap.Logger
}

// DefaultProbeInterval replaces a non-positive interval.
const DefaultProbeInterval = 15 * time.Second

// NewHealthProbe builds a probe; intervals <= 0 use DefaultProbeInterval.
func NewHealthProbe(prober Prober, interval time.Duration, logger *zap.Logger) *HealthProbe {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &HealthProbe{prober: prober, interval: interval, logger: logger}
}

// Run probes once immediately, then every interval until ctx is cancelled.
func (hp *HealthProbe) Run(ctx context.Context) {
	ticker := time.NewTicker(hp.interval)
	defer ticker.Stop()

	hp.logger.Info("health probe started", zap.Duration("interval", hp.interval))

	last := hp.probe(ctx, "")
	for {
		select {
		case <-ctx.Done():
			hp.logger.Info("health probe stopping")
			return
		case <-ticker.C:
			last = hp.probe(ctx, last)
		}
	}
}

// probe logs only transitions; the checker already logs each failure.
func (hp *HealthProbe) probe(ctx context.Context, prev domain.HealthState) domain.HealthState {
	hs := hp.prober.Check(ctx)
	if prev != "" && hs.Status != prev {
		hp.logger.Warn("health state changed",
			zap.String("from", string(prev)),
			zap.String("to", string(hs.Status)),
		)
	}
	return hs.Status
}
