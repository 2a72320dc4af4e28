// Package health implements the database liveness check behind GET /health.
package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/ricirt/accounts-api/internal/domain"
)

// livenessQuery is the only statement the checker ever runs.
const livenessQuery = "SELECT 1"

// Execer is the subset of *pgxpool.Pool the checker needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ObserveFunc receives the outcome and duration of every probe.
type ObserveFunc func(up bool, latency time.Duration)

// Checker probes the primary datastore and builds a HealthStatus.
type Checker struct {
	db          Execer
	timeout     time.Duration
	environment string
	version     string
	logger      *zap.Logger
	observe     ObserveFunc
	now         func() time.Time
}

// Option customises a Checker.
type Option func(*Checker)

// WithTimeout bounds the liveness query. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// WithObserver registers a callback invoked after every probe.
func WithObserver(fn ObserveFunc) Option {
	return func(c *Checker) { c.observe = fn }
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

// NewChecker builds a Checker; an empty version falls back to domain.DefaultVersion.
func NewChecker(db Execer, environment, version string, logger *zap.Logger, opts ...Option) *Checker {
	if version == "" {
		version = domain.DefaultVersion
	}
	c := &Checker{
		db:          db,
		environment: environment,
		version:     version,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs the liveness query once and never returns an error: a failing
// datastore is logged and reported as an unhealthy status.
func (c *Checker) Check(ctx context.Context) domain.HealthStatus {
	err := c.pingDatabase(ctx)
	if err != nil {
		c.logger.Error("database health check failed", zap.String("error", err.Error()))
	}
	return domain.NewHealthStatus(err, c.now(), c.environment, c.version)
}

func (c *Checker) pingDatabase(ctx context.Context) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	_, err := c.db.Exec(ctx, livenessQuery)
	if c.observe != nil {
		c.observe(err == nil, time.Since(start))
	}
	return err
}
