package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ricirt/accounts-api/internal/domain"
	"github.com/ricirt/accounts-api/internal/health"
)

type fakeDB struct {
	err     error
	queries []string
	hasDL   bool
}

func (f *fakeDB) Exec(ctx context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.queries = append(f.queries, sql)
	_, f.hasDL = ctx.Deadline()
	return pgconn.NewCommandTag("SELECT 1"), f.err
}

func TestChecker_Healthy(t *testing.T) {
	db := &fakeDB{}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := health.NewChecker(db, "test", "", zap.NewNop(),
		health.WithClock(func() time.Time { return fixed }),
		health.WithTimeout(time.Second),
	)

	hs := c.Check(context.Background())

	assert.Equal(t, domain.HealthHealthy, hs.Status)
	assert.Equal(t, domain.DatabaseOK, hs.Database)
	assert.Equal(t, "2026-01-02T03:04:05Z", hs.Timestamp)
	assert.Equal(t, "test", hs.Environment)
	assert.Equal(t, "1.0.0", hs.Version)
	assert.Equal(t, []string{"SELECT 1"}, db.queries, "exactly one liveness statement")
	assert.True(t, db.hasDL, "query must run under the configured timeout")
}

func TestChecker_UnhealthyLogsOnce(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	db := &fakeDB{err: errors.New("connection refused")}
	c := health.NewChecker(db, "test", "1.0.0", zap.New(core))

	hs := c.Check(context.Background())

	assert.Equal(t, domain.HealthUnhealthy, hs.Status)
	assert.Equal(t, domain.DatabaseError, hs.Database)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "database health check failed", entry.Message)
	assert.Equal(t, "connection refused", entry.ContextMap()["error"])
}

func TestChecker_Observer(t *testing.T) {
	var (
		calls int
		last  bool
	)
	observe := func(up bool, _ time.Duration) {
		calls++
		last = up
	}

	db := &fakeDB{}
	c := health.NewChecker(db, "test", "1.0.0", zap.NewNop(), health.WithObserver(observe))

	c.Check(context.Background())
	assert.Equal(t, 1, calls)
	assert.True(t, last)

	db.err = errors.New("boom")
	c.Check(context.Background())
	assert.Equal(t, 2, calls)
	assert.False(t, last)
}
