package worker_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ricirt/accounts-api/internal/domain"
	"github.com/ricirt/accounts-api/internal/worker"
)

type flappingProber struct {
	calls atomic.Int32
}

func (f *flappingProber) Check(context.Context) domain.HealthStatus {
	n := f.calls.Add(1)
	if n%2 == 0 {
		return domain.HealthStatus{Status: domain.HealthUnhealthy}
	}
	return domain.HealthStatus{Status: domain.HealthHealthy}
}

func TestHealthProbe_RunsUntilCancelled(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := &flappingProber{}
	hp := worker.NewHealthProbe(p, 5*time.Millisecond, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hp.Run(ctx)
	}()

	require.Eventually(t, func() bool { return p.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	wg.Wait()

	stopped := p.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, p.calls.Load(), "no probes after cancellation")
	assert.GreaterOrEqual(t, logs.FilterMessage("health state changed").Len(), 2)
}

func TestHealthProbe_NonPositiveIntervalDoesNotPanic(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		p := &flappingProber{}
		hp := worker.NewHealthProbe(p, interval, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.NotPanics(t, func() { hp.Run(ctx) }, "interval %s", interval)
		assert.Equal(t, int32(1), p.calls.Load(), "initial probe still runs")
	}
}
