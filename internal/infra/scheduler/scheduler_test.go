package scheduler

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowRunner blocks each pass long enough to outlast several poll intervals
// and records how many passes ever ran at the same time.
type slowRunner struct {
	mu            sync.Mutex
	active        int
	maxConcurrent int
	calls         int
	passDuration  time.Duration
}

func (r *slowRunner) RunScheduledPass(ctx context.Context, nowUTC time.Time) {
	r.mu.Lock()
	r.active++
	r.calls++
	if r.active > r.maxConcurrent {
		r.maxConcurrent = r.active
	}
	r.mu.Unlock()

	time.Sleep(r.passDuration)

	r.mu.Lock()
	r.active--
	r.mu.Unlock()
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// A pass slower than the poll interval must not run concurrently with
// itself; the intervals that fire mid-pass are skipped instead. Cron's
// @every floor is one second, so the test runs on second-scale timing.
func TestSchedulerNeverOverlapsTicks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping multi-second scheduler timing test in short mode")
	}

	runner := &slowRunner{passDuration: 1500 * time.Millisecond}
	s := NewDeliveryScheduler(runner, time.Second, quietLogger())

	require.NoError(t, s.Start())
	time.Sleep(3200 * time.Millisecond)
	s.Stop()

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.GreaterOrEqual(t, runner.calls, 2, "loop should keep firing after a slow pass completes")
	assert.Equal(t, 1, runner.maxConcurrent, "a slow pass must suppress overlapping ticks, not run beside them")
}
