package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerJobRuns(t *testing.T) {
	s := New(Config{})
	defer s.Stop()

	var runs atomic.Int32
	s.AddTickerJob(10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 },
		2*time.Second, 10*time.Millisecond)
}

func TestStopCancelsJobs(t *testing.T) {
	s := New(Config{})

	started := make(chan struct{})
	canceled := make(chan struct{})
	var cancelOnce sync.Once
	s.AddTickerJob(10*time.Millisecond, func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		cancelOnce.Do(func() { close(canceled) })
		return ctx.Err()
	})
	s.Start()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job never started")
	}

	s.Stop()
	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("job not canceled on stop")
	}
}

func TestSkipIfRunning(t *testing.T) {
	s := New(Config{})
	defer s.Stop()

	var active, overlapped atomic.Int32
	s.AddTickerJobWithOptions(10*time.Millisecond, func(ctx context.Context) error {
		if active.Add(1) > 1 {
			overlapped.Add(1)
		}
		defer active.Add(-1)
		time.Sleep(50 * time.Millisecond)
		return nil
	}, JobOptions{Name: "slow", OverlapPolicy: SkipIfRunning})
	s.Start()

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, overlapped.Load())
}

func TestJobTimeout(t *testing.T) {
	s := New(Config{})
	defer s.Stop()

	timedOut := make(chan struct{}, 1)
	s.AddTickerJobWithOptions(10*time.Millisecond, func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			select {
			case timedOut <- struct{}{}:
			default:
			}
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	}, JobOptions{Name: "hanging", Timeout: 20 * time.Millisecond})
	s.Start()

	select {
	case <-timedOut:
	case <-time.After(2 * time.Second):
		t.Fatal("job timeout never fired")
	}
}

func TestAddCronJobInvalidSpec(t *testing.T) {
	s := New(Config{})
	defer s.Stop()
	_, err := s.AddCronJob("not a spec", func(ctx context.Context) error { return nil })
	require.Error(t, err)
}

func TestRemoveTickerJob(t *testing.T) {
	s := New(Config{})
	defer s.Stop()

	var runs atomic.Int32
	id := s.AddTickerJob(10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start()
	s.RemoveTickerJob(id)

	time.Sleep(30 * time.Millisecond)
	before := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, runs.Load())
}
