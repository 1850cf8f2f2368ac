package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestStartPoller_RefreshesAtCadence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &countingRefresher{}
	StartPoller(ctx, r, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d refreshes, want at least 3", r.calls.Load())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStartPoller_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r := &countingRefresher{err: errors.New("server down")}
	StartPoller(ctx, r, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("poller never ran")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	time.Sleep(20 * time.Millisecond)
	settled := r.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := r.calls.Load(); got != settled {
		t.Fatalf("poller kept refreshing after cancel: %d -> %d", settled, got)
	}
}
