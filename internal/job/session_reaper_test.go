package job

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"stock-assistant/internal/logging"

	"go.opentelemetry.io/otel/trace/noop"
)

func TestSessionReaperSweepsUntilCancelled(t *testing.T) {
	stub := &stubSweeper{}
	job := NewSessionReaper(noop.NewTracerProvider().Tracer("test"), stub, 5*time.Millisecond, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	time.Sleep(40 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session reaper did not stop")
	}

	if atomic.LoadInt32(&stub.sweeps) == 0 {
		t.Fatal("expected at least one sweep")
	}
}

func TestSessionReaperWithoutSessionsWaitsForCancel(t *testing.T) {
	job := NewSessionReaper(nil, nil, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job.Start(ctx)

	if job.interval != defaultReapInterval {
		t.Fatalf("interval = %v, want %v", job.interval, defaultReapInterval)
	}
}

type stubSweeper struct {
	sweeps int32
}

func (s *stubSweeper) Sweep(now time.Time) int {
	atomic.AddInt32(&s.sweeps, 1)
	return 1
}

func (s *stubSweeper) Len() int { return 0 }
