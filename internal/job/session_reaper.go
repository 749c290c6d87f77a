package job

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultReapInterval = time.Minute

type SessionSweeper interface {
	Sweep(now time.Time) int
	Len() int
}

// SessionReaper periodically evicts idle conversations.
type SessionReaper struct {
	tracer   trace.Tracer
	sessions SessionSweeper
	interval time.Duration
	logger   *log.Logger
	now      func() time.Time
}

func NewSessionReaper(tracer trace.Tracer, sessions SessionSweeper, interval time.Duration, logger *log.Logger) *SessionReaper {
	if interval <= 0 {
		interval = defaultReapInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SessionReaper{
		tracer:   tracer,
		sessions: sessions,
		interval: interval,
		logger:   logger.With("component", "session-reaper"),
		now:      time.Now,
	}
}

// Start blocks until ctx is cancelled.
func (j *SessionReaper) Start(ctx context.Context) {
	if j == nil || j.sessions == nil {
		<-ctx.Done()
		return
	}

	j.logger.Info("session reaper starting", "interval", j.interval)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("session reaper stopped")
			return
		case <-ticker.C:
			j.reap(ctx)
		}
	}
}

func (j *SessionReaper) reap(ctx context.Context) {
	if j.tracer != nil {
		var span trace.Span
		_, span = j.tracer.Start(ctx, "session-reaper.sweep")
		defer span.End()
		defer func() { span.SetAttributes(attribute.Int("sessions.remaining", j.sessions.Len())) }()
	}
	if removed := j.sessions.Sweep(j.now()); removed > 0 {
		j.logger.Info("evicted idle sessions", "count", removed)
	}
}
