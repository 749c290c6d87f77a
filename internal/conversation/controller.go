package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"stock-assistant/internal/domain"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultTyping   = 600 * time.Millisecond
)

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// ControllerConfig holds the timings and instrumentation for a Controller.
type ControllerConfig struct {
	Debounce time.Duration
	Typing   time.Duration
	Tracer   trace.Tracer
	Logger   *log.Logger
	// AfterFunc schedules f after d. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) Timer
}

// Controller drives a Machine with real timers and is safe for concurrent
// use. Network front ends hold one per conversation.
type Controller struct {
	mu          sync.Mutex
	machine     *Machine
	broadcaster *Broadcaster
	tracer      trace.Tracer
	logger      *log.Logger
	debounce    time.Duration
	typing      time.Duration
	afterFunc   func(time.Duration, func()) Timer

	debounceTimer Timer
	typingTimer   Timer
	closed        bool
}

// NewController wraps machine, filling zero config fields with defaults.
func NewController(machine *Machine, cfg ControllerConfig) *Controller {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Typing <= 0 {
		cfg.Typing = DefaultTyping
	}
	if cfg.Tracer == nil {
		cfg.Tracer = noop.NewTracerProvider().Tracer("conversation")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	return &Controller{
		machine:     machine,
		broadcaster: NewBroadcaster(cfg.Logger),
		tracer:      cfg.Tracer,
		logger:      cfg.Logger.With("component", "controller"),
		debounce:    cfg.Debounce,
		typing:      cfg.Typing,
		afterFunc:   cfg.AfterFunc,
	}
}

// Dispatch arms a navigation action directly.
func (c *Controller) Dispatch(ctx context.Context, a domain.Action) error {
	_, span := c.tracer.Start(ctx, "conversation.dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("action", a.String()))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	t, err := c.machine.Invoke(a)
	if err != nil {
		span.RecordError(err)
		return err
	}
	c.armLocked(t)
	return nil
}

// Choose arms the action of option idx on message id, if it is clickable.
func (c *Controller) Choose(ctx context.Context, id domain.MessageID, idx int) error {
	_, span := c.tracer.Start(ctx, "conversation.choose")
	defer span.End()
	span.SetAttributes(attribute.Int64("message.id", int64(id)), attribute.Int("option.index", idx))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	t, err := c.machine.Select(id, idx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	c.armLocked(t)
	return nil
}

// Snapshot returns the current conversation state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Snapshot()
}

// Subscribe streams snapshots, starting with the current one.
func (c *Controller) Subscribe(ctx context.Context) (<-chan Snapshot, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch, id := c.broadcaster.Subscribe(ctx)
	if !c.closed {
		c.broadcaster.Publish(c.machine.Snapshot())
	}
	return ch, id
}

// Unsubscribe ends the subscription with the given id.
func (c *Controller) Unsubscribe(id string) {
	c.broadcaster.Unsubscribe(id)
}

// Close stops pending timers and ends every subscription.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
	if c.typingTimer != nil {
		c.typingTimer.Stop()
	}
	c.broadcaster.Close()
}

func (c *Controller) armLocked(t Ticket) {
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
	c.debounceTimer = c.afterFunc(c.debounce, func() { c.fire(t) })
	c.broadcaster.Publish(c.machine.Snapshot())
}

func (c *Controller) fire(t Ticket) {
	_, span := c.tracer.Start(context.Background(), "conversation.fire")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	step, err := c.machine.Fire(t)
	if err != nil {
		c.logger.Debug("skipping stale invocation", "ticket", t, "err", err)
		return
	}
	span.SetAttributes(attribute.String("action", step.Action.String()))
	if step.Err != nil {
		span.RecordError(step.Err)
	}
	if step.Pending {
		c.typingTimer = c.afterFunc(c.typing, func() { c.complete(t) })
	}
	c.broadcaster.Publish(c.machine.Snapshot())
}

func (c *Controller) complete(t Ticket) {
	_, span := c.tracer.Start(context.Background(), "conversation.complete")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if err := c.machine.Complete(t); err != nil {
		if !errors.Is(err, ErrSuperseded) {
			span.RecordError(err)
		}
		c.logger.Debug("completion did not commit", "ticket", t, "err", err)
	}
	c.broadcaster.Publish(c.machine.Snapshot())
}
