package gesture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/canvas/internal/idgen"
	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// Cancellation reasons reported through OnGestureCancelled.
const (
	ReasonCancelled      = "cancelled"
	ReasonSameElement    = "same element"
	ReasonUnknownSource  = "unknown source"
	ReasonUnknownTarget  = "unknown target"
	ReasonNotConnectable = "target not connectable"
	ReasonDispatchFailed = "dispatch failed"
)

// Controller tracks the connect gesture of one diagram.
// At most one gesture is active at a time.
type Controller struct {
	dispatcher ports.Dispatcher
	diagram    domain.DiagramType
	ids        ports.IDGenerator
	hooks      domain.LifecycleHooks
	logger     *slog.Logger

	mu     sync.Mutex
	source *domain.Port
}

// Option configures the Controller.
type Option func(*Controller)

// WithIDGenerator sets the id source for created relationships.
func WithIDGenerator(ids ports.IDGenerator) Option {
	return func(c *Controller) {
		c.ids = ids
	}
}

// WithLifecycleHooks registers the OnGestureCancelled callback.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController binds a gesture controller to a diagram's dispatcher.
func NewController(d ports.Dispatcher, t domain.DiagramType, opts ...Option) *Controller {
	c := &Controller{
		dispatcher: d,
		diagram:    t,
		ids:        idgen.UUID{},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Active returns the source port of the running gesture.
func (c *Controller) Active() (domain.Port, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return domain.Port{}, false
	}
	return *c.source, true
}

// Begin starts a gesture at source.
func (c *Controller) Begin(ctx context.Context, source domain.Port) error {
	state, err := c.dispatcher.Snapshot(ctx)
	if err != nil {
		return err
	}
	el, err := state.Lookup(source.Element)
	if err != nil {
		return err
	}
	if !el.Capabilities().Connectable {
		return fmt.Errorf("%s (%s) has no ports", el.ID, el.Kind)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source != nil {
		return fmt.Errorf("%w: from %s", domain.ErrGestureInProgress, c.source.Element)
	}
	c.source = &source
	return nil
}

// End finishes the gesture at target and creates a relationship of the
// diagram's default kind. An invalid target cancels the gesture without
// touching the diagram and returns an error wrapping domain.ErrGestureCancelled.
func (c *Controller) End(ctx context.Context, target domain.Port) (*domain.Element, error) {
	source, ok := c.take()
	if !ok {
		return nil, fmt.Errorf("%w: no gesture in progress", domain.ErrGestureCancelled)
	}

	if target.Element == source.Element {
		return nil, c.cancelled(ctx, source, &target, ReasonSameElement)
	}
	state, err := c.dispatcher.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !state.Has(source.Element) {
		return nil, c.cancelled(ctx, source, &target, ReasonUnknownSource)
	}
	el, err := state.Lookup(target.Element)
	if err != nil {
		return nil, c.cancelled(ctx, source, &target, ReasonUnknownTarget)
	}
	if !el.Capabilities().Connectable {
		return nil, c.cancelled(ctx, source, &target, ReasonNotConnectable)
	}

	rel := domain.NewRelationship(c.ids.NewID(), c.diagram.DefaultRelationshipKind(), "", source, target)
	if _, err := c.dispatcher.Dispatch(ctx, domain.Create(rel)); err != nil {
		c.logger.WarnContext(ctx, "connect dispatch failed", "source", source.Element, "target", target.Element, "err", err)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrGestureCancelled, ReasonDispatchFailed, err)
	}
	c.logger.DebugContext(ctx, "relationship created",
		"id", rel.ID,
		"kind", rel.Kind,
		"source", source.Element,
		"target", target.Element,
	)
	return rel, nil
}

// Cancel aborts the running gesture, if any.
func (c *Controller) Cancel(ctx context.Context) error {
	source, ok := c.take()
	if !ok {
		return nil
	}
	return c.cancelled(ctx, source, nil, ReasonCancelled)
}

func (c *Controller) take() (domain.Port, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return domain.Port{}, false
	}
	src := *c.source
	c.source = nil
	return src, true
}

func (c *Controller) cancelled(ctx context.Context, source domain.Port, target *domain.Port, reason string) error {
	if c.hooks.OnGestureCancelled != nil {
		c.hooks.OnGestureCancelled(ctx, &domain.GestureEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventGestureCancelled,
				DiagramID: domain.DiagramIDFrom(ctx),
			},
			Source: source,
			Target: target,
			Reason: reason,
		})
	}
	return fmt.Errorf("%w: %s", domain.ErrGestureCancelled, reason)
}
