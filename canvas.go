package canvas

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/canvas/internal/idgen"
	"github.com/aretw0/canvas/internal/runtime"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// DefaultCascadeLimit is the number of actions a dispatch may apply before it aborts.
const DefaultCascadeLimit = runtime.DefaultCascadeLimit

// Engine is the high-level entry point for the canvas library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime      *runtime.Engine
	ids          ports.IDGenerator
	root         ports.RootAccessor
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	cascadeLimit int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithIDGenerator sets the id source for NewElement and DUPLICATE (default: random UUIDs).
func WithIDGenerator(ids ports.IDGenerator) Option {
	return func(e *Engine) {
		e.ids = ids
	}
}

// WithRootAccessor overrides the container that MOVE without id searches for selected elements.
func WithRootAccessor(root ports.RootAccessor) Option {
	return func(e *Engine) {
		e.root = root
	}
}

// WithCascadeLimit bounds the number of actions a single dispatch may apply.
func WithCascadeLimit(n int) Option {
	return func(e *Engine) {
		e.cascadeLimit = n
	}
}

// New initializes a new canvas Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.ids == nil {
		eng.ids = idgen.UUID{}
	}
	// Ensure logger is initialized (so we don't pass nil to runtime, which would overwrite its default)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithIDGenerator(eng.ids),
		runtime.WithRootAccessor(eng.root),
		runtime.WithCascadeLimit(eng.cascadeLimit),
	)
	return eng
}

// Dispatch applies an action and all of its follow-ups to state.
// state is never modified; the resulting snapshot is returned in the Result.
func (e *Engine) Dispatch(ctx context.Context, state *domain.State, action domain.Action) (*domain.Result, error) {
	return e.runtime.Dispatch(ctx, state, action)
}

// NewElement builds an element of kind with a fresh id and the kind's default size.
func (e *Engine) NewElement(kind domain.Kind, name string) *domain.Element {
	return domain.NewElement(e.ids.NewID(), kind, name)
}

// NewRelationship builds a relationship between two ports with a fresh id.
func (e *Engine) NewRelationship(kind domain.Kind, source, target domain.Port) *domain.Element {
	return domain.NewRelationship(e.ids.NewID(), kind, "", source, target)
}

// IDs returns the engine's id generator.
func (e *Engine) IDs() ports.IDGenerator {
	return e.ids
}

// Selection resolves the elements a MOVE without id would displace.
func (e *Engine) Selection(state *domain.State) []string {
	return e.runtime.Selection(state)
}
