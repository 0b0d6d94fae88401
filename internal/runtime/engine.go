package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/canvas/internal/idgen"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// DefaultCascadeLimit bounds the number of actions one dispatch may apply.
const DefaultCascadeLimit = 10000

// Engine is the action pipeline: reducer followed by effects, driven by an
// explicit work stack so follow-ups of an action apply before its later siblings.
type Engine struct {
	effects      effects
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	cascadeLimit int
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDGenerator sets the id source used by DUPLICATE.
func WithIDGenerator(ids ports.IDGenerator) EngineOption {
	return func(e *Engine) {
		if ids != nil {
			e.effects.ids = ids
		}
	}
}

// WithRootAccessor replaces the containment root used by selection cascades.
func WithRootAccessor(root ports.RootAccessor) EngineOption {
	return func(e *Engine) {
		if root != nil {
			e.effects.root = root
		}
	}
}

// WithCascadeLimit bounds the actions applied per dispatch. Zero or negative keeps the default.
func WithCascadeLimit(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.cascadeLimit = n
		}
	}
}

// NewEngine creates a new engine with dependencies.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		effects: effects{
			ids:  idgen.UUID{},
			root: diagramRoot{},
		},
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		cascadeLimit: DefaultCascadeLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Selection resolves the elements a MOVE without id displaces in state.
func (e *Engine) Selection(state *domain.State) []string {
	return EffectiveSelection(state, e.effects.root.Root(state))
}

type pending struct {
	action domain.Action
	depth  int
}

// Dispatch applies action to state, then every follow-up in depth-first order.
// Each accepted action commits independently; there is no rollback.
// A rejected root action returns the unchanged state and its error. Rejected
// follow-ups are recorded in the Result and do not fail the dispatch.
func (e *Engine) Dispatch(ctx context.Context, state *domain.State, action domain.Action) (*domain.Result, error) {
	if state == nil {
		state = domain.NewState()
	}
	res := &domain.Result{State: state}

	if e.hooks.OnDispatch != nil {
		e.hooks.OnDispatch(ctx, &domain.ActionEvent{
			EventBase: e.event(ctx, domain.EventDispatch),
			Action:    action,
		})
	}

	stack := []pending{{action: action}}
	steps := 0
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if steps >= e.cascadeLimit {
			e.logger.WarnContext(ctx, "cascade aborted",
				"action", action.String(),
				"steps", steps,
				"pending", len(stack),
			)
			return res, fmt.Errorf("%w: %d steps while applying %s", domain.ErrCascadeLimit, steps, action.Type)
		}
		steps++

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		next, err := Reduce(res.State, cur.action)
		if err != nil {
			if cur.depth == 0 {
				e.reject(ctx, cur, err)
				return res, fmt.Errorf("%s: %w", cur.action.Type, err)
			}
			res.Rejected = append(res.Rejected, domain.Rejection{Action: cur.action, Err: err})
			e.reject(ctx, cur, err)
			continue
		}

		prev := res.State
		res.State = next
		res.Applied = append(res.Applied, cur.action)

		followUps := e.effects.followUps(prev, next, cur.action)
		if e.hooks.OnApply != nil {
			e.hooks.OnApply(ctx, &domain.ActionEvent{
				EventBase: e.event(ctx, domain.EventApply),
				Action:    cur.action,
				Depth:     cur.depth,
				FollowUps: len(followUps),
			})
		}

		// Push in reverse so the first follow-up is applied next.
		for i := len(followUps) - 1; i >= 0; i-- {
			stack = append(stack, pending{action: followUps[i], depth: cur.depth + 1})
		}
	}

	e.logger.DebugContext(ctx, "dispatch complete",
		"action", action.String(),
		"applied", len(res.Applied),
		"rejected", len(res.Rejected),
	)
	return res, nil
}

func (e *Engine) reject(ctx context.Context, p pending, err error) {
	e.logger.DebugContext(ctx, "action rejected",
		"action", p.action.String(),
		"depth", p.depth,
		"err", err,
	)
	if e.hooks.OnReject != nil {
		e.hooks.OnReject(ctx, &domain.RejectEvent{
			EventBase: e.event(ctx, domain.EventReject),
			Action:    p.action,
			Depth:     p.depth,
			Err:       err,
		})
	}
}

func (e *Engine) event(ctx context.Context, t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, DiagramID: domain.DiagramIDFrom(ctx)}
}
