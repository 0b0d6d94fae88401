package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/aretw0/canvas/internal/idgen"
	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/gesture"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/aretw0/canvas/pkg/session"
)

// ErrExpectation is returned when the final snapshot does not match the scenario's expect block.
var ErrExpectation = errors.New("scenario expectation failed")

// Runner replays scenarios into a session manager.
type Runner struct {
	manager *session.Manager
	ids     ports.IDGenerator
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Runner.
type Option func(*Runner)

// WithIDGenerator sets the id source for relationships created by connect steps.
func WithIDGenerator(ids ports.IDGenerator) Option {
	return func(r *Runner) {
		r.ids = ids
	}
}

// WithLifecycleHooks forwards gesture hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner on top of manager.
func NewRunner(manager *session.Manager, opts ...Option) *Runner {
	r := &Runner{
		manager: manager,
		ids:     idgen.UUID{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run creates a diagram named after the scenario and applies its steps in order.
// A failing step aborts the replay unless the step expects that error.
// The returned trace holds every step replayed so far, even on error.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Trace, error) {
	doc, err := r.manager.Create(ctx, s.Name, s.Diagram)
	if err != nil {
		return nil, err
	}
	ctx = domain.WithDiagramID(ctx, s.Name)

	trace := &Trace{Name: s.Name, Final: doc.State}
	connector := gesture.NewController(r.manager.Dispatcher(s.Name), s.Diagram,
		gesture.WithIDGenerator(r.ids),
		gesture.WithLifecycleHooks(r.hooks),
		gesture.WithLogger(r.logger),
	)

	for i, step := range s.Steps {
		prev := trace.Final
		next, detail, err := r.apply(ctx, connector, step)

		line := fmt.Sprintf("%02d %s: ", i+1, step)
		switch {
		case err != nil && step.Error != "" && strings.Contains(err.Error(), step.Error):
			trace.Lines = append(trace.Lines, line+"error: "+err.Error())
			continue
		case err != nil:
			trace.Lines = append(trace.Lines, line+"error: "+err.Error())
			return trace, fmt.Errorf("step %d (%s): %w", i+1, step, err)
		case step.Error != "":
			trace.Lines = append(trace.Lines, line+FormatDiff(domain.Diff(prev, next)))
			trace.Final = next
			return trace, fmt.Errorf("step %d (%s): expected error %q", i+1, step, step.Error)
		}

		trace.Final = next
		trace.Lines = append(trace.Lines, line+FormatDiff(domain.Diff(prev, next))+detail)
		r.logger.DebugContext(ctx, "scenario step", "scenario", s.Name, "step", i+1, "action", step.String())
	}

	if err := s.Expect.check(trace.Final); err != nil {
		return trace, err
	}
	return trace, nil
}

func (r *Runner) apply(ctx context.Context, connector *gesture.Controller, step Step) (*domain.State, string, error) {
	switch {
	case step.Undo:
		state, err := r.manager.Undo(ctx, diagramID(ctx))
		return state, "", err
	case step.Redo:
		state, err := r.manager.Redo(ctx, diagramID(ctx))
		return state, "", err
	case step.Connect != nil:
		if err := connector.Begin(ctx, step.Connect.From); err != nil {
			return nil, "", err
		}
		rel, err := connector.End(ctx, step.Connect.To)
		if err != nil {
			return nil, "", err
		}
		state, err := r.manager.Dispatcher(diagramID(ctx)).Snapshot(ctx)
		return state, fmt.Sprintf(" (%s)", rel.Kind), err
	}

	res, err := r.manager.Dispatch(ctx, diagramID(ctx), step.Action)
	if err != nil {
		return nil, "", err
	}
	detail := ""
	if n := len(res.Rejected); n > 0 {
		detail = fmt.Sprintf(" (%d rejected)", n)
	}
	return res.State, detail, nil
}

func diagramID(ctx context.Context) string {
	return domain.DiagramIDFrom(ctx)
}

func (e *Expectation) check(final *domain.State) error {
	if e == nil {
		return nil
	}
	if e.IDs != nil {
		want := slices.Sorted(slices.Values(e.IDs))
		if got := final.IDs(); !slices.Equal(got, want) {
			return fmt.Errorf("%w: ids = %v, want %v", ErrExpectation, got, want)
		}
	}
	if e.Selection != nil {
		want := slices.Sorted(slices.Values(e.Selection))
		if got := final.Selection(); !slices.Equal(got, want) {
			return fmt.Errorf("%w: selection = %v, want %v", ErrExpectation, got, want)
		}
	}
	return nil
}
