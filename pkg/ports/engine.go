package ports

import (
	"context"

	"github.com/aretw0/canvas/pkg/domain"
)

// Engine defines the interface for the action pipeline.
// It is stateless: the caller owns the snapshot and decides where the result goes.
type Engine interface {
	// Dispatch applies action and every follow-up it produces to state.
	Dispatch(ctx context.Context, state *domain.State, action domain.Action) (*domain.Result, error)
}

// RootAccessor supplies the containment tree root for selection cascades.
type RootAccessor interface {
	// Root returns the diagram-level container. It is never selected and
	// owns the ids of every owner-less element.
	Root(state *domain.State) *domain.Element
}

// IDGenerator mints identities for new elements.
type IDGenerator interface {
	NewID() string
}
