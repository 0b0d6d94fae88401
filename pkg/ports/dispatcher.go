package ports

import (
	"context"

	"github.com/aretw0/canvas/pkg/domain"
)

// Dispatcher is an action sink bound to a single diagram.
// Gesture controllers use it to commit their outcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, action domain.Action) (*domain.Result, error)

	// Snapshot returns the current state of the diagram.
	Snapshot(ctx context.Context) (*domain.State, error)
}
