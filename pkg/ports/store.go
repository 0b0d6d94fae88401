package ports

import (
	"context"

	"github.com/aretw0/canvas/pkg/domain"
)

// DiagramStore defines how diagram documents are kept between dispatches.
type DiagramStore interface {
	// Save stores the document under doc.ID, replacing any previous version.
	Save(ctx context.Context, doc *domain.Document) error

	// Load retrieves the document for a given diagram ID.
	// Returns domain.ErrDiagramNotFound if the diagram does not exist.
	Load(ctx context.Context, diagramID string) (*domain.Document, error)

	// Delete removes the document for a given diagram ID.
	Delete(ctx context.Context, diagramID string) error

	// List returns the ids of stored diagrams in sorted order.
	List(ctx context.Context) ([]string, error)
}
