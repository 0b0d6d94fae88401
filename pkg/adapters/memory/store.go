package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/canvas/pkg/domain"
)

// Store implements ports.DiagramStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Document
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Document),
	}
}

// Save keeps a copy of the document so later caller edits stay isolated.
// Snapshots are immutable and shared with the copy; only the history slices are duplicated.
func (s *Store) Save(ctx context.Context, doc *domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil || doc.ID == "" {
		return domain.ErrMissingID
	}
	copied := doc.Copy()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[doc.ID] = copied
	return nil
}

// Load retrieves the document from memory.
func (s *Store) Load(ctx context.Context, diagramID string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[diagramID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDiagramNotFound, diagramID)
	}

	// Copy on read so the caller can't reshape stored history by pointer.
	return doc.Copy(), nil
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, diagramID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, diagramID)
	return nil
}

// List returns stored diagram ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
