package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/internal/runtime"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// DefaultHistoryLimit is the number of undo steps kept per diagram.
const DefaultHistoryLimit = 100

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates diagram access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store  ports.DiagramStore
	engine ports.Engine

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	historyLimit int
	logger       *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithEngine sets the engine used by Dispatch (default: a runtime engine with UUID ids).
func WithEngine(engine ports.Engine) Option {
	return func(m *Manager) {
		m.engine = engine
	}
}

// WithHistoryLimit bounds the undo stack. Zero disables history.
func WithHistoryLimit(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.historyLimit = n
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager with the given store.
func NewManager(store ports.DiagramStore, opts ...Option) *Manager {
	m := &Manager{
		store:        store,
		locks:        make(map[string]*lockEntry),
		historyLimit: DefaultHistoryLimit,
		logger:       logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.engine == nil {
		m.engine = runtime.NewEngine(runtime.WithLogger(m.logger))
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Create registers an empty diagram. It fails with domain.ErrDiagramExists if id is taken.
func (m *Manager) Create(ctx context.Context, id string, t domain.DiagramType) (*domain.Document, error) {
	var doc *domain.Document
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, id); err == nil {
			return fmt.Errorf("%w: %s", domain.ErrDiagramExists, id)
		} else if !errors.Is(err, domain.ErrDiagramNotFound) {
			return fmt.Errorf("failed to check diagram existence: %w", err)
		}

		doc = domain.NewDocument(id, t)
		if err := m.store.Save(ctx, doc); err != nil {
			return fmt.Errorf("failed to initialize diagram: %w", err)
		}
		m.logger.DebugContext(ctx, "diagram created", "diagram_id", id, "type", t)
		return nil
	})
	return doc, err
}

// Load retrieves an existing diagram from the store.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Document, error) {
	var doc *domain.Document
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		doc, err = m.store.Load(ctx, id)
		return err
	})
	return doc, err
}

// Delete removes the diagram from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying diagram store.
func (m *Manager) Store() ports.DiagramStore {
	return m.store
}

// Dispatch applies action to the diagram's current snapshot and stores the result.
// Recorded actions that change the snapshot push the previous one on the undo
// stack and clear the redo stack.
// A rejected root action leaves the diagram untouched.
func (m *Manager) Dispatch(ctx context.Context, id string, action domain.Action) (*domain.Result, error) {
	var res *domain.Result
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		doc, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}

		res, err = m.engine.Dispatch(domain.WithDiagramID(ctx, id), doc.State, action)
		if err != nil {
			if res == nil || res.State == doc.State {
				return err
			}
			// Partially applied cascade: keep what committed, report the error.
			m.logger.WarnContext(ctx, "dispatch committed partially",
				"diagram_id", id,
				"action", action.String(),
				"err", err,
			)
		}

		if res.State != doc.State {
			if action.Recorded() {
				doc.Past = m.push(doc.Past, doc.State)
				doc.Future = nil
			}
			doc.State = res.State
			if saveErr := m.store.Save(ctx, doc); saveErr != nil {
				return fmt.Errorf("failed to save diagram: %w", saveErr)
			}
		}
		return err
	})
	return res, err
}

// Undo restores the snapshot before the last recorded change.
func (m *Manager) Undo(ctx context.Context, id string) (*domain.State, error) {
	return m.travel(ctx, id, func(doc *domain.Document) error {
		if len(doc.Past) == 0 {
			return domain.ErrNothingToUndo
		}
		prev := doc.Past[len(doc.Past)-1]
		doc.Past = doc.Past[:len(doc.Past)-1]
		doc.Future = append(doc.Future, doc.State)
		doc.State = prev
		return nil
	})
}

// Redo re-applies the last undone change.
func (m *Manager) Redo(ctx context.Context, id string) (*domain.State, error) {
	return m.travel(ctx, id, func(doc *domain.Document) error {
		if len(doc.Future) == 0 {
			return domain.ErrNothingToRedo
		}
		next := doc.Future[len(doc.Future)-1]
		doc.Future = doc.Future[:len(doc.Future)-1]
		doc.Past = m.push(doc.Past, doc.State)
		doc.State = next
		return nil
	})
}

func (m *Manager) travel(ctx context.Context, id string, step func(*domain.Document) error) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		doc, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if err := step(doc); err != nil {
			return err
		}
		if err := m.store.Save(ctx, doc); err != nil {
			return fmt.Errorf("failed to save diagram: %w", err)
		}
		state = doc.State
		return nil
	})
	return state, err
}

// push appends s to the history, dropping the oldest entries beyond the limit.
func (m *Manager) push(history []*domain.State, s *domain.State) []*domain.State {
	if m.historyLimit == 0 {
		return nil
	}
	history = append(history, s)
	if over := len(history) - m.historyLimit; over > 0 {
		history = append([]*domain.State(nil), history[over:]...)
	}
	return history
}

// WithLock executes a function while holding the lock for the diagram.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	return fn(ctx)
}

// Dispatcher binds the manager to one diagram.
func (m *Manager) Dispatcher(id string) ports.Dispatcher {
	return &dispatcher{manager: m, id: id}
}

type dispatcher struct {
	manager *Manager
	id      string
}

func (d *dispatcher) Dispatch(ctx context.Context, action domain.Action) (*domain.Result, error) {
	return d.manager.Dispatch(ctx, d.id, action)
}

func (d *dispatcher) Snapshot(ctx context.Context) (*domain.State, error) {
	doc, err := d.manager.Load(ctx, d.id)
	if err != nil {
		return nil, err
	}
	return doc.State, nil
}
