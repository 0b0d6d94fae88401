package domain

// Document is a named diagram: its current snapshot plus undo/redo history.
// Snapshots are immutable, so copying a Document only copies slice headers.
type Document struct {
	ID   string      `json:"id"`
	Type DiagramType `json:"type"`

	State *State `json:"-"`

	// Past holds earlier snapshots, most recent last.
	Past []*State `json:"-"`
	// Future holds undone snapshots, most recent last.
	Future []*State `json:"-"`
}

// NewDocument creates an empty diagram.
func NewDocument(id string, t DiagramType) *Document {
	return &Document{
		ID:    id,
		Type:  t,
		State: NewState(),
	}
}

// Copy returns a Document that can be modified without affecting d.
func (d *Document) Copy() *Document {
	c := *d
	c.Past = append([]*State(nil), d.Past...)
	c.Future = append([]*State(nil), d.Future...)
	return &c
}

// Result is the outcome of dispatching one root action.
type Result struct {
	// State is the snapshot after every accepted action committed.
	State *State
	// Applied lists accepted actions in application order, root first.
	Applied []Action
	// Rejected lists follow-up actions the reducer refused.
	Rejected []Rejection
}

// Rejection pairs a refused action with the reason.
type Rejection struct {
	Action Action
	Err    error
}
