package domain

import (
	"fmt"
	"slices"
	"sort"
)

// State is an immutable snapshot of a diagram's elements.
// Transitions go through Edit, which copies the table once and leaves the
// receiver untouched; entries that are not rewritten keep pointer identity.
type State struct {
	elements map[string]*Element
	roots    []string
}

// NewState creates an empty snapshot.
func NewState() *State {
	return &State{elements: make(map[string]*Element)}
}

// Len returns the number of elements.
func (s *State) Len() int {
	return len(s.elements)
}

// Has reports whether id is present.
func (s *State) Has(id string) bool {
	_, ok := s.elements[id]
	return ok
}

// Lookup returns the element stored under id.
// The returned element is shared with the snapshot and must not be mutated.
func (s *State) Lookup(id string) (*Element, error) {
	el, ok := s.elements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	return el, nil
}

// Container returns id if it is a Container.
func (s *State) Container(id string) (*Element, error) {
	el, err := s.Lookup(id)
	if err != nil {
		return nil, err
	}
	if !el.IsContainer() {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotContainer, id, el.Kind)
	}
	return el, nil
}

// Relationship returns id if it is a Relationship.
func (s *State) Relationship(id string) (*Element, error) {
	el, err := s.Lookup(id)
	if err != nil {
		return nil, err
	}
	if !el.IsRelationship() {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotRelationship, id, el.Kind)
	}
	return el, nil
}

// IDs returns all element ids in sorted order.
func (s *State) IDs() []string {
	ids := make([]string, 0, len(s.elements))
	for id := range s.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids) // Deterministic order
	return ids
}

// Elements returns all elements ordered by id.
func (s *State) Elements() []*Element {
	ids := s.IDs()
	out := make([]*Element, len(ids))
	for i, id := range ids {
		out[i] = s.elements[id]
	}
	return out
}

// Roots returns the diagram-level element ids in insertion order.
func (s *State) Roots() []string {
	return slices.Clone(s.roots)
}

// Children returns the owned element ids of a container (nil for other variants).
func (s *State) Children(id string) []string {
	el, ok := s.elements[id]
	if !ok {
		return nil
	}
	return slices.Clone(el.OwnedElements)
}

// Selection returns the ids of selected elements in sorted order.
func (s *State) Selection() []string {
	var ids []string
	for id, el := range s.elements {
		if el.Selected {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Relationships returns the relationships attached to id, sorted by id.
func (s *State) Relationships(id string) []string {
	var ids []string
	for rid, el := range s.elements {
		if el.IsRelationship() && el.Connects(id) {
			ids = append(ids, rid)
		}
	}
	sort.Strings(ids)
	return ids
}

// AbsolutePosition resolves an element's origin in diagram coordinates
// by adding the positions of its owner chain.
func (s *State) AbsolutePosition(id string) (Point, error) {
	el, err := s.Lookup(id)
	if err != nil {
		return Point{}, err
	}
	p := Point{X: el.Bounds.X, Y: el.Bounds.Y}
	seen := map[string]bool{id: true}
	for owner := el.Owner; owner != ""; {
		parent, ok := s.elements[owner]
		if !ok || seen[owner] {
			break
		}
		seen[owner] = true
		p.X += parent.Bounds.X
		p.Y += parent.Bounds.Y
		owner = parent.Owner
	}
	return p, nil
}

// Edit returns a new snapshot produced by fn. The receiver is not modified.
func (s *State) Edit(fn func(tx *Tx)) *State {
	next := &State{
		elements: make(map[string]*Element, len(s.elements)+1),
		roots:    slices.Clone(s.roots),
	}
	for id, el := range s.elements {
		next.elements[id] = el
	}
	fn(&Tx{state: next})
	return next
}

// Tx is the write handle passed to Edit.
type Tx struct {
	state *State
}

// Get returns the current entry for id inside the transaction.
func (tx *Tx) Get(id string) (*Element, bool) {
	el, ok := tx.state.elements[id]
	return el, ok
}

// Put stores el under el.ID. A new owner-less element is appended to the roots.
func (tx *Tx) Put(el *Element) {
	_, existed := tx.state.elements[el.ID]
	tx.state.elements[el.ID] = el
	if !existed && el.Owner == "" {
		tx.state.roots = append(tx.state.roots, el.ID)
	}
}

// Delete removes id and drops it from the roots.
func (tx *Tx) Delete(id string) {
	delete(tx.state.elements, id)
	if i := slices.Index(tx.state.roots, id); i >= 0 {
		tx.state.roots = slices.Delete(tx.state.roots, i, i+1)
	}
}

// FromElements builds a snapshot from a list of elements in order.
// Owner links must already be consistent with OwnedElements.
func FromElements(elements ...*Element) *State {
	return NewState().Edit(func(tx *Tx) {
		for _, el := range elements {
			tx.Put(el)
		}
	})
}
