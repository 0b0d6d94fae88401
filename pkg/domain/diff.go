package domain

import (
	"reflect"
	"sort"
)

// StateDiff lists the element ids that differ between two snapshots.
// It is designed to be serialized to JSON for partial updates on a client.
type StateDiff struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, every element of newState is reported as added.
// Returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}
	if oldState == nil {
		oldState = NewState()
	}
	if oldState == newState {
		return nil
	}

	diff := &StateDiff{}
	for id, el := range newState.elements {
		prev, ok := oldState.elements[id]
		switch {
		case !ok:
			diff.Added = append(diff.Added, id)
		case prev == el:
			// Shared pointer: untouched by the transition.
		case !reflect.DeepEqual(prev, el):
			diff.Changed = append(diff.Changed, id)
		}
	}
	for id := range oldState.elements {
		if _, ok := newState.elements[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Strings(diff.Changed)
	return diff
}

// IsEmpty checks if the diff contains any actionable changes. A nil diff is empty.
func (d *StateDiff) IsEmpty() bool {
	return d == nil || len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}
