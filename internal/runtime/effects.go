package runtime

import (
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// duplicateOffset shifts a top-level duplicate so it does not cover its source.
var duplicateOffset = domain.Point{X: 30, Y: 30}

// effects derives the follow-up actions of an accepted action.
// prev is the snapshot before the reducer ran, next the one after.
// Handlers read the snapshots only; every change goes through the returned actions.
type effects struct {
	ids  ports.IDGenerator
	root ports.RootAccessor
}

func (fx *effects) followUps(prev, next *domain.State, a domain.Action) []domain.Action {
	switch a.Type {
	case domain.ActionDuplicate:
		return fx.duplicate(next, a)
	case domain.ActionHover:
		return bubble(next, a, domain.Leave)
	case domain.ActionLeave:
		return bubble(next, a, domain.Hover)
	case domain.ActionSelect:
		return exclusiveSelection(next, a)
	case domain.ActionMakeInteractive:
		return makeInteractive(next, a.ID)
	case domain.ActionMove:
		return fx.moveSelection(next, a)
	case domain.ActionDelete:
		if a.ID == "" {
			return deleteSelection(next)
		}
		return deleteCascade(prev, next, a.ID)
	}
	return nil
}

func (fx *effects) duplicate(state *domain.State, a domain.Action) []domain.Action {
	el, err := state.Lookup(a.ID)
	if err != nil {
		return nil
	}

	clone := el.Clone(fx.ids.NewID())
	if a.Parent != "" {
		clone.Owner = a.Parent
	} else {
		clone.Bounds.X += duplicateOffset.X
		clone.Bounds.Y += duplicateOffset.Y
	}

	clone.Hovered = false
	clone.OwnedElements = nil
	var children []string
	if clone.IsContainer() {
		children = ownedBy(state, el)
	}

	var out []domain.Action
	if a.Parent == "" {
		out = append(out, domain.Select("", false, false))
	}
	out = append(out, domain.Create(clone))
	for _, child := range children {
		out = append(out, domain.Duplicate(child, clone.ID))
	}
	if a.Parent == "" {
		out = append(out, domain.Select(clone.ID, false, false))
	}
	return out
}

// bubble keeps the hover affordance on the innermost element:
// hovering a child leaves its owner, leaving a child re-hovers its owner.
func bubble(state *domain.State, a domain.Action, toOwner func(string, bool) domain.Action) []domain.Action {
	if a.Internal {
		return nil
	}
	el, err := state.Lookup(a.ID)
	if err != nil || el.Owner == "" || !state.Has(el.Owner) {
		return nil
	}
	return []domain.Action{toOwner(el.Owner, true)}
}

func exclusiveSelection(state *domain.State, a domain.Action) []domain.Action {
	if a.Toggle || a.Keep {
		return nil
	}
	var out []domain.Action
	for _, id := range state.Selection() {
		if id != a.ID {
			out = append(out, domain.Select(id, true, false))
		}
	}
	return out
}

func setInteractive(id string, on bool) domain.Action {
	return domain.Update(id, map[string]any{"interactive": on})
}

// makeInteractive enforces a single interactive element per containment path.
func makeInteractive(state *domain.State, id string) []domain.Action {
	current, err := state.Lookup(id)
	if err != nil {
		return nil
	}
	if current.IsRelationship() {
		return []domain.Action{setInteractive(id, !current.Interactive)}
	}

	seen := map[string]bool{id: true}
	for owner := current.Owner; owner != "" && !seen[owner]; {
		seen[owner] = true
		el, err := state.Lookup(owner)
		if err != nil {
			break
		}
		if el.Interactive {
			return []domain.Action{setInteractive(el.ID, false)}
		}
		owner = el.Owner
	}

	if current.IsContainer() && !current.Interactive {
		var out []domain.Action
		for _, child := range current.OwnedElements {
			out = append(out, interactiveDescendants(state, child, seen)...)
		}
		if len(out) > 0 {
			return out
		}
	}
	return []domain.Action{setInteractive(id, !current.Interactive)}
}

// interactiveDescendants turns off the first interactive element on each path below id.
func interactiveDescendants(state *domain.State, id string, seen map[string]bool) []domain.Action {
	if seen[id] {
		return nil
	}
	seen[id] = true
	el, err := state.Lookup(id)
	if err != nil {
		return nil
	}
	if el.Interactive {
		return []domain.Action{setInteractive(id, false)}
	}
	if !el.IsContainer() {
		return nil
	}
	var out []domain.Action
	for _, child := range el.OwnedElements {
		out = append(out, interactiveDescendants(state, child, seen)...)
	}
	return out
}

func (fx *effects) moveSelection(state *domain.State, a domain.Action) []domain.Action {
	if a.ID != "" {
		return nil
	}
	var out []domain.Action
	for _, id := range EffectiveSelection(state, fx.root.Root(state)) {
		out = append(out, domain.Move(id, a.Delta))
	}
	return out
}

// EffectiveSelection flattens the selection below container: a selected
// container stands for its whole subtree, an unselected one is searched.
func EffectiveSelection(state *domain.State, container *domain.Element) []string {
	if container == nil {
		return nil
	}
	if container.Selected && container.ID != "" {
		return []string{container.ID}
	}
	seen := map[string]bool{}
	var walk func(ids []string) []string
	walk = func(ids []string) []string {
		var out []string
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			el, err := state.Lookup(id)
			if err != nil {
				continue
			}
			switch {
			case el.Selected:
				out = append(out, id)
			case el.IsContainer():
				out = append(out, walk(el.OwnedElements)...)
			}
		}
		return out
	}
	return walk(container.OwnedElements)
}

func deleteSelection(state *domain.State) []domain.Action {
	var out []domain.Action
	for _, id := range state.Selection() {
		out = append(out, domain.Delete(id))
	}
	return out
}

// deleteCascade removes what would dangle once id is gone:
// the children of a container and the relationships attached to it.
func deleteCascade(prev, next *domain.State, id string) []domain.Action {
	el, err := prev.Lookup(id)
	if err != nil {
		return nil
	}
	var out []domain.Action
	for _, child := range ownedBy(next, el) {
		out = append(out, domain.Delete(child))
	}
	for _, rel := range next.Relationships(id) {
		out = append(out, domain.Delete(rel))
	}
	return out
}

// ownedBy lists the entries of owner's child list that still exist in state
// and name owner as their Owner.
func ownedBy(state *domain.State, owner *domain.Element) []string {
	var out []string
	for _, id := range owner.OwnedElements {
		if child, err := state.Lookup(id); err == nil && child.Owner == owner.ID {
			out = append(out, id)
		}
	}
	return out
}

// diagramRoot is the default RootAccessor: a synthetic container owning the
// owner-less elements in insertion order.
type diagramRoot struct{}

func (diagramRoot) Root(state *domain.State) *domain.Element {
	return &domain.Element{
		Kind:          domain.KindPackage,
		OwnedElements: state.Roots(),
	}
}
