package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Reduce applies a single action to state and returns the next snapshot.
// It never modifies state. When the action cannot apply (missing id,
// non-selectable target, invalid owner) it returns state itself and an error
// wrapping one of the domain sentinels.
// Actions handled purely by the effects (DUPLICATE, MAKE_INTERACTIVE, and
// MOVE/DELETE/SELECT without id) return state unchanged and no error.
func Reduce(state *domain.State, action domain.Action) (*domain.State, error) {
	switch action.Type {
	case domain.ActionCreate:
		return reduceCreate(state, action)

	case domain.ActionHover, domain.ActionLeave:
		hovered := action.Type == domain.ActionHover
		return rewrite(state, action.ID, func(el *domain.Element) {
			el.Hovered = hovered
		})

	case domain.ActionSelect:
		if action.ID == "" {
			return state, nil
		}
		el, err := state.Lookup(action.ID)
		if err != nil {
			return state, err
		}
		if !el.Capabilities().Selectable {
			return state, fmt.Errorf("%w: %s (%s)", domain.ErrNotSelectable, el.ID, el.Kind)
		}
		return rewrite(state, action.ID, func(el *domain.Element) {
			el.Selected = !action.Toggle || !el.Selected
		})

	case domain.ActionResize:
		return rewrite(state, action.ID, func(el *domain.Element) {
			el.Bounds.Width = action.Size.Width
			el.Bounds.Height = action.Size.Height
		})

	case domain.ActionMove:
		if action.ID == "" {
			return state, nil
		}
		return rewrite(state, action.ID, func(el *domain.Element) {
			el.Bounds.X += action.Delta.X
			el.Bounds.Y += action.Delta.Y
		})

	case domain.ActionChange:
		el, err := state.Lookup(action.ID)
		if err != nil {
			return state, err
		}
		if err := keepsChildren(el, action.Kind); err != nil {
			return state, err
		}
		return rewrite(state, action.ID, func(el *domain.Element) {
			el.Kind = action.Kind
		})

	case domain.ActionRename:
		return rewrite(state, action.ID, func(el *domain.Element) {
			el.Name = action.Name
		})

	case domain.ActionUpdate:
		return reduceUpdate(state, action)

	case domain.ActionDelete:
		if action.ID == "" {
			return state, nil
		}
		return reduceDelete(state, action.ID)

	case domain.ActionDuplicate, domain.ActionMakeInteractive:
		if _, err := state.Lookup(action.ID); err != nil {
			return state, err
		}
		return state, nil
	}

	return state, fmt.Errorf("%w: %q", domain.ErrUnknownAction, action.Type)
}

// rewrite replaces id with a modified copy.
func rewrite(state *domain.State, id string, fn func(el *domain.Element)) (*domain.State, error) {
	el, err := state.Lookup(id)
	if err != nil {
		return state, err
	}
	next := el.Copy()
	fn(next)
	return state.Edit(func(tx *domain.Tx) {
		tx.Put(next)
	}), nil
}

func reduceCreate(state *domain.State, action domain.Action) (*domain.State, error) {
	if action.Element == nil || action.Element.ID == "" {
		return state, domain.ErrMissingID
	}
	el := action.Element.Copy()
	if state.Has(el.ID) {
		return state, fmt.Errorf("%w: %s", domain.ErrDuplicateID, el.ID)
	}
	// Children link themselves through their own CREATE.
	el.OwnedElements = nil

	if el.IsRelationship() {
		for _, end := range []*domain.Port{el.Source, el.Target} {
			if end == nil || !state.Has(end.Element) {
				return state, fmt.Errorf("relationship %s: %w: %s", el.ID, domain.ErrElementNotFound, endpoint(end))
			}
		}
	}

	var owner *domain.Element
	if el.Owner != "" {
		o, err := state.Container(el.Owner)
		if err != nil {
			return state, fmt.Errorf("%w: %s: %w", domain.ErrInvalidOwner, el.Owner, err)
		}
		owner = o.Copy()
		if !slices.Contains(owner.OwnedElements, el.ID) {
			owner.OwnedElements = append(owner.OwnedElements, el.ID)
		}
	}

	return state.Edit(func(tx *domain.Tx) {
		tx.Put(el)
		if owner != nil {
			tx.Put(owner)
		}
	}), nil
}

// structural fields are maintained by CREATE/DELETE only.
func reduceUpdate(state *domain.State, action domain.Action) (*domain.State, error) {
	el, err := state.Lookup(action.ID)
	if err != nil {
		return state, err
	}
	next := el.Copy()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           next,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return state, fmt.Errorf("update %s: %w", action.ID, err)
	}
	if err := decoder.Decode(action.Values); err != nil {
		return state, fmt.Errorf("update %s: %w", action.ID, err)
	}

	next.ID = el.ID
	next.Owner = el.Owner
	next.OwnedElements = el.OwnedElements
	if err := keepsChildren(el, next.Kind); err != nil {
		return state, err
	}

	return state.Edit(func(tx *domain.Tx) {
		tx.Put(next)
	}), nil
}

func reduceDelete(state *domain.State, id string) (*domain.State, error) {
	el, err := state.Lookup(id)
	if err != nil {
		return state, err
	}

	var owner *domain.Element
	if el.Owner != "" {
		if o, err := state.Lookup(el.Owner); err == nil {
			if i := slices.Index(o.OwnedElements, id); i >= 0 {
				owner = o.Copy()
				owner.OwnedElements = slices.Delete(owner.OwnedElements, i, i+1)
			}
		}
	}

	return state.Edit(func(tx *domain.Tx) {
		tx.Delete(id)
		if owner != nil {
			tx.Put(owner)
		}
	}), nil
}

// keepsChildren rejects a kind change that would leave children under a non-container.
func keepsChildren(el *domain.Element, kind domain.Kind) error {
	if len(el.OwnedElements) > 0 && !domain.CapabilitiesOf(kind).Container {
		return fmt.Errorf("%w: %s owns %d elements, %s cannot", domain.ErrNotContainer, el.ID, len(el.OwnedElements), kind)
	}
	return nil
}

func endpoint(p *domain.Port) string {
	if p == nil {
		return "<missing endpoint>"
	}
	return p.Element
}
