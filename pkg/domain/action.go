package domain

import (
	"fmt"
	"strings"
)

// ActionType is the discriminant of an Action.
type ActionType string

// Standard Action Types
const (
	ActionCreate          ActionType = "CREATE"
	ActionHover           ActionType = "HOVER"
	ActionLeave           ActionType = "LEAVE"
	ActionSelect          ActionType = "SELECT"
	ActionResize          ActionType = "RESIZE"
	ActionMove            ActionType = "MOVE"
	ActionChange          ActionType = "CHANGE"
	ActionRename          ActionType = "RENAME"
	ActionUpdate          ActionType = "UPDATE"
	ActionDelete          ActionType = "DELETE"
	ActionDuplicate       ActionType = "DUPLICATE"
	ActionMakeInteractive ActionType = "MAKE_INTERACTIVE"
)

// ActionTypes lists every action the engine understands.
var ActionTypes = []ActionType{
	ActionCreate, ActionHover, ActionLeave, ActionSelect, ActionResize, ActionMove,
	ActionChange, ActionRename, ActionUpdate, ActionDelete, ActionDuplicate, ActionMakeInteractive,
}

// ParseActionType accepts the canonical name in any case ("select", "make_interactive").
func ParseActionType(s string) (ActionType, error) {
	t := ActionType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range ActionTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Action is a command applied to a State.
// Only the payload fields relevant to Type are read.
type Action struct {
	Type ActionType `json:"type" yaml:"type"`

	// ID targets an element. MOVE, DELETE and SELECT accept an empty ID,
	// meaning "the current selection" (SELECT: clear it).
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Element is the payload of CREATE.
	Element *Element `json:"element,omitempty" yaml:"element,omitempty"`

	// Internal marks synthetic HOVER/LEAVE emitted by bubbling.
	Internal bool `json:"internal,omitempty" yaml:"internal,omitempty"`

	// Toggle and Keep qualify SELECT.
	Toggle bool `json:"toggle,omitempty" yaml:"toggle,omitempty"`
	Keep   bool `json:"keep,omitempty" yaml:"keep,omitempty"`

	Size   Size           `json:"size,omitempty" yaml:"size,omitempty"`
	Delta  Point          `json:"delta,omitempty" yaml:"delta,omitempty"`
	Kind   Kind           `json:"kind,omitempty" yaml:"kind,omitempty"`
	Name   string         `json:"name,omitempty" yaml:"name,omitempty"`
	Values map[string]any `json:"values,omitempty" yaml:"values,omitempty"`

	// Parent is the optional new owner of a DUPLICATE.
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

func (a Action) String() string {
	var sb strings.Builder
	sb.WriteString(string(a.Type))
	switch a.Type {
	case ActionCreate:
		if a.Element != nil {
			fmt.Fprintf(&sb, " %s(%s)", a.Element.ID, a.Element.Kind)
		}
	default:
		if a.ID != "" {
			sb.WriteString(" " + a.ID)
		}
	}
	switch a.Type {
	case ActionHover, ActionLeave:
		if a.Internal {
			sb.WriteString(" internal")
		}
	case ActionSelect:
		if a.Toggle {
			sb.WriteString(" toggle")
		}
		if a.Keep {
			sb.WriteString(" keep")
		}
	case ActionMove:
		fmt.Fprintf(&sb, " %+g,%+g", a.Delta.X, a.Delta.Y)
	case ActionResize:
		fmt.Fprintf(&sb, " %gx%g", a.Size.Width, a.Size.Height)
	case ActionChange:
		sb.WriteString(" " + string(a.Kind))
	case ActionRename:
		fmt.Fprintf(&sb, " %q", a.Name)
	case ActionDuplicate:
		if a.Parent != "" {
			sb.WriteString(" -> " + a.Parent)
		}
	}
	return sb.String()
}

// Create inserts an element.
func Create(el *Element) Action { return Action{Type: ActionCreate, Element: el} }

// Hover marks an element as hovered.
func Hover(id string, internal bool) Action {
	return Action{Type: ActionHover, ID: id, Internal: internal}
}

// Leave clears the hovered flag.
func Leave(id string, internal bool) Action {
	return Action{Type: ActionLeave, ID: id, Internal: internal}
}

// Select selects an element. An empty id clears the selection.
func Select(id string, toggle, keep bool) Action {
	return Action{Type: ActionSelect, ID: id, Toggle: toggle, Keep: keep}
}

// Resize overwrites width and height.
func Resize(id string, size Size) Action { return Action{Type: ActionResize, ID: id, Size: size} }

// Move shifts an element by delta. An empty id moves the current selection.
func Move(id string, delta Point) Action { return Action{Type: ActionMove, ID: id, Delta: delta} }

// Change overwrites the kind of an element.
func Change(id string, kind Kind) Action { return Action{Type: ActionChange, ID: id, Kind: kind} }

// Rename overwrites the name of an element.
func Rename(id string, name string) Action { return Action{Type: ActionRename, ID: id, Name: name} }

// Update merges partial values onto an element.
func Update(id string, values map[string]any) Action {
	return Action{Type: ActionUpdate, ID: id, Values: values}
}

// Delete removes an element. An empty id deletes the current selection.
func Delete(id string) Action { return Action{Type: ActionDelete, ID: id} }

// Duplicate clones an element, optionally attaching the clone to parent.
func Duplicate(id string, parent string) Action {
	return Action{Type: ActionDuplicate, ID: id, Parent: parent}
}

// MakeInteractive toggles the interactive flag under the single-interactive-ancestor rule.
func MakeInteractive(id string) Action { return Action{Type: ActionMakeInteractive, ID: id} }

// Recorded reports whether the action changes the model (as opposed to view flags)
// and therefore belongs in undo history.
func (a Action) Recorded() bool {
	switch a.Type {
	case ActionHover, ActionLeave, ActionSelect:
		return false
	}
	return true
}
