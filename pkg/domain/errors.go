package domain

import "errors"

// ErrElementNotFound is returned when an action targets an id absent from the State.
var ErrElementNotFound = errors.New("element not found")

// ErrNotContainer is returned when a Container lookup hits another variant.
var ErrNotContainer = errors.New("element is not a container")

// ErrNotRelationship is returned when a Relationship lookup hits another variant.
var ErrNotRelationship = errors.New("element is not a relationship")

// ErrNotSelectable is returned when SELECT targets a kind without the Selectable capability.
var ErrNotSelectable = errors.New("element is not selectable")

// ErrInvalidOwner is returned when an element names an owner that is missing or not a Container.
var ErrInvalidOwner = errors.New("invalid owner")

// ErrDuplicateID is returned when CREATE reuses an existing id.
var ErrDuplicateID = errors.New("duplicate element id")

// ErrMissingID is returned when CREATE carries no element or an element without id.
var ErrMissingID = errors.New("element id is required")

// ErrUnknownAction is returned for an unrecognized action type.
var ErrUnknownAction = errors.New("unknown action")

// ErrCascadeLimit is returned when follow-up actions exceed the configured step limit.
var ErrCascadeLimit = errors.New("cascade limit exceeded")

// ErrDiagramNotFound is returned when a diagram id cannot be found in the store.
var ErrDiagramNotFound = errors.New("diagram not found")

// ErrDiagramExists is returned when creating a diagram under an id already in use.
var ErrDiagramExists = errors.New("diagram already exists")

// ErrNothingToUndo is returned by Undo on an empty history.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrNothingToRedo is returned by Redo when no undone snapshot is available.
var ErrNothingToRedo = errors.New("nothing to redo")

// ErrGestureInProgress is returned when a connect gesture starts while another is active.
var ErrGestureInProgress = errors.New("connect gesture already in progress")

// ErrGestureCancelled is returned when a connect gesture ends without creating a relationship.
var ErrGestureCancelled = errors.New("connect gesture cancelled")
