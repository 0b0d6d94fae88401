package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDispatch         EventType = "dispatch"
	EventApply            EventType = "apply"
	EventReject           EventType = "reject"
	EventGestureCancelled EventType = "gesture_cancelled"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	DiagramID string    `json:"diagram_id,omitempty"`
}

// ActionEvent reports a root dispatch or an applied action.
// Depth is 0 for the root action and grows by one per follow-up generation.
type ActionEvent struct {
	EventBase
	Action Action `json:"action"`
	Depth  int    `json:"depth"`
	// FollowUps is the number of follow-up actions emitted by the effects.
	FollowUps int `json:"follow_ups"`
}

// RejectEvent reports an action the reducer refused.
type RejectEvent struct {
	EventBase
	Action Action `json:"action"`
	Depth  int    `json:"depth"`
	Err    error  `json:"-"`
}

// GestureEvent reports an aborted connect gesture.
type GestureEvent struct {
	EventBase
	Source Port   `json:"source"`
	Target *Port  `json:"target,omitempty"`
	Reason string `json:"reason"`
}

type ctxKey int

const diagramIDKey ctxKey = 0

// WithDiagramID returns a context that tags emitted events with a diagram id.
func WithDiagramID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, diagramIDKey, id)
}

// DiagramIDFrom returns the diagram id attached by WithDiagramID, if any.
func DiagramIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(diagramIDKey).(string)
	return id
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnDispatch         func(context.Context, *ActionEvent)
	OnApply            func(context.Context, *ActionEvent)
	OnReject           func(context.Context, *RejectEvent)
	OnGestureCancelled func(context.Context, *GestureEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnDispatch:         chain(h.OnDispatch, other.OnDispatch),
		OnApply:            chain(h.OnApply, other.OnApply),
		OnReject:           chain(h.OnReject, other.OnReject),
		OnGestureCancelled: chain(h.OnGestureCancelled, other.OnGestureCancelled),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
