package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/canvas/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one record per event.
// Applied follow-ups log at debug, root actions and rejections at info.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.ActionEvent) {
			logger.InfoContext(ctx, "dispatch",
				"diagram_id", e.DiagramID,
				"action", e.Action.String(),
			)
		},
		OnApply: func(ctx context.Context, e *domain.ActionEvent) {
			logger.DebugContext(ctx, "apply",
				"diagram_id", e.DiagramID,
				"action", e.Action.String(),
				"depth", e.Depth,
				"follow_ups", e.FollowUps,
			)
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			logger.InfoContext(ctx, "reject",
				"diagram_id", e.DiagramID,
				"action", e.Action.String(),
				"depth", e.Depth,
				"err", e.Err,
			)
		},
		OnGestureCancelled: func(ctx context.Context, e *domain.GestureEvent) {
			logger.InfoContext(ctx, "gesture_cancelled",
				"diagram_id", e.DiagramID,
				"source", e.Source.Element,
				"reason", e.Reason,
			)
		},
	}
}
