package observability

import (
	"context"
	"log/slog"

	"github.com/goldi-lab/gift/pkg/domain"
)

// LogHooks writes an audit record for every processed action.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.InfoContext(ctx, string(e.Type),
				"session_id", e.SessionID,
				"action", e.Action,
				"from_version", e.FromVersion,
				"to_version", e.ToVersion,
				"recorded", e.Recorded,
				"depth", e.Depth,
				"duration", e.Duration,
			)
		},
		OnError: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.ErrorContext(ctx, "action rejected",
				"session_id", e.SessionID,
				"action", e.Action,
				"version", e.FromVersion,
				"err", e.Err,
			)
		},
	}
}

// Combine fans each event out to all hooks in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			for _, h := range hooks {
				if h.OnDispatch != nil {
					h.OnDispatch(ctx, e)
				}
			}
		},
		OnError: func(ctx context.Context, e *domain.DispatchEvent) {
			for _, h := range hooks {
				if h.OnError != nil {
					h.OnError(ctx, e)
				}
			}
		},
	}
}
