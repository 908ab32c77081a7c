package gift

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/goldi-lab/gift/internal/logging"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/history"
	"github.com/goldi-lab/gift/pkg/patch"
	"github.com/goldi-lab/gift/pkg/reducer"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Version is the release of the library and CLI.
const Version = "0.4.0"

const tracerName = "github.com/goldi-lab/gift"

// Engine is the stateless entry point: it turns a snapshot and an action into
// the next snapshot. It is safe for concurrent use.
type Engine struct {
	store       *history.Store[domain.AppState]
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	tracer      trace.Tracer
	maxVersions int
	notUndoable []string
	arrayLCS    bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxVersions sets how many undo steps are retained (default 20).
func WithMaxVersions(n int) Option {
	return func(e *Engine) {
		e.maxVersions = n
	}
}

// WithNotUndoable marks action types that change state without being recorded.
func WithNotUndoable(types ...string) Option {
	return func(e *Engine) {
		e.notUndoable = append(e.notUndoable, types...)
	}
}

// WithArrayLCS records list edits as minimal insertions and removals.
func WithArrayLCS() Option {
	return func(e *Engine) {
		e.arrayLCS = true
	}
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		e.tracer = tp.Tracer(tracerName)
	}
}

// New initializes an Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{maxVersions: history.MaxVersions}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.tracer == nil {
		eng.tracer = otel.Tracer(tracerName)
	}

	storeOpts := []history.Option{
		history.WithMaxVersions(eng.maxVersions),
		history.WithNotUndoable(eng.notUndoable...),
	}
	if eng.arrayLCS {
		storeOpts = append(storeOpts, history.WithPatchOptions(patch.WithArrayLCS()))
	}
	eng.store = history.NewStore(reducer.Reduce, storeOpts...)
	return eng
}

// MaxVersions returns the configured retention depth.
func (e *Engine) MaxVersions() int { return e.store.MaxVersions() }

// NewSnapshot returns the state of a fresh session.
func (e *Engine) NewSnapshot() domain.Snapshot {
	return domain.NewSnapshot()
}

type sessionKey struct{}

// ContextWithSession tags ctx with a session ID used in logs, spans and events.
func ContextWithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionFromContext returns the session ID set by ContextWithSession.
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// Dispatch applies action to snap and returns the new snapshot.
// On error the returned snapshot is snap itself.
func (e *Engine) Dispatch(ctx context.Context, snap domain.Snapshot, action domain.Action) (domain.Snapshot, error) {
	sessionID := SessionFromContext(ctx)
	ctx, span := e.tracer.Start(ctx, "gift.dispatch", trace.WithAttributes(
		attribute.String("gift.action", action.Type),
		attribute.String("gift.session_id", sessionID),
		attribute.Int("gift.version", snap.CurrentVersion),
	))
	defer span.End()

	start := time.Now()
	next, err := e.store.Dispatch(snap, action)
	if err != nil {
		next = snap
	}

	evt := &domain.DispatchEvent{
		EventBase: domain.EventBase{
			Timestamp: start,
			Type:      domain.EventTypeFor(action.Type),
			SessionID: sessionID,
		},
		Action:      action.Type,
		FromVersion: snap.CurrentVersion,
		ToVersion:   next.CurrentVersion,
		CanUndo:     next.CanUndo,
		CanRedo:     next.CanRedo,
		Depth:       len(next.History),
		Duration:    time.Since(start),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		evt.Err = err
		e.logger.Warn("dispatch failed", "session_id", sessionID, "action", action.Type, "err", err)
		if e.hooks.OnError != nil {
			e.hooks.OnError(ctx, evt)
		}
		return snap, err
	}

	evt.Recorded = evt.Type == domain.EventDispatch && e.store.IsUndoable(action.Type)
	span.SetAttributes(attribute.Int("gift.next_version", next.CurrentVersion))
	e.logger.Debug("dispatched",
		"session_id", sessionID,
		"action", action.Type,
		"version", next.CurrentVersion,
		"can_undo", next.CanUndo,
		"can_redo", next.CanRedo,
	)
	if e.hooks.OnDispatch != nil {
		e.hooks.OnDispatch(ctx, evt)
	}
	return next, nil
}

// Undo steps one version back. Without an undo step snap is returned unchanged.
func (e *Engine) Undo(ctx context.Context, snap domain.Snapshot) (domain.Snapshot, error) {
	return e.Dispatch(ctx, snap, domain.Action{Type: domain.ActionUndo})
}

// Redo steps one version forward. Without a redo step snap is returned unchanged.
func (e *Engine) Redo(ctx context.Context, snap domain.Snapshot) (domain.Snapshot, error) {
	return e.Dispatch(ctx, snap, domain.Action{Type: domain.ActionRedo})
}

// Load replaces snap with loaded, history included.
func (e *Engine) Load(ctx context.Context, snap domain.Snapshot, loaded any) (domain.Snapshot, error) {
	return e.Dispatch(ctx, snap, domain.Action{Type: domain.ActionLoadState, Payload: loaded})
}

// Export serialises a snapshot for saving to a file.
func Export(snap domain.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}
	return data, nil
}

// Import reads an exported snapshot.
func (e *Engine) Import(ctx context.Context, data []byte) (domain.Snapshot, error) {
	return e.Load(ctx, e.NewSnapshot(), data)
}
