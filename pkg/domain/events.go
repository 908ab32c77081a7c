package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDispatch EventType = "dispatch"
	EventUndo     EventType = "undo"
	EventRedo     EventType = "redo"
	EventLoad     EventType = "load"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// DispatchEvent describes one processed action.
type DispatchEvent struct {
	EventBase
	Action      string `json:"action"`
	FromVersion int    `json:"from_version"`
	ToVersion   int    `json:"to_version"`
	// Recorded is true when the action added a history entry.
	Recorded bool `json:"recorded"`
	CanUndo  bool `json:"can_undo"`
	CanRedo  bool `json:"can_redo"`
	// Depth is the number of retained history entries after the action.
	Depth    int           `json:"depth"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// EventTypeFor maps an action type to the event category it produces.
func EventTypeFor(actionType string) EventType {
	switch actionType {
	case ActionUndo:
		return EventUndo
	case ActionRedo:
		return EventRedo
	case ActionLoadState:
		return EventLoad
	default:
		return EventDispatch
	}
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnDispatch func(context.Context, *DispatchEvent)
	OnError    func(context.Context, *DispatchEvent)
}
