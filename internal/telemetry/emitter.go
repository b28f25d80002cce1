package telemetry

import (
	"context"
	"time"
)

// Event is an authentication event emitted to the telemetry backend.
type Event struct {
	UserID    string
	SessionID string
	EventType string
	Source    string
	Metadata  map[string]string
	CreatedAt time.Time
}

// EventEmitter emits auth events (e.g. to OTel Logs). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}
