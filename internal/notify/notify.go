// Package notify is the event channel the core emits user-facing
// notifications to. It decouples the upload/analysis state machine from any
// particular presentation; the HTTP layer drains recent events and the
// structured logger mirrors them.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level classifies an event for presentation.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event is one user-facing notification.
type Event struct {
	Level    Level     `json:"level"`
	Message  string    `json:"message"`
	RecordID string    `json:"recordId,omitempty"`
	At       time.Time `json:"at"`
}

// Hub retains a bounded window of recent events. Publishing never blocks;
// when the window is full the oldest event is dropped.
type Hub struct {
	mu     sync.Mutex
	events []Event
	limit  int
	log    *zap.Logger
}

// NewHub constructs a Hub retaining up to limit events. The logger may be
// nil in tests.
func NewHub(limit int, log *zap.Logger) *Hub {
	if limit <= 0 {
		limit = 64
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{limit: limit, log: log}
}

// Publish records an event and mirrors it to the logger.
func (h *Hub) Publish(level Level, message, recordID string) {
	ev := Event{
		Level:    level,
		Message:  message,
		RecordID: recordID,
		At:       time.Now().UTC(),
	}
	h.mu.Lock()
	h.events = append(h.events, ev)
	if len(h.events) > h.limit {
		h.events = h.events[len(h.events)-h.limit:]
	}
	h.mu.Unlock()

	fields := []zap.Field{zap.String("record", recordID)}
	switch level {
	case LevelError:
		h.log.Error(message, fields...)
	case LevelWarning:
		h.log.Warn(message, fields...)
	default:
		h.log.Info(message, fields...)
	}
}

// Recent returns the retained events, oldest first.
func (h *Hub) Recent() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}
