// Package events is the structured observability hook for the logging
// pipeline. Components receive an Emitter by injection and emit typed
// events instead of threading diagnostic prints through business logic.
package events

import (
	"time"

	"go.uber.org/zap"
)

// Event is one pipeline observation.
type Event struct {
	// Name identifies the observation, e.g. "search.completed".
	Name string
	// ConversationID scopes the event to one conversation.
	ConversationID string
	// Fields carries event-specific values.
	Fields map[string]any
	// At is when the event was emitted.
	At time.Time
}

// Emitter receives pipeline events. Implementations must be safe for
// concurrent use.
type Emitter interface {
	Emit(event Event)
}

// Well-known event names.
const (
	SearchStarted      = "search.started"
	SearchCompleted    = "search.completed"
	SearchFailed       = "search.failed"
	LLMCompleted       = "llm.completed"
	LLMFailed          = "llm.failed"
	ExtractionOutcome  = "extraction.outcome"
	CommitOutcome      = "commit.outcome"
	TurnSuperseded     = "turn.superseded"
	PendingSuperseded  = "pending.superseded"
	PersistenceDegrade = "persistence.degraded"
)

// zapEmitter writes events to a zap logger at debug level.
type zapEmitter struct {
	logger *zap.Logger
}

// NewZapEmitter creates an Emitter backed by the given logger.
func NewZapEmitter(logger *zap.Logger) Emitter {
	return &zapEmitter{logger: logger.Named("events")}
}

var _ Emitter = (*zapEmitter)(nil)

func (e *zapEmitter) Emit(event Event) {
	fields := make([]zap.Field, 0, len(event.Fields)+1)
	fields = append(fields, zap.String("conversation_id", event.ConversationID))
	for k, v := range event.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	e.logger.Debug(event.Name, fields...)
}

// NopEmitter discards all events.
type NopEmitter struct{}

var _ Emitter = (*NopEmitter)(nil)

// Emit implements Emitter.
func (NopEmitter) Emit(Event) {}
