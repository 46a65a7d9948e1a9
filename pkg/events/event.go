package events

import "time"

const (
	// AssistantExchange is emitted once per completed assistant exchange,
	// streaming or structured.
	AssistantExchange = "ASSISTANT_EXCHANGE"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ASSISTANT_EXCHANGE").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewAssistantExchange builds the telemetry event for one exchange.
func NewAssistantExchange(transport string, turns int, durationMs int64, truncated bool) Event {
	return BaseEvent{
		Type: AssistantExchange,
		Data: map[string]interface{}{
			"transport":   transport,
			"turns":       turns,
			"duration_ms": durationMs,
			"truncated":   truncated,
		},
		OccurredAt: time.Now(),
	}
}
