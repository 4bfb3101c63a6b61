package executor

import "time"

// EventType classifies an event for display and filtering.
type EventType string

const (
	EventInfo   EventType = "info"
	EventStatus EventType = "status"
	EventError  EventType = "error"
)

// Stage names a checkpoint in the executor's fixed pipeline. Within a
// single Execute call the stages fire in a strict order and none repeats.
type Stage string

const (
	StageLookupStarted      Stage = "tool_lookup_started"
	StageLookupFailed       Stage = "tool_lookup_failed"
	StageLookupCompleted    Stage = "tool_lookup_completed"
	StageValidationStarted  Stage = "validation_started"
	StageValidationFailed   Stage = "validation_failed"
	StageExecutionStarted   Stage = "execution_started"
	StageExecutionFailed    Stage = "execution_failed"
	StageExecutionCompleted Stage = "execution_completed"
)

// Event is the observability record emitted at each pipeline checkpoint.
// All fields are always populated; Tool may be the requested name before
// lookup has confirmed it exists.
type Event struct {
	Type      EventType `json:"type"`
	Stage     Stage     `json:"stage"`
	Message   string    `json:"message"`
	Tool      string    `json:"tool"`
	Timestamp time.Time `json:"timestamp"`
}

// EventCallback receives events synchronously as the pipeline advances. It
// is a passive observer: it cannot veto execution or alter the result, and
// a panicking callback is contained by the executor.
type EventCallback func(Event)

// MultiCallback fans events out to several callbacks, skipping nil entries.
func MultiCallback(callbacks ...EventCallback) EventCallback {
	active := make([]EventCallback, 0, len(callbacks))
	for _, cb := range callbacks {
		if cb != nil {
			active = append(active, cb)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(event Event) {
		for _, cb := range active {
			cb(event)
		}
	}
}
