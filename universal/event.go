package universal

import (
	"encoding/json"
	"fmt"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// EventType discriminates between universal event kinds.
type EventType string

const (
	EventTypeStarted EventType = "started"
	EventTypeMessage EventType = "message"
	EventTypeError   EventType = "error"
	EventTypeUnknown EventType = "unknown"
)

// EventTypes lists every EventType in declaration order.
func EventTypes() []EventType {
	return []EventType{EventTypeStarted, EventTypeMessage, EventTypeError, EventTypeUnknown}
}

// EventData is the payload of a conversion: exactly one of StartedEvent,
// MessageEvent, ErrorEvent or UnknownEvent.
type EventData interface {
	EventType() EventType
	isEventData()
}

// Started describes a lifecycle phase such as a thread or turn starting.
type Started struct {
	// Message is a phase label, e.g. "turn/started".
	Message string `json:"message"`
	// Details is the encoded object that started.
	Details json.RawMessage `json:"details,omitempty"`
}

// CrashInfo describes a backend failure.
type CrashInfo struct {
	Message string          `json:"message"`
	Kind    string          `json:"kind,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

// StartedEvent reports a lifecycle transition.
type StartedEvent struct {
	Started Started `json:"started"`
}

// MessageEvent carries one message, complete or partial.
type MessageEvent struct {
	Message Message `json:"message"`
}

// ErrorEvent reports a backend error.
type ErrorEvent struct {
	Error CrashInfo `json:"error"`
}

// UnknownEvent preserves a notification that has no universal equivalent.
// Raw decodes back into the original backend value.
type UnknownEvent struct {
	Raw json.RawMessage `json:"raw"`
}

func (StartedEvent) EventType() EventType { return EventTypeStarted }
func (MessageEvent) EventType() EventType { return EventTypeMessage }
func (ErrorEvent) EventType() EventType   { return EventTypeError }
func (UnknownEvent) EventType() EventType { return EventTypeUnknown }

func (StartedEvent) isEventData() {}
func (MessageEvent) isEventData() {}
func (ErrorEvent) isEventData()   {}
func (UnknownEvent) isEventData() {}

// NewUnknown encodes v into an UnknownEvent.
func NewUnknown(v any) UnknownEvent {
	return UnknownEvent{Raw: RawValue(v)}
}

// MarshalJSON implements json.Marshaler.
func (e StartedEvent) MarshalJSON() ([]byte, error) {
	type alias StartedEvent
	return tagged.Marshal("type", string(EventTypeStarted), alias(e))
}

// MarshalJSON implements json.Marshaler.
func (e MessageEvent) MarshalJSON() ([]byte, error) {
	type alias MessageEvent
	return tagged.Marshal("type", string(EventTypeMessage), alias(e))
}

// MarshalJSON implements json.Marshaler.
func (e ErrorEvent) MarshalJSON() ([]byte, error) {
	type alias ErrorEvent
	return tagged.Marshal("type", string(EventTypeError), alias(e))
}

// MarshalJSON implements json.Marshaler.
func (e UnknownEvent) MarshalJSON() ([]byte, error) {
	type alias UnknownEvent
	if e.Raw == nil {
		e.Raw = nullRaw
	}
	return tagged.Marshal("type", string(EventTypeUnknown), alias(e))
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *MessageEvent) UnmarshalJSON(data []byte) error {
	var wire struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	msg, err := ParseMessage(wire.Message)
	if err != nil {
		return err
	}
	e.Message = msg
	return nil
}

var eventDecoders = map[string]func([]byte) (EventData, error){
	string(EventTypeStarted): tagged.As[StartedEvent, EventData],
	string(EventTypeMessage): tagged.As[MessageEvent, EventData],
	string(EventTypeError):   tagged.As[ErrorEvent, EventData],
	string(EventTypeUnknown): tagged.As[UnknownEvent, EventData],
}

// ParseEventData decodes a tagged universal event.
func ParseEventData(data []byte) (EventData, error) {
	ev, err := tagged.Decode(data, "type", eventDecoders)
	if err != nil {
		return nil, fmt.Errorf("parse universal event: %w", err)
	}
	return ev, nil
}
