package amp

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// Event types of the Amp stream.
const (
	EventThreadStarted   = "thread.started"
	EventMessage         = "message"
	EventMessageDelta    = "message.delta"
	EventThreadCompleted = "thread.completed"
	EventToolRunUpdated  = "tool.run.updated"
	EventError           = "error"
	EventUsage           = "usage"
	EventThreadTitle     = "thread.title"

	// Account and client events that belong to no thread.
	EventAuthChanged     = "auth.changed"
	EventSettingsUpdated = "settings.updated"
	EventVersionNotice   = "version.notice"
)

// Delta kinds.
const (
	DeltaKindText     = "text"
	DeltaKindThinking = "thinking"
)

// Event is one line of the Amp stream.
type Event interface {
	EventType() string
	isEvent()
}

// ThreadStarted opens a thread.
type ThreadStarted struct {
	ThreadID string `json:"threadId"`
	Model    string `json:"model,omitempty"`
}

// MessageEvent carries a complete message.
type MessageEvent struct {
	ThreadID string  `json:"threadId"`
	Message  Message `json:"message"`
}

// MessageDelta streams a fragment of a message.
type MessageDelta struct {
	ThreadID  string `json:"threadId"`
	MessageID string `json:"messageId"`
	Kind      string `json:"kind"` // "text" | "thinking"
	Delta     string `json:"delta"`
}

// ThreadCompleted ends a thread turn with the thread's messages.
type ThreadCompleted struct {
	ThreadID string    `json:"threadId"`
	Messages []Message `json:"messages"`
}

// ToolRunUpdated reports progress of a tool invocation.
type ToolRunUpdated struct {
	ThreadID  string  `json:"threadId"`
	ToolUseID string  `json:"toolUseID"`
	Name      string  `json:"name,omitempty"`
	Run       ToolRun `json:"run"`
}

// ErrorEvent reports a failure.
type ErrorEvent struct {
	ThreadID  string `json:"threadId,omitempty"`
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable"`
}

// Usage reports token usage for a thread.
type Usage struct {
	ThreadID        string `json:"threadId"`
	InputTokens     int    `json:"inputTokens"`
	OutputTokens    int    `json:"outputTokens"`
	CacheReadTokens int    `json:"cacheReadTokens,omitempty"`
}

// ThreadTitle sets a thread's title.
type ThreadTitle struct {
	ThreadID string `json:"threadId"`
	Title    string `json:"title"`
}

// AuthChanged reports a login or logout.
type AuthChanged struct {
	User          string `json:"user,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// SettingsUpdated carries changed client settings.
type SettingsUpdated struct {
	Settings json.RawMessage `json:"settings"`
}

// VersionNotice announces a newer client version.
type VersionNotice struct {
	Version string `json:"version"`
	Message string `json:"message,omitempty"`
}

func (ThreadStarted) EventType() string   { return EventThreadStarted }
func (MessageEvent) EventType() string    { return EventMessage }
func (MessageDelta) EventType() string    { return EventMessageDelta }
func (ThreadCompleted) EventType() string { return EventThreadCompleted }
func (ToolRunUpdated) EventType() string  { return EventToolRunUpdated }
func (ErrorEvent) EventType() string      { return EventError }
func (Usage) EventType() string           { return EventUsage }
func (ThreadTitle) EventType() string     { return EventThreadTitle }
func (AuthChanged) EventType() string     { return EventAuthChanged }
func (SettingsUpdated) EventType() string { return EventSettingsUpdated }
func (VersionNotice) EventType() string   { return EventVersionNotice }

func (ThreadStarted) isEvent()   {}
func (MessageEvent) isEvent()    {}
func (MessageDelta) isEvent()    {}
func (ThreadCompleted) isEvent() {}
func (ToolRunUpdated) isEvent()  {}
func (ErrorEvent) isEvent()      {}
func (Usage) isEvent()           {}
func (ThreadTitle) isEvent()     {}
func (AuthChanged) isEvent()     {}
func (SettingsUpdated) isEvent() {}
func (VersionNotice) isEvent()   {}

func (e ThreadStarted) MarshalJSON() ([]byte, error) {
	type alias ThreadStarted
	return tagged.Marshal("type", EventThreadStarted, alias(e))
}

func (e MessageEvent) MarshalJSON() ([]byte, error) {
	type alias MessageEvent
	return tagged.Marshal("type", EventMessage, alias(e))
}

func (e MessageDelta) MarshalJSON() ([]byte, error) {
	type alias MessageDelta
	return tagged.Marshal("type", EventMessageDelta, alias(e))
}

func (e ThreadCompleted) MarshalJSON() ([]byte, error) {
	type alias ThreadCompleted
	return tagged.Marshal("type", EventThreadCompleted, alias(e))
}

func (e ToolRunUpdated) MarshalJSON() ([]byte, error) {
	type alias ToolRunUpdated
	return tagged.Marshal("type", EventToolRunUpdated, alias(e))
}

func (e ErrorEvent) MarshalJSON() ([]byte, error) {
	type alias ErrorEvent
	return tagged.Marshal("type", EventError, alias(e))
}

func (e Usage) MarshalJSON() ([]byte, error) {
	type alias Usage
	return tagged.Marshal("type", EventUsage, alias(e))
}

func (e ThreadTitle) MarshalJSON() ([]byte, error) {
	type alias ThreadTitle
	return tagged.Marshal("type", EventThreadTitle, alias(e))
}

func (e AuthChanged) MarshalJSON() ([]byte, error) {
	type alias AuthChanged
	return tagged.Marshal("type", EventAuthChanged, alias(e))
}

func (e SettingsUpdated) MarshalJSON() ([]byte, error) {
	type alias SettingsUpdated
	if e.Settings == nil {
		e.Settings = json.RawMessage("{}")
	}
	return tagged.Marshal("type", EventSettingsUpdated, alias(e))
}

func (e VersionNotice) MarshalJSON() ([]byte, error) {
	type alias VersionNotice
	return tagged.Marshal("type", EventVersionNotice, alias(e))
}

var eventDecoders = map[string]func([]byte) (Event, error){
	EventThreadStarted:   tagged.As[ThreadStarted, Event],
	EventMessage:         tagged.As[MessageEvent, Event],
	EventMessageDelta:    tagged.As[MessageDelta, Event],
	EventThreadCompleted: tagged.As[ThreadCompleted, Event],
	EventToolRunUpdated:  tagged.As[ToolRunUpdated, Event],
	EventError:           tagged.As[ErrorEvent, Event],
	EventUsage:           tagged.As[Usage, Event],
	EventThreadTitle:     tagged.As[ThreadTitle, Event],
	EventAuthChanged:     tagged.As[AuthChanged, Event],
	EventSettingsUpdated: tagged.As[SettingsUpdated, Event],
	EventVersionNotice:   tagged.As[VersionNotice, Event],
}

// Types returns every event type, sorted.
func Types() []string {
	return sortedKeys(eventDecoders)
}

// ParseEvent decodes one line of the Amp stream.
func ParseEvent(data []byte) (Event, error) {
	e, err := tagged.Decode(data, "type", eventDecoders)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amp event: %w", err)
	}
	return e, nil
}

// MarshalEvent encodes e as one line of the Amp stream.
func MarshalEvent(e Event) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("marshal event: nil")
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", e.EventType(), err)
	}
	return b, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
