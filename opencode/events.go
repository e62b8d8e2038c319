package opencode

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// Event types sent on the OpenCode server event stream.
const (
	EventSessionCreated   = "session.created"
	EventSessionUpdated   = "session.updated"
	EventSessionDeleted   = "session.deleted"
	EventSessionStatus    = "session.status"
	EventSessionIdle      = "session.idle"
	EventSessionCompacted = "session.compacted"
	EventSessionDiff      = "session.diff"
	EventSessionError     = "session.error"

	EventMessageUpdated     = "message.updated"
	EventMessageRemoved     = "message.removed"
	EventMessagePartUpdated = "message.part.updated"
	EventMessagePartRemoved = "message.part.removed"

	EventPermissionUpdated = "permission.updated"
	EventPermissionReplied = "permission.replied"
	EventTodoUpdated       = "todo.updated"
	EventCommandExecuted   = "command.executed"

	// Server-wide events that belong to no session.
	EventServerConnected             = "server.connected"
	EventInstallationUpdated         = "installation.updated"
	EventInstallationUpdateAvailable = "installation.update-available"
	EventLspClientDiagnostics        = "lsp.client.diagnostics"
	EventLspUpdated                  = "lsp.updated"
	EventFileEdited                  = "file.edited"
	EventFileWatcherUpdated          = "file.watcher.updated"
)

// Event is one server-sent event, {"type", "properties"} on the wire. The
// variant struct is the properties object.
type Event interface {
	EventType() string
	isEvent()
}

// SessionCreated is the data for session.created events.
type SessionCreated struct {
	Info Session `json:"info"`
}

// SessionUpdated is the data for session.updated events.
type SessionUpdated struct {
	Info Session `json:"info"`
}

// SessionDeleted is the data for session.deleted events.
type SessionDeleted struct {
	Info Session `json:"info"`
}

// SessionStatus reports whether a session is idle, busy or retrying.
type SessionStatus struct {
	SessionID string          `json:"sessionID"`
	Status    json.RawMessage `json:"status"`
}

// SessionIdle is the data for session.idle events.
type SessionIdle struct {
	SessionID string `json:"sessionID"`
}

// SessionCompacted reports that a session's context was compacted.
type SessionCompacted struct {
	SessionID string `json:"sessionID"`
}

// FileDiff represents a diff for a single file.
type FileDiff struct {
	Path      string `json:"path"`
	Before    string `json:"before,omitempty"`
	After     string `json:"after,omitempty"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// SessionDiff carries the session's accumulated file diffs.
type SessionDiff struct {
	SessionID string     `json:"sessionID"`
	Diff      []FileDiff `json:"diff"`
}

// SessionError is the data for session.error events.
type SessionError struct {
	Error     *MessageError `json:"error,omitempty"`
	SessionID string        `json:"sessionID,omitempty"`
}

// MessageUpdated is the data for message.updated events.
type MessageUpdated struct {
	Info Message `json:"info"`
}

// MessageRemoved is the data for message.removed events.
type MessageRemoved struct {
	SessionID string `json:"sessionID"`
	MessageID string `json:"messageID"`
}

// MessagePartUpdated is the data for message.part.updated events. Delta is
// set while a text or reasoning part streams.
type MessagePartUpdated struct {
	Part  Part   `json:"part"`
	Delta string `json:"delta,omitempty"`
}

// MessagePartRemoved is the data for message.part.removed events.
type MessagePartRemoved struct {
	SessionID string `json:"sessionID"`
	MessageID string `json:"messageID"`
	PartID    string `json:"partID"`
}

// PermissionUpdated is a permission request awaiting a reply.
type PermissionUpdated struct {
	ID             string   `json:"id"`
	SessionID      string   `json:"sessionID"`
	PermissionType string   `json:"permissionType"` // "bash" | "edit" | "external_directory"
	Title          string   `json:"title"`
	Pattern        []string `json:"pattern"`
}

// PermissionReplied is the data for permission.replied events.
type PermissionReplied struct {
	PermissionID string `json:"permissionID"`
	SessionID    string `json:"sessionID"`
	Response     string `json:"response"` // "once" | "always" | "reject"
}

// Todo is one entry of a session's todo list.
type Todo struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// TodoUpdated carries a session's todo list.
type TodoUpdated struct {
	SessionID string `json:"sessionID"`
	Todos     []Todo `json:"todos"`
}

// CommandExecuted reports a slash command run in a session.
type CommandExecuted struct {
	Name      string `json:"name"`
	SessionID string `json:"sessionID"`
	Arguments string `json:"arguments"`
	MessageID string `json:"messageID"`
}

// ServerConnected is sent first on every event stream.
type ServerConnected struct{}

// InstallationUpdated reports an applied upgrade.
type InstallationUpdated struct {
	Version string `json:"version"`
}

// InstallationUpdateAvailable reports an available upgrade.
type InstallationUpdateAvailable struct {
	Version string `json:"version"`
}

// LspClientDiagnostics reports new diagnostics for a file.
type LspClientDiagnostics struct {
	ServerID string `json:"serverID"`
	Path     string `json:"path"`
}

// LspUpdated reports a change in the set of language servers.
type LspUpdated struct{}

// FileEdited is the data for file.edited events.
type FileEdited struct {
	File string `json:"file"`
}

// FileWatcherUpdated reports a change seen by the file watcher.
type FileWatcherUpdated struct {
	File  string `json:"file"`
	Event string `json:"event"` // "add" | "change" | "unlink"
}

func (SessionCreated) EventType() string              { return EventSessionCreated }
func (SessionUpdated) EventType() string              { return EventSessionUpdated }
func (SessionDeleted) EventType() string              { return EventSessionDeleted }
func (SessionStatus) EventType() string               { return EventSessionStatus }
func (SessionIdle) EventType() string                 { return EventSessionIdle }
func (SessionCompacted) EventType() string            { return EventSessionCompacted }
func (SessionDiff) EventType() string                 { return EventSessionDiff }
func (SessionError) EventType() string                { return EventSessionError }
func (MessageUpdated) EventType() string              { return EventMessageUpdated }
func (MessageRemoved) EventType() string              { return EventMessageRemoved }
func (MessagePartUpdated) EventType() string          { return EventMessagePartUpdated }
func (MessagePartRemoved) EventType() string          { return EventMessagePartRemoved }
func (PermissionUpdated) EventType() string           { return EventPermissionUpdated }
func (PermissionReplied) EventType() string           { return EventPermissionReplied }
func (TodoUpdated) EventType() string                 { return EventTodoUpdated }
func (CommandExecuted) EventType() string             { return EventCommandExecuted }
func (ServerConnected) EventType() string             { return EventServerConnected }
func (InstallationUpdated) EventType() string         { return EventInstallationUpdated }
func (InstallationUpdateAvailable) EventType() string { return EventInstallationUpdateAvailable }
func (LspClientDiagnostics) EventType() string        { return EventLspClientDiagnostics }
func (LspUpdated) EventType() string                  { return EventLspUpdated }
func (FileEdited) EventType() string                  { return EventFileEdited }
func (FileWatcherUpdated) EventType() string          { return EventFileWatcherUpdated }

func (SessionCreated) isEvent()              {}
func (SessionUpdated) isEvent()              {}
func (SessionDeleted) isEvent()              {}
func (SessionStatus) isEvent()               {}
func (SessionIdle) isEvent()                 {}
func (SessionCompacted) isEvent()            {}
func (SessionDiff) isEvent()                 {}
func (SessionError) isEvent()                {}
func (MessageUpdated) isEvent()              {}
func (MessageRemoved) isEvent()              {}
func (MessagePartUpdated) isEvent()          {}
func (MessagePartRemoved) isEvent()          {}
func (PermissionUpdated) isEvent()           {}
func (PermissionReplied) isEvent()           {}
func (TodoUpdated) isEvent()                 {}
func (CommandExecuted) isEvent()             {}
func (ServerConnected) isEvent()             {}
func (InstallationUpdated) isEvent()         {}
func (InstallationUpdateAvailable) isEvent() {}
func (LspClientDiagnostics) isEvent()        {}
func (LspUpdated) isEvent()                  {}
func (FileEdited) isEvent()                  {}
func (FileWatcherUpdated) isEvent()          {}

// UnmarshalJSON implements json.Unmarshaler.
func (e *MessagePartUpdated) UnmarshalJSON(data []byte) error {
	var wire struct {
		Part  json.RawMessage `json:"part"`
		Delta string          `json:"delta"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	part, err := UnmarshalPart(wire.Part)
	if err != nil {
		return err
	}
	*e = MessagePartUpdated{Part: part, Delta: wire.Delta}
	return nil
}

var eventDecoders = map[string]func([]byte) (Event, error){
	EventSessionCreated:              tagged.As[SessionCreated, Event],
	EventSessionUpdated:              tagged.As[SessionUpdated, Event],
	EventSessionDeleted:              tagged.As[SessionDeleted, Event],
	EventSessionStatus:               tagged.As[SessionStatus, Event],
	EventSessionIdle:                 tagged.As[SessionIdle, Event],
	EventSessionCompacted:            tagged.As[SessionCompacted, Event],
	EventSessionDiff:                 tagged.As[SessionDiff, Event],
	EventSessionError:                tagged.As[SessionError, Event],
	EventMessageUpdated:              tagged.As[MessageUpdated, Event],
	EventMessageRemoved:              tagged.As[MessageRemoved, Event],
	EventMessagePartUpdated:          tagged.As[MessagePartUpdated, Event],
	EventMessagePartRemoved:          tagged.As[MessagePartRemoved, Event],
	EventPermissionUpdated:           tagged.As[PermissionUpdated, Event],
	EventPermissionReplied:           tagged.As[PermissionReplied, Event],
	EventTodoUpdated:                 tagged.As[TodoUpdated, Event],
	EventCommandExecuted:             tagged.As[CommandExecuted, Event],
	EventServerConnected:             tagged.As[ServerConnected, Event],
	EventInstallationUpdated:         tagged.As[InstallationUpdated, Event],
	EventInstallationUpdateAvailable: tagged.As[InstallationUpdateAvailable, Event],
	EventLspClientDiagnostics:        tagged.As[LspClientDiagnostics, Event],
	EventLspUpdated:                  tagged.As[LspUpdated, Event],
	EventFileEdited:                  tagged.As[FileEdited, Event],
	EventFileWatcherUpdated:          tagged.As[FileWatcherUpdated, Event],
}

// Types returns every event type, sorted.
func Types() []string {
	return sortedKeys(eventDecoders)
}

// wireEvent is the {"type","properties"} envelope.
type wireEvent struct {
	Type       string `json:"type"`
	Properties any    `json:"properties"`
}

// ParseEvent decodes a {"type","properties"} event.
func ParseEvent(data []byte) (Event, error) {
	var env struct {
		Type       string          `json:"type"`
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse event envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("failed to parse event: %w", tagged.ErrMissingTag)
	}
	dec, ok := eventDecoders[env.Type]
	if !ok {
		return nil, &tagged.UnknownTagError{Key: "type", Tag: env.Type}
	}
	props := env.Properties
	if len(props) == 0 || string(props) == "null" {
		props = json.RawMessage("{}")
	}
	e, err := dec(props)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s properties: %w", env.Type, err)
	}
	return e, nil
}

// MarshalEvent encodes e in its {"type","properties"} envelope.
func MarshalEvent(e Event) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("marshal event: nil")
	}
	b, err := json.Marshal(wireEvent{Type: e.EventType(), Properties: e})
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
