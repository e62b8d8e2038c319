package claude

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// Message types, the "type" discriminant of a stream-json line.
const (
	TypeSystem               = "system"
	TypeAssistant            = "assistant"
	TypeUser                 = "user"
	TypeResult               = "result"
	TypeStreamEvent          = "stream_event"
	TypeControlRequest       = "control_request"
	TypeControlResponse      = "control_response"
	TypeControlCancelRequest = "control_cancel_request"
	TypeAuthStatus           = "auth_status"
)

// SubtypeInit is the subtype of the system message that opens a session.
const SubtypeInit = "init"

// SubtypeErrorDuringExecution is the result subtype for a failed turn.
const SubtypeErrorDuringExecution = "error_during_execution"

// Notification is one line of the Claude Code stream-json output.
type Notification interface {
	MsgType() string
	isNotification()
}

// MCPServer represents an MCP server connection.
type MCPServer struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// SystemMessage represents session initialization and system events.
type SystemMessage struct {
	Subtype           string      `json:"subtype"`
	SessionID         string      `json:"session_id"`
	UUID              string      `json:"uuid,omitempty"`
	Model             string      `json:"model,omitempty"`
	CWD               string      `json:"cwd,omitempty"`
	PermissionMode    string      `json:"permissionMode,omitempty"`
	ClaudeCodeVersion string      `json:"claude_code_version,omitempty"`
	APIKeySource      string      `json:"apiKeySource,omitempty"`
	OutputStyle       string      `json:"output_style,omitempty"`
	Tools             []string    `json:"tools,omitempty"`
	SlashCommands     []string    `json:"slash_commands,omitempty"`
	Agents            []string    `json:"agents,omitempty"`
	MCPServers        []MCPServer `json:"mcp_servers,omitempty"`
}

// Usage tracks token usage.
type Usage struct {
	InputTokens              int `json:"input_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	OutputTokens             int `json:"output_tokens"`
}

// MessageContent is the inner content of assistant/user messages.
type MessageContent struct {
	StopReason *string         `json:"stop_reason,omitempty"`
	Usage      *Usage          `json:"usage,omitempty"`
	ID         string          `json:"id,omitempty"`
	Type       string          `json:"type,omitempty"`
	Model      string          `json:"model,omitempty"`
	Role       string          `json:"role"`
	Content    FlexibleContent `json:"content"`
}

// AssistantMessage is a complete message from Claude.
type AssistantMessage struct {
	ParentToolUseID *string        `json:"parent_tool_use_id"`
	SessionID       string         `json:"session_id"`
	UUID            string         `json:"uuid,omitempty"`
	Message         MessageContent `json:"message"`
}

// UserMessage is user input, including tool results echoed back.
type UserMessage struct {
	ParentToolUseID *string        `json:"parent_tool_use_id"`
	SessionID       string         `json:"session_id"`
	UUID            string         `json:"uuid,omitempty"`
	Message         MessageContent `json:"message"`
}

// ResultMessage contains turn completion metrics.
type ResultMessage struct {
	Usage         json.RawMessage `json:"usage,omitempty"`
	Subtype       string          `json:"subtype"`
	SessionID     string          `json:"session_id"`
	UUID          string          `json:"uuid,omitempty"`
	Result        string          `json:"result"`
	TotalCostUSD  float64         `json:"total_cost_usd"`
	NumTurns      int             `json:"num_turns"`
	DurationAPIMs int64           `json:"duration_api_ms"`
	DurationMs    int64           `json:"duration_ms"`
	IsError       bool            `json:"is_error"`
}

// StreamEvent wraps a partial-message update. Event holds the inner
// Anthropic streaming event; see ParseStreamEvent.
type StreamEvent struct {
	ParentToolUseID *string         `json:"parent_tool_use_id"`
	SessionID       string          `json:"session_id"`
	UUID            string          `json:"uuid,omitempty"`
	Event           json.RawMessage `json:"event"`
}

// ControlRequest is a request from the CLI to its host, such as a
// permission prompt.
type ControlRequest struct {
	RequestID string          `json:"request_id"`
	Request   json.RawMessage `json:"request"`
}

// ControlResponse answers a control request.
type ControlResponse struct {
	Response json.RawMessage `json:"response"`
}

// ControlCancelRequest withdraws a pending control request.
type ControlCancelRequest struct {
	RequestID string `json:"request_id"`
}

// AuthStatus reports progress of an interactive login.
type AuthStatus struct {
	Error            *string  `json:"error,omitempty"`
	SessionID        string   `json:"session_id"`
	UUID             string   `json:"uuid,omitempty"`
	Output           []string `json:"output"`
	IsAuthenticating bool     `json:"isAuthenticating"`
}

func (SystemMessage) MsgType() string        { return TypeSystem }
func (AssistantMessage) MsgType() string     { return TypeAssistant }
func (UserMessage) MsgType() string          { return TypeUser }
func (ResultMessage) MsgType() string        { return TypeResult }
func (StreamEvent) MsgType() string          { return TypeStreamEvent }
func (ControlRequest) MsgType() string       { return TypeControlRequest }
func (ControlResponse) MsgType() string      { return TypeControlResponse }
func (ControlCancelRequest) MsgType() string { return TypeControlCancelRequest }
func (AuthStatus) MsgType() string           { return TypeAuthStatus }

func (SystemMessage) isNotification()        {}
func (AssistantMessage) isNotification()     {}
func (UserMessage) isNotification()          {}
func (ResultMessage) isNotification()        {}
func (StreamEvent) isNotification()          {}
func (ControlRequest) isNotification()       {}
func (ControlResponse) isNotification()      {}
func (ControlCancelRequest) isNotification() {}
func (AuthStatus) isNotification()           {}

func (m SystemMessage) MarshalJSON() ([]byte, error) {
	type alias SystemMessage
	return tagged.Marshal("type", TypeSystem, alias(m))
}

func (m AssistantMessage) MarshalJSON() ([]byte, error) {
	type alias AssistantMessage
	return tagged.Marshal("type", TypeAssistant, alias(m))
}

func (m UserMessage) MarshalJSON() ([]byte, error) {
	type alias UserMessage
	return tagged.Marshal("type", TypeUser, alias(m))
}

func (m ResultMessage) MarshalJSON() ([]byte, error) {
	type alias ResultMessage
	return tagged.Marshal("type", TypeResult, alias(m))
}

func (m StreamEvent) MarshalJSON() ([]byte, error) {
	type alias StreamEvent
	if m.Event == nil {
		m.Event = json.RawMessage("null")
	}
	return tagged.Marshal("type", TypeStreamEvent, alias(m))
}

func (m ControlRequest) MarshalJSON() ([]byte, error) {
	type alias ControlRequest
	if m.Request == nil {
		m.Request = json.RawMessage("null")
	}
	return tagged.Marshal("type", TypeControlRequest, alias(m))
}

func (m ControlResponse) MarshalJSON() ([]byte, error) {
	type alias ControlResponse
	if m.Response == nil {
		m.Response = json.RawMessage("null")
	}
	return tagged.Marshal("type", TypeControlResponse, alias(m))
}

func (m ControlCancelRequest) MarshalJSON() ([]byte, error) {
	type alias ControlCancelRequest
	return tagged.Marshal("type", TypeControlCancelRequest, alias(m))
}

func (m AuthStatus) MarshalJSON() ([]byte, error) {
	type alias AuthStatus
	return tagged.Marshal("type", TypeAuthStatus, alias(m))
}

var notificationDecoders = map[string]func([]byte) (Notification, error){
	TypeSystem:               tagged.As[SystemMessage, Notification],
	TypeAssistant:            tagged.As[AssistantMessage, Notification],
	TypeUser:                 tagged.As[UserMessage, Notification],
	TypeResult:               tagged.As[ResultMessage, Notification],
	TypeStreamEvent:          tagged.As[StreamEvent, Notification],
	TypeControlRequest:       tagged.As[ControlRequest, Notification],
	TypeControlResponse:      tagged.As[ControlResponse, Notification],
	TypeControlCancelRequest: tagged.As[ControlCancelRequest, Notification],
	TypeAuthStatus:           tagged.As[AuthStatus, Notification],
}

// Types returns every message type, sorted.
func Types() []string {
	types := make([]string, 0, len(notificationDecoders))
	for t := range notificationDecoders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ParseNotification decodes one stream-json line.
func ParseNotification(data []byte) (Notification, error) {
	n, err := tagged.Decode(data, "type", notificationDecoders)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return n, nil
}

// MarshalNotification encodes n as a stream-json line.
func MarshalNotification(n Notification) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("marshal message: nil")
	}
	b, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", n.MsgType(), err)
	}
	return b, nil
}
