package opencode

import (
	"encoding/json"
	"fmt"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// Session represents a conversation session with the LLM.
type Session struct {
	ParentID  *string     `json:"parentID,omitempty"`
	ID        string      `json:"id"`
	ProjectID string      `json:"projectID"`
	Directory string      `json:"directory"`
	Title     string      `json:"title"`
	Version   string      `json:"version"`
	Time      SessionTime `json:"time"`
}

// SessionTime contains timestamps for a session.
type SessionTime struct {
	Compacting *int64 `json:"compacting,omitempty"`
	Created    int64  `json:"created"`
	Updated    int64  `json:"updated"`
}

// Message represents either a user or assistant message in a conversation.
type Message struct {
	Finish     *string       `json:"finish,omitempty"`
	Tokens     *TokenUsage   `json:"tokens,omitempty"`
	Error      *MessageError `json:"error,omitempty"`
	ID         string        `json:"id"`
	SessionID  string        `json:"sessionID"`
	Role       string        `json:"role"`
	ParentID   string        `json:"parentID,omitempty"`
	ModelID    string        `json:"modelID,omitempty"`
	ProviderID string        `json:"providerID,omitempty"`
	Mode       string        `json:"mode,omitempty"`
	Agent      string        `json:"agent,omitempty"`
	Time       MessageTime   `json:"time"`
	Cost       float64       `json:"cost"`
}

// MessageTime contains timestamps for a message.
type MessageTime struct {
	Completed *int64 `json:"completed,omitempty"`
	Created   int64  `json:"created"`
}

// TokenUsage contains token usage statistics for a message.
type TokenUsage struct {
	Input     int        `json:"input"`
	Output    int        `json:"output"`
	Reasoning int        `json:"reasoning"`
	Cache     CacheUsage `json:"cache"`
}

// CacheUsage contains cache hit/write statistics.
type CacheUsage struct {
	Read  int `json:"read"`
	Write int `json:"write"`
}

// MessageError represents an error that occurred during message processing.
// Format: {"name": "UnknownError", "data": {"message": "..."}}
type MessageError struct {
	Name string           `json:"name"` // "UnknownError" | "ProviderAuthError" | "MessageOutputLengthError"
	Data MessageErrorData `json:"data"`
}

// MessageErrorData contains the error details.
type MessageErrorData struct {
	Message    string `json:"message"`
	ProviderID string `json:"providerID,omitempty"` // For ProviderAuthError
}

// NewUnknownError creates a new UnknownError.
func NewUnknownError(message string) *MessageError {
	return &MessageError{
		Name: "UnknownError",
		Data: MessageErrorData{Message: message},
	}
}

// Part types, the "type" discriminant of a Part.
const (
	PartTypeText       = "text"
	PartTypeReasoning  = "reasoning"
	PartTypeTool       = "tool"
	PartTypeFile       = "file"
	PartTypeStepStart  = "step-start"
	PartTypeStepFinish = "step-finish"
	PartTypeSnapshot   = "snapshot"
	PartTypePatch      = "patch"
	PartTypeAgent      = "agent"
	PartTypeRetry      = "retry"
	PartTypeCompaction = "compaction"
)

// Tool states.
const (
	ToolStatePending   = "pending"
	ToolStateRunning   = "running"
	ToolStateCompleted = "completed"
	ToolStateError     = "error"
)

// Part is a component of a message.
type Part interface {
	PartType() string
	PartID() string
	Ref() PartRef
	isPart()
}

// PartRef identifies a part and the message and session it belongs to.
type PartRef struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionID"`
	MessageID string `json:"messageID"`
}

// PartID returns the part id.
func (r PartRef) PartID() string { return r.ID }

// Ref returns r.
func (r PartRef) Ref() PartRef { return r }

// PartTime contains timing information for a message part.
type PartTime struct {
	Start *int64 `json:"start,omitempty"`
	End   *int64 `json:"end,omitempty"`
}

// TextPart represents a text content part.
type TextPart struct {
	PartRef
	Time      *PartTime `json:"time,omitempty"`
	Text      string    `json:"text"`
	Synthetic bool      `json:"synthetic,omitempty"`
}

// ReasoningPart represents extended thinking/reasoning content.
type ReasoningPart struct {
	PartRef
	Time *PartTime `json:"time,omitempty"`
	Text string    `json:"text"`
}

// ToolPart represents a tool call and its result.
type ToolPart struct {
	PartRef
	Output     *string         `json:"output,omitempty"`
	Error      *string         `json:"error,omitempty"`
	Title      *string         `json:"title,omitempty"`
	Time       *PartTime       `json:"time,omitempty"`
	ToolCallID string          `json:"toolCallID"`
	ToolName   string          `json:"toolName"`
	State      string          `json:"state"` // "pending" | "running" | "completed" | "error"
	Input      json.RawMessage `json:"input"`
}

// FilePart represents a file attachment.
type FilePart struct {
	PartRef
	Filename  string `json:"filename,omitempty"`
	MediaType string `json:"mediaType"`
	URL       string `json:"url"`
}

// StepStartPart marks the start of an LLM step.
type StepStartPart struct {
	PartRef
	Snapshot *string `json:"snapshot,omitempty"`
}

// StepFinishPart marks the end of an LLM step.
type StepFinishPart struct {
	PartRef
	Snapshot *string     `json:"snapshot,omitempty"`
	Tokens   *TokenUsage `json:"tokens,omitempty"`
	Reason   string      `json:"reason"`
	Cost     float64     `json:"cost"`
}

// SnapshotPart records a workspace snapshot.
type SnapshotPart struct {
	PartRef
	Snapshot string `json:"snapshot"`
}

// PatchPart records the files a step changed.
type PatchPart struct {
	PartRef
	Hash  string   `json:"hash"`
	Files []string `json:"files"`
}

// AgentPart records a switch to a named agent.
type AgentPart struct {
	PartRef
	Name string `json:"name"`
}

// RetryPart records a retried provider request.
type RetryPart struct {
	PartRef
	Error   MessageError `json:"error"`
	Attempt int          `json:"attempt"`
}

// CompactionPart marks a context compaction.
type CompactionPart struct {
	PartRef
	Auto bool `json:"auto"`
}

func (TextPart) PartType() string       { return PartTypeText }
func (ReasoningPart) PartType() string  { return PartTypeReasoning }
func (ToolPart) PartType() string       { return PartTypeTool }
func (FilePart) PartType() string       { return PartTypeFile }
func (StepStartPart) PartType() string  { return PartTypeStepStart }
func (StepFinishPart) PartType() string { return PartTypeStepFinish }
func (SnapshotPart) PartType() string   { return PartTypeSnapshot }
func (PatchPart) PartType() string      { return PartTypePatch }
func (AgentPart) PartType() string      { return PartTypeAgent }
func (RetryPart) PartType() string      { return PartTypeRetry }
func (CompactionPart) PartType() string { return PartTypeCompaction }

func (TextPart) isPart()       {}
func (ReasoningPart) isPart()  {}
func (ToolPart) isPart()       {}
func (FilePart) isPart()       {}
func (StepStartPart) isPart()  {}
func (StepFinishPart) isPart() {}
func (SnapshotPart) isPart()   {}
func (PatchPart) isPart()      {}
func (AgentPart) isPart()      {}
func (RetryPart) isPart()      {}
func (CompactionPart) isPart() {}

func (p TextPart) MarshalJSON() ([]byte, error) {
	type alias TextPart
	return tagged.Marshal("type", PartTypeText, alias(p))
}

func (p ReasoningPart) MarshalJSON() ([]byte, error) {
	type alias ReasoningPart
	return tagged.Marshal("type", PartTypeReasoning, alias(p))
}

func (p ToolPart) MarshalJSON() ([]byte, error) {
	type alias ToolPart
	if p.Input == nil {
		p.Input = json.RawMessage("{}")
	}
	return tagged.Marshal("type", PartTypeTool, alias(p))
}

func (p FilePart) MarshalJSON() ([]byte, error) {
	type alias FilePart
	return tagged.Marshal("type", PartTypeFile, alias(p))
}

func (p StepStartPart) MarshalJSON() ([]byte, error) {
	type alias StepStartPart
	return tagged.Marshal("type", PartTypeStepStart, alias(p))
}

func (p StepFinishPart) MarshalJSON() ([]byte, error) {
	type alias StepFinishPart
	return tagged.Marshal("type", PartTypeStepFinish, alias(p))
}

func (p SnapshotPart) MarshalJSON() ([]byte, error) {
	type alias SnapshotPart
	return tagged.Marshal("type", PartTypeSnapshot, alias(p))
}

func (p PatchPart) MarshalJSON() ([]byte, error) {
	type alias PatchPart
	return tagged.Marshal("type", PartTypePatch, alias(p))
}

func (p AgentPart) MarshalJSON() ([]byte, error) {
	type alias AgentPart
	return tagged.Marshal("type", PartTypeAgent, alias(p))
}

func (p RetryPart) MarshalJSON() ([]byte, error) {
	type alias RetryPart
	return tagged.Marshal("type", PartTypeRetry, alias(p))
}

func (p CompactionPart) MarshalJSON() ([]byte, error) {
	type alias CompactionPart
	return tagged.Marshal("type", PartTypeCompaction, alias(p))
}

var partDecoders = map[string]func([]byte) (Part, error){
	PartTypeText:       tagged.As[TextPart, Part],
	PartTypeReasoning:  tagged.As[ReasoningPart, Part],
	PartTypeTool:       tagged.As[ToolPart, Part],
	PartTypeFile:       tagged.As[FilePart, Part],
	PartTypeStepStart:  tagged.As[StepStartPart, Part],
	PartTypeStepFinish: tagged.As[StepFinishPart, Part],
	PartTypeSnapshot:   tagged.As[SnapshotPart, Part],
	PartTypePatch:      tagged.As[PatchPart, Part],
	PartTypeAgent:      tagged.As[AgentPart, Part],
	PartTypeRetry:      tagged.As[RetryPart, Part],
	PartTypeCompaction: tagged.As[CompactionPart, Part],
}

// PartTypes returns every part type, sorted.
func PartTypes() []string {
	return sortedKeys(partDecoders)
}

// UnmarshalPart unmarshals a JSON part into the appropriate type.
func UnmarshalPart(data []byte) (Part, error) {
	p, err := tagged.Decode(data, "type", partDecoders)
	if err != nil {
		return nil, fmt.Errorf("unmarshal part: %w", err)
	}
	return p, nil
}
