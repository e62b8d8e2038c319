package codex

import (
	"encoding/json"
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// Item types, the "type" discriminant of a ThreadItem.
const (
	ItemTypeUserMessage         = "userMessage"
	ItemTypeAgentMessage        = "agentMessage"
	ItemTypeReasoning           = "reasoning"
	ItemTypeCommandExecution    = "commandExecution"
	ItemTypeFileChange          = "fileChange"
	ItemTypeMcpToolCall         = "mcpToolCall"
	ItemTypeCollabAgentToolCall = "collabAgentToolCall"
	ItemTypeWebSearch           = "webSearch"
	ItemTypeImageView           = "imageView"
	ItemTypeEnteredReviewMode   = "enteredReviewMode"
	ItemTypeExitedReviewMode    = "exitedReviewMode"
)

// ThreadItem is one unit of content within a turn.
type ThreadItem interface {
	ItemType() string
	ItemID() string
	isThreadItem()
}

// UserMessageItem is input authored by the user.
type UserMessageItem struct {
	ID      string     `json:"id"`
	Content UserInputs `json:"content"`
}

// AgentMessageItem is assistant text.
type AgentMessageItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ReasoningItem is model reasoning, with optional summaries.
type ReasoningItem struct {
	ID      string   `json:"id"`
	Summary []string `json:"summary"`
	Content []string `json:"content"`
}

// CommandExecutionItem is a shell command run by the agent.
type CommandExecutionItem struct {
	AggregatedOutput *string                `json:"aggregatedOutput,omitempty"`
	ExitCode         *int32                 `json:"exitCode,omitempty"`
	DurationMs       *int64                 `json:"durationMs,omitempty"`
	ProcessID        *string                `json:"processId,omitempty"`
	ID               string                 `json:"id"`
	Command          string                 `json:"command"`
	Cwd              string                 `json:"cwd"`
	Status           CommandExecutionStatus `json:"status"`
	CommandActions   []json.RawMessage      `json:"commandActions"`
}

// FileChangeItem is a patch applied to one or more files.
type FileChangeItem struct {
	ID      string             `json:"id"`
	Status  PatchApplyStatus   `json:"status"`
	Changes []FileUpdateChange `json:"changes"`
}

// FileUpdateChange is the change to a single file.
type FileUpdateChange struct {
	Path string          `json:"path"`
	Kind PatchChangeKind `json:"kind"`
	Diff string          `json:"diff"`
}

// PatchChangeKind is "add", "delete" or "update"; updates may move the file.
type PatchChangeKind struct {
	MovePath *string `json:"movePath,omitempty"`
	Type     string  `json:"type"`
}

// McpToolCallItem is a call to a tool on an MCP server.
type McpToolCallItem struct {
	Result     *McpToolCallResult `json:"result,omitempty"`
	Error      *McpToolCallError  `json:"error,omitempty"`
	DurationMs *int64             `json:"durationMs,omitempty"`
	ID         string             `json:"id"`
	Server     string             `json:"server"`
	Tool       string             `json:"tool"`
	Status     McpToolCallStatus  `json:"status"`
	Arguments  json.RawMessage    `json:"arguments"`
}

// McpToolCallResult is the tool's successful response.
type McpToolCallResult struct {
	StructuredContent json.RawMessage   `json:"structuredContent,omitempty"`
	Content           []json.RawMessage `json:"content"`
}

// McpToolCallError is the tool's failure.
type McpToolCallError struct {
	Message string `json:"message"`
}

// CollabAgentToolCallItem is a call between collaborating agent threads.
type CollabAgentToolCallItem struct {
	Prompt            *string                   `json:"prompt,omitempty"`
	ID                string                    `json:"id"`
	Tool              CollabAgentTool           `json:"tool"`
	Status            CollabAgentToolCallStatus `json:"status"`
	SenderThreadID    string                    `json:"senderThreadId"`
	ReceiverThreadIDs []string                  `json:"receiverThreadIds"`
	AgentsStates      json.RawMessage           `json:"agentsStates,omitempty"`
}

// WebSearchItem is a web search query.
type WebSearchItem struct {
	ID    string `json:"id"`
	Query string `json:"query"`
}

// ImageViewItem is an image the agent looked at.
type ImageViewItem struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// EnteredReviewModeItem marks the start of a review.
type EnteredReviewModeItem struct {
	ID     string `json:"id"`
	Review string `json:"review"`
}

// ExitedReviewModeItem marks the end of a review.
type ExitedReviewModeItem struct {
	ID     string `json:"id"`
	Review string `json:"review"`
}

func (UserMessageItem) ItemType() string         { return ItemTypeUserMessage }
func (AgentMessageItem) ItemType() string        { return ItemTypeAgentMessage }
func (ReasoningItem) ItemType() string           { return ItemTypeReasoning }
func (CommandExecutionItem) ItemType() string    { return ItemTypeCommandExecution }
func (FileChangeItem) ItemType() string          { return ItemTypeFileChange }
func (McpToolCallItem) ItemType() string         { return ItemTypeMcpToolCall }
func (CollabAgentToolCallItem) ItemType() string { return ItemTypeCollabAgentToolCall }
func (WebSearchItem) ItemType() string           { return ItemTypeWebSearch }
func (ImageViewItem) ItemType() string           { return ItemTypeImageView }
func (EnteredReviewModeItem) ItemType() string   { return ItemTypeEnteredReviewMode }
func (ExitedReviewModeItem) ItemType() string    { return ItemTypeExitedReviewMode }

func (i UserMessageItem) ItemID() string         { return i.ID }
func (i AgentMessageItem) ItemID() string        { return i.ID }
func (i ReasoningItem) ItemID() string           { return i.ID }
func (i CommandExecutionItem) ItemID() string    { return i.ID }
func (i FileChangeItem) ItemID() string          { return i.ID }
func (i McpToolCallItem) ItemID() string         { return i.ID }
func (i CollabAgentToolCallItem) ItemID() string { return i.ID }
func (i WebSearchItem) ItemID() string           { return i.ID }
func (i ImageViewItem) ItemID() string           { return i.ID }
func (i EnteredReviewModeItem) ItemID() string   { return i.ID }
func (i ExitedReviewModeItem) ItemID() string    { return i.ID }

func (UserMessageItem) isThreadItem()         {}
func (AgentMessageItem) isThreadItem()        {}
func (ReasoningItem) isThreadItem()           {}
func (CommandExecutionItem) isThreadItem()    {}
func (FileChangeItem) isThreadItem()          {}
func (McpToolCallItem) isThreadItem()         {}
func (CollabAgentToolCallItem) isThreadItem() {}
func (WebSearchItem) isThreadItem()           {}
func (ImageViewItem) isThreadItem()           {}
func (EnteredReviewModeItem) isThreadItem()   {}
func (ExitedReviewModeItem) isThreadItem()    {}

func (i UserMessageItem) MarshalJSON() ([]byte, error) {
	type alias UserMessageItem
	return tagged.Marshal("type", ItemTypeUserMessage, alias(i))
}

func (i AgentMessageItem) MarshalJSON() ([]byte, error) {
	type alias AgentMessageItem
	return tagged.Marshal("type", ItemTypeAgentMessage, alias(i))
}

func (i ReasoningItem) MarshalJSON() ([]byte, error) {
	type alias ReasoningItem
	return tagged.Marshal("type", ItemTypeReasoning, alias(i))
}

func (i CommandExecutionItem) MarshalJSON() ([]byte, error) {
	type alias CommandExecutionItem
	return tagged.Marshal("type", ItemTypeCommandExecution, alias(i))
}

func (i FileChangeItem) MarshalJSON() ([]byte, error) {
	type alias FileChangeItem
	return tagged.Marshal("type", ItemTypeFileChange, alias(i))
}

func (i McpToolCallItem) MarshalJSON() ([]byte, error) {
	type alias McpToolCallItem
	return tagged.Marshal("type", ItemTypeMcpToolCall, alias(i))
}

func (i CollabAgentToolCallItem) MarshalJSON() ([]byte, error) {
	type alias CollabAgentToolCallItem
	return tagged.Marshal("type", ItemTypeCollabAgentToolCall, alias(i))
}

func (i WebSearchItem) MarshalJSON() ([]byte, error) {
	type alias WebSearchItem
	return tagged.Marshal("type", ItemTypeWebSearch, alias(i))
}

func (i ImageViewItem) MarshalJSON() ([]byte, error) {
	type alias ImageViewItem
	return tagged.Marshal("type", ItemTypeImageView, alias(i))
}

func (i EnteredReviewModeItem) MarshalJSON() ([]byte, error) {
	type alias EnteredReviewModeItem
	return tagged.Marshal("type", ItemTypeEnteredReviewMode, alias(i))
}

func (i ExitedReviewModeItem) MarshalJSON() ([]byte, error) {
	type alias ExitedReviewModeItem
	return tagged.Marshal("type", ItemTypeExitedReviewMode, alias(i))
}

var itemDecoders = map[string]func([]byte) (ThreadItem, error){
	ItemTypeUserMessage:         tagged.As[UserMessageItem, ThreadItem],
	ItemTypeAgentMessage:        tagged.As[AgentMessageItem, ThreadItem],
	ItemTypeReasoning:           tagged.As[ReasoningItem, ThreadItem],
	ItemTypeCommandExecution:    tagged.As[CommandExecutionItem, ThreadItem],
	ItemTypeFileChange:          tagged.As[FileChangeItem, ThreadItem],
	ItemTypeMcpToolCall:         tagged.As[McpToolCallItem, ThreadItem],
	ItemTypeCollabAgentToolCall: tagged.As[CollabAgentToolCallItem, ThreadItem],
	ItemTypeWebSearch:           tagged.As[WebSearchItem, ThreadItem],
	ItemTypeImageView:           tagged.As[ImageViewItem, ThreadItem],
	ItemTypeEnteredReviewMode:   tagged.As[EnteredReviewModeItem, ThreadItem],
	ItemTypeExitedReviewMode:    tagged.As[ExitedReviewModeItem, ThreadItem],
}

// ItemTypes returns every ThreadItem discriminant, sorted.
func ItemTypes() []string {
	return sortedKeys(itemDecoders)
}

// ParseThreadItem decodes a tagged thread item.
func ParseThreadItem(data []byte) (ThreadItem, error) {
	return tagged.Decode(data, "type", itemDecoders)
}

// ThreadItems is a list of items that decodes each element by its tag.
type ThreadItems []ThreadItem

// UnmarshalJSON implements json.Unmarshaler.
func (s *ThreadItems) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	if raws == nil {
		*s = nil
		return nil
	}
	items := make(ThreadItems, 0, len(raws))
	for i, raw := range raws {
		item, err := ParseThreadItem(raw)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	*s = items
	return nil
}

// User input types, the "type" discriminant of a UserInput.
const (
	UserInputTypeText       = "text"
	UserInputTypeImage      = "image"
	UserInputTypeLocalImage = "localImage"
	UserInputTypeSkill      = "skill"
)

// UserInput is one element of a user message.
type UserInput interface {
	InputType() string
	isUserInput()
}

// TextInput is typed text.
type TextInput struct {
	Text         string            `json:"text"`
	TextElements []json.RawMessage `json:"textElements"`
}

// ImageInput is an image referenced by URL.
type ImageInput struct {
	ImageURL string `json:"imageUrl"`
}

// LocalImageInput is an image on the local filesystem.
type LocalImageInput struct {
	Path string `json:"path"`
}

// SkillInput references a named skill.
type SkillInput struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func (TextInput) InputType() string       { return UserInputTypeText }
func (ImageInput) InputType() string      { return UserInputTypeImage }
func (LocalImageInput) InputType() string { return UserInputTypeLocalImage }
func (SkillInput) InputType() string      { return UserInputTypeSkill }

func (TextInput) isUserInput()       {}
func (ImageInput) isUserInput()      {}
func (LocalImageInput) isUserInput() {}
func (SkillInput) isUserInput()      {}

func (i TextInput) MarshalJSON() ([]byte, error) {
	type alias TextInput
	return tagged.Marshal("type", UserInputTypeText, alias(i))
}

func (i ImageInput) MarshalJSON() ([]byte, error) {
	type alias ImageInput
	return tagged.Marshal("type", UserInputTypeImage, alias(i))
}

func (i LocalImageInput) MarshalJSON() ([]byte, error) {
	type alias LocalImageInput
	return tagged.Marshal("type", UserInputTypeLocalImage, alias(i))
}

func (i SkillInput) MarshalJSON() ([]byte, error) {
	type alias SkillInput
	return tagged.Marshal("type", UserInputTypeSkill, alias(i))
}

var userInputDecoders = map[string]func([]byte) (UserInput, error){
	UserInputTypeText:       tagged.As[TextInput, UserInput],
	UserInputTypeImage:      tagged.As[ImageInput, UserInput],
	UserInputTypeLocalImage: tagged.As[LocalImageInput, UserInput],
	UserInputTypeSkill:      tagged.As[SkillInput, UserInput],
}

// UserInputs is a list of user inputs that decodes each element by its tag.
type UserInputs []UserInput

// UnmarshalJSON implements json.Unmarshaler.
func (s *UserInputs) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	if raws == nil {
		*s = nil
		return nil
	}
	inputs := make(UserInputs, 0, len(raws))
	for i, raw := range raws {
		in, err := tagged.Decode(raw, "type", userInputDecoders)
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		inputs = append(inputs, in)
	}
	*s = inputs
	return nil
}

// CommandExecutionStatus is the lifecycle state of a command.
type CommandExecutionStatus string

const (
	CommandExecutionInProgress CommandExecutionStatus = "inProgress"
	CommandExecutionCompleted  CommandExecutionStatus = "completed"
	CommandExecutionFailed     CommandExecutionStatus = "failed"
	CommandExecutionDeclined   CommandExecutionStatus = "declined"
)

// String returns the variant name, e.g. "Completed".
func (s CommandExecutionStatus) String() string { return variantName(string(s)) }

// PatchApplyStatus is the lifecycle state of a file change.
type PatchApplyStatus string

const (
	PatchApplyInProgress PatchApplyStatus = "inProgress"
	PatchApplyCompleted  PatchApplyStatus = "completed"
	PatchApplyFailed     PatchApplyStatus = "failed"
	PatchApplyDeclined   PatchApplyStatus = "declined"
)

// String returns the variant name.
func (s PatchApplyStatus) String() string { return variantName(string(s)) }

// McpToolCallStatus is the lifecycle state of an MCP tool call.
type McpToolCallStatus string

const (
	McpToolCallInProgress McpToolCallStatus = "inProgress"
	McpToolCallCompleted  McpToolCallStatus = "completed"
	McpToolCallFailed     McpToolCallStatus = "failed"
)

// String returns the variant name.
func (s McpToolCallStatus) String() string { return variantName(string(s)) }

// CollabAgentTool names the collaboration operation.
type CollabAgentTool string

const (
	CollabAgentToolSpawnAgent CollabAgentTool = "spawnAgent"
	CollabAgentToolSendInput  CollabAgentTool = "sendInput"
	CollabAgentToolWait       CollabAgentTool = "wait"
	CollabAgentToolCloseAgent CollabAgentTool = "closeAgent"
)

// String returns the variant name.
func (t CollabAgentTool) String() string { return variantName(string(t)) }

// CollabAgentToolCallStatus is the lifecycle state of a collaboration call.
type CollabAgentToolCallStatus string

const (
	CollabAgentToolCallInProgress CollabAgentToolCallStatus = "inProgress"
	CollabAgentToolCallCompleted  CollabAgentToolCallStatus = "completed"
	CollabAgentToolCallFailed     CollabAgentToolCallStatus = "failed"
)

// String returns the variant name.
func (s CollabAgentToolCallStatus) String() string { return variantName(string(s)) }

// variantName turns a wire value like "inProgress" into "InProgress".
func variantName(wire string) string {
	r, size := utf8.DecodeRuneInString(wire)
	if r == utf8.RuneError {
		return wire
	}
	return string(unicode.ToUpper(r)) + wire[size:]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
