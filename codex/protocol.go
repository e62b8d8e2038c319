package codex

import (
	"encoding/json"
	"fmt"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// Notification methods sent by the Codex app-server.
const (
	// Thread and turn lifecycle.
	NotifyThreadStarted = "thread/started"
	NotifyTurnStarted   = "turn/started"
	NotifyTurnCompleted = "turn/completed"

	// Item lifecycle.
	NotifyItemStarted   = "item/started"
	NotifyItemCompleted = "item/completed"

	// Streaming deltas.
	NotifyAgentMessageDelta           = "item/agentMessage/delta"
	NotifyReasoningTextDelta          = "item/reasoning/textDelta"
	NotifyReasoningSummaryTextDelta   = "item/reasoning/summaryTextDelta"
	NotifyCommandExecutionOutputDelta = "item/commandExecution/outputDelta"
	NotifyFileChangeOutputDelta       = "item/fileChange/outputDelta"

	NotifyError = "error"

	// Thread-scoped updates with no universal equivalent.
	NotifyThreadTokenUsageUpdated   = "thread/tokenUsage/updated"
	NotifyTurnDiffUpdated           = "turn/diff/updated"
	NotifyTurnPlanUpdated           = "turn/plan/updated"
	NotifyTerminalInteraction       = "item/commandExecution/terminalInteraction"
	NotifyMcpToolCallProgress       = "item/mcpToolCall/progress"
	NotifyReasoningSummaryPartAdded = "item/reasoning/summaryPartAdded"
	NotifyThreadCompacted           = "thread/compacted"

	// Account, auth and configuration.
	NotifyAccountUpdated               = "account/updated"
	NotifyAccountRateLimitsUpdated     = "account/rateLimits/updated"
	NotifyAccountLoginCompleted        = "account/login/completed"
	NotifyMcpServerOauthLoginCompleted = "mcpServer/oauthLogin/completed"
	NotifyAuthStatusChange             = "authStatusChange"
	NotifyLoginChatGptComplete         = "loginChatGptComplete"
	NotifySessionConfigured            = "sessionConfigured"
	NotifyDeprecationNotice            = "deprecationNotice"
	NotifyConfigWarning                = "configWarning"
	NotifyWindowsWorldWritableWarning  = "windows/worldWritableWarning"
	NotifyRawResponseItemCompleted     = "rawResponseItem/completed"
)

// Notification is the params payload of one server notification. Variants
// are value types; Method returns the wire method that carries them.
type Notification interface {
	Method() string
	isNotification()
}

// Thread describes a conversation thread.
type Thread struct {
	Path          *string `json:"path,omitempty"`
	ID            string  `json:"id"`
	Preview       string  `json:"preview"`
	ModelProvider string  `json:"modelProvider"`
	Cwd           string  `json:"cwd"`
	CliVersion    string  `json:"cliVersion"`
	CreatedAt     int64   `json:"createdAt"`
}

// TurnStatus is the state of a turn.
type TurnStatus string

const (
	TurnStatusInProgress  TurnStatus = "inProgress"
	TurnStatusCompleted   TurnStatus = "completed"
	TurnStatusInterrupted TurnStatus = "interrupted"
	TurnStatusFailed      TurnStatus = "failed"
)

// Turn is one execution round within a thread.
type Turn struct {
	Error  *TurnError  `json:"error,omitempty"`
	ID     string      `json:"id"`
	Status TurnStatus  `json:"status"`
	Items  ThreadItems `json:"items"`
}

// TurnError describes why a turn failed.
type TurnError struct {
	AdditionalDetails *string         `json:"additionalDetails,omitempty"`
	Message           string          `json:"message"`
	CodexErrorInfo    json.RawMessage `json:"codexErrorInfo,omitempty"`
}

// ThreadStartedNotification is sent when a thread is created or resumed.
type ThreadStartedNotification struct {
	Thread Thread `json:"thread"`
}

// TurnStartedNotification is sent when a turn begins.
type TurnStartedNotification struct {
	ThreadID string `json:"threadId"`
	Turn     Turn   `json:"turn"`
}

// TurnCompletedNotification is sent when a turn ends, with all of its items.
type TurnCompletedNotification struct {
	ThreadID string `json:"threadId"`
	Turn     Turn   `json:"turn"`
}

// ItemStartedNotification is sent when an item begins.
type ItemStartedNotification struct {
	Item     ThreadItem `json:"item"`
	ThreadID string     `json:"threadId"`
	TurnID   string     `json:"turnId"`
}

// ItemCompletedNotification is sent when an item is final.
type ItemCompletedNotification struct {
	Item     ThreadItem `json:"item"`
	ThreadID string     `json:"threadId"`
	TurnID   string     `json:"turnId"`
}

// AgentMessageDeltaNotification streams agent message text.
type AgentMessageDeltaNotification struct {
	ThreadID string `json:"threadId"`
	TurnID   string `json:"turnId"`
	ItemID   string `json:"itemId"`
	Delta    string `json:"delta"`
}

// ReasoningTextDeltaNotification streams raw reasoning text.
type ReasoningTextDeltaNotification struct {
	ThreadID     string `json:"threadId"`
	TurnID       string `json:"turnId"`
	ItemID       string `json:"itemId"`
	Delta        string `json:"delta"`
	ContentIndex int64  `json:"contentIndex"`
}

// ReasoningSummaryTextDeltaNotification streams reasoning summary text.
type ReasoningSummaryTextDeltaNotification struct {
	ThreadID     string `json:"threadId"`
	TurnID       string `json:"turnId"`
	ItemID       string `json:"itemId"`
	Delta        string `json:"delta"`
	SummaryIndex int64  `json:"summaryIndex"`
}

// ReasoningSummaryPartAddedNotification announces a new summary section.
// It carries no text.
type ReasoningSummaryPartAddedNotification struct {
	ThreadID     string `json:"threadId"`
	TurnID       string `json:"turnId"`
	ItemID       string `json:"itemId"`
	SummaryIndex int64  `json:"summaryIndex"`
}

// CommandExecutionOutputDeltaNotification streams command output.
type CommandExecutionOutputDeltaNotification struct {
	ThreadID string `json:"threadId"`
	TurnID   string `json:"turnId"`
	ItemID   string `json:"itemId"`
	Delta    string `json:"delta"`
}

// TerminalInteractionNotification reports stdin written to a running command.
type TerminalInteractionNotification struct {
	ThreadID  string `json:"threadId"`
	TurnID    string `json:"turnId"`
	ItemID    string `json:"itemId"`
	ProcessID string `json:"processId"`
	Stdin     string `json:"stdin"`
}

// FileChangeOutputDeltaNotification streams patch application output.
type FileChangeOutputDeltaNotification struct {
	ThreadID string `json:"threadId"`
	TurnID   string `json:"turnId"`
	ItemID   string `json:"itemId"`
	Delta    string `json:"delta"`
}

// McpToolCallProgressNotification reports progress of an MCP tool call.
type McpToolCallProgressNotification struct {
	ThreadID string `json:"threadId"`
	TurnID   string `json:"turnId"`
	ItemID   string `json:"itemId"`
	Message  string `json:"message"`
}

// ErrorNotification reports a turn error.
type ErrorNotification struct {
	Error     TurnError `json:"error"`
	ThreadID  string    `json:"threadId"`
	TurnID    string    `json:"turnId"`
	WillRetry bool      `json:"willRetry"`
}

// TokenUsageBreakdown counts tokens by category.
type TokenUsageBreakdown struct {
	TotalTokens           int64 `json:"totalTokens"`
	InputTokens           int64 `json:"inputTokens"`
	CachedInputTokens     int64 `json:"cachedInputTokens"`
	OutputTokens          int64 `json:"outputTokens"`
	ReasoningOutputTokens int64 `json:"reasoningOutputTokens"`
}

// ThreadTokenUsage is cumulative and last-turn usage.
type ThreadTokenUsage struct {
	ModelContextWindow *int64              `json:"modelContextWindow,omitempty"`
	Total              TokenUsageBreakdown `json:"total"`
	Last               TokenUsageBreakdown `json:"last"`
}

// ThreadTokenUsageUpdatedNotification reports token usage.
type ThreadTokenUsageUpdatedNotification struct {
	ThreadID   string           `json:"threadId"`
	TurnID     string           `json:"turnId"`
	TokenUsage ThreadTokenUsage `json:"tokenUsage"`
}

// TurnDiffUpdatedNotification carries the aggregated diff of a turn.
type TurnDiffUpdatedNotification struct {
	ThreadID string `json:"threadId"`
	TurnID   string `json:"turnId"`
	Diff     string `json:"diff"`
}

// TurnPlanStep is one step of the agent's plan.
type TurnPlanStep struct {
	Step   string `json:"step"`
	Status string `json:"status"`
}

// TurnPlanUpdatedNotification carries the agent's current plan.
type TurnPlanUpdatedNotification struct {
	Explanation *string        `json:"explanation,omitempty"`
	ThreadID    string         `json:"threadId"`
	TurnID      string         `json:"turnId"`
	Plan        []TurnPlanStep `json:"plan"`
}

// ThreadCompactedNotification is sent after the context window is compacted.
type ThreadCompactedNotification struct {
	ThreadID string `json:"threadId"`
	TurnID   string `json:"turnId"`
}

// AccountUpdatedNotification reports a change of auth mode.
type AccountUpdatedNotification struct {
	AuthMode *string `json:"authMode,omitempty"`
}

// AccountRateLimitsUpdatedNotification reports rate limit state.
type AccountRateLimitsUpdatedNotification struct {
	RateLimits json.RawMessage `json:"rateLimits"`
}

// AccountLoginCompletedNotification reports the end of a login flow.
type AccountLoginCompletedNotification struct {
	LoginID *string `json:"loginId,omitempty"`
	Error   *string `json:"error,omitempty"`
	Success bool    `json:"success"`
}

// McpServerOauthLoginCompletedNotification reports the end of an MCP OAuth flow.
type McpServerOauthLoginCompletedNotification struct {
	Error   *string `json:"error,omitempty"`
	Name    string  `json:"name"`
	Success bool    `json:"success"`
}

// AuthStatusChangeNotification reports a new auth method.
type AuthStatusChangeNotification struct {
	AuthMethod *string `json:"authMethod,omitempty"`
}

// LoginChatGptCompleteNotification reports the end of a ChatGPT login.
type LoginChatGptCompleteNotification struct {
	Error   *string `json:"error,omitempty"`
	LoginID string  `json:"loginId"`
	Success bool    `json:"success"`
}

// SessionConfiguredNotification describes the configured session.
type SessionConfiguredNotification struct {
	ReasoningEffort   *string         `json:"reasoningEffort,omitempty"`
	SessionID         string          `json:"sessionId"`
	Model             string          `json:"model"`
	RolloutPath       string          `json:"rolloutPath"`
	InitialMessages   json.RawMessage `json:"initialMessages,omitempty"`
	HistoryLogID      int64           `json:"historyLogId"`
	HistoryEntryCount int64           `json:"historyEntryCount"`
}

// DeprecationNoticeNotification warns about deprecated usage.
type DeprecationNoticeNotification struct {
	Details *string `json:"details,omitempty"`
	Summary string  `json:"summary"`
}

// ConfigWarningNotification warns about configuration problems.
type ConfigWarningNotification struct {
	Details *string `json:"details,omitempty"`
	Summary string  `json:"summary"`
}

// WindowsWorldWritableWarningNotification lists world-writable paths.
type WindowsWorldWritableWarningNotification struct {
	SamplePaths []string `json:"samplePaths"`
	ExtraCount  int64    `json:"extraCount"`
	FailedScan  bool     `json:"failedScan"`
}

// RawResponseItemCompletedNotification carries a raw model response item.
type RawResponseItemCompletedNotification struct {
	ThreadID string          `json:"threadId"`
	TurnID   string          `json:"turnId"`
	Item     json.RawMessage `json:"item"`
}

func (ThreadStartedNotification) Method() string             { return NotifyThreadStarted }
func (TurnStartedNotification) Method() string               { return NotifyTurnStarted }
func (TurnCompletedNotification) Method() string             { return NotifyTurnCompleted }
func (ItemStartedNotification) Method() string               { return NotifyItemStarted }
func (ItemCompletedNotification) Method() string             { return NotifyItemCompleted }
func (AgentMessageDeltaNotification) Method() string         { return NotifyAgentMessageDelta }
func (ReasoningTextDeltaNotification) Method() string        { return NotifyReasoningTextDelta }
func (ReasoningSummaryTextDeltaNotification) Method() string { return NotifyReasoningSummaryTextDelta }
func (ReasoningSummaryPartAddedNotification) Method() string { return NotifyReasoningSummaryPartAdded }
func (CommandExecutionOutputDeltaNotification) Method() string {
	return NotifyCommandExecutionOutputDelta
}
func (TerminalInteractionNotification) Method() string     { return NotifyTerminalInteraction }
func (FileChangeOutputDeltaNotification) Method() string   { return NotifyFileChangeOutputDelta }
func (McpToolCallProgressNotification) Method() string     { return NotifyMcpToolCallProgress }
func (ErrorNotification) Method() string                   { return NotifyError }
func (ThreadTokenUsageUpdatedNotification) Method() string { return NotifyThreadTokenUsageUpdated }
func (TurnDiffUpdatedNotification) Method() string         { return NotifyTurnDiffUpdated }
func (TurnPlanUpdatedNotification) Method() string         { return NotifyTurnPlanUpdated }
func (ThreadCompactedNotification) Method() string         { return NotifyThreadCompacted }
func (AccountUpdatedNotification) Method() string          { return NotifyAccountUpdated }
func (AccountRateLimitsUpdatedNotification) Method() string {
	return NotifyAccountRateLimitsUpdated
}
func (AccountLoginCompletedNotification) Method() string { return NotifyAccountLoginCompleted }
func (McpServerOauthLoginCompletedNotification) Method() string {
	return NotifyMcpServerOauthLoginCompleted
}
func (AuthStatusChangeNotification) Method() string     { return NotifyAuthStatusChange }
func (LoginChatGptCompleteNotification) Method() string { return NotifyLoginChatGptComplete }
func (SessionConfiguredNotification) Method() string    { return NotifySessionConfigured }
func (DeprecationNoticeNotification) Method() string    { return NotifyDeprecationNotice }
func (ConfigWarningNotification) Method() string        { return NotifyConfigWarning }
func (WindowsWorldWritableWarningNotification) Method() string {
	return NotifyWindowsWorldWritableWarning
}
func (RawResponseItemCompletedNotification) Method() string { return NotifyRawResponseItemCompleted }

func (ThreadStartedNotification) isNotification()                {}
func (TurnStartedNotification) isNotification()                  {}
func (TurnCompletedNotification) isNotification()                {}
func (ItemStartedNotification) isNotification()                  {}
func (ItemCompletedNotification) isNotification()                {}
func (AgentMessageDeltaNotification) isNotification()            {}
func (ReasoningTextDeltaNotification) isNotification()           {}
func (ReasoningSummaryTextDeltaNotification) isNotification()    {}
func (ReasoningSummaryPartAddedNotification) isNotification()    {}
func (CommandExecutionOutputDeltaNotification) isNotification()  {}
func (TerminalInteractionNotification) isNotification()          {}
func (FileChangeOutputDeltaNotification) isNotification()        {}
func (McpToolCallProgressNotification) isNotification()          {}
func (ErrorNotification) isNotification()                        {}
func (ThreadTokenUsageUpdatedNotification) isNotification()      {}
func (TurnDiffUpdatedNotification) isNotification()              {}
func (TurnPlanUpdatedNotification) isNotification()              {}
func (ThreadCompactedNotification) isNotification()              {}
func (AccountUpdatedNotification) isNotification()               {}
func (AccountRateLimitsUpdatedNotification) isNotification()     {}
func (AccountLoginCompletedNotification) isNotification()        {}
func (McpServerOauthLoginCompletedNotification) isNotification() {}
func (AuthStatusChangeNotification) isNotification()             {}
func (LoginChatGptCompleteNotification) isNotification()         {}
func (SessionConfiguredNotification) isNotification()            {}
func (DeprecationNoticeNotification) isNotification()            {}
func (ConfigWarningNotification) isNotification()                {}
func (WindowsWorldWritableWarningNotification) isNotification()  {}
func (RawResponseItemCompletedNotification) isNotification()     {}

// UnmarshalJSON implements json.Unmarshaler.
func (n *ItemStartedNotification) UnmarshalJSON(data []byte) error {
	item, threadID, turnID, err := unmarshalItemParams(data)
	if err != nil {
		return err
	}
	*n = ItemStartedNotification{Item: item, ThreadID: threadID, TurnID: turnID}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *ItemCompletedNotification) UnmarshalJSON(data []byte) error {
	item, threadID, turnID, err := unmarshalItemParams(data)
	if err != nil {
		return err
	}
	*n = ItemCompletedNotification{Item: item, ThreadID: threadID, TurnID: turnID}
	return nil
}

func unmarshalItemParams(data []byte) (ThreadItem, string, string, error) {
	var wire struct {
		ThreadID string          `json:"threadId"`
		TurnID   string          `json:"turnId"`
		Item     json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, "", "", err
	}
	item, err := ParseThreadItem(wire.Item)
	if err != nil {
		return nil, "", "", fmt.Errorf("item: %w", err)
	}
	return item, wire.ThreadID, wire.TurnID, nil
}

var notificationDecoders = map[string]func([]byte) (Notification, error){
	NotifyThreadStarted:                tagged.As[ThreadStartedNotification, Notification],
	NotifyTurnStarted:                  tagged.As[TurnStartedNotification, Notification],
	NotifyTurnCompleted:                tagged.As[TurnCompletedNotification, Notification],
	NotifyItemStarted:                  tagged.As[ItemStartedNotification, Notification],
	NotifyItemCompleted:                tagged.As[ItemCompletedNotification, Notification],
	NotifyAgentMessageDelta:            tagged.As[AgentMessageDeltaNotification, Notification],
	NotifyReasoningTextDelta:           tagged.As[ReasoningTextDeltaNotification, Notification],
	NotifyReasoningSummaryTextDelta:    tagged.As[ReasoningSummaryTextDeltaNotification, Notification],
	NotifyReasoningSummaryPartAdded:    tagged.As[ReasoningSummaryPartAddedNotification, Notification],
	NotifyCommandExecutionOutputDelta:  tagged.As[CommandExecutionOutputDeltaNotification, Notification],
	NotifyTerminalInteraction:          tagged.As[TerminalInteractionNotification, Notification],
	NotifyFileChangeOutputDelta:        tagged.As[FileChangeOutputDeltaNotification, Notification],
	NotifyMcpToolCallProgress:          tagged.As[McpToolCallProgressNotification, Notification],
	NotifyError:                        tagged.As[ErrorNotification, Notification],
	NotifyThreadTokenUsageUpdated:      tagged.As[ThreadTokenUsageUpdatedNotification, Notification],
	NotifyTurnDiffUpdated:              tagged.As[TurnDiffUpdatedNotification, Notification],
	NotifyTurnPlanUpdated:              tagged.As[TurnPlanUpdatedNotification, Notification],
	NotifyThreadCompacted:              tagged.As[ThreadCompactedNotification, Notification],
	NotifyAccountUpdated:               tagged.As[AccountUpdatedNotification, Notification],
	NotifyAccountRateLimitsUpdated:     tagged.As[AccountRateLimitsUpdatedNotification, Notification],
	NotifyAccountLoginCompleted:        tagged.As[AccountLoginCompletedNotification, Notification],
	NotifyMcpServerOauthLoginCompleted: tagged.As[McpServerOauthLoginCompletedNotification, Notification],
	NotifyAuthStatusChange:             tagged.As[AuthStatusChangeNotification, Notification],
	NotifyLoginChatGptComplete:         tagged.As[LoginChatGptCompleteNotification, Notification],
	NotifySessionConfigured:            tagged.As[SessionConfiguredNotification, Notification],
	NotifyDeprecationNotice:            tagged.As[DeprecationNoticeNotification, Notification],
	NotifyConfigWarning:                tagged.As[ConfigWarningNotification, Notification],
	NotifyWindowsWorldWritableWarning:  tagged.As[WindowsWorldWritableWarningNotification, Notification],
	NotifyRawResponseItemCompleted:     tagged.As[RawResponseItemCompletedNotification, Notification],
}

// Methods returns every notification method, sorted.
func Methods() []string {
	return sortedKeys(notificationDecoders)
}

// wireNotification is the {"method","params"} envelope.
type wireNotification struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

// ParseNotification decodes a {"method","params"} notification line.
func ParseNotification(data []byte) (Notification, error) {
	var env struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse notification envelope: %w", err)
	}
	if env.Method == "" {
		return nil, fmt.Errorf("failed to parse notification: %w", tagged.ErrMissingTag)
	}
	dec, ok := notificationDecoders[env.Method]
	if !ok {
		return nil, &tagged.UnknownTagError{Key: "method", Tag: env.Method}
	}
	params := env.Params
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	n, err := dec(params)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s params: %w", env.Method, err)
	}
	return n, nil
}

// MarshalNotification encodes n in its {"method","params"} envelope.
func MarshalNotification(n Notification) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("marshal notification: nil")
	}
	b, err := json.Marshal(wireNotification{Method: n.Method(), Params: n})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", n.Method(), err)
	}
	return b, nil
}
