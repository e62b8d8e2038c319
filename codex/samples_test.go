package codex

import (
	"encoding/json"

	"github.com/bazelment/yoloswe/agentschema/universal"
)

// sampleNotifications returns one populated value per notification method.
func sampleNotifications() map[string]Notification {
	ptr := universal.Ptr[string]
	return map[string]Notification{
		NotifyThreadStarted: ThreadStartedNotification{Thread: Thread{
			ID: "thread-123", Preview: "fix the build", ModelProvider: "openai",
			Cwd: "/repo", CliVersion: "0.63.0", CreatedAt: 1730000000,
		}},
		NotifyTurnStarted: TurnStartedNotification{ThreadID: "thread-123", Turn: Turn{
			ID: "turn-456", Status: TurnStatusInProgress, Items: ThreadItems{},
		}},
		NotifyTurnCompleted: TurnCompletedNotification{ThreadID: "thread-123", Turn: Turn{
			ID: "turn-456", Status: TurnStatusCompleted,
			Items: ThreadItems{AgentMessageItem{ID: "msg-1", Text: "done"}},
		}},
		NotifyItemStarted: ItemStartedNotification{ThreadID: "thread-123", TurnID: "turn-456", Item: CommandExecutionItem{
			ID: "cmd-1", Command: "go test ./...", Cwd: "/repo",
			Status: CommandExecutionInProgress, CommandActions: []json.RawMessage{},
		}},
		NotifyItemCompleted: ItemCompletedNotification{ThreadID: "thread-123", TurnID: "turn-456",
			Item: AgentMessageItem{ID: "msg-123", Text: "Hello from Codex"}},
		NotifyAgentMessageDelta: AgentMessageDeltaNotification{
			ThreadID: "thread-123", TurnID: "turn-456", ItemID: "msg-123", Delta: "Hel",
		},
		NotifyReasoningTextDelta: ReasoningTextDeltaNotification{
			ThreadID: "thread-123", TurnID: "turn-456", ItemID: "rs-1", Delta: "thinking", ContentIndex: 1,
		},
		NotifyReasoningSummaryTextDelta: ReasoningSummaryTextDeltaNotification{
			ThreadID: "thread-123", TurnID: "turn-456", ItemID: "rs-1", Delta: "summary", SummaryIndex: 0,
		},
		NotifyReasoningSummaryPartAdded: ReasoningSummaryPartAddedNotification{
			ThreadID: "thread-123", TurnID: "turn-456", ItemID: "rs-1", SummaryIndex: 2,
		},
		NotifyCommandExecutionOutputDelta: CommandExecutionOutputDeltaNotification{
			ThreadID: "thread-123", TurnID: "turn-456", ItemID: "cmd-1", Delta: "ok\n",
		},
		NotifyTerminalInteraction: TerminalInteractionNotification{
			ThreadID: "thread-123", TurnID: "turn-456", ItemID: "cmd-1", ProcessID: "42", Stdin: "y\n",
		},
		NotifyFileChangeOutputDelta: FileChangeOutputDeltaNotification{
			ThreadID: "thread-123", TurnID: "turn-456", ItemID: "fc-1", Delta: "applied",
		},
		NotifyMcpToolCallProgress: McpToolCallProgressNotification{
			ThreadID: "thread-123", TurnID: "turn-456", ItemID: "mcp-1", Message: "50%",
		},
		NotifyError: ErrorNotification{
			Error:    TurnError{Message: "boom", AdditionalDetails: ptr("upstream 503")},
			ThreadID: "thread-123", TurnID: "turn-456", WillRetry: true,
		},
		NotifyThreadTokenUsageUpdated: ThreadTokenUsageUpdatedNotification{
			ThreadID: "thread-123", TurnID: "turn-456",
			TokenUsage: ThreadTokenUsage{
				Total:              TokenUsageBreakdown{TotalTokens: 120, InputTokens: 100, OutputTokens: 20},
				Last:               TokenUsageBreakdown{TotalTokens: 12, InputTokens: 10, OutputTokens: 2},
				ModelContextWindow: universal.Ptr(int64(200000)),
			},
		},
		NotifyTurnDiffUpdated: TurnDiffUpdatedNotification{
			ThreadID: "thread-123", TurnID: "turn-456", Diff: "--- a/x\n+++ b/x\n",
		},
		NotifyTurnPlanUpdated: TurnPlanUpdatedNotification{
			ThreadID: "thread-123", TurnID: "turn-456", Explanation: ptr("two steps"),
			Plan: []TurnPlanStep{{Step: "write code", Status: "completed"}, {Step: "run tests", Status: "inProgress"}},
		},
		NotifyThreadCompacted: ThreadCompactedNotification{ThreadID: "thread-123", TurnID: "turn-456"},
		NotifyAccountUpdated:  AccountUpdatedNotification{AuthMode: ptr("chatgpt")},
		NotifyAccountRateLimitsUpdated: AccountRateLimitsUpdatedNotification{
			RateLimits: json.RawMessage(`{"primary":{"usedPercent":10,"windowMinutes":300}}`),
		},
		NotifyAccountLoginCompleted: AccountLoginCompletedNotification{LoginID: ptr("login-1"), Success: true},
		NotifyMcpServerOauthLoginCompleted: McpServerOauthLoginCompletedNotification{
			Name: "github", Success: false, Error: ptr("denied"),
		},
		NotifyAuthStatusChange:     AuthStatusChangeNotification{AuthMethod: ptr("apikey")},
		NotifyLoginChatGptComplete: LoginChatGptCompleteNotification{LoginID: "login-2", Success: true},
		NotifySessionConfigured: SessionConfiguredNotification{
			SessionID: "sess-1", Model: "gpt-5-codex", RolloutPath: "/home/u/.codex/rollout.jsonl",
			HistoryLogID: 7, HistoryEntryCount: 3,
		},
		NotifyDeprecationNotice: DeprecationNoticeNotification{Summary: "old flag", Details: ptr("use --new")},
		NotifyConfigWarning:     ConfigWarningNotification{Summary: "unknown key"},
		NotifyWindowsWorldWritableWarning: WindowsWorldWritableWarningNotification{
			SamplePaths: []string{`C:\tmp`}, ExtraCount: 4, FailedScan: false,
		},
		NotifyRawResponseItemCompleted: RawResponseItemCompletedNotification{
			ThreadID: "thread-123", TurnID: "turn-456",
			Item: json.RawMessage(`{"type":"message","role":"assistant"}`),
		},
	}
}

// adminMethods never carry a thread id.
var adminMethods = map[string]bool{
	NotifyAccountUpdated:               true,
	NotifyAccountRateLimitsUpdated:     true,
	NotifyAccountLoginCompleted:        true,
	NotifyMcpServerOauthLoginCompleted: true,
	NotifyAuthStatusChange:             true,
	NotifyLoginChatGptComplete:         true,
	NotifySessionConfigured:            true,
	NotifyDeprecationNotice:            true,
	NotifyConfigWarning:                true,
	NotifyWindowsWorldWritableWarning:  true,
}
