package amp

import "encoding/json"

func ptr[T any](v T) *T { return &v }

func sampleMessage() Message {
	return Message{
		ID:    "m-1",
		Role:  "assistant",
		Model: "claude-sonnet-4-5",
		Content: BlockContent(
			TextBlock{Text: "Hello"},
			ThinkingBlock{Thinking: "hmm"},
			ToolUseBlock{ID: "tu-1", Name: "Bash", Input: json.RawMessage(`{"cmd":"ls"}`)},
			ToolResultBlock{ToolUseID: "tu-1", Run: ToolRun{Status: ToolRunDone, Result: json.RawMessage(`"main.go"`)}},
		),
		ToolCalls: []ToolCall{{ID: "tc-1", Name: "Grep", Arguments: json.RawMessage(`{"pattern":"TODO"}`)}},
	}
}

// sampleEvents returns one value per event type.
func sampleEvents() map[string]Event {
	return map[string]Event{
		EventThreadStarted: ThreadStarted{ThreadID: "T-1", Model: "claude-sonnet-4-5"},
		EventMessage:       MessageEvent{ThreadID: "T-1", Message: sampleMessage()},
		EventMessageDelta:  MessageDelta{ThreadID: "T-1", MessageID: "m-2", Kind: DeltaKindText, Delta: "Hel"},
		EventThreadCompleted: ThreadCompleted{ThreadID: "T-1", Messages: []Message{
			{ID: "m-0", Role: "user", Content: TextContent("list files")},
			sampleMessage(),
		}},
		EventToolRunUpdated: ToolRunUpdated{
			ThreadID: "T-1", ToolUseID: "tu-1", Name: "Bash", Run: ToolRun{Status: ToolRunInProgress},
		},
		EventError:           ErrorEvent{ThreadID: "T-1", Message: "overloaded", Code: "rate_limit", Retryable: true},
		EventUsage:           Usage{ThreadID: "T-1", InputTokens: 120, OutputTokens: 40, CacheReadTokens: 1000},
		EventThreadTitle:     ThreadTitle{ThreadID: "T-1", Title: "List files"},
		EventAuthChanged:     AuthChanged{User: "dev@example.com", Authenticated: true},
		EventSettingsUpdated: SettingsUpdated{Settings: json.RawMessage(`{"amp.notifications.enabled":false}`)},
		EventVersionNotice:   VersionNotice{Version: "0.0.1760000000", Message: "update available"},
	}
}

// adminEvents belong to no thread.
var adminEvents = map[string]bool{
	EventAuthChanged:     true,
	EventSettingsUpdated: true,
	EventVersionNotice:   true,
}
